package stream

import (
	"fmt"
	"math/big"

	"github.com/Neumenon/primecode/primecode"
	"github.com/fxamacker/cbor/v2"
)

// SnapshotVersion is the current snapshot layout.
const SnapshotVersion = 1

// encMode uses Core Deterministic Encoding so the same dictionary always
// yields the same bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("stream: CBOR encoder initialization failed: " + err.Error())
	}
}

type snapshot struct {
	Version     int               `cbor:"1,keyasint"`
	Fingerprint []byte            `cbor:"2,keyasint"`
	Layers      [][]snapshotEntry `cbor:"3,keyasint"`
}

type snapshotEntry struct {
	_      struct{} `cbor:",toarray"`
	Symbol int32
	Code   []byte // big-endian magnitude
}

// MarshalSnapshot encodes d as a single CBOR document carrying its
// fingerprint.
func MarshalSnapshot(d *primecode.Dictionary) ([]byte, error) {
	fp := Fingerprint(d)
	doc := snapshot{
		Version:     SnapshotVersion,
		Fingerprint: fp[:],
		Layers:      make([][]snapshotEntry, len(d.Layers)),
	}
	for k := range d.Layers {
		entries := make([]snapshotEntry, len(d.Layers[k].Entries))
		for i, e := range d.Layers[k].Entries {
			entries[i] = snapshotEntry{Symbol: e.Symbol, Code: e.Code.Bytes()}
		}
		doc.Layers[k] = entries
	}
	return encMode.Marshal(doc)
}

// UnmarshalSnapshot decodes a snapshot, checks the dictionary invariants and
// verifies the recorded fingerprint.
func UnmarshalSnapshot(data []byte) (*primecode.Dictionary, error) {
	var doc snapshot
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d not supported", doc.Version)
	}

	layers := make([]primecode.Layer, len(doc.Layers))
	for k, entries := range doc.Layers {
		layer := primecode.Layer{Index: k, Entries: make([]primecode.Entry, len(entries))}
		for i, e := range entries {
			layer.Entries[i] = primecode.Entry{Symbol: e.Symbol, Code: new(big.Int).SetBytes(e.Code)}
		}
		layers[k] = layer
	}

	d, err := primecode.NewDictionary(layers)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	fp := Fingerprint(d)
	if string(fp[:]) != string(doc.Fingerprint) {
		return nil, fmt.Errorf("snapshot: %w: recorded %x, computed %s", ErrFingerprintMismatch, doc.Fingerprint, fp)
	}
	return d, nil
}
