package stream

import (
	"encoding/hex"
	"fmt"

	"github.com/Neumenon/primecode/primecode"
	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 dictionary fingerprint.
type Hash [32]byte

// fingerprintKey keys the BLAKE3 hash so fingerprints never collide with
// plain hashes of the same bytes. ASCII "primecode.dictionary", zero-padded.
var fingerprintKey = [32]byte{
	'p', 'r', 'i', 'm', 'e', 'c', 'o', 'd', 'e', '.', 'd', 'i', 'c', 't', 'i', 'o',
	'n', 'a', 'r', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Fingerprint hashes the forward lines of d. Two dictionaries share a
// fingerprint exactly when their forward files are byte-identical.
func Fingerprint(d *primecode.Dictionary) Hash {
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("stream: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	w := NewDictionaryWriter(hasher, nil)
	for i := range d.Layers {
		// Writes into a hasher cannot fail.
		_ = w.WriteLayer(&d.Layers[i])
	}

	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}

// String returns the lowercase hex form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHash parses a 64-character hex fingerprint.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 2*len(h) {
		return h, fmt.Errorf("fingerprint %q: want %d hex characters", s, 2*len(h))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("fingerprint %q: %w", s, err)
	}
	return h, nil
}
