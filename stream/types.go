// Package stream persists primecode dictionaries as line-delimited JSON.
//
// Two files describe a dictionary:
//   - Forward: one line per layer, {"layer <k>": {"<symbol>": <code>, ...}}
//   - Inverted: one line per code, {"<code>": "<symbol>"}
//
// DictionaryWriter implements primecode.Sink, so a dictionary can be written
// while it is being built, one layer at a time. LayerReader and InverseReader
// read the files back a line at a time; ReadDictionary and ReadInverted load
// them whole.
//
// Files may be compressed with zstd or lz4, picked by extension. A dictionary
// can also be stored as a single CBOR snapshot carrying its fingerprint.
package stream

import (
	"errors"
	"fmt"
)

// ErrFingerprintMismatch is returned when a snapshot's recorded fingerprint
// does not match its contents.
var ErrFingerprintMismatch = errors.New("fingerprint mismatch")

// ParseError reports a malformed line in a persisted dictionary.
type ParseError struct {
	Line   int // 1-based line number
	Reason string
	Err    error // underlying JSON error, if any
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("primecode: line %d: %s", e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
