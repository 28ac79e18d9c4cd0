package stream

import (
	"errors"
	"testing"

	"github.com/Neumenon/primecode/primecode"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	d, _, err := primecode.BuildFromLines([]string{"snapshot ünïcode 😀"}, primecode.WithSeed(13))
	require.NoError(t, err)

	data, err := MarshalSnapshot(d)
	require.NoError(t, err)

	again, err := MarshalSnapshot(d)
	require.NoError(t, err)
	assert.Equal(t, data, again, "deterministic encoding")

	loaded, err := UnmarshalSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, d.Layers, loaded.Layers)
	assert.Equal(t, Fingerprint(d), Fingerprint(loaded))
}

func TestSnapshot_Empty(t *testing.T) {
	d, _, err := primecode.Build(nil)
	require.NoError(t, err)

	data, err := MarshalSnapshot(d)
	require.NoError(t, err)
	loaded, err := UnmarshalSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestSnapshot_TamperedFingerprint(t *testing.T) {
	d, _ := fixedDictionary(t)
	data, err := MarshalSnapshot(d)
	require.NoError(t, err)

	var doc snapshot
	require.NoError(t, cbor.Unmarshal(data, &doc))
	doc.Fingerprint[0] ^= 0xff
	tampered, err := encMode.Marshal(doc)
	require.NoError(t, err)

	_, err = UnmarshalSnapshot(tampered)
	assert.True(t, errors.Is(err, ErrFingerprintMismatch), "got %v", err)
}

func TestSnapshot_TamperedCode(t *testing.T) {
	d, _ := fixedDictionary(t)
	data, err := MarshalSnapshot(d)
	require.NoError(t, err)

	var doc snapshot
	require.NoError(t, cbor.Unmarshal(data, &doc))
	doc.Layers[1][0].Code = []byte{7} // b: 6 -> 7, not a multiple of a=2
	tampered, err := encMode.Marshal(doc)
	require.NoError(t, err)

	_, err = UnmarshalSnapshot(tampered)
	assert.True(t, errors.Is(err, primecode.ErrInvalidDictionary), "got %v", err)
}

func TestSnapshot_BadInput(t *testing.T) {
	_, err := UnmarshalSnapshot([]byte{0xff, 0x00})
	assert.Error(t, err)

	data, err := encMode.Marshal(snapshot{Version: 99})
	require.NoError(t, err)
	_, err = UnmarshalSnapshot(data)
	assert.Error(t, err)
}
