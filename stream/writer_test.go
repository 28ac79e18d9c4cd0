package stream

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/Neumenon/primecode/primecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedDictionary returns a=2, b=6, c=10, d=42 regardless of randomness.
func fixedDictionary(t *testing.T) (*primecode.Dictionary, *primecode.InvertedDictionary) {
	t.Helper()
	pool := primecode.NewPrimePoolFrom([]uint64{11, 7, 5, 3, 2})
	d, inv, err := primecode.Build([]rune("abcd"), primecode.WithPool(pool))
	require.NoError(t, err)
	return d, inv
}

func TestWriter_Format(t *testing.T) {
	var forward, inverse bytes.Buffer
	pool := primecode.NewPrimePoolFrom([]uint64{11, 7, 5, 3, 2})
	_, _, err := primecode.Build([]rune("abcd"),
		primecode.WithPool(pool),
		primecode.WithSink(NewDictionaryWriter(&forward, &inverse)))
	require.NoError(t, err)

	assert.Equal(t,
		`{"layer 0": {"a": 2}}`+"\n"+
			`{"layer 1": {"b": 6, "c": 10}}`+"\n"+
			`{"layer 2": {"d": 42}}`+"\n",
		forward.String())
	assert.Equal(t,
		`{"2": "a"}`+"\n"+
			`{"6": "b"}`+"\n"+
			`{"10": "c"}`+"\n"+
			`{"42": "d"}`+"\n",
		inverse.String())
}

func TestWriter_Escaping(t *testing.T) {
	var forward bytes.Buffer
	w := NewDictionaryWriter(&forward, nil)
	err := w.WriteLayer(&primecode.Layer{Index: 0, Entries: []primecode.Entry{
		{Symbol: '"', Code: big.NewInt(3)},
	}})
	require.NoError(t, err)
	require.NoError(t, w.WriteLayer(&primecode.Layer{Index: 1, Entries: []primecode.Entry{
		{Symbol: '<', Code: big.NewInt(15)},
		{Symbol: '\n', Code: big.NewInt(21)},
	}}))

	assert.Equal(t,
		`{"layer 0": {"\"": 3}}`+"\n"+
			`{"layer 1": {"<": 15, "\n": 21}}`+"\n",
		forward.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriter_Error(t *testing.T) {
	_, _, err := primecode.BuildFromLines([]string{"abc"},
		primecode.WithSeed(1),
		primecode.WithSink(NewDictionaryWriter(failingWriter{}, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestWriteDictionary(t *testing.T) {
	d, inv := fixedDictionary(t)

	var forward, inverse bytes.Buffer
	require.NoError(t, NewDictionaryWriter(&forward, &inverse).WriteDictionary(d, inv))
	assert.Equal(t, 3, bytes.Count(forward.Bytes(), []byte("\n")))
	assert.Equal(t, 4, bytes.Count(inverse.Bytes(), []byte("\n")))

	forward.Reset()
	require.NoError(t, NewDictionaryWriter(&forward, nil).WriteDictionary(d, nil))
	assert.Equal(t, 3, bytes.Count(forward.Bytes(), []byte("\n")))
}
