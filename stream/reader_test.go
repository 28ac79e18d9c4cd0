package stream

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Neumenon/primecode/primecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDictionary_RoundTrip(t *testing.T) {
	lines := []string{"hello kopo", "hello my name is kopo", "ünï 😀 \"quoted\" <tag>"}

	var forward, inverse bytes.Buffer
	d, inv, err := primecode.BuildFromLines(lines,
		primecode.WithSeed(21),
		primecode.WithSink(NewDictionaryWriter(&forward, &inverse)))
	require.NoError(t, err)

	loaded, err := ReadDictionary(&forward)
	require.NoError(t, err)
	assert.Equal(t, d.Layers, loaded.Layers)

	loadedInv, err := ReadInverted(&inverse)
	require.NoError(t, err)
	assert.Equal(t, inv.Entries(), loadedInv.Entries())

	encoded := primecode.Encode(lines, loaded)
	assert.Equal(t, lines, primecode.Decode(encoded, loadedInv))
}

func TestReadDictionary_Empty(t *testing.T) {
	d, err := ReadDictionary(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())

	inv, err := ReadInverted(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Len())
}

func TestReadDictionary_CRLF(t *testing.T) {
	in := "{\"layer 0\": {\"a\": 2}}\r\n{\"layer 1\": {\"b\": 6}}\r\n"
	d, err := ReadDictionary(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}

func TestReadDictionary_NoTrailingNewline(t *testing.T) {
	d, err := ReadDictionary(strings.NewReader(`{"layer 0": {"a": 2}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
}

func TestReadDictionary_Big(t *testing.T) {
	in := `{"layer 0": {"a": 18446744073709551557}}` + "\n" +
		`{"layer 1": {"b": 55340232221128654671, "c": 92233720368547757785}}` + "\n"
	d, err := ReadDictionary(strings.NewReader(in))
	require.NoError(t, err)
	code, ok := d.Lookup('c')
	require.True(t, ok)
	assert.Equal(t, "92233720368547757785", code.String())
}

func TestReadDictionary_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"not_json", "nope\n", 1},
		{"truncated", `{"layer 0": {"a": 2}` + "\n", 1},
		{"wrong_layer_name", `{"level 0": {"a": 2}}` + "\n", 1},
		{"out_of_order", `{"layer 0": {"a": 2}}` + "\n" + `{"layer 2": {"b": 6}}` + "\n", 2},
		{"string_code", `{"layer 0": {"a": "2"}}` + "\n", 1},
		{"float_code", `{"layer 0": {"a": 2.5}}` + "\n", 1},
		{"negative_code", `{"layer 0": {"a": -2}}` + "\n", 1},
		{"multi_char_symbol", `{"layer 0": {"ab": 2}}` + "\n", 1},
		{"extra_key", `{"layer 0": {"a": 2}, "layer 1": {}}` + "\n", 1},
		{"trailing_data", `{"layer 0": {"a": 2}} x` + "\n", 1},
		{"blank_line", `{"layer 0": {"a": 2}}` + "\n\n" + `{"layer 1": {"b": 6}}` + "\n", 2},
		{"array", `[1, 2]` + "\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ReadDictionary(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Nil(t, d)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %T: %v", err, err)
			assert.Equal(t, tt.line, pe.Line)
			assert.False(t, errors.Is(err, io.EOF))
		})
	}
}

func TestReadDictionary_InvalidStructure(t *testing.T) {
	// Well-formed lines, but 15 is not a multiple of 2.
	in := `{"layer 0": {"a": 2}}` + "\n" + `{"layer 1": {"b": 6, "c": 15}}` + "\n"
	_, err := ReadDictionary(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, primecode.ErrInvalidDictionary))
}

func TestLayerReader_Stream(t *testing.T) {
	in := `{"layer 0": {"a": 2}}` + "\n" + `{"layer 1": {"b": 6, "c": 10}}` + "\n"
	lr := NewLayerReader(strings.NewReader(in))

	l0, err := lr.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, l0.Index)
	assert.Equal(t, 1, l0.Len())

	l1, err := lr.Next()
	require.NoError(t, err)
	assert.Equal(t, "layer 1", l1.Key())
	assert.Equal(t, []rune{'b', 'c'}, []rune{l1.Entries[0].Symbol, l1.Entries[1].Symbol})

	_, err = lr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReadInverted_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not_json", "{\n"},
		{"number_value", `{"2": 2}` + "\n"},
		{"bad_code", `{"x": "a"}` + "\n"},
		{"leading_zero", `{"02": "a"}` + "\n"},
		{"two_pairs", `{"2": "a", "6": "b"}` + "\n"},
		{"empty_symbol", `{"2": ""}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := ReadInverted(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Nil(t, inv)

			var pe *ParseError
			assert.True(t, errors.As(err, &pe), "got %T: %v", err, err)
		})
	}
}

func TestReadInverted_Duplicates(t *testing.T) {
	in := `{"2": "a"}` + "\n" + `{"2": "b"}` + "\n"
	_, err := ReadInverted(strings.NewReader(in))
	assert.True(t, errors.Is(err, primecode.ErrDuplicateCode))
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Line: 3, Reason: "bad layer name \"x\""}
	assert.Equal(t, `primecode: line 3: bad layer name "x"`, err.Error())

	wrapped := &ParseError{Line: 1, Reason: "invalid JSON", Err: io.ErrUnexpectedEOF}
	assert.True(t, errors.Is(wrapped, io.ErrUnexpectedEOF))
	assert.Contains(t, wrapped.Error(), "unexpected EOF")
}
