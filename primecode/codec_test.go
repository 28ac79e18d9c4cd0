package primecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]string{
		{"hello my name is kopo", "hello kopo"},
		{"IOPOI PODI", "DI"},
		{"12 34 19", "98 09 12 13"},
		{"////?????? ####,,,,....======"},
		{"Ho mo lo 123-123-234-55", "Po om pol #pom", "1 + 2 = 3"},
		{"", "blank lines", "", "survive"},
		{"ünïcödé ☃ 😀 漢字"},
	}

	for i, lines := range cases {
		d, inv, err := BuildFromLines(lines, WithSeed(uint64(i)))
		require.NoError(t, err)

		encoded := Encode(lines, d)
		decoded := Decode(encoded, inv)
		if diff := cmp.Diff(lines, decoded); diff != "" {
			t.Errorf("case %d round trip mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRoundTrip_Subset(t *testing.T) {
	d, inv, err := BuildFromLines([]string{"hello kopo", "hello my name is kopo"}, WithSeed(11))
	require.NoError(t, err)

	text := []string{"hello kopo"}
	assert.Equal(t, text, Decode(Encode(text, d), inv))

	text = []string{"some", "pokes"}
	assert.Equal(t, text, Decode(Encode(text, d), inv))
}

func TestEncode_SingleSymbol(t *testing.T) {
	d, inv, err := Build([]rune{'a'}, WithPool(NewPrimePoolFrom([]uint64{5})))
	require.NoError(t, err)

	assert.Equal(t, []string{"5"}, Encode([]string{"a"}, d))
	assert.Equal(t, []string{"5,5,5"}, Encode([]string{"aaa"}, d))
	assert.Equal(t, []string{"a"}, Decode([]string{"5"}, inv))
}

func TestEncode_Format(t *testing.T) {
	// a=2 b=6 c=10
	d, _, err := Build([]rune("abc"), WithPool(NewPrimePoolFrom([]uint64{5, 3, 2})))
	require.NoError(t, err)

	enc := NewEncoder(d)
	assert.Equal(t, "2,6,10", enc.EncodeLine("abc"))
	assert.Equal(t, "10,x,2", enc.EncodeLine("cxa"))
	assert.Equal(t, "", enc.EncodeLine(""))
}

func TestEmptyAlphabet_Identity(t *testing.T) {
	d, inv, err := Build(nil)
	require.NoError(t, err)

	assert.Empty(t, Encode(nil, d))
	assert.Empty(t, Decode(nil, inv))
	assert.Equal(t, []string{""}, Encode([]string{""}, d))
	assert.Equal(t, []string{""}, Decode([]string{""}, inv))
}

func TestPassthrough(t *testing.T) {
	d, inv, err := BuildFromLines([]string{"hi there"}, WithSeed(2))
	require.NoError(t, err)

	encoded := Encode([]string{"hi 😀"}, d)
	tokens := strings.Split(encoded[0], Separator)
	require.Len(t, tokens, 4)
	assert.Equal(t, "😀", tokens[3], "unknown rune is emitted literally")

	assert.Equal(t, []string{"hi 😀"}, Decode(encoded, inv, WithUnmappedPolicy(KeepLiterals)))
	assert.Equal(t, []string{"hi 😀"}, Decode(encoded, inv, WithUnmappedPolicy(KeepUnmapped)))
	assert.Equal(t, []string{"hi "}, Decode(encoded, inv), "dropped by default")
}

func TestDecode_UnmappedPolicies(t *testing.T) {
	d, inv, err := Build([]rune("ab"), WithPool(NewPrimePoolFrom([]uint64{3, 2})))
	require.NoError(t, err)
	require.Equal(t, "2,6", NewEncoder(d).EncodeLine("ab"))

	line := "2,999,x,6"
	tests := []struct {
		policy UnmappedPolicy
		want   string
	}{
		{DropUnmapped, "ab"},
		{KeepLiterals, "axb"},
		{KeepUnmapped, "a999xb"},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			dec := NewDecoder(inv, WithUnmappedPolicy(tt.policy))
			assert.Equal(t, tt.policy, dec.Policy())
			assert.Equal(t, tt.want, dec.DecodeLine(line))
		})
	}
}

// A passthrough digit that textually equals a code decodes as that code's
// symbol. This is the documented ambiguity of passthrough encoding.
func TestEncode_NotInjective(t *testing.T) {
	d, inv, err := Build([]rune("ab"), WithPool(NewPrimePoolFrom([]uint64{3, 2})))
	require.NoError(t, err)

	encoded := Encode([]string{"a2"}, d)
	assert.Equal(t, []string{"2,2"}, encoded)
	assert.Equal(t, []string{"aa"}, Decode(encoded, inv))
}

func TestParseUnmappedPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    UnmappedPolicy
		wantErr bool
	}{
		{"", DropUnmapped, false},
		{"drop", DropUnmapped, false},
		{"literals", KeepLiterals, false},
		{"keep", KeepUnmapped, false},
		{"preserve", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseUnmappedPolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestStreams(t *testing.T) {
	lines := []string{"stream me", "", "line three"}
	d, inv, err := BuildFromLines(lines, WithSeed(8))
	require.NoError(t, err)

	var encoded bytes.Buffer
	// No trailing newline on the last line.
	require.NoError(t, NewEncoder(d).EncodeStream(&encoded, strings.NewReader(strings.Join(lines, "\n"))))
	assert.Equal(t, strings.Join(Encode(lines, d), "\n")+"\n", encoded.String())

	var decoded bytes.Buffer
	require.NoError(t, NewDecoder(inv).DecodeStream(&decoded, &encoded))
	assert.Equal(t, strings.Join(lines, "\n")+"\n", decoded.String())
}

func TestStreams_Empty(t *testing.T) {
	d, _, err := Build(nil)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, NewEncoder(d).EncodeStream(&out, strings.NewReader("")))
	assert.Empty(t, out.String())
}

func TestIsDecimal(t *testing.T) {
	assert.True(t, isDecimal("0"))
	assert.True(t, isDecimal("12345678901234567890123"))
	assert.False(t, isDecimal(""))
	assert.False(t, isDecimal("-1"))
	assert.False(t, isDecimal("1a"))
	assert.False(t, isDecimal("١٢")) // Arabic-Indic digits
}
