package primecode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Separator joins the tokens of an encoded line.
const Separator = ","

// UnmappedPolicy decides what Decode emits for a token with no symbol.
type UnmappedPolicy uint8

const (
	// DropUnmapped emits nothing for unmapped tokens.
	DropUnmapped UnmappedPolicy = iota
	// KeepLiterals keeps unmapped tokens that are not decimal numbers,
	// which restores characters passed through by Encode, and drops
	// unmapped numeric tokens.
	KeepLiterals
	// KeepUnmapped keeps every unmapped token verbatim.
	KeepUnmapped
)

// String returns the policy name.
func (p UnmappedPolicy) String() string {
	switch p {
	case DropUnmapped:
		return "drop"
	case KeepLiterals:
		return "literals"
	case KeepUnmapped:
		return "keep"
	default:
		return fmt.Sprintf("unknown(%d)", p)
	}
}

// ParseUnmappedPolicy parses "drop", "literals" or "keep".
func ParseUnmappedPolicy(s string) (UnmappedPolicy, error) {
	switch s {
	case "drop", "":
		return DropUnmapped, nil
	case "literals":
		return KeepLiterals, nil
	case "keep":
		return KeepUnmapped, nil
	default:
		return 0, fmt.Errorf("unknown unmapped policy: %q", s)
	}
}

// ============================================================
// Encoding
// ============================================================

// Encoder turns text lines into code lines. Build one per dictionary and
// reuse it; it is safe for concurrent use.
type Encoder struct {
	codes map[rune]string
}

// NewEncoder flattens every layer of d into a single symbol to code table.
func NewEncoder(d *Dictionary) *Encoder {
	codes := make(map[rune]string, d.Len())
	for i := range d.Layers {
		for _, e := range d.Layers[i].Entries {
			if _, ok := codes[e.Symbol]; !ok {
				codes[e.Symbol] = e.Code.String()
			}
		}
	}
	return &Encoder{codes: codes}
}

// EncodeLine encodes one line. Each rune becomes its decimal code, or itself
// when the dictionary has no entry for it. Tokens are joined by Separator.
func (e *Encoder) EncodeLine(line string) string {
	var sb strings.Builder
	first := true
	for _, r := range line {
		if !first {
			sb.WriteString(Separator)
		}
		first = false
		if code, ok := e.codes[r]; ok {
			sb.WriteString(code)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// EncodeStream reads newline separated lines from src and writes one
// encoded line per input line to dst.
func (e *Encoder) EncodeStream(dst io.Writer, src io.Reader) error {
	return mapLines(dst, src, e.EncodeLine)
}

// Encode encodes lines with d.
//
// Encode never fails: runes missing from d pass through literally. As a
// result it is not injective. A passthrough digit run can equal some code,
// and a passthrough "," is indistinguishable from the separator.
func Encode(lines []string, d *Dictionary) []string {
	enc := NewEncoder(d)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = enc.EncodeLine(line)
	}
	return out
}

// ============================================================
// Decoding
// ============================================================

// DecodeOption configures a Decoder.
type DecodeOption func(*Decoder)

// WithUnmappedPolicy selects how unmapped tokens are decoded.
func WithUnmappedPolicy(p UnmappedPolicy) DecodeOption {
	return func(d *Decoder) {
		d.policy = p
	}
}

// Decoder turns code lines back into text. Safe for concurrent use.
type Decoder struct {
	inv    *InvertedDictionary
	policy UnmappedPolicy
}

// NewDecoder creates a decoder over inv. Unmapped tokens are dropped unless
// an option says otherwise.
func NewDecoder(inv *InvertedDictionary, opts ...DecodeOption) *Decoder {
	d := &Decoder{inv: inv}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Policy returns the decoder's unmapped policy.
func (d *Decoder) Policy() UnmappedPolicy {
	return d.policy
}

// DecodeLine decodes one encoded line. An empty line decodes to an empty line.
func (d *Decoder) DecodeLine(line string) string {
	if line == "" {
		return ""
	}
	var sb strings.Builder
	for _, token := range strings.Split(line, Separator) {
		if sym, ok := d.inv.Lookup(token); ok {
			sb.WriteRune(sym)
			continue
		}
		switch d.policy {
		case KeepUnmapped:
			sb.WriteString(token)
		case KeepLiterals:
			if !isDecimal(token) {
				sb.WriteString(token)
			}
		}
	}
	return sb.String()
}

// DecodeStream reads encoded lines from src and writes decoded lines to dst.
func (d *Decoder) DecodeStream(dst io.Writer, src io.Reader) error {
	return mapLines(dst, src, d.DecodeLine)
}

// Decode decodes lines with inv. For any text whose runes all appear in the
// dictionary, Decode(Encode(text)) == text.
func Decode(lines []string, inv *InvertedDictionary, opts ...DecodeOption) []string {
	dec := NewDecoder(inv, opts...)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = dec.DecodeLine(line)
	}
	return out
}

func isDecimal(token string) bool {
	if token == "" {
		return false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return false
		}
	}
	return true
}

// mapLines applies fn to every '\n' terminated line of src. A final line
// without a terminator is still mapped; output lines always end in '\n'.
func mapLines(dst io.Writer, src io.Reader, fn func(string) string) error {
	r := bufio.NewReader(src)
	w := bufio.NewWriter(dst)
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read line: %w", err)
		}
		if line == "" && err != nil {
			break
		}
		line = strings.TrimSuffix(line, "\n")
		if _, werr := w.WriteString(fn(line)); werr != nil {
			return fmt.Errorf("write line: %w", werr)
		}
		if werr := w.WriteByte('\n'); werr != nil {
			return fmt.Errorf("write line: %w", werr)
		}
		if err != nil {
			break
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
