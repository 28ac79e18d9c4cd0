package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Neumenon/primecode/primecode"
)

// lineReader yields '\n' terminated lines with their 1-based numbers.
type lineReader struct {
	r    *bufio.Reader
	line int
}

func newLineReader(r io.Reader) lineReader {
	return lineReader{r: bufio.NewReader(r)}
}

// next returns the next line without its terminator, or io.EOF.
func (lr *lineReader) next() (string, error) {
	line, err := lr.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", io.EOF
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read line %d: %w", lr.line+1, err)
		}
	}
	lr.line++
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// ============================================================
// Forward dictionary
// ============================================================

// LayerReader reads forward dictionary lines one layer at a time.
type LayerReader struct {
	lines lineReader
	next  int
}

// NewLayerReader creates a reader over forward dictionary lines.
func NewLayerReader(r io.Reader) *LayerReader {
	return &LayerReader{lines: newLineReader(r)}
}

// Next reads the next layer. Layers must appear in ascending order starting
// at 0. Returns io.EOF when no more layers are available.
//
// Only the shape of the line is checked here; ReadDictionary checks the
// dictionary invariants once every layer is in.
func (lr *LayerReader) Next() (*primecode.Layer, error) {
	line, err := lr.lines.next()
	if err != nil {
		return nil, err
	}
	layer, err := parseLayerLine(line, lr.next)
	if err != nil {
		return nil, lineError(lr.lines.line, err)
	}
	lr.next++
	return layer, nil
}

// ReadDictionary loads and validates a forward dictionary. Nothing is
// returned unless every line parses and the result is a valid dictionary.
func ReadDictionary(r io.Reader) (*primecode.Dictionary, error) {
	lr := NewLayerReader(r)
	var layers []primecode.Layer
	for {
		layer, err := lr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		layers = append(layers, *layer)
	}

	d, err := primecode.NewDictionary(layers)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	return d, nil
}

// parseLayerLine parses {"layer <k>": {"<symbol>": <code>, ...}}, keeping
// the key order of the inner object.
func parseLayerLine(line string, want int) (*primecode.Layer, error) {
	if strings.TrimSpace(line) == "" {
		return nil, &ParseError{Reason: "empty line"}
	}
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	key, err := expectString(dec)
	if err != nil {
		return nil, err
	}
	index, err := parseLayerKey(key)
	if err != nil {
		return nil, err
	}
	if index != want {
		return nil, &ParseError{Reason: fmt.Sprintf("found %q, want %q", key, primecode.LayerKey(want))}
	}
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	layer := &primecode.Layer{Index: index}
	for dec.More() {
		symKey, err := expectString(dec)
		if err != nil {
			return nil, err
		}
		sym, err := parseSymbol(symKey)
		if err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		num, ok := tok.(json.Number)
		if !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("code of %q is %T, want number", symKey, tok)}
		}
		code, err := parseCode(string(num))
		if err != nil {
			return nil, err
		}
		layer.Entries = append(layer.Entries, primecode.Entry{Symbol: sym, Code: code})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if err := expectEnd(dec); err != nil {
		return nil, err
	}
	return layer, nil
}

func parseLayerKey(key string) (int, error) {
	digits, ok := strings.CutPrefix(key, primecode.LayerKeyPrefix)
	if !ok || !isDecimal(digits) {
		return 0, &ParseError{Reason: fmt.Sprintf("bad layer name %q", key)}
	}
	index, err := strconv.Atoi(digits)
	if err != nil {
		return 0, &ParseError{Reason: fmt.Sprintf("bad layer name %q", key), Err: err}
	}
	return index, nil
}

// ============================================================
// Inverted dictionary
// ============================================================

// InverseReader reads inverted dictionary lines one entry at a time.
type InverseReader struct {
	lines lineReader
}

// NewInverseReader creates a reader over inverted dictionary lines.
func NewInverseReader(r io.Reader) *InverseReader {
	return &InverseReader{lines: newLineReader(r)}
}

// Next reads the next entry. Returns io.EOF when no more entries are
// available.
func (ir *InverseReader) Next() (primecode.InverseEntry, error) {
	line, err := ir.lines.next()
	if err != nil {
		return primecode.InverseEntry{}, err
	}
	entry, err := parseInverseLine(line)
	if err != nil {
		return primecode.InverseEntry{}, lineError(ir.lines.line, err)
	}
	return entry, nil
}

// ReadInverted loads an inverted dictionary. Nothing is returned unless
// every line parses and the mapping is one-to-one.
func ReadInverted(r io.Reader) (*primecode.InvertedDictionary, error) {
	ir := NewInverseReader(r)
	var entries []primecode.InverseEntry
	for {
		entry, err := ir.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		entries = append(entries, entry)
	}

	inv, err := primecode.NewInvertedDictionary(entries)
	if err != nil {
		return nil, fmt.Errorf("load inverted dictionary: %w", err)
	}
	return inv, nil
}

// parseInverseLine parses {"<code>": "<symbol>"}.
func parseInverseLine(line string) (primecode.InverseEntry, error) {
	if strings.TrimSpace(line) == "" {
		return primecode.InverseEntry{}, &ParseError{Reason: "empty line"}
	}
	dec := json.NewDecoder(strings.NewReader(line))

	if err := expectDelim(dec, '{'); err != nil {
		return primecode.InverseEntry{}, err
	}
	codeKey, err := expectString(dec)
	if err != nil {
		return primecode.InverseEntry{}, err
	}
	code, err := parseCode(codeKey)
	if err != nil {
		return primecode.InverseEntry{}, err
	}
	symKey, err := expectString(dec)
	if err != nil {
		return primecode.InverseEntry{}, err
	}
	sym, err := parseSymbol(symKey)
	if err != nil {
		return primecode.InverseEntry{}, err
	}
	if err := expectDelim(dec, '}'); err != nil {
		return primecode.InverseEntry{}, err
	}
	if err := expectEnd(dec); err != nil {
		return primecode.InverseEntry{}, err
	}
	return primecode.InverseEntry{Code: code.String(), Symbol: sym}, nil
}

// ============================================================
// Token helpers
// ============================================================

// lineError stamps err with its line number. A line that ends mid-object
// must not look like the end of the file to callers.
func lineError(line int, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Line = line
		return pe
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &ParseError{Line: line, Reason: "invalid JSON", Err: err}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return &ParseError{Reason: fmt.Sprintf("found %v, want %q", tok, want)}
	}
	return nil
}

func expectString(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", &ParseError{Reason: fmt.Sprintf("found %v, want string", tok)}
	}
	return s, nil
}

func expectEnd(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &ParseError{Reason: "trailing data after object"}
	}
	return nil
}

func parseSymbol(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, &ParseError{Reason: fmt.Sprintf("symbol %q is not a single character", s)}
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// parseCode accepts a positive decimal integer without sign or leading zeros.
func parseCode(s string) (*big.Int, error) {
	if !isDecimal(s) || s[0] == '0' {
		return nil, &ParseError{Reason: fmt.Sprintf("code %q is not a positive integer", s)}
	}
	code, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &ParseError{Reason: fmt.Sprintf("code %q is not a positive integer", s)}
	}
	return code, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
