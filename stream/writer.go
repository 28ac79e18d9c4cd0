package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Neumenon/primecode/primecode"
)

var _ primecode.Sink = (*DictionaryWriter)(nil)

// DictionaryWriter writes the forward and inverted dictionary formats.
// Each call writes one complete line straight to the underlying writer;
// buffering and flushing belong to the caller.
type DictionaryWriter struct {
	forward io.Writer
	inverse io.Writer
}

// NewDictionaryWriter creates a writer. A nil inverse discards inverted
// entries.
func NewDictionaryWriter(forward, inverse io.Writer) *DictionaryWriter {
	if inverse == nil {
		inverse = io.Discard
	}
	return &DictionaryWriter{forward: forward, inverse: inverse}
}

// WriteLayer writes one forward line:
//
//	{"layer 1": {"e": 6, "h": 10}}
func (w *DictionaryWriter) WriteLayer(layer *primecode.Layer) error {
	var line strings.Builder
	line.WriteString("{")
	line.WriteString(quote(layer.Key()))
	line.WriteString(": {")
	for i, e := range layer.Entries {
		if i > 0 {
			line.WriteString(", ")
		}
		line.WriteString(quote(string(e.Symbol)))
		line.WriteString(": ")
		line.WriteString(e.Code.String())
	}
	line.WriteString("}}\n")

	if _, err := io.WriteString(w.forward, line.String()); err != nil {
		return fmt.Errorf("write %s: %w", layer.Key(), err)
	}
	return nil
}

// WriteInverse writes one inverted line:
//
//	{"6": "e"}
func (w *DictionaryWriter) WriteInverse(code string, symbol rune) error {
	line := "{" + quote(code) + ": " + quote(string(symbol)) + "}\n"
	if _, err := io.WriteString(w.inverse, line); err != nil {
		return fmt.Errorf("write inverse %s: %w", code, err)
	}
	return nil
}

// WriteDictionary writes an already built dictionary and its inverse.
// A nil inv writes only the forward lines.
func (w *DictionaryWriter) WriteDictionary(d *primecode.Dictionary, inv *primecode.InvertedDictionary) error {
	for i := range d.Layers {
		if err := w.WriteLayer(&d.Layers[i]); err != nil {
			return err
		}
	}
	if inv == nil {
		return nil
	}
	for _, e := range inv.Entries() {
		if err := w.WriteInverse(e.Code, e.Symbol); err != nil {
			return err
		}
	}
	return nil
}

// quote returns s as a JSON string without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
