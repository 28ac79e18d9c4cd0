package primecode

import (
	"fmt"
	"math/big"
	"strconv"
)

// LayerKeyPrefix prefixes the layer index in persisted layer names ("layer 0").
const LayerKeyPrefix = "layer "

// maxLayers bounds layer indexes. 2^21 slots already exceed the number of
// Unicode code points.
const maxLayers = 22

// ============================================================
// Layers
// ============================================================

// Entry is one symbol placed in a layer.
type Entry struct {
	Symbol rune
	Code   *big.Int
	// Parent is the position of the parent entry in the previous layer,
	// or -1 in layer 0.
	Parent int
}

// Layer is one level of the code tree. Entries keep assignment order, which
// is what parent positions refer to.
type Layer struct {
	Index   int
	Entries []Entry
}

// Len returns the number of entries in the layer.
func (l *Layer) Len() int {
	return len(l.Entries)
}

// Key returns the persisted layer name, e.g. "layer 3".
func (l *Layer) Key() string {
	return LayerKey(l.Index)
}

// LayerKey returns the persisted name of layer k.
func LayerKey(k int) string {
	return LayerKeyPrefix + strconv.Itoa(k)
}

// Capacity returns the number of slots in layer k: 2^k.
func Capacity(k int) int {
	if k < 0 {
		return 0
	}
	return 1 << k
}

// ParentIndex returns the position in the previous layer that slot feeds
// from. It is slot/2, clamped to the previous layer's last entry.
func ParentIndex(slot, prevLen int) int {
	i := slot / 2
	if i >= prevLen {
		i = prevLen - 1
	}
	return i
}

// ============================================================
// Dictionary
// ============================================================

// Dictionary maps symbols to codes, organized as layers. It is immutable
// once built and safe to share between goroutines.
type Dictionary struct {
	Layers []Layer

	bySymbol map[rune]*big.Int
}

// NewDictionary assembles a dictionary from explicit layers, recomputing
// parent positions and checking every structural invariant. It is the entry
// point for dictionaries loaded from storage.
func NewDictionary(layers []Layer) (*Dictionary, error) {
	d := &Dictionary{
		Layers:   make([]Layer, len(layers)),
		bySymbol: make(map[rune]*big.Int),
	}
	for k, layer := range layers {
		entries := make([]Entry, len(layer.Entries))
		for i, e := range layer.Entries {
			parent := -1
			if k > 0 {
				parent = ParentIndex(i, len(layers[k-1].Entries))
			}
			entries[i] = Entry{Symbol: e.Symbol, Code: e.Code, Parent: parent}
			d.bySymbol[e.Symbol] = e.Code
		}
		d.Layers[k] = Layer{Index: layer.Index, Entries: entries}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Len returns the number of symbols.
func (d *Dictionary) Len() int {
	n := 0
	for i := range d.Layers {
		n += len(d.Layers[i].Entries)
	}
	return n
}

// Depth returns the number of layers.
func (d *Dictionary) Depth() int {
	return len(d.Layers)
}

// Lookup returns the code of sym.
func (d *Dictionary) Lookup(sym rune) (*big.Int, bool) {
	code, ok := d.bySymbol[sym]
	return code, ok
}

// Symbols returns every symbol in assignment order.
func (d *Dictionary) Symbols() []rune {
	out := make([]rune, 0, d.Len())
	for i := range d.Layers {
		for _, e := range d.Layers[i].Entries {
			out = append(out, e.Symbol)
		}
	}
	return out
}

// Validate checks the invariants every dictionary must satisfy:
//   - layer k is numbered k and holds between 1 and 2^k entries
//   - layer 0 holds exactly one entry
//   - every layer but the last is full
//   - codes are positive and globally unique, symbols are unique
//   - every code is its parent's code times a prime (layer 0: a prime)
func (d *Dictionary) Validate() error {
	if len(d.Layers) > maxLayers {
		return fmt.Errorf("%w: %d layers", ErrInvalidDictionary, len(d.Layers))
	}

	seenCodes := make(map[string]rune)
	seenSymbols := make(map[rune]struct{})
	quotient := new(big.Int)
	remainder := new(big.Int)

	for k := range d.Layers {
		layer := &d.Layers[k]
		if layer.Index != k {
			return fmt.Errorf("%w: layer at position %d has index %d", ErrInvalidDictionary, k, layer.Index)
		}
		n := len(layer.Entries)
		if n == 0 || n > Capacity(k) {
			return fmt.Errorf("%w: layer %d holds %d entries (capacity %d)", ErrInvalidDictionary, k, n, Capacity(k))
		}
		if k < len(d.Layers)-1 && n != Capacity(k) {
			return fmt.Errorf("%w: layer %d is not full but is followed by layer %d", ErrInvalidDictionary, k, k+1)
		}

		for i, e := range layer.Entries {
			if e.Code == nil || e.Code.Sign() <= 0 {
				return fmt.Errorf("%w: symbol %q has non-positive code", ErrInvalidDictionary, e.Symbol)
			}
			if _, dup := seenSymbols[e.Symbol]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateSymbol, e.Symbol)
			}
			seenSymbols[e.Symbol] = struct{}{}

			key := e.Code.String()
			if other, dup := seenCodes[key]; dup {
				return fmt.Errorf("%w: %s shared by %q and %q", ErrDuplicateCode, key, other, e.Symbol)
			}
			seenCodes[key] = e.Symbol

			base := big.NewInt(1)
			if k > 0 {
				parent := ParentIndex(i, len(d.Layers[k-1].Entries))
				if e.Parent != parent {
					return fmt.Errorf("%w: %q in layer %d points at parent %d, want %d",
						ErrInvalidDictionary, e.Symbol, k, e.Parent, parent)
				}
				base = d.Layers[k-1].Entries[parent].Code
			}
			quotient.QuoRem(e.Code, base, remainder)
			if remainder.Sign() != 0 {
				return fmt.Errorf("%w: code %s of %q is not a multiple of parent code %s",
					ErrInvalidDictionary, key, e.Symbol, base)
			}
			if !quotient.ProbablyPrime(0) {
				return fmt.Errorf("%w: code %s of %q is parent code %s times non-prime %s",
					ErrInvalidDictionary, key, e.Symbol, base, quotient)
			}
		}
	}
	return nil
}

// ============================================================
// Inverted dictionary
// ============================================================

// InverseEntry is one code to symbol pair. Code is the decimal form.
type InverseEntry struct {
	Code   string
	Symbol rune
}

// InvertedDictionary maps decimal codes back to symbols. It remembers the
// order codes were assigned in. Immutable once built.
type InvertedDictionary struct {
	entries []InverseEntry
	symbols map[string]rune
}

// NewInvertedDictionary builds an inverted dictionary from pairs in
// assignment order. The mapping must be one-to-one.
func NewInvertedDictionary(entries []InverseEntry) (*InvertedDictionary, error) {
	inv := newInverted(len(entries))
	seen := make(map[rune]string, len(entries))
	for _, e := range entries {
		if _, dup := inv.symbols[e.Code]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, e.Code)
		}
		if other, dup := seen[e.Symbol]; dup {
			return nil, fmt.Errorf("%w: %q has codes %s and %s", ErrDuplicateSymbol, e.Symbol, other, e.Code)
		}
		seen[e.Symbol] = e.Code
		inv.add(e.Code, e.Symbol)
	}
	return inv, nil
}

// Invert derives the inverted dictionary of d.
func Invert(d *Dictionary) (*InvertedDictionary, error) {
	entries := make([]InverseEntry, 0, d.Len())
	for i := range d.Layers {
		for _, e := range d.Layers[i].Entries {
			entries = append(entries, InverseEntry{Code: e.Code.String(), Symbol: e.Symbol})
		}
	}
	return NewInvertedDictionary(entries)
}

func newInverted(capacity int) *InvertedDictionary {
	return &InvertedDictionary{
		entries: make([]InverseEntry, 0, capacity),
		symbols: make(map[string]rune, capacity),
	}
}

func (inv *InvertedDictionary) add(code string, sym rune) {
	inv.entries = append(inv.entries, InverseEntry{Code: code, Symbol: sym})
	inv.symbols[code] = sym
}

func (inv *InvertedDictionary) has(code string) bool {
	_, ok := inv.symbols[code]
	return ok
}

// Lookup returns the symbol for a decimal code.
func (inv *InvertedDictionary) Lookup(code string) (rune, bool) {
	sym, ok := inv.symbols[code]
	return sym, ok
}

// Len returns the number of codes.
func (inv *InvertedDictionary) Len() int {
	return len(inv.entries)
}

// Entries returns the pairs in assignment order.
func (inv *InvertedDictionary) Entries() []InverseEntry {
	out := make([]InverseEntry, len(inv.entries))
	copy(out, inv.entries)
	return out
}

// Inverts reports whether inv is exactly the inverse of d: same codes, same
// symbols, nothing extra on either side.
func (inv *InvertedDictionary) Inverts(d *Dictionary) error {
	if inv.Len() != d.Len() {
		return fmt.Errorf("%w: %d inverse entries for %d symbols", ErrInvalidDictionary, inv.Len(), d.Len())
	}
	for i := range d.Layers {
		for _, e := range d.Layers[i].Entries {
			code := e.Code.String()
			sym, ok := inv.symbols[code]
			if !ok {
				return fmt.Errorf("%w: code %s of %q missing from inverse", ErrInvalidDictionary, code, e.Symbol)
			}
			if sym != e.Symbol {
				return fmt.Errorf("%w: code %s maps to %q, inverse has %q", ErrInvalidDictionary, code, e.Symbol, sym)
			}
		}
	}
	return nil
}
