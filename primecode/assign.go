package primecode

import (
	"fmt"
	"math/big"
	"math/rand/v2"

	"go.uber.org/zap"
)

// Option configures Build.
type Option func(*assigner)

// WithSeed seeds the random source that shuffles the prime pool.
// The same seed and alphabet always produce the same dictionary.
func WithSeed(seed uint64) Option {
	return func(a *assigner) {
		a.rng = newRand(seed)
		a.seeded = true
	}
}

// WithRand supplies the random source that shuffles the prime pool.
func WithRand(rng *rand.Rand) Option {
	return func(a *assigner) {
		a.rng = rng
		a.seeded = rng != nil
	}
}

// WithPool supplies the prime pool directly. The pool is consumed; seed and
// multiplier options are ignored.
func WithPool(pool *PrimePool) Option {
	return func(a *assigner) {
		a.pool = pool
	}
}

// WithPrimeMultiplier sets how many primes per symbol the pool is sized to
// (default 4). Values below 1 are treated as 1.
func WithPrimeMultiplier(m int) Option {
	return func(a *assigner) {
		if m < 1 {
			m = 1
		}
		a.multiplier = m
	}
}

// WithSink streams each closed layer and each inverse entry to s.
func WithSink(s Sink) Option {
	return func(a *assigner) {
		a.sink = s
	}
}

// WithLogger sets the logger used for build progress (default: no-op).
func WithLogger(logger *zap.Logger) Option {
	return func(a *assigner) {
		if logger != nil {
			a.logger = logger
		}
	}
}

type assigner struct {
	rng        *rand.Rand
	seeded     bool
	pool       *PrimePool
	multiplier int
	sink       Sink
	logger     *zap.Logger

	retries int
}

// BuildFromLines derives the alphabet of lines and builds its dictionary.
func BuildFromLines(lines []string, opts ...Option) (*Dictionary, *InvertedDictionary, error) {
	return Build(Alphabet(lines), opts...)
}

// Build places every symbol into the layer tree and assigns its code.
//
// Symbols are taken in the given order: the first becomes the root, the next
// two fill layer 1, the next four layer 2, and so on. Slot i of layer k
// takes its base from entry i/2 of layer k-1 and pops primes until
// base×prime is a code not yet in use.
//
// An empty symbol slice yields empty dictionaries. Running out of primes
// returns ErrPrimesExhausted and no dictionary.
func Build(symbols []rune, opts ...Option) (*Dictionary, *InvertedDictionary, error) {
	a := &assigner{
		multiplier: DefaultPrimeMultiplier,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	n := len(symbols)
	d := &Dictionary{bySymbol: make(map[rune]*big.Int, n)}
	inv := newInverted(n)
	if n == 0 {
		return d, inv, nil
	}

	seen := make(map[rune]struct{}, n)
	for _, sym := range symbols {
		if _, dup := seen[sym]; dup {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateSymbol, sym)
		}
		seen[sym] = struct{}{}
	}

	pool, err := a.preparePool(n)
	if err != nil {
		return nil, nil, err
	}
	if pool.Len() < n {
		return nil, nil, fmt.Errorf("%w: pool holds %d primes for %d symbols", ErrPrimesExhausted, pool.Len(), n)
	}

	index := 0
	for k := 0; index < n; k++ {
		layer := Layer{Index: k}
		var prev *Layer
		if k > 0 {
			prev = &d.Layers[k-1]
		}

		for slot := 0; slot < Capacity(k) && index < n; slot++ {
			sym := symbols[index]
			base := big.NewInt(1)
			parent := -1
			if prev != nil {
				parent = ParentIndex(slot, prev.Len())
				base = prev.Entries[parent].Code
			}

			code, err := a.mint(pool, base, inv)
			if err != nil {
				return nil, nil, fmt.Errorf("assign %q to layer %d slot %d: %w", sym, k, slot, err)
			}

			layer.Entries = append(layer.Entries, Entry{Symbol: sym, Code: code, Parent: parent})
			inv.add(code.String(), sym)
			d.bySymbol[sym] = code
			index++
		}

		d.Layers = append(d.Layers, layer)
		a.logger.Debug("layer closed",
			zap.Int("layer", k),
			zap.Int("entries", layer.Len()),
			zap.Int("primes_left", pool.Len()))

		if a.sink != nil {
			if err := a.sink.WriteLayer(&d.Layers[k]); err != nil {
				return nil, nil, fmt.Errorf("write layer %d: %w", k, err)
			}
		}
	}

	if a.sink != nil {
		for _, e := range inv.entries {
			if err := a.sink.WriteInverse(e.Code, e.Symbol); err != nil {
				return nil, nil, fmt.Errorf("write inverse %s: %w", e.Code, err)
			}
		}
	}

	a.logger.Info("dictionary built",
		zap.Int("symbols", n),
		zap.Int("layers", d.Depth()),
		zap.Int("collision_retries", a.retries),
		zap.Int("primes_left", pool.Len()))

	return d, inv, nil
}

func (a *assigner) preparePool(n int) (*PrimePool, error) {
	if a.pool != nil {
		return a.pool, nil
	}
	if !a.seeded {
		seed := rand.Uint64()
		a.rng = newRand(seed)
		a.logger.Debug("prime pool seeded", zap.Uint64("seed", seed))
	}
	pool, err := NewPrimePool(n*a.multiplier, a.rng)
	if err != nil {
		return nil, fmt.Errorf("prime pool: %w", err)
	}
	return pool, nil
}

// mint pops primes until base×prime is unused.
func (a *assigner) mint(pool *PrimePool, base *big.Int, inv *InvertedDictionary) (*big.Int, error) {
	factor := new(big.Int)
	for {
		prime, ok := pool.Pop()
		if !ok {
			return nil, ErrPrimesExhausted
		}
		code := new(big.Int).Mul(base, factor.SetUint64(prime))
		if !inv.has(code.String()) {
			return code, nil
		}
		a.retries++
		a.logger.Debug("code collision",
			zap.String("base", base.String()),
			zap.Uint64("prime", prime))
	}
}
