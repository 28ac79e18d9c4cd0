// Package primecode implements a reversible symbol codec whose codes are
// built from primes arranged in a binary tree of layers.
//
// Every distinct symbol (rune) of a training text gets a code. Codes are not
// drawn independently:
//   - Layer 0 holds one symbol whose code is a single prime
//   - Layer k holds up to 2^k symbols
//   - A layer-k code is the code of its parent in layer k-1 times a fresh prime
//
// A code is therefore divisible by the code of every ancestor, and every code
// in a dictionary is unique.
//
// # Building
//
//	symbols := primecode.Alphabet(lines)
//	dict, inv, err := primecode.Build(symbols, primecode.WithSeed(42))
//
// Build consumes an owned PrimePool of 4x as many primes as there are symbols,
// shuffled once with the supplied random source. Each closed layer is handed
// to an optional Sink as soon as it is complete.
//
// # Encoding
//
// Encoded text keeps one line per input line. Each rune becomes its decimal
// code; runes outside the dictionary pass through literally. Tokens are
// joined with ",":
//
//	hello -> 1457,1023,3397,3397,893
//
// Decoding splits on "," and maps each token back. Tokens without a mapping
// are dropped unless a different UnmappedPolicy is selected.
//
// # Limits
//
// The scheme offers no confidentiality and no compression. Passthrough makes
// encoding non-injective: a literal digit run or a literal "," in the input
// can read back as something else.
package primecode
