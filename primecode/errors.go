package primecode

import "errors"

var (
	// ErrInvalidPrimeCount is returned when zero or fewer primes are requested.
	ErrInvalidPrimeCount = errors.New("prime count must be positive")

	// ErrPrimesExhausted is returned when the pool runs dry during assignment.
	// No partial dictionary is returned alongside it.
	ErrPrimesExhausted = errors.New("ran out of primes")

	// ErrDuplicateSymbol is returned when a symbol appears twice.
	ErrDuplicateSymbol = errors.New("duplicate symbol")

	// ErrDuplicateCode is returned when two symbols share a code.
	ErrDuplicateCode = errors.New("duplicate code")

	// ErrInvalidDictionary is returned when a dictionary breaks a structural
	// invariant (layer sizes, divisibility, positive codes).
	ErrInvalidDictionary = errors.New("invalid dictionary")
)
