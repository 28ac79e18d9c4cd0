package primecode

import (
	"fmt"
	"math/rand/v2"
)

// DefaultPrimeMultiplier is the pool slack used by Build: the pool holds this
// many primes per symbol so collision retries have room.
const DefaultPrimeMultiplier = 4

// GeneratePrimes returns the first n primes in ascending order, found by
// trial division up to the square root of each candidate.
func GeneratePrimes(n int) ([]uint64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrimeCount, n)
	}

	primes := make([]uint64, 0, n)
	for candidate := uint64(2); len(primes) < n; candidate++ {
		if isPrime(candidate) {
			primes = append(primes, candidate)
		}
	}
	return primes, nil
}

func isPrime(candidate uint64) bool {
	if candidate < 2 {
		return false
	}
	for d := uint64(2); d*d <= candidate; d++ {
		if candidate%d == 0 {
			return false
		}
	}
	return true
}

// PrimePool is an exhaustible supply of distinct primes. Primes are consumed
// from the end of the pool and never handed out twice.
//
// A pool belongs to one Build call; it is not safe for concurrent use.
type PrimePool struct {
	primes []uint64
}

// NewPrimePool generates n primes and shuffles them once with rng.
// A nil rng leaves the pool ascending, so the largest prime is popped first.
func NewPrimePool(n int, rng *rand.Rand) (*PrimePool, error) {
	primes, err := GeneratePrimes(n)
	if err != nil {
		return nil, err
	}
	if rng != nil {
		rng.Shuffle(len(primes), func(i, j int) {
			primes[i], primes[j] = primes[j], primes[i]
		})
	}
	return &PrimePool{primes: primes}, nil
}

// NewPrimePoolFrom wraps an explicit prime sequence. The slice is copied;
// the last element is popped first. Values are not checked for primality.
func NewPrimePoolFrom(primes []uint64) *PrimePool {
	owned := make([]uint64, len(primes))
	copy(owned, primes)
	return &PrimePool{primes: owned}
}

// Pop removes and returns the next prime. It reports false once the pool is
// empty.
func (p *PrimePool) Pop() (uint64, bool) {
	if len(p.primes) == 0 {
		return 0, false
	}
	last := len(p.primes) - 1
	prime := p.primes[last]
	p.primes = p.primes[:last]
	return prime, true
}

// Len returns the number of primes left.
func (p *PrimePool) Len() int {
	return len(p.primes)
}

// newRand returns a PCG source seeded from a single value.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
