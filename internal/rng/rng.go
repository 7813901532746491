package rng

// DefaultSeed is the seed the solver uses when none is given
const DefaultSeed uint64 = 0xc0bae964

const (
	multiplier uint64 = 0xdeadc0de00133331
	increment  uint64 = 2457
)

// Rand is a deterministic 64-bit state generator with 32-bit output.
// It is not safe for concurrent use; pass it by pointer to whoever draws from it.
type Rand struct {
	x uint64
}

// New creates a generator from a seed
func New(seed uint64) *Rand {
	return &Rand{x: seed}
}

// Next advances the state and returns 32 bits mixed from it
func (r *Rand) Next() uint32 {
	r.x = r.x*multiplier + increment
	x := r.x
	return uint32((x ^ x<<10) >> 32)
}

// Intn returns Next() modulo n. n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.Next()) % n
}
