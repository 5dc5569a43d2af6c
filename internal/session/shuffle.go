package session

import "hash/fnv"

// Distinct per-bucket salts keep the due/new/extra permutations
// uncorrelated even though they share one session seed.
const (
	dueSeedSalt   uint32 = 0x9e3779b9
	newSeedSalt   uint32 = 0x85ebca6b
	extraSeedSalt uint32 = 0xc2b2ae35
)

// prng is a mulberry32 generator: tiny, fast, and fully reproducible
// across platforms. Session ordering must be bit-for-bit stable for a
// given seed, so the platform random source is deliberately not used.
type prng struct {
	state uint32
}

func newPRNG(seed uint32) *prng {
	return &prng{state: seed}
}

func (r *prng) next() uint32 {
	r.state += 0x6d2b79f5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return z ^ (z >> 14)
}

// intn returns a uniform value in [0, n). n must be > 0. Draws that fall
// in the biased tail of the 32-bit range are rejected and redrawn, so the
// residues stay uniform for every n, not just powers of two.
func (r *prng) intn(n int) int {
	bound := uint32(n)
	min := -bound % bound // 2^32 mod n
	for {
		v := r.next()
		if v >= min {
			return int(v % bound)
		}
	}
}

// shuffle applies a seeded Fisher-Yates permutation in place.
func shuffle[T any](items []T, seed uint32) {
	r := newPRNG(seed)
	for i := len(items) - 1; i > 0; i-- {
		j := r.intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// hashSeed derives a 32-bit seed from an arbitrary string via FNV-1a.
func hashSeed(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
