// Package randutil centralises deterministic RNG construction. Every
// component that samples cards or mixed strategies builds its generator
// here so that a single session seed reproduces the full run.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// rand/v2's PCG wants two 64-bit seeds; deriving both from one value keeps
// call sites reproducible without threading seed pairs around.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive folds a label into a parent seed, producing an independent child
// seed. Used to give each hand and each memoised equity key its own stream
// so results do not depend on evaluation order.
func Derive(seed int64, label string) int64 {
	h := HashString(label)
	return int64(mix(uint64(seed) ^ h))
}

// HashString is FNV-1a over the label bytes.
func HashString(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	var h uint64 = offset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
