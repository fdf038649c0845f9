package present

import "math/rand"

// Shuffle returns a uniformly permuted copy of in (Fisher-Yates). in is not modified.
func Shuffle[T any](rnd *rand.Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
