package reembed

import "math"

// NormalizeVector returns v scaled to unit length. A zero vector stays zero.
func NormalizeVector(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return out
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// Dimensions returns the length shared by every vector, or false when the
// vectors disagree or one is empty.
func Dimensions(vectors [][]float32) (int, bool) {
	if len(vectors) == 0 {
		return 0, true
	}
	dim := len(vectors[0])
	for _, v := range vectors {
		if len(v) == 0 || len(v) != dim {
			return 0, false
		}
	}
	return dim, true
}
