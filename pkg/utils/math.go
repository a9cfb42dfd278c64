package utils

import "math"

// NormalizeL2 scales the vector in place to unit L2 norm so that inner
// products between normalized vectors are cosine similarities. A zero vector
// stays untouched. The squared sum accumulates in float64 to keep long
// vectors from losing precision.
func NormalizeL2(x []float32) {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range x {
		x[i] *= inv
	}
}
