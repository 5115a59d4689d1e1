// Package vector provides similarity math over embedding vectors.
package vector

import "math"

// Cosine computes the cosine similarity of two vectors. It is total: a length
// mismatch or a zero-magnitude operand yields 0 rather than an error, so a
// degenerate embedding can never crash a ranked search.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	mag := math.Sqrt(na) * math.Sqrt(nb)
	if mag == 0 {
		return 0
	}
	return dot / mag
}
