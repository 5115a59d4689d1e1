package vector

import (
	"math"
	"testing"
)

func TestCosine_Identity(t *testing.T) {
	v := []float64{0.3, -1.2, 4.5, 0.01}
	got := Cosine(v, v)
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("Cosine(v, v) = %v, want 1", got)
	}
}

func TestCosine_ZeroVector(t *testing.T) {
	v := []float64{1, 2, 3}
	zero := []float64{0, 0, 0}
	if got := Cosine(v, zero); got != 0 {
		t.Errorf("Cosine(v, zero) = %v, want 0", got)
	}
	if got := Cosine(zero, zero); got != 0 {
		t.Errorf("Cosine(zero, zero) = %v, want 0", got)
	}
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float64{1, 0.5, -2}
	b := []float64{-0.25, 3, 1.5}
	if Cosine(a, b) != Cosine(b, a) {
		t.Error("Cosine is not symmetric")
	}
}

func TestCosine_LengthMismatch(t *testing.T) {
	if got := Cosine([]float64{1, 2}, []float64{1, 2, 3}); got != 0 {
		t.Errorf("Cosine on mismatched lengths = %v, want 0", got)
	}
}

func TestCosine_Empty(t *testing.T) {
	if got := Cosine(nil, nil); got != 0 {
		t.Errorf("Cosine(nil, nil) = %v, want 0", got)
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	if got := Cosine(a, b); got != 0 {
		t.Errorf("Cosine(orthogonal) = %v, want 0", got)
	}
}

func TestCosine_Opposite(t *testing.T) {
	a := []float64{1, 1}
	b := []float64{-1, -1}
	if got := Cosine(a, b); math.Abs(got+1) > 1e-9 {
		t.Errorf("Cosine(opposite) = %v, want -1", got)
	}
}
