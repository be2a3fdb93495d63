package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	x := []float32{3, 4}
	norm := NormalizeL2(x)
	if math.Abs(norm-5) > 1e-9 {
		t.Errorf("norm = %f, want 5", norm)
	}
	if math.Abs(float64(x[0])-0.6) > 1e-6 || math.Abs(float64(x[1])-0.8) > 1e-6 {
		t.Errorf("normalized = %v", x)
	}

	zero := []float32{0, 0, 0}
	if NormalizeL2(zero) != 0 {
		t.Error("zero vector norm should be 0")
	}
	for _, v := range zero {
		if v != 0 {
			t.Errorf("zero vector changed: %v", zero)
		}
	}
}
