package moonphase

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestR1R2R3(t *testing.T) {
	x := math.Pi / 3.0
	s, c := math.Sincos(x)
	r1 := R1(x)
	r2 := R2(x)
	r3 := R3(x)
	// Test items equal to 1.
	if r1.At(0, 0) != r2.At(1, 1) || r1.At(0, 0) != r3.At(2, 2) || r3.At(2, 2) != 1 {
		t.Fatal("expected R1.At(0, 0) = R2.At(1, 1) = R3.At(2, 2) = 1\n")
	}
	// Test items equal to 0.
	if r1.At(0, 1) != r1.At(0, 2) || r1.At(1, 0) != r1.At(2, 0) || r1.At(0, 1) != 0 {
		t.Fatal("misplaced zeros in R1\n")
	}
	if r2.At(0, 1) != r2.At(1, 2) || r2.At(1, 0) != r2.At(1, 2) || r2.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R2\n")
	}
	if r3.At(2, 0) != r3.At(2, 1) || r3.At(0, 2) != r3.At(1, 2) || r3.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R3\n")
	}
	// Test R1.
	if r1.At(1, 1) != r1.At(2, 2) || r1.At(2, 2) != c {
		t.Fatal("expected R1 cosines misplaced\n")
	}
	if r1.At(2, 1) != -r1.At(1, 2) || r1.At(1, 2) != s {
		t.Fatal("expected R1 sines misplaced\n")
	}
	// Test R2.
	if r2.At(0, 0) != r2.At(2, 2) || r2.At(2, 2) != c {
		t.Fatal("expected R2 cosines misplaced\n")
	}
	if r2.At(2, 0) != -r2.At(0, 2) || r2.At(2, 0) != s {
		t.Fatal("expected R2 sines misplaced\n")
	}
	// Test R3.
	if r3.At(1, 1) != r3.At(0, 0) || r3.At(0, 0) != c {
		t.Fatal("expected R3 cosines misplaced\n")
	}
	if r3.At(0, 1) != -r3.At(1, 0) || r3.At(0, 1) != s {
		t.Fatal("expected R3 sines misplaced\n")
	}
}

func TestAxisRotation(t *testing.T) {
	θ := 0.7
	for i, exp := range []*mat.Dense{R1(θ), R2(θ), R3(θ)} {
		axis := []float64{0, 0, 0}
		axis[i] = 2 // not normalized on purpose
		if got := AxisRotation(axis, θ); !mat.EqualApprox(got, exp, 1e-12) {
			t.Fatalf("axis %d:\n%v\n!=\n%v", i, mat.Formatted(got), mat.Formatted(exp))
		}
	}
	if !mat.Equal(AxisRotation([]float64{0, 0, 0}, θ), DenseIdentity(3)) {
		t.Fatal("null axis should not rotate")
	}
}

func TestNest(t *testing.T) {
	// Rotating a quarter turn about Y then translating along Z.
	m := Nest(Translation(0, 0, -10), RotationY(math.Pi/2))
	if p := TransformPoint(m, []float64{0, 0, -1}); !vectorsEqual(p, []float64{-1, 0, -10}) {
		t.Fatalf("rotation then translation: got %v", p)
	}
	// Translating then rotating moves the translation as well.
	m = Nest(RotationY(math.Pi/2), Translation(0, 0, -10))
	if p := TransformPoint(m, []float64{0, 0, -1}); !vectorsEqual(p, []float64{-11, 0, 0}) {
		t.Fatalf("translation then rotation: got %v", p)
	}
	if !vectorsEqual(TranslationOf(m), TransformPoint(m, []float64{0, 0, 0})) {
		t.Fatal("translation is where the origin goes")
	}
}

func TestDenseIdentity(t *testing.T) {
	id := DenseIdentity(4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			exp := 0.0
			if i == j {
				exp = 1
			}
			if id.At(i, j) != exp {
				t.Fatalf("I(%d,%d) = %f", i, j, id.At(i, j))
			}
		}
	}
}
