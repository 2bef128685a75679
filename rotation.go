package moonphase

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// All the 4x4 transforms below use the row vector convention: a point p is
// mapped to p·M, so in A·B the transform A is applied first.

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// AxisRotation returns the rotation by θ about the provided axis, which need not be normalized.
// A null axis yields the identity.
func AxisRotation(axis []float64, θ float64) *mat.Dense {
	u := unit(axis)
	if u[0] == 0 && u[1] == 0 && u[2] == 0 {
		return DenseIdentity(3)
	}
	s, c := math.Sincos(θ)
	t := 1 - c
	x, y, z := u[0], u[1], u[2]
	// Transpose of Rodrigues' matrix.
	return mat.NewDense(3, 3, []float64{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c})
}

// DenseIdentity returns an identity matrix of type Dense and of the provided size.
func DenseIdentity(n int) *mat.Dense {
	vals := make([]float64, n*n)
	for j := 0; j < n*n; j++ {
		if j%(n+1) == 0 {
			vals[j] = 1
		}
	}
	return mat.NewDense(n, n, vals)
}

// Homogeneous embeds a 3x3 rotation into a 4x4 transform.
func Homogeneous(r mat.Matrix) *mat.Dense {
	h := DenseIdentity(4)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h.Set(i, j, r.At(i, j))
		}
	}
	return h
}

// Translation returns the 4x4 translation by (x, y, z).
func Translation(x, y, z float64) *mat.Dense {
	h := DenseIdentity(4)
	h.Set(3, 0, x)
	h.Set(3, 1, y)
	h.Set(3, 2, z)
	return h
}

// RotationY returns the 4x4 rotation by θ about the Y axis.
func RotationY(θ float64) *mat.Dense {
	return Homogeneous(R2(θ))
}

// RotationX returns the 4x4 rotation by θ about the X axis.
func RotationX(θ float64) *mat.Dense {
	return Homogeneous(R1(θ))
}

// Nest returns inner·outer: inner acts on points first, so the transform is built
// from the outermost pivot inward, one step at a time.
func Nest(outer, inner mat.Matrix) *mat.Dense {
	var r mat.Dense
	r.Mul(inner, outer)
	return &r
}

// TransformPoint maps the point p through the 4x4 transform m.
func TransformPoint(m mat.Matrix, p []float64) []float64 {
	h := mat.NewVecDense(4, []float64{p[0], p[1], p[2], 1})
	var o mat.VecDense
	o.MulVec(m.T(), h)
	return []float64{o.AtVec(0), o.AtVec(1), o.AtVec(2)}
}

// TranslationOf returns the translation part of the 4x4 transform m.
func TranslationOf(m mat.Matrix) []float64 {
	return []float64{m.At(3, 0), m.At(3, 1), m.At(3, 2)}
}
