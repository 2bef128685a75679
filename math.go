package moonphase

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	// SynodicMonth is the mean length of a lunation in days (new Moon to new Moon).
	SynodicMonth = 29.53059
	// JulianYear is the year length used to spread the Earth's orbit over the calendar.
	JulianYear = 365.25
	// τ is a full turn.
	τ = 2 * math.Pi

	deg2rad = math.Pi / 180
	angleε  = 1e-9
)

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, τ)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += τ
	}
	return math.Mod(a/deg2rad, 360)
}

// wrapAngle returns the angle in [0, 2π).
func wrapAngle(θ float64) float64 {
	θ = math.Mod(θ, τ)
	if θ < 0 {
		θ += τ
	}
	return θ
}

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// unit returns the unit vector of a given vector.
func unit(a []float64) (b []float64) {
	n := norm(a)
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// anglesEqual returns whether two angles in radians designate the same direction.
func anglesEqual(a, b float64) (bool, error) {
	diff := wrapAngle(a - b)
	if diff < angleε || math.Abs(diff-τ) < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10fπ", diff/math.Pi)
}
