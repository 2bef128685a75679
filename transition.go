package moonphase

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Easing maps the linear progress of an animation in [0, 1] to its eased progress.
type Easing interface {
	Ease(t float64) float64
}

// CubicBezier is a timing curve from (0,0) to (1,1) with the two provided control points.
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

var (
	// EaseInEaseOut starts and ends slowly.
	EaseInEaseOut = CubicBezier{0.42, 0, 0.58, 1}
	// LinearTiming does not ease at all.
	LinearTiming = CubicBezier{0, 0, 1, 1}
)

// bezier returns one coordinate of the curve at s, for control coordinates a and b.
func bezier(a, b, s float64) float64 {
	u := 1 - s
	return 3*u*u*s*a + 3*u*s*s*b + s*s*s
}

func bezierSlope(a, b, s float64) float64 {
	u := 1 - s
	return 3*u*u*a + 6*u*s*(b-a) + 3*s*s*(1-b)
}

// Ease implements the Easing interface. The curve parameter is found by Newton's method
// and falls back to bisection when the slope vanishes.
func (c CubicBezier) Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if c.X1 == c.Y1 && c.X2 == c.Y2 {
		return t
	}
	s := t
	for i := 0; i < 8; i++ {
		x := bezier(c.X1, c.X2, s) - t
		if math.Abs(x) < 1e-9 {
			return bezier(c.Y1, c.Y2, s)
		}
		d := bezierSlope(c.X1, c.X2, s)
		if math.Abs(d) < 1e-6 {
			break
		}
		s -= x / d
	}
	lo, hi := 0.0, 1.0
	s = t
	for i := 0; i < 64; i++ {
		x := bezier(c.X1, c.X2, s)
		if math.Abs(x-t) < 1e-9 {
			break
		}
		if x < t {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return bezier(c.Y1, c.Y2, s)
}

// EffectKind is what a delayed effect changes.
type EffectKind uint8

const (
	// SunOpacityEffect sets the Sun's opacity to the effect's value.
	SunOpacityEffect EffectKind = iota + 1
	// BackgroundEffect shows the starfield if the effect's value is non zero, and clears it otherwise.
	BackgroundEffect
)

// Effect is a visibility change scheduled at an elapsed time of an animation.
type Effect struct {
	At    time.Duration
	Kind  EffectKind
	Value float64
}

// Apply returns the visibility after this effect.
func (e Effect) Apply(v Visibility) Visibility {
	switch e.Kind {
	case SunOpacityEffect:
		v.SunOpacity = e.Value
	case BackgroundEffect:
		v.Background = e.Value != 0
	}
	return v
}

func (e Effect) String() string {
	switch e.Kind {
	case SunOpacityEffect:
		return fmt.Sprintf("sun opacity %.1f @%s", e.Value, e.At)
	case BackgroundEffect:
		return fmt.Sprintf("background %v @%s", e.Value != 0, e.At)
	default:
		return fmt.Sprintf("unknown effect @%s", e.At)
	}
}

// AnimationPlan is everything the renderer needs to animate the camera towards a view mode.
type AnimationPlan struct {
	Mode     ViewMode
	From, To CameraPose
	Duration time.Duration // zero when not animated
	Easing   Easing
	Effects  []Effect // sorted by At
}

// PlanTransition returns the plan of the camera transition from one pose to the pose of the provided mode.
// The visibility changes are delayed so that they happen while the camera is pointed away from the Sun.
// When not animated, the plan is immediate and all its effects are due at once.
func PlanTransition(from, to CameraPose, mode ViewMode, animated bool, conf SceneConfig) AnimationPlan {
	plan := AnimationPlan{Mode: mode, From: from, To: to, Easing: EaseInEaseOut}
	if mode.MoonView() {
		plan.Effects = []Effect{
			{conf.BackgroundHideDelay, BackgroundEffect, 0},
			{conf.SunHideDelay, SunOpacityEffect, 0},
		}
	} else {
		plan.Effects = []Effect{
			{conf.SunShowDelay, SunOpacityEffect, 1},
			{conf.BackgroundShowDelay, BackgroundEffect, 1},
		}
	}
	if animated {
		plan.Duration = conf.Duration(mode)
	} else {
		plan.From = to
		for i := range plan.Effects {
			plan.Effects[i].At = 0
		}
	}
	sort.SliceStable(plan.Effects, func(i, j int) bool { return plan.Effects[i].At < plan.Effects[j].At })
	return plan
}

// Animated returns whether this plan needs interpolating.
func (p AnimationPlan) Animated() bool {
	return p.Duration > 0
}

// Fraction returns the linear progress of the animation after the elapsed time, in [0, 1].
func (p AnimationPlan) Fraction(elapsed time.Duration) float64 {
	if !p.Animated() || elapsed >= p.Duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(p.Duration)
}

// At returns the camera pose after the elapsed time.
func (p AnimationPlan) At(elapsed time.Duration) CameraPose {
	return p.Sample(p.Fraction(elapsed))
}

// Sample returns the camera pose at the provided linear progress: the rotation is slerped and
// the translation interpolated linearly, both along the eased progress.
func (p AnimationPlan) Sample(t float64) CameraPose {
	if t >= 1 || !p.Animated() {
		return CameraPose{mat.DenseCopyOf(p.To.Transform)}
	}
	if t <= 0 {
		return CameraPose{mat.DenseCopyOf(p.From.Transform)}
	}
	easing := p.Easing
	if easing == nil {
		easing = EaseInEaseOut
	}
	return interpolatePose(p.From, p.To, easing.Ease(t))
}

// Visibility returns the visibility after the elapsed time, starting from the provided one.
func (p AnimationPlan) Visibility(start Visibility, elapsed time.Duration) Visibility {
	v := start
	for _, e := range p.Effects {
		if e.At > elapsed {
			break
		}
		v = e.Apply(v)
	}
	return v
}

func interpolatePose(from, to CameraPose, t float64) CameraPose {
	q1, t1 := decomposePose(from.Transform)
	q2, t2 := decomposePose(to.Transform)
	if q1.Dot(q2) < 0 {
		q2 = q2.Scale(-1)
	}
	q := mgl64.QuatSlerp(q1, q2, t)
	tr := t1.Add(t2.Sub(t1).Mul(t))
	return CameraPose{composePose(q, tr)}
}

// decomposePose splits a rigid row-vector transform into its rotation and translation.
// mgl64 is column-major with column vectors, so the row-major rotation block reads as is.
func decomposePose(m mat.Matrix) (mgl64.Quat, mgl64.Vec3) {
	var r mgl64.Mat4
	for c := 0; c < 3; c++ {
		for rr := 0; rr < 3; rr++ {
			r[c*4+rr] = m.At(c, rr)
		}
	}
	r[15] = 1
	return mgl64.Mat4ToQuat(r), mgl64.Vec3{m.At(3, 0), m.At(3, 1), m.At(3, 2)}
}

func composePose(q mgl64.Quat, tr mgl64.Vec3) *mat.Dense {
	r := q.Normalize().Mat4()
	h := DenseIdentity(4)
	for c := 0; c < 3; c++ {
		for rr := 0; rr < 3; rr++ {
			h.Set(c, rr, r[c*4+rr])
		}
	}
	h.Set(3, 0, tr[0])
	h.Set(3, 1, tr[1])
	h.Set(3, 2, tr[2])
	return h
}

// RotationPlan animates a rotation about a fixed axis, interpolating the angle itself.
type RotationPlan struct {
	Axis     []float64
	From, To float64
	Duration time.Duration
	Easing   Easing
}

// PlanRotation returns the plan of a rotation from one angle to another; immediate when not animated.
func PlanRotation(axis []float64, from, to float64, animated bool, duration time.Duration) RotationPlan {
	if !animated {
		return RotationPlan{Axis: axis, From: to, To: to, Easing: EaseInEaseOut}
	}
	return RotationPlan{Axis: axis, From: from, To: to, Duration: duration, Easing: EaseInEaseOut}
}

// Angle returns the rotation angle after the elapsed time.
func (p RotationPlan) Angle(elapsed time.Duration) float64 {
	if p.Duration <= 0 || elapsed >= p.Duration {
		return p.To
	}
	if elapsed <= 0 {
		return p.From
	}
	easing := p.Easing
	if easing == nil {
		easing = EaseInEaseOut
	}
	t := easing.Ease(float64(elapsed) / float64(p.Duration))
	return p.From + (p.To-p.From)*t
}
