package moonphase

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// forward returns the direction the camera looks at: its local -Z axis in its parent.
func forward(p CameraPose) []float64 {
	m := p.Transform
	return unit([]float64{-m.At(2, 0), -m.At(2, 1), -m.At(2, 2)})
}

func TestParseViewMode(t *testing.T) {
	for _, mode := range []ViewMode{MoonClose, MoonCentered, FullSystem} {
		if m, err := ParseViewMode(mode.String()); err != nil || m != mode {
			t.Fatalf("could not parse %s: %v", mode, err)
		}
	}
	if m, err := ParseViewMode("full-system"); err != nil || m != FullSystem {
		t.Fatal("dashes should be ignored")
	}
	if _, err := ParseViewMode("sideways"); err == nil {
		t.Fatal("sideways is not a view mode")
	}
}

func TestVisibilityFor(t *testing.T) {
	for _, mode := range []ViewMode{MoonClose, MoonCentered} {
		if v := VisibilityFor(mode); v.SunOpacity != 0 || v.Background {
			t.Fatalf("%s should hide the Sun and the background: %+v", mode, v)
		}
	}
	if v := VisibilityFor(FullSystem); v.SunOpacity != 1 || !v.Background {
		t.Fatalf("fullSystem should show the Sun and the background: %+v", v)
	}
}

func TestMoonViewFollowsEarthSystem(t *testing.T) {
	for _, conf := range []SceneConfig{DualPivotConfig(), SingleViewConfig()} {
		graph := NewSceneGraph(conf)
		for offset := -SynodicMonth; offset <= SynodicMonth; offset += 3.1 {
			state := testResolver.Resolve(testReference, offset, 4.2)
			graph.Apply(RotationsFor(state))
			pivot := graph.WorldPosition(graph.EarthSystem)
			moon := graph.WorldPosition(graph.Moon)
			for _, mode := range []ViewMode{MoonClose, MoonCentered} {
				pose, vis := BuildCamera(state, mode, conf)
				if vis != VisibilityFor(mode) {
					t.Fatalf("%s: unexpected visibility %+v", mode, vis)
				}
				exp := []float64{pivot[0], pivot[1] + conf.YOffset(mode), pivot[2]}
				if !vectorsEqual(pose.Position(), exp) {
					t.Fatalf("%s %s at %f: camera %v, expected %v", conf.Profile, mode, offset, pose.Position(), exp)
				}
				toMoon := unit([]float64{moon[0] - pivot[0], 0, moon[2] - pivot[2]})
				if !vectorsEqual(forward(pose), toMoon) {
					t.Fatalf("%s at %f: camera looks at %v, moon is towards %v", mode, offset, forward(pose), toMoon)
				}
			}
		}
	}
}

func TestFullSystemView(t *testing.T) {
	conf := DualPivotConfig()
	state := OrbitalState{}
	pose, vis := BuildCamera(state, FullSystem, conf)
	if !vis.Background || vis.SunOpacity != 1 {
		t.Fatalf("unexpected visibility %+v", vis)
	}
	if !vectorsEqual(pose.Position(), []float64{0, 70, -34}) {
		t.Fatalf("camera at %v", pose.Position())
	}
	if !vectorsEqual(forward(pose), []float64{0, -1, 0}) {
		t.Fatalf("camera should look down, looks at %v", forward(pose))
	}
	// The camera follows the earth-system around the Sun.
	state.EarthAroundSun = math.Pi / 2
	pose, _ = BuildCamera(state, FullSystem, conf)
	if !vectorsEqual(pose.Position(), []float64{-34, 70, 0}) {
		t.Fatalf("camera at %v after a quarter of a year", pose.Position())
	}
	if !vectorsEqual(forward(pose), []float64{0, -1, 0}) {
		t.Fatalf("camera should still look down, looks at %v", forward(pose))
	}
}

func TestBuildCameraDeterministic(t *testing.T) {
	conf := SingleViewConfig()
	state := testResolver.Resolve(testReference, 9.75, 2)
	for _, mode := range []ViewMode{MoonClose, MoonCentered, FullSystem} {
		a, _ := BuildCamera(state, mode, conf)
		b, _ := BuildCamera(state, mode, conf)
		if !a.Equal(b) {
			t.Fatalf("%s: %s != %s", mode, a, b)
		}
	}
	closeView, _ := BuildCamera(state, MoonClose, conf)
	centered, _ := BuildCamera(state, MoonCentered, conf)
	if !scalar.EqualWithinAbs(centered.Position()[1]-closeView.Position()[1], 0.5, 1e-9) {
		t.Fatal("the centered view should sit half a unit above the close view")
	}
}
