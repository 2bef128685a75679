package moonphase

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ViewMode is one of the camera presets.
type ViewMode uint8

const (
	// MoonClose looks at the Moon from just below the Earth.
	MoonClose ViewMode = iota
	// MoonCentered frames the Earth and the Moon together.
	MoonCentered
	// FullSystem looks down on the whole system.
	FullSystem
)

func (m ViewMode) String() string {
	switch m {
	case MoonClose:
		return "moonClose"
	case MoonCentered:
		return "moonCentered"
	case FullSystem:
		return "fullSystem"
	default:
		return fmt.Sprintf("ViewMode(%d)", uint8(m))
	}
}

// ParseViewMode returns the view mode from its name.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.Replace(s, "-", "", -1)) {
	case "moonclose", "close", "moon":
		return MoonClose, nil
	case "mooncentered", "centered":
		return MoonCentered, nil
	case "fullsystem", "full", "overview":
		return FullSystem, nil
	default:
		return MoonClose, fmt.Errorf("undefined view mode '%s'", s)
	}
}

// MoonView returns whether this mode looks at the Moon rather than the whole system.
func (m ViewMode) MoonView() bool {
	return m == MoonClose || m == MoonCentered
}

// CameraPose is the 4x4 transform of the camera node in its parent (row vector convention).
type CameraPose struct {
	Transform *mat.Dense
}

// IdentityPose is the camera sitting at the origin.
func IdentityPose() CameraPose {
	return CameraPose{DenseIdentity(4)}
}

// Position returns the camera position in the scene.
func (p CameraPose) Position() []float64 {
	return TranslationOf(p.Transform)
}

// Equal returns whether both poses are identical.
func (p CameraPose) Equal(o CameraPose) bool {
	return mat.Equal(p.Transform, o.Transform)
}

// EqualApprox returns whether both poses are within ε of each other.
func (p CameraPose) EqualApprox(o CameraPose, ε float64) bool {
	return mat.EqualApprox(p.Transform, o.Transform, ε)
}

func (p CameraPose) String() string {
	return fmt.Sprintf("%v", mat.Formatted(p.Transform, mat.Squeeze()))
}

// Visibility is what the renderer shows besides the bodies' geometry.
type Visibility struct {
	SunOpacity float64
	Background bool // the starfield
}

// VisibilityFor returns the visibility once the camera has settled on the provided mode.
func VisibilityFor(mode ViewMode) Visibility {
	if mode.MoonView() {
		return Visibility{SunOpacity: 0, Background: false}
	}
	return Visibility{SunOpacity: 1, Background: true}
}

// BuildCamera returns the camera pose for the provided mode at the given orbital state, and the
// visibility which goes with it. The camera always starts by following the earth-system around the Sun.
func BuildCamera(state OrbitalState, mode ViewMode, conf SceneConfig) (CameraPose, Visibility) {
	transform := Nest(DenseIdentity(4), RotationY(state.EarthAroundSun))
	if mode.MoonView() {
		transform = Nest(transform, Translation(0, 0, -conf.OrbitRadius))
		transform = Nest(transform, RotationY(state.MoonAroundEarth+math.Pi))
		transform = Nest(transform, Translation(0, conf.YOffset(mode), 0))
	} else {
		transform = Nest(transform, Translation(0, conf.OverviewHeight, -conf.OverviewPullback))
		transform = Nest(transform, RotationX(-math.Pi/2))
	}
	return CameraPose{transform}, VisibilityFor(mode)
}
