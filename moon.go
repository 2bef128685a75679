package moonphase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/solar"
)

// Phase is one of the eight named lunar phases.
type Phase uint8

const (
	// NewMoon is the dark moon.
	NewMoon Phase = iota
	// WaxingCrescent follows the new moon.
	WaxingCrescent
	// FirstQuarter is the half-lit waxing moon.
	FirstQuarter
	// WaxingGibbous precedes the full moon.
	WaxingGibbous
	// FullMoon is the fully lit moon.
	FullMoon
	// WaningGibbous follows the full moon.
	WaningGibbous
	// LastQuarter is the half-lit waning moon.
	LastQuarter
	// WaningCrescent precedes the next new moon.
	WaningCrescent
)

var phaseNames = [...]string{"New Moon", "Waxing Crescent", "First Quarter", "Waxing Gibbous", "Full Moon", "Waning Gibbous", "Last Quarter", "Waning Crescent"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// PhaseFromAge returns the phase whose eighth of the lunation contains the provided age in days.
// Each principal phase is centered on its nominal age, so the new moon spans both ends of the cycle.
func PhaseFromAge(age float64) Phase {
	idx := int(math.Floor(age/SynodicMonth*8+0.5)) % 8
	if idx < 0 {
		idx += 8
	}
	return Phase(idx)
}

// ParsePhase returns the phase from its label, ignoring case and spaces.
func ParsePhase(s string) (Phase, error) {
	flat := strings.ReplaceAll(strings.ToLower(s), " ", "")
	for i, name := range phaseNames {
		if strings.ReplaceAll(strings.ToLower(name), " ", "") == flat {
			return Phase(i), nil
		}
	}
	return NewMoon, fmt.Errorf("undefined moon phase '%s'", s)
}

// MoonInfo is what a lunar calculator knows about the Moon at a given instant.
type MoonInfo struct {
	Age      float64 // Synodic age in days, in [0, SynodicMonth)
	Phase    Phase
	Distance float64 // Earth-Moon distance in km
}

// Lunar computes the Moon's synodic age, phase and distance at an instant.
type Lunar interface {
	Info(dt time.Time) MoonInfo
}

// MeeusMoon is the Lunar implementation based on the Moon and Sun ecliptic longitudes (Meeus ch. 25 & 47).
// ΔT is ignored: it moves the Moon by less than a minute of arc.
type MeeusMoon struct{}

// Info implements the Lunar interface.
func (MeeusMoon) Info(dt time.Time) MoonInfo {
	jde := julian.TimeToJD(dt.UTC())
	λMoon, _, Δ := moonposition.Position(jde)
	λSun, _ := solar.True(base.J2000Century(jde))
	elongation := wrapAngle(λMoon.Rad() - λSun.Rad())
	age := elongation / τ * SynodicMonth
	if age >= SynodicMonth {
		age = 0
	}
	return MoonInfo{Age: age, Phase: PhaseFromAge(age), Distance: Δ}
}

// LinearIllumination is the illumination percentage used by the single viewpoint scene:
// the age spread linearly over the whole lunation.
func LinearIllumination(age float64) float64 {
	return age / SynodicMonth * 100
}

// TriangularIllumination is the illumination percentage used by the dual pivot scene:
// it rises from the new moon, peaks at half a lunation and falls back symmetrically.
func TriangularIllumination(age float64) float64 {
	x := age / (SynodicMonth / 2)
	if x > 1 {
		x = 2 - x
	}
	return x * 100
}

// IlluminationModel selects how an age is turned into an illumination percentage.
type IlluminationModel uint8

const (
	// Triangular uses TriangularIllumination.
	Triangular IlluminationModel = iota + 1
	// Linear uses LinearIllumination.
	Linear
)

// Percent returns the illumination percentage for the provided age.
func (m IlluminationModel) Percent(age float64) float64 {
	if m == Linear {
		return LinearIllumination(age)
	}
	return TriangularIllumination(age)
}

func (m IlluminationModel) String() string {
	switch m {
	case Linear:
		return "linear"
	case Triangular:
		return "triangular"
	default:
		return "unknown"
	}
}

// ParseIlluminationModel returns the model from its name.
func ParseIlluminationModel(s string) (IlluminationModel, error) {
	switch strings.ToLower(s) {
	case "linear":
		return Linear, nil
	case "triangular", "":
		return Triangular, nil
	default:
		return 0, fmt.Errorf("undefined illumination model '%s'", s)
	}
}

// MoonSnapshot is the Moon as seen at the resolved date of an OrbitalState.
type MoonSnapshot struct {
	MoonInfo
	Illumination float64 // percent, in [0, 100]
}

// NewMoonSnapshot computes the snapshot for the provided date.
func NewMoonSnapshot(l Lunar, dt time.Time, model IlluminationModel) MoonSnapshot {
	info := l.Info(dt)
	return MoonSnapshot{info, model.Percent(info.Age)}
}

func (s MoonSnapshot) String() string {
	return fmt.Sprintf("%s (age %.2fd, %.1f%%, %.0f km)", s.Phase, s.Age, s.Illumination, s.Distance)
}
