package moonphase

import (
	"fmt"
	"math"
	"time"

	kitlog "github.com/go-kit/log"
)

const (
	// EarthTextureOffset aligns the Earth's textured hemisphere with the Sun (radians).
	EarthTextureOffset = -0.22 + math.Pi
	// maxOffsetDays keeps the day count well within int range; anything beyond leaves the calendar anyway.
	maxOffsetDays = 4e6
)

// Clock provides the current instant, used whenever a date cannot be derived.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// WallClock is the system clock.
var WallClock Clock = wallClock{}

// OrbitalState is the rotational state of the Sun, Earth and Moon at a resolved date.
// All angles are in radians and are never wrapped: they are only consumed through trigonometry.
type OrbitalState struct {
	DT              time.Time // resolved date
	Offset          float64   // offset in days from the reference, as requested
	DayOfYear       int       // 1-based ordinal of DT's day in its year
	HourOfDay       int       // 1-based ordinal of DT's hour in its day
	EarthAroundSun  float64
	MoonAroundEarth float64
	EarthAxial      float64
	SunAxial        float64
}

func (s OrbitalState) String() string {
	return fmt.Sprintf("%s (%+.3fd) ⊙→⊕ %.4f ⊕→☾ %.4f ⊕ %.4f ⊙ %.4f", s.DT.Format(time.RFC3339), s.Offset, s.EarthAroundSun, s.MoonAroundEarth, s.EarthAxial, s.SunAxial)
}

// Resolver maps a reference instant and an offset in days to an OrbitalState.
// Date arithmetic and ordinals follow the calendar of the provided location.
type Resolver struct {
	loc    *time.Location
	clock  Clock
	logger kitlog.Logger
}

// NewResolver returns a new Resolver. A nil location defaults to time.Local, a nil clock to WallClock
// and a nil logger discards everything.
func NewResolver(loc *time.Location, clock Clock, logger kitlog.Logger) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = WallClock
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Resolver{loc, clock, kitlog.With(logger, "subsys", "orbit")}
}

// Location returns the calendar location used by this resolver.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Now returns the resolver's current instant in its calendar.
func (r *Resolver) Now() time.Time {
	return r.clock.Now().In(r.loc)
}

// Resolve returns the orbital state at reference + offsetDays, where the Moon was initialMoonAge days
// old at the reference. The offset is split into whole days and whole hours, both truncated toward zero.
// Resolve never fails: a date which cannot be derived falls back to the clock's current instant.
func (r *Resolver) Resolve(reference time.Time, offsetDays, initialMoonAge float64) OrbitalState {
	dt := r.resolveDate(reference, offsetDays)
	day := dt.YearDay()
	hour := dt.Hour() + 1
	earthAroundSun := float64(day) / JulianYear * 2 * math.Pi
	moonAroundEarth := (initialMoonAge + offsetDays) / SynodicMonth * 2 * math.Pi
	return OrbitalState{
		DT:              dt,
		Offset:          offsetDays,
		DayOfYear:       day,
		HourOfDay:       hour,
		EarthAroundSun:  earthAroundSun,
		MoonAroundEarth: moonAroundEarth,
		EarthAxial:      EarthTextureOffset + float64(hour)/24*2*math.Pi - moonAroundEarth,
		SunAxial:        -earthAroundSun,
	}
}

func (r *Resolver) resolveDate(reference time.Time, offsetDays float64) time.Time {
	if reference.IsZero() {
		r.logger.Log("level", "debug", "fallback", "now", "reason", "no reference")
		return r.Now()
	}
	if math.IsNaN(offsetDays) || math.Abs(offsetDays) > maxOffsetDays {
		r.logger.Log("level", "debug", "fallback", "now", "reason", "offset out of calendar", "offset", offsetDays)
		return r.Now()
	}
	extraDay := int(offsetDays)
	extraHour := int((offsetDays - float64(extraDay)) * 24)
	dt := reference.In(r.loc).AddDate(0, 0, extraDay).Add(time.Duration(extraHour) * time.Hour)
	if y := dt.Year(); y < 1 || y > 9999 {
		r.logger.Log("level", "debug", "fallback", "now", "reason", "date out of calendar", "year", y)
		return r.Now()
	}
	return dt
}

var defaultResolver = NewResolver(nil, nil, nil)

// Resolve uses the local calendar and the system clock, cf. Resolver.Resolve.
func Resolve(reference time.Time, offsetDays, initialMoonAge float64) OrbitalState {
	return defaultResolver.Resolve(reference, offsetDays, initialMoonAge)
}
