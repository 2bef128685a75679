package moonphase

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// ConfigEnv is the environment variable holding the directory of the scene configuration.
	ConfigEnv = "MOONPHASE_CONFIG"
)

// Profile names one of the two scene layouts.
type Profile string

const (
	// DualPivot is the camera scene extended with bodies, at 42 units from the Sun.
	DualPivot Profile = "dual"
	// SingleView is the single scene at 36 units from the Sun.
	SingleView Profile = "single"
)

// BodyConfig is the static geometry of a body node.
type BodyConfig struct {
	Radius   float64
	Position []float64 // local offset in its pivot
	Axis     []float64 // fixed rotation axis, only used when Angle is non zero
	Angle    float64
}

// SceneConfig defines the geometry and choreography of a scene.
type SceneConfig struct {
	Profile          Profile
	OrbitRadius      float64 // distance from the Sun to the earth-system pivot
	OverviewHeight   float64 // height of the fullSystem camera above the orbital plane
	OverviewPullback float64 // distance of the fullSystem camera back towards the Sun
	CloseYOffset     float64
	CenteredYOffset  float64

	CloseDuration    time.Duration
	CenteredDuration time.Duration
	OverviewDuration time.Duration
	OrbitDuration    time.Duration // duration of animated time offset changes

	SunHideDelay        time.Duration
	SunShowDelay        time.Duration
	BackgroundHideDelay time.Duration
	BackgroundShowDelay time.Duration

	Illumination   IlluminationModel
	AnimateSunSpin bool // the Sun spin has never been animated, cf. DESIGN.md

	Sun, Earth, Moon BodyConfig
}

// DualPivotConfig returns the configuration of the scene built from a camera-only core and its bodies.
func DualPivotConfig() SceneConfig {
	return SceneConfig{
		Profile:             DualPivot,
		OrbitRadius:         42,
		OverviewHeight:      70,
		OverviewPullback:    34,
		CloseYOffset:        -1,
		CenteredYOffset:     -0.5,
		CloseDuration:       500 * time.Millisecond,
		CenteredDuration:    time.Second,
		OverviewDuration:    time.Second,
		OrbitDuration:       time.Second,
		SunHideDelay:        200 * time.Millisecond,
		SunShowDelay:        500 * time.Millisecond,
		BackgroundHideDelay: 0,
		BackgroundShowDelay: time.Second,
		Illumination:        Triangular,
		Sun:                 BodyConfig{Radius: 24, Position: []float64{0, 0, 0}},
		Earth:               BodyConfig{Radius: 4, Position: []float64{0, 0, 0}},
		Moon:                BodyConfig{Radius: 1, Position: []float64{0, 0, 8}, Axis: []float64{0, 0.8, 0.1}, Angle: math.Pi},
	}
}

// SingleViewConfig returns the configuration of the single scene: smaller orbit and Sun, slower close view.
func SingleViewConfig() SceneConfig {
	c := DualPivotConfig()
	c.Profile = SingleView
	c.OrbitRadius = 36
	c.OverviewPullback = 30
	c.CloseDuration = time.Second
	c.SunHideDelay = 500 * time.Millisecond
	c.Illumination = Linear
	c.Sun.Radius = 16
	return c
}

// ConfigForProfile returns the preset of the provided profile.
func ConfigForProfile(p Profile) (SceneConfig, error) {
	switch Profile(strings.ToLower(string(p))) {
	case DualPivot, "":
		return DualPivotConfig(), nil
	case SingleView:
		return SingleViewConfig(), nil
	default:
		return SceneConfig{}, fmt.Errorf("undefined profile '%s'", p)
	}
}

// Duration returns the camera animation duration of a transition towards the provided mode.
func (c SceneConfig) Duration(mode ViewMode) time.Duration {
	switch mode {
	case MoonClose:
		return c.CloseDuration
	case MoonCentered:
		return c.CenteredDuration
	default:
		return c.OverviewDuration
	}
}

// YOffset returns the vertical offset of the camera from the earth-system pivot for the moon views.
func (c SceneConfig) YOffset(mode ViewMode) float64 {
	if mode == MoonCentered {
		return c.CenteredYOffset
	}
	return c.CloseYOffset
}

// Validate returns an error if the configuration cannot produce a scene.
func (c SceneConfig) Validate() error {
	if c.OrbitRadius <= 0 {
		return fmt.Errorf("orbit radius must be positive, got %f", c.OrbitRadius)
	}
	for name, d := range map[string]time.Duration{"close": c.CloseDuration, "centered": c.CenteredDuration, "overview": c.OverviewDuration, "orbit": c.OrbitDuration} {
		if d < 0 {
			return fmt.Errorf("%s duration must not be negative, got %s", name, d)
		}
	}
	for name, b := range map[string]BodyConfig{"sun": c.Sun, "earth": c.Earth, "moon": c.Moon} {
		if b.Radius <= 0 {
			return fmt.Errorf("%s radius must be positive, got %f", name, b.Radius)
		}
		if len(b.Position) != 3 {
			return fmt.Errorf("%s position must have three components", name)
		}
	}
	return nil
}

// ConfigFromViper reads the scene configuration from the provided viper instance, starting from the preset
// named by `scene.profile` and overriding whatever keys are set.
func ConfigFromViper(v *viper.Viper) (SceneConfig, error) {
	c, err := ConfigForProfile(Profile(v.GetString("scene.profile")))
	if err != nil {
		return c, err
	}
	setFloat := func(key string, dst *float64) {
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}
	setFloat("scene.orbit_radius", &c.OrbitRadius)
	setFloat("camera.overview_height", &c.OverviewHeight)
	setFloat("camera.overview_pullback", &c.OverviewPullback)
	setFloat("camera.close_offset", &c.CloseYOffset)
	setFloat("camera.centered_offset", &c.CenteredYOffset)
	setDuration("animation.close", &c.CloseDuration)
	setDuration("animation.centered", &c.CenteredDuration)
	setDuration("animation.overview", &c.OverviewDuration)
	setDuration("animation.orbit", &c.OrbitDuration)
	setDuration("animation.sun_hide", &c.SunHideDelay)
	setDuration("animation.sun_show", &c.SunShowDelay)
	setDuration("animation.background_hide", &c.BackgroundHideDelay)
	setDuration("animation.background_show", &c.BackgroundShowDelay)
	if v.IsSet("animation.sun_spin") {
		c.AnimateSunSpin = v.GetBool("animation.sun_spin")
	}
	if v.IsSet("moon.illumination") {
		if c.Illumination, err = ParseIlluminationModel(v.GetString("moon.illumination")); err != nil {
			return c, err
		}
	}
	setFloat("sun.radius", &c.Sun.Radius)
	setFloat("earth.radius", &c.Earth.Radius)
	setFloat("moon.radius", &c.Moon.Radius)
	if v.IsSet("moon.angle") {
		// Scenario files give the fixed tilt of the Moon in degrees.
		c.Moon.Angle = Deg2rad(v.GetFloat64("moon.angle"))
	}
	if v.IsSet("moon.position") {
		pos := make([]float64, 0, 3)
		for _, s := range v.GetStringSlice("moon.position") {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return c, fmt.Errorf("moon.position: %w", err)
			}
			pos = append(pos, f)
		}
		c.Moon.Position = pos
	}
	return c, c.Validate()
}

// LoadConfig reads `<name>.toml` (or any format viper supports) from the provided directory.
func LoadConfig(dir, name string) (SceneConfig, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		return SceneConfig{}, fmt.Errorf("%s/%s: %w", dir, name, err)
	}
	return ConfigFromViper(v)
}

// LoadConfigFromEnv reads `conf.toml` from the directory in MOONPHASE_CONFIG, or returns the
// dual pivot preset when the variable is unset.
func LoadConfigFromEnv() (SceneConfig, error) {
	dir := os.Getenv(ConfigEnv)
	if dir == "" {
		return DualPivotConfig(), nil
	}
	return LoadConfig(dir, "conf")
}
