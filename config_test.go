package moonphase

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats/scalar"
)

func viperFrom(t *testing.T, toml string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewBufferString(toml)); err != nil {
		t.Fatalf("could not read config: %s", err)
	}
	return v
}

func TestProfiles(t *testing.T) {
	dual, single := DualPivotConfig(), SingleViewConfig()
	if err := dual.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := single.Validate(); err != nil {
		t.Fatal(err)
	}
	if dual.OrbitRadius != 42 || dual.OverviewPullback != 34 || dual.Duration(MoonClose) != 500*time.Millisecond || dual.SunHideDelay != 200*time.Millisecond {
		t.Fatalf("unexpected dual pivot preset %+v", dual)
	}
	if single.OrbitRadius != 36 || single.OverviewPullback != 30 || single.Duration(MoonClose) != time.Second || single.SunHideDelay != 500*time.Millisecond {
		t.Fatalf("unexpected single view preset %+v", single)
	}
	if dual.Illumination != Triangular || single.Illumination != Linear {
		t.Fatal("unexpected illumination models")
	}
	for _, c := range []SceneConfig{dual, single} {
		if c.Duration(MoonCentered) != time.Second || c.Duration(FullSystem) != time.Second {
			t.Fatalf("%s: centered and overview transitions last one second", c.Profile)
		}
		if c.YOffset(MoonClose) != -1 || c.YOffset(MoonCentered) != -0.5 {
			t.Fatalf("%s: unexpected camera offsets", c.Profile)
		}
		if c.AnimateSunSpin {
			t.Fatalf("%s: the Sun spin is not animated by default", c.Profile)
		}
	}
	// Presets do not share their slices.
	single.Moon.Position[2] = 12
	if DualPivotConfig().Moon.Position[2] != 8 {
		t.Fatal("presets should be independent")
	}
	if _, err := ConfigForProfile("triple"); err == nil {
		t.Fatal("triple is not a profile")
	}
}

func TestConfigFromViper(t *testing.T) {
	conf, err := ConfigFromViper(viperFrom(t, `
[scene]
profile = "single"
orbit_radius = 50

[camera]
overview_height = 80

[animation]
close = "750ms"
sun_spin = true

[moon]
illumination = "triangular"
radius = 1.5
angle = 90
position = [0, 0, 10]
`))
	if err != nil {
		t.Fatal(err)
	}
	if conf.Profile != SingleView || conf.OrbitRadius != 50 || conf.OverviewHeight != 80 {
		t.Fatalf("scene and camera keys not read: %+v", conf)
	}
	if conf.CloseDuration != 750*time.Millisecond || !conf.AnimateSunSpin {
		t.Fatalf("animation keys not read: %+v", conf)
	}
	if conf.Illumination != Triangular || conf.Moon.Radius != 1.5 || !vectorsEqual(conf.Moon.Position, []float64{0, 0, 10}) {
		t.Fatalf("moon keys not read: %+v", conf.Moon)
	}
	if !scalar.EqualWithinAbs(conf.Moon.Angle, math.Pi/2, 1e-12) {
		t.Fatalf("moon angle should be read in degrees: %f", conf.Moon.Angle)
	}
	// Unset keys keep the preset.
	if conf.OverviewPullback != 30 || conf.SunHideDelay != 500*time.Millisecond || conf.Sun.Radius != 16 {
		t.Fatalf("preset overridden: %+v", conf)
	}
}

func TestConfigFromViperErrors(t *testing.T) {
	for name, toml := range map[string]string{
		"profile":      "[scene]\nprofile = \"triple\"\n",
		"illumination": "[moon]\nillumination = \"cosine\"\n",
		"radius":       "[scene]\norbit_radius = -1\n",
		"position":     "[moon]\nposition = [0, 8]\n",
		"body":         "[sun]\nradius = 0\n",
		"duration":     "[animation]\norbit = \"-1s\"\n",
	} {
		if _, err := ConfigFromViper(viperFrom(t, toml)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "conf.toml"), []byte("[scene]\nprofile = \"single\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigEnv, dir)
	conf, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if conf.Profile != SingleView {
		t.Fatalf("profile %s", conf.Profile)
	}
	t.Setenv(ConfigEnv, "")
	if conf, err = LoadConfigFromEnv(); err != nil || conf.Profile != DualPivot {
		t.Fatalf("expected the dual pivot preset, got %s (%v)", conf.Profile, err)
	}
	if _, err := LoadConfig(dir, "missing"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
