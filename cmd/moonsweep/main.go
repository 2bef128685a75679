package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/lorandignat/moonphase"
	"github.com/spf13/viper"
)

// Sweeps the time offset of a scene and exports what the renderer would show at each step,
// and optionally prints the frames of a camera transition.

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "sweep scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "log every recomputation")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	sceneConf, err := moonphase.ConfigFromViper(viper.GetViper())
	if err != nil {
		log.Fatalf("invalid scene: %s", err)
	}
	sweep := readSweep()

	var logger kitlog.Logger
	if verbose {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
		logger = kitlog.With(logger, "scenario", scenario)
	}
	resolver := moonphase.NewResolver(sweep.location, nil, logger)
	scene := moonphase.NewPlanetScene(sceneConf, sweep.reference, resolver, moonphase.MeeusMoon{}, logger)
	scene.SetViewMode(sweep.mode, false)
	log.Printf("[conf] %s profile, reference %s, moon age %.2f days", sceneConf.Profile, scene.Reference().Format(dateFormat), scene.InitialMoonAge())

	var wg sync.WaitGroup
	snapshots := make(chan moonphase.Snapshot, 100)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := moonphase.StreamSnapshots(sweep.export, snapshots); err != nil {
			log.Printf("[ERROR] export: %s", err)
		}
	}()
	if err := scene.Sweep(sweep.from, sweep.to, sweep.step, snapshots); err != nil {
		log.Fatalf("sweep: %s", err)
	}
	wg.Wait()
	fmt.Printf("%s\n", scene.Snapshot())

	if sweep.transitionTo != nil {
		printTransition(scene, *sweep.transitionTo, sweep.fps)
	}
}

// printTransition plays the transition frame by frame as a renderer would.
func printTransition(scene *moonphase.PlanetScene, to moonphase.ViewMode, fps float64) {
	frame := time.Duration(float64(time.Second) / fps)
	from := scene.Mode()
	scene.SetViewMode(to, true)
	plan := scene.Plan()
	fmt.Printf("%s -> %s in %s, effects %v\n", from, plan.Mode, plan.Duration, plan.Effects)
	var elapsed time.Duration
	for animating := scene.Animating(); animating; elapsed += frame {
		snap := scene.Snapshot()
		pos := snap.Camera.Position()
		fmt.Printf("%8s camera (%8.3f, %8.3f, %8.3f) sun %.1f background %v\n", elapsed, pos[0], pos[1], pos[2], snap.Visibility.SunOpacity, snap.Visibility.Background)
		animating = scene.Advance(frame)
	}
	fmt.Printf("%s\n", scene.Snapshot())
}
