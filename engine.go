package moonphase

import (
	"fmt"
	"time"

	kitlog "github.com/go-kit/log"
)

// Snapshot is what the renderer and the UI read from a scene after every change.
type Snapshot struct {
	DT         time.Time
	Offset     float64
	Mode       ViewMode
	Moon       MoonSnapshot
	Camera     CameraPose
	Rotations  BodyRotations
	Visibility Visibility
	Animating  bool
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%s [%s] %s", s.DT.Format("2006-01-02 15:04"), s.Mode, s.Moon)
}

// CameraRig is the camera and orbit core: it resolves the orbital state from the time offset and
// choreographs the camera between the view modes. It has no bodies.
type CameraRig struct {
	conf           SceneConfig
	resolver       *Resolver
	lunar          Lunar
	logger         kitlog.Logger
	reference      time.Time
	initialMoonAge float64

	state      OrbitalState
	moon       MoonSnapshot
	mode       ViewMode
	plan       AnimationPlan
	effects    EffectQueue
	elapsed    time.Duration
	animating  bool
	visibility Visibility
}

// NewCameraRig returns a rig at the reference instant (now if zero), looking at the Moon.
// The Moon's age at the reference is the origin of its orbit angle for all offsets.
// A nil resolver, lunar or logger uses the defaults.
func NewCameraRig(conf SceneConfig, reference time.Time, resolver *Resolver, lunar Lunar, logger kitlog.Logger) *CameraRig {
	if resolver == nil {
		resolver = defaultResolver
	}
	if lunar == nil {
		lunar = MeeusMoon{}
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	if reference.IsZero() {
		reference = resolver.Now()
	}
	r := &CameraRig{
		conf:      conf,
		resolver:  resolver,
		lunar:     lunar,
		logger:    kitlog.With(logger, "subsys", "camera"),
		reference: reference,
		mode:      MoonClose,
	}
	r.initialMoonAge = lunar.Info(reference).Age
	r.recompute(0)
	pose, vis := BuildCamera(r.state, r.mode, r.conf)
	r.plan = PlanTransition(pose, pose, r.mode, false, r.conf)
	r.visibility = vis
	return r
}

func (r *CameraRig) recompute(offsetDays float64) {
	r.state = r.resolver.Resolve(r.reference, offsetDays, r.initialMoonAge)
	r.moon = NewMoonSnapshot(r.lunar, r.state.DT, r.conf.Illumination)
	r.logger.Log("level", "debug", "offset", offsetDays, "date", r.state.DT, "moon", r.moon)
}

// SetTimeOffset moves the system to reference + offsetDays and snaps the camera onto the current view.
// Offsets outside one lunation either side are accepted: the orbits simply wrap around.
func (r *CameraRig) SetTimeOffset(offsetDays float64) {
	r.recompute(offsetDays)
	r.moveCamera(r.mode, false, 0)
}

// SetViewMode moves the camera to the provided view, animated or not.
func (r *CameraRig) SetViewMode(mode ViewMode, animated bool) {
	if mode != r.mode {
		r.logger.Log("level", "info", "from", r.mode, "to", mode, "animated", animated)
	}
	r.mode = mode
	r.moveCamera(mode, animated, 0)
}

// moveCamera starts the transition towards the pose of the provided mode from the live pose.
// A transition in flight is re-targeted and its pending effects are dropped.
// A positive duration overrides the duration of the mode.
func (r *CameraRig) moveCamera(mode ViewMode, animated bool, duration time.Duration) {
	from := r.Camera()
	to, _ := BuildCamera(r.state, mode, r.conf)
	plan := PlanTransition(from, to, mode, animated, r.conf)
	if animated && duration > 0 {
		plan.Duration = duration
	}
	if canceled := r.effects.Start(plan.Effects); r.animating && len(canceled) > 0 {
		r.logger.Log("level", "debug", "retarget", mode, "canceled", len(canceled))
	}
	r.plan = plan
	r.elapsed = 0
	r.animating = plan.Animated()
	r.fire(r.effects.Advance(0))
	r.settle()
}

func (r *CameraRig) fire(effects []Effect) {
	for _, e := range effects {
		r.visibility = e.Apply(r.visibility)
		r.logger.Log("level", "debug", "effect", e)
	}
}

func (r *CameraRig) settle() {
	if r.animating && r.elapsed >= r.plan.Duration && r.effects.Pending() == 0 {
		r.animating = false
	}
}

// Advance moves the running transition forward by the elapsed time since the previous frame, firing
// the effects which became due. It returns whether the rig is still animating.
func (r *CameraRig) Advance(dt time.Duration) bool {
	if !r.animating {
		return false
	}
	if dt > 0 {
		r.elapsed += dt
	}
	r.fire(r.effects.Advance(dt))
	r.settle()
	return r.animating
}

// Camera returns the live camera pose, i.e. where the running transition currently has it.
func (r *CameraRig) Camera() CameraPose {
	if r.plan.To.Transform == nil {
		return IdentityPose()
	}
	return r.plan.At(r.elapsed)
}

// Target returns the pose the camera is heading to, or sitting at.
func (r *CameraRig) Target() CameraPose {
	return r.plan.To
}

// Plan returns the running, or last, transition.
func (r *CameraRig) Plan() AnimationPlan {
	return r.plan
}

// Animating returns whether a transition or its effects are still running.
func (r *CameraRig) Animating() bool {
	return r.animating
}

// State returns the current orbital state.
func (r *CameraRig) State() OrbitalState {
	return r.state
}

// Moon returns the Moon at the resolved date.
func (r *CameraRig) Moon() MoonSnapshot {
	return r.moon
}

// Mode returns the current view mode.
func (r *CameraRig) Mode() ViewMode {
	return r.mode
}

// Visibility returns the current visibility.
func (r *CameraRig) Visibility() Visibility {
	return r.visibility
}

// Reference returns the reference instant of all offsets.
func (r *CameraRig) Reference() time.Time {
	return r.reference
}

// InitialMoonAge returns the Moon's age at the reference instant.
func (r *CameraRig) InitialMoonAge() float64 {
	return r.initialMoonAge
}

// Config returns the scene configuration.
func (r *CameraRig) Config() SceneConfig {
	return r.conf
}

// Snapshot returns everything the renderer needs.
func (r *CameraRig) Snapshot() Snapshot {
	return Snapshot{
		DT:         r.state.DT,
		Offset:     r.state.Offset,
		Mode:       r.mode,
		Moon:       r.moon,
		Camera:     r.Camera(),
		Rotations:  RotationsFor(r.state),
		Visibility: r.visibility,
		Animating:  r.animating,
	}
}

// PlanetScene decorates a CameraRig with the Sun, the Earth and the Moon.
type PlanetScene struct {
	*CameraRig
	graph     *SceneGraph
	rotations [4]RotationPlan // solar system, earth system, earth, sun
	spinning  bool
	spun      time.Duration // elapsed time of the rotations
}

// NewPlanetScene returns a scene with all its bodies placed at the reference instant.
func NewPlanetScene(conf SceneConfig, reference time.Time, resolver *Resolver, lunar Lunar, logger kitlog.Logger) *PlanetScene {
	s := &PlanetScene{CameraRig: NewCameraRig(conf, reference, resolver, lunar, logger), graph: NewSceneGraph(conf)}
	s.planRotations(false)
	s.sync()
	return s
}

// Graph returns the scene graph.
func (s *PlanetScene) Graph() *SceneGraph {
	return s.graph
}

func (s *PlanetScene) planRotations(animated bool) {
	live := s.graph.Rotations()
	target := RotationsFor(s.state)
	d := s.conf.OrbitDuration
	s.rotations = [4]RotationPlan{
		PlanRotation(yAxis, live.SolarSystem, target.SolarSystem, animated, d),
		PlanRotation(yAxis, live.EarthSystem, target.EarthSystem, animated, d),
		PlanRotation(yAxis, live.Earth, target.Earth, animated, d),
		PlanRotation(yAxis, live.Sun, target.Sun, animated && s.conf.AnimateSunSpin, d),
	}
	s.spun = 0
	s.spinning = animated && d > 0
}

// sync copies the live rotations, camera pose and Sun opacity onto the graph.
func (s *PlanetScene) sync() {
	s.graph.Apply(BodyRotations{
		SolarSystem: s.rotations[0].Angle(s.spun),
		EarthSystem: s.rotations[1].Angle(s.spun),
		Earth:       s.rotations[2].Angle(s.spun),
		Sun:         s.rotations[3].Angle(s.spun),
	})
	s.graph.SetCamera(s.Camera())
	s.graph.Sun.Opacity = s.visibility.SunOpacity
}

// SetTimeOffset moves the bodies and the camera to reference + offsetDays at once.
func (s *PlanetScene) SetTimeOffset(offsetDays float64) {
	s.CameraRig.SetTimeOffset(offsetDays)
	s.planRotations(false)
	s.sync()
}

// AnimateTimeOffset moves the bodies and the camera to reference + offsetDays over the orbit duration.
func (s *PlanetScene) AnimateTimeOffset(offsetDays float64) {
	s.recompute(offsetDays)
	s.moveCamera(s.mode, true, s.conf.OrbitDuration)
	s.planRotations(true)
	s.sync()
}

// SetViewMode moves the camera to the provided view and updates the Sun's opacity.
func (s *PlanetScene) SetViewMode(mode ViewMode, animated bool) {
	s.CameraRig.SetViewMode(mode, animated)
	s.sync()
}

// Advance moves all running animations forward and returns whether any is still running.
func (s *PlanetScene) Advance(dt time.Duration) bool {
	camera := s.CameraRig.Advance(dt)
	if s.spinning {
		if dt > 0 {
			s.spun += dt
		}
		if s.spun >= s.conf.OrbitDuration {
			s.spinning = false
		}
	}
	s.sync()
	return camera || s.spinning
}

// Animating returns whether the camera or the bodies are still moving.
func (s *PlanetScene) Animating() bool {
	return s.CameraRig.Animating() || s.spinning
}

// Snapshot returns everything the renderer needs, with the live rotations of the bodies.
func (s *PlanetScene) Snapshot() Snapshot {
	snap := s.CameraRig.Snapshot()
	snap.Rotations = s.graph.Rotations()
	snap.Animating = s.Animating()
	return snap
}

// Sweep steps the time offset from `from` to `to` (inclusive) and sends a snapshot at each step.
// The channel is closed once done and the scene is left at the last offset. A reversed range is an error.
func (s *PlanetScene) Sweep(from, to, step float64, out chan<- Snapshot) error {
	defer close(out)
	if step <= 0 {
		return fmt.Errorf("sweep step must be positive, got %f", step)
	}
	if to < from {
		return fmt.Errorf("sweep range is reversed: from %f to %f", from, to)
	}
	n := int((to-from)/step+1e-9) + 1
	for i := 0; i < n; i++ {
		s.SetTimeOffset(from + float64(i)*step)
		out <- s.Snapshot()
	}
	s.logger.Log("level", "info", "sweep", "done", "from", from, "to", to, "steps", n)
	return nil
}
