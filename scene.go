package moonphase

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var yAxis = []float64{0, 1, 0}

// Node is an element of the scene graph: a pivot, a body or the camera.
type Node struct {
	Name     string
	Radius   float64   // zero for pivots and the camera
	Position []float64 // local offset in the parent
	Axis     []float64 // rotation axis
	Angle    float64   // rotation angle about Axis
	Opacity  float64
	// Transform, when set, replaces the rotation and position altogether.
	Transform *mat.Dense
	children  []*Node
}

// NewPivot returns a massless node at the provided local offset.
func NewPivot(name string, position []float64) *Node {
	return &Node{Name: name, Position: position, Axis: yAxis, Opacity: 1}
}

// NewBody returns a spherical body node with its static geometry.
func NewBody(name string, conf BodyConfig) *Node {
	axis := conf.Axis
	if axis == nil {
		axis = yAxis
	}
	pos := make([]float64, 3)
	copy(pos, conf.Position)
	return &Node{Name: name, Radius: conf.Radius, Position: pos, Axis: axis, Angle: conf.Angle, Opacity: 1}
}

// AddChild attaches the provided node under this one.
func (n *Node) AddChild(c *Node) {
	n.children = append(n.children, c)
}

// Children returns the nodes directly under this one.
func (n *Node) Children() []*Node {
	return n.children
}

// SetRotation sets the rotation of this node about the provided axis.
func (n *Node) SetRotation(axis []float64, θ float64) {
	n.Axis = axis
	n.Angle = θ
}

// Local returns the transform of this node in its parent: rotation first, then translation.
func (n *Node) Local() *mat.Dense {
	if n.Transform != nil {
		return mat.DenseCopyOf(n.Transform)
	}
	return Nest(Translation(n.Position[0], n.Position[1], n.Position[2]), Homogeneous(AxisRotation(n.Axis, n.Angle)))
}

func (n *Node) String() string {
	if n.Radius > 0 {
		return fmt.Sprintf("%s (r=%.1f) %.4f rad, opacity %.1f", n.Name, n.Radius, n.Angle, n.Opacity)
	}
	return fmt.Sprintf("%s %.4f rad", n.Name, n.Angle)
}

// BodyRotations are the angles about the Y axis of the nodes driven by the orbital state.
type BodyRotations struct {
	Sun, Earth, EarthSystem, SolarSystem float64
}

// RotationsFor returns the node rotations for the provided orbital state.
func RotationsFor(state OrbitalState) BodyRotations {
	return BodyRotations{Sun: state.SunAxial, Earth: state.EarthAxial, EarthSystem: state.MoonAroundEarth, SolarSystem: state.EarthAroundSun}
}

// SceneGraph is the two-level hierarchy of the solar system, plus the camera.
//
//	root ─┬─ solarSystem ─┬─ sun
//	      │               └─ earthSystem ─┬─ earth
//	      │                               └─ moon
//	      └─ camera
type SceneGraph struct {
	Root, SolarSystem, EarthSystem *Node
	Sun, Earth, Moon               *Node
	Camera                         *Node
}

// NewSceneGraph creates all the nodes with their static geometry. Only rotations, opacities and the
// camera transform change afterwards.
func NewSceneGraph(conf SceneConfig) *SceneGraph {
	g := &SceneGraph{
		Root:        NewPivot("root", []float64{0, 0, 0}),
		SolarSystem: NewPivot("solarSystem", []float64{0, 0, 0}),
		EarthSystem: NewPivot("earthSystem", []float64{0, 0, -conf.OrbitRadius}),
		Sun:         NewBody("sun", conf.Sun),
		Earth:       NewBody("earth", conf.Earth),
		Moon:        NewBody("moon", conf.Moon),
		Camera:      NewPivot("camera", []float64{0, 0, 0}),
	}
	g.Camera.Transform = DenseIdentity(4)
	g.EarthSystem.AddChild(g.Earth)
	g.EarthSystem.AddChild(g.Moon)
	g.SolarSystem.AddChild(g.Sun)
	g.SolarSystem.AddChild(g.EarthSystem)
	g.Root.AddChild(g.SolarSystem)
	g.Root.AddChild(g.Camera)
	return g
}

// Apply sets the rotations of the nodes.
func (g *SceneGraph) Apply(r BodyRotations) {
	g.SolarSystem.SetRotation(yAxis, r.SolarSystem)
	g.EarthSystem.SetRotation(yAxis, r.EarthSystem)
	g.Earth.SetRotation(yAxis, r.Earth)
	g.Sun.SetRotation(yAxis, r.Sun)
}

// Rotations returns the current rotations of the nodes.
func (g *SceneGraph) Rotations() BodyRotations {
	return BodyRotations{Sun: g.Sun.Angle, Earth: g.Earth.Angle, EarthSystem: g.EarthSystem.Angle, SolarSystem: g.SolarSystem.Angle}
}

// SetCamera copies the camera pose onto the camera node.
func (g *SceneGraph) SetCamera(p CameraPose) {
	g.Camera.Transform = mat.DenseCopyOf(p.Transform)
}

// path returns the nodes from the root down to n, or nil if n is not in the graph.
func (g *SceneGraph) path(n *Node) []*Node {
	var walk func(cur *Node, acc []*Node) []*Node
	walk = func(cur *Node, acc []*Node) []*Node {
		acc = append(acc, cur)
		if cur == n {
			return acc
		}
		for _, c := range cur.children {
			if p := walk(c, acc); p != nil {
				return p
			}
		}
		return nil
	}
	return walk(g.Root, nil)
}

// WorldTransform returns the transform of n in the scene, or nil if n is not in the graph.
func (g *SceneGraph) WorldTransform(n *Node) *mat.Dense {
	p := g.path(n)
	if p == nil {
		return nil
	}
	world := DenseIdentity(4)
	for _, node := range p {
		world = Nest(world, node.Local())
	}
	return world
}

// WorldPosition returns the position of n in the scene, or nil if n is not in the graph.
func (g *SceneGraph) WorldPosition(n *Node) []float64 {
	w := g.WorldTransform(n)
	if w == nil {
		return nil
	}
	return TranslationOf(w)
}

// Walk calls fn for every node, depth first.
func (g *SceneGraph) Walk(fn func(n *Node, depth int)) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(g.Root, 0)
}
