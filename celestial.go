package moonphase

import (
	"fmt"
	"strings"
)

// Body is one of the three bodies of the scene.
type Body uint8

const (
	// Sun is our closest star.
	Sun Body = iota
	// Earth is home.
	Earth
	// Moon is why we are here.
	Moon
)

// Bodies lists all bodies, outermost pivot first.
var Bodies = []Body{Sun, Earth, Moon}

// String implements the Stringer interface.
func (b Body) String() string {
	switch b {
	case Sun:
		return "Sun"
	case Earth:
		return "Earth"
	case Moon:
		return "Moon"
	default:
		return fmt.Sprintf("Body(%d)", uint8(b))
	}
}

// BodyFromString returns the body from its name.
func BodyFromString(name string) (Body, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "earth":
		return Earth, nil
	case "moon":
		return Moon, nil
	default:
		return Sun, fmt.Errorf("undefined body '%s'", name)
	}
}

// Body returns the static geometry of the provided body.
func (c SceneConfig) Body(b Body) BodyConfig {
	switch b {
	case Earth:
		return c.Earth
	case Moon:
		return c.Moon
	default:
		return c.Sun
	}
}

// Node returns the node of the provided body.
func (g *SceneGraph) Node(b Body) *Node {
	switch b {
	case Earth:
		return g.Earth
	case Moon:
		return g.Moon
	default:
		return g.Sun
	}
}
