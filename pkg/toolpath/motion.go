// Package toolpath turns face geometry into an ordered sequence of machine
// motions: rapid travel, plunges, linear and arc cuts, and retracts.
//
// Coordinates are in the face frame. Z is zero at the stock surface and
// negative into the material.
package toolpath

import (
	"fmt"

	"github.com/chazu/cncbox/pkg/geom"
)

// MotionKind identifies a machine move.
type MotionKind int

const (
	// Rapid travels at safe height to X, Y.
	Rapid MotionKind = iota
	// Plunge feeds straight down (or up) to Z.
	Plunge
	// Linear cuts in a straight line to X, Y at the current depth.
	Linear
	// ArcCut cuts around Center to X, Y at the current depth.
	ArcCut
	// Retract lifts the tool to Z.
	Retract
)

func (k MotionKind) String() string {
	switch k {
	case Rapid:
		return "rapid"
	case Plunge:
		return "plunge"
	case Linear:
		return "linear"
	case ArcCut:
		return "arc"
	case Retract:
		return "retract"
	}
	return fmt.Sprintf("MotionKind(%d)", int(k))
}

// Motion is one machine move. Z always holds the tool height after the move.
type Motion struct {
	Kind      MotionKind
	X, Y, Z   float64
	Center    geom.Point
	Clockwise bool
}

// RapidTravel returns a rapid move to x, y at height z.
func RapidTravel(x, y, z float64) Motion {
	return Motion{Kind: Rapid, X: x, Y: y, Z: z}
}

// PlungeTo returns a feed move straight down to z at x, y.
func PlungeTo(x, y, z float64) Motion {
	return Motion{Kind: Plunge, X: x, Y: y, Z: z}
}

// LinearCut returns a straight cut to x, y at depth z.
func LinearCut(x, y, z float64) Motion {
	return Motion{Kind: Linear, X: x, Y: y, Z: z}
}

// Arc returns an arc cut to x, y around center at depth z.
func Arc(x, y, z float64, center geom.Point, clockwise bool) Motion {
	return Motion{Kind: ArcCut, X: x, Y: y, Z: z, Center: center, Clockwise: clockwise}
}

// RetractTo returns a lift to z at x, y.
func RetractTo(x, y, z float64) Motion {
	return Motion{Kind: Retract, X: x, Y: y, Z: z}
}

// Point returns the motion's end position in the XY plane.
func (m Motion) Point() geom.Point { return geom.Pt(m.X, m.Y) }

func (m Motion) String() string {
	switch m.Kind {
	case Rapid:
		return fmt.Sprintf("rapid X%.4f Y%.4f", m.X, m.Y)
	case Plunge, Retract:
		return fmt.Sprintf("%s Z%.4f", m.Kind, m.Z)
	case ArcCut:
		dir := "ccw"
		if m.Clockwise {
			dir = "cw"
		}
		return fmt.Sprintf("arc %s X%.4f Y%.4f C%v Z%.4f", dir, m.X, m.Y, m.Center, m.Z)
	}
	return fmt.Sprintf("%s X%.4f Y%.4f Z%.4f", m.Kind, m.X, m.Y, m.Z)
}
