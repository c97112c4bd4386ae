package box

import (
	"github.com/chazu/cncbox/pkg/geom"
)

// Every face is drawn in its own frame: origin at the lower-left corner of
// the panel's outer envelope, x along the first dimension returned by
// FaceSize, y along the second. Edges are numbered counter-clockwise.

// EdgeSide names one of the four edges of a face.
type EdgeSide int

const (
	EdgeBottom EdgeSide = iota
	EdgeRight
	EdgeTop
	EdgeLeft
)

// AllEdgeSides lists the edges in counter-clockwise order starting at the
// origin.
var AllEdgeSides = []EdgeSide{EdgeBottom, EdgeRight, EdgeTop, EdgeLeft}

func (e EdgeSide) String() string {
	switch e {
	case EdgeBottom:
		return "bottom"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeLeft:
		return "left"
	}
	return "edge?"
}

// Edge describes which corner class governs a face edge and which face it
// mates with.
type Edge struct {
	Side  EdgeSide
	Class CornerClass
	Mate  Face
}

// edgeTable maps every face edge to its corner class and mating face. Top and
// Bottom are both seen from above; the side panels are seen from outside.
var edgeTable = [numFaces][4]Edge{
	Top: {
		{EdgeBottom, FrontTop, Front}, {EdgeRight, SideTop, Right},
		{EdgeTop, FrontTop, Back}, {EdgeLeft, SideTop, Left},
	},
	Bottom: {
		{EdgeBottom, FrontTop, Front}, {EdgeRight, SideTop, Right},
		{EdgeTop, FrontTop, Back}, {EdgeLeft, SideTop, Left},
	},
	Left: {
		{EdgeBottom, SideTop, Bottom}, {EdgeRight, FrontSide, Front},
		{EdgeTop, SideTop, Top}, {EdgeLeft, FrontSide, Back},
	},
	Right: {
		{EdgeBottom, SideTop, Bottom}, {EdgeRight, FrontSide, Back},
		{EdgeTop, SideTop, Top}, {EdgeLeft, FrontSide, Front},
	},
	Front: {
		{EdgeBottom, FrontTop, Bottom}, {EdgeRight, FrontSide, Right},
		{EdgeTop, FrontTop, Top}, {EdgeLeft, FrontSide, Left},
	},
	Back: {
		{EdgeBottom, FrontTop, Bottom}, {EdgeRight, FrontSide, Left},
		{EdgeTop, FrontTop, Top}, {EdgeLeft, FrontSide, Right},
	},
}

// Edges returns the four edges of f in counter-clockwise order.
func Edges(f Face) [4]Edge {
	return edgeTable[f]
}

// FaceSize returns the envelope of a face: Width×Depth for top and bottom,
// Width×Height for front and back, Depth×Height for left and right.
func (m *Model) FaceSize(f Face) (w, h float64) {
	switch f {
	case Top, Bottom:
		return m.width, m.depth
	case Front, Back:
		return m.width, m.height
	case Left, Right:
		return m.depth, m.height
	}
	return 0, 0
}

// EdgeLength returns the length of the edges governed by c.
func (m *Model) EdgeLength(c CornerClass) float64 {
	switch c {
	case FrontSide:
		return m.height
	case FrontTop:
		return m.width
	case SideTop:
		return m.depth
	}
	return 0
}

// Role returns whether f carries fingers (Tabs) or notches (Slots) on the
// edges governed by c.
func (m *Model) Role(f Face, c CornerClass) JointType {
	jt := m.joints[c].Type
	p := c.Primary()
	if f == p[0] || f == p[1] {
		return jt
	}
	return jt.Opposite()
}

// TabGap returns the width of each gap between fingers on edges governed by
// c. Fingers occupy the edge between the two wall-thickness corner zones.
func (m *Model) TabGap(c CornerClass) float64 {
	return tabGap(m.EdgeLength(c), m.wall, m.joints[c])
}

func tabGap(length, wall float64, j Joint) float64 {
	span := length - 2*wall
	if j.Count <= 0 {
		return span
	}
	return (span - float64(j.Count)*j.Length) / float64(j.Count+1)
}

// FingerStarts returns the offset along the edge, measured from either end,
// at which each finger begins. The layout is symmetric, so the direction of
// measurement does not matter.
func (m *Model) FingerStarts(c CornerClass) []float64 {
	j := m.joints[c]
	if j.Count <= 0 {
		return nil
	}
	g := m.TabGap(c)
	starts := make([]float64, j.Count)
	for i := range starts {
		starts[i] = m.wall + g + float64(i)*(j.Length+g)
	}
	return starts
}

// Skin returns the thickness left behind a blind notch.
func (m *Model) Skin() float64 {
	return m.wall * SkinFraction
}

// BlindEdge reports whether the notches on edge e of face f are hidden: the
// face is in the blind set, it is the Slots side of the joint, and the joint
// has fingers.
func (m *Model) BlindEdge(f Face, e Edge) bool {
	return m.blind.Has(f) && m.Role(f, e.Class) == Slots && m.joints[e.Class].Count > 0
}

// MateBlind reports whether the face across edge e hides its notches, in
// which case the fingers of f on that edge stop at the skin.
func (m *Model) MateBlind(f Face, e Edge) bool {
	return m.Role(f, e.Class) == Tabs && m.BlindEdge(e.Mate, Edges(e.Mate)[mateSide(e.Mate, f)])
}

// mateSide returns the side of face g that mates with face f.
func mateSide(g, f Face) EdgeSide {
	for _, e := range edgeTable[g] {
		if e.Mate == f {
			return e.Side
		}
	}
	return EdgeBottom
}

// classBlind reports whether any edge governed by c is blind.
func (m *Model) classBlind(c CornerClass) bool {
	for _, f := range AllFaces {
		for _, e := range edgeTable[f] {
			if e.Class == c && m.BlindEdge(f, e) {
				return true
			}
		}
	}
	return false
}

// UsableArea returns the part of face f in which openings may be placed: the
// envelope inset by the wall thickness on every side.
func (m *Model) UsableArea(f Face) geom.Bounds {
	w, h := m.FaceSize(f)
	return geom.Bounds{Max: geom.Pt(w, h)}.Inset(m.wall)
}
