// Package box holds the parametric model of a finger-jointed box: its outer
// dimensions, wall thickness, per-corner-class joint configuration, blind
// faces and per-face openings.
//
// The model is the sole validation authority. Every setter validates the
// complete resulting state and either commits it or returns an error wrapping
// ErrInvalidParameter with the prior state untouched.
package box

import (
	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/logging"
)

// Starter values used by New.
const (
	DefaultHeight     = 100.0
	DefaultWidth      = 200.0
	DefaultDepth      = 200.0
	DefaultWall       = 6.0
	DefaultToolRadius = 1.5
	DefaultTabCount   = 0
	DefaultTabLength  = 10.0
)

// MinGap is the narrowest gap allowed between two fingers, or between a
// finger and the corner zone.
const MinGap = 1.0

// SkinFraction is the share of the wall thickness left standing behind a
// blind notch.
const SkinFraction = 0.25

// Model is the parametric box. The zero value is not useful; call New.
type Model struct {
	height, width, depth float64
	wall                 float64
	toolRadius           float64
	relief               ReliefMode
	joints               [numCornerClasses]Joint
	blind                FaceSet
	circles              [numFaces][]geom.Circle
	rects                [numFaces][]geom.Rectangle

	generation uint64
	dirty      bool
}

// New returns a box with the starter dimensions and unfingered joints.
func New() *Model {
	m := &Model{
		height:     DefaultHeight,
		width:      DefaultWidth,
		depth:      DefaultDepth,
		wall:       DefaultWall,
		toolRadius: DefaultToolRadius,
		relief:     ReliefNone,
	}
	for c := range m.joints {
		m.joints[c] = Joint{Type: Tabs, Count: DefaultTabCount, Length: DefaultTabLength}
	}
	return m
}

// Clone returns a deep copy, including bookkeeping state.
func (m *Model) Clone() *Model {
	c := *m
	for f := range m.circles {
		c.circles[f] = cloneSlice(m.circles[f])
		c.rects[f] = cloneSlice(m.rects[f])
	}
	return &c
}

func cloneSlice[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (m *Model) Height() float64 { return m.height }
func (m *Model) Width() float64 { return m.width }
func (m *Model) Depth() float64 { return m.depth }
func (m *Model) Wall() float64 { return m.wall }
func (m *Model) ToolRadius() float64 { return m.toolRadius }
func (m *Model) Relief() ReliefMode { return m.relief }
func (m *Model) BlindTabs() FaceSet { return m.blind }

// Joint returns the configuration of corner class c.
func (m *Model) Joint(c CornerClass) Joint {
	if !c.Valid() {
		return Joint{}
	}
	return m.joints[c]
}

// Circles returns a copy of the circular openings on f.
func (m *Model) Circles(f Face) []geom.Circle {
	if !f.Valid() {
		return nil
	}
	return cloneSlice(m.circles[f])
}

// Rectangles returns a copy of the rectangular openings on f.
func (m *Model) Rectangles(f Face) []geom.Rectangle {
	if !f.Valid() {
		return nil
	}
	return cloneSlice(m.rects[f])
}

// Generation increases on every successful mutation. Generated face paths
// record it so stale geometry can be detected.
func (m *Model) Generation() uint64 { return m.generation }

// Dirty reports whether the model changed since it was created, loaded or
// last marked clean.
func (m *Model) Dirty() bool { return m.dirty }

// MarkClean clears the dirty flag, typically after a save.
func (m *Model) MarkClean() { m.dirty = false }

// ---------------------------------------------------------------------------
// Setters
// ---------------------------------------------------------------------------

// update applies fn to a copy of the model and commits it only if the result
// validates.
func (m *Model) update(field string, fn func(next *Model)) error {
	next := m.Clone()
	fn(next)
	if err := next.Validate(); err != nil {
		logging.Logger().Debug("box: rejected change", "field", field, "err", err)
		return err
	}
	next.generation = m.generation + 1
	next.dirty = true
	*m = *next
	return nil
}

func (m *Model) SetHeight(v float64) error {
	return m.update("height", func(n *Model) { n.height = v })
}

func (m *Model) SetWidth(v float64) error {
	return m.update("width", func(n *Model) { n.width = v })
}

func (m *Model) SetDepth(v float64) error {
	return m.update("depth", func(n *Model) { n.depth = v })
}

// SetWall changes the material thickness. Finger layout, relief and opening
// placement are all re-checked against the new value.
func (m *Model) SetWall(v float64) error {
	return m.update("wall", func(n *Model) { n.wall = v })
}

// SetToolRadius records the radius of the cutter the box will be machined
// with. Relief geometry and notch widths are checked against it.
func (m *Model) SetToolRadius(v float64) error {
	return m.update("tool radius", func(n *Model) { n.toolRadius = v })
}

func (m *Model) SetRelief(mode ReliefMode) error {
	return m.update("relief", func(n *Model) { n.relief = mode })
}

func (m *Model) SetTabType(c CornerClass, t JointType) error {
	if err := checkClass(c); err != nil {
		return err
	}
	return m.update(c.String()+" tab type", func(n *Model) { n.joints[c].Type = t })
}

func (m *Model) SetTabCount(c CornerClass, count int) error {
	if err := checkClass(c); err != nil {
		return err
	}
	return m.update(c.String()+" tab count", func(n *Model) { n.joints[c].Count = count })
}

func (m *Model) SetTabLen(c CornerClass, length float64) error {
	if err := checkClass(c); err != nil {
		return err
	}
	return m.update(c.String()+" tab length", func(n *Model) { n.joints[c].Length = length })
}

// SetJoint replaces a corner class's whole configuration at once, which
// allows moving between two valid layouts whose intermediate steps would not
// validate.
func (m *Model) SetJoint(c CornerClass, j Joint) error {
	if err := checkClass(c); err != nil {
		return err
	}
	return m.update(c.String()+" joint", func(n *Model) { n.joints[c] = j })
}

func (m *Model) SetBlindTabs(s FaceSet) error {
	return m.update("blind tabs", func(n *Model) { n.blind = s & (1<<uint(numFaces) - 1) })
}

// SetCircles replaces the circular openings on f.
func (m *Model) SetCircles(f Face, circles []geom.Circle) error {
	if err := checkFace(f); err != nil {
		return err
	}
	return m.update(f.String()+" circles", func(n *Model) { n.circles[f] = cloneSlice(circles) })
}

// SetRectangles replaces the rectangular openings on f.
func (m *Model) SetRectangles(f Face, rects []geom.Rectangle) error {
	if err := checkFace(f); err != nil {
		return err
	}
	return m.update(f.String()+" rectangles", func(n *Model) { n.rects[f] = cloneSlice(rects) })
}

// SetDimensions changes height, width and depth together.
func (m *Model) SetDimensions(height, width, depth float64) error {
	return m.update("dimensions", func(n *Model) {
		n.height, n.width, n.depth = height, width, depth
	})
}
