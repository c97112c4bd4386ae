package box

import (
	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/logging"
)

// Params is a plain snapshot of every persisted box parameter. Codecs and
// scripts fill one in and build a model from it in a single validated step.
type Params struct {
	Height, Width, Depth float64
	Wall                 float64
	ToolRadius           float64
	Relief               ReliefMode
	Joints               [3]Joint
	Blind                FaceSet
	Circles              map[Face][]geom.Circle
	Rectangles           map[Face][]geom.Rectangle
}

// DefaultParams returns the parameters of a new box.
func DefaultParams() Params {
	return New().Params()
}

// Params returns a snapshot of the model.
func (m *Model) Params() Params {
	p := Params{
		Height:     m.height,
		Width:      m.width,
		Depth:      m.depth,
		Wall:       m.wall,
		ToolRadius: m.toolRadius,
		Relief:     m.relief,
		Blind:      m.blind,
		Circles:    make(map[Face][]geom.Circle),
		Rectangles: make(map[Face][]geom.Rectangle),
	}
	copy(p.Joints[:], m.joints[:])
	for _, f := range AllFaces {
		if len(m.circles[f]) > 0 {
			p.Circles[f] = cloneSlice(m.circles[f])
		}
		if len(m.rects[f]) > 0 {
			p.Rectangles[f] = cloneSlice(m.rects[f])
		}
	}
	return p
}

// FromParams builds a clean model from p, validating the whole state.
func FromParams(p Params) (*Model, error) {
	m := &Model{
		height:     p.Height,
		width:      p.Width,
		depth:      p.Depth,
		wall:       p.Wall,
		toolRadius: p.ToolRadius,
		relief:     p.Relief,
		blind:      p.Blind & (1<<uint(numFaces) - 1),
	}
	copy(m.joints[:], p.Joints[:])
	for f, cs := range p.Circles {
		if err := checkFace(f); err != nil {
			return nil, err
		}
		m.circles[f] = cloneSlice(cs)
	}
	for f, rs := range p.Rectangles {
		if err := checkFace(f); err != nil {
			return nil, err
		}
		m.rects[f] = cloneSlice(rs)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Replace swaps the whole state of m for that of other, as happens on load or
// new. The generation keeps increasing so earlier face paths read as stale.
func (m *Model) Replace(other *Model) {
	gen := m.generation
	*m = *other.Clone()
	m.generation = gen + 1
	m.dirty = false
}

// SetParams replaces every parameter at once. Unlike Replace this counts as
// an edit: the result is validated as a whole and marks the model dirty.
func (m *Model) SetParams(p Params) error {
	next, err := FromParams(p)
	if err != nil {
		logging.Logger().Debug("box: rejected change", "field", "params", "err", err)
		return err
	}
	return m.update("params", func(dst *Model) {
		gen, dirty := dst.generation, dst.dirty
		*dst = *next
		dst.generation, dst.dirty = gen, dirty
	})
}
