// Package facepath generates the cut geometry of one box face: the closed
// outline with its fingers, notches and relief cuts, plus the face's openings
// and the partial-depth pockets that hide blind joints.
package facepath

import (
	"errors"
	"math"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/toolpath"
)

// ErrNoGeometry is returned when the requested face does not exist.
var ErrNoGeometry = errors.New("no geometry for face")

// FacePath is the generated geometry of one face, in the face's own frame:
// origin at the lower-left corner of the panel envelope.
type FacePath struct {
	Face       box.Face
	Width      float64
	Height     float64
	ToolRadius float64

	// Outline is closed and wound counter-clockwise with the panel on the
	// left of travel.
	Outline    geom.Path
	Circles    []geom.Circle
	Rectangles []geom.Rectangle
	// Pockets are cleared to their own depth instead of cut through.
	Pockets []geom.Pocket

	// Generation is the model generation the path was rendered from.
	Generation uint64
}

// Stale reports whether m has changed since the path was rendered.
func (fp *FacePath) Stale(m *box.Model) bool {
	return fp.Generation != m.Generation()
}

// Envelope returns the panel's outer rectangle.
func (fp *FacePath) Envelope() geom.Bounds {
	return geom.Bounds{Max: geom.Pt(fp.Width, fp.Height)}
}

// Job returns a toolpath job cutting this face through cutDepth with the tool
// the path was rendered for.
func (fp *FacePath) Job(cutDepth float64, pathOnly bool) toolpath.Job {
	return toolpath.Job{
		Outline:    fp.Outline,
		Circles:    fp.Circles,
		Rectangles: fp.Rectangles,
		Pockets:    fp.Pockets,
		ToolRadius: fp.ToolRadius,
		CutDepth:   cutDepth,
		PathOnly:   pathOnly,
	}
}

// Render builds the geometry of face f. Relief cuts are sized for a tool of
// radius toolRadius and follow the model's relief mode; a zero radius yields
// no relief. The model's invariants are assumed to hold.
func Render(m *box.Model, f box.Face, toolRadius float64) (*FacePath, error) {
	if !f.Valid() {
		return nil, ErrNoGeometry
	}
	if toolRadius < 0 || math.IsNaN(toolRadius) {
		toolRadius = 0
	}
	w, h := m.FaceSize(f)
	g := &generator{
		m:    m,
		face: f,
		w:    w,
		h:    h,
		mode: m.Relief(),
		r:    toolRadius,
	}
	if g.r == 0 {
		g.mode = box.ReliefNone
	}
	g.outline()

	return &FacePath{
		Face:       f,
		Width:      w,
		Height:     h,
		ToolRadius: toolRadius,
		Outline:    g.path,
		Circles:    m.Circles(f),
		Rectangles: m.Rectangles(f),
		Pockets:    g.pockets,
		Generation: m.Generation(),
	}, nil
}

// RenderAll renders every face in canonical order.
func RenderAll(m *box.Model, toolRadius float64) ([]*FacePath, error) {
	out := make([]*FacePath, 0, len(box.AllFaces))
	for _, f := range box.AllFaces {
		fp, err := Render(m, f, toolRadius)
		if err != nil {
			return nil, err
		}
		out = append(out, fp)
	}
	return out, nil
}
