// Package export writes face geometry as 2D drawings for CAM tools and
// laser cutters: DXF with one layer per kind of cut, and SVG in millimetres.
package export

import (
	"fmt"
	"math"

	"github.com/chazu/cncbox/pkg/facepath"
	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/logging"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	LayerOutline  = "OUTLINE"
	LayerOpenings = "OPENINGS"
	LayerPockets  = "POCKETS"
)

var layers = []struct {
	name  string
	color color.ColorNumber
}{
	{LayerOutline, color.White},
	{LayerOpenings, color.Red},
	{LayerPockets, color.Blue},
}

// DXF writes fp to path. The outline, the openings and the pockets go on
// their own layers so a CAM tool can assign a different operation to each.
// Coordinates are in millimetres in the face frame.
func DXF(path string, fp *facepath.FacePath) error {
	if fp == nil {
		return facepath.ErrNoGeometry
	}
	d := dxf.NewDrawing()
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("dxf layer %s: %w", l.name, err)
		}
	}

	w := dxfWriter{d: d}
	w.layer(LayerOutline)
	w.path(fp.Outline)

	w.layer(LayerOpenings)
	for _, c := range fp.Circles {
		w.circle(c.Center, c.Radius)
	}
	for _, r := range fp.Rectangles {
		w.path(r.Path())
	}

	w.layer(LayerPockets)
	for _, p := range fp.Pockets {
		w.path(p.Rect.Path())
	}
	if w.err != nil {
		return fmt.Errorf("dxf %s: %w", fp.Face, w.err)
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("write dxf %s: %w", path, err)
	}
	logging.Logger().Info("export: wrote dxf", "face", fp.Face, "path", path)
	return nil
}

// dxfWriter keeps the first entity error so the drawing code reads straight
// through.
type dxfWriter struct {
	d   *drawing.Drawing
	err error
}

func (w *dxfWriter) layer(name string) {
	if w.err == nil {
		w.err = w.d.ChangeLayer(name)
	}
}

func (w *dxfWriter) circle(c geom.Point, r float64) {
	if w.err == nil {
		_, w.err = w.d.Circle(c.X, c.Y, 0, r)
	}
}

func (w *dxfWriter) path(p geom.Path) {
	for _, s := range p {
		if w.err != nil {
			return
		}
		switch {
		case s.Kind != geom.ArcSegment:
			_, w.err = w.d.Line(s.Start.X, s.Start.Y, 0, s.End.X, s.End.Y, 0)
		case s.IsFullCircle():
			w.circle(s.Center, s.Radius())
		default:
			// DXF arcs always run counter-clockwise from start to end angle.
			a0, a1 := degrees(s.Start.Sub(s.Center)), degrees(s.End.Sub(s.Center))
			if s.Clockwise {
				a0, a1 = a1, a0
			}
			_, w.err = w.d.Arc(s.Center.X, s.Center.Y, 0, s.Radius(), a0, a1)
		}
	}
}

func degrees(v geom.Point) float64 {
	a := v.Angle() * 180 / math.Pi
	if a < 0 {
		a += 360
	}
	return a
}
