package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"github.com/chazu/cncbox/pkg/facepath"
	"github.com/chazu/cncbox/pkg/geom"
)

// SVG styles per kind of cut.
const (
	styleOutline  = "fill:none;stroke:black;stroke-width:0.2"
	styleOpenings = "fill:none;stroke:red;stroke-width:0.2"
	stylePockets  = "fill:blue;fill-opacity:0.25;stroke:blue;stroke-width:0.1"
)

// svgMargin pads the drawing so strokes on the envelope stay visible.
const svgMargin = 2.0

// SVG writes fp as an SVG document sized in millimetres. The face frame has
// y pointing up, so the content is flipped inside the document.
func SVG(w io.Writer, fp *facepath.FacePath) error {
	if fp == nil {
		return facepath.ErrNoGeometry
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	b := fp.Envelope()
	if len(fp.Outline) > 0 {
		b = b.Union(fp.Outline.Bounds())
	}
	b = b.Inset(-svgMargin)
	width, height := b.Width(), b.Height()

	canvas.StartviewUnit(width, height, "mm", 0, 0, width, height)
	canvas.Title(fp.Face.Title())
	canvas.Gtransform(fmt.Sprintf("translate(%s,%s) scale(1,-1)", num(-b.Min.X), num(b.Max.Y)))

	canvas.Group(`id="outline"`, styleOutline)
	if len(fp.Outline) > 0 {
		canvas.Path(pathData(fp.Outline))
	}
	canvas.Gend()

	canvas.Group(`id="openings"`, styleOpenings)
	for _, c := range fp.Circles {
		canvas.Circle(c.Center.X, c.Center.Y, c.Radius)
	}
	for _, r := range fp.Rectangles {
		canvas.Path(pathData(r.Path()))
	}
	canvas.Gend()

	canvas.Group(`id="pockets"`, stylePockets)
	for _, p := range fp.Pockets {
		canvas.Path(pathData(p.Rect.Path()))
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return ew.err
}

// pathData renders p as SVG path data. Full circles are split into two half
// arcs because a single SVG arc cannot close on itself.
func pathData(p geom.Path) string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("M" + pt(p[0].Start))
	for _, s := range p {
		if s.Kind != geom.ArcSegment {
			sb.WriteString(" L" + pt(s.End))
			continue
		}
		r := num(s.Radius())
		sweep := "1"
		if s.Clockwise {
			sweep = "0"
		}
		if s.IsFullCircle() {
			mid := s.Center.Scale(2).Sub(s.Start)
			fmt.Fprintf(&sb, " A%s %s 0 0 %s %s", r, r, sweep, pt(mid))
			fmt.Fprintf(&sb, " A%s %s 0 0 %s %s", r, r, sweep, pt(s.End))
			continue
		}
		large := "0"
		if math.Abs(s.Sweep()) > math.Pi {
			large = "1"
		}
		fmt.Fprintf(&sb, " A%s %s 0 %s %s %s", r, r, large, sweep, pt(s.End))
	}
	if p.Closed(geom.Eps) {
		sb.WriteString(" Z")
	}
	return sb.String()
}

func pt(p geom.Point) string { return num(p.X) + " " + num(p.Y) }

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// errWriter keeps the first write error; the svg canvas does not report
// them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
