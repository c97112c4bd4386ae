package toolpath

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/logging"
	"github.com/samber/lo"
)

// Config holds machine settings that do not depend on the face being cut.
type Config struct {
	// SafeZ is the clearance height for rapid travel.
	SafeZ float64
	// MaxPassDepth limits how deep one pass may cut. Zero or less cuts the
	// full depth in a single pass.
	MaxPassDepth float64
}

// DefaultConfig returns conservative settings for small routers.
func DefaultConfig() Config {
	return Config{SafeZ: 5, MaxPassDepth: 3}
}

// Job is the geometry of one face plus how to cut it.
type Job struct {
	Outline    geom.Path
	Circles    []geom.Circle
	Rectangles []geom.Rectangle
	Pockets    []geom.Pocket

	ToolRadius float64
	CutDepth   float64
	// PathOnly emits the raw geometry without tool radius compensation, for
	// previewing and verification.
	PathOnly bool
}

// Result is an emitted toolpath.
type Result struct {
	Motions []Motion
	Skipped []*ToolTooLargeError
}

// Err joins every skipped opening into one error, or returns nil.
func (r *Result) Err() error {
	return errors.Join(lo.Map(r.Skipped, func(e *ToolTooLargeError, _ int) error { return e })...)
}

// Bounds returns the XY extent of every cutting move, arcs included.
func (r *Result) Bounds() geom.Bounds {
	b := geom.EmptyBounds()
	var pen geom.Point
	for _, m := range r.Motions {
		switch m.Kind {
		case Linear:
			b = b.Union(geom.Line(pen, m.Point()).Bounds())
		case ArcCut:
			b = b.Union(geom.Arc(pen, m.Point(), m.Center, m.Clockwise).Bounds())
		case Plunge:
			b = b.Extend(m.Point())
		}
		pen = m.Point()
	}
	return b
}

// CutLength returns the XY distance travelled while cutting.
func (r *Result) CutLength() float64 {
	var l float64
	var pen geom.Point
	for _, m := range r.Motions {
		switch m.Kind {
		case Linear:
			l += pen.Dist(m.Point())
		case ArcCut:
			l += geom.Arc(pen, m.Point(), m.Center, m.Clockwise).Length()
		}
		pen = m.Point()
	}
	return l
}

// Emitter converts jobs into motion sequences.
type Emitter struct {
	cfg Config
}

// NewEmitter returns an emitter using cfg.
func NewEmitter(cfg Config) *Emitter {
	return &Emitter{cfg: cfg}
}

// region is one contiguous cut: a single path, a set of pocket rings cleared
// together, or a plunge at a point.
type region struct {
	rings [][]geom.Segment
	at    geom.Point
	depth float64
}

// Emit produces the toolpath for job. Openings and pockets are cut first and
// the outline last, so the part stays held by the stock until the end. Each
// region is cut in passes of at most MaxPassDepth, shallow to deep, and the
// tool retracts only between regions.
func (e *Emitter) Emit(job Job) (*Result, error) {
	if job.ToolRadius < 0 || math.IsNaN(job.ToolRadius) {
		return nil, fmt.Errorf("toolpath: tool radius %g must not be negative", job.ToolRadius)
	}
	if job.CutDepth <= 0 || math.IsNaN(job.CutDepth) {
		return nil, fmt.Errorf("toolpath: cut depth %g must be positive", job.CutDepth)
	}
	if e.cfg.SafeZ <= 0 {
		return nil, fmt.Errorf("toolpath: safe height %g must be above the stock", e.cfg.SafeZ)
	}

	res := &Result{}
	// Openings are sized against the real tool even when the preview draws
	// the raw geometry.
	tool := job.ToolRadius
	tooSmall := func(kind string, i int, size float64) bool {
		if size >= tool-geom.Eps {
			return false
		}
		res.Skipped = append(res.Skipped, &ToolTooLargeError{Kind: kind, Index: i, Size: size})
		return true
	}
	r := tool
	if job.PathOnly {
		r = 0
	}

	var regions []region
	for i, c := range job.Circles {
		if !tooSmall("circle", i, c.Radius) {
			regions = append(regions, circleRegion(c, r, job.CutDepth))
		}
	}
	for i, rect := range job.Rectangles {
		if !tooSmall("rectangle", i, math.Min(rect.Width, rect.Height)/2) {
			regions = append(regions, rectangleRegion(rect, r, job.CutDepth))
		}
	}
	for i, p := range job.Pockets {
		b := p.Rect.Bounds()
		if !tooSmall("pocket", i, math.Min(b.Width(), b.Height())/2) {
			regions = append(regions, pocketRegion(p, r))
		}
	}
	if len(job.Outline) > 0 {
		regions = append(regions, outlineRegion(job.Outline, r, job.CutDepth))
	}

	for _, s := range res.Skipped {
		s.ToolRadius = job.ToolRadius
		logging.Logger().Warn("toolpath: opening skipped", "kind", s.Kind, "index", s.Index+1, "err", s)
	}

	for _, reg := range regions {
		res.Motions = append(res.Motions, e.cut(reg)...)
	}
	return res, nil
}

// passes returns the depths of successive passes, shallow to deep, as
// negative Z values.
func (e *Emitter) passes(depth float64) []float64 {
	n := 1
	if e.cfg.MaxPassDepth > 0 {
		n = int(math.Ceil(depth/e.cfg.MaxPassDepth - 1e-9))
		if n < 1 {
			n = 1
		}
	}
	zs := make([]float64, n)
	for k := range zs {
		zs[k] = -depth * float64(k+1) / float64(n)
	}
	return zs
}

func (e *Emitter) cut(reg region) []Motion {
	var out []Motion
	start := reg.at
	if len(reg.rings) > 0 {
		start = reg.rings[0][0].Start
	}
	out = append(out, RapidTravel(start.X, start.Y, e.cfg.SafeZ))
	pen := start
	for _, z := range e.passes(reg.depth) {
		out = append(out, PlungeTo(pen.X, pen.Y, z))
		for _, ring := range reg.rings {
			if !ring[0].Start.Eq(pen, geom.Eps) {
				p := ring[0].Start
				out = append(out, LinearCut(p.X, p.Y, z))
			}
			for _, s := range ring {
				if s.Kind == geom.ArcSegment {
					out = append(out, Arc(s.End.X, s.End.Y, z, s.Center, s.Clockwise))
				} else {
					out = append(out, LinearCut(s.End.X, s.End.Y, z))
				}
			}
			pen = ring[len(ring)-1].End
		}
	}
	out = append(out, RetractTo(pen.X, pen.Y, e.cfg.SafeZ))
	return out
}

func circleRegion(c geom.Circle, r, depth float64) region {
	if c.Radius-r <= geom.Eps {
		return region{at: c.Center, depth: depth}
	}
	return region{rings: [][]geom.Segment{c.Path().Offset(-r)}, depth: depth}
}

// rectangleRegion keeps the tool centre one radius inside the rectangle. A
// corner sharper than the tool is rounded to the tool radius.
func rectangleRegion(rect geom.Rectangle, r, depth float64) region {
	rect.CornerRadius = math.Max(rect.CornerRadius, r)
	p := rect.Path().Offset(-r)
	if len(p) == 0 {
		return region{at: rect.Center, depth: depth}
	}
	return region{rings: [][]geom.Segment{p}, depth: depth}
}

// pocketRegion clears a pocket with concentric rectangular rings, innermost
// first, stepping out by one tool radius.
// Callers have checked that the tool fits.
func pocketRegion(p geom.Pocket, r float64) region {
	b := p.Rect.Bounds()
	half := math.Min(b.Width(), b.Height()) / 2
	outer := b.Inset(r)
	var rings [][]geom.Segment
	step := r
	if step <= 0 {
		step = half
	}
	for k := 0; ; k++ {
		ib := outer.Inset(float64(k) * step)
		if ib.Width() < -geom.Eps || ib.Height() < -geom.Eps {
			break
		}
		ring := geom.RectFromBounds(ib).Path()
		if len(ring) == 0 {
			c := ib.Center()
			ring = geom.Path{geom.Line(c, c)}
		}
		rings = append(rings, ring)
		if ib.Width() <= geom.Eps || ib.Height() <= geom.Eps {
			break
		}
	}
	rings = lo.Reverse(rings)
	return region{rings: rings, depth: p.Depth}
}

// outlineRegion offsets the outline away from the panel: to the right of
// travel for a counter-clockwise outline, to the left otherwise.
func outlineRegion(outline geom.Path, r, depth float64) region {
	p := outline
	if r > 0 {
		d := r
		if !outline.CounterClockwise() {
			d = -r
		}
		p = outline.Offset(d)
	}
	return region{rings: [][]geom.Segment{p}, depth: depth}
}
