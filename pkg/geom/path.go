package geom

import (
	"errors"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// FlattenTolerance is the chord error used when a path is approximated by a
// polygon for area, containment and intersection queries.
const FlattenTolerance = 0.01

// Path is an ordered sequence of segments. Consecutive segments share
// endpoints.
type Path []Segment

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Start returns the start point of the first segment.
func (p Path) Start() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[0].Start
}

// End returns the end point of the last segment.
func (p Path) End() Point {
	if len(p) == 0 {
		return Point{}
	}
	return p[len(p)-1].End
}

// Closed reports whether the path ends where it starts.
func (p Path) Closed(eps float64) bool {
	return len(p) > 0 && p.Start().Eq(p.End(), eps)
}

// Continuous reports whether every segment starts where the previous ended.
func (p Path) Continuous(eps float64) bool {
	for i := 1; i < len(p); i++ {
		if !p[i-1].End.Eq(p[i].Start, eps) {
			return false
		}
	}
	return true
}

// Length returns the total path length.
func (p Path) Length() float64 {
	var l float64
	for _, s := range p {
		l += s.Length()
	}
	return l
}

// Bounds returns the bounding box of every segment.
func (p Path) Bounds() Bounds {
	b := EmptyBounds()
	for _, s := range p {
		b = b.Union(s.Bounds())
	}
	return b
}

// Translate returns the path moved by v.
func (p Path) Translate(v Point) Path {
	out := make(Path, len(p))
	for i, s := range p {
		out[i] = s.Translate(v)
	}
	return out
}

// Reverse returns the path travelled backwards.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, s := range p {
		out[len(p)-1-i] = s.Reverse()
	}
	return out
}

// Concat joins paths end to end. A straight connector is inserted wherever
// one path does not start at the previous path's end.
func Concat(paths ...Path) Path {
	var out Path
	for _, q := range paths {
		if len(q) == 0 {
			continue
		}
		if len(out) > 0 && !out.End().Eq(q.Start(), Eps) {
			out = append(out, Line(out.End(), q.Start()))
		}
		out = append(out, q...)
	}
	return out
}

// Flatten approximates the path as a polygon. For closed paths the final
// point, which repeats the first, is dropped. Consecutive duplicates are
// removed.
func (p Path) Flatten(tol float64) []Point {
	if len(p) == 0 {
		return nil
	}
	pts := []Point{p[0].Start}
	for _, s := range p {
		for _, q := range s.Flatten(tol) {
			if !q.Eq(pts[len(pts)-1], 1e-7) {
				pts = append(pts, q)
			}
		}
	}
	if len(pts) > 1 && pts[0].Eq(pts[len(pts)-1], 1e-7) {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// SignedArea returns the enclosed area, positive for counter-clockwise
// winding.
func (p Path) SignedArea() float64 {
	pts := p.Flatten(FlattenTolerance)
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].Cross(pts[j])
	}
	return a / 2
}

// CounterClockwise reports whether a closed path winds counter-clockwise.
func (p Path) CounterClockwise() bool {
	return p.SignedArea() > 0
}

// Contains reports whether q lies strictly inside the closed path.
func (p Path) Contains(q Point) bool {
	r, err := NewRegion(p)
	if err != nil {
		return false
	}
	return r.Contains(q)
}

// Region is a polygon prepared for repeated containment and distance
// queries. It is an sdf.SDF2, so it can be handed to sdfx directly.
//
// sdfx measures the distance to the nearest edge; the inside/outside sign
// comes from a winding number with half-open edges, so queries on the same
// row as a vertex are counted once.
type Region struct {
	pts  []Point
	dist sdf.SDF2
}

var _ sdf.SDF2 = (*Region)(nil)

// NewRegion flattens a closed path into a region.
func NewRegion(p Path) (*Region, error) {
	if !p.Closed(1e-6) {
		return nil, errors.New("geom: region requires a closed path")
	}
	return NewPolygon(p.Flatten(FlattenTolerance))
}

// NewPolygon returns the region bounded by pts; the last point connects back
// to the first. Either winding is accepted.
func NewPolygon(pts []Point) (*Region, error) {
	var ring []Point
	for _, q := range pts {
		if len(ring) > 0 && q.Eq(ring[len(ring)-1], Eps) {
			continue
		}
		ring = append(ring, q)
	}
	if len(ring) > 1 && ring[0].Eq(ring[len(ring)-1], Eps) {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil, errors.New("geom: region requires at least three vertices")
	}
	verts := make([]v2.Vec, len(ring))
	for i, q := range ring {
		verts[i] = v2.Vec{X: q.X, Y: q.Y}
	}
	s, err := sdf.Polygon2D(verts)
	if err != nil {
		return nil, err
	}
	return &Region{pts: ring, dist: s}, nil
}

// Winding returns how many times the boundary winds around q,
// counter-clockwise positive. Points on the boundary may count either way.
func (r *Region) Winding(q Point) int {
	wn := 0
	for i, a := range r.pts {
		b := r.pts[(i+1)%len(r.pts)]
		side := b.Sub(a).Cross(q.Sub(a))
		if a.Y <= q.Y {
			if b.Y > q.Y && side > 0 {
				wn++
			}
		} else if b.Y <= q.Y && side < 0 {
			wn--
		}
	}
	return wn
}

// Contains reports whether q lies strictly inside the region.
func (r *Region) Contains(q Point) bool {
	return r.Distance(q) < -touchEps
}

// Distance returns the signed distance from q to the region boundary,
// negative inside.
func (r *Region) Distance(q Point) float64 {
	d := math.Abs(r.dist.Evaluate(v2.Vec{X: q.X, Y: q.Y}))
	if r.Winding(q) != 0 {
		return -d
	}
	return d
}

// Evaluate implements sdf.SDF2.
func (r *Region) Evaluate(p v2.Vec) float64 {
	return r.Distance(Pt(p.X, p.Y))
}

// BoundingBox implements sdf.SDF2.
func (r *Region) BoundingBox() sdf.Box2 {
	return r.dist.BoundingBox()
}

// SelfIntersects reports whether any two non-adjacent edges of the flattened
// path touch or cross.
func (p Path) SelfIntersects() bool {
	pts := p.Flatten(0.05)
	n := len(pts)
	if n < 4 {
		return false
	}
	closed := p.Closed(1e-6)
	edges := n
	if !closed {
		edges = n - 1
	}
	for i := 0; i < edges; i++ {
		a1, a2 := pts[i], pts[(i+1)%n]
		for j := i + 2; j < edges; j++ {
			if closed && i == 0 && j == edges-1 {
				continue
			}
			b1, b2 := pts[j], pts[(j+1)%n]
			if segmentsTouch(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

const touchEps = 1e-9

func orient(a, b, c Point) float64 {
	v := b.Sub(a).Cross(c.Sub(a))
	if math.Abs(v) < touchEps {
		return 0
	}
	return v
}

func onSegment(a, b, q Point) bool {
	return math.Min(a.X, b.X)-touchEps <= q.X && q.X <= math.Max(a.X, b.X)+touchEps &&
		math.Min(a.Y, b.Y)-touchEps <= q.Y && q.Y <= math.Max(a.Y, b.Y)+touchEps
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// segmentsTouch reports whether segments a1a2 and b1b2 share any point.
func segmentsTouch(a1, a2, b1, b2 Point) bool {
	d1 := sign(orient(b1, b2, a1))
	d2 := sign(orient(b1, b2, a2))
	d3 := sign(orient(a1, a2, b1))
	d4 := sign(orient(a1, a2, b2))
	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	return (d1 == 0 && onSegment(b1, b2, a1)) ||
		(d2 == 0 && onSegment(b1, b2, a2)) ||
		(d3 == 0 && onSegment(a1, a2, b1)) ||
		(d4 == 0 && onSegment(a1, a2, b2))
}
