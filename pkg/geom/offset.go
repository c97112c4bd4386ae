package geom

import "math"

// Offset returns the path displaced by d to the right of the direction of
// travel; a negative d displaces it to the left. For a counter-clockwise
// outline a positive d therefore grows the shape.
//
// Lines are shifted along their normal and arcs change radius. Where the
// displaced pieces separate at a convex turn they are joined by an arc of
// radius |d| around the original vertex; where they overlap at a concave turn
// they are trimmed back to their intersection. Arcs that shrink to nothing
// are dropped.
func (p Path) Offset(d float64) Path {
	if len(p) == 0 || d == 0 {
		return p.Clone()
	}
	closed := p.Closed(1e-6)

	off := make([]Segment, len(p))
	for i, s := range p {
		off[i] = offsetSegment(s, d)
	}

	n := len(p)
	joins := make([][]Segment, n)
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		j := (i + 1) % n
		if i == j {
			continue
		}
		joins[i] = joinOffsets(&off[i], &off[j], p[i], p[j], d)
	}

	out := make(Path, 0, 2*n)
	for i := range off {
		if !off[i].Degenerate() {
			out = append(out, off[i])
		}
		for _, s := range joins[i] {
			if !s.Degenerate() {
				out = append(out, s)
			}
		}
	}
	return out
}

// offsetSegment displaces one segment. An arc whose radius would fall to zero
// or below collapses onto its centre.
func offsetSegment(s Segment, d float64) Segment {
	if s.Kind != ArcSegment {
		n := s.End.Sub(s.Start).Unit().Right().Scale(d)
		return Line(s.Start.Add(n), s.End.Add(n))
	}
	r := s.Radius()
	nr := r + d
	if s.Clockwise {
		nr = r - d
	}
	if nr <= Eps {
		return Arc(s.Center, s.Center, s.Center, s.Clockwise)
	}
	k := nr / r
	a := s.Center.Add(s.Start.Sub(s.Center).Scale(k))
	b := s.Center.Add(s.End.Sub(s.Center).Scale(k))
	if s.IsFullCircle() {
		b = a
	}
	return Arc(a, b, s.Center, s.Clockwise)
}

// joinOffsets reconciles the displaced end of a with the displaced start of b
// around the original shared vertex. It may move a.End and b.Start, and
// returns any connecting segments to insert between them.
func joinOffsets(a, b *Segment, origA, origB Segment, d float64) []Segment {
	e1, s2 := a.End, b.Start
	if e1.Eq(s2, 1e-9) {
		b.Start = e1
		return nil
	}
	v := origA.End
	turn := origA.EndTangent().Cross(origB.StartTangent())
	if turn*d > 0 {
		return []Segment{Arc(e1, s2, v, d < 0)}
	}
	if a.Degenerate() || b.Degenerate() {
		return []Segment{Line(e1, s2)}
	}
	x, ok := intersectNear(*a, *b, v)
	if !ok {
		return []Segment{Line(e1, s2)}
	}
	a.End = x
	b.Start = x
	return nil
}

// intersectNear intersects the carrier lines or circles of two segments and
// returns the intersection closest to near.
func intersectNear(a, b Segment, near Point) (Point, bool) {
	var pts []Point
	switch {
	case a.Kind == LineSegment && b.Kind == LineSegment:
		if x, ok := lineLine(a.Start, a.End, b.Start, b.End); ok {
			pts = append(pts, x)
		}
	case a.Kind == LineSegment && b.Kind == ArcSegment:
		pts = lineCircle(a.Start, a.End, b.Center, b.Radius())
	case a.Kind == ArcSegment && b.Kind == LineSegment:
		pts = lineCircle(b.Start, b.End, a.Center, a.Radius())
	default:
		pts = circleCircle(a.Center, a.Radius(), b.Center, b.Radius())
	}
	if len(pts) == 0 {
		return Point{}, false
	}
	best := pts[0]
	for _, q := range pts[1:] {
		if q.Dist(near) < best.Dist(near) {
			best = q
		}
	}
	return best, true
}

// lineLine intersects the infinite lines through p1p2 and q1q2.
func lineLine(p1, p2, q1, q2 Point) (Point, bool) {
	r := p2.Sub(p1)
	s := q2.Sub(q1)
	den := r.Cross(s)
	if math.Abs(den) < 1e-12 {
		return Point{}, false
	}
	t := q1.Sub(p1).Cross(s) / den
	return p1.Add(r.Scale(t)), true
}

// lineCircle intersects the infinite line through p1p2 with a circle.
func lineCircle(p1, p2, c Point, r float64) []Point {
	d := p2.Sub(p1)
	f := p1.Sub(c)
	a := d.Dot(d)
	if a < 1e-18 {
		return nil
	}
	b := 2 * f.Dot(d)
	cc := f.Dot(f) - r*r
	disc := b*b - 4*a*cc
	if disc < 0 {
		if disc > -1e-9 {
			disc = 0
		} else {
			return nil
		}
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	return []Point{p1.Add(d.Scale(t1)), p1.Add(d.Scale(t2))}
}

// circleCircle intersects two circles.
func circleCircle(c1 Point, r1 float64, c2 Point, r2 float64) []Point {
	dist := c1.Dist(c2)
	if dist < 1e-12 || dist > r1+r2+1e-9 || dist < math.Abs(r1-r2)-1e-9 {
		return nil
	}
	a := (r1*r1 - r2*r2 + dist*dist) / (2 * dist)
	h2 := r1*r1 - a*a
	if h2 < 0 {
		h2 = 0
	}
	h := math.Sqrt(h2)
	u := c2.Sub(c1).Scale(1 / dist)
	m := c1.Add(u.Scale(a))
	return []Point{m.Add(u.Rot90().Scale(h)), m.Sub(u.Rot90().Scale(h))}
}
