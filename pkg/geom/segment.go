package geom

import (
	"fmt"
	"math"
)

// SegmentKind distinguishes straight segments from circular arcs.
type SegmentKind int

const (
	LineSegment SegmentKind = iota
	ArcSegment
)

func (k SegmentKind) String() string {
	switch k {
	case LineSegment:
		return "line"
	case ArcSegment:
		return "arc"
	}
	return fmt.Sprintf("SegmentKind(%d)", int(k))
}

// Segment is a line or a circular arc. For arcs, Center is the circle centre
// and Clockwise gives the direction of travel from Start to End. An arc whose
// Start equals its End is a full circle.
type Segment struct {
	Kind      SegmentKind
	Start     Point
	End       Point
	Center    Point
	Clockwise bool
}

// Line returns a straight segment from a to b.
func Line(a, b Point) Segment {
	return Segment{Kind: LineSegment, Start: a, End: b}
}

// Arc returns an arc from a to b around c.
func Arc(a, b, c Point, clockwise bool) Segment {
	return Segment{Kind: ArcSegment, Start: a, End: b, Center: c, Clockwise: clockwise}
}

// FullCircle returns a closed arc around c starting at angle zero.
func FullCircle(c Point, r float64, clockwise bool) Segment {
	p := Point{c.X + r, c.Y}
	return Arc(p, p, c, clockwise)
}

// Radius returns the arc radius. It is zero for lines.
func (s Segment) Radius() float64 {
	if s.Kind != ArcSegment {
		return 0
	}
	return s.Start.Dist(s.Center)
}

// IsFullCircle reports whether the segment is an arc that returns to its start.
func (s Segment) IsFullCircle() bool {
	return s.Kind == ArcSegment && s.Start.Eq(s.End, Eps) && s.Radius() > Eps
}

// Sweep returns the signed angle swept by an arc: positive counter-clockwise,
// negative clockwise. Lines sweep zero.
func (s Segment) Sweep() float64 {
	if s.Kind != ArcSegment {
		return 0
	}
	if s.Start.Eq(s.End, Eps) {
		if s.Clockwise {
			return -2 * math.Pi
		}
		return 2 * math.Pi
	}
	a0 := s.Start.Sub(s.Center).Angle()
	a1 := s.End.Sub(s.Center).Angle()
	d := a1 - a0
	if s.Clockwise {
		for d >= 0 {
			d -= 2 * math.Pi
		}
		for d < -2*math.Pi {
			d += 2 * math.Pi
		}
		return d
	}
	for d <= 0 {
		d += 2 * math.Pi
	}
	for d > 2*math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

// Length returns the path length of the segment.
func (s Segment) Length() float64 {
	if s.Kind == ArcSegment {
		return math.Abs(s.Sweep()) * s.Radius()
	}
	return s.Start.Dist(s.End)
}

// Degenerate reports whether the segment has no usable length.
func (s Segment) Degenerate() bool {
	return s.Length() < Eps
}

// PointAt returns the point a fraction t in [0,1] along the segment.
func (s Segment) PointAt(t float64) Point {
	if s.Kind == ArcSegment {
		a0 := s.Start.Sub(s.Center).Angle()
		return Polar(s.Center, s.Radius(), a0+s.Sweep()*t)
	}
	return s.Start.Lerp(s.End, t)
}

// tangentAt returns the unit direction of travel at a point on the segment.
func (s Segment) tangentAt(p Point) Point {
	if s.Kind == ArcSegment {
		u := p.Sub(s.Center).Unit()
		if s.Clockwise {
			return u.Right()
		}
		return u.Rot90()
	}
	return s.End.Sub(s.Start).Unit()
}

// StartTangent returns the unit direction of travel at Start.
func (s Segment) StartTangent() Point { return s.tangentAt(s.Start) }

// EndTangent returns the unit direction of travel at End.
func (s Segment) EndTangent() Point { return s.tangentAt(s.End) }

// Reverse returns the segment travelled in the opposite direction.
func (s Segment) Reverse() Segment {
	r := s
	r.Start, r.End = s.End, s.Start
	if s.Kind == ArcSegment {
		r.Clockwise = !s.Clockwise
	}
	return r
}

// Translate returns the segment moved by v.
func (s Segment) Translate(v Point) Segment {
	s.Start = s.Start.Add(v)
	s.End = s.End.Add(v)
	if s.Kind == ArcSegment {
		s.Center = s.Center.Add(v)
	}
	return s
}

// Bounds returns the tight bounding box, including arc extremes.
func (s Segment) Bounds() Bounds {
	b := EmptyBounds().Extend(s.Start).Extend(s.End)
	if s.Kind != ArcSegment {
		return b
	}
	r := s.Radius()
	a0 := s.Start.Sub(s.Center).Angle()
	sweep := s.Sweep()
	for k := 0; k < 4; k++ {
		theta := float64(k) * math.Pi / 2
		if angleWithin(a0, sweep, theta) {
			b = b.Extend(Polar(s.Center, r, theta))
		}
	}
	return b
}

// angleWithin reports whether theta lies on the arc starting at a0 and
// sweeping by sweep radians.
func angleWithin(a0, sweep, theta float64) bool {
	t := theta - a0
	if sweep < 0 {
		t = -t
		sweep = -sweep
	}
	t = math.Mod(t, 2*math.Pi)
	if t < 0 {
		t += 2 * math.Pi
	}
	return t <= sweep+Eps
}

// Flatten approximates the segment by points spaced so that the chord error
// stays under tol. The start point is not included; the end point is.
func (s Segment) Flatten(tol float64) []Point {
	if s.Kind != ArcSegment {
		return []Point{s.End}
	}
	r := s.Radius()
	sweep := s.Sweep()
	n := 1
	if r > tol && tol > 0 {
		step := 2 * math.Acos(1-tol/r)
		n = int(math.Ceil(math.Abs(sweep) / step))
	}
	if n < 2 && math.Abs(sweep) > math.Pi/2 {
		n = 4
	}
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n)
	a0 := s.Start.Sub(s.Center).Angle()
	for i := 1; i < n; i++ {
		pts = append(pts, Polar(s.Center, r, a0+sweep*float64(i)/float64(n)))
	}
	return append(pts, s.End)
}

// Describe returns a short human-readable description, used when a preview
// highlights a single segment.
func (s Segment) Describe() string {
	if s.Kind == ArcSegment {
		dir := "ccw"
		if s.Clockwise {
			dir = "cw"
		}
		return fmt.Sprintf("arc %s %v -> %v centre %v r=%.3f", dir, s.Start, s.End, s.Center, s.Radius())
	}
	return fmt.Sprintf("line %v -> %v len=%.3f", s.Start, s.End, s.Length())
}
