package geom

import (
	"math"
	"testing"
)

const tol = 1e-6

func square(size float64) Path {
	return Rectangle{Center: Pt(size/2, size/2), Width: size, Height: size}.Path()
}

func near(a, b float64) bool { return math.Abs(a-b) < tol }

func TestArcSweepAndLength(t *testing.T) {
	tests := []struct {
		name  string
		seg   Segment
		sweep float64
	}{
		{"quarter ccw", Arc(Pt(1, 0), Pt(0, 1), Pt(0, 0), false), math.Pi / 2},
		{"quarter cw", Arc(Pt(0, 1), Pt(1, 0), Pt(0, 0), true), -math.Pi / 2},
		{"three quarters cw", Arc(Pt(1, 0), Pt(0, 1), Pt(0, 0), true), -3 * math.Pi / 2},
		{"full circle", FullCircle(Pt(5, 5), 2, false), 2 * math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seg.Sweep(); !near(got, tt.sweep) {
				t.Errorf("Sweep() = %v, want %v", got, tt.sweep)
			}
			want := math.Abs(tt.sweep) * tt.seg.Radius()
			if got := tt.seg.Length(); !near(got, want) {
				t.Errorf("Length() = %v, want %v", got, want)
			}
		})
	}
}

func TestArcBoundsIncludesExtremes(t *testing.T) {
	// Half circle over the top from (1,0) to (-1,0).
	s := Arc(Pt(1, 0), Pt(-1, 0), Pt(0, 0), false)
	b := s.Bounds()
	if !near(b.Max.Y, 1) || !near(b.Min.Y, 0) {
		t.Errorf("bounds = %+v, want y in [0,1]", b)
	}
	// The same endpoints travelled clockwise pass under the centre.
	b = Arc(Pt(1, 0), Pt(-1, 0), Pt(0, 0), true).Bounds()
	if !near(b.Min.Y, -1) || !near(b.Max.Y, 0) {
		t.Errorf("cw bounds = %+v, want y in [-1,0]", b)
	}
}

func TestTangents(t *testing.T) {
	s := Arc(Pt(1, 0), Pt(0, 1), Pt(0, 0), false)
	if got := s.StartTangent(); !got.Eq(Pt(0, 1), tol) {
		t.Errorf("StartTangent() = %v, want (0,1)", got)
	}
	if got := s.EndTangent(); !got.Eq(Pt(-1, 0), tol) {
		t.Errorf("EndTangent() = %v, want (-1,0)", got)
	}
	if got := s.Reverse().StartTangent(); !got.Eq(Pt(1, 0), tol) {
		t.Errorf("reversed StartTangent() = %v, want (1,0)", got)
	}
}

func TestRectanglePath(t *testing.T) {
	r := Rectangle{Center: Pt(10, 5), Width: 20, Height: 10, CornerRadius: 2}
	p := r.Path()
	if len(p) != 8 {
		t.Fatalf("rounded rectangle has %d segments, want 8", len(p))
	}
	if !p.Closed(tol) || !p.Continuous(tol) {
		t.Fatal("rectangle path is not closed and continuous")
	}
	if !p.CounterClockwise() {
		t.Error("rectangle path should wind counter-clockwise")
	}
	b := p.Bounds()
	if !near(b.Min.X, 0) || !near(b.Max.X, 20) || !near(b.Min.Y, 0) || !near(b.Max.Y, 10) {
		t.Errorf("bounds = %+v", b)
	}
	want := 200 - (4-math.Pi)*4
	if got := p.SignedArea(); math.Abs(got-want) > 0.05 {
		t.Errorf("area = %v, want about %v", got, want)
	}

	sharp := Rectangle{Center: Pt(0, 0), Width: 4, Height: 4}.Path()
	if len(sharp) != 4 {
		t.Errorf("sharp rectangle has %d segments, want 4", len(sharp))
	}
}

func TestOffsetOutwardRoundsConvexCorners(t *testing.T) {
	p := square(10).Offset(1)
	if !p.Closed(tol) || !p.Continuous(tol) {
		t.Fatalf("offset path not closed: %v", p)
	}
	b := p.Bounds()
	if !near(b.Min.X, -1) || !near(b.Min.Y, -1) || !near(b.Max.X, 11) || !near(b.Max.Y, 11) {
		t.Errorf("bounds = %+v, want [-1,11]", b)
	}
	if got, want := p.Length(), 40+2*math.Pi; !near(got, want) {
		t.Errorf("length = %v, want %v", got, want)
	}
	arcs := 0
	for _, s := range p {
		if s.Kind == ArcSegment {
			arcs++
			if !near(s.Radius(), 1) {
				t.Errorf("join arc radius = %v, want 1", s.Radius())
			}
		}
	}
	if arcs != 4 {
		t.Errorf("got %d join arcs, want 4", arcs)
	}
}

func TestOffsetInwardTrimsCorners(t *testing.T) {
	p := square(10).Offset(-1)
	if len(p) != 4 {
		t.Fatalf("got %d segments, want 4", len(p))
	}
	if !p.Closed(tol) || !p.Continuous(tol) {
		t.Fatal("offset path not closed")
	}
	b := p.Bounds()
	if !near(b.Min.X, 1) || !near(b.Max.X, 9) || !near(b.Min.Y, 1) || !near(b.Max.Y, 9) {
		t.Errorf("bounds = %+v, want [1,9]", b)
	}
}

func TestOffsetArcs(t *testing.T) {
	c := Circle{Center: Pt(0, 0), Radius: 5}.Path()
	in := c.Offset(-2)
	if len(in) != 1 || !near(in[0].Radius(), 3) || !in[0].IsFullCircle() {
		t.Errorf("inward circle offset = %+v", in)
	}
	out := c.Offset(2)
	if !near(out[0].Radius(), 7) {
		t.Errorf("outward radius = %v, want 7", out[0].Radius())
	}
	if gone := c.Offset(-5); len(gone) != 0 {
		t.Errorf("circle offset by its radius should vanish, got %v", gone)
	}

	r := Rectangle{Center: Pt(0, 0), Width: 20, Height: 10, CornerRadius: 3}.Path().Offset(-1)
	if !r.Closed(tol) || !r.Continuous(tol) {
		t.Fatal("rounded rectangle offset not closed")
	}
	for _, s := range r {
		if s.Kind == ArcSegment && !near(s.Radius(), 2) {
			t.Errorf("corner radius after offset = %v, want 2", s.Radius())
		}
	}
}

func TestConcatInsertsConnector(t *testing.T) {
	a := Path{Line(Pt(0, 0), Pt(1, 0))}
	b := Path{Line(Pt(2, 0), Pt(3, 0))}
	p := Concat(a, nil, b)
	if len(p) != 3 {
		t.Fatalf("got %d segments, want 3", len(p))
	}
	if !p.Continuous(tol) {
		t.Error("concatenated path is not continuous")
	}
}

func TestContains(t *testing.T) {
	p := square(10)
	tests := []struct {
		pt   Point
		want bool
	}{
		{Pt(5, 5), true},
		{Pt(0.5, 9.5), true},
		{Pt(-1, 5), false},
		{Pt(15, 15), false},
	}
	for _, tt := range tests {
		if got := p.Contains(tt.pt); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.pt, got, tt.want)
		}
	}
	if (Path{Line(Pt(0, 0), Pt(1, 0))}).Contains(Pt(0, 0)) {
		t.Error("open path should contain nothing")
	}
}

// notched is a 10x100 bar with a 3 wide, 5 deep notch in its top edge, so
// the row y=100 passes through four vertices.
func notched() []Point {
	return []Point{
		Pt(0, 0), Pt(10, 0), Pt(10, 100), Pt(7, 100),
		Pt(7, 95), Pt(4, 95), Pt(4, 100), Pt(0, 100),
	}
}

func TestRegionVertexRows(t *testing.T) {
	ccw := notched()
	cw := make([]Point, len(ccw))
	for i, q := range ccw {
		cw[len(ccw)-1-i] = q
	}
	for name, pts := range map[string][]Point{"ccw": ccw, "cw": cw} {
		r, err := NewPolygon(pts)
		if err != nil {
			t.Fatal(err)
		}
		tests := []struct {
			pt   Point
			want float64
		}{
			{Pt(5.5, 100), 1.5},
			{Pt(5.5, 97), 1.5},
			{Pt(5.5, 94), -1},
			{Pt(12, 100), 2},
			{Pt(-3, 100), 3},
			{Pt(2, 99), -1},
			{Pt(8.5, 95), -1.5},
			{Pt(5.5, 95), 0},
		}
		for _, tt := range tests {
			if got := r.Distance(tt.pt); math.Abs(got-tt.want) > tol {
				t.Errorf("%s: Distance(%v) = %v, want %v", name, tt.pt, got, tt.want)
			}
			if got := r.Contains(tt.pt); got != (tt.want < 0) {
				t.Errorf("%s: Contains(%v) = %v", name, tt.pt, got)
			}
		}
		if got := r.Winding(Pt(5, 50)); got != map[string]int{"ccw": 1, "cw": -1}[name] {
			t.Errorf("%s: winding %d", name, got)
		}
	}
}

func TestRegionClosingVertex(t *testing.T) {
	pts := append(notched(), Pt(0, 0))
	r, err := NewPolygon(pts)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Contains(Pt(5, 50)) || r.Contains(Pt(5.5, 100)) {
		t.Error("repeated closing vertex changed containment")
	}
	if _, err := NewPolygon([]Point{Pt(0, 0), Pt(1, 0), Pt(0, 0)}); err == nil {
		t.Error("two distinct vertices accepted")
	}
}

func TestSelfIntersects(t *testing.T) {
	if square(10).SelfIntersects() {
		t.Error("square reported as self-intersecting")
	}
	bowtie := Path{
		Line(Pt(0, 0), Pt(10, 10)),
		Line(Pt(10, 10), Pt(10, 0)),
		Line(Pt(10, 0), Pt(0, 10)),
		Line(Pt(0, 10), Pt(0, 0)),
	}
	if !bowtie.SelfIntersects() {
		t.Error("bowtie not reported as self-intersecting")
	}
}

func TestBounds(t *testing.T) {
	b := EmptyBounds()
	if !b.Empty() {
		t.Fatal("EmptyBounds() should be empty")
	}
	b = b.Extend(Pt(1, 2)).Extend(Pt(-3, 4))
	if b.Width() != 4 || b.Height() != 2 {
		t.Errorf("size = %vx%v, want 4x2", b.Width(), b.Height())
	}
	outer := Bounds{Min: Pt(0, 0), Max: Pt(10, 10)}
	if !outer.Inset(1).ContainsBounds(Bounds{Min: Pt(1, 1), Max: Pt(9, 9)}, tol) {
		t.Error("inset bounds should contain touching box")
	}
	if outer.Inset(1).ContainsBounds(Bounds{Min: Pt(0.5, 1), Max: Pt(9, 9)}, tol) {
		t.Error("inset bounds should reject box crossing the margin")
	}
}
