package geom

import "fmt"

// Circle is a circular opening.
type Circle struct {
	Center Point
	Radius float64
}

// Bounds returns the bounding square.
func (c Circle) Bounds() Bounds {
	return Bounds{
		Min: Point{c.Center.X - c.Radius, c.Center.Y - c.Radius},
		Max: Point{c.Center.X + c.Radius, c.Center.Y + c.Radius},
	}
}

// Path returns the circle as a single closed counter-clockwise arc.
func (c Circle) Path() Path {
	return Path{FullCircle(c.Center, c.Radius, false)}
}

// Translate returns the circle moved by v.
func (c Circle) Translate(v Point) Circle {
	c.Center = c.Center.Add(v)
	return c
}

func (c Circle) String() string {
	return fmt.Sprintf("circle centre %v r=%.3f", c.Center, c.Radius)
}

// Rectangle is a rectangular opening with optionally rounded corners.
type Rectangle struct {
	Center       Point
	Width        float64
	Height       float64
	CornerRadius float64
}

// RectFromBounds returns a sharp-cornered rectangle covering b.
func RectFromBounds(b Bounds) Rectangle {
	return Rectangle{Center: b.Center(), Width: b.Width(), Height: b.Height()}
}

// Bounds returns the rectangle extent.
func (r Rectangle) Bounds() Bounds {
	return Bounds{
		Min: Point{r.Center.X - r.Width/2, r.Center.Y - r.Height/2},
		Max: Point{r.Center.X + r.Width/2, r.Center.Y + r.Height/2},
	}
}

// Translate returns the rectangle moved by v.
func (r Rectangle) Translate(v Point) Rectangle {
	r.Center = r.Center.Add(v)
	return r
}

// Path returns the closed counter-clockwise outline, starting on the bottom
// edge just after the lower-left corner.
func (r Rectangle) Path() Path {
	b := r.Bounds()
	cr := r.CornerRadius
	x0, y0, x1, y1 := b.Min.X, b.Min.Y, b.Max.X, b.Max.Y

	var p Path
	add := func(s Segment) {
		if !s.Degenerate() {
			p = append(p, s)
		}
	}
	add(Line(Pt(x0+cr, y0), Pt(x1-cr, y0)))
	if cr > 0 {
		add(Arc(Pt(x1-cr, y0), Pt(x1, y0+cr), Pt(x1-cr, y0+cr), false))
	}
	add(Line(Pt(x1, y0+cr), Pt(x1, y1-cr)))
	if cr > 0 {
		add(Arc(Pt(x1, y1-cr), Pt(x1-cr, y1), Pt(x1-cr, y1-cr), false))
	}
	add(Line(Pt(x1-cr, y1), Pt(x0+cr, y1)))
	if cr > 0 {
		add(Arc(Pt(x0+cr, y1), Pt(x0, y1-cr), Pt(x0+cr, y1-cr), false))
	}
	add(Line(Pt(x0, y1-cr), Pt(x0, y0+cr)))
	if cr > 0 {
		add(Arc(Pt(x0, y0+cr), Pt(x0+cr, y0), Pt(x0+cr, y0+cr), false))
	}
	return p
}

func (r Rectangle) String() string {
	return fmt.Sprintf("rectangle centre %v %.3fx%.3f corner=%.3f", r.Center, r.Width, r.Height, r.CornerRadius)
}

// Pocket is a rectangular area cleared to a partial depth rather than cut
// through.
type Pocket struct {
	Rect  Rectangle
	Depth float64
}

// Bounds returns the pocket extent.
func (p Pocket) Bounds() Bounds { return p.Rect.Bounds() }
