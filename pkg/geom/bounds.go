package geom

import "math"

// Bounds is an axis-aligned bounding rectangle.
type Bounds struct {
	Min, Max Point
}

// EmptyBounds returns a Bounds that contains nothing; the first Extend or
// Union replaces it.
func EmptyBounds() Bounds {
	return Bounds{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// Empty reports whether the bounds contain no points.
func (b Bounds) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Center returns the midpoint.
func (b Bounds) Center() Point { return b.Min.Lerp(b.Max, 0.5) }

// Extend grows b to include p.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{
		Min: Point{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)},
		Max: Point{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)},
	}
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if o.Empty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Inset shrinks the bounds by d on every side. A negative d grows them.
func (b Bounds) Inset(d float64) Bounds {
	return Bounds{
		Min: Point{b.Min.X + d, b.Min.Y + d},
		Max: Point{b.Max.X - d, b.Max.Y - d},
	}
}

// ContainsPoint reports whether p lies inside or on the boundary, within eps.
func (b Bounds) ContainsPoint(p Point, eps float64) bool {
	return p.X >= b.Min.X-eps && p.X <= b.Max.X+eps &&
		p.Y >= b.Min.Y-eps && p.Y <= b.Max.Y+eps
}

// ContainsBounds reports whether o lies entirely inside b, within eps.
func (b Bounds) ContainsBounds(o Bounds, eps float64) bool {
	return b.ContainsPoint(o.Min, eps) && b.ContainsPoint(o.Max, eps)
}
