// Package geom provides the 2D primitives used to describe box faces and
// toolpaths: points, line and arc segments, closed paths, and the opening
// shapes (circles, rounded rectangles, pockets) cut into a face.
//
// All lengths are in millimetres. Angles are in radians unless a name says
// otherwise. Paths are expected to be closed and wound counter-clockwise when
// they bound material.
package geom

import (
	"fmt"
	"math"
)

// Eps is the tolerance used for coordinate comparisons.
const Eps = 1e-9

// Point is a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p * s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the 3D cross product. Positive when q is
// counter-clockwise from p.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Len returns the vector length.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }

// Rot90 rotates the vector a quarter turn counter-clockwise.
func (p Point) Rot90() Point { return Point{-p.Y, p.X} }

// Right returns the unit-preserving normal on the right-hand side of a
// direction of travel (a quarter turn clockwise).
func (p Point) Right() Point { return Point{p.Y, -p.X} }

// Unit returns the vector scaled to length 1. The zero vector is returned
// unchanged.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return p
	}
	return p.Scale(1 / l)
}

// Angle returns the direction of the vector in (-pi, pi].
func (p Point) Angle() float64 { return math.Atan2(p.Y, p.X) }

// Eq reports whether p and q are within eps of each other on both axes.
func (p Point) Eq(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

// Polar returns the point at the given radius and angle around c.
func Polar(c Point, r, angle float64) Point {
	return Point{c.X + r*math.Cos(angle), c.Y + r*math.Sin(angle)}
}
