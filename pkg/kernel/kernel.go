// Package kernel defines the abstract geometry kernel interface used to
// preview box panels in 3D. Implementations provide 2D profiles, extrusion,
// booleans and meshing behind this interface, so the preview does not
// depend on one solid modelling library.
package kernel

// Profile is an opaque handle to a closed 2D region.
type Profile interface {
	// Bounds returns the axis-aligned bounding rectangle.
	Bounds() (min, max [2]float64)
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// 2D profiles
	Polygon(pts [][2]float64) (Profile, error)
	Circle(x, y, r float64) (Profile, error)
	Cut(p Profile, holes ...Profile) Profile

	// Solids
	Box(x, y, z float64) Solid
	Extrude(p Profile, height float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Mirror(s Solid, x, y, z bool) Solid    // reflect across the chosen axes

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// STLWriter is implemented by kernels that can write a solid as an STL file.
type STLWriter interface {
	WriteSTL(path string, s Solid) error
}
