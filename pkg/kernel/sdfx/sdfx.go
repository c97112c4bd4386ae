// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel    = (*SdfxKernel)(nil)
	_ kernel.STLWriter = (*SdfxKernel)(nil)
)

// DefaultMeshCells controls marching cubes tessellation resolution along the
// longest axis of a solid.
const DefaultMeshCells = 120

// sdfxProfile wraps an sdf.SDF2 to implement kernel.Profile.
type sdfxProfile struct {
	s sdf.SDF2
}

// Bounds returns the axis-aligned bounding rectangle.
func (p *sdfxProfile) Bounds() (min, max [2]float64) {
	bb := p.s.BoundingBox()
	return [2]float64{bb.Min.X, bb.Min.Y}, [2]float64{bb.Max.X, bb.Max.Y}
}

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	// MeshCells is the marching cubes resolution. Zero means
	// DefaultMeshCells.
	MeshCells int
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{MeshCells: DefaultMeshCells}
}

func (k *SdfxKernel) cells() int {
	if k.MeshCells <= 0 {
		return DefaultMeshCells
	}
	return k.MeshCells
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func unwrap2(p kernel.Profile) sdf.SDF2 {
	return p.(*sdfxProfile).s
}

// Polygon creates a closed profile through pts. The last point connects back
// to the first.
func (k *SdfxKernel) Polygon(pts [][2]float64) (kernel.Profile, error) {
	if len(pts) < 3 {
		return nil, errors.New("sdfx: polygon needs at least three points")
	}
	verts := make([]geom.Point, len(pts))
	for i, p := range pts {
		verts[i] = geom.Pt(p[0], p[1])
	}
	r, err := geom.NewPolygon(verts)
	if err != nil {
		return nil, fmt.Errorf("sdfx: polygon: %w", err)
	}
	return &sdfxProfile{s: r}, nil
}

// Circle creates a disc of radius r centred on (x, y).
func (k *SdfxKernel) Circle(x, y, r float64) (kernel.Profile, error) {
	s, err := sdf.Circle2D(r)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Circle2D: %w", err)
	}
	s = sdf.Transform2D(s, sdf.Translate2d(v2.Vec{X: x, Y: y}))
	return &sdfxProfile{s: s}, nil
}

// Cut removes every hole from p.
func (k *SdfxKernel) Cut(p kernel.Profile, holes ...kernel.Profile) kernel.Profile {
	if len(holes) == 0 {
		return p
	}
	hs := make([]sdf.SDF2, len(holes))
	for i, h := range holes {
		hs[i] = unwrap2(h)
	}
	var cut sdf.SDF2 = sdf.Union2D(hs...)
	return &sdfxProfile{s: sdf.Difference2D(unwrap2(p), cut)}
}

// Box creates a box with the given dimensions and its minimum corner at the
// origin. sdf.Box3D centers the box, so it is shifted by half-dimensions.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Extrude lifts p along +Z from z=0 to z=height.
func (k *SdfxKernel) Extrude(p kernel.Profile, height float64) kernel.Solid {
	s := sdf.Extrude3D(unwrap2(p), height)
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Mirror reflects a solid across the origin planes normal to the selected
// axes.
func (k *SdfxKernel) Mirror(s kernel.Solid, x, y, z bool) kernel.Solid {
	flip := func(b bool) float64 {
		if b {
			return -1
		}
		return 1
	}
	m := sdf.Scale3d(v3.Vec{X: flip(x), Y: flip(y), Z: flip(z)})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

func (k *SdfxKernel) triangles(s kernel.Solid) []*sdf.Triangle3 {
	renderer := render.NewMarchingCubesUniform(k.cells())
	return render.ToTriangles(unwrap(s), renderer)
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	triangles := k.triangles(s)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// WriteSTL meshes s and writes it to path as a binary STL file.
func (k *SdfxKernel) WriteSTL(path string, s kernel.Solid) error {
	triangles := k.triangles(s)
	if len(triangles) == 0 {
		return errors.New("sdfx: solid has no surface to write")
	}
	if err := render.SaveSTL(path, triangles); err != nil {
		return fmt.Errorf("write stl %s: %w", path, err)
	}
	return nil
}
