package kernel

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which box face this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned bounding box of the vertices. An empty
// mesh returns zero vectors.
func (m *Mesh) Bounds() (min, max [3]float32) {
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := m.Vertices[i+a]
			if i == 0 || v < min[a] {
				min[a] = v
			}
			if i == 0 || v > max[a] {
				max[a] = v
			}
		}
	}
	return min, max
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}
