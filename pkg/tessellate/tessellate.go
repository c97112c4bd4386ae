// Package tessellate turns rendered face paths into triangle meshes using a
// geometry kernel. Each face outline, minus its openings, is extruded by the
// wall thickness and placed where the panel sits in the assembled box. One
// mesh is produced per face.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/facepath"
	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/kernel"
	"github.com/chazu/cncbox/pkg/logging"
)

// Box frame: X runs along the width, Y along the depth from the front, Z
// along the height from the bottom. A panel is built in its face frame with
// z=0 on the outer surface and z=wall on the inner one.

// placement moves a panel from its face frame into the box frame. Rotation
// is applied first, then the mirror, then the translation.
type placement struct {
	rotation    [3]float64 // degrees about X, Y, Z
	mirror      [3]bool
	translation func(m *box.Model) [3]float64
}

var placements = [...]placement{
	box.Top: {
		mirror:      [3]bool{false, false, true},
		translation: func(m *box.Model) [3]float64 { return [3]float64{0, 0, m.Height()} },
	},
	box.Bottom: {
		translation: func(*box.Model) [3]float64 { return [3]float64{} },
	},
	box.Left: {
		rotation:    [3]float64{90, 0, 90},
		mirror:      [3]bool{false, true, false},
		translation: func(m *box.Model) [3]float64 { return [3]float64{0, m.Depth(), 0} },
	},
	box.Right: {
		rotation:    [3]float64{90, 0, 90},
		mirror:      [3]bool{true, false, false},
		translation: func(m *box.Model) [3]float64 { return [3]float64{m.Width(), 0, 0} },
	},
	box.Front: {
		rotation:    [3]float64{90, 0, 0},
		mirror:      [3]bool{false, true, false},
		translation: func(*box.Model) [3]float64 { return [3]float64{} },
	},
	box.Back: {
		rotation:    [3]float64{90, 0, 0},
		mirror:      [3]bool{true, false, false},
		translation: func(m *box.Model) [3]float64 { return [3]float64{m.Width(), m.Depth(), 0} },
	},
}

// Panel builds the solid of one face in its own frame: the outline minus
// circle and rectangle openings, extruded by wall, with blind-joint pockets
// cleared from the inner surface.
func Panel(k kernel.Kernel, fp *facepath.FacePath, wall float64) (kernel.Solid, error) {
	if fp == nil || len(fp.Outline) == 0 {
		return nil, facepath.ErrNoGeometry
	}
	if wall <= 0 {
		return nil, fmt.Errorf("tessellate: wall thickness %g must be positive", wall)
	}

	outline, err := polygon(k, fp.Outline)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %s outline: %w", fp.Face, err)
	}

	var holes []kernel.Profile
	for i, c := range fp.Circles {
		p, err := k.Circle(c.Center.X, c.Center.Y, c.Radius)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %s circle %d: %w", fp.Face, i+1, err)
		}
		holes = append(holes, p)
	}
	for i, r := range fp.Rectangles {
		p, err := polygon(k, r.Path())
		if err != nil {
			return nil, fmt.Errorf("tessellate: %s rectangle %d: %w", fp.Face, i+1, err)
		}
		holes = append(holes, p)
	}

	solid := k.Extrude(k.Cut(outline, holes...), wall)
	for _, pk := range fp.Pockets {
		b := pk.Bounds()
		depth := min(pk.Depth, wall)
		cut := k.Box(b.Width(), b.Height(), depth)
		solid = k.Difference(solid, k.Translate(cut, b.Min.X, b.Min.Y, wall-depth))
	}
	return solid, nil
}

func polygon(k kernel.Kernel, p geom.Path) (kernel.Profile, error) {
	pts := p.Flatten(geom.FlattenTolerance)
	verts := make([][2]float64, len(pts))
	for i, q := range pts {
		verts[i] = [2]float64{q.X, q.Y}
	}
	return k.Polygon(verts)
}

// Place moves a solid built in the frame of face f to where that panel sits
// in the assembled box described by m.
func Place(k kernel.Kernel, m *box.Model, f box.Face, s kernel.Solid) kernel.Solid {
	pl := placements[f]

	if r := pl.rotation; r != [3]float64{} {
		s = k.Rotate(s, r[0], r[1], r[2])
	}
	if mi := pl.mirror; mi != [3]bool{} {
		s = k.Mirror(s, mi[0], mi[1], mi[2])
	}
	if t := pl.translation(m); t != [3]float64{} {
		s = k.Translate(s, t[0], t[1], t[2])
	}
	return s
}

// Tessellate produces one placed triangle mesh per face path. Each mesh's
// PartName is the face name. The model and paths are only read.
func Tessellate(m *box.Model, paths []*facepath.FacePath, k kernel.Kernel) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, fp := range paths {
		if fp == nil {
			continue
		}
		if fp.Stale(m) {
			logging.Logger().Debug("tessellate: face path is stale", "face", fp.Face)
		}
		solid, err := Panel(k, fp, m.Wall())
		if err != nil {
			return nil, err
		}
		mesh, err := k.ToMesh(Place(k, m, fp.Face, solid))
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", fp.Face, err)
		}
		mesh.PartName = fp.Face.String()
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Assembly unions every placed panel into a single solid.
func Assembly(m *box.Model, paths []*facepath.FacePath, k kernel.Kernel) (kernel.Solid, error) {
	var out kernel.Solid
	for _, fp := range paths {
		if fp == nil {
			continue
		}
		solid, err := Panel(k, fp, m.Wall())
		if err != nil {
			return nil, err
		}
		solid = Place(k, m, fp.Face, solid)
		if out == nil {
			out = solid
		} else {
			out = k.Union(out, solid)
		}
	}
	if out == nil {
		return nil, errors.New("tessellate: no panels to assemble")
	}
	return out, nil
}
