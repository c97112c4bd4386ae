package tessellate_test

import (
	"errors"
	"testing"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/facepath"
	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/kernel"
	"github.com/chazu/cncbox/pkg/kernel/sdfx"
	"github.com/chazu/cncbox/pkg/tessellate"
)

const eps = 1e-6

// newKernel returns a coarse sdfx kernel so meshing stays quick.
func newKernel() kernel.Kernel {
	return &sdfx.SdfxKernel{MeshCells: 30}
}

// countingKernel records the boolean operations a panel needs.
type countingKernel struct {
	kernel.Kernel
	holes int
	diffs int
}

func (k *countingKernel) Cut(p kernel.Profile, holes ...kernel.Profile) kernel.Profile {
	k.holes += len(holes)
	return k.Kernel.Cut(p, holes...)
}

func (k *countingKernel) Difference(a, b kernel.Solid) kernel.Solid {
	k.diffs++
	return k.Kernel.Difference(a, b)
}

func render(t *testing.T, m *box.Model) []*facepath.FacePath {
	t.Helper()
	paths, err := facepath.RenderAll(m, m.ToolRadius())
	if err != nil {
		t.Fatalf("RenderAll failed: %v", err)
	}
	return paths
}

func TestTessellateDefaultBox(t *testing.T) {
	m := box.New()
	meshes, err := tessellate.Tessellate(m, render(t, m), newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != len(box.AllFaces) {
		t.Fatalf("expected %d meshes, got %d", len(box.AllFaces), len(meshes))
	}
	for i, mesh := range meshes {
		if want := box.AllFaces[i].String(); mesh.PartName != want {
			t.Errorf("mesh %d: PartName = %q, want %q", i, mesh.PartName, want)
		}
		if mesh.IsEmpty() || mesh.TriangleCount() == 0 {
			t.Errorf("mesh %s should not be empty", mesh.PartName)
		}
	}
}

func TestPlacement(t *testing.T) {
	m := box.New()
	if err := m.SetDimensions(80, 120, 100); err != nil {
		t.Fatal(err)
	}
	k := newKernel()
	w, d, h, wall := m.Width(), m.Depth(), m.Height(), m.Wall()

	// axis is the panel's thickness axis; lo..hi is where the wall sits.
	tests := []struct {
		face   box.Face
		axis   int
		lo, hi float64
	}{
		{box.Bottom, 2, 0, wall},
		{box.Top, 2, h - wall, h},
		{box.Front, 1, 0, wall},
		{box.Back, 1, d - wall, d},
		{box.Left, 0, 0, wall},
		{box.Right, 0, w - wall, w},
	}
	envelope := [3]float64{w, d, h}
	for _, tt := range tests {
		t.Run(tt.face.String(), func(t *testing.T) {
			fp, err := facepath.Render(m, tt.face, m.ToolRadius())
			if err != nil {
				t.Fatal(err)
			}
			panel, err := tessellate.Panel(k, fp, wall)
			if err != nil {
				t.Fatalf("Panel failed: %v", err)
			}
			min, max := tessellate.Place(k, m, tt.face, panel).BoundingBox()
			for a := 0; a < 3; a++ {
				if min[a] < -eps || max[a] > envelope[a]+eps {
					t.Errorf("axis %d: %v..%v outside the box 0..%v", a, min[a], max[a], envelope[a])
				}
			}
			if min[tt.axis] < tt.lo-eps || max[tt.axis] > tt.hi+eps {
				t.Errorf("thickness axis %d: %v..%v, want within %v..%v", tt.axis, min[tt.axis], max[tt.axis], tt.lo, tt.hi)
			}
			if max[tt.axis]-min[tt.axis] < wall-eps {
				t.Errorf("panel is %v thick, want %v", max[tt.axis]-min[tt.axis], wall)
			}
		})
	}
}

func TestPanelCutsOpenings(t *testing.T) {
	m := box.New()
	if err := m.SetCircles(box.Top, []geom.Circle{{Center: geom.Pt(50, 50), Radius: 10}}); err != nil {
		t.Fatal(err)
	}
	if err := m.SetRectangles(box.Top, []geom.Rectangle{{Center: geom.Pt(120, 100), Width: 40, Height: 20, CornerRadius: 3}}); err != nil {
		t.Fatal(err)
	}
	fp, err := facepath.Render(m, box.Top, m.ToolRadius())
	if err != nil {
		t.Fatal(err)
	}
	k := &countingKernel{Kernel: newKernel()}
	if _, err := tessellate.Panel(k, fp, m.Wall()); err != nil {
		t.Fatalf("Panel failed: %v", err)
	}
	if k.holes != 2 {
		t.Errorf("cut %d holes, want 2", k.holes)
	}
	if k.diffs != 0 {
		t.Errorf("made %d pocket cuts, want 0", k.diffs)
	}
}

func TestPanelClearsPockets(t *testing.T) {
	m := box.New()
	if err := m.SetJoint(box.FrontTop, box.Joint{Type: box.Tabs, Count: 2, Length: 20}); err != nil {
		t.Fatal(err)
	}
	if err := m.SetBlindTabs(box.NewFaceSet(box.Top)); err != nil {
		t.Fatal(err)
	}
	fp, err := facepath.Render(m, box.Top, m.ToolRadius())
	if err != nil {
		t.Fatal(err)
	}
	if len(fp.Pockets) == 0 {
		t.Fatal("blind top should have pockets")
	}
	k := &countingKernel{Kernel: newKernel()}
	if _, err := tessellate.Panel(k, fp, m.Wall()); err != nil {
		t.Fatalf("Panel failed: %v", err)
	}
	if k.diffs != len(fp.Pockets) {
		t.Errorf("made %d pocket cuts, want %d", k.diffs, len(fp.Pockets))
	}
}

func TestPanelErrors(t *testing.T) {
	k := newKernel()
	if _, err := tessellate.Panel(k, nil, 6); !errors.Is(err, facepath.ErrNoGeometry) {
		t.Errorf("nil path: err = %v, want ErrNoGeometry", err)
	}
	fp, err := facepath.Render(box.New(), box.Front, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tessellate.Panel(k, fp, 0); err == nil {
		t.Error("zero wall: expected error")
	}
}

func TestAssembly(t *testing.T) {
	m := box.New()
	k := newKernel()
	s, err := tessellate.Assembly(m, render(t, m), k)
	if err != nil {
		t.Fatalf("Assembly failed: %v", err)
	}
	min, max := s.BoundingBox()
	want := [3]float64{m.Width(), m.Depth(), m.Height()}
	for a := 0; a < 3; a++ {
		if min[a] < -eps || max[a] > want[a]+eps {
			t.Errorf("axis %d: %v..%v outside 0..%v", a, min[a], max[a], want[a])
		}
		if max[a]-min[a] < want[a]-2*m.Wall() {
			t.Errorf("axis %d spans %v, want about %v", a, max[a]-min[a], want[a])
		}
	}
}

func TestAssemblyEmpty(t *testing.T) {
	if _, err := tessellate.Assembly(box.New(), nil, newKernel()); err == nil {
		t.Fatal("expected error for no panels")
	}
}
