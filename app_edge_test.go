package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/chazu/cncbox/pkg/box"
)

// ---------------------------------------------------------------------------
// 1. Files: save, load, title and dirty tracking.
// ---------------------------------------------------------------------------

func TestSaveWithoutPath(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.Save(""); err == nil {
		t.Fatal("expected error saving an unnamed box")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	app := newTestApp(t)
	if got := app.Title(); got != "cncbox - untitled.box" {
		t.Errorf("initial Title() = %q", got)
	}

	if _, err := app.SetDimension("width", 180); err != nil {
		t.Fatal(err)
	}
	if _, err := app.SetCircles("top", []CircleData{{X: 90, Y: 100, R: 15}}); err != nil {
		t.Fatal(err)
	}
	if got := app.Title(); got != "cncbox - untitled.box*" {
		t.Errorf("edited Title() = %q", got)
	}

	path := filepath.Join(t.TempDir(), "lid.box")
	state, err := app.Save(path)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if state.Dirty || state.Title != "cncbox - lid.box" {
		t.Errorf("after save: dirty=%v title=%q", state.Dirty, state.Title)
	}

	// Saving again without a path reuses the file name.
	if _, err := app.SetWall(5); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Save(""); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}

	other := newTestApp(t)
	loaded, err := other.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Width != 180 || loaded.Wall != 5 || len(loaded.Circles["top"]) != 1 {
		t.Errorf("loaded state = %+v", loaded)
	}
}

func TestLoadFailureKeepsBox(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.SetWall(8); err != nil {
		t.Fatal(err)
	}

	bad := filepath.Join(t.TempDir(), "bad.box")
	if err := os.WriteFile(bad, []byte("wall = thick\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	state, err := app.Load(bad)
	if !errors.Is(err, box.ErrLoadFormat) {
		t.Fatalf("err = %v, want ErrLoadFormat", err)
	}
	if state.Wall != 8 || !state.Dirty {
		t.Errorf("failed load changed the box: %+v", state)
	}

	_, err = app.Load(filepath.Join(t.TempDir(), "missing.box"))
	if !errors.Is(err, box.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
}

func TestNewBoxResets(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "a.box")
	if _, err := app.SetDimension("height", 50); err != nil {
		t.Fatal(err)
	}
	if _, err := app.Save(path); err != nil {
		t.Fatal(err)
	}
	gen := app.model.Generation()

	state := app.NewBox()
	if state.Height != box.DefaultParams().Height || state.Dirty {
		t.Errorf("NewBox state = %+v", state)
	}
	if state.Title != "cncbox - untitled.box" {
		t.Errorf("NewBox title = %q", state.Title)
	}
	if app.model.Generation() <= gen {
		t.Error("NewBox should advance the generation")
	}
}

func TestDialogsNeedWindow(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.OpenBox(); !errors.Is(err, errNoWindow) {
		t.Errorf("OpenBox err = %v", err)
	}
	if _, err := app.SaveBoxAs(); !errors.Is(err, errNoWindow) {
		t.Errorf("SaveBoxAs err = %v", err)
	}
	if _, err := app.ExportGCode("top"); !errors.Is(err, errNoWindow) {
		t.Errorf("ExportGCode err = %v", err)
	}
	if _, err := app.ExportSTL("top"); !errors.Is(err, errNoWindow) {
		t.Errorf("ExportSTL err = %v", err)
	}
}

// ---------------------------------------------------------------------------
// 2. Setters: accepted and rejected changes.
// ---------------------------------------------------------------------------

func TestSetterRejectionKeepsBox(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		name string
		call func() (BoxState, error)
	}{
		{"negative wall", func() (BoxState, error) { return app.SetWall(-1) }},
		{"zero height", func() (BoxState, error) { return app.SetDimension("height", 0) }},
		{"negative tool", func() (BoxState, error) { return app.SetToolRadius(-0.5) }},
		{"circle outside", func() (BoxState, error) {
			return app.SetCircles("top", []CircleData{{X: 1, Y: 1, R: 10}})
		}},
		{"square corner too big", func() (BoxState, error) {
			return app.SetRectangles("front", []RectData{{X: 100, Y: 50, Width: 10, Height: 10, Corner: 8}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := tt.call()
			if !errors.Is(err, box.ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
			if state.Dirty {
				t.Error("rejected change marked the box dirty")
			}
		})
	}
}

func TestSetterNameErrors(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.SetDimension("girth", 10); err == nil {
		t.Error("expected error for unknown dimension")
	}
	if _, err := app.SetRelief("sideways"); err == nil {
		t.Error("expected error for unknown relief mode")
	}
	if _, err := app.SetJoint(JointData{Class: "diagonal", Type: "tabs"}); err == nil {
		t.Error("expected error for unknown corner class")
	}
	if _, err := app.SetJoint(JointData{Class: "front-top", Type: "dovetail"}); err == nil {
		t.Error("expected error for unknown joint type")
	}
	if _, err := app.SetBlind([]string{"top", "lid"}); err == nil {
		t.Error("expected error for unknown face")
	}
}

func TestSettersApply(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.SetJoint(JointData{Class: "front-top", Type: "slots", Count: 3, Length: 20}); err != nil {
		t.Fatal(err)
	}
	if _, err := app.SetBlind([]string{"top"}); err != nil {
		t.Fatal(err)
	}
	if _, err := app.SetRelief("width"); err != nil {
		t.Fatal(err)
	}
	state, err := app.SetRectangles("front", []RectData{{X: 100, Y: 50, Width: 40, Height: 20, Corner: 3}})
	if err != nil {
		t.Fatal(err)
	}

	var ft JointData
	for _, j := range state.Joints {
		if j.Class == "fronttop" {
			ft = j
		}
	}
	if ft.Type != "slots" || ft.Count != 3 || ft.Length != 20 {
		t.Errorf("front-top joint = %+v", ft)
	}
	if len(state.Blind) != 1 || state.Blind[0] != "top" {
		t.Errorf("blind = %v", state.Blind)
	}
	if state.Relief != "width" {
		t.Errorf("relief = %q", state.Relief)
	}
	if r := state.Rectangles["front"]; len(r) != 1 || r[0].Corner != 3 {
		t.Errorf("front rectangles = %v", r)
	}
}

// ---------------------------------------------------------------------------
// 3. Render and highlight.
// ---------------------------------------------------------------------------

func TestRenderFace(t *testing.T) {
	app := newTestApp(t)
	fd, err := app.Render("top")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if fd.Width != 200 || fd.Height != 200 {
		t.Errorf("envelope %vx%v", fd.Width, fd.Height)
	}
	if len(fd.Outline) == 0 {
		t.Fatal("empty outline")
	}
	if len(fd.Toolpath) == 0 || fd.Toolpath[0].Kind != "rapid" {
		t.Fatalf("toolpath should start with a rapid: %+v", fd.Toolpath)
	}
	if last := fd.Toolpath[len(fd.Toolpath)-1]; last.Kind != "retract" {
		t.Errorf("toolpath ends with %q, want retract", last.Kind)
	}
	if fd.PathOnly {
		t.Error("path-only should be off by default")
	}

	if _, err := app.Render("lid"); err == nil {
		t.Error("expected error for unknown face")
	}
}

func TestRenderSkipsSmallOpening(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.SetCircles("top", []CircleData{{X: 100, Y: 100, R: 1}, {X: 50, Y: 50, R: 10}}); err != nil {
		t.Fatal(err)
	}
	fd, err := app.Render("top")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(fd.Skipped) != 1 || !strings.Contains(fd.Skipped[0], "circle 1") {
		t.Errorf("skipped = %v, want circle 1", fd.Skipped)
	}
}

func TestRenderPathOnly(t *testing.T) {
	app := newTestApp(t)
	app.SetPathOnly(true)
	fd, err := app.Render("front")
	if err != nil {
		t.Fatal(err)
	}
	if !fd.PathOnly {
		t.Error("PathOnly not reported")
	}
	// Without compensation the cut stays on the envelope.
	for _, m := range fd.Toolpath {
		if m.X < -1e-9 || m.Y < -1e-9 || m.X > fd.Width+1e-9 || m.Y > fd.Height+1e-9 {
			t.Fatalf("path-only move %+v leaves the envelope", m)
		}
	}
}

func TestHighlightWraps(t *testing.T) {
	app := newTestApp(t)
	h, err := app.Highlight("top", 0)
	if err != nil {
		t.Fatal(err)
	}
	if h.Index != 0 || h.Count == 0 {
		t.Fatalf("first highlight = %+v", h)
	}
	if !strings.HasPrefix(h.Description, "Top 1/") {
		t.Errorf("description = %q", h.Description)
	}

	h, err = app.Highlight("top", -1)
	if err != nil {
		t.Fatal(err)
	}
	if h.Index != h.Count-1 {
		t.Errorf("step back from 0 = %d, want %d", h.Index, h.Count-1)
	}

	h, err = app.Highlight("top", h.Count)
	if err != nil {
		t.Fatal(err)
	}
	if h.Index != h.Count-1 {
		t.Errorf("a full lap moved the index to %d", h.Index)
	}

	// Faces keep their own index.
	other, err := app.Highlight("front", 0)
	if err != nil {
		t.Fatal(err)
	}
	if other.Index != 0 {
		t.Errorf("front index = %d, want 0", other.Index)
	}
}

// ---------------------------------------------------------------------------
// 4. Export.
// ---------------------------------------------------------------------------

func TestExportGCode(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "top.nc")
	summary, err := app.exportGCode("top", path)
	if err != nil {
		t.Fatalf("exportGCode failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "(untitled.box top)\nG21 G90 G17\n") {
		t.Errorf("unexpected header:\n%s", out[:min(len(out), 80)])
	}
	if !strings.HasSuffix(out, "M2\n") {
		t.Error("program should end with M2")
	}
	if summary.Lines != strings.Count(out, "\n") {
		t.Errorf("summary reports %d lines, file has %d", summary.Lines, strings.Count(out, "\n"))
	}
	if summary.CutLength <= 0 {
		t.Errorf("cut length = %v", summary.CutLength)
	}
}

func TestExportGCodeBadPath(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.exportGCode("top", filepath.Join(t.TempDir(), "no", "top.nc")); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestExportSTL(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "left.stl")
	if err := app.exportSTL("left", path); err != nil {
		t.Fatalf("exportSTL failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() <= 84 {
		t.Fatalf("stl not written: %v", err)
	}
}

func TestExportSTLAssembly(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()
	left, all := filepath.Join(dir, "left.stl"), filepath.Join(dir, "all.stl")
	for face, path := range map[string]string{"left": left, "all": all} {
		if err := app.exportSTL(face, path); err != nil {
			t.Fatalf("exportSTL(%s) failed: %v", face, err)
		}
	}
	a, errA := os.Stat(all)
	l, errL := os.Stat(left)
	if errA != nil || errL != nil {
		t.Fatalf("stat: %v %v", errA, errL)
	}
	if a.Size() <= l.Size() {
		t.Errorf("assembly mesh %d bytes is no larger than one panel %d", a.Size(), l.Size())
	}
	if err := app.exportSTL("lid", filepath.Join(dir, "lid.stl")); err == nil {
		t.Error("unknown face accepted")
	}
}

// ---------------------------------------------------------------------------
// 5. Concurrent bindings.
// ---------------------------------------------------------------------------

func TestConcurrentEdits(t *testing.T) {
	app := newTestApp(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := app.SetWall(float64(4 + i%3)); err != nil {
				t.Errorf("SetWall: %v", err)
			}
			app.State()
			app.Title()
			if _, err := app.Render("back"); err != nil {
				t.Errorf("Render: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if w := app.State().Wall; w < 4 || w > 6 {
		t.Errorf("wall = %v", w)
	}
}
