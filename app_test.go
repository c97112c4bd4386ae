package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/kernel/sdfx"
	"github.com/chazu/cncbox/pkg/settings"
)

// newTestApp returns an app with default settings that never touches the
// user's settings file, meshing coarsely to keep previews quick.
func newTestApp(t *testing.T) *App {
	t.Helper()
	a := newApp(settings.Default(), "")
	a.kernel = &sdfx.SdfxKernel{MeshCells: 40}
	return a
}

// TestE2EScriptExample exercises the script pipeline: source → engine → box
// model → form state. This is the same path the Wails Evaluate binding takes,
// but without the Wails runtime.
func TestE2EScriptExample(t *testing.T) {
	app := newTestApp(t)

	source, err := os.ReadFile("examples/tray.cbx")
	if err != nil {
		t.Fatalf("failed to read tray.cbx: %v", err)
	}

	result := app.Evaluate(string(source))

	// No errors expected.
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	s := result.State
	if s.Height != 60 || s.Width != 240 || s.Depth != 160 || s.Wall != 6 {
		t.Errorf("dimensions = %v/%v/%v wall %v", s.Height, s.Width, s.Depth, s.Wall)
	}
	if s.Relief != "height" {
		t.Errorf("relief = %q, want height", s.Relief)
	}
	if !reflect.DeepEqual(s.Blind, []string{"bottom"}) {
		t.Errorf("blind = %v", s.Blind)
	}
	if len(s.Circles["top"]) != 1 || len(s.Rectangles["front"]) != 1 {
		t.Errorf("openings = %v / %v", s.Circles, s.Rectangles)
	}
	if !s.Dirty || !strings.HasSuffix(s.Title, "*") {
		t.Errorf("an evaluated script should leave unsaved changes, title %q", s.Title)
	}
}

// TestE2EBoxFileMatchesScript checks that the example box file and the
// example script describe the same box.
func TestE2EBoxFileMatchesScript(t *testing.T) {
	scripted := newTestApp(t)
	source, err := os.ReadFile("examples/tray.cbx")
	if err != nil {
		t.Fatal(err)
	}
	if r := scripted.Evaluate(string(source)); len(r.Errors) > 0 {
		t.Fatalf("eval errors: %v", r.Errors)
	}

	loaded := newTestApp(t)
	if _, err := loaded.Load("examples/tray.box"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(scripted.model.Params(), loaded.model.Params()) {
		t.Errorf("script and box file differ:\n%+v\n%+v", scripted.model.Params(), loaded.model.Params())
	}
	if loaded.model.Dirty() {
		t.Error("a freshly loaded box should be clean")
	}
	if got := loaded.Title(); got != "cncbox - tray.box" {
		t.Errorf("Title() = %q", got)
	}
}

// TestE2EPreview renders every face as a placed 3D panel.
func TestE2EPreview(t *testing.T) {
	app := newTestApp(t)
	result := app.Preview()

	if len(result.Errors) > 0 {
		t.Fatalf("preview errors: %v", result.Errors)
	}
	if len(result.Meshes) != len(box.AllFaces) {
		t.Fatalf("expected %d meshes, got %d", len(box.AllFaces), len(result.Meshes))
	}

	for i, m := range result.Meshes {
		if want := box.AllFaces[i].String(); m.PartName != want {
			t.Errorf("mesh %d: part name %q, want %q", i, m.PartName, want)
		}
		// Each mesh must have non-empty geometry.
		if len(m.Vertices) == 0 || len(m.Normals) == 0 || len(m.Indices) == 0 {
			t.Errorf("part %q: empty geometry", m.PartName)
		}
		// Must have a color assigned.
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}
}

// TestE2EEmptySource ensures an empty script yields the default box.
func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	p := app.model.Params()
	if !reflect.DeepEqual(p, box.DefaultParams()) {
		t.Errorf("empty script changed the box: %+v", p)
	}
}

// TestE2ESyntaxError ensures eval errors are reported and the current box
// survives.
func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.SetWall(9); err != nil {
		t.Fatal(err)
	}
	result := app.Evaluate("(box :wall 3")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if result.State.Wall != 9 {
		t.Errorf("failed script changed the wall to %v", result.State.Wall)
	}
}

// TestE2EInvalidParameterInScript ensures a rejected value leaves the box
// alone.
func TestE2EInvalidParameterInScript(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("(box :height 100 :wall 0)")

	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a zero wall")
	}
	if result.State.Wall != box.DefaultParams().Wall {
		t.Errorf("wall = %v after rejected script", result.State.Wall)
	}
	if app.model.Dirty() {
		t.Error("rejected script marked the box dirty")
	}
}

// TestNewAppUsesSettingsFile checks the settings-backed constructor.
func TestNewAppUsesSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), settings.FileName)
	s := settings.Default()
	s.ToolRadius = 3
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := settings.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	app := newApp(loaded, path)
	if got := app.State().ToolRadius; got != 3 {
		t.Errorf("new box tool radius = %v, want 3 from settings", got)
	}
	if app.model.Dirty() {
		t.Error("a new box should be clean")
	}
}
