package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/boxfile"
	"github.com/chazu/cncbox/pkg/engine"
	"github.com/chazu/cncbox/pkg/facepath"
	"github.com/chazu/cncbox/pkg/gcode"
	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/kernel"
	"github.com/chazu/cncbox/pkg/kernel/sdfx"
	"github.com/chazu/cncbox/pkg/settings"
	"github.com/chazu/cncbox/pkg/tessellate"
	"github.com/chazu/cncbox/pkg/toolpath"
	"github.com/samber/lo"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// colorPalette is a default palette used to assign distinct colors to panels.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// errNoWindow is returned by bindings that need a native dialog before the
// window exists.
var errNoWindow = errors.New("no window for dialog")

// App is the Wails backend. It exposes methods to the frontend via bindings.
// Bindings may be called concurrently; mu guards the session state.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	kernel kernel.Kernel

	mu           sync.Mutex
	model        *box.Model
	path         string
	settings     settings.Settings
	settingsPath string
	pathOnly     bool
	highlight    map[box.Face]int
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of a script evaluation returned to the
// frontend.
type EvalResult struct {
	State    BoxState        `json:"state"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// PreviewResult carries one placed panel mesh per face.
type PreviewResult struct {
	Meshes []MeshData `json:"meshes"`
	Errors []string   `json:"errors"`
}

// JointData is one corner class of the parameter form.
type JointData struct {
	Class  string  `json:"class"`
	Type   string  `json:"type"`
	Count  int     `json:"count"`
	Length float64 `json:"length"`
}

// CircleData is a circular opening in face coordinates.
type CircleData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// RectData is a rectangular opening in face coordinates.
type RectData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Corner float64 `json:"corner"`
}

// BoxState is the snapshot the parameter form is filled from.
type BoxState struct {
	Height     float64                 `json:"height"`
	Width      float64                 `json:"width"`
	Depth      float64                 `json:"depth"`
	Wall       float64                 `json:"wall"`
	ToolRadius float64                 `json:"toolRadius"`
	Relief     string                  `json:"relief"`
	Joints     []JointData             `json:"joints"`
	Blind      []string                `json:"blind"`
	Circles    map[string][]CircleData `json:"circles"`
	Rectangles map[string][]RectData   `json:"rectangles"`
	Warnings   []string                `json:"warnings"`
	Title      string                  `json:"title"`
	Dirty      bool                    `json:"dirty"`
}

// SegmentData is one outline segment for the 2D preview.
type SegmentData struct {
	Kind      string     `json:"kind"`
	Start     [2]float64 `json:"start"`
	End       [2]float64 `json:"end"`
	Center    [2]float64 `json:"center"`
	Clockwise bool       `json:"clockwise"`
}

// MotionData is one toolpath move for the 2D preview.
type MotionData struct {
	Kind      string     `json:"kind"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Z         float64    `json:"z"`
	Center    [2]float64 `json:"center"`
	Clockwise bool       `json:"clockwise"`
}

// PocketData is a partial-depth pocket.
type PocketData struct {
	RectData
	Depth float64 `json:"depth"`
}

// FaceData is everything the 2D preview draws for one face.
type FaceData struct {
	Face       string        `json:"face"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Outline    []SegmentData `json:"outline"`
	Circles    []CircleData  `json:"circles"`
	Rectangles []RectData    `json:"rectangles"`
	Pockets    []PocketData  `json:"pockets"`
	Toolpath   []MotionData  `json:"toolpath"`
	Skipped    []string      `json:"skipped"`
	PathOnly   bool          `json:"pathOnly"`
}

// HighlightData describes the outline segment picked by Highlight.
type HighlightData struct {
	Face        string      `json:"face"`
	Index       int         `json:"index"`
	Count       int         `json:"count"`
	Segment     SegmentData `json:"segment"`
	Description string      `json:"description"`
}

// ExportSummary reports a written machine file.
type ExportSummary struct {
	Path      string   `json:"path"`
	Lines     int      `json:"lines"`
	CutLength float64  `json:"cutLength"`
	Skipped   []string `json:"skipped"`
}

// NewApp creates a new App with an engine, the sdfx kernel and the user's
// settings. A settings file that cannot be read leaves the defaults in place.
func NewApp() *App {
	s := settings.Default()
	path, err := settings.DefaultPath()
	if err != nil {
		log.Printf("Settings path: %v", err)
	} else if s, err = settings.Load(path); err != nil {
		log.Printf("Settings load error: %v", err)
	}
	return newApp(s, path)
}

func newApp(s settings.Settings, settingsPath string) *App {
	a := &App{
		engine:       engine.NewEngine(),
		kernel:       sdfx.New(),
		settings:     s,
		settingsPath: settingsPath,
		highlight:    make(map[box.Face]int),
	}
	a.model = a.defaultModel()
	return a
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// defaultModel is a new box cut with the configured tool.
func (a *App) defaultModel() *box.Model {
	m := box.New()
	if err := m.SetToolRadius(a.settings.ToolRadius); err != nil {
		log.Printf("Settings tool radius %g rejected: %v", a.settings.ToolRadius, err)
	}
	m.MarkClean()
	return m
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

// NewBox discards the current box for a default one.
func (a *App) NewBox() BoxState {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.model.Replace(a.defaultModel())
	a.path = ""
	a.highlight = make(map[box.Face]int)
	a.updateTitle()
	return a.state()
}

// Load replaces the current box with the file at path. On failure the
// current box is left untouched.
func (a *App) Load(path string) (BoxState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, err := boxfile.Load(path)
	if err != nil {
		log.Printf("Load error: %v", err)
		return a.state(), err
	}
	a.model.Replace(m)
	a.path = path
	a.highlight = make(map[box.Face]int)
	a.updateTitle()
	return a.state(), nil
}

// Save writes the box to path, or to the file it was loaded from or last
// saved to when path is empty.
func (a *App) Save(path string) (BoxState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if path == "" {
		path = a.path
	}
	if path == "" {
		return a.state(), errors.New("save: the box has no file name yet")
	}
	if err := boxfile.Save(path, a.model); err != nil {
		log.Printf("Save error: %v", err)
		return a.state(), err
	}
	a.path = path
	a.updateTitle()
	return a.state(), nil
}

// OpenBox asks for a box file and loads it. Cancelling the dialog keeps the
// current box.
func (a *App) OpenBox() (BoxState, error) {
	if a.ctx == nil {
		return a.State(), errNoWindow
	}
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title:            "Open box",
		DefaultDirectory: a.settingsSnapshot().BoxDirectory,
		Filters:          []runtime.FileFilter{{DisplayName: "Box files (*.box)", Pattern: "*" + boxfile.Ext}},
	})
	if err != nil || path == "" {
		return a.State(), err
	}
	a.rememberDir(func(s *settings.Settings) *string { return &s.BoxDirectory }, path)
	return a.Load(path)
}

// SaveBoxAs asks for a file name and saves the box there.
func (a *App) SaveBoxAs() (BoxState, error) {
	if a.ctx == nil {
		return a.State(), errNoWindow
	}
	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:            "Save box",
		DefaultDirectory: a.settingsSnapshot().BoxDirectory,
		DefaultFilename:  a.fileName(),
		Filters:          []runtime.FileFilter{{DisplayName: "Box files (*.box)", Pattern: "*" + boxfile.Ext}},
	})
	if err != nil || path == "" {
		return a.State(), err
	}
	if filepath.Ext(path) == "" {
		path += boxfile.Ext
	}
	a.rememberDir(func(s *settings.Settings) *string { return &s.BoxDirectory }, path)
	return a.Save(path)
}

func (a *App) settingsSnapshot() settings.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// rememberDir stores the directory of path in the setting field picks and
// persists the settings when it changed.
func (a *App) rememberDir(field func(*settings.Settings) *string, path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	dir := filepath.Dir(path)
	p := field(&a.settings)
	if *p == dir {
		return
	}
	*p = dir
	if a.settingsPath == "" {
		return
	}
	if err := a.settings.Save(a.settingsPath); err != nil {
		log.Printf("Settings save error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Parameters
// ---------------------------------------------------------------------------

// State returns the current box parameters.
func (a *App) State() BoxState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state()
}

// edit applies one setter under the lock. A rejected change leaves the box
// as it was and is returned to the frontend.
func (a *App) edit(what string, fn func(m *box.Model) error) (BoxState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := fn(a.model); err != nil {
		log.Printf("%s rejected: %v", what, err)
		return a.state(), err
	}
	a.updateTitle()
	return a.state(), nil
}

// SetDimension sets "height", "width" or "depth".
func (a *App) SetDimension(name string, value float64) (BoxState, error) {
	return a.edit("SetDimension", func(m *box.Model) error {
		switch name {
		case "height":
			return m.SetHeight(value)
		case "width":
			return m.SetWidth(value)
		case "depth":
			return m.SetDepth(value)
		}
		return fmt.Errorf("unknown dimension %q", name)
	})
}

// SetWall sets the material thickness.
func (a *App) SetWall(value float64) (BoxState, error) {
	return a.edit("SetWall", func(m *box.Model) error { return m.SetWall(value) })
}

// SetToolRadius sets the radius of the end mill the box is cut with.
func (a *App) SetToolRadius(value float64) (BoxState, error) {
	return a.edit("SetToolRadius", func(m *box.Model) error { return m.SetToolRadius(value) })
}

// SetRelief sets the inside-corner relief mode by name.
func (a *App) SetRelief(mode string) (BoxState, error) {
	return a.edit("SetRelief", func(m *box.Model) error {
		r, err := box.ParseReliefMode(mode)
		if err != nil {
			return err
		}
		return m.SetRelief(r)
	})
}

// SetJoint configures one corner class.
func (a *App) SetJoint(j JointData) (BoxState, error) {
	return a.edit("SetJoint", func(m *box.Model) error {
		c, err := box.ParseCornerClass(j.Class)
		if err != nil {
			return err
		}
		jt, err := box.ParseJointType(j.Type)
		if err != nil {
			return err
		}
		return m.SetJoint(c, box.Joint{Type: jt, Count: j.Count, Length: j.Length})
	})
}

// SetBlind sets the faces whose fingers stop short of the outer surface.
func (a *App) SetBlind(faces []string) (BoxState, error) {
	return a.edit("SetBlind", func(m *box.Model) error {
		var set box.FaceSet
		for _, name := range faces {
			f, err := box.ParseFace(name)
			if err != nil {
				return err
			}
			set = set.With(f)
		}
		return m.SetBlindTabs(set)
	})
}

// SetCircles replaces the circular openings of a face.
func (a *App) SetCircles(face string, circles []CircleData) (BoxState, error) {
	return a.edit("SetCircles", func(m *box.Model) error {
		f, err := box.ParseFace(face)
		if err != nil {
			return err
		}
		return m.SetCircles(f, lo.Map(circles, func(c CircleData, _ int) geom.Circle {
			return geom.Circle{Center: geom.Pt(c.X, c.Y), Radius: c.R}
		}))
	})
}

// SetRectangles replaces the rectangular openings of a face.
func (a *App) SetRectangles(face string, rects []RectData) (BoxState, error) {
	return a.edit("SetRectangles", func(m *box.Model) error {
		f, err := box.ParseFace(face)
		if err != nil {
			return err
		}
		return m.SetRectangles(f, lo.Map(rects, func(r RectData, _ int) geom.Rectangle {
			return geom.Rectangle{Center: geom.Pt(r.X, r.Y), Width: r.Width, Height: r.Height, CornerRadius: r.Corner}
		}))
	})
}

// SetPathOnly switches the toolpath preview between the compensated cut and
// the true outline.
func (a *App) SetPathOnly(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pathOnly = on
}

// ---------------------------------------------------------------------------
// Scripts
// ---------------------------------------------------------------------------

// Evaluate runs a box script and, when it succeeds, makes its box the
// current one. A failing script leaves the current box untouched.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	res, err := a.engine.EvaluateResult(a.context(), source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		result.State = a.State()
		return result
	}
	for _, e := range res.Errors {
		result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	if len(result.Errors) > 0 || res.Model == nil {
		result.State = a.State()
		return result
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.model.SetParams(res.Model.Params()); err != nil {
		log.Printf("Evaluate apply error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.String()})
	}
	a.updateTitle()
	result.State = a.state()
	return result
}

// ---------------------------------------------------------------------------
// Preview
// ---------------------------------------------------------------------------

// Render generates the geometry and toolpath of one face.
func (a *App) Render(face string) (FaceData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, err := box.ParseFace(face)
	if err != nil {
		return FaceData{}, err
	}
	fp, err := facepath.Render(a.model, f, a.model.ToolRadius())
	if err != nil {
		return FaceData{}, err
	}
	res, err := a.emit(fp, a.pathOnly)
	if err != nil {
		log.Printf("Render %s toolpath error: %v", f, err)
		return FaceData{}, err
	}
	return faceData(fp, res, a.pathOnly), nil
}

// Highlight moves the highlighted outline segment of a face by step and
// describes it. Step 0 re-reads the current one. The index wraps around
// the outline and is kept per face for the session.
func (a *App) Highlight(face string, step int) (HighlightData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, err := box.ParseFace(face)
	if err != nil {
		return HighlightData{}, err
	}
	fp, err := facepath.Render(a.model, f, a.model.ToolRadius())
	if err != nil {
		return HighlightData{}, err
	}
	n := len(fp.Outline)
	if n == 0 {
		return HighlightData{}, facepath.ErrNoGeometry
	}
	i := ((a.highlight[f]+step)%n + n) % n
	a.highlight[f] = i
	s := fp.Outline[i]
	return HighlightData{
		Face:        f.String(),
		Index:       i,
		Count:       n,
		Segment:     segmentData(s),
		Description: fmt.Sprintf("%s %d/%d: %s", f.Title(), i+1, n, s.Describe()),
	}, nil
}

// Preview extrudes every face into a placed 3D panel.
func (a *App) Preview() PreviewResult {
	result := PreviewResult{
		Meshes: []MeshData{},
		Errors: []string{},
	}

	a.mu.Lock()
	m := a.model.Clone()
	a.mu.Unlock()

	paths, err := facepath.RenderAll(m, m.ToolRadius())
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	meshes, err := tessellate.Tessellate(m, paths, a.kernel)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, "tessellation failed: "+err.Error())
		return result
	}
	for i, mesh := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: mesh.Vertices,
			Normals:  mesh.Normals,
			Indices:  mesh.Indices,
			PartName: mesh.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return result
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// ExportGCode asks for a file name and writes the toolpath of one face as
// G-code.
func (a *App) ExportGCode(face string) (ExportSummary, error) {
	if a.ctx == nil {
		return ExportSummary{}, errNoWindow
	}
	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:            "Export G-code",
		DefaultDirectory: a.settingsSnapshot().GCodeDirectory,
		DefaultFilename:  face + ".nc",
		Filters:          []runtime.FileFilter{{DisplayName: "G-code (*.nc, *.gcode)", Pattern: "*.nc;*.gcode"}},
	})
	if err != nil || path == "" {
		return ExportSummary{}, err
	}
	a.rememberDir(func(s *settings.Settings) *string { return &s.GCodeDirectory }, path)
	return a.exportGCode(face, path)
}

func (a *App) exportGCode(face, path string) (ExportSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, err := box.ParseFace(face)
	if err != nil {
		return ExportSummary{}, err
	}
	fp, err := facepath.Render(a.model, f, a.model.ToolRadius())
	if err != nil {
		return ExportSummary{}, err
	}
	res, err := a.emit(fp, false)
	if err != nil {
		return ExportSummary{}, err
	}

	out, err := os.Create(path)
	if err != nil {
		return ExportSummary{}, fmt.Errorf("export gcode: %w", err)
	}
	w := gcode.NewWriter(out, a.settings.GCode(fmt.Sprintf("%s %s", a.fileName(), f)))
	steps := []func() error{
		w.Preamble,
		func() error { return w.Write(res.Motions) },
		w.Postamble,
		w.Flush,
	}
	for _, step := range steps {
		if err = step(); err != nil {
			break
		}
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Printf("ExportGCode error: %v", err)
		return ExportSummary{}, fmt.Errorf("export gcode %s: %w", path, err)
	}
	return ExportSummary{
		Path:      path,
		Lines:     w.Lines(),
		CutLength: res.CutLength(),
		Skipped:   skipped(res),
	}, nil
}

// ExportSTL asks for a file name and writes a face panel, or with face
// "all" the assembled box, as an STL mesh.
func (a *App) ExportSTL(face string) (string, error) {
	if a.ctx == nil {
		return "", errNoWindow
	}
	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:            "Export STL",
		DefaultDirectory: a.settingsSnapshot().GCodeDirectory,
		DefaultFilename:  face + ".stl",
		Filters:          []runtime.FileFilter{{DisplayName: "STL (*.stl)", Pattern: "*.stl"}},
	})
	if err != nil || path == "" {
		return "", err
	}
	a.rememberDir(func(s *settings.Settings) *string { return &s.GCodeDirectory }, path)
	if err := a.exportSTL(face, path); err != nil {
		log.Printf("ExportSTL error: %v", err)
		return "", err
	}
	return path, nil
}

// exportSTL writes the unplaced panel of one face, or the assembled box for
// "all", as an STL file.
func (a *App) exportSTL(face, path string) error {
	sw, ok := a.kernel.(kernel.STLWriter)
	if !ok {
		return errors.New("export stl: kernel cannot write STL")
	}
	a.mu.Lock()
	m := a.model.Clone()
	a.mu.Unlock()

	solid, err := a.stlSolid(m, face)
	if err != nil {
		return err
	}
	return sw.WriteSTL(path, solid)
}

func (a *App) stlSolid(m *box.Model, face string) (kernel.Solid, error) {
	if face == "all" {
		paths, err := facepath.RenderAll(m, m.ToolRadius())
		if err != nil {
			return nil, err
		}
		return tessellate.Assembly(m, paths, a.kernel)
	}
	f, err := box.ParseFace(face)
	if err != nil {
		return nil, err
	}
	fp, err := facepath.Render(m, f, m.ToolRadius())
	if err != nil {
		return nil, err
	}
	return tessellate.Panel(a.kernel, fp, m.Wall())
}

// Title is the window title: the file name, with a star when there are
// unsaved changes.
func (a *App) Title() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.title()
}

// ---------------------------------------------------------------------------
// Helpers (callers hold mu)
// ---------------------------------------------------------------------------

func (a *App) emit(fp *facepath.FacePath, pathOnly bool) (*toolpath.Result, error) {
	e := toolpath.NewEmitter(a.settings.Toolpath())
	return e.Emit(fp.Job(a.settings.Depth(a.model.Wall()), pathOnly))
}

// context is the Wails context, or a background one before startup.
func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

func (a *App) fileName() string {
	if a.path == "" {
		return "untitled" + boxfile.Ext
	}
	return filepath.Base(a.path)
}

func (a *App) title() string {
	t := "cncbox - " + a.fileName()
	if a.model.Dirty() {
		t += "*"
	}
	return t
}

func (a *App) updateTitle() {
	if a.ctx != nil {
		runtime.WindowSetTitle(a.ctx, a.title())
	}
}

func (a *App) state() BoxState {
	p := a.model.Params()
	s := BoxState{
		Height:     p.Height,
		Width:      p.Width,
		Depth:      p.Depth,
		Wall:       p.Wall,
		ToolRadius: p.ToolRadius,
		Relief:     p.Relief.String(),
		Blind:      lo.Map(p.Blind.Faces(), func(f box.Face, _ int) string { return f.String() }),
		Circles:    make(map[string][]CircleData),
		Rectangles: make(map[string][]RectData),
		Warnings:   lo.Map(a.model.Warnings(), func(w box.Warning, _ int) string { return w.String() }),
		Title:      a.title(),
		Dirty:      a.model.Dirty(),
	}
	for _, c := range box.AllCornerClasses {
		j := p.Joints[c]
		s.Joints = append(s.Joints, JointData{Class: c.String(), Type: j.Type.String(), Count: j.Count, Length: j.Length})
	}
	for f, cs := range p.Circles {
		s.Circles[f.String()] = lo.Map(cs, func(c geom.Circle, _ int) CircleData { return circleData(c) })
	}
	for f, rs := range p.Rectangles {
		s.Rectangles[f.String()] = lo.Map(rs, func(r geom.Rectangle, _ int) RectData { return rectData(r) })
	}
	return s
}

func circleData(c geom.Circle) CircleData {
	return CircleData{X: c.Center.X, Y: c.Center.Y, R: c.Radius}
}

func rectData(r geom.Rectangle) RectData {
	return RectData{X: r.Center.X, Y: r.Center.Y, Width: r.Width, Height: r.Height, Corner: r.CornerRadius}
}

func segmentData(s geom.Segment) SegmentData {
	return SegmentData{
		Kind:      s.Kind.String(),
		Start:     [2]float64{s.Start.X, s.Start.Y},
		End:       [2]float64{s.End.X, s.End.Y},
		Center:    [2]float64{s.Center.X, s.Center.Y},
		Clockwise: s.Clockwise,
	}
}

func skipped(res *toolpath.Result) []string {
	return lo.Map(res.Skipped, func(e *toolpath.ToolTooLargeError, _ int) string { return e.Error() })
}

func faceData(fp *facepath.FacePath, res *toolpath.Result, pathOnly bool) FaceData {
	return FaceData{
		Face:       fp.Face.String(),
		Width:      fp.Width,
		Height:     fp.Height,
		Outline:    lo.Map(fp.Outline, func(s geom.Segment, _ int) SegmentData { return segmentData(s) }),
		Circles:    lo.Map(fp.Circles, func(c geom.Circle, _ int) CircleData { return circleData(c) }),
		Rectangles: lo.Map(fp.Rectangles, func(r geom.Rectangle, _ int) RectData { return rectData(r) }),
		Pockets: lo.Map(fp.Pockets, func(p geom.Pocket, _ int) PocketData {
			return PocketData{RectData: rectData(p.Rect), Depth: p.Depth}
		}),
		Toolpath: lo.Map(res.Motions, func(m toolpath.Motion, _ int) MotionData {
			return MotionData{
				Kind:      m.Kind.String(),
				X:         m.X,
				Y:         m.Y,
				Z:         m.Z,
				Center:    [2]float64{m.Center.X, m.Center.Y},
				Clockwise: m.Clockwise,
			}
		}),
		Skipped:  skipped(res),
		PathOnly: pathOnly,
	}
}
