// Command cncbox renders the panels of a box and writes machine and drawing
// files for them.
//
//	cncbox [flags] <tray.box | tray.cbx>
//
// A .box file is loaded as saved; anything else is run as a box script.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/boxfile"
	"github.com/chazu/cncbox/pkg/engine"
	"github.com/chazu/cncbox/pkg/export"
	"github.com/chazu/cncbox/pkg/facepath"
	"github.com/chazu/cncbox/pkg/gcode"
	"github.com/chazu/cncbox/pkg/kernel/sdfx"
	"github.com/chazu/cncbox/pkg/logging"
	"github.com/chazu/cncbox/pkg/settings"
	"github.com/chazu/cncbox/pkg/tessellate"
	"github.com/chazu/cncbox/pkg/toolpath"
	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
)

// Formats the tool can write, with the file extension of each.
var formats = map[string]string{
	"gcode": ".nc",
	"dxf":   ".dxf",
	"svg":   ".svg",
	"stl":   ".stl",
}

type options struct {
	out          string
	faces        []string
	formats      []string
	settingsPath string
	save         string
	pathOnly     bool
	verbose      bool

	toolRadius   float64
	cutDepth     float64
	maxPassDepth float64
	safeZ        float64
	feedRate     float64
	plungeRate   float64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opts options
	fs := flag.NewFlagSet("cncbox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.out, "out", "o", ".", "output directory")
	fs.StringSliceVarP(&opts.faces, "face", "f", nil, "faces to write (default all)")
	fs.StringSliceVarP(&opts.formats, "format", "t", []string{"gcode"}, "output formats: gcode, dxf, svg, stl")
	fs.StringVar(&opts.settingsPath, "settings", "", "settings file (default the user config file)")
	fs.StringVar(&opts.save, "save", "", "also save the box to this .box file")
	fs.BoolVar(&opts.pathOnly, "path-only", false, "cut on the outline without tool compensation")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	fs.Float64Var(&opts.toolRadius, "tool-radius", 0, "end mill radius, overrides the box")
	fs.Float64Var(&opts.cutDepth, "cut-depth", 0, "cut depth (0 cuts through the wall)")
	fs.Float64Var(&opts.maxPassDepth, "max-pass", 0, "deepest single pass (0 cuts in one pass)")
	fs.Float64Var(&opts.safeZ, "safe-z", 0, "clearance height for rapids")
	fs.Float64Var(&opts.feedRate, "feed", 0, "cutting feed rate, mm/min")
	fs.Float64Var(&opts.plungeRate, "plunge", 0, "plunge feed rate, mm/min")
	fs.SetInterspersed(true)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n    cncbox [options] <box file or script>\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one input file")
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(logger)
	defer logging.SetLogger(nil)

	s, err := loadSettings(fs, &opts)
	if err != nil {
		return err
	}

	input := fs.Arg(0)
	m, err := loadBox(ctx, input, logger)
	if err != nil {
		return err
	}
	if fs.Changed("tool-radius") {
		if err := m.SetToolRadius(opts.toolRadius); err != nil {
			return err
		}
	}
	for _, w := range m.Warnings() {
		logger.Warn("box warning", "code", w.Code, "message", w.Message)
	}

	faces, err := parseFaces(opts.faces)
	if err != nil {
		return err
	}
	for _, f := range opts.formats {
		if _, ok := formats[f]; !ok {
			return fmt.Errorf("unknown format %q", f)
		}
	}
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	w := writer{
		m:        m,
		s:        s,
		name:     strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)),
		out:      opts.out,
		pathOnly: opts.pathOnly,
		stdout:   stdout,
		logger:   logger,
	}
	for _, f := range faces {
		if err := ctx.Err(); err != nil {
			return err
		}
		fp, err := facepath.Render(m, f, m.ToolRadius())
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		for _, format := range opts.formats {
			if err := w.write(format, fp); err != nil {
				return fmt.Errorf("%s %s: %w", f, format, err)
			}
		}
	}

	if opts.save != "" {
		if err := boxfile.Save(opts.save, m); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "saved %s\n", opts.save)
	}
	return nil
}

// loadSettings reads the settings file and applies the flags that were set.
func loadSettings(fs *flag.FlagSet, opts *options) (settings.Settings, error) {
	path := opts.settingsPath
	if path == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return settings.Default(), err
		}
		path = p
	}
	s, err := settings.Load(path)
	if err != nil {
		return s, err
	}
	overrides := []struct {
		name string
		dst  *float64
		v    float64
	}{
		{"cut-depth", &s.CutDepth, opts.cutDepth},
		{"max-pass", &s.MaxPassDepth, opts.maxPassDepth},
		{"safe-z", &s.SafeZ, opts.safeZ},
		{"feed", &s.FeedRate, opts.feedRate},
		{"plunge", &s.PlungeRate, opts.plungeRate},
	}
	for _, o := range overrides {
		if fs.Changed(o.name) {
			*o.dst = o.v
		}
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// loadBox reads a box file, or evaluates a box script for any other
// extension.
func loadBox(ctx context.Context, path string, logger *slog.Logger) (*box.Model, error) {
	if filepath.Ext(path) == boxfile.Ext {
		return boxfile.Load(path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := engine.NewEngine().EvaluateResult(ctx, string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			logger.Error("script error", "file", path, "line", e.Line, "col", e.Col, "message", e.Message)
		}
		return nil, fmt.Errorf("%s: %w", path, res.Errors[0])
	}
	return res.Model, nil
}

func parseFaces(names []string) ([]box.Face, error) {
	if len(names) == 0 {
		return slices.Clone(box.AllFaces), nil
	}
	var faces []box.Face
	for _, n := range names {
		f, err := box.ParseFace(n)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(faces, f) {
			faces = append(faces, f)
		}
	}
	return faces, nil
}

type writer struct {
	m        *box.Model
	s        settings.Settings
	name     string
	out      string
	pathOnly bool
	stdout   io.Writer
	logger   *slog.Logger
}

func (w *writer) path(f box.Face, format string) string {
	return filepath.Join(w.out, fmt.Sprintf("%s-%s%s", w.name, f, formats[format]))
}

func (w *writer) write(format string, fp *facepath.FacePath) error {
	path := w.path(fp.Face, format)
	var err error
	switch format {
	case "gcode":
		err = w.gcode(path, fp)
	case "dxf":
		err = export.DXF(path, fp)
	case "svg":
		err = writeFile(path, func(out io.Writer) error { return export.SVG(out, fp) })
	case "stl":
		err = w.stl(path, fp)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w.stdout, "wrote %s\n", path)
	return nil
}

func (w *writer) gcode(path string, fp *facepath.FacePath) error {
	res, err := toolpath.NewEmitter(w.s.Toolpath()).Emit(fp.Job(w.s.Depth(w.m.Wall()), w.pathOnly))
	if err != nil {
		return err
	}
	for _, sk := range res.Skipped {
		w.logger.Warn("opening skipped", "face", fp.Face, "reason", sk.Error())
	}
	cfg := w.s.GCode(fmt.Sprintf("%s %s", w.name, fp.Face))
	if err := writeFile(path, func(out io.Writer) error { return gcode.WriteProgram(out, cfg, res.Motions) }); err != nil {
		return err
	}
	w.logger.Debug("gcode written", "face", fp.Face, "moves", len(res.Motions),
		"cut_length", res.CutLength(),
		"skipped", lo.Map(res.Skipped, func(e *toolpath.ToolTooLargeError, _ int) string { return e.Kind }))
	return nil
}

func (w *writer) stl(path string, fp *facepath.FacePath) error {
	k := sdfx.New()
	panel, err := tessellate.Panel(k, fp, w.m.Wall())
	if err != nil {
		return err
	}
	return k.WriteSTL(path, panel)
}

// writeFile creates path, hands it to fn and closes it, keeping the first
// error.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
