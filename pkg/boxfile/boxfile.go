// Package boxfile reads and writes box parameter files.
//
// A box file is a flat INI file without sections:
//
//	height = 100
//	width = 200
//	depth = 200
//	wall = 6
//	toolradius = 1.5
//	relief = width
//	frontside.type = tabs
//	frontside.count = 3
//	frontside.length = 12
//	blind = top,front
//	top.circle.1 = 50 50 10
//	front.rect.1 = 100 50 40 20 3
//
// Any key may be missing; it then takes the value a new box has. Files
// written by older versions therefore keep loading.
package boxfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/logging"
	"gopkg.in/ini.v1"
)

// Ext is the conventional box file extension.
const Ext = ".box"

// Load reads and validates the box file at path. On any error no model is
// returned, so the caller's current model stays untouched.
func Load(path string) (*box.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	m, err := Decode(bytes.NewReader(data))
	if err != nil {
		if fe, ok := err.(*FormatError); ok {
			fe.Path = path
		}
		return nil, err
	}
	logging.Logger().Info("boxfile: loaded", "path", path)
	return m, nil
}

// Save writes m to path through a temporary file in the same directory that
// is renamed over the target once complete. A failed save leaves any
// existing file as it was. On success the model is marked clean.
func Save(path string, m *box.Model) error {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return err
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: op, Path: path, Err: err}
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "rename", Path: path, Err: err}
	}

	m.MarkClean()
	logging.Logger().Info("boxfile: saved", "path", path)
	return nil
}

// Decode parses a box file from r. Missing keys default and the result is
// validated as a whole.
func Decode(r io.Reader) (*box.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Op: "read", Path: "box file", Err: err}
	}
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         true,
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, &FormatError{Err: err}
	}

	d := decoder{p: box.DefaultParams(), sec: f.Section(ini.DefaultSection)}
	d.float("height", &d.p.Height)
	d.float("width", &d.p.Width)
	d.float("depth", &d.p.Depth)
	d.float("wall", &d.p.Wall)
	d.float("toolradius", &d.p.ToolRadius)
	d.parse("relief", func(s string) error {
		v, err := box.ParseReliefMode(s)
		d.p.Relief = v
		return err
	})
	for _, c := range box.AllCornerClasses {
		j := &d.p.Joints[c]
		d.parse(c.String()+".type", func(s string) error {
			v, err := box.ParseJointType(s)
			j.Type = v
			return err
		})
		d.parse(c.String()+".count", func(s string) error {
			v, err := strconv.Atoi(strings.TrimSpace(s))
			j.Count = v
			return err
		})
		d.float(c.String()+".length", &j.Length)
	}
	d.parse("blind", func(s string) error {
		v, err := box.ParseFaceSet(s)
		d.p.Blind = v
		return err
	})
	d.openings()
	if d.err != nil {
		return nil, d.err
	}

	m, err := box.FromParams(d.p)
	if err != nil {
		return nil, &FormatError{Err: err}
	}
	return m, nil
}

type decoder struct {
	p    box.Params
	sec  *ini.Section
	seen map[string]bool
	err  error
}

// parse hands the value of key to fn if the key is present. Only the first
// failure is kept.
func (d *decoder) parse(key string, fn func(string) error) {
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	d.seen[key] = true
	if d.err != nil || !d.sec.HasKey(key) {
		return
	}
	if err := fn(d.sec.Key(key).String()); err != nil {
		d.err = &FormatError{Key: key, Err: err}
	}
}

func (d *decoder) float(key string, dst *float64) {
	d.parse(key, func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	})
}

type indexed[T any] struct {
	n int
	v T
}

// openings collects "<face>.circle.<n>" and "<face>.rect.<n>" keys, ordered
// by n within each face. Keys nothing recognises are skipped.
func (d *decoder) openings() {
	circles := make(map[box.Face][]indexed[geom.Circle])
	rects := make(map[box.Face][]indexed[geom.Rectangle])
	for _, k := range d.sec.Keys() {
		if d.err != nil {
			return
		}
		name := k.Name()
		if d.seen[name] {
			continue
		}
		parts := strings.Split(name, ".")
		if len(parts) != 3 || (parts[1] != "circle" && parts[1] != "rect") {
			logging.Logger().Debug("boxfile: ignoring unknown key", "key", name)
			continue
		}
		face, err := box.ParseFace(parts[0])
		if err != nil {
			d.err = &FormatError{Key: name, Err: err}
			return
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			d.err = &FormatError{Key: name, Err: fmt.Errorf("bad opening index: %w", err)}
			return
		}
		switch parts[1] {
		case "circle":
			v, err := numbers(k.String(), 3)
			if err != nil {
				d.err = &FormatError{Key: name, Err: err}
				return
			}
			c := geom.Circle{Center: geom.Pt(v[0], v[1]), Radius: v[2]}
			circles[face] = append(circles[face], indexed[geom.Circle]{n, c})
		case "rect":
			v, err := numbers(k.String(), 5)
			if err != nil {
				d.err = &FormatError{Key: name, Err: err}
				return
			}
			r := geom.Rectangle{Center: geom.Pt(v[0], v[1]), Width: v[2], Height: v[3], CornerRadius: v[4]}
			rects[face] = append(rects[face], indexed[geom.Rectangle]{n, r})
		}
	}
	for f, list := range circles {
		d.p.Circles[f] = sorted(list)
	}
	for f, list := range rects {
		d.p.Rectangles[f] = sorted(list)
	}
}

func sorted[T any](list []indexed[T]) []T {
	slices.SortStableFunc(list, func(a, b indexed[T]) int { return a.n - b.n })
	out := make([]T, len(list))
	for i, e := range list {
		out[i] = e.v
	}
	return out
}

// numbers parses exactly want whitespace-separated numbers.
func numbers(s string, want int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != want {
		return nil, fmt.Errorf("want %d numbers, got %d", want, len(fields))
	}
	out := make([]float64, want)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Encode writes m as a box file. Every key is written, so the file does not
// depend on the defaults of the reader.
func Encode(w io.Writer, m *box.Model) error {
	p := m.Params()
	f := ini.Empty()
	sec := f.Section(ini.DefaultSection)
	put := func(k, v string) { sec.NewKey(k, v) }

	put("height", ftoa(p.Height))
	put("width", ftoa(p.Width))
	put("depth", ftoa(p.Depth))
	put("wall", ftoa(p.Wall))
	put("toolradius", ftoa(p.ToolRadius))
	put("relief", p.Relief.String())
	for _, c := range box.AllCornerClasses {
		j := p.Joints[c]
		put(c.String()+".type", j.Type.String())
		put(c.String()+".count", strconv.Itoa(j.Count))
		put(c.String()+".length", ftoa(j.Length))
	}
	put("blind", p.Blind.String())
	for _, face := range box.AllFaces {
		for i, c := range p.Circles[face] {
			put(fmt.Sprintf("%s.circle.%d", face, i+1), join(c.Center.X, c.Center.Y, c.Radius))
		}
		for i, r := range p.Rectangles[face] {
			put(fmt.Sprintf("%s.rect.%d", face, i+1), join(r.Center.X, r.Center.Y, r.Width, r.Height, r.CornerRadius))
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return &IOError{Op: "write", Path: "box file", Err: err}
	}
	return nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func join(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = ftoa(v)
	}
	return strings.Join(parts, " ")
}
