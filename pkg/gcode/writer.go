// Package gcode writes toolpath motions as RS-274 G-code for hobby routers
// (GRBL, LinuxCNC and similar).
package gcode

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/cncbox/pkg/toolpath"
)

// Config holds the machine settings written into the program.
type Config struct {
	FeedRate   float64 // mm/min for XY cuts
	PlungeRate float64 // mm/min for Z feeds
	SafeZ      float64
	// Comment is written as a header line when not empty.
	Comment string
}

// DefaultConfig returns feeds suitable for plywood with a small end mill.
func DefaultConfig() Config {
	return Config{FeedRate: 600, PlungeRate: 200, SafeZ: 5}
}

// Validate reports a configuration that would produce an unusable program.
func (c Config) Validate() error {
	if !(c.FeedRate > 0) {
		return fmt.Errorf("gcode: feed rate %g must be positive", c.FeedRate)
	}
	if !(c.PlungeRate > 0) {
		return fmt.Errorf("gcode: plunge rate %g must be positive", c.PlungeRate)
	}
	if !(c.SafeZ > 0) {
		return fmt.Errorf("gcode: safe height %g must be positive", c.SafeZ)
	}
	return nil
}

// Writer emits G-code. Axis words that have not changed since the previous
// line are omitted, as are repeated feed rates. The first write error is
// kept and returned by every later call.
type Writer struct {
	w   *bufio.Writer
	cfg Config
	err error

	x, y, z float64
	known   bool
	feed    float64
	lines   int
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer, cfg Config) *Writer {
	return &Writer{w: bufio.NewWriter(w), cfg: cfg}
}

// Lines returns the number of lines written so far.
func (w *Writer) Lines() int { return w.lines }

func (w *Writer) line(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format+"\n", args...)
	w.lines++
}

// Preamble writes the header: millimetres, absolute coordinates, XY plane,
// then a move to safe height.
func (w *Writer) Preamble() error {
	if err := w.cfg.Validate(); err != nil {
		return err
	}
	if w.cfg.Comment != "" {
		for _, c := range strings.Split(w.cfg.Comment, "\n") {
			w.line("(%s)", sanitize(c))
		}
	}
	w.line("G21 G90 G17")
	w.line("G0 Z%s", num(w.cfg.SafeZ))
	w.z = w.cfg.SafeZ
	return w.err
}

// Write appends motions to the program.
func (w *Writer) Write(motions []toolpath.Motion) error {
	for _, m := range motions {
		switch m.Kind {
		case toolpath.Rapid:
			if num(m.Z) != num(w.z) {
				// Reach travel height before moving sideways.
				w.line("G0 Z%s", num(m.Z))
				w.z = m.Z
			}
			w.line("G0%s", w.xy(m.X, m.Y))
		case toolpath.Plunge:
			w.line("G1%s Z%s%s", w.xy(m.X, m.Y), num(m.Z), w.feedWord(w.cfg.PlungeRate))
		case toolpath.Linear:
			w.line("G1%s%s%s", w.xy(m.X, m.Y), w.zWord(m.Z), w.feedWord(w.cfg.FeedRate))
		case toolpath.ArcCut:
			code := "G3"
			if m.Clockwise {
				code = "G2"
			}
			// I and J are relative to the arc start.
			i, j := m.Center.X-w.x, m.Center.Y-w.y
			w.x, w.y, w.known = m.X, m.Y, true
			w.line("%s X%s Y%s I%s J%s%s%s", code, num(m.X), num(m.Y), num(i), num(j), w.zWord(m.Z), w.feedWord(w.cfg.FeedRate))
		case toolpath.Retract:
			w.line("G0 Z%s", num(m.Z))
		default:
			return fmt.Errorf("gcode: unknown motion %v", m.Kind)
		}
		w.z = m.Z
		if w.err != nil {
			return w.err
		}
	}
	return w.err
}

// Postamble lifts the tool to safe height and ends the program.
func (w *Writer) Postamble() error {
	if w.z < w.cfg.SafeZ {
		w.line("G0 Z%s", num(w.cfg.SafeZ))
	}
	w.line("M2")
	return w.err
}

// Flush writes any buffered output.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// xy returns the X and Y words for a move to x, y, omitting unchanged axes,
// and records the new position.
func (w *Writer) xy(x, y float64) string {
	var sb strings.Builder
	if !w.known || num(x) != num(w.x) {
		sb.WriteString(" X" + num(x))
	}
	if !w.known || num(y) != num(w.y) {
		sb.WriteString(" Y" + num(y))
	}
	w.x, w.y, w.known = x, y, true
	return sb.String()
}

func (w *Writer) zWord(z float64) string {
	if num(z) == num(w.z) {
		return ""
	}
	return " Z" + num(z)
}

func (w *Writer) feedWord(f float64) string {
	if f == w.feed {
		return ""
	}
	w.feed = f
	return " F" + num(f)
}

// num formats a coordinate with four decimals, trimming trailing zeros.
func num(v float64) string {
	if math.Abs(v) < 5e-5 {
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// sanitize strips characters that would end a G-code comment early.
func sanitize(s string) string {
	return strings.NewReplacer("(", "[", ")", "]").Replace(strings.TrimSpace(s))
}

// WriteProgram writes a complete program for motions to w.
func WriteProgram(w io.Writer, cfg Config, motions []toolpath.Motion) error {
	gw := NewWriter(w, cfg)
	if err := gw.Preamble(); err != nil {
		return err
	}
	if err := gw.Write(motions); err != nil {
		return err
	}
	if err := gw.Postamble(); err != nil {
		return err
	}
	return gw.Flush()
}
