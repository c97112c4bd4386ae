package gcode

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/cncbox/pkg/geom"
	"github.com/chazu/cncbox/pkg/toolpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProgram(t *testing.T) {
	motions := []toolpath.Motion{
		toolpath.RapidTravel(0, 0, 5),
		toolpath.PlungeTo(0, 0, -3),
		toolpath.LinearCut(10, 0, -3),
		toolpath.Arc(10, 10, -3, geom.Pt(10, 5), false),
		toolpath.RetractTo(10, 10, 5),
	}
	cfg := Config{FeedRate: 600, PlungeRate: 200, SafeZ: 5, Comment: "box front"}

	var sb strings.Builder
	require.NoError(t, WriteProgram(&sb, cfg, motions))

	want := strings.Join([]string{
		"(box front)",
		"G21 G90 G17",
		"G0 Z5",
		"G0 X0 Y0",
		"G1 Z-3 F200",
		"G1 X10 F600",
		"G3 X10 Y10 I0 J5",
		"G0 Z5",
		"M2",
		"",
	}, "\n")
	assert.Equal(t, want, sb.String())
}

func TestClockwiseArcIsG2(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb, DefaultConfig())
	require.NoError(t, w.Preamble())
	require.NoError(t, w.Write([]toolpath.Motion{
		toolpath.RapidTravel(5, 0, 5),
		toolpath.PlungeTo(5, 0, -1),
		toolpath.Arc(0, 5, -1, geom.Pt(0, 0), true),
	}))
	require.NoError(t, w.Flush())
	assert.Contains(t, sb.String(), "G2 X0 Y5 I-5 J0")
}

func TestFullCircleKeepsEndpoint(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb, DefaultConfig())
	require.NoError(t, w.Write([]toolpath.Motion{
		toolpath.RapidTravel(13.5, 10, 5),
		toolpath.PlungeTo(13.5, 10, -2),
		toolpath.Arc(13.5, 10, -2, geom.Pt(10, 10), false),
	}))
	require.NoError(t, w.Flush())
	assert.Contains(t, sb.String(), "G3 X13.5 Y10 I-3.5 J0")
}

func TestDepthChangesWithinACut(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb, DefaultConfig())
	require.NoError(t, w.Write([]toolpath.Motion{
		toolpath.RapidTravel(0, 0, 5),
		toolpath.PlungeTo(0, 0, -1),
		toolpath.LinearCut(4, 0, -1),
		toolpath.PlungeTo(4, 0, -2),
		toolpath.LinearCut(0, 0, -2),
	}))
	require.NoError(t, w.Flush())
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	assert.Equal(t, []string{
		"G0 Z5",
		"G0 X0 Y0",
		"G1 Z-1 F200",
		"G1 X4 F600",
		"G1 Z-2 F200",
		"G1 X0 F600",
	}, lines)
	assert.Equal(t, 6, w.Lines())
}

func TestNumberFormat(t *testing.T) {
	tests := map[float64]string{
		0:        "0",
		-0.00001: "0",
		1.5:      "1.5",
		-2.25:    "-2.25",
		1.23456:  "1.2346",
		100:      "100",
	}
	for v, want := range tests {
		assert.Equal(t, want, num(v), "num(%v)", v)
	}
}

func TestCommentSanitised(t *testing.T) {
	var sb strings.Builder
	cfg := DefaultConfig()
	cfg.Comment = "front (200x100)\nwall 6"
	w := NewWriter(&sb, cfg)
	require.NoError(t, w.Preamble())
	require.NoError(t, w.Flush())
	assert.True(t, strings.HasPrefix(sb.String(), "(front [200x100])\n(wall 6)\n"))
}

func TestInvalidConfig(t *testing.T) {
	for _, cfg := range []Config{
		{FeedRate: 0, PlungeRate: 100, SafeZ: 5},
		{FeedRate: 100, PlungeRate: -1, SafeZ: 5},
		{FeedRate: 100, PlungeRate: 100, SafeZ: 0},
	} {
		var sb strings.Builder
		assert.Error(t, WriteProgram(&sb, cfg, nil))
		assert.Empty(t, sb.String())
	}
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestWriteErrorSurfaces(t *testing.T) {
	err := WriteProgram(failingWriter{}, DefaultConfig(), []toolpath.Motion{toolpath.RapidTravel(1, 1, 5)})
	assert.ErrorIs(t, err, errDiskFull)
}

func TestEmittedToolpathRoundTrip(t *testing.T) {
	outline := geom.Rectangle{Center: geom.Pt(50, 25), Width: 100, Height: 50}.Path()
	res, err := toolpath.NewEmitter(toolpath.Config{SafeZ: 5, MaxPassDepth: 3}).Emit(toolpath.Job{
		Outline:    outline,
		ToolRadius: 1.5,
		CutDepth:   6,
	})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteProgram(&sb, DefaultConfig(), res.Motions))
	out := sb.String()
	assert.Equal(t, 2, strings.Count(out, "F200"), "one plunge feed per pass")
	assert.Equal(t, 8, strings.Count(out, "G2 ")+strings.Count(out, "G3 "), "four corners per pass")
	assert.True(t, strings.HasSuffix(out, "G0 Z5\nM2\n"))
}
