package box

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter is wrapped by every validation failure.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrLoadFormat is wrapped when a saved box cannot be parsed or does not
	// describe a valid box.
	ErrLoadFormat = errors.New("bad box file")
	// ErrIO is wrapped when reading or writing a box file fails.
	ErrIO = errors.New("box file i/o failed")
)

// ValidationError reports which field was rejected and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidParameter }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Warning is an advisory finding that does not block a change.
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// tolerance absorbs rounding when comparing accumulated lengths.
const tolerance = 1e-9

func checkFace(f Face) error {
	if !f.Valid() {
		return invalid("face", "unknown face %d", int(f))
	}
	return nil
}

func checkClass(c CornerClass) error {
	if !c.Valid() {
		return invalid("corner class", "unknown corner class %d", int(c))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks every invariant of the model and returns the first
// violation found.
func (m *Model) Validate() error {
	checks := []func() error{
		m.validateDimensions,
		m.validateToolRadius,
		m.validateJoints,
		m.validateRelief,
		m.validateOpenings,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) validateDimensions() error {
	dims := []struct {
		name string
		v    float64
	}{
		{"height", m.height},
		{"width", m.width},
		{"depth", m.depth},
		{"wall", m.wall},
	}
	for _, d := range dims {
		if !finite(d.v) || d.v <= 0 {
			return invalid(d.name, "%g must be a positive length", d.v)
		}
	}
	limit := math.Min(m.height, math.Min(m.width, m.depth)) / 2
	if m.wall >= limit {
		return invalid("wall", "%g must be less than half the smallest dimension (%g)", m.wall, limit)
	}
	if !m.relief.valid() {
		return invalid("relief", "unknown relief mode %d", int(m.relief))
	}
	return nil
}

func (r ReliefMode) valid() bool { return r >= ReliefNone && r <= ReliefWidth }

func (m *Model) validateToolRadius() error {
	if !finite(m.toolRadius) || m.toolRadius < 0 {
		return invalid("tool radius", "%g must not be negative", m.toolRadius)
	}
	return nil
}

func (m *Model) validateJoints() error {
	for _, c := range AllCornerClasses {
		j := m.joints[c]
		if j.Type != Tabs && j.Type != Slots {
			return invalid(c.String()+" tab type", "unknown joint type %d", int(j.Type))
		}
		if j.Count < 0 {
			return invalid(c.String()+" tab count", "%d must not be negative", j.Count)
		}
		if !finite(j.Length) || j.Length <= 0 {
			return invalid(c.String()+" tab length", "%g must be a positive length", j.Length)
		}
		if j.Count == 0 {
			continue
		}
		span := m.EdgeLength(c) - 2*m.wall
		need := float64(j.Count)*j.Length + float64(j.Count+1)*MinGap
		if need > span+tolerance {
			return invalid(c.String()+" tabs", "%d tabs of length %g need %g but the edge has %g between the corners",
				j.Count, j.Length, need, span)
		}
	}
	return nil
}

// validateRelief checks that the tool fits every notch and gap, and that
// relief arcs fit within the finger depth.
func (m *Model) validateRelief() error {
	r := m.toolRadius
	if r == 0 {
		return nil
	}
	d := 2 * r
	for _, c := range AllCornerClasses {
		j := m.joints[c]
		if j.Count == 0 {
			continue
		}
		if d > j.Length+tolerance {
			return invalid("tool radius", "%g exceeds half the %s tab length %g", r, c, j.Length)
		}
		if g := m.TabGap(c); d > g+tolerance {
			return invalid("tool radius", "%g exceeds half the %s gap between tabs %g", r, c, g)
		}
		if m.relief != ReliefWidth {
			continue
		}
		// Width relief arcs bite into the sides of every finger and gap; the
		// two arcs at either side must leave a web of at least MinGap.
		if d+MinGap > j.Length+tolerance {
			return invalid("tool radius", "%g leaves less than %g between the width relief arcs of a %s tab %g long",
				r, MinGap, c, j.Length)
		}
		if g := m.TabGap(c); d+MinGap > g+tolerance {
			return invalid("tool radius", "%g leaves less than %g between the width relief arcs of a %s gap %g wide",
				r, MinGap, c, g)
		}
		depth := m.wall
		if m.classBlind(c) {
			depth = m.wall - m.Skin()
		}
		if d > depth+tolerance {
			return invalid("tool radius", "%g is too large for width relief on %s fingers %g deep", r, c, depth)
		}
	}
	if m.relief == ReliefHeight {
		return m.validateHeightReliefCorners()
	}
	return nil
}

// validateHeightReliefCorners checks the panel corners where two fingered
// edges both sit back by the wall thickness. The relief arcs beside the first
// finger of each edge must not reach each other across the corner.
func (m *Model) validateHeightReliefCorners() error {
	r := m.toolRadius
	for _, f := range AllFaces {
		edges := Edges(f)
		for i, e := range edges {
			next := edges[(i+1)%4]
			if m.joints[e.Class].Count == 0 || m.joints[next.Class].Count == 0 {
				continue
			}
			if m.Role(f, e.Class) != Tabs || m.Role(f, next.Class) != Tabs {
				continue
			}
			g1, g2 := m.TabGap(e.Class), m.TabGap(next.Class)
			if math.Hypot(g1-r, g2-r) < 2*r+tolerance {
				return invalid("tool radius", "%g: height relief arcs meet across the %s/%s corner of the %s face, widen the gaps",
					r, e.Side, next.Side, f)
			}
		}
	}
	return nil
}

func (m *Model) validateOpenings() error {
	for _, f := range AllFaces {
		area := m.UsableArea(f)
		for i, c := range m.circles[f] {
			field := fmt.Sprintf("%s circle %d", f, i+1)
			if !finite(c.Radius) || c.Radius <= 0 {
				return invalid(field, "radius %g must be positive", c.Radius)
			}
			if !area.ContainsBounds(c.Bounds(), tolerance) {
				return invalid(field, "%v lies outside the usable area of the %s face", c, f)
			}
		}
		for i, r := range m.rects[f] {
			field := fmt.Sprintf("%s rectangle %d", f, i+1)
			if !finite(r.Width) || !finite(r.Height) || r.Width <= 0 || r.Height <= 0 {
				return invalid(field, "size %gx%g must be positive", r.Width, r.Height)
			}
			if !finite(r.CornerRadius) || r.CornerRadius < 0 {
				return invalid(field, "corner radius %g must not be negative", r.CornerRadius)
			}
			if r.CornerRadius > math.Min(r.Width, r.Height)/2+tolerance {
				return invalid(field, "corner radius %g exceeds half the shorter side", r.CornerRadius)
			}
			if !area.ContainsBounds(r.Bounds(), tolerance) {
				return invalid(field, "%v lies outside the usable area of the %s face", r, f)
			}
		}
	}
	return nil
}

// Warnings reports advisory conditions: combinations that are valid but
// probably not what the designer wants.
func (m *Model) Warnings() []Warning {
	var ws []Warning
	fs := m.joints[FrontSide].Type
	ft := m.joints[FrontTop].Type
	st := m.joints[SideTop].Type
	if fs == st && ft != fs {
		ws = append(ws, Warning{
			Code: "CORNER_VOID",
			Message: fmt.Sprintf("front-side %s, front-top %s and side-top %s leave the eight corner cubes uncovered by any panel",
				fs, ft, st),
		})
	}
	for _, f := range m.blind.Faces() {
		hidden := false
		for _, e := range Edges(f) {
			if m.BlindEdge(f, e) {
				hidden = true
			}
		}
		if !hidden {
			ws = append(ws, Warning{
				Code:    "BLIND_UNUSED",
				Message: fmt.Sprintf("%s is marked blind but has no notched edges to hide", f),
			})
		}
	}
	if m.toolRadius > 0 && m.relief == ReliefNone && m.hasFingers() {
		ws = append(ws, Warning{
			Code:    "NO_RELIEF",
			Message: fmt.Sprintf("inside corners will keep the %g tool radius", m.toolRadius),
		})
	}
	return ws
}

func (m *Model) hasFingers() bool {
	for _, j := range m.joints {
		if j.Count > 0 {
			return true
		}
	}
	return false
}
