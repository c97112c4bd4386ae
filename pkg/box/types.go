package box

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ---------------------------------------------------------------------------
// Face
// ---------------------------------------------------------------------------

// Face identifies one of the six panels of the box.
type Face int

const (
	Top Face = iota
	Bottom
	Left
	Right
	Front
	Back
	numFaces
)

// AllFaces lists every face in canonical order.
var AllFaces = []Face{Top, Bottom, Left, Right, Front, Back}

var faceNames = [numFaces]string{"top", "bottom", "left", "right", "front", "back"}

// Valid reports whether f names a real face.
func (f Face) Valid() bool { return f >= Top && f < numFaces }

func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// Title returns the capitalised face name for display.
func (f Face) Title() string {
	s := f.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseFace converts a face name, in any case, to a Face.
func ParseFace(s string) (Face, error) {
	name := normalizeName(s)
	for i, n := range faceNames {
		if n == name {
			return Face(i), nil
		}
	}
	return 0, fmt.Errorf("unknown face %q, expected top, bottom, left, right, front or back", s)
}

// ---------------------------------------------------------------------------
// FaceSet
// ---------------------------------------------------------------------------

// FaceSet is a set of faces.
type FaceSet uint8

// NewFaceSet returns a set holding the given faces.
func NewFaceSet(faces ...Face) FaceSet {
	var s FaceSet
	for _, f := range faces {
		s = s.With(f)
	}
	return s
}

// Has reports whether f is in the set.
func (s FaceSet) Has(f Face) bool { return f.Valid() && s&(1<<uint(f)) != 0 }

// With returns the set with f added.
func (s FaceSet) With(f Face) FaceSet {
	if !f.Valid() {
		return s
	}
	return s | 1<<uint(f)
}

// Without returns the set with f removed.
func (s FaceSet) Without(f Face) FaceSet {
	if !f.Valid() {
		return s
	}
	return s &^ (1 << uint(f))
}

// Faces returns the members in canonical order.
func (s FaceSet) Faces() []Face {
	return lo.Filter(AllFaces, func(f Face, _ int) bool { return s.Has(f) })
}

func (s FaceSet) String() string {
	return strings.Join(lo.Map(s.Faces(), func(f Face, _ int) string { return f.String() }), ",")
}

// ParseFaceSet parses a comma-separated list of face names. An empty string
// is the empty set.
func ParseFaceSet(str string) (FaceSet, error) {
	var s FaceSet
	for _, part := range strings.Split(str, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := ParseFace(part)
		if err != nil {
			return 0, err
		}
		s = s.With(f)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// CornerClass
// ---------------------------------------------------------------------------

// CornerClass is one of the three kinds of mating edge pairs in a box.
type CornerClass int

const (
	// FrontSide joins front/back with left/right along the box height.
	FrontSide CornerClass = iota
	// FrontTop joins front/back with top/bottom along the box width.
	FrontTop
	// SideTop joins left/right with top/bottom along the box depth.
	SideTop
	numCornerClasses
)

// AllCornerClasses lists every corner class in canonical order.
var AllCornerClasses = []CornerClass{FrontSide, FrontTop, SideTop}

var cornerClassNames = [numCornerClasses]string{"frontside", "fronttop", "sidetop"}

// Valid reports whether c names a real corner class.
func (c CornerClass) Valid() bool { return c >= FrontSide && c < numCornerClasses }

func (c CornerClass) String() string {
	if !c.Valid() {
		return fmt.Sprintf("CornerClass(%d)", int(c))
	}
	return cornerClassNames[c]
}

// ParseCornerClass accepts "frontside", "front-side" or "front_side" style
// names in any case.
func ParseCornerClass(s string) (CornerClass, error) {
	name := strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalizeName(s))
	for i, n := range cornerClassNames {
		if n == name {
			return CornerClass(i), nil
		}
	}
	return 0, fmt.Errorf("unknown corner class %q, expected front-side, front-top or side-top", s)
}

// Primary returns the pair of faces that receive fingers when the class's
// joint type is Tabs.
func (c CornerClass) Primary() [2]Face {
	if c == SideTop {
		return [2]Face{Left, Right}
	}
	return [2]Face{Front, Back}
}

// Secondary returns the mating pair of faces.
func (c CornerClass) Secondary() [2]Face {
	if c == FrontSide {
		return [2]Face{Left, Right}
	}
	return [2]Face{Top, Bottom}
}

// Involves reports whether f has edges governed by c.
func (c CornerClass) Involves(f Face) bool {
	p, s := c.Primary(), c.Secondary()
	return f == p[0] || f == p[1] || f == s[0] || f == s[1]
}

// ---------------------------------------------------------------------------
// JointType
// ---------------------------------------------------------------------------

// JointType selects which side of a corner class carries protruding fingers.
// Tabs gives fingers to the class's primary faces and notches to the
// secondary faces; Slots swaps them.
type JointType int

const (
	Tabs JointType = iota
	Slots
)

func (j JointType) String() string {
	switch j {
	case Tabs:
		return "tabs"
	case Slots:
		return "slots"
	}
	return fmt.Sprintf("JointType(%d)", int(j))
}

// Opposite returns the other joint type.
func (j JointType) Opposite() JointType {
	if j == Tabs {
		return Slots
	}
	return Tabs
}

// ParseJointType converts "tabs" or "slots" to a JointType.
func ParseJointType(s string) (JointType, error) {
	switch normalizeName(s) {
	case "tabs", "tab":
		return Tabs, nil
	case "slots", "slot":
		return Slots, nil
	}
	return 0, fmt.Errorf("unknown joint type %q, expected tabs or slots", s)
}

// Joint is the finger configuration of one corner class.
type Joint struct {
	Type   JointType
	Count  int
	Length float64
}

// ---------------------------------------------------------------------------
// ReliefMode
// ---------------------------------------------------------------------------

// ReliefMode selects how inside corners are opened up for a round tool.
type ReliefMode int

const (
	// ReliefNone leaves inside corners rounded by the tool.
	ReliefNone ReliefMode = iota
	// ReliefHeight extends each inside corner perpendicular to the edge.
	ReliefHeight
	// ReliefWidth extends each inside corner along the edge.
	ReliefWidth
)

func (r ReliefMode) String() string {
	switch r {
	case ReliefNone:
		return "none"
	case ReliefHeight:
		return "height"
	case ReliefWidth:
		return "width"
	}
	return fmt.Sprintf("ReliefMode(%d)", int(r))
}

// ParseReliefMode converts "none", "height" or "width" to a ReliefMode.
func ParseReliefMode(s string) (ReliefMode, error) {
	switch normalizeName(s) {
	case "none", "":
		return ReliefNone, nil
	case "height", "hrelief":
		return ReliefHeight, nil
	case "width", "wrelief":
		return ReliefWidth, nil
	}
	return 0, fmt.Errorf("unknown relief mode %q, expected none, height or width", s)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
