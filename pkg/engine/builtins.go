package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/geom"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms box script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: tool-radius -> tool_radius
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toInt extracts a whole number from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected whole number, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected whole number, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toFace converts a keyword or string to a box.Face.
func toFace(s zygo.Sexp) (box.Face, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected face keyword: %w", err)
	}
	return box.ParseFace(name)
}

// ---------------------------------------------------------------------------
// Keyword binding
// ---------------------------------------------------------------------------

// binder applies keyword arguments to Go values, remembering the first
// failure. Keywords the builtin does not know are reported too, so a typo
// does not silently fall back to a default.
type binder struct {
	fn   string
	pa   kwArgs
	used map[string]bool
	err  error
}

func bind(fn string, args []zygo.Sexp) *binder {
	return &binder{fn: fn, pa: parseArgs(args), used: make(map[string]bool)}
}

func (b *binder) get(key string, apply func(zygo.Sexp) error) {
	b.used[key] = true
	v, ok := b.pa.kw[key]
	if !ok || b.err != nil {
		return
	}
	if err := apply(v); err != nil {
		b.err = fmt.Errorf("%s: %s: %w", b.fn, key, err)
	}
}

func (b *binder) float(key string, dst *float64) {
	b.get(key, func(s zygo.Sexp) error {
		v, err := toFloat64(s)
		*dst = v
		return err
	})
}

func (b *binder) has(key string) bool {
	_, ok := b.pa.kw[key]
	return ok
}

// done reports the first failure, an unknown keyword, or a stray
// positional argument.
func (b *binder) done() error {
	if b.err != nil {
		return b.err
	}
	for k := range b.pa.kw {
		if !b.used[k] {
			return fmt.Errorf("%s: unknown keyword :%s", b.fn, k)
		}
	}
	if len(b.pa.positional) > 0 {
		return fmt.Errorf("%s: unexpected argument %s", b.fn, b.pa.positional[0].SexpString(nil))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the box script builtins into a zygomys
// environment. Each builtin changes m through its validated setters, so a
// rejected value stops evaluation with the validation message.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, m *box.Model) {

	// -----------------------------------------------------------------------
	// (box :height 100 :width 200 :depth 200 :wall 6 :relief :width
	//      :tool-radius 1.5)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		b := bind("box", args)
		p := m.Params()
		b.float("height", &p.Height)
		b.float("width", &p.Width)
		b.float("depth", &p.Depth)
		b.float("wall", &p.Wall)
		b.float("tool-radius", &p.ToolRadius)
		b.get("relief", func(s zygo.Sexp) error {
			str, err := toKeywordString(s)
			if err != nil {
				return err
			}
			p.Relief, err = box.ParseReliefMode(str)
			return err
		})
		if err := b.done(); err != nil {
			return zygo.SexpNull, err
		}
		// All fields at once, so a thinner wall and a smaller box can be
		// given together in any order.
		if err := m.SetParams(p); err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (joint :class :front-side :type :slots :count 3 :length 12)
	// -----------------------------------------------------------------------
	env.AddFunction("joint", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		b := bind("joint", args)
		if !b.has("class") {
			return zygo.SexpNull, fmt.Errorf("joint requires :class (:front-side, :front-top or :side-top)")
		}
		var class box.CornerClass
		b.get("class", func(s zygo.Sexp) error {
			str, err := toKeywordString(s)
			if err != nil {
				return err
			}
			class, err = box.ParseCornerClass(str)
			return err
		})
		if b.err != nil {
			return zygo.SexpNull, b.err
		}

		j := m.Joint(class)
		b.get("type", func(s zygo.Sexp) error {
			str, err := toKeywordString(s)
			if err != nil {
				return err
			}
			j.Type, err = box.ParseJointType(str)
			return err
		})
		b.get("count", func(s zygo.Sexp) error {
			n, err := toInt(s)
			j.Count = n
			return err
		})
		b.float("length", &j.Length)
		if err := b.done(); err != nil {
			return zygo.SexpNull, err
		}
		if err := m.SetJoint(class, j); err != nil {
			return zygo.SexpNull, fmt.Errorf("joint: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (blind :faces [:top :front])
	// -----------------------------------------------------------------------
	env.AddFunction("blind", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		b := bind("blind", args)
		var set box.FaceSet
		b.get("faces", func(s zygo.Sexp) error {
			items, err := sexpListToSlice(s)
			if err != nil {
				return err
			}
			for _, item := range items {
				f, err := toFace(item)
				if err != nil {
					return err
				}
				set = set.With(f)
			}
			return nil
		})
		if err := b.done(); err != nil {
			return zygo.SexpNull, err
		}
		if err := m.SetBlindTabs(set); err != nil {
			return zygo.SexpNull, fmt.Errorf("blind: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (circle :face :top :x 50 :y 50 :r 10)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		b := bind("circle", args)
		face, err := requireFace(b)
		if err != nil {
			return zygo.SexpNull, err
		}
		var c geom.Circle
		b.float("x", &c.Center.X)
		b.float("y", &c.Center.Y)
		b.float("r", &c.Radius)
		if err := b.done(); err != nil {
			return zygo.SexpNull, err
		}
		if err := m.SetCircles(face, append(m.Circles(face), c)); err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (rect :face :front :x 100 :y 50 :width 40 :height 20 :corner 3)
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		b := bind("rect", args)
		face, err := requireFace(b)
		if err != nil {
			return zygo.SexpNull, err
		}
		var r geom.Rectangle
		b.float("x", &r.Center.X)
		b.float("y", &r.Center.Y)
		b.float("width", &r.Width)
		b.float("height", &r.Height)
		b.float("corner", &r.CornerRadius)
		if err := b.done(); err != nil {
			return zygo.SexpNull, err
		}
		if err := m.SetRectangles(face, append(m.Rectangles(face), r)); err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		return zygo.SexpNull, nil
	})
}

func requireFace(b *binder) (box.Face, error) {
	if !b.has("face") {
		return 0, fmt.Errorf("%s requires :face", b.fn)
	}
	var f box.Face
	b.get("face", func(s zygo.Sexp) error {
		var err error
		f, err = toFace(s)
		return err
	})
	return f, b.err
}
