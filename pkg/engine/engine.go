// Package engine evaluates box scripts: small Lisp programs that describe a
// box through the same validated setters the parameter form uses. It wraps
// zygomys in a sandboxed environment.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/logging"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code, or a rejected box
// parameter.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalResult bundles the full output of an evaluation for use by UI bindings.
type EvalResult struct {
	Model    *box.Model
	Errors   []EvalError
	Warnings []box.Warning
}

// Engine wraps the zygomys interpreter for box scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh box for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs a box script against a new default box and returns the
// resulting model.
//
// Return semantics:
//   - On success: returns model + nil errors + nil error
//   - On parse/eval failure: returns nil model + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*box.Model, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate bounded by ctx as well as EvalTimeout.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*box.Model, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		m, evalErrs, err := e.evaluate(source)
		ch <- evalResult{model: m, errors: evalErrs, err: err}
	}()

	return e.await(ctx, ch, gen)
}

// EvaluateResult is Evaluate packaged for UI bindings, with the advisory
// warnings of the resulting box.
func (e *Engine) EvaluateResult(ctx context.Context, source string) (EvalResult, error) {
	m, evalErrs, err := e.EvaluateContext(ctx, source)
	if err != nil {
		return EvalResult{}, err
	}
	res := EvalResult{Model: m, Errors: evalErrs}
	if m != nil {
		res.Warnings = m.Warnings()
	}
	return res, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*box.Model, []EvalError, error) {
	m := box.New()

	// Empty source is a valid program that describes the default box.
	if strings.TrimSpace(source) == "" {
		return m, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, m)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		evalErrs := parseZygomysError(err)
		logging.Logger().Debug("engine: parse failed", "err", err)
		return nil, evalErrs, nil
	}

	_, err = env.Run()
	if err != nil {
		evalErrs := parseZygomysError(err)
		logging.Logger().Debug("engine: evaluation failed", "err", err)
		return nil, evalErrs, nil
	}

	return m, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
