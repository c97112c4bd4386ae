package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/cncbox/pkg/box"
)

// EvalTimeout bounds a single evaluation when the caller's context has no
// earlier deadline.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past its deadline.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to an evaluation that finished after a newer
	// one was started on the same engine.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	model  *box.Model
	errors []EvalError
	err    error
}

// await returns the result from ch unless ctx ends first. A result whose
// generation is no longer the engine's latest is discarded. The evaluating
// goroutine may outlive a timeout; its result is then dropped.
func (e *Engine) await(ctx context.Context, ch <-chan evalResult, gen uint64) (*box.Model, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, EvalTimeout)
	defer cancel()

	select {
	case res := <-ch:
		if !e.latest(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.model, res.errors, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		return nil, nil, ctx.Err()
	}
}

func (e *Engine) latest(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}
