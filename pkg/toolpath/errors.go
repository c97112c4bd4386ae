package toolpath

import (
	"errors"
	"fmt"
)

// ErrToolTooLargeForOpening is wrapped by every ToolTooLargeError.
var ErrToolTooLargeForOpening = errors.New("tool too large for opening")

// ToolTooLargeError reports an opening the tool cannot fit inside. The
// opening is skipped; the rest of the toolpath is still emitted.
type ToolTooLargeError struct {
	Kind       string // "circle", "rectangle" or "pocket"
	Index      int    // position in the face's list of that kind
	Size       float64
	ToolRadius float64
}

func (e *ToolTooLargeError) Error() string {
	what := "half-width"
	if e.Kind == "circle" {
		what = "radius"
	}
	return fmt.Sprintf("%s %d: %s %g is smaller than the tool radius %g", e.Kind, e.Index+1, what, e.Size, e.ToolRadius)
}

func (e *ToolTooLargeError) Unwrap() error { return ErrToolTooLargeForOpening }
