package boxfile

import (
	"fmt"

	"github.com/chazu/cncbox/pkg/box"
)

// FormatError reports a box file that could not be parsed, or whose contents
// fail validation. It matches box.ErrLoadFormat and the underlying cause.
type FormatError struct {
	Path string
	Key  string
	Err  error
}

func (e *FormatError) Error() string {
	where := e.Path
	if where == "" {
		where = "box file"
	}
	if e.Key != "" {
		return fmt.Sprintf("%s: key %q: %v", where, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *FormatError) Unwrap() []error { return []error{box.ErrLoadFormat, e.Err} }

// IOError reports a failed read or write. It matches box.ErrIO and the
// underlying cause.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{box.ErrIO, e.Err} }
