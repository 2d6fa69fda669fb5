package render

import (
	"errors"
	"fmt"
)

// Error captures the dialect and generated source alongside a compile error.
type Error struct {
	Dialect Dialect
	Source  string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source == "" {
		return fmt.Sprintf("render: %s source=<empty>: %v", e.Dialect, e.Err)
	}
	return fmt.Sprintf("render: %s source=%q: %v", e.Dialect, e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapError(d Dialect, source string, err error) error {
	if err == nil {
		return nil
	}
	var renderErr *Error
	if errors.As(err, &renderErr) {
		if renderErr.Dialect == "" {
			renderErr.Dialect = d
		}
		if renderErr.Source == "" {
			renderErr.Source = source
		}
		return renderErr
	}
	return &Error{Dialect: d, Source: source, Err: err}
}
