package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the pipeline matches exactly one of
// these through errors.Is.
var (
	ErrFileFormat         = errors.New("file format error")
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	ErrEmptyInput         = errors.New("empty input")
	ErrSelection          = errors.New("selection error")
)

// ParseError reports a malformed record in a mesh file.
type ParseError struct {
	File   string
	Line   int // 1-based, 0 when the problem is not tied to a line
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrFileFormat }

// GeometryError reports input geometry that has no well defined transform.
type GeometryError struct {
	Shape  string // "element", "edge"
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("degenerate %s: %s", e.Shape, e.Reason)
}

func (e *GeometryError) Unwrap() error { return ErrDegenerateGeometry }

// NewSelectionError formats a selection failure, like a template name the
// kernel does not know or a template given to the wrong placement mode.
func NewSelectionError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSelection, fmt.Sprintf(format, args...))
}

// NewEmptyInputError reports that there is nothing to place.
func NewEmptyInputError(what string) error {
	return fmt.Errorf("%w: no %s to place", ErrEmptyInput, what)
}
