package anim

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrUnsupportedVersion = errors.New("unsupported pma version")

// PreconditionError means dependency of conversion is not ready
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "Precondition failed: " + e.Reason
}

type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("Cannot %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError wraps ErrUnsupportedVersion or utils.ErrOutOfBounds
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("Invalid animation file: %v", e.Err)
	}
	return fmt.Sprintf("Invalid animation file %q: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ReferenceError is returned when bone channel points outside of skeleton
type ReferenceError struct {
	File  string
	Index int
	Count int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: Bone index outside bones array! [%d/%d]", e.File, e.Index, e.Count)
}
