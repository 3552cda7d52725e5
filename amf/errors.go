package amf

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed matches every error caused by the document content
	ErrMalformed = errors.New("amf: malformed document")
	// ErrIndexOutOfRange is returned when a triangle references a missing vertex.
	// It also matches ErrMalformed.
	ErrIndexOutOfRange = errors.New("vertex index out of range")
	// ErrCanceled matches a load stopped by its context. It never matches ErrMalformed.
	ErrCanceled = errors.New("amf: load canceled")
)

// SyntaxError describes where in the document decoding failed
type SyntaxError struct {
	Path   []string
	Offset int64
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("amf: /%s (offset %d): %v", strings.Join(e.Path, "/"), e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformed
}

type canceledError struct {
	err error
}

func (e *canceledError) Error() string {
	return fmt.Sprintf("%v: %v", ErrCanceled, e.err)
}

// Unwrap exposes the context error
func (e *canceledError) Unwrap() error {
	return e.err
}

func (e *canceledError) Is(target error) bool {
	return target == ErrCanceled
}
