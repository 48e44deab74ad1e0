package mw

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
)

var (
	ErrNilMiddleware = errors.New("middleware is nil")
	ErrNotMiddleware = errors.New("value is not a middleware")
)

// TaggedError is a pipeline error annotated with the stage it happened in and
// the view that stage was working on.
type TaggedError[V any] struct {
	Stage string
	View  V
	Err   error
}

func (e *TaggedError[V]) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s middleware error: %v", e.Stage, e.Err)
}

func (e *TaggedError[V]) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *TaggedError[V]) StageName() string {
	return e.Stage
}

// StageOf returns the stage of the first tagged error in err's chain.
func StageOf(err error) (string, bool) {
	var t Tagged
	if errors.As(err, &t) {
		return t.StageName(), true
	}
	return "", false
}

// PanicError is what a middleware failure looks like when the middleware
// panicked instead of calling its continuation.
type PanicError struct {
	Value any
	Stack []byte
}

func NewPanicError(value any) *PanicError {
	return &PanicError{Value: value, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("middleware panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ListError points at the element of a middleware list that could not be used.
// Path holds one index per nesting level.
type ListError struct {
	Path []int
	Err  error
}

func (e *ListError) Error() string {
	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		parts[i] = strconv.Itoa(p)
	}
	return fmt.Sprintf("middleware list [%s]: %v", strings.Join(parts, "]["), e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}
