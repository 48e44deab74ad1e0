package mw

import (
	"time"

	"github.com/google/uuid"
)

// Result is the single outcome of one pipeline run. Failures keep the view as
// it was when the error surfaced.
type Result[V any] struct {
	id        uuid.UUID
	createdAt time.Time
	view      V
	err       error
	isSuccess bool
	isCancel  bool
}

func Success[V any](view V) Result[V] {
	return Result[V]{
		view:      view,
		isSuccess: true,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

func Fail[V any](err error, view V) Result[V] {
	return Result[V]{
		view:      view,
		err:       err,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

// Cancel reports that nobody waited for the outcome, the view is unknown.
func Cancel[V any](err error) Result[V] {
	return Result[V]{
		err:       err,
		isCancel:  true,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

// From builds a Result from a continuation call.
func From[V any](err error, view V) Result[V] {
	if err != nil {
		return Fail(err, view)
	}
	return Success(view)
}

var _ WithCancel[struct{}] = Result[struct{}]{}

func (r Result[V]) View() V {
	return r.view
}

func (r Result[V]) Err() error {
	return r.err
}

func (r Result[V]) IsSuccess() bool {
	return r.isSuccess
}

func (r Result[V]) IsFailure() bool {
	return !r.isSuccess && !r.isCancel && r.err != nil
}

func (r Result[V]) IsCancel() bool {
	return r.isCancel
}

func (r Result[V]) CreatedAt() time.Time {
	return r.createdAt
}

func (r Result[V]) IsEmpty() bool {
	return r.err == nil && !r.isCancel && !r.isSuccess
}

func (r Result[V]) Id() uuid.UUID {
	return r.id
}

// Finally collapses the result into a concrete value.
func Finally[V, Out any](r Result[V],
	onSuccess func(view V) Out,
	onError func(err error, view V) Out,
	onCancel func(err error) Out) Out {
	if r.IsSuccess() {
		return onSuccess(r.view)
	} else if r.IsCancel() {
		return onCancel(r.err)
	}
	return onError(r.err, r.view)
}
