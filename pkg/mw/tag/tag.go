package tag

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ib-77/mwutil/pkg/mw"
)

var ErrEmptyStage = errors.New("tag: stage name must not be empty")

type Tagger[V any] struct {
	stage     string
	unhandled Unhandled
}

func New[V any](stage string, opts ...Option) (*Tagger[V], error) {
	if stage == "" {
		return nil, ErrEmptyStage
	}

	o := options{unhandled: Rethrow}
	for _, opt := range opts {
		opt(&o)
	}

	return &Tagger[V]{stage: stage, unhandled: o.unhandled}, nil
}

func Must[V any](stage string, opts ...Option) *Tagger[V] {
	t, err := New[V](stage, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tagger[V]) Stage() string {
	return t.stage
}

// Tag forwards err to next annotated with the stage and view. Without an
// error it continues with view. An error already carrying a stage is
// forwarded as is.
func (t *Tagger[V]) Tag(err error, view V, next mw.Next[V]) {
	if err == nil {
		if next != nil {
			next(nil, view)
		}
		return
	}

	tagged := t.annotate(err, view)
	if next == nil {
		t.unhandled(tagged)
		return
	}
	next(tagged)
}

// Wrap returns fn with its errors tagged before they reach the continuation.
// A panic raised before fn called next is tagged as a *mw.PanicError; a panic
// after that is left to the caller.
func (t *Tagger[V]) Wrap(fn mw.Func[V]) mw.Func[V] {
	return func(ctx context.Context, view V, next mw.Next[V]) {
		var called atomic.Bool

		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if !called.CompareAndSwap(false, true) {
				panic(r)
			}
			t.Tag(mw.NewPanicError(r), view, next)
		}()

		fn(ctx, view, func(err error, views ...V) {
			if !called.CompareAndSwap(false, true) {
				return
			}
			if err != nil {
				t.Tag(err, view, next)
				return
			}
			if next != nil {
				next(nil, views...)
			}
		})
	}
}

func (t *Tagger[V]) annotate(err error, view V) error {
	var already mw.Tagged
	if errors.As(err, &already) {
		return err
	}
	return &mw.TaggedError[V]{Stage: t.stage, View: view, Err: err}
}

// HandleError adapts a Tagger for stage to a callback that only receives an
// error; view and next are passed through to Tag.
func HandleError[V any](view V, stage string, next mw.Next[V], opts ...Option) (func(err error), error) {
	t, err := New[V](stage, opts...)
	if err != nil {
		return nil, err
	}

	return func(err error) {
		t.Tag(err, view, next)
	}, nil
}
