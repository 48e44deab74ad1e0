package flow

import (
	"context"
	"sync"

	"github.com/ib-77/mwutil/pkg/mw"
)

// Series composes fns into a middleware that runs them strictly in order.
// Each element receives the view produced by the previous one; the first
// error stops the sequence and is passed to done with the view at that point.
func Series[V any](fns ...any) (mw.Func[V], error) {
	seq, err := mw.Flatten[V](fns...)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, view V, done mw.Next[V]) {
		s := &series[V]{fns: seq, done: terminal(done)}
		s.run(ctx, 0, view)
	}, nil
}

// MustSeries is like Series but panics on an invalid list.
func MustSeries[V any](fns ...any) mw.Func[V] {
	fn, err := Series[V](fns...)
	if err != nil {
		panic(err)
	}
	return fn
}

type series[V any] struct {
	fns  []mw.Func[V]
	done mw.Next[V]
}

// step is the completion state of one element.
type step[V any] struct {
	mu       sync.Mutex
	called   bool
	returned bool
	err      error
	view     V
	hasView  bool
}

// settle records the element's outcome; it reports whether the caller now
// owns advancing the sequence.
func (st *step[V]) settle(err error, view []V) (async bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.called {
		return false
	}
	st.called = true
	st.err = err
	if len(view) > 0 {
		st.view, st.hasView = view[0], true
	}
	return st.returned
}

// leave marks the invocation as returned. A panic fails the element unless
// it already failed. Returns true when the element completed synchronously.
func (st *step[V]) leave(panicErr error) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.returned = true
	if panicErr != nil {
		if !st.called {
			st.called = true
			st.err = panicErr
		} else if st.err == nil {
			st.err = panicErr
		}
	}
	return st.called
}

// run trampolines over synchronously completing elements and hands off to
// the continuation when an element completes later.
func (s *series[V]) run(ctx context.Context, i int, acc V) {
	for ; i < len(s.fns); i++ {
		st := &step[V]{}
		at, in := i, acc

		next := func(err error, view ...V) {
			if st.settle(err, view) {
				if out, ok := s.advance(in, st); ok {
					s.run(ctx, at+1, out)
				}
			}
		}

		if !st.leave(invoke(ctx, s.fns[i], acc, next)) {
			return
		}

		var ok bool
		if acc, ok = s.advance(acc, st); !ok {
			return
		}
	}

	s.done(nil, acc)
}

func (s *series[V]) advance(acc V, st *step[V]) (V, bool) {
	if st.err != nil {
		s.done(st.err, acc)
		return acc, false
	}
	if st.hasView {
		return st.view, true
	}
	return acc, true
}
