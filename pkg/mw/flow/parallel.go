package flow

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ib-77/mwutil/pkg/mw"
)

// Parallel composes fns into a middleware that starts all of them on the same
// view. done receives the first error by completion order as soon as it is
// known, or success once every element completed. Elements still running
// after a failure are not stopped; their results are discarded.
func Parallel[V any](fns ...any) (mw.Func[V], error) {
	return parallel[V](false, fns)
}

// Settle is like Parallel but always waits for every element before calling
// done, still reporting the first error by completion order.
func Settle[V any](fns ...any) (mw.Func[V], error) {
	return parallel[V](true, fns)
}

// MustParallel is like Parallel but panics on an invalid list.
func MustParallel[V any](fns ...any) mw.Func[V] {
	fn, err := Parallel[V](fns...)
	if err != nil {
		panic(err)
	}
	return fn
}

func parallel[V any](settle bool, fns []any) (mw.Func[V], error) {
	seq, err := mw.Flatten[V](fns...)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, view V, done mw.Next[V]) {
		j := &join[V]{
			pending:    len(seq),
			initiating: true,
			settle:     settle,
			view:       view,
			done:       terminal(done),
		}

		for _, fn := range seq {
			var called atomic.Bool
			next := func(err error, _ ...V) {
				if called.CompareAndSwap(false, true) {
					j.complete(err, true)
				}
			}

			if panicErr := invoke(ctx, fn, view, next); panicErr != nil {
				j.complete(panicErr, called.CompareAndSwap(false, true))
			}
		}

		j.release()
	}, nil
}

// join collects completions of parallel elements.
type join[V any] struct {
	mu         sync.Mutex
	pending    int
	initiating bool
	settle     bool
	fired      bool
	err        error
	view       V
	done       mw.Next[V]
}

// complete records one outcome. counted is false for a failure reported
// after the element already completed.
func (j *join[V]) complete(err error, counted bool) {
	j.mu.Lock()
	if counted {
		j.pending--
	}
	if err != nil && j.err == nil {
		j.err = err
	}
	fire, err := j.ready(), j.err
	j.mu.Unlock()

	if fire {
		j.done(err, j.view)
	}
}

// release ends the initiation loop; completions seen during it fire now.
func (j *join[V]) release() {
	j.mu.Lock()
	j.initiating = false
	fire, err := j.ready(), j.err
	j.mu.Unlock()

	if fire {
		j.done(err, j.view)
	}
}

// ready must be called with mu held. It marks the join fired when done is due.
func (j *join[V]) ready() bool {
	if j.fired || j.initiating {
		return false
	}
	if j.pending == 0 || (j.err != nil && !j.settle) {
		j.fired = true
		return true
	}
	return false
}
