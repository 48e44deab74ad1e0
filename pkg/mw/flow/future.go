package flow

import (
	"context"
	"sync"

	"github.com/ib-77/mwutil/pkg/mw"
)

// Start invokes fn on view and returns a channel that receives exactly one
// Result and is then closed. fn may complete before Start returns.
func Start[V any](ctx context.Context, fn mw.Func[V], view V) <-chan mw.Result[V] {
	out := make(chan mw.Result[V], 1)
	var once sync.Once

	deliver := func(err error, views ...V) {
		once.Do(func() {
			final := view
			if len(views) > 0 {
				final = views[0]
			}
			out <- mw.From(err, final)
			close(out)
		})
	}

	if panicErr := invoke(ctx, fn, view, deliver); panicErr != nil {
		deliver(panicErr)
	}
	return out
}

// Run starts fn and waits for its Result. When ctx ends first the result is
// a cancel carrying ctx.Err(); fn itself keeps running.
func Run[V any](ctx context.Context, fn mw.Func[V], view V) mw.Result[V] {
	return FirstOrCancel(ctx, Start(ctx, fn, view))
}

// FirstOrCancel waits for the first result on out or for ctx to end.
func FirstOrCancel[V any](ctx context.Context, out <-chan mw.Result[V]) mw.Result[V] {
	select {
	case r, ok := <-out:
		if !ok {
			return mw.Cancel[V](context.Canceled)
		}
		return r
	case <-ctx.Done():
		return mw.Cancel[V](ctx.Err())
	}
}
