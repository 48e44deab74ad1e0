package flow

import (
	"context"

	"github.com/ib-77/mwutil/pkg/mw"
)

// invoke calls fn and turns a panic into an error.
func invoke[V any](ctx context.Context, fn mw.Func[V], view V, next mw.Next[V]) (panicErr error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr = mw.NewPanicError(r)
		}
	}()

	fn(ctx, view, next)
	return nil
}

func terminal[V any](done mw.Next[V]) mw.Next[V] {
	if done == nil {
		return func(error, ...V) {}
	}
	return done
}
