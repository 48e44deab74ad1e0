package mw

import "context"

// Try lifts a synchronous function that only reports an error.
func Try[V any](fn func(ctx context.Context, view V) error) Func[V] {
	return func(ctx context.Context, view V, next Next[V]) {
		next(fn(ctx, view))
	}
}

// Map lifts a synchronous function returning the next view.
// On error the view is not replaced.
func Map[V any](fn func(ctx context.Context, view V) (V, error)) Func[V] {
	return func(ctx context.Context, view V, next Next[V]) {
		out, err := fn(ctx, view)
		if err != nil {
			next(err)
			return
		}
		next(nil, out)
	}
}

// Tee runs a side effect and always succeeds.
func Tee[V any](fn func(ctx context.Context, view V)) Func[V] {
	return func(ctx context.Context, view V, next Next[V]) {
		fn(ctx, view)
		next(nil)
	}
}
