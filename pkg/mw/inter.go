package mw

import (
	"context"
	"time"
)

// Next is the continuation a middleware calls exactly once to report completion.
// The optional view is the result slot; only the first one is used.
type Next[V any] func(err error, view ...V)

// Func is a middleware: it works on the view and eventually calls next.
// next may be called before or after Func returns, from any goroutine.
type Func[V any] func(ctx context.Context, view V, next Next[V])

type ViewProvider[V any] interface {
	// View returns the view the pipeline finished with
	View() V
	// CreatedAt time creation (UTC)
	CreatedAt() time.Time
}

// WithError defines an interface for outcomes that carry a view and maybe an error
type WithError[V any] interface {
	ViewProvider[V]
	// Err returns the error if the pipeline failed
	Err() error
	// IsSuccess returns true if the pipeline finished without error
	IsSuccess() bool
}

// WithCancel extends WithError with cancellation support
type WithCancel[V any] interface {
	WithError[V]
	// IsCancel returns true if waiting for the pipeline was cancelled
	IsCancel() bool
}

// Tagged is implemented by errors that already carry the stage they failed in.
type Tagged interface {
	error
	StageName() string
}
