package tag

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/ib-77/mwutil/pkg/mw"
)

// Unhandled receives a tagged error nobody continued with.
type Unhandled func(err error)

// Rethrow panics with the error. It is the default policy.
func Rethrow(err error) {
	panic(err)
}

// Swallow drops the error.
func Swallow(error) {}

// Log writes the error, its stage and the view to logger and drops it.
func Log[V any](logger zerolog.Logger) Unhandled {
	return func(err error) {
		event := logger.Error().Err(err)

		var tagged *mw.TaggedError[V]
		if errors.As(err, &tagged) {
			event = event.Str("stage", tagged.Stage).Interface("view", tagged.View)
		}
		event.Msg("middleware error")
	}
}

type options struct {
	unhandled Unhandled
}

type Option func(*options)

// OnUnhandled sets the policy used when Tag is called without a continuation.
// A nil handler keeps the default.
func OnUnhandled(h Unhandled) Option {
	return func(o *options) {
		if h != nil {
			o.unhandled = h
		}
	}
}
