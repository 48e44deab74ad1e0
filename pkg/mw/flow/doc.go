// Package flow composes middleware into a single middleware.
//
// Highlights:
// - Series: run middleware one after another, threading the view
// - Parallel: start every middleware on the same view, report the first error
// - Settle: like Parallel but waits for every middleware before reporting
// - Start/Run: turn one pipeline invocation into a mw.Result delivered once
//
// Combinators accept a single middleware, slices of middleware or nested
// slices, normalized once by mw.Flatten. A panic inside a middleware is
// recovered and reported as that middleware's error (*mw.PanicError). The
// terminal continuation is called exactly once. Combinators never spawn
// goroutines, never cancel a started middleware and never log.
package flow
