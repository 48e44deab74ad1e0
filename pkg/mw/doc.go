// Package mw contains the shared vocabulary for middleware pipelines: the
// middleware and continuation function types, the Result[V] produced by a
// finished pipeline, and the errors raised while normalizing a middleware list
// or while running one.
//
// Highlights:
// - Func/Next: middleware and continuation shapes
// - Flatten: normalize a function, a slice or nested slices into one sequence
// - Result: Success/Fail/Cancel outcome of a whole pipeline run
// - TaggedError/PanicError: error values carried through continuations
//
// Combinators live in package flow, error tagging in package tag.
package mw
