// Package tag annotates middleware errors with the stage they happened in and
// the view being processed, then forwards them through a continuation.
//
// A Tagger is built for one stage name. Its Tag method is the error handler a
// host plugs after a middleware; HandleError adapts it for hosts that only
// hand over a bare error. When no continuation is given the Tagger applies its
// unhandled policy, which panics with the tagged error unless configured
// otherwise with OnUnhandled.
package tag
