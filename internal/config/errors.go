package config

import "fmt"

// ParseError reports a pipeline file that could not be read or decoded.
// Line is zero when the decoder did not report one.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("pipeline %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("pipeline %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError names the first config field that broke a rule.
type ValidationError struct {
	Field  string
	Rule   string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid pipeline: " + e.Reason
	}
	return fmt.Sprintf("invalid pipeline: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
