package runner

import "context"

const DefaultWorkers = 4

type scheduleKey struct{}

// Schedule controls how Process spreads documents over workers.
type Schedule struct {
	// Workers is the number of documents in flight. Values below one keep
	// DefaultWorkers.
	Workers int
	// FailFast skips documents that have not started once one failed, and
	// abandons documents still running.
	FailFast bool
}

// WithSchedule returns a copy of ctx carrying s.
func WithSchedule(ctx context.Context, s Schedule) context.Context {
	return context.WithValue(ctx, scheduleKey{}, s)
}

// ScheduleFrom returns the Schedule in ctx with defaults filled in.
func ScheduleFrom(ctx context.Context) Schedule {
	s, _ := ctx.Value(scheduleKey{}).(Schedule)
	if s.Workers < 1 {
		s.Workers = DefaultWorkers
	}
	return s
}
