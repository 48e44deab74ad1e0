// Package runner turns a pipeline config into a middleware pipeline and runs
// it over many documents.
package runner

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ib-77/mwutil/internal/config"
	"github.com/ib-77/mwutil/internal/document"
	"github.com/ib-77/mwutil/internal/logger"
	"github.com/ib-77/mwutil/internal/stages"
	"github.com/ib-77/mwutil/pkg/mw"
	"github.com/ib-77/mwutil/pkg/mw/flow"
	"github.com/ib-77/mwutil/pkg/mw/tag"
)

type Doc = *document.Document

// pipelineStage tags failures that no stage claimed.
const pipelineStage = "pipeline"

// Outcome is what happened to one input path. Result is nil when the
// pipeline never ran. Skipped outcomes have no Document: either the document
// was never started or its pipeline was abandoned while still running.
type Outcome struct {
	Path     string
	Document Doc
	Result   mw.WithCancel[Doc]
	Err      error
	Skipped  bool
}

type Runner struct {
	pipeline mw.Func[Doc]
	log      *logger.Logger
}

// Build resolves every stage of cfg in reg. Single stages and members of
// groups are tagged with their own name; groups run through flow.Series,
// flow.Parallel or flow.Settle.
func Build(cfg *config.Config, reg *stages.Registry, log *logger.Logger) (*Runner, error) {
	elements := make([]any, 0, len(cfg.Stages))

	for i, spec := range cfg.Stages {
		members := make([]mw.Func[Doc], 0, len(spec.Names()))
		for _, name := range spec.Names() {
			fn, err := reg.Lookup(name)
			if err != nil {
				return nil, fmt.Errorf("stage %d: %w", i, err)
			}
			members = append(members, tag.Must[Doc](name).Wrap(fn))
		}

		var (
			group mw.Func[Doc]
			err   error
		)
		switch {
		case spec.Use != "":
			group = members[0]
		case len(spec.Series) > 0:
			group, err = flow.Series[Doc](members)
		case spec.Settle:
			group, err = flow.Settle[Doc](members)
		default:
			group, err = flow.Parallel[Doc](members)
		}
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, spec.Label(), err)
		}
		elements = append(elements, group)
	}

	pipeline, err := flow.Series[Doc](elements...)
	if err != nil {
		return nil, err
	}
	return New(pipeline, log), nil
}

// New wraps an already composed pipeline.
func New(pipeline mw.Func[Doc], log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{pipeline: pipeline, log: log}
}

// Process runs the pipeline over every path as ScheduleFrom(ctx) allows.
// Outcomes keep the order of paths. The returned error joins every failure,
// and ctx.Err() when ctx ended before all documents finished.
func (r *Runner) Process(ctx context.Context, paths []string) ([]Outcome, error) {
	sched := ScheduleFrom(ctx)

	outcomes := make([]Outcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sched.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{Path: path, Err: err, Skipped: true}
				return nil
			}

			outcomes[i] = r.processOne(gctx, path)
			if outcomes[i].Err != nil && !outcomes[i].Skipped && sched.FailFast {
				return outcomes[i].Err
			}
			return nil
		})
	}
	_ = g.Wait() // failures are kept per outcome

	var errs []error
	for _, o := range outcomes {
		if o.Err != nil && !o.Skipped {
			errs = append(errs, fmt.Errorf("%s: %w", o.Path, o.Err))
		}
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return outcomes, errors.Join(errs...)
}

func (r *Runner) processOne(ctx context.Context, path string) Outcome {
	log := r.log.Document(path)

	doc, err := document.Load(path)
	if err != nil {
		log.Error(err, "cannot load document")
		return Outcome{Path: path, Err: err}
	}

	res := flow.Run(ctx, r.pipeline, doc)
	switch {
	case res.IsSuccess():
		log.Debug("pipeline finished", "count", doc.Count)
		return Outcome{Path: path, Document: doc, Result: res}
	case res.IsCancel():
		// stages may still be writing to doc
		log.Warn("pipeline abandoned", "reason", res.Err().Error())
		return Outcome{Path: path, Result: res, Err: res.Err(), Skipped: true}
	}

	report, err := tag.HandleError[Doc](doc, pipelineStage, nil,
		tag.OnUnhandled(tag.Log[Doc](log.Zerolog())))
	if err != nil {
		return Outcome{Path: path, Document: doc, Result: res, Err: errors.Join(res.Err(), err)}
	}
	report(res.Err())

	return Outcome{Path: path, Document: doc, Result: res, Err: res.Err()}
}
