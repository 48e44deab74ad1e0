package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ib-77/mwutil/internal/config"
	"github.com/ib-77/mwutil/internal/logger"
	"github.com/ib-77/mwutil/internal/runner"
	"github.com/ib-77/mwutil/internal/stages"
)

var errDocumentsFailed = errors.New("some documents failed")

type runFlags struct {
	configPath  string
	concurrency int
	failFast    bool
}

func newRunCmd(root *rootFlags, registry *stages.Registry) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Run the pipeline over every file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), root, flags, registry, args)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "pipeline.yaml", "Pipeline configuration file")
	cmd.Flags().IntVarP(&flags.concurrency, "concurrency", "j", 0, "Documents processed at once (overrides config)")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "Skip queued documents after the first failure")

	return cmd
}

func runPipeline(ctx context.Context, out, errOut io.Writer, root *rootFlags, flags *runFlags,
	registry *stages.Registry, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if root.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, Human: cfg.Log.Human, Out: errOut})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	r, err := runner.Build(cfg, registry, log)
	if err != nil {
		return err
	}

	workers := cfg.Concurrency
	if flags.concurrency > 0 {
		workers = flags.concurrency
	}
	ctx = runner.WithSchedule(ctx, runner.Schedule{Workers: workers, FailFast: flags.failFast})

	outcomes, procErr := r.Process(ctx, paths)

	failed := 0
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			fmt.Fprintf(out, "%s\tskipped\n", o.Path)
		case o.Err != nil:
			failed++
			fmt.Fprintf(out, "%s\tfailed\t%v\n", o.Path, o.Err)
		default:
			fmt.Fprintf(out, "%s\tok\tcount=%d\tdata=%s\n",
				o.Path, o.Document.Count, strings.Join(o.Document.Keys(), ","))
		}
	}

	log.Info("run complete", "documents", len(outcomes), "failed", failed)

	if procErr != nil {
		return fmt.Errorf("%w: %d of %d", errDocumentsFailed, failed, len(outcomes))
	}
	return nil
}
