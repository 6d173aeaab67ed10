package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gradeworks/feas-engine/internal/engine"
	"github.com/gradeworks/feas-engine/internal/sweep"
)

// sweepInput is the on-disk shape of a batch file.
type sweepInput struct {
	Meta  engine.Meta  `json:"meta" yaml:"meta"`
	Cases []sweep.Case `json:"cases" yaml:"cases"`
}

// sweepRow is one case's result in the printed output.
type sweepRow struct {
	Name   string         `json:"name"`
	Error  string         `json:"error,omitempty"`
	Result *engine.Result `json:"result,omitempty"`
}

func newSweepCmd(logLevel *string) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "sweep [batch-file]",
		Short: "Evaluate a batch of scenarios in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(*logLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			var input sweepInput
			if err := decodeFile(args, &input); err != nil {
				return err
			}

			outcomes, err := sweep.Run(context.Background(), input.Cases, engine.Options{
				TimeStep: input.Meta.TimeStep,
				MaxSteps: input.Meta.MaxSteps,
				Logger:   log,
			}, workers)
			if err != nil {
				return err
			}

			rows := make([]sweepRow, len(outcomes))
			for i, o := range outcomes {
				rows[i] = sweepRow{Name: o.Name}
				if o.Err != nil {
					rows[i].Error = o.Err.Error()
					continue
				}
				r := o.Result
				rows[i].Result = &r
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "max concurrent evaluations (0 = GOMAXPROCS)")
	return cmd
}
