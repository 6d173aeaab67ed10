package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gradeworks/feas-engine/internal/engine"
	"github.com/gradeworks/feas-engine/internal/track"
)

func newRunCmd(logLevel *string) *cobra.Command {
	var (
		timeStep float64
		maxSteps int
	)

	cmd := &cobra.Command{
		Use:   "run [scenario-file]",
		Short: "Evaluate one scenario and print the result JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(*logLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			var input engine.Input
			if err := decodeFile(args, &input); err != nil {
				return err
			}
			if timeStep > 0 {
				input.Meta.TimeStep = timeStep
			}
			if maxSteps > 0 {
				input.Meta.MaxSteps = maxSteps
			}

			profile, err := track.NewProfile(input.Track)
			if err != nil {
				return err
			}
			sim, err := engine.New(input.Train, profile, engine.Options{
				TimeStep: input.Meta.TimeStep,
				MaxSteps: input.Meta.MaxSteps,
				Logger:   log,
			})
			if err != nil {
				return err
			}
			result, err := sim.Run(context.Background())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), engine.Output{Meta: input.Meta, Result: result})
		},
	}
	cmd.Flags().Float64Var(&timeStep, "time-step", 0, "integration step in seconds (overrides scenario meta)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step budget (overrides scenario meta)")
	return cmd
}

// decodeFile reads the first argument (or stdin) and decodes JSON or, for
// .yaml/.yml files, YAML into v.
func decodeFile(args []string, v any) error {
	var (
		data []byte
		name string
		err  error
	)
	if len(args) > 0 {
		name = args[0]
		data, err = os.ReadFile(name)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("invalid input YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("invalid input JSON: %w", err)
		}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
