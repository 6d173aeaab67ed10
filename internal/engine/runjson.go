package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gradeworks/feas-engine/internal/track"
)

// RunJSON is the shared entry point for the CLI and WASM targets. It accepts
// a JSON-encoded Input, runs the evaluation, and returns a JSON-encoded
// Output.
func RunJSON(jsonInput string) (string, error) {
	var input Input
	if err := json.Unmarshal([]byte(jsonInput), &input); err != nil {
		return "", fmt.Errorf("invalid input JSON: %w", err)
	}

	profile, err := track.NewProfile(input.Track)
	if err != nil {
		return "", err
	}

	sim, err := New(input.Train, profile, Options{
		TimeStep: input.Meta.TimeStep,
		MaxSteps: input.Meta.MaxSteps,
	})
	if err != nil {
		return "", err
	}

	result, err := sim.Run(context.Background())
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(Output{Meta: input.Meta, Result: result})
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
