//go:build js && wasm

// Command wasm exposes the feasibility engine to the browser via
// WebAssembly. After loading, it registers a global JavaScript function:
//
//	runFeasibility(jsonString) -> jsonString
//
// The input and output are JSON-encoded engine.Input and engine.Output
// respectively, matching the contract used by the CLI.
package main

import (
	"syscall/js"

	"github.com/gradeworks/feas-engine/internal/engine"
)

func main() {
	js.Global().Set("runFeasibility", js.FuncOf(runFeasibility))
	select {} // keep the WASM module alive until the page is closed
}

func runFeasibility(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
