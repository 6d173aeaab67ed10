package engine

import (
	"go.uber.org/zap"

	"github.com/gradeworks/feas-engine/internal/track"
	"github.com/gradeworks/feas-engine/internal/train"
)

// Reason classifies the outcome of a feasibility run.
type Reason string

const (
	ReasonOK                   Reason = "OK"
	ReasonInsufficientTraction Reason = "INSUFFICIENT_TRACTION"
	ReasonInsufficientBraking  Reason = "INSUFFICIENT_BRAKING"
	ReasonBlockOccupancy       Reason = "BLOCK_OCCUPANCY_VIOLATION"
	ReasonSpeedLimit           Reason = "SPEED_LIMIT_EXCEEDED"
	ReasonStallTimeout         Reason = "STALL_TIMEOUT"
)

// TrajectoryPoint is a per-step snapshot of the run.
type TrajectoryPoint struct {
	Position       float64 `json:"position"`        // metres
	Speed          float64 `json:"speed"`           // m/s
	Acceleration   float64 `json:"acceleration"`    // m/s²
	NetForce       float64 `json:"net_force"`       // N
	TractiveEffort float64 `json:"tractive_effort"` // N applied this step
	Time           float64 `json:"time"`            // seconds
}

// State is the mutable simulation state. One authoritative instance lives
// inside each Simulator; it is never shared across runs.
type State struct {
	Position   float64 // metres
	Speed      float64 // m/s
	Elapsed    float64 // seconds
	Energy     float64 // joules of traction work
	BlockIndex int
}

// Result is the outcome of one feasibility run. Immutable once returned.
type Result struct {
	Feasible      bool              `json:"feasible"`
	Reason        Reason            `json:"reason"`
	Trajectory    []TrajectoryPoint `json:"trajectory"`
	Warnings      []string          `json:"warnings,omitempty"`
	Steps         int               `json:"steps"`
	Elapsed       float64           `json:"elapsed"`        // seconds
	Energy        float64           `json:"energy"`         // joules
	FinalPosition float64           `json:"final_position"` // metres
	FinalSpeed    float64           `json:"final_speed"`    // m/s
}

// Options tune the integration. Zero values take the defaults below.
type Options struct {
	TimeStep float64 // seconds per step (default 0.5)
	// MaxSteps bounds the run so a gradual stall cannot loop forever; hitting
	// it yields a STALL_TIMEOUT verdict. Also serves as a caller-supplied
	// step budget.
	MaxSteps int // default 200000
	// SpeedEpsilon is the threshold below which the train counts as stopped
	// for the insufficient-traction check.
	SpeedEpsilon float64 // m/s (default 0.01)
	// LimitTolerance is how far over an effective speed limit the train may
	// be before the run is infeasible.
	LimitTolerance float64 // m/s (default 0.5)
	Logger         *zap.Logger
}

const (
	defaultTimeStep       = 0.5
	defaultMaxSteps       = 200000
	defaultSpeedEpsilon   = 0.01
	defaultLimitTolerance = 0.5
)

func (o Options) withDefaults() Options {
	if o.TimeStep <= 0 {
		o.TimeStep = defaultTimeStep
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = defaultMaxSteps
	}
	if o.SpeedEpsilon <= 0 {
		o.SpeedEpsilon = defaultSpeedEpsilon
	}
	if o.LimitTolerance <= 0 {
		o.LimitTolerance = defaultLimitTolerance
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Meta carries scenario identity and stepping parameters in the JSON
// contract.
type Meta struct {
	ScenarioID string  `json:"scenario_id,omitempty" yaml:"scenario_id,omitempty"`
	TimeStep   float64 `json:"time_step,omitempty" yaml:"time_step,omitempty"` // seconds
	MaxSteps   int     `json:"max_steps,omitempty" yaml:"max_steps,omitempty"`
}

// Input is the serialisable input to the engine, shared by the CLI and WASM
// targets. The CLI also accepts it as YAML.
type Input struct {
	Meta  Meta            `json:"meta" yaml:"meta"`
	Train train.Config    `json:"train" yaml:"train"`
	Track []track.Segment `json:"track" yaml:"track"`
}

// Output is the JSON-serialisable result of a run.
type Output struct {
	Meta   Meta   `json:"meta"`
	Result Result `json:"result"`
}
