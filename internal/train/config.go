// Package train defines the mechanical parameters of a train under
// evaluation: mass and inertia, the tractive-effort curve, braking
// capability, and rolling-resistance coefficients.
package train

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned (wrapped with detail) when a configuration
// fails validation.
var ErrInvalidConfig = errors.New("train: invalid config")

// DefaultAdhesion is the wheel/rail adhesion coefficient assumed when the
// config does not provide one. Typical dry-rail values run 0.2-0.3.
const DefaultAdhesion = 0.25

// CurvePoint is one sample of the tractive-effort curve.
type CurvePoint struct {
	Speed float64 `json:"speed" yaml:"speed"` // m/s
	Force float64 `json:"force" yaml:"force"` // N
}

// Config holds the static parameters of a train. It is immutable once a
// simulation run begins; the engine copies what it needs at construction.
type Config struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Mass float64 `json:"mass" yaml:"mass"` // kg
	// MassFactor is the rotating-mass factor applied to Mass when computing
	// inertia. Zero means 1.0 (no rotational allowance).
	MassFactor float64 `json:"mass_factor,omitempty" yaml:"mass_factor,omitempty"`
	Length     float64 `json:"length" yaml:"length"`           // metres
	MaxSpeed   float64 `json:"max_speed" yaml:"max_speed"`     // m/s
	StartSpeed float64 `json:"start_speed" yaml:"start_speed"` // m/s

	// TractiveEffort is the effort-speed curve as ordered samples with
	// strictly increasing speeds. At least two samples are required.
	TractiveEffort []CurvePoint `json:"tractive_effort" yaml:"tractive_effort"`

	// BrakeForce is the service brake force magnitude in newtons. When set it
	// takes precedence over BrakeDecel and the achievable deceleration scales
	// with effective mass.
	BrakeForce float64 `json:"brake_force,omitempty" yaml:"brake_force,omitempty"`
	// BrakeDecel is a constant service braking deceleration magnitude, m/s².
	BrakeDecel float64 `json:"brake_decel,omitempty" yaml:"brake_decel,omitempty"`

	// Davis rolling/air resistance coefficients: R(v) = A + B*v + C*v² [N].
	DavisA float64 `json:"davis_a,omitempty" yaml:"davis_a,omitempty"`
	DavisB float64 `json:"davis_b,omitempty" yaml:"davis_b,omitempty"`
	DavisC float64 `json:"davis_c,omitempty" yaml:"davis_c,omitempty"`

	// Adhesion is the wheel/rail adhesion coefficient capping usable tractive
	// effort. Zero means DefaultAdhesion.
	Adhesion float64 `json:"adhesion,omitempty" yaml:"adhesion,omitempty"`
}

// Validate checks every numeric field for finiteness and physical sense.
// All failures wrap ErrInvalidConfig.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"mass": c.Mass, "mass_factor": c.MassFactor, "length": c.Length,
		"max_speed": c.MaxSpeed, "start_speed": c.StartSpeed,
		"brake_force": c.BrakeForce, "brake_decel": c.BrakeDecel,
		"davis_a": c.DavisA, "davis_b": c.DavisB, "davis_c": c.DavisC,
		"adhesion": c.Adhesion,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, name)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s %g must be non-negative", ErrInvalidConfig, name, v)
		}
	}
	if c.Mass <= 0 {
		return fmt.Errorf("%w: mass %g must be positive", ErrInvalidConfig, c.Mass)
	}
	if c.MassFactor != 0 && c.MassFactor < 1 {
		return fmt.Errorf("%w: mass_factor %g must be at least 1", ErrInvalidConfig, c.MassFactor)
	}
	if c.Length <= 0 {
		return fmt.Errorf("%w: length %g must be positive", ErrInvalidConfig, c.Length)
	}
	if c.MaxSpeed <= 0 {
		return fmt.Errorf("%w: max_speed %g must be positive", ErrInvalidConfig, c.MaxSpeed)
	}
	if c.StartSpeed > c.MaxSpeed {
		return fmt.Errorf("%w: start_speed %g exceeds max_speed %g", ErrInvalidConfig, c.StartSpeed, c.MaxSpeed)
	}
	if c.BrakeForce == 0 && c.BrakeDecel == 0 {
		return fmt.Errorf("%w: one of brake_force or brake_decel is required", ErrInvalidConfig)
	}
	if c.Adhesion > 1 {
		return fmt.Errorf("%w: adhesion %g must not exceed 1", ErrInvalidConfig, c.Adhesion)
	}
	if _, err := NewEffortCurve(c.TractiveEffort); err != nil {
		return fmt.Errorf("%w: tractive_effort: %v", ErrInvalidConfig, err)
	}
	return nil
}

// EffectiveMass returns the inertial mass in kg, including the rotating-mass
// allowance.
func (c Config) EffectiveMass() float64 {
	f := c.MassFactor
	if f == 0 {
		f = 1
	}
	return c.Mass * f
}

// AdhesionCoef returns the adhesion coefficient, applying the default when
// the config leaves it unset.
func (c Config) AdhesionCoef() float64 {
	if c.Adhesion == 0 {
		return DefaultAdhesion
	}
	return c.Adhesion
}

// DavisResistance returns the baseline rolling/air resistance at speed v in
// newtons.
func (c Config) DavisResistance(v float64) float64 {
	return c.DavisA + c.DavisB*v + c.DavisC*v*v
}
