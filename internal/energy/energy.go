// Package energy estimates traction energy consumption and CO2 emissions
// for a completed feasibility run, by power type.
package energy

import (
	"strings"

	"github.com/gradeworks/feas-engine/internal/engine"
)

// PowerType selects the drivetrain efficiency and emission factors.
type PowerType string

const (
	Diesel   PowerType = "diesel"
	Electric PowerType = "electric"
	Hybrid   PowerType = "hybrid"
)

// Estimate is the energy/emissions summary of one run.
type Estimate struct {
	EnergyKWh float64 `json:"energy_consumed_kwh"`
	CO2Kg     float64 `json:"co2_emitted_kg"`
}

// Drivetrain efficiency by power type; unknown types fall back to 0.5.
func efficiency(p PowerType) float64 {
	switch PowerType(strings.ToLower(string(p))) {
	case Diesel:
		return 0.38
	case Electric:
		return 0.85
	case Hybrid:
		return 0.60
	default:
		return 0.5
	}
}

// Emission factor in kg CO2 per kWh at the drawbar.
func emissionFactor(p PowerType) float64 {
	switch PowerType(strings.ToLower(string(p))) {
	case Diesel:
		return 0.65
	case Electric:
		return 0.25
	case Hybrid:
		return 0.45
	default:
		return 0.5
	}
}

// Regenerative braking recovery as a share of consumed energy.
func regenFactor(p PowerType) float64 {
	switch PowerType(strings.ToLower(string(p))) {
	case Electric:
		return 0.20
	case Hybrid:
		return 0.10
	default:
		return 0
	}
}

// ForTrajectory integrates traction power over the trajectory and applies
// the drivetrain efficiency, emission, and regeneration factors for the
// power type. An empty trajectory yields a zero estimate.
func ForTrajectory(traj []engine.TrajectoryPoint, power PowerType) Estimate {
	eff := efficiency(power)

	var totalKWh float64
	for i := 1; i < len(traj); i++ {
		dt := traj[i].Time - traj[i-1].Time
		if dt <= 0 {
			continue
		}
		// Power at the rail = applied effort * speed; divide by efficiency to
		// get energy drawn from the supply. W*s -> kWh.
		watts := traj[i].TractiveEffort * traj[i].Speed
		totalKWh += watts * dt / 3.6e6 / eff
	}

	co2 := totalKWh * emissionFactor(power)
	if regen := regenFactor(power); regen > 0 {
		recovered := totalKWh * regen
		totalKWh -= recovered
		co2 -= recovered * emissionFactor(power)
	}
	return Estimate{EnergyKWh: totalKWh, CO2Kg: co2}
}
