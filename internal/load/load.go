// Package load computes the maximum trailing load a train configuration can
// haul over a profile: the tonnage bound set by low-speed tractive effort
// against the ruling grade, with a rough line-energy estimate.
package load

import (
	"fmt"
	"math"

	"github.com/gradeworks/feas-engine/internal/physics"
	"github.com/gradeworks/feas-engine/internal/track"
	"github.com/gradeworks/feas-engine/internal/train"
)

// rollingCoef is the basic rolling-resistance allowance (N per N of weight)
// used for the tonnage bound.
const rollingCoef = 0.005

// haulEfficiency is the assumed drivetrain efficiency for the energy figure.
const haulEfficiency = 0.85

// Load is the trailing-load summary for one (train, track) pair.
type Load struct {
	MaxTonnage    float64 `json:"max_tonnage"`     // tonnes of trailing load
	RulingGrade   float64 `json:"ruling_grade"`    // percent; steepest uphill grade
	EnergyKWh     float64 `json:"energy_estimate"` // kWh to haul that load over the profile
	EffortAtCrawl float64 `json:"effort_at_crawl"` // N; usable effort at minimum curve speed
}

// MaxTrailingLoad returns the heaviest trailing load cfg can start and haul
// up the profile's ruling grade. cfg must validate.
func MaxTrailingLoad(p *track.Profile, cfg train.Config) (Load, error) {
	if err := cfg.Validate(); err != nil {
		return Load{}, err
	}
	curve, err := train.NewEffortCurve(cfg.TractiveEffort)
	if err != nil {
		return Load{}, fmt.Errorf("%w: tractive_effort: %v", train.ErrInvalidConfig, err)
	}

	ruling := 0.0
	for _, s := range p.Segments() {
		if s.Grade > ruling {
			ruling = s.Grade
		}
	}

	// Usable effort at crawl speed, held to the adhesion ceiling.
	minSpeed, _ := curve.SpeedRange()
	effort, _ := curve.At(minSpeed)
	effort = math.Min(effort, cfg.AdhesionCoef()*cfg.Mass*physics.Gravity)

	// Total mass the effort can move against grade plus rolling allowance,
	// less the train's own mass.
	perKg := physics.Gravity * (math.Abs(physics.GradeSin(ruling)) + rollingCoef)
	totalKg := effort / perKg
	trailingKg := math.Max(0, totalKg-cfg.Mass)

	// Energy over the whole profile: climb plus rolling losses at that mass.
	var climb float64
	for _, s := range p.Segments() {
		climb += s.Length * physics.GradeSin(s.Grade)
	}
	grossKg := cfg.Mass + trailingKg
	joules := grossKg*physics.Gravity*math.Max(0, climb) +
		grossKg*physics.Gravity*rollingCoef*p.TotalLength()

	return Load{
		MaxTonnage:    trailingKg / 1000,
		RulingGrade:   ruling,
		EnergyKWh:     joules / 3.6e6 / haulEfficiency,
		EffortAtCrawl: effort,
	}, nil
}
