package physics

import (
	"errors"
	"fmt"

	"github.com/gradeworks/feas-engine/internal/track"
	"github.com/gradeworks/feas-engine/internal/train"
)

// ErrInsufficientBraking signals that the downhill grade alone exceeds the
// train's braking capability: an unbraked runaway condition. The simulator
// converts it to an infeasibility verdict.
var ErrInsufficientBraking = errors.New("physics: insufficient braking capability")

// Braking computes achievable deceleration and stopping distances for one
// train on one profile. Pure over immutable inputs.
type Braking struct {
	cfg     train.Config
	profile *track.Profile
	nominal float64 // level-track service deceleration magnitude, m/s²
}

// NewBraking derives the nominal deceleration from cfg: a brake force is
// divided by effective mass, otherwise the configured constant deceleration
// applies. cfg must already be validated.
func NewBraking(cfg train.Config, profile *track.Profile) *Braking {
	nominal := cfg.BrakeDecel
	if cfg.BrakeForce > 0 {
		nominal = cfg.BrakeForce / cfg.EffectiveMass()
	}
	return &Braking{cfg: cfg, profile: profile, nominal: nominal}
}

// Deceleration returns the achievable deceleration magnitude at pos,
// adjusted by the current equivalent gradient: uphill assists braking,
// downhill works against it. A non-positive result means the grade defeats
// the brakes entirely and ErrInsufficientBraking is returned.
func (b *Braking) Deceleration(pos float64) (float64, error) {
	grade, err := b.profile.EquivalentGrade(pos, b.cfg.Length)
	if err != nil {
		return 0, err
	}
	eff := b.nominal + Gravity*GradeSin(grade)
	if eff <= 0 {
		return 0, fmt.Errorf("%w: grade %.2f%% at position %.1f m defeats nominal deceleration %.3f m/s²",
			ErrInsufficientBraking, grade, pos, b.nominal)
	}
	return eff, nil
}

// StoppingDistance returns the distance needed to stop from speed v at pos
// using the current gradient. Zero speed needs zero distance.
func (b *Braking) StoppingDistance(v, pos float64) (float64, error) {
	if v <= 0 {
		return 0, nil
	}
	a, err := b.Deceleration(pos)
	if err != nil {
		return 0, err
	}
	return v * v / (2 * a), nil
}
