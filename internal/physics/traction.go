package physics

import (
	"math"

	"github.com/gradeworks/feas-engine/internal/track"
	"github.com/gradeworks/feas-engine/internal/train"
)

// Traction computes available tractive effort and net accelerating force for
// one train on one profile. It is a pure lookup over immutable inputs and is
// safe to share between runs.
type Traction struct {
	cfg     train.Config
	curve   *train.EffortCurve
	profile *track.Profile
}

// NewTraction builds the effort curve and binds it to a profile. cfg must
// already be validated.
func NewTraction(cfg train.Config, profile *track.Profile) (*Traction, error) {
	curve, err := train.NewEffortCurve(cfg.TractiveEffort)
	if err != nil {
		return nil, err
	}
	return &Traction{cfg: cfg, curve: curve, profile: profile}, nil
}

// Available returns the usable tractive effort at speed v: the effort-curve
// value capped by the adhesion limit. clamped reports an out-of-range curve
// lookup.
func (t *Traction) Available(v float64) (force float64, clamped bool) {
	te, clamped := t.curve.At(v)
	adhesion := t.cfg.AdhesionCoef() * t.cfg.Mass * Gravity
	return math.Min(te, adhesion), clamped
}

// NetForce returns the net accelerating force at speed v and position pos:
// available traction minus grade, curve, and Davis resistances. A negative
// result means the train cannot hold this speed here; that is a valid
// answer, not an error. clamped reports an out-of-range effort-curve lookup.
func (t *Traction) NetForce(v, pos float64) (net float64, clamped bool, err error) {
	te, clamped := t.Available(v)
	res, err := t.Resistance(v, pos)
	if err != nil {
		return 0, clamped, err
	}
	return te - res, clamped, nil
}

// Resistance returns the total resistive force at speed v and position pos:
// grade + curve + Davis baseline. May be negative on downhill grades.
func (t *Traction) Resistance(v, pos float64) (float64, error) {
	grade, err := GradeForceAt(t.profile, pos, t.cfg.Mass, t.cfg.Length)
	if err != nil {
		return 0, err
	}
	curve, err := CurveResistanceAt(t.profile, pos, t.cfg.Mass, t.cfg.Length)
	if err != nil {
		return 0, err
	}
	return grade + curve + t.cfg.DavisResistance(v), nil
}
