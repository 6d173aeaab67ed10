// Package engine steps a train configuration along a gradient/curve track
// profile and decides whether the traversal is feasible.
//
// The simulation advances in fixed timesteps. Each step has two passes:
//
//  1. Safety pass - the run checks that the train could still stop: braking
//     capability on the current gradient, and block clearance against the
//     stopping distance.
//
//  2. Motion pass - the driver model picks traction or braking (braking
//     ahead of lower speed limits when the braking distance demands it),
//     then speed and position integrate one step forward.
//
// Physical infeasibility is a result, never an error: the run terminates
// with a reason code. Errors from Run indicate invalid input or an internal
// defect such as an out-of-bounds model query.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/gradeworks/feas-engine/internal/block"
	"github.com/gradeworks/feas-engine/internal/physics"
	"github.com/gradeworks/feas-engine/internal/track"
	"github.com/gradeworks/feas-engine/internal/train"
)

// Simulator owns all mutable state of one feasibility evaluation. It is not
// safe for concurrent use; run independent Simulators for parallel sweeps.
type Simulator struct {
	cfg      train.Config
	profile  *track.Profile
	traction *physics.Traction
	braking  *physics.Braking
	opts     Options
	log      *zap.Logger

	state       State
	trajectory  []TrajectoryPoint
	warnings    []string
	clampWarned bool
}

// New validates cfg against the profile and prepares a Simulator. The
// profile must come from track.NewProfile; cfg validation failures wrap
// train.ErrInvalidConfig.
func New(cfg train.Config, profile *track.Profile, opts Options) (*Simulator, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: nil profile", track.ErrInvalidProfile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	traction, err := physics.NewTraction(cfg, profile)
	if err != nil {
		return nil, fmt.Errorf("%w: tractive_effort: %v", train.ErrInvalidConfig, err)
	}
	opts = opts.withDefaults()
	return &Simulator{
		cfg:      cfg,
		profile:  profile,
		traction: traction,
		braking:  physics.NewBraking(cfg, profile),
		opts:     opts,
		log:      opts.Logger,
	}, nil
}

// State returns a copy of the current simulation state.
func (s *Simulator) State() State { return s.state }

// Run executes the full evaluation and returns the verdict with the
// trajectory. Run resets state first, so repeated calls on the same inputs
// produce identical results. ctx cancels the run cooperatively between
// steps.
func (s *Simulator) Run(ctx context.Context) (Result, error) {
	s.state = State{Speed: s.cfg.StartSpeed}
	s.trajectory = []TrajectoryPoint{{Speed: s.cfg.StartSpeed}}
	s.warnings = nil
	s.clampWarned = false

	total := s.profile.TotalLength()
	dt := s.opts.TimeStep
	effMass := s.cfg.EffectiveMass()

	s.log.Debug("run starting",
		zap.Float64("track_length", total),
		zap.Float64("start_speed", s.cfg.StartSpeed),
		zap.Float64("time_step", dt),
	)

	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("at t=%.2f: %w", s.state.Elapsed, err)
		}
		if s.state.Position >= total {
			return s.finish(ReasonOK, step), nil
		}
		if step >= s.opts.MaxSteps {
			return s.finish(ReasonStallTimeout, step), nil
		}

		pos, v := s.state.Position, s.state.Speed

		limit, err := s.effectiveLimit(pos)
		if err != nil {
			return Result{}, s.internalErr(err)
		}
		if v > limit+s.opts.LimitTolerance {
			return s.finish(ReasonSpeedLimit, step), nil
		}

		// Safety pass: braking capability and block clearance at the current
		// speed and current gradient, never cached.
		dec, err := s.braking.Deceleration(pos)
		if errors.Is(err, physics.ErrInsufficientBraking) {
			s.log.Debug("braking defeated by grade", zap.Float64("position", pos), zap.Error(err))
			return s.finish(ReasonInsufficientBraking, step), nil
		}
		if err != nil {
			return Result{}, s.internalErr(err)
		}

		cl, err := block.CheckClearance(s.profile, s.braking, pos, v, s.cfg.Length)
		if err != nil {
			return Result{}, s.internalErr(err)
		}
		if !cl.Clear {
			s.log.Debug("block clearance failed",
				zap.Float64("position", pos),
				zap.Float64("stopping_distance", cl.StoppingDistance),
				zap.Float64("authority", cl.Authority),
			)
			return s.finish(ReasonBlockOccupancy, step), nil
		}
		s.state.BlockIndex = cl.OccupiedTo

		// Motion pass.
		available, clamped := s.traction.Available(v)
		resistance, err := s.traction.Resistance(v, pos)
		if err != nil {
			return Result{}, s.internalErr(err)
		}
		netForce := available - resistance
		if clamped && !s.clampWarned {
			s.clampWarned = true
			w := fmt.Sprintf("tractive-effort lookup clamped to curve boundary at %.2f m/s", v)
			s.warnings = append(s.warnings, w)
			s.log.Warn("effort curve clamped", zap.Float64("speed", v))
		}

		if netForce <= 0 && v <= s.opts.SpeedEpsilon && pos > 0 {
			return s.finish(ReasonInsufficientTraction, step), nil
		}

		// Supervised speed ceiling: the in-force limit, lowered ahead of any
		// upcoming restriction by the braking curve into it.
		allowed := s.permittedSpeed(pos, v, limit, dec)

		var vNew float64
		brakeNow := v > allowed
		if brakeNow {
			// Brake down toward the supervision curve; settle on it mid-step
			// rather than undershooting.
			vNew = math.Max(v-dec*dt, allowed)
		} else {
			vNew = v + netForce/effMass*dt
			if vNew > allowed {
				vNew = allowed
			}
		}
		if vNew < 0 {
			vNew = 0
		}

		avg := (v + vNew) / 2
		s.state.Position += avg * dt
		s.state.Elapsed += dt

		accel := (vNew - v) / dt
		applied := 0.0
		if !brakeNow {
			// What the drivetrain actually exerted after clamping: full effort
			// while accelerating, just enough to hold speed while cruising.
			applied = math.Min(available, effMass*accel+resistance)
			if applied < 0 {
				applied = 0
			}
		}
		s.state.Energy += applied * avg * dt
		s.state.Speed = vNew

		s.trajectory = append(s.trajectory, TrajectoryPoint{
			Position:       s.state.Position,
			Speed:          vNew,
			Acceleration:   accel,
			NetForce:       netForce,
			TractiveEffort: applied,
			Time:           s.state.Elapsed,
		})
	}
}

// effectiveLimit is the lower of the train's maximum operating speed and the
// line restriction at pos.
func (s *Simulator) effectiveLimit(pos float64) (float64, error) {
	segLimit, err := s.profile.SpeedLimitAt(pos)
	if err != nil {
		return 0, err
	}
	limit := s.cfg.MaxSpeed
	if segLimit > 0 && segLimit < limit {
		limit = segLimit
	}
	return limit, nil
}

// permittedSpeed returns the highest speed the driver may hold at pos: the
// limit in force, lowered ahead of each upcoming restriction by the braking
// curve that reaches the restriction at its limit with deceleration dec.
// One step of travel is held back as margin so the discrete integration
// cannot land past a restriction still above its limit.
func (s *Simulator) permittedSpeed(pos, v, limit, dec float64) float64 {
	allowed := limit
	margin := v * s.opts.TimeStep
	for _, r := range s.profile.RestrictionsAhead(pos) {
		if r.Limit >= allowed {
			continue
		}
		remaining := math.Max(0, r.Start-pos-margin)
		curve := math.Sqrt(r.Limit*r.Limit + 2*dec*remaining)
		if curve < allowed {
			allowed = curve
		}
	}
	return allowed
}

func (s *Simulator) finish(reason Reason, steps int) Result {
	res := Result{
		Feasible:      reason == ReasonOK,
		Reason:        reason,
		Trajectory:    s.trajectory,
		Warnings:      s.warnings,
		Steps:         steps,
		Elapsed:       s.state.Elapsed,
		Energy:        s.state.Energy,
		FinalPosition: s.state.Position,
		FinalSpeed:    s.state.Speed,
	}
	s.log.Info("run finished",
		zap.String("reason", string(reason)),
		zap.Int("steps", steps),
		zap.Float64("final_position", res.FinalPosition),
		zap.Float64("final_speed", res.FinalSpeed),
	)
	return res
}

// internalErr wraps model-query failures that indicate a defect in the
// stepping logic, never a property of the scenario.
func (s *Simulator) internalErr(err error) error {
	return fmt.Errorf("internal: at t=%.2f position=%.2f: %w", s.state.Elapsed, s.state.Position, err)
}
