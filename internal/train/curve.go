package train

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// EffortCurve is an interpolated tractive-effort curve over ordered
// (speed, force) samples. Lookups outside the sampled speed range clamp to
// the nearest boundary and report that they did so; clamping is a defined
// part of the contract, not an error.
type EffortCurve struct {
	minSpeed float64
	maxSpeed float64
	pl       interp.PiecewiseLinear
}

// NewEffortCurve builds an EffortCurve from points. At least two samples are
// required, speeds must be strictly increasing and forces non-negative.
func NewEffortCurve(points []CurvePoint) (*EffortCurve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 curve points, got %d", len(points))
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, pt := range points {
		if math.IsNaN(pt.Speed) || math.IsInf(pt.Speed, 0) || pt.Speed < 0 {
			return nil, fmt.Errorf("point %d: speed %g must be finite and non-negative", i, pt.Speed)
		}
		if math.IsNaN(pt.Force) || math.IsInf(pt.Force, 0) || pt.Force < 0 {
			return nil, fmt.Errorf("point %d: force %g must be finite and non-negative", i, pt.Force)
		}
		if i > 0 && pt.Speed <= points[i-1].Speed {
			return nil, fmt.Errorf("point %d: speed %g not strictly increasing", i, pt.Speed)
		}
		xs[i] = pt.Speed
		ys[i] = pt.Force
	}

	c := &EffortCurve{minSpeed: xs[0], maxSpeed: xs[len(xs)-1]}
	if err := c.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting effort curve: %w", err)
	}
	return c, nil
}

// At returns the available tractive effort at speed v in newtons. Speeds
// outside the sampled range clamp to the boundary; clamped reports whether
// that happened.
func (c *EffortCurve) At(v float64) (force float64, clamped bool) {
	if v < c.minSpeed {
		return c.pl.Predict(c.minSpeed), true
	}
	if v > c.maxSpeed {
		return c.pl.Predict(c.maxSpeed), true
	}
	return c.pl.Predict(v), false
}

// SpeedRange returns the sampled speed range [min, max] of the curve.
func (c *EffortCurve) SpeedRange() (min, max float64) { return c.minSpeed, c.maxSpeed }
