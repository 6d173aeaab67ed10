// Package physics implements the force models the feasibility engine
// evaluates along the track: gravitational grade force, Röckl curve
// resistance, Davis rolling resistance, tractive effort, and braking.
//
// Sign convention: forces are in newtons and positive values oppose forward
// motion. A downhill grade therefore yields a negative grade force (it
// assists the train); curve resistance is never negative.
package physics

import (
	"math"

	"github.com/gradeworks/feas-engine/internal/track"
)

// Gravity is the gravitational acceleration used throughout, m/s².
const Gravity = 9.81

// GradeSin converts a grade in percent to the sine of the track angle.
func GradeSin(gradePercent float64) float64 {
	return math.Sin(math.Atan(gradePercent / 100))
}

// GradeForce returns the gravitational force component along the track for a
// train of the given mass on the given grade. Positive uphill.
func GradeForce(mass, gradePercent float64) float64 {
	return mass * Gravity * GradeSin(gradePercent)
}

// GradeForceAt returns the grade force at the train's position, using the
// equivalent grade averaged over the train's extent.
func GradeForceAt(p *track.Profile, pos, mass, trainLength float64) (float64, error) {
	grade, err := p.EquivalentGrade(pos, trainLength)
	if err != nil {
		return 0, err
	}
	return GradeForce(mass, grade), nil
}

// Röckl curve resistance coefficients. Below the tight-radius threshold the
// steeper empirical fit applies.
const (
	rocklTightRadius = 300.0
	rocklTightCoef   = 4.91
	rocklTightOffset = 30.0
	rocklWideCoef    = 6.3
	rocklWideOffset  = 55.0
)

// CurveResistance returns the additional resistance from curvature for a
// train of the given mass on a curve of the given radius (metres). Zero
// radius means straight track and contributes nothing.
func CurveResistance(mass, radius float64) float64 {
	if radius == 0 || math.IsInf(radius, 1) {
		return 0
	}
	if radius < rocklTightRadius {
		return rocklTightCoef / (radius - rocklTightOffset) * mass
	}
	return rocklWideCoef / (radius - rocklWideOffset) * mass
}

// CurveResistanceAt returns the curve resistance at the train's position,
// length-averaged over the train's extent so a train straddling a curve
// entry feels a proportional share.
func CurveResistanceAt(p *track.Profile, pos, mass, trainLength float64) (float64, error) {
	if trainLength <= 0 {
		r, err := p.RadiusAt(pos)
		if err != nil {
			return 0, err
		}
		return CurveResistance(mass, r), nil
	}
	ovs, err := p.Overlaps(pos-trainLength, pos)
	if err != nil {
		return 0, err
	}
	var sum, span float64
	for _, ov := range ovs {
		sum += CurveResistance(mass, ov.Segment.Radius) * ov.Length
		span += ov.Length
	}
	if span == 0 {
		r, err := p.RadiusAt(pos)
		if err != nil {
			return 0, err
		}
		return CurveResistance(mass, r), nil
	}
	return sum / span, nil
}
