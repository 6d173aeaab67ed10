// Package block checks fixed-block separation rules: which blocks a train
// occupies and whether its current stopping distance fits inside its
// movement authority.
//
// The authority model is one clear block: a train whose front is in block k
// holds authority to the far end of block k+1. Clearance fails when the
// stopping distance, computed from current speed and current gradient,
// exceeds the remaining authority distance. That is a feasibility result,
// not a collision or an error.
package block

import (
	"math"

	"github.com/gradeworks/feas-engine/internal/physics"
	"github.com/gradeworks/feas-engine/internal/track"
)

// Clearance is the outcome of one occupancy check.
type Clearance struct {
	Clear            bool
	OccupiedFrom     int     // block index under the train's rear
	OccupiedTo       int     // block index under the train's front
	NextBoundary     float64 // first boundary ahead of the front; +Inf when none
	Authority        float64 // movement authority limit; +Inf when unbounded
	StoppingDistance float64 // metres, at current speed and gradient
}

// CheckClearance evaluates the block rules for a train with its front at pos
// moving at speed. trainLength extends the occupied range rearward.
func CheckClearance(p *track.Profile, brk *physics.Braking, pos, speed, trainLength float64) (Clearance, error) {
	front, err := p.BlockIndexAt(pos)
	if err != nil {
		return Clearance{}, err
	}
	rear := front
	if rearPos := pos - trainLength; rearPos > 0 {
		if rear, err = p.BlockIndexAt(rearPos); err != nil {
			return Clearance{}, err
		}
	} else {
		rear = 0
	}

	sd, err := brk.StoppingDistance(speed, pos)
	if err != nil {
		return Clearance{}, err
	}

	cl := Clearance{
		Clear:            true,
		OccupiedFrom:     rear,
		OccupiedTo:       front,
		NextBoundary:     math.Inf(1),
		Authority:        math.Inf(1),
		StoppingDistance: sd,
	}

	bounds := p.Boundaries()
	if front < len(bounds) {
		cl.NextBoundary = bounds[front]
	}
	// Authority ends where the clear block ahead ends; past the last boundary
	// the authority is unbounded and the check always passes.
	if front+1 < len(bounds) {
		cl.Authority = bounds[front+1]
		cl.Clear = sd <= cl.Authority-pos
	}
	return cl, nil
}
