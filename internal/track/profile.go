// Package track defines the gradient/curve track profile the feasibility
// engine runs over: an ordered list of contiguous segments, each carrying a
// grade, a curve radius, an optional speed limit, and block boundary markers.
package track

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProfile is returned (wrapped with detail) when a profile breaks
// the segment invariants: contiguous, non-overlapping, covering
// [0, totalLength) with strictly increasing start positions.
var ErrInvalidProfile = errors.New("track: invalid profile")

// ErrOutOfBounds is returned when a position outside [0, totalLength) is
// queried. The engine never queries outside the track, so callers should
// treat this as a defect rather than a recoverable condition.
var ErrOutOfBounds = errors.New("track: position out of bounds")

// MinCurveRadius is the smallest curved radius accepted by validation.
// Röckl's resistance formula degenerates below this.
const MinCurveRadius = 100.0

// contiguityTol is the largest gap or overlap (metres) tolerated between
// consecutive segments before the profile is rejected.
const contiguityTol = 1e-6

// Segment is a contiguous stretch of track with uniform geometry.
type Segment struct {
	Start  float64 `json:"start" yaml:"start"`   // metres from track origin
	Length float64 `json:"length" yaml:"length"` // metres
	Grade  float64 `json:"grade" yaml:"grade"`   // percent; positive = uphill
	// Radius is the curve radius in metres. Zero (or +Inf) means straight.
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	// BlockBoundary marks a signalling block boundary at Start.
	BlockBoundary bool `json:"block_boundary,omitempty" yaml:"block_boundary,omitempty"`
	// SpeedLimit is an optional line speed restriction in m/s; zero means the
	// train's own maximum speed applies.
	SpeedLimit float64 `json:"speed_limit,omitempty" yaml:"speed_limit,omitempty"`
}

// End returns the position of the far end of the segment in metres.
func (s Segment) End() float64 { return s.Start + s.Length }

// Straight reports whether the segment has no curvature.
func (s Segment) Straight() bool { return s.Radius == 0 || math.IsInf(s.Radius, 1) }

// Overlap is the portion of a segment covered by a position interval.
type Overlap struct {
	Segment Segment
	Length  float64 // metres of the interval lying on this segment
}

// Profile is a validated track profile. Construct with NewProfile; the zero
// value is not usable.
type Profile struct {
	segments   []Segment
	boundaries []float64 // ascending block boundary positions, excluding 0
	total      float64
}

// NewProfile validates segs and builds a Profile. Validation failures wrap
// ErrInvalidProfile and identify the offending segment.
func NewProfile(segs []Segment) (*Profile, error) {
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: no segments", ErrInvalidProfile)
	}
	if segs[0].Start != 0 {
		return nil, fmt.Errorf("%w: first segment starts at %g, want 0", ErrInvalidProfile, segs[0].Start)
	}

	p := &Profile{segments: make([]Segment, len(segs))}
	copy(p.segments, segs)

	for i, s := range p.segments {
		if err := validateSegment(s); err != nil {
			return nil, fmt.Errorf("%w: segment %d: %v", ErrInvalidProfile, i, err)
		}
		if i > 0 {
			prevEnd := p.segments[i-1].End()
			if s.Start <= p.segments[i-1].Start {
				return nil, fmt.Errorf("%w: segment %d: start %g not increasing", ErrInvalidProfile, i, s.Start)
			}
			if math.Abs(s.Start-prevEnd) > contiguityTol {
				return nil, fmt.Errorf("%w: segment %d: start %g leaves a gap or overlap with previous end %g",
					ErrInvalidProfile, i, s.Start, prevEnd)
			}
			// Snap to the previous end so lookups never fall in a float gap.
			p.segments[i].Start = prevEnd
			if s.BlockBoundary {
				p.boundaries = append(p.boundaries, prevEnd)
			}
		}
	}
	p.total = p.segments[len(p.segments)-1].End()
	return p, nil
}

func validateSegment(s Segment) error {
	for name, v := range map[string]float64{
		"start": s.Start, "length": s.Length, "grade": s.Grade, "speed_limit": s.SpeedLimit,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not finite", name)
		}
	}
	if s.Length <= 0 {
		return fmt.Errorf("length %g must be positive", s.Length)
	}
	if s.SpeedLimit < 0 {
		return fmt.Errorf("speed limit %g must be non-negative", s.SpeedLimit)
	}
	if math.IsNaN(s.Radius) || s.Radius < 0 {
		return fmt.Errorf("radius %g must be zero (straight) or positive", s.Radius)
	}
	if !s.Straight() && s.Radius < MinCurveRadius {
		return fmt.Errorf("radius %g below minimum %g", s.Radius, MinCurveRadius)
	}
	return nil
}

// TotalLength returns the track length in metres.
func (p *Profile) TotalLength() float64 { return p.total }

// Segments returns the validated segments in order.
func (p *Profile) Segments() []Segment { return p.segments }

// SegmentAt returns the segment enclosing pos. Positions in [0, totalLength)
// are valid; anything else returns ErrOutOfBounds.
func (p *Profile) SegmentAt(pos float64) (Segment, error) {
	i, err := p.indexAt(pos)
	if err != nil {
		return Segment{}, err
	}
	return p.segments[i], nil
}

func (p *Profile) indexAt(pos float64) (int, error) {
	if math.IsNaN(pos) || pos < 0 || pos >= p.total {
		return 0, fmt.Errorf("%w: position %g on track of length %g", ErrOutOfBounds, pos, p.total)
	}
	lo, hi := 0, len(p.segments)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if p.segments[mid].Start <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// GradeAt returns the grade (percent) at pos.
func (p *Profile) GradeAt(pos float64) (float64, error) {
	s, err := p.SegmentAt(pos)
	if err != nil {
		return 0, err
	}
	return s.Grade, nil
}

// RadiusAt returns the curve radius at pos; zero means straight.
func (p *Profile) RadiusAt(pos float64) (float64, error) {
	s, err := p.SegmentAt(pos)
	if err != nil {
		return 0, err
	}
	return s.Radius, nil
}

// SpeedLimitAt returns the line speed restriction at pos in m/s; zero means
// no restriction applies.
func (p *Profile) SpeedLimitAt(pos float64) (float64, error) {
	s, err := p.SegmentAt(pos)
	if err != nil {
		return 0, err
	}
	return s.SpeedLimit, nil
}

// Overlaps returns, in order, the segments covered by [from, to] and the
// length of the interval on each. The interval is clipped to the track; to
// must lie within [0, totalLength).
func (p *Profile) Overlaps(from, to float64) ([]Overlap, error) {
	if _, err := p.indexAt(to); err != nil {
		return nil, err
	}
	if from < 0 {
		from = 0
	}
	if from > to {
		from = to
	}
	var out []Overlap
	for _, s := range p.segments {
		lo := math.Max(from, s.Start)
		hi := math.Min(to, s.End())
		if hi > lo {
			out = append(out, Overlap{Segment: s, Length: hi - lo})
		}
		if s.End() >= to {
			break
		}
	}
	return out, nil
}

// EquivalentGrade returns the length-weighted average grade (percent) over
// the train's extent [front-trainLength, front], clipped to the track. With
// a zero train length it reduces to the point grade at front.
func (p *Profile) EquivalentGrade(front, trainLength float64) (float64, error) {
	if trainLength <= 0 {
		return p.GradeAt(front)
	}
	ovs, err := p.Overlaps(front-trainLength, front)
	if err != nil {
		return 0, err
	}
	var sum, span float64
	for _, ov := range ovs {
		sum += ov.Segment.Grade * ov.Length
		span += ov.Length
	}
	if span == 0 {
		return p.GradeAt(front)
	}
	return sum / span, nil
}
