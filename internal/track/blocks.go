package track

import "sort"

// Boundaries returns the block boundary positions in ascending order. The
// track start is never a boundary; a profile with no marked boundaries forms
// a single block.
func (p *Profile) Boundaries() []float64 { return p.boundaries }

// BlockIndexAt returns the index of the block containing pos, counting from
// zero at the track start.
func (p *Profile) BlockIndexAt(pos float64) (int, error) {
	if _, err := p.indexAt(pos); err != nil {
		return 0, err
	}
	return sort.SearchFloat64s(p.boundaries, pos-boundaryTol), nil
}

// NextBoundary returns the first block boundary strictly ahead of pos, and
// false when no boundary remains before the end of the track.
func (p *Profile) NextBoundary(pos float64) (float64, bool) {
	i := sort.SearchFloat64s(p.boundaries, pos+boundaryTol)
	if i >= len(p.boundaries) {
		return 0, false
	}
	return p.boundaries[i], true
}

// boundaryTol keeps a train sitting exactly on a boundary counted in the
// block behind it until it has strictly passed.
const boundaryTol = 1e-9

// Restriction is a speed limit coming into force ahead of a position.
type Restriction struct {
	Start float64 // metres; where the restriction begins
	Limit float64 // m/s
}

// RestrictionsAhead returns every speed restriction that begins strictly
// after pos, in track order. The engine uses these for lookahead braking.
func (p *Profile) RestrictionsAhead(pos float64) []Restriction {
	var out []Restriction
	for _, s := range p.segments {
		if s.Start > pos && s.SpeedLimit > 0 {
			out = append(out, Restriction{Start: s.Start, Limit: s.SpeedLimit})
		}
	}
	return out
}
