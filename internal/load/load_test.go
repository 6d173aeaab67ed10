package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeworks/feas-engine/internal/physics"
	"github.com/gradeworks/feas-engine/internal/track"
	"github.com/gradeworks/feas-engine/internal/train"
)

func profileWithGrade(t *testing.T, grade float64) *track.Profile {
	t.Helper()
	p, err := track.NewProfile([]track.Segment{
		{Start: 0, Length: 2000, Grade: 0},
		{Start: 2000, Length: 3000, Grade: grade},
		{Start: 5000, Length: 2000, Grade: 0},
	})
	require.NoError(t, err)
	return p
}

func TestMaxTrailingLoadFreight(t *testing.T) {
	cfg := train.Freight()
	ld, err := MaxTrailingLoad(profileWithGrade(t, 1.0), cfg)
	require.NoError(t, err)

	assert.Equal(t, 1.0, ld.RulingGrade)
	assert.Greater(t, ld.MaxTonnage, 0.0)
	assert.Greater(t, ld.EnergyKWh, 0.0)

	// The effort curve offers 300 kN at crawl but adhesion caps usable effort
	// at mu*m*g = 0.30 * 100 t * g.
	assert.InDelta(t, 0.30*cfg.Mass*physics.Gravity, ld.EffortAtCrawl, 1)
}

func TestSteeperRulingGradeShrinksTonnage(t *testing.T) {
	cfg := train.Freight()

	mild, err := MaxTrailingLoad(profileWithGrade(t, 0.5), cfg)
	require.NoError(t, err)
	steep, err := MaxTrailingLoad(profileWithGrade(t, 2.5), cfg)
	require.NoError(t, err)

	assert.Greater(t, mild.MaxTonnage, steep.MaxTonnage)
	assert.Equal(t, 0.5, mild.RulingGrade)
	assert.Equal(t, 2.5, steep.RulingGrade)
}

func TestDownhillProfileUsesZeroRulingGrade(t *testing.T) {
	// A profile with only falling grades is bounded by rolling resistance
	// alone, and the descent contributes no climb energy.
	cfg := train.Passenger()
	ld, err := MaxTrailingLoad(profileWithGrade(t, -1.5), cfg)
	require.NoError(t, err)

	assert.Equal(t, 0.0, ld.RulingGrade)
	assert.Greater(t, ld.MaxTonnage, 0.0)
	assert.Greater(t, ld.EnergyKWh, 0.0)
}

func TestMaxTrailingLoadRejectsInvalidConfig(t *testing.T) {
	cfg := train.Freight()
	cfg.Mass = 0
	_, err := MaxTrailingLoad(profileWithGrade(t, 1.0), cfg)
	require.ErrorIs(t, err, train.ErrInvalidConfig)
}
