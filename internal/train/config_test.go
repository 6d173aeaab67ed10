package train

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Mass:       50000,
		MassFactor: 1.05,
		Length:     200,
		MaxSpeed:   40,
		TractiveEffort: []CurvePoint{
			{Speed: 0, Force: 200000},
			{Speed: 40, Force: 80000},
		},
		BrakeDecel: 1.0,
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero mass", func(c *Config) { c.Mass = 0 }},
		{"nan mass", func(c *Config) { c.Mass = math.NaN() }},
		{"infinite max speed", func(c *Config) { c.MaxSpeed = math.Inf(1) }},
		{"mass factor below one", func(c *Config) { c.MassFactor = 0.5 }},
		{"zero length", func(c *Config) { c.Length = 0 }},
		{"start above max", func(c *Config) { c.StartSpeed = 50 }},
		{"negative davis", func(c *Config) { c.DavisB = -1 }},
		{"no braking", func(c *Config) { c.BrakeDecel = 0; c.BrakeForce = 0 }},
		{"adhesion above one", func(c *Config) { c.Adhesion = 1.5 }},
		{"one curve point", func(c *Config) { c.TractiveEffort = c.TractiveEffort[:1] }},
		{"unsorted curve", func(c *Config) {
			c.TractiveEffort = []CurvePoint{{Speed: 10, Force: 1}, {Speed: 5, Force: 1}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestEffectiveMass(t *testing.T) {
	cfg := validConfig()
	assert.InDelta(t, 52500, cfg.EffectiveMass(), 1e-9)

	cfg.MassFactor = 0 // unset means no rotational allowance
	assert.InDelta(t, 50000, cfg.EffectiveMass(), 1e-9)
}

func TestAdhesionDefault(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, DefaultAdhesion, cfg.AdhesionCoef())
	cfg.Adhesion = 0.3
	assert.Equal(t, 0.3, cfg.AdhesionCoef())
}

func TestEffortCurveInterpolatesAndClamps(t *testing.T) {
	curve, err := NewEffortCurve([]CurvePoint{
		{Speed: 0, Force: 200000},
		{Speed: 20, Force: 100000},
		{Speed: 40, Force: 50000},
	})
	require.NoError(t, err)

	f, clamped := curve.At(0)
	assert.False(t, clamped)
	assert.InDelta(t, 200000, f, 1e-9)

	f, clamped = curve.At(10)
	assert.False(t, clamped)
	assert.InDelta(t, 150000, f, 1e-9)

	f, clamped = curve.At(30)
	assert.False(t, clamped)
	assert.InDelta(t, 75000, f, 1e-9)

	// Out-of-range lookups clamp to the boundary and say so.
	f, clamped = curve.At(60)
	assert.True(t, clamped)
	assert.InDelta(t, 50000, f, 1e-9)

	f, clamped = curve.At(-5)
	assert.True(t, clamped)
	assert.InDelta(t, 200000, f, 1e-9)
}

func TestEffortCurveRejectsBadSamples(t *testing.T) {
	_, err := NewEffortCurve([]CurvePoint{{Speed: 0, Force: 1}})
	assert.Error(t, err)

	_, err = NewEffortCurve([]CurvePoint{{Speed: 0, Force: 1}, {Speed: 0, Force: 2}})
	assert.Error(t, err)

	_, err = NewEffortCurve([]CurvePoint{{Speed: 0, Force: -1}, {Speed: 10, Force: 2}})
	assert.Error(t, err)

	_, err = NewEffortCurve([]CurvePoint{{Speed: 0, Force: 1}, {Speed: math.NaN(), Force: 2}})
	assert.Error(t, err)
}

func TestPresetsValidate(t *testing.T) {
	require.NoError(t, Freight().Validate())
	require.NoError(t, Passenger().Validate())
}
