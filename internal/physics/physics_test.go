package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeworks/feas-engine/internal/track"
	"github.com/gradeworks/feas-engine/internal/train"
)

func mustProfile(t *testing.T, segs []track.Segment) *track.Profile {
	t.Helper()
	p, err := track.NewProfile(segs)
	require.NoError(t, err)
	return p
}

func TestGradeForceZeroOnFlat(t *testing.T) {
	assert.Equal(t, 0.0, GradeForce(50000, 0))
}

func TestGradeForceMonotoneInGrade(t *testing.T) {
	const mass = 50000
	prev := 0.0
	for _, grade := range []float64{0.5, 1, 2, 4, 8} {
		f := GradeForce(mass, grade)
		assert.Greater(t, f, prev, "grade %g%%", grade)
		prev = f
	}
}

func TestGradeForceSignConvention(t *testing.T) {
	// Uphill resists (positive), downhill assists (negative).
	assert.Positive(t, GradeForce(50000, 2))
	assert.Negative(t, GradeForce(50000, -2))
	// 2% grade: sin(atan(0.02)) ~ 0.0199996
	assert.InDelta(t, 50000*9.81*0.0199996, GradeForce(50000, 2), 1)
}

func TestCurveResistanceProperties(t *testing.T) {
	const mass = 50000

	assert.Equal(t, 0.0, CurveResistance(mass, 0))
	assert.Equal(t, 0.0, CurveResistance(mass, math.Inf(1)))

	// Röckl values straight from the empirical fit.
	assert.InDelta(t, 4.91/170*mass, CurveResistance(mass, 200), 1e-9)
	assert.InDelta(t, 6.3/445*mass, CurveResistance(mass, 500), 1e-9)

	// Never assists, and tighter curves resist more.
	assert.Positive(t, CurveResistance(mass, 5000))
	assert.Greater(t, CurveResistance(mass, 150), CurveResistance(mass, 250))
}

func TestCurveResistanceAtAveragesOverTrain(t *testing.T) {
	p := mustProfile(t, []track.Segment{
		{Start: 0, Length: 500},
		{Start: 500, Length: 500, Radius: 200},
	})
	const mass = 50000
	full := CurveResistance(mass, 200)

	r, err := CurveResistanceAt(p, 300, mass, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r)

	// Half the train has entered the curve.
	r, err = CurveResistanceAt(p, 550, mass, 100)
	require.NoError(t, err)
	assert.InDelta(t, full/2, r, 1e-9)

	r, err = CurveResistanceAt(p, 700, mass, 100)
	require.NoError(t, err)
	assert.InDelta(t, full, r, 1e-9)
}

func TestOutOfBoundsSurfaces(t *testing.T) {
	p := mustProfile(t, []track.Segment{{Start: 0, Length: 100}})
	_, err := GradeForceAt(p, 150, 50000, 20)
	assert.ErrorIs(t, err, track.ErrOutOfBounds)
	_, err = CurveResistanceAt(p, 150, 50000, 20)
	assert.ErrorIs(t, err, track.ErrOutOfBounds)
}

func brakeConfig(mass float64) train.Config {
	return train.Config{
		Mass:     mass,
		Length:   200,
		MaxSpeed: 40,
		TractiveEffort: []train.CurvePoint{
			{Speed: 0, Force: 200000},
			{Speed: 40, Force: 80000},
		},
		BrakeForce: 60000,
	}
}

func TestStoppingDistanceKinematics(t *testing.T) {
	p := mustProfile(t, []track.Segment{{Start: 0, Length: 1000}})
	cfg := brakeConfig(50000)
	cfg.BrakeForce = 0
	cfg.BrakeDecel = 1.0
	b := NewBraking(cfg, p)

	d, err := b.StoppingDistance(20, 500)
	require.NoError(t, err)
	assert.InDelta(t, 200, d, 1e-9) // v²/(2a) = 400/2

	// Zero speed needs zero distance, with no division anywhere.
	d, err = b.StoppingDistance(0, 500)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestStoppingDistanceGrowsWithMass(t *testing.T) {
	p := mustProfile(t, []track.Segment{{Start: 0, Length: 1000}})
	prev := 0.0
	for _, mass := range []float64{40000, 60000, 80000, 100000} {
		b := NewBraking(brakeConfig(mass), p)
		d, err := b.StoppingDistance(20, 500)
		require.NoError(t, err)
		assert.Greater(t, d, prev, "mass %g", mass)
		prev = d
	}
}

func TestGradeAdjustsDeceleration(t *testing.T) {
	cfg := brakeConfig(50000)
	cfg.BrakeForce = 0
	cfg.BrakeDecel = 1.0

	uphill := mustProfile(t, []track.Segment{{Start: 0, Length: 1000, Grade: 2}})
	downhill := mustProfile(t, []track.Segment{{Start: 0, Length: 1000, Grade: -2}})
	flat := mustProfile(t, []track.Segment{{Start: 0, Length: 1000}})

	aUp, err := NewBraking(cfg, uphill).Deceleration(500)
	require.NoError(t, err)
	aFlat, err := NewBraking(cfg, flat).Deceleration(500)
	require.NoError(t, err)
	aDown, err := NewBraking(cfg, downhill).Deceleration(500)
	require.NoError(t, err)

	assert.Greater(t, aUp, aFlat)
	assert.Less(t, aDown, aFlat)
}

func TestRunawayGradeFailsBraking(t *testing.T) {
	cfg := brakeConfig(50000)
	cfg.BrakeForce = 0
	cfg.BrakeDecel = 0.3
	// 5% down: g*sin ~ 0.49 m/s² beats the 0.3 m/s² brake.
	p := mustProfile(t, []track.Segment{{Start: 0, Length: 1000, Grade: -5}})

	_, err := NewBraking(cfg, p).Deceleration(500)
	assert.ErrorIs(t, err, ErrInsufficientBraking)
	_, err = NewBraking(cfg, p).StoppingDistance(20, 500)
	assert.ErrorIs(t, err, ErrInsufficientBraking)
}

func TestNetForceDecomposition(t *testing.T) {
	p := mustProfile(t, []track.Segment{{Start: 0, Length: 1000, Grade: 1}})
	cfg := train.Config{
		Mass:     50000,
		Length:   100,
		MaxSpeed: 40,
		TractiveEffort: []train.CurvePoint{
			{Speed: 0, Force: 100000},
			{Speed: 40, Force: 100000},
		},
		BrakeDecel: 1.0,
		DavisA:     1500, DavisB: 2.5, DavisC: 0.008,
	}
	tr, err := NewTraction(cfg, p)
	require.NoError(t, err)

	v := 10.0
	net, clamped, err := tr.NetForce(v, 500)
	require.NoError(t, err)
	assert.False(t, clamped)

	davis := 1500 + 2.5*v + 0.008*v*v
	grade := GradeForce(cfg.Mass, 1)
	assert.InDelta(t, 100000-davis-grade, net, 1e-6)
}

func TestAdhesionCapsAvailableEffort(t *testing.T) {
	p := mustProfile(t, []track.Segment{{Start: 0, Length: 1000}})
	cfg := train.Config{
		Mass:     50000,
		Length:   100,
		MaxSpeed: 40,
		TractiveEffort: []train.CurvePoint{
			{Speed: 0, Force: 500000}, // far beyond what adhesion allows
			{Speed: 40, Force: 500000},
		},
		BrakeDecel: 1.0,
		Adhesion:   0.25,
	}
	tr, err := NewTraction(cfg, p)
	require.NoError(t, err)

	f, _ := tr.Available(5)
	assert.InDelta(t, 0.25*50000*9.81, f, 1e-9)
}

func TestNetForceMayBeNegative(t *testing.T) {
	// Steep uphill with weak traction: negative net force is a valid answer.
	p := mustProfile(t, []track.Segment{{Start: 0, Length: 1000, Grade: 8}})
	cfg := train.Config{
		Mass:     100000,
		Length:   100,
		MaxSpeed: 40,
		TractiveEffort: []train.CurvePoint{
			{Speed: 0, Force: 20000},
			{Speed: 40, Force: 20000},
		},
		BrakeDecel: 1.0,
	}
	tr, err := NewTraction(cfg, p)
	require.NoError(t, err)

	net, _, err := tr.NetForce(10, 500)
	require.NoError(t, err)
	assert.Negative(t, net)
}
