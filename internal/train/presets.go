package train

// Canned configurations for common evaluation cases. Callers typically start
// from a preset and adjust mass or braking for the consist under study.

// Freight returns a heavy freight consist: high tractive effort at low
// speed, modest top speed, long stopping distances.
func Freight() Config {
	return Config{
		Name:       "freight",
		Mass:       100000,
		MassFactor: 1.06,
		Length:     400,
		MaxSpeed:   27.8, // 100 km/h
		TractiveEffort: []CurvePoint{
			{Speed: 0, Force: 300000},
			{Speed: 10, Force: 300000},
			{Speed: 20, Force: 180000},
			{Speed: 30, Force: 120000},
		},
		BrakeForce: 140000,
		DavisA:     1500,
		DavisB:     2.5,
		DavisC:     0.008,
		Adhesion:   0.30,
	}
}

// Passenger returns a passenger consist: lighter, faster, stronger braking.
func Passenger() Config {
	return Config{
		Name:       "passenger",
		Mass:       50000,
		MassFactor: 1.04,
		Length:     200,
		MaxSpeed:   55, // ~200 km/h
		TractiveEffort: []CurvePoint{
			{Speed: 0, Force: 150000},
			{Speed: 15, Force: 150000},
			{Speed: 30, Force: 95000},
			{Speed: 55, Force: 55000},
		},
		BrakeDecel: 1.0,
		DavisA:     1500,
		DavisB:     2.5,
		DavisC:     0.008,
	}
}
