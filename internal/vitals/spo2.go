package vitals

// SpO2Estimator approximates blood oxygen saturation from the red/IR
// intensity ratio with a linear fit. The calibration constants are tunable
// approximations; this is nowhere near a clinically valid computation and
// exists to preserve the shape of the heuristic.
type SpO2Estimator struct {
	minIR  int
	minRed int
	calA   float64
	calB   float64
	floor  float64
}

func NewSpO2Estimator(t Tuning) *SpO2Estimator {
	return &SpO2Estimator{
		minIR:  t.SpO2MinIR,
		minRed: t.SpO2MinRed,
		calA:   t.SpO2CalA,
		calB:   t.SpO2CalB,
		floor:  t.SpO2Floor,
	}
}

// Estimate returns the SpO2 percentage and whether it is valid. Readings
// with no finger or with either channel below its intensity floor are
// invalid. The intensity floors also keep the division defined for the
// all-zero sample a failed sensor read produces.
func (e *SpO2Estimator) Estimate(ir, red int, present bool) (float64, bool) {
	if !present || ir < e.minIR || red < e.minRed {
		return 0, false
	}

	ratio := float64(red) / float64(ir)
	spo2 := e.calA - e.calB*ratio
	if spo2 > 100 {
		spo2 = 100
	}
	if spo2 < e.floor {
		// A value this low means bad contact, not a hypoxic wearer.
		return 0, false
	}
	return spo2, true
}
