package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpO2FromRatio(t *testing.T) {
	e := NewSpO2Estimator(DefaultTuning())

	// ratio 0.5 → 110 - 25*0.5 = 97.5
	got, valid := e.Estimate(40000, 20000, true)
	assert.True(t, valid)
	assert.InDelta(t, 97.5, got, 0.001)
}

func TestSpO2InvalidWithoutFinger(t *testing.T) {
	e := NewSpO2Estimator(DefaultTuning())

	_, valid := e.Estimate(40000, 20000, false)
	assert.False(t, valid)
}

func TestSpO2IntensityFloors(t *testing.T) {
	e := NewSpO2Estimator(DefaultTuning())

	_, valid := e.Estimate(1000, 20000, true)
	assert.False(t, valid, "IR below floor")

	_, valid = e.Estimate(40000, 500, true)
	assert.False(t, valid, "red below floor")

	// The zero sample a dead sensor produces must be well-defined.
	_, valid = e.Estimate(0, 0, true)
	assert.False(t, valid)
}

func TestSpO2ClampedToHundred(t *testing.T) {
	e := NewSpO2Estimator(DefaultTuning())

	// ratio 0.25 → raw 103.75, clamped.
	got, valid := e.Estimate(40000, 10000, true)
	assert.True(t, valid)
	assert.Equal(t, 100.0, got)
}

func TestSpO2BelowFloorIsInvalidNotClamped(t *testing.T) {
	e := NewSpO2Estimator(DefaultTuning())

	// ratio 1.8 → 65: bad contact, reported invalid rather than as a
	// plausible-looking low reading.
	_, valid := e.Estimate(20000, 36000, true)
	assert.False(t, valid)
}

func TestSpO2ValidRangeProperty(t *testing.T) {
	e := NewSpO2Estimator(DefaultTuning())

	// Whatever the inputs, a valid output always lies in [70, 100].
	for ir := 0; ir <= 60000; ir += 5000 {
		for red := 0; red <= 60000; red += 5000 {
			got, valid := e.Estimate(ir, red, true)
			if valid {
				assert.GreaterOrEqual(t, got, 70.0, "ir=%d red=%d", ir, red)
				assert.LessOrEqual(t, got, 100.0, "ir=%d red=%d", ir, red)
			}
		}
	}
}
