package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prime feeds two flat samples so the tracker has a previous sample and a
// previous delta.
func prime(e *HeartRateEstimator, t int64) {
	e.Update(1000, true, t)
	e.Update(1000, true, t+10)
}

// pulse produces one rising edge followed by one falling edge, with the
// falling (beat) edge at edgeAt. Returns the estimator output at the edge.
func pulse(e *HeartRateEstimator, edgeAt int64) int {
	e.Update(1150, true, edgeAt-10)
	return e.Update(1000, true, edgeAt)
}

func TestSingleBeatAt500MS(t *testing.T) {
	e := NewHeartRateEstimator(DefaultTuning())
	prime(e, 0)

	// First edge only arms the interval timer.
	assert.Equal(t, 0, pulse(e, 100))
	// Second edge 500ms later: 60000/500 = 120 BPM.
	assert.Equal(t, 120, pulse(e, 600))
}

func TestImplausibleIntervalsDropped(t *testing.T) {
	e := NewHeartRateEstimator(DefaultTuning())
	prime(e, 0)

	pulse(e, 100)
	// 150ms interval: faster than 200 BPM, dropped.
	assert.Equal(t, 0, pulse(e, 250))
	// 1750ms interval: slower than 40 BPM, dropped.
	assert.Equal(t, 0, pulse(e, 2000))
	// 500ms interval from the last (rejected) edge: accepted.
	assert.Equal(t, 120, pulse(e, 2500))
}

func TestLastBeatAdvancesOnRejection(t *testing.T) {
	e := NewHeartRateEstimator(DefaultTuning())
	prime(e, 0)

	pulse(e, 100)
	pulse(e, 250) // 150ms, rejected
	// If the rejected edge had not advanced last_beat_time, this interval
	// would be 600ms; it is 450ms → 133 BPM.
	assert.Equal(t, 133, pulse(e, 700))
}

func TestAbsenceClearsEverything(t *testing.T) {
	e := NewHeartRateEstimator(DefaultTuning())
	prime(e, 0)
	pulse(e, 100)
	require.Equal(t, 120, pulse(e, 600))

	// Finger lifts: estimate drops to 0 immediately.
	assert.Equal(t, 0, e.Update(0, false, 700))
	assert.Equal(t, 0, e.BPM())

	// Finger back: the first edge after re-arm must not be accepted, since
	// the previous beat chain is gone.
	prime(e, 800)
	assert.Equal(t, 0, pulse(e, 900))
	assert.Equal(t, 120, pulse(e, 1400))
}

func TestNoiseBelowFloorIgnored(t *testing.T) {
	e := NewHeartRateEstimator(DefaultTuning())
	prime(e, 0)

	// Deltas of ±50 are under the 80-count noise floor: no edges, no beats.
	for i, now := 0, int64(20); now <= 2000; now += 20 {
		ir := 1000
		if i%2 == 0 {
			ir = 1050
		}
		assert.Equal(t, 0, e.Update(ir, true, now))
		i++
	}
}

func TestBeatHistoryRingEviction(t *testing.T) {
	h := newBeatHistory(3)
	assert.Equal(t, 0, h.mean())

	h.add(60)
	assert.Equal(t, 60, h.mean())
	h.add(70)
	h.add(80)
	assert.Equal(t, 3, h.count)
	assert.Equal(t, 70, h.mean())

	// Fourth entry overwrites the oldest (60): mean of {90, 70, 80}.
	h.add(90)
	assert.Equal(t, 3, h.count)
	assert.Equal(t, 80, h.mean())

	h.reset()
	assert.Equal(t, 0, h.mean())
}

func TestReportedRateIsMeanOfHistory(t *testing.T) {
	tuning := DefaultTuning()
	tuning.BeatHistorySize = 4
	e := NewHeartRateEstimator(tuning)
	prime(e, 0)

	pulse(e, 100)
	pulse(e, 600)         // 500ms → 120
	got := pulse(e, 1600) // 1000ms → 60

	assert.Equal(t, (120+60)/2, got)
}
