// Package vitals derives blood oxygen, heart rate, finger presence and step
// count from raw optical and inertial samples. All detectors are pure
// computations over bounded in-memory state plus one fresh sample per tick;
// there is exactly one logical thread of execution and no locking.
package vitals

// Engine owns the state of all four detectors and runs them once per tick.
// Presence gates the two optical estimators; the step counter runs off the
// inertial sample independently. No detector calls another.
type Engine struct {
	clock Clock

	presence  *PresenceDetector
	heartRate *HeartRateEstimator
	spo2      *SpO2Estimator
	steps     *StepCounter
}

// NewEngine returns an engine with all detector state at neutral: empty
// beat history, zero steps, presence false.
func NewEngine(t Tuning, clock Clock) *Engine {
	return &Engine{
		clock:     clock,
		presence:  NewPresenceDetector(t),
		heartRate: NewHeartRateEstimator(t),
		spo2:      NewSpO2Estimator(t),
		steps:     NewStepCounter(t),
	}
}

// Tick processes one sample pair and returns the derived observation. The
// detector windows are wall-clock based, so callers must keep the tick
// cadence close to the configured sample interval. Every input, however
// degenerate, yields a defined observation; an all-zero sample from a
// failed sensor read simply comes out as absent/invalid/unchanged.
func (e *Engine) Tick(ppg PPGSample, inertial InertialSample) Observation {
	now := e.clock.NowMillis()

	present := e.presence.Update(ppg.IR, now)
	bpm := e.heartRate.Update(ppg.IR, present, now)
	spo2, valid := e.spo2.Estimate(ppg.IR, ppg.Red, present)
	steps := e.steps.Update(inertial.Magnitude(), now)

	return Observation{
		SpO2:          spo2,
		SpO2Valid:     valid,
		HeartRateBPM:  bpm,
		FingerPresent: present,
		StepCount:     steps,
		SmoothedAccel: e.steps.Smoothed(),
	}
}
