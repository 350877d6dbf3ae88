package vitals

// Tuning collects every threshold and time window the detectors use. The
// values are heuristics tuned on the bench hardware, not physiological
// constants; all of them can be overridden from the config file.
type Tuning struct {
	// Finger presence
	PresenceThreshold int   // raw IR counts; above this a finger is plausibly on the sensor
	SettleDurationMS  int64 // raw state must hold this long before the committed state flips

	// Heart rate
	NoiseFloor        int   // minimum |delta| between IR samples to count as signal
	MinBeatIntervalMS int64 // below this a beat edge is a double-trigger (200 BPM)
	MaxBeatIntervalMS int64 // above this the beat chain was lost (40 BPM)
	BeatHistorySize   int   // accepted beats averaged into the reported BPM

	// SpO2
	SpO2MinIR  int
	SpO2MinRed int
	SpO2CalA   float64 // spo2 = A - B*(red/ir)
	SpO2CalB   float64
	SpO2Floor  float64 // computed values below this are reported invalid

	// Steps
	StepThreshold  float64 // m/s², on the smoothed magnitude
	StepCooldownMS int64
	SmoothingAlpha float64 // EMA weight of the previous smoothed value
}

// DefaultTuning returns the bench defaults.
func DefaultTuning() Tuning {
	return Tuning{
		PresenceThreshold: 30000,
		SettleDurationMS:  100,

		NoiseFloor:        80,
		MinBeatIntervalMS: 300,
		MaxBeatIntervalMS: 1500,
		BeatHistorySize:   8,

		SpO2MinIR:  15000,
		SpO2MinRed: 10000,
		SpO2CalA:   110.0,
		SpO2CalB:   25.0,
		SpO2Floor:  70.0,

		StepThreshold:  12.0,
		StepCooldownMS: 300,
		SmoothingAlpha: 0.8,
	}
}
