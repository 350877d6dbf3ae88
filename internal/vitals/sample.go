package vitals

import "math"

// PPGSample is one tick of raw optical intensities from the pulse oximeter.
// Values are ADC counts, never negative.
type PPGSample struct {
	IR  int `json:"ir"`
	Red int `json:"red"`
}

// InertialSample is one tick of motion data. Acceleration is in m/s²,
// rotation in °/s, temperature in °C.
type InertialSample struct {
	AccelX float64 `json:"accel_x"`
	AccelY float64 `json:"accel_y"`
	AccelZ float64 `json:"accel_z"`

	GyroX float64 `json:"gyro_x"`
	GyroY float64 `json:"gyro_y"`
	GyroZ float64 `json:"gyro_z"`

	Temperature float64 `json:"temp_c"`
}

// Magnitude returns the total acceleration |a|.
func (s InertialSample) Magnitude() float64 {
	return math.Sqrt(s.AccelX*s.AccelX + s.AccelY*s.AccelY + s.AccelZ*s.AccelZ)
}

// Observation is the derived output of one engine tick. Ownership passes to
// the telemetry layer, which treats it as read-only.
type Observation struct {
	SpO2          float64 // percent, meaningful only when SpO2Valid
	SpO2Valid     bool
	HeartRateBPM  int // 0 means unknown
	FingerPresent bool
	StepCount     int // cumulative, monotonic for the process lifetime
	SmoothedAccel float64
}
