// Package telemetry assembles the per-tick wire record from the core's
// observation and the raw sensor context. The core itself knows nothing
// about this format.
package telemetry

import (
	"time"

	"github.com/biotrack-tech/vitals_monitor/internal/vitals"
)

// SensorStatus reports per-sensor health so consumers can tell a resting
// wearer from a dead sensor.
type SensorStatus struct {
	PPG bool `json:"max30102"`
	IMU bool `json:"mpu6050"`
}

// Record is one flat telemetry record, published once per tick.
type Record struct {
	Time string `json:"time"` // RFC3339

	SpO2          float64 `json:"spo2"`
	SpO2Valid     bool    `json:"spo2_valid"`
	HeartRateBPM  int     `json:"heart_rate_bpm"`
	FingerPresent bool    `json:"finger_detected"`

	IRValue  int `json:"ir_value"`
	RedValue int `json:"red_value"`

	AccelX     float64 `json:"accel_x"`
	AccelY     float64 `json:"accel_y"`
	AccelZ     float64 `json:"accel_z"`
	AccelTotal float64 `json:"accel_total"` // smoothed magnitude

	GyroX float64 `json:"gyro_x"`
	GyroY float64 `json:"gyro_y"`
	GyroZ float64 `json:"gyro_z"`

	Temperature float64 `json:"temperature_c"`
	StepCount   int     `json:"steps_total"`

	SensorStatus SensorStatus `json:"sensor_status"`
}

// NewRecord flattens one tick's observation and raw samples into a Record.
func NewRecord(obs vitals.Observation, ppg vitals.PPGSample, inertial vitals.InertialSample, status SensorStatus, t time.Time) Record {
	return Record{
		Time: t.Format(time.RFC3339),

		SpO2:          obs.SpO2,
		SpO2Valid:     obs.SpO2Valid,
		HeartRateBPM:  obs.HeartRateBPM,
		FingerPresent: obs.FingerPresent,

		IRValue:  ppg.IR,
		RedValue: ppg.Red,

		AccelX:     inertial.AccelX,
		AccelY:     inertial.AccelY,
		AccelZ:     inertial.AccelZ,
		AccelTotal: obs.SmoothedAccel,

		GyroX: inertial.GyroX,
		GyroY: inertial.GyroY,
		GyroZ: inertial.GyroZ,

		Temperature: inertial.Temperature,
		StepCount:   obs.StepCount,

		SensorStatus: status,
	}
}
