package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biotrack-tech/vitals_monitor/internal/vitals"
)

func TestNewRecordFlattensTick(t *testing.T) {
	obs := vitals.Observation{
		SpO2:          96.5,
		SpO2Valid:     true,
		HeartRateBPM:  72,
		FingerPresent: true,
		StepCount:     41,
		SmoothedAccel: 10.2,
	}
	ppg := vitals.PPGSample{IR: 45000, Red: 38000}
	inertial := vitals.InertialSample{
		AccelX: 0.1, AccelY: -0.2, AccelZ: 9.81,
		GyroX: 1.5, GyroY: -2.5, GyroZ: 0.5,
		Temperature: 24.3,
	}
	at := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	rec := NewRecord(obs, ppg, inertial, SensorStatus{PPG: true, IMU: true}, at)

	assert.Equal(t, "2025-06-01T12:30:00Z", rec.Time)
	assert.Equal(t, 96.5, rec.SpO2)
	assert.True(t, rec.SpO2Valid)
	assert.Equal(t, 72, rec.HeartRateBPM)
	assert.True(t, rec.FingerPresent)
	assert.Equal(t, 45000, rec.IRValue)
	assert.Equal(t, 38000, rec.RedValue)
	assert.Equal(t, 9.81, rec.AccelZ)
	assert.Equal(t, 10.2, rec.AccelTotal)
	assert.Equal(t, -2.5, rec.GyroY)
	assert.Equal(t, 24.3, rec.Temperature)
	assert.Equal(t, 41, rec.StepCount)
	assert.True(t, rec.SensorStatus.PPG)
}

func TestRecordWireFormat(t *testing.T) {
	rec := NewRecord(vitals.Observation{HeartRateBPM: 65, FingerPresent: true},
		vitals.PPGSample{IR: 44000, Red: 37000},
		vitals.InertialSample{AccelZ: 9.8, Temperature: 22.0},
		SensorStatus{PPG: true, IMU: false},
		time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC))

	payload, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))

	// Consumers key off these names; renaming any of them breaks the
	// dashboard and the display.
	assert.Equal(t, "2025-06-01T12:30:00Z", decoded["time"])
	assert.Equal(t, float64(65), decoded["heart_rate_bpm"])
	assert.Equal(t, true, decoded["finger_detected"])
	assert.Equal(t, float64(44000), decoded["ir_value"])
	assert.Equal(t, float64(22), decoded["temperature_c"])

	status, ok := decoded["sensor_status"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, status["max30102"])
	assert.Equal(t, false, status["mpu6050"])
}
