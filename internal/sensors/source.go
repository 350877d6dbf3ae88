package sensors

import (
	"math"
	"time"

	"github.com/biotrack-tech/vitals_monitor/internal/vitals"
)

// PPGSource supplies one raw optical sample per tick.
type PPGSource interface {
	ReadPPG() (vitals.PPGSample, error)
}

// IMUSource supplies one raw inertial sample per tick.
type IMUSource interface {
	ReadInertial() (vitals.InertialSample, error)
}

type mockPPGSource struct {
	start time.Time
}

// NewMockPPGSource returns a PPG source that simulates a finger on the
// sensor with a 72 BPM pulse riding on the IR baseline.
func NewMockPPGSource() PPGSource {
	return &mockPPGSource{start: time.Now()}
}

func (m *mockPPGSource) ReadPPG() (vitals.PPGSample, error) {
	elapsed := time.Since(m.start).Seconds()

	// 1.2 Hz pulse, amplitude large enough to clear the noise floor.
	pulse := 800 * math.Sin(2*math.Pi*1.2*elapsed)
	ir := 45000 + int(pulse)
	red := 38000 + int(0.6*pulse)

	return vitals.PPGSample{IR: ir, Red: red}, nil
}

type mockIMUSource struct {
	start time.Time
}

// NewMockIMUSource returns an IMU source that simulates a slow walk: gravity
// plus a 2 Hz vertical bounce.
func NewMockIMUSource() IMUSource {
	return &mockIMUSource{start: time.Now()}
}

func (m *mockIMUSource) ReadInertial() (vitals.InertialSample, error) {
	elapsed := time.Since(m.start).Seconds()

	bounce := 4.0 * math.Sin(2*math.Pi*2.0*elapsed)
	return vitals.InertialSample{
		AccelX:      0.3 * math.Sin(elapsed),
		AccelY:      0.2 * math.Cos(elapsed*0.7),
		AccelZ:      9.8 + bounce,
		GyroX:       5 * math.Sin(elapsed*0.5),
		GyroY:       5 * math.Cos(elapsed*0.3),
		GyroZ:       0,
		Temperature: 25.0,
	}, nil
}
