package sensors

import (
	"errors"
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/biotrack-tech/vitals_monitor/internal/vitals"
)

// MPU6050 register addresses.
const (
	mpuSmplrtDiv   = 0x19
	mpuConfig      = 0x1A // DLPF_CFG in bits 2:0
	mpuGyroConfig  = 0x1B // GYRO_FS_SEL in bits 4:3
	mpuAccelConfig = 0x1C // ACCEL_FS_SEL in bits 4:3
	mpuAccelXoutH  = 0x3B // start of the 14-byte accel/temp/gyro block
	mpuPwrMgmt1    = 0x6B
	mpuWhoAmI      = 0x75
)

const (
	mpuWhoAmIValue byte = 0x68

	// PWR_MGMT_1: clear sleep, clock source = X gyro PLL.
	mpuClockPLL byte = 0x01

	// DLPF 21 Hz accel bandwidth.
	mpuDLPF21Hz byte = 0x04

	// ACCEL_FS_SEL = 2 (±8g), GYRO_FS_SEL = 1 (±500°/s).
	mpuAccelRange8G     byte = 0b10 << 3
	mpuGyroRange500DegS byte = 0b01 << 3
)

// Scale factors for the configured ranges.
const (
	accelLSBPerG   = 4096.0 // ±8g
	gyroLSBPerDegS = 65.5   // ±500°/s
	gravity        = 9.80665
)

// ErrNotMPU6050 is returned when the WHO_AM_I register does not identify an
// MPU6050.
var ErrNotMPU6050 = errors.New("mpu6050: WHO_AM_I does not match (0x68)")

// MPU6050 reads 3-axis acceleration, rotation rate and die temperature over
// I2C.
type MPU6050 struct {
	dev *i2c.Dev
	bus i2c.BusCloser
}

// NewMPU6050 opens the I2C bus, verifies the device identity, wakes it from
// sleep and configures ±8g accelerometer range, ±500°/s gyro range and a
// 21 Hz low-pass filter.
func NewMPU6050(busName string, addr uint16) (*MPU6050, error) {
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("mpu6050: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("mpu6050: could not open I2C bus: %w", err)
	}

	d := &MPU6050{
		dev: &i2c.Dev{Addr: addr, Bus: bus},
		bus: bus,
	}

	who, err := d.readReg(mpuWhoAmI)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("mpu6050: could not read WHO_AM_I: %w", err)
	}
	if who != mpuWhoAmIValue {
		bus.Close()
		return nil, ErrNotMPU6050
	}

	steps := []struct {
		reg, val byte
	}{
		{mpuPwrMgmt1, mpuClockPLL},
		{mpuConfig, mpuDLPF21Hz},
		{mpuAccelConfig, mpuAccelRange8G},
		{mpuGyroConfig, mpuGyroRange500DegS},
		{mpuSmplrtDiv, 0},
	}
	for _, s := range steps {
		if err := d.writeReg(s.reg, s.val); err != nil {
			bus.Close()
			return nil, fmt.Errorf("mpu6050: could not write register 0x%02X: %w", s.reg, err)
		}
	}

	log.Println("mpu6050: initialized (±8g, ±500°/s, DLPF 21Hz)")
	return d, nil
}

// Close releases the bus.
func (d *MPU6050) Close() error {
	return d.bus.Close()
}

// ReadInertial reads the full accel/temp/gyro block in one transaction and
// converts it to m/s², °C and °/s.
func (d *MPU6050) ReadInertial() (vitals.InertialSample, error) {
	buf := make([]byte, 14)
	if err := d.dev.Tx([]byte{mpuAccelXoutH}, buf); err != nil {
		return vitals.InertialSample{}, fmt.Errorf("mpu6050: could not read sample block: %w", err)
	}

	ax := int16(buf[0])<<8 | int16(buf[1])
	ay := int16(buf[2])<<8 | int16(buf[3])
	az := int16(buf[4])<<8 | int16(buf[5])
	tr := int16(buf[6])<<8 | int16(buf[7])
	gx := int16(buf[8])<<8 | int16(buf[9])
	gy := int16(buf[10])<<8 | int16(buf[11])
	gz := int16(buf[12])<<8 | int16(buf[13])

	return vitals.InertialSample{
		AccelX:      float64(ax) / accelLSBPerG * gravity,
		AccelY:      float64(ay) / accelLSBPerG * gravity,
		AccelZ:      float64(az) / accelLSBPerG * gravity,
		GyroX:       float64(gx) / gyroLSBPerDegS,
		GyroY:       float64(gy) / gyroLSBPerDegS,
		GyroZ:       float64(gz) / gyroLSBPerDegS,
		Temperature: float64(tr)/340.0 + 36.53,
	}, nil
}

func (d *MPU6050) readReg(reg byte) (byte, error) {
	b := make([]byte, 1)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *MPU6050) writeReg(reg, data byte) error {
	_, err := d.dev.Write([]byte{reg, data})
	return err
}
