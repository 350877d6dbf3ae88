package sensors

import (
	"errors"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/biotrack-tech/vitals_monitor/internal/vitals"
)

// MAX30102 register addresses.
const (
	maxIntStat1  = 0x00
	maxIntEna1   = 0x02
	maxFIFOWrPtr = 0x04
	maxOvfCount  = 0x05
	maxFIFORdPtr = 0x06
	maxFIFOData  = 0x07
	maxFIFOCfg   = 0x08
	maxModeCfg   = 0x09
	maxSpO2Cfg   = 0x0A
	maxLed1PA    = 0x0C
	maxLed2PA    = 0x0D
	maxRevID     = 0xFE
	maxPartID    = 0xFF
)

const (
	maxPartIDValue byte = 0x15

	maxModeSpO2     byte = 0b011
	maxResetControl byte = 0b0100_0000

	maxNewFIFOData byte = 1 << 6

	// SpO2 configuration: ADC range 4096nA, 100 samples/s, 411us pulse width.
	maxSpO2CfgValue byte = 0b0_01_001_11

	// FIFO configuration: 4-sample averaging, rollover on full.
	maxFIFOCfgValue byte = 0b010_1_0000

	// LED pulse amplitude, both channels driven hard for signal headroom.
	maxLedAmplitude byte = 0xFF
)

// ErrNotMAX30102 is returned when the part ID read from the device does not
// match the MAX30102 signature.
var ErrNotMAX30102 = errors.New("max30102: part ID does not match (0x15)")

// MAX30102 drives the pulse-oximeter front end over I2C and reads paired
// IR/red intensities from its FIFO.
type MAX30102 struct {
	dev *i2c.Dev
	bus i2c.BusCloser
}

// NewMAX30102 opens the I2C bus, verifies the part ID, resets the device and
// configures it for SpO2 mode. An empty busName selects the first available
// bus.
func NewMAX30102(busName string, addr uint16) (*MAX30102, error) {
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("max30102: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("max30102: could not open I2C bus: %w", err)
	}

	d := &MAX30102{
		dev: &i2c.Dev{Addr: addr, Bus: bus},
		bus: bus,
	}

	part, err := d.readReg(maxPartID)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("max30102: could not read part ID: %w", err)
	}
	if part != maxPartIDValue {
		bus.Close()
		return nil, ErrNotMAX30102
	}

	if err := d.reset(); err != nil {
		bus.Close()
		return nil, err
	}
	if err := d.configure(); err != nil {
		bus.Close()
		return nil, err
	}

	rev, err := d.readReg(maxRevID)
	if err == nil {
		log.Printf("max30102: initialized, revision 0x%02X", rev)
	}

	return d, nil
}

// Close shuts the LEDs down and releases the bus.
func (d *MAX30102) Close() error {
	// Shutdown bit keeps register state but powers down the LEDs.
	if err := d.writeReg(maxModeCfg, 0b1000_0000); err != nil {
		d.bus.Close()
		return err
	}
	return d.bus.Close()
}

// ReadPPG returns one IR/red sample pair from the FIFO as raw 18-bit ADC
// counts. It waits for the new-data interrupt flag with a bounded number of
// polls so a wedged sensor cannot stall the tick loop indefinitely.
func (d *MAX30102) ReadPPG() (vitals.PPGSample, error) {
	const maxPolls = 100

	ready := false
	for i := 0; i < maxPolls; i++ {
		stat, err := d.readReg(maxIntStat1)
		if err != nil {
			return vitals.PPGSample{}, fmt.Errorf("max30102: could not read interrupt status: %w", err)
		}
		if stat&maxNewFIFOData != 0 {
			ready = true
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !ready {
		return vitals.PPGSample{}, errors.New("max30102: no new FIFO data")
	}

	// In SpO2 mode each FIFO sample is 6 bytes: red first, then IR, each a
	// left-justified 18-bit value.
	buf := make([]byte, 6)
	if err := d.dev.Tx([]byte{maxFIFOData}, buf); err != nil {
		return vitals.PPGSample{}, fmt.Errorf("max30102: could not read FIFO: %w", err)
	}

	const msbMask byte = 0b0000_0011
	red := int(buf[0]&msbMask)<<16 | int(buf[1])<<8 | int(buf[2])
	ir := int(buf[3]&msbMask)<<16 | int(buf[4])<<8 | int(buf[5])

	return vitals.PPGSample{IR: ir, Red: red}, nil
}

// reset returns all registers to their power-on state and waits for the
// reset bit to clear.
func (d *MAX30102) reset() error {
	if err := d.writeReg(maxModeCfg, maxResetControl); err != nil {
		return fmt.Errorf("max30102: could not reset: %w", err)
	}
	for i := 0; i < 100; i++ {
		state, err := d.readReg(maxModeCfg)
		if err != nil {
			return fmt.Errorf("max30102: could not poll reset: %w", err)
		}
		if state&maxResetControl == 0 {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
	return errors.New("max30102: reset did not complete")
}

func (d *MAX30102) configure() error {
	steps := []struct {
		reg, val byte
	}{
		{maxFIFOCfg, maxFIFOCfgValue},
		{maxModeCfg, maxModeSpO2},
		{maxSpO2Cfg, maxSpO2CfgValue},
		{maxLed1PA, maxLedAmplitude},
		{maxLed2PA, maxLedAmplitude},
		{maxIntEna1, maxNewFIFOData},
		// Clear FIFO pointers so the first read is fresh data.
		{maxFIFOWrPtr, 0},
		{maxOvfCount, 0},
		{maxFIFORdPtr, 0},
	}
	for _, s := range steps {
		if err := d.writeReg(s.reg, s.val); err != nil {
			return fmt.Errorf("max30102: could not write register 0x%02X: %w", s.reg, err)
		}
	}
	return nil
}

func (d *MAX30102) readReg(reg byte) (byte, error) {
	b := make([]byte, 1)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *MAX30102) writeReg(reg, data byte) error {
	_, err := d.dev.Write([]byte{reg, data})
	return err
}
