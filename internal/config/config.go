package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/biotrack-tech/vitals_monitor/internal/vitals"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDMonitor string
	MQTTClientIDGPS     string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string
	MQTTClientIDDisplay string

	// Topics
	TopicVitals string
	TopicGPS    string

	// PPG hardware (MAX30102)
	PPGI2CBus  string
	PPGI2CAddr uint16

	// IMU hardware (MPU6050)
	IMUI2CBus  string
	IMUI2CAddr uint16

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Timing
	SampleInterval int // milliseconds

	// Web Server
	WebServerPort int

	// Display
	DisplayUpdateInterval int // milliseconds

	// Detector tuning. Every threshold starts at the bench default and can
	// be overridden per key.
	Tuning vitals.Tuning
}

// Package-level unexported variables for singleton pattern. External code
// must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{
		PPGI2CAddr:            0x57,
		IMUI2CAddr:            0x68,
		DisplayUpdateInterval: 500,
		Tuning:                vitals.DefaultTuning(),
	}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_MONITOR":
		c.MQTTClientIDMonitor = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_VITALS":
		c.TopicVitals = value
	case "TOPIC_GPS":
		c.TopicGPS = value

	// PPG Hardware
	case "PPG_I2C_BUS":
		c.PPGI2CBus = value
	case "PPG_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid PPG_I2C_ADDR %q: %w", value, err)
		}
		c.PPGI2CAddr = uint16(addr)

	// IMU Hardware
	case "IMU_I2C_BUS":
		c.IMUI2CBus = value
	case "IMU_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid IMU_I2C_ADDR %q: %w", value, err)
		}
		c.IMUI2CAddr = uint16(addr)

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	// Detector tuning
	case "PRESENCE_THRESHOLD":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PRESENCE_THRESHOLD %q: %w", value, err)
		}
		c.Tuning.PresenceThreshold = v
	case "SETTLE_DURATION_MS":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SETTLE_DURATION_MS %q: %w", value, err)
		}
		c.Tuning.SettleDurationMS = v
	case "NOISE_FLOOR":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid NOISE_FLOOR %q: %w", value, err)
		}
		c.Tuning.NoiseFloor = v
	case "MIN_BEAT_INTERVAL_MS":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MIN_BEAT_INTERVAL_MS %q: %w", value, err)
		}
		c.Tuning.MinBeatIntervalMS = v
	case "MAX_BEAT_INTERVAL_MS":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_BEAT_INTERVAL_MS %q: %w", value, err)
		}
		c.Tuning.MaxBeatIntervalMS = v
	case "BEAT_HISTORY_SIZE":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid BEAT_HISTORY_SIZE %q: %w", value, err)
		}
		if v < 1 {
			return fmt.Errorf("BEAT_HISTORY_SIZE must be at least 1, got %d", v)
		}
		c.Tuning.BeatHistorySize = v
	case "SPO2_MIN_IR":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SPO2_MIN_IR %q: %w", value, err)
		}
		if v < 1 {
			return fmt.Errorf("SPO2_MIN_IR must be positive, got %d", v)
		}
		c.Tuning.SpO2MinIR = v
	case "SPO2_MIN_RED":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SPO2_MIN_RED %q: %w", value, err)
		}
		if v < 1 {
			return fmt.Errorf("SPO2_MIN_RED must be positive, got %d", v)
		}
		c.Tuning.SpO2MinRed = v
	case "SPO2_CAL_A":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SPO2_CAL_A %q: %w", value, err)
		}
		c.Tuning.SpO2CalA = v
	case "SPO2_CAL_B":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SPO2_CAL_B %q: %w", value, err)
		}
		c.Tuning.SpO2CalB = v
	case "SPO2_FLOOR":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SPO2_FLOOR %q: %w", value, err)
		}
		c.Tuning.SpO2Floor = v
	case "STEP_THRESHOLD":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid STEP_THRESHOLD %q: %w", value, err)
		}
		c.Tuning.StepThreshold = v
	case "STEP_COOLDOWN_MS":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid STEP_COOLDOWN_MS %q: %w", value, err)
		}
		c.Tuning.StepCooldownMS = v
	case "SMOOTHING_ALPHA":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SMOOTHING_ALPHA %q: %w", value, err)
		}
		if v < 0 || v >= 1 {
			return fmt.Errorf("SMOOTHING_ALPHA must be in [0, 1), got %g", v)
		}
		c.Tuning.SmoothingAlpha = v

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set and the tuning is sane.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicVitals == "" {
		return fmt.Errorf("TOPIC_VITALS is required")
	}
	if c.TopicGPS == "" {
		return fmt.Errorf("TOPIC_GPS is required")
	}
	if c.GPSSerialPort == "" {
		return fmt.Errorf("GPS_SERIAL_PORT is required")
	}
	if c.GPSBaudRate == 0 {
		return fmt.Errorf("GPS_BAUD_RATE is required")
	}
	if c.SampleInterval == 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	if c.Tuning.MinBeatIntervalMS >= c.Tuning.MaxBeatIntervalMS {
		return fmt.Errorf("MIN_BEAT_INTERVAL_MS (%d) must be below MAX_BEAT_INTERVAL_MS (%d)",
			c.Tuning.MinBeatIntervalMS, c.Tuning.MaxBeatIntervalMS)
	}
	if c.Tuning.SettleDurationMS <= 0 {
		return fmt.Errorf("SETTLE_DURATION_MS must be positive, got %d", c.Tuning.SettleDurationMS)
	}
	if c.Tuning.StepCooldownMS <= 0 {
		return fmt.Errorf("STEP_COOLDOWN_MS must be positive, got %d", c.Tuning.StepCooldownMS)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
