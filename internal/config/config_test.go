package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig drops the given content into a temp file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `MQTT_BROKER=tcp://localhost:1883
TOPIC_VITALS=vitals/observations
TOPIC_GPS=vitals/gps
GPS_SERIAL_PORT=/dev/ttyAMA0
GPS_BAUD_RATE=9600
SAMPLE_INTERVAL=50
`

func TestLoadMinimalConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, "vitals/observations", cfg.TopicVitals)
	assert.Equal(t, "vitals/gps", cfg.TopicGPS)
	assert.Equal(t, 9600, cfg.GPSBaudRate)
	assert.Equal(t, 50, cfg.SampleInterval)
}

func TestLoadSeedsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	// Hardware addresses and tuning fall back to the bench defaults when
	// the file does not mention them.
	assert.Equal(t, uint16(0x57), cfg.PPGI2CAddr)
	assert.Equal(t, uint16(0x68), cfg.IMUI2CAddr)
	assert.Equal(t, 500, cfg.DisplayUpdateInterval)
	assert.Equal(t, 30000, cfg.Tuning.PresenceThreshold)
	assert.Equal(t, 110.0, cfg.Tuning.SpO2CalA)
	assert.Equal(t, 0.8, cfg.Tuning.SmoothingAlpha)
}

func TestLoadTuningOverrides(t *testing.T) {
	content := minimalConfig + `PRESENCE_THRESHOLD=25000
STEP_THRESHOLD=14.5
BEAT_HISTORY_SIZE=4
PPG_I2C_ADDR=0x58
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, 25000, cfg.Tuning.PresenceThreshold)
	assert.Equal(t, 14.5, cfg.Tuning.StepThreshold)
	assert.Equal(t, 4, cfg.Tuning.BeatHistorySize)
	assert.Equal(t, uint16(0x58), cfg.PPGI2CAddr)

	// Untouched keys keep their defaults.
	assert.Equal(t, int64(300), cfg.Tuning.MinBeatIntervalMS)
	assert.Equal(t, 80, cfg.Tuning.NoiseFloor)
}

func TestLoadSkipsCommentsAndBlankLines(t *testing.T) {
	content := "# bench setup\n\n" + minimalConfig + "\n# trailing note\n"
	_, err := Load(writeConfig(t, content))
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing broker",
			content: "TOPIC_VITALS=v\nTOPIC_GPS=g\nGPS_SERIAL_PORT=/dev/ttyAMA0\nGPS_BAUD_RATE=9600\nSAMPLE_INTERVAL=50\n",
			errMsg:  "MQTT_BROKER is required",
		},
		{
			name:    "unknown key",
			content: minimalConfig + "MYSTERY_KNOB=1\n",
			errMsg:  "unknown config key",
		},
		{
			name:    "malformed line",
			content: minimalConfig + "JUST_A_KEY\n",
			errMsg:  "invalid config line",
		},
		{
			name:    "alpha out of range",
			content: minimalConfig + "SMOOTHING_ALPHA=1.0\n",
			errMsg:  "SMOOTHING_ALPHA must be in [0, 1)",
		},
		{
			name:    "non-numeric baud rate",
			content: "MQTT_BROKER=b\nTOPIC_VITALS=v\nTOPIC_GPS=g\nGPS_SERIAL_PORT=/dev/ttyAMA0\nGPS_BAUD_RATE=fast\nSAMPLE_INTERVAL=50\n",
			errMsg:  "invalid GPS_BAUD_RATE",
		},
		{
			name:    "inverted beat interval band",
			content: minimalConfig + "MIN_BEAT_INTERVAL_MS=1500\nMAX_BEAT_INTERVAL_MS=300\n",
			errMsg:  "must be below MAX_BEAT_INTERVAL_MS",
		},
		{
			name:    "zero history size",
			content: minimalConfig + "BEAT_HISTORY_SIZE=0\n",
			errMsg:  "BEAT_HISTORY_SIZE must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}
