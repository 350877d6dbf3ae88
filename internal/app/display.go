package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/biotrack-tech/vitals_monitor/internal/config"
	"github.com/biotrack-tech/vitals_monitor/internal/telemetry"
)

// displayData holds the latest record for the display update loop.
type displayData struct {
	mu      sync.RWMutex
	rec     telemetry.Record
	haveRec bool
}

// RunDisplay drives an SSD1306 OLED showing the current vitals, fed from the
// vitals MQTT topic.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: initialized")

	if err := showSplash(dev); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &displayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicVitals, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r telemetry.Record
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("display: vitals unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.rec = r
		data.haveRec = true
		data.mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicVitals)

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		data.mu.RLock()
		rec := data.rec
		haveRec := data.haveRec
		data.mu.RUnlock()

		if err := updateVitalsDisplay(dev, rec, haveRec); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

func showSplash(dev *ssd1306.Dev) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	drawer.Dot = fixed.P(0, 26)
	drawer.DrawBytes([]byte("vitals monitor"))
	drawer.Dot = fixed.P(0, 39)
	drawer.DrawBytes([]byte("waiting for data"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func updateVitalsDisplay(dev *ssd1306.Dev, rec telemetry.Record, haveData bool) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := range img.Pix {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	if !haveData {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Vitals"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		spo2 := "--.-"
		if rec.SpO2Valid {
			spo2 = fmt.Sprintf("%.1f", rec.SpO2)
		}
		finger := "no finger"
		if rec.FingerPresent {
			finger = "finger on"
		}

		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte(fmt.Sprintf("SpO2: %s%%", spo2)))

		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte(fmt.Sprintf("HR:   %3d bpm", rec.HeartRateBPM)))

		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte(fmt.Sprintf("Steps:%6d", rec.StepCount)))

		drawer.Dot = fixed.P(0, 52)
		drawer.DrawBytes([]byte(finger))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
