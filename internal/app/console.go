package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/biotrack-tech/vitals_monitor/internal/config"
	"github.com/biotrack-tech/vitals_monitor/internal/gps"
	"github.com/biotrack-tech/vitals_monitor/internal/telemetry"
)

// RunConsole subscribes to the vitals and GPS topics and prints one line per
// message until interrupted.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to vitals
	vitalsToken := client.Subscribe(cfg.TopicVitals, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r telemetry.Record
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("console: vitals unmarshal error: %v", err)
			return
		}

		spo2 := "--.-"
		if r.SpO2Valid {
			spo2 = fmt.Sprintf("%4.1f", r.SpO2)
		}
		fmt.Printf(
			"[VITAL] spo2=%s%% hr=%3d bpm finger=%-5t steps=%5d |a|=%5.2f ir=%6d red=%6d temp=%4.1fC\n",
			spo2, r.HeartRateBPM, r.FingerPresent, r.StepCount, r.AccelTotal,
			r.IRValue, r.RedValue, r.Temperature,
		)
	})
	vitalsToken.Wait()
	if vitalsToken.Error() != nil {
		return vitalsToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicVitals)

	// Subscribe to GPS
	gpsToken := client.Subscribe(cfg.TopicGPS, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("console: gps unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[GPS ]  time=%s lat=%.6f lon=%.6f speed=%.1fkn alt=%.1fm sats=%d validity=%s\n",
			f.Time, f.Latitude, f.Longitude, f.SpeedKnots, f.AltitudeM, f.Satellites, f.Validity,
		)
	})
	gpsToken.Wait()
	if gpsToken.Error() != nil {
		return gpsToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGPS)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
