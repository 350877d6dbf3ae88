package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/biotrack-tech/vitals_monitor/internal/config"
	"github.com/biotrack-tech/vitals_monitor/internal/sensors"
	"github.com/biotrack-tech/vitals_monitor/internal/telemetry"
	"github.com/biotrack-tech/vitals_monitor/internal/vitals"
)

// RunMonitor runs the main firmware loop: one tick per SAMPLE_INTERVAL reads
// both sensors, feeds the detector engine, and publishes the resulting
// telemetry record. A sensor that fails to initialize or read degrades to a
// zero sample and a false health flag; the engine is defined for those
// inputs, so the record stream never stops.
func RunMonitor(useMock bool) error {
	log.Println("starting vitals monitor")

	cfg := config.Get()

	var ppgSrc sensors.PPGSource
	var imuSrc sensors.IMUSource

	if useMock {
		log.Println("using mock sensor sources")
		ppgSrc = sensors.NewMockPPGSource()
		imuSrc = sensors.NewMockIMUSource()
	} else {
		ppg, err := sensors.NewMAX30102(cfg.PPGI2CBus, cfg.PPGI2CAddr)
		if err != nil {
			log.Printf("WARNING: MAX30102 not available, optical channel degraded: %v", err)
		} else {
			defer ppg.Close()
			ppgSrc = ppg
		}

		imu, err := sensors.NewMPU6050(cfg.IMUI2CBus, cfg.IMUI2CAddr)
		if err != nil {
			log.Printf("WARNING: MPU6050 not available, inertial channel degraded: %v", err)
		} else {
			defer imu.Close()
			imuSrc = imu
		}
	}

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDMonitor)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("MQTT connect error: %v", token.Error())
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("connected to MQTT, starting sample loop")

	engine := vitals.NewEngine(cfg.Tuning, vitals.NewSystemClock())

	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		status := telemetry.SensorStatus{}

		// 1) Optical sample. On failure the engine gets zeros, which it
		// reports as absent/invalid rather than crashing.
		var ppg vitals.PPGSample
		if ppgSrc != nil {
			sample, err := ppgSrc.ReadPPG()
			if err != nil {
				log.Printf("PPG read error: %v", err)
			} else {
				ppg = sample
				status.PPG = true
			}
		}

		// 2) Inertial sample, same fallback.
		var inertial vitals.InertialSample
		if imuSrc != nil {
			sample, err := imuSrc.ReadInertial()
			if err != nil {
				log.Printf("IMU read error: %v", err)
			} else {
				inertial = sample
				status.IMU = true
			}
		}

		// 3) One engine tick over both samples.
		obs := engine.Tick(ppg, inertial)

		rec := telemetry.NewRecord(obs, ppg, inertial, status, t)
		payload, err := json.Marshal(rec)
		if err != nil {
			log.Printf("json marshal error (record): %v", err)
			continue
		}
		if token := client.Publish(cfg.TopicVitals, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (vitals): %v", token.Error())
			continue
		}

		log.Printf("%s tick: spo2=%.1f (valid=%t) hr=%d finger=%t steps=%d |a|=%.2f ir=%d red=%d",
			t.Format(time.RFC3339),
			obs.SpO2, obs.SpO2Valid, obs.HeartRateBPM, obs.FingerPresent,
			obs.StepCount, obs.SmoothedAccel, ppg.IR, ppg.Red,
		)
	}
	return nil
}
