package main

import (
	"log"

	"github.com/biotrack-tech/vitals_monitor/internal/app"
	"github.com/biotrack-tech/vitals_monitor/internal/config"
)

func main() {
	log.Println("starting vitals-monitor display (MQTT subscriber)")

	if err := config.InitGlobal("vitals_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunDisplay(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
