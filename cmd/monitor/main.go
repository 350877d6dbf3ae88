package main

import (
	"flag"
	"log"

	"github.com/biotrack-tech/vitals_monitor/internal/app"
	"github.com/biotrack-tech/vitals_monitor/internal/config"
)

func main() {
	mock := flag.Bool("mock", false, "use synthetic sensor sources instead of hardware")
	configPath := flag.String("config", "vitals_config.txt", "path to the config file")
	flag.Parse()

	log.Println("starting vitals-monitor producer")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunMonitor(*mock); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
