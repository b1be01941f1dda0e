package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/vaquev01/gmpm-sub001/internal/di"
	"github.com/vaquev01/gmpm-sub001/pkg/config"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s poll=%s workers=%d", cfg.Environment, cfg.Poll.Interval, cfg.Pipeline.Workers)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
