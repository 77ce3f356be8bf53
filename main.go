package main

import (
	_ "time/tzdata"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-grid/internal"
	"github.com/syrilster/attendance-grid/internal/config"
)

func main() {
	// load values from .env into the system
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found")
	}

	cfg, err := config.NewApplicationConfig()
	if err != nil {
		log.Fatalf("failed to start application: %v", err)
	}
	config.ConfigureLogging(cfg.LogLevel())

	server := internal.SetupServer(cfg)
	log.Infof("Listening on port %d", cfg.ServerPort())
	server.Start("", cfg.ServerPort())
}
