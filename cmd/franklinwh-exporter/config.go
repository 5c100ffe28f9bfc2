package main

import (
	"fmt"
	"os"
)

const defaultPort = "9777"

// Config holds the exporter configuration, read from environment variables.
type Config struct {
	Email     string
	Password  string
	GatewayID string
	Port      string
}

func parseConfig() (*Config, error) {
	cfg := &Config{
		Email:     os.Getenv("FRANKLINWH_EMAIL"),
		Password:  os.Getenv("FRANKLINWH_PASSWORD"),
		GatewayID: os.Getenv("FRANKLINWH_GATEWAY"),
		Port:      os.Getenv("EXPORTER_PORT"),
	}

	if cfg.Email == "" || cfg.Password == "" {
		return nil, fmt.Errorf("FRANKLINWH_EMAIL and FRANKLINWH_PASSWORD must be set")
	}
	if cfg.GatewayID == "" {
		return nil, fmt.Errorf("FRANKLINWH_GATEWAY must be set")
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	return cfg, nil
}
