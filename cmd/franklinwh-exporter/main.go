// franklinwh-exporter exposes FranklinWH gateway statistics as Prometheus
// metrics. Configuration comes from FRANKLINWH_* environment variables.
package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"thde.io/franklinwh"
)

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	provider, err := franklinwh.NewTokenProvider(cfg.Email, cfg.Password)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	log.Printf("Starting FranklinWH Prometheus Exporter on port %s", cfg.Port)
	log.Printf("Monitoring gateway %s", cfg.GatewayID)

	collector := NewCollector(provider, cfg.GatewayID)
	prometheus.MustRegister(collector)

	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	log.Fatal(http.ListenAndServe(":"+cfg.Port, nil))
}
