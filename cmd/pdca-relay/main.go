package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/kaizenlab/pdca-coach/internal/config"
	"github.com/kaizenlab/pdca-coach/internal/relay"
)

var (
	loadDotEnv         = godotenv.Load
	defaultListenServe = http.ListenAndServe
)

func main() {
	if err := run(defaultListenServe); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run(serve func(string, http.Handler) error) error {
	// Load .env file (ignore error if file doesn't exist)
	_ = loadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Printf("Starting PDCA coach relay...")
	log.Printf("Port: %d", cfg.Port)
	log.Printf("Upstream: %s", cfg.DeepSeekBaseURL)
	log.Printf("Model: %s", cfg.CoachModel)
	if cfg.UpstreamTimeout > 0 {
		log.Printf("Upstream timeout: %s", cfg.UpstreamTimeout)
	}

	handler := relay.NewHandler(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.CoachModel, cfg.HTTPClient())

	r := mux.NewRouter()
	handler.RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Root endpoint with info
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"service":"pdca-coach-relay","status":"running","model":"%s"}`, cfg.CoachModel)
	}).Methods("GET")

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Coach endpoint: http://localhost%s/coach", addr)
	log.Printf("Health check: http://localhost%s/health", addr)

	if err := serve(addr, r); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}
