package main

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/kaizenlab/pdca-coach/internal/coach"
	"github.com/kaizenlab/pdca-coach/internal/config"
	"github.com/kaizenlab/pdca-coach/internal/store"
	"github.com/kaizenlab/pdca-coach/internal/transcript"
	"github.com/kaizenlab/pdca-coach/internal/tui"
)

var (
	loadDotEnv = godotenv.Load
	runProgram = func(model tea.Model) error {
		_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	}
)

func main() {
	if err := run(runProgram); err != nil {
		log.Fatalf("pdca failed: %v", err)
	}
}

func run(runUI func(tea.Model) error) error {
	// Load .env file (ignore error if file doesn't exist)
	_ = loadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open workflow store: %w", err)
	}
	defer st.Close()

	cl := coach.New(cfg.CoachServerURL, cfg.HTTPClient())
	if cl.Offline() {
		log.Printf("[Main] COACH_SERVER_URL not set, coach panel runs offline")
	}

	app := tui.New(st, cl, transcript.New(), cfg.ExportDir)

	if err := runUI(app); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
