package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	_ "github.com/glebarez/go-sqlite"

	"github.com/kaizenlab/pdca-coach/internal/workflow"
)

// StateKey is the fixed key the single training record is stored under.
const StateKey = "pdca_training_data"

// Store persists the workflow state to a local SQLite database. Every
// field edit writes the full serialized state synchronously; write
// frequency is human typing speed, so no batching is needed.
type Store struct {
	mu    sync.RWMutex
	db    *sql.DB
	state *workflow.State
}

// Open opens (creating if needed) the database at path and loads the
// current state. A missing or unparseable record degrades to the schema
// default rather than failing the caller.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS workflow_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create workflow_state table: %w", err)
	}

	s := &Store{db: db}
	s.state = s.load()
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// load reads the record under StateKey. It never fails the caller:
// absent or corrupt data falls back to the schema default.
func (s *Store) load() *workflow.State {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM workflow_state WHERE key = ?`, StateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return workflow.DefaultState()
	}
	if err != nil {
		log.Printf("[Store] Failed to read state, using defaults: %v", err)
		return workflow.DefaultState()
	}

	var st workflow.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		log.Printf("[Store] Stored state unparseable, using defaults: %v", err)
		return workflow.DefaultState()
	}
	st.Normalize()
	return &st
}

// State returns a deep copy of the current state.
func (s *Store) State() *workflow.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// SetField updates exactly one field and writes the full state to disk.
// The returned state is a copy reflecting the update.
func (s *Store) SetField(v workflow.Variant, stage workflow.Stage, field, value string) (*workflow.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.SetField(v, stage, field, value); err != nil {
		return nil, err
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return s.state.Clone(), nil
}

// Reset clears one variant back to the schema default and persists.
func (s *Store) Reset(v workflow.Variant) (*workflow.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Reset(v)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return s.state.Clone(), nil
}

// Completion reports the completion percentage for a variant.
func (s *Store) Completion(v workflow.Variant) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Completion(v)
}

func (s *Store) persist() error {
	raw, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("serialize state: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO workflow_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		StateKey, string(raw))
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
