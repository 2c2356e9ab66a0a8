package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"go-venuetraffic/types"
)

// ErrNoObservations is returned when a latest-observation read hits an
// empty log.
var ErrNoObservations = errors.New("store: no observations recorded")

const (
	inputFile    = "input.json"
	outputFile   = "output.json"
	eventLogFile = "event_log.jsonl"
	chatLogFile  = "chat_log.jsonl"
)

// Store persists the observation and decision logs as whole-file JSON
// arrays and the audit trails as line-delimited JSON. All mutations are
// serialized behind one mutex so concurrent appends cannot drop records.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates the data directory if absent and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: failed to create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) InputPath() string  { return filepath.Join(s.dir, inputFile) }
func (s *Store) OutputPath() string { return filepath.Join(s.dir, outputFile) }

// AppendObservation appends one record to the observation log.
func (s *Store) AppendObservation(rec types.ObservationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readObservations()
	records = append(records, rec)
	return writeArray(s.InputPath(), records)
}

// Observations returns the full observation log in append order.
func (s *Store) Observations() []types.ObservationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readObservations()
}

// LatestObservation returns the most recently appended record.
func (s *Store) LatestObservation() (types.ObservationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readObservations()
	if len(records) == 0 {
		return types.ObservationRecord{}, ErrNoObservations
	}
	return records[len(records)-1], nil
}

// AppendDecision appends one record to the decision log.
func (s *Store) AppendDecision(rec types.DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readDecisions()
	records = append(records, rec)
	return writeArray(s.OutputPath(), records)
}

// Decisions returns the full decision log in append order.
func (s *Store) Decisions() []types.DecisionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readDecisions()
}

// AppendEventLog appends one audit line to the event log.
func (s *Store) AppendEventLog(entry types.EventLogEntry) error {
	return s.appendLine(eventLogFile, entry)
}

// AppendChatLog appends one conversation turn to the chat log.
func (s *Store) AppendChatLog(entry types.ChatLogEntry) error {
	return s.appendLine(chatLogFile, entry)
}

// readObservations loads the observation log. Absent or corrupt content is
// treated as an empty log; corruption is logged, not propagated.
func (s *Store) readObservations() []types.ObservationRecord {
	b, err := os.ReadFile(s.InputPath())
	if err != nil {
		return nil
	}
	var records []types.ObservationRecord
	if err := json.Unmarshal(b, &records); err != nil {
		log.Printf("store: discarding corrupt observation log: %v", err)
		return nil
	}
	return records
}

func (s *Store) readDecisions() []types.DecisionRecord {
	b, err := os.ReadFile(s.OutputPath())
	if err != nil {
		return nil
	}
	var records []types.DecisionRecord
	if err := json.Unmarshal(b, &records); err != nil {
		log.Printf("store: discarding corrupt decision log: %v", err)
		return nil
	}
	return records
}

func writeArray(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("store: failed to marshal log: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("store: failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Store) appendLine(name string, entry any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("store: failed to marshal log entry: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("store: failed to open %s: %w", name, err)
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("store: failed to append to %s: %w", name, err)
	}
	return nil
}
