package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two recorded filesystem operations.
type Kind string

const (
	KindMove   Kind = "move"
	KindDelete Kind = "delete"
)

// Entry is one performed operation. Entries are recorded only after the
// operation succeeded and are never mutated afterwards.
type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	Kind        Kind      `json:"kind"`
	Source      string    `json:"source"`
	Destination string    `json:"destination,omitempty"`
}

// Stats summarizes one run for the history record.
type Stats struct {
	Categorized     int `json:"categorized"`
	TempRemoved     int `json:"temp_removed"`
	DuplicatesMoved int `json:"duplicates_moved"`
	PDFsMerged      int `json:"pdfs_merged"`
	Errors          int `json:"errors"`
}

// Session groups the operations of one run under a shared identifier so undo
// can replay exactly one run.
type Session struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	Operations []Entry   `json:"operations"`
	Stats      Stats     `json:"stats"`
}

// Log is the append-only persisted sequence of sessions. One file per source
// directory; runs append, undo pops.
type Log struct {
	path     string
	sessions []Session
	current  *Session
}

// Open reads the history file at path. A missing file yields an empty log.
func Open(path string) (*Log, error) {
	log := &Log{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return log, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(data) == 0 {
		return log, nil
	}
	if err := json.Unmarshal(data, &log.sessions); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", path, err)
	}
	return log, nil
}

// Begin starts a new session and returns its identifier.
func (l *Log) Begin() string {
	l.current = &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	return l.current.ID
}

// RecordMove appends a move entry to the current session.
func (l *Log) RecordMove(source, destination string) {
	l.record(Entry{
		Timestamp:   time.Now().UTC(),
		Kind:        KindMove,
		Source:      source,
		Destination: destination,
	})
}

// RecordDelete appends a delete entry to the current session.
func (l *Log) RecordDelete(source string) {
	l.record(Entry{
		Timestamp: time.Now().UTC(),
		Kind:      KindDelete,
		Source:    source,
	})
}

func (l *Log) record(entry Entry) {
	if l.current == nil {
		return
	}
	l.current.Operations = append(l.current.Operations, entry)
}

// SetStats attaches run statistics to the current session.
func (l *Log) SetStats(stats Stats) {
	if l.current == nil {
		return
	}
	l.current.Stats = stats
}

// Close appends the current session to the persisted list and writes the
// file. Sessions without operations are discarded so empty runs leave no
// trace. Close is a no-op when no session was begun.
func (l *Log) Close() error {
	if l.current == nil {
		return nil
	}
	session := *l.current
	l.current = nil
	if len(session.Operations) == 0 {
		return nil
	}
	l.sessions = append(l.sessions, session)
	return l.persist()
}

// Sessions returns the persisted sessions, oldest first.
func (l *Log) Sessions() []Session {
	return l.sessions
}

// Latest returns the most recent persisted session.
func (l *Log) Latest() (Session, bool) {
	if len(l.sessions) == 0 {
		return Session{}, false
	}
	return l.sessions[len(l.sessions)-1], true
}

// RemoveLatest drops the most recent session and persists the file, so a
// repeated undo never replays stale state.
func (l *Log) RemoveLatest() error {
	if len(l.sessions) == 0 {
		return errors.New("history is empty")
	}
	l.sessions = l.sessions[:len(l.sessions)-1]
	return l.persist()
}

// Path returns the history file location.
func (l *Log) Path() string {
	return l.path
}

func (l *Log) persist() error {
	data, err := json.MarshalIndent(l.sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
