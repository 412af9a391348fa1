package db

import (
	"context"
	"time"

	"github.com/assiaelattar/microbit-app/pkg/rover"
)

// CommandEntry is one transmitted command word.
type CommandEntry struct {
	ID      int64     `json:"id"`
	Command string    `json:"command"`
	Source  string    `json:"source"`
	SentAt  time.Time `json:"sent_at"`
}

// CommandLogStore records and queries transmitted commands.
// It satisfies rover.Recorder.
type CommandLogStore interface {
	Record(ctx context.Context, cmd rover.Command, source string) error
	Recent(ctx context.Context, limit int) ([]CommandEntry, error)
}

// CommandLog returns a CommandLogStore for this database.
func (db *DB) CommandLog() CommandLogStore {
	return &commandLogStore{db: db}
}

type commandLogStore struct {
	db *DB
}

func (s *commandLogStore) Record(ctx context.Context, cmd rover.Command, source string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO command_log (command, source) VALUES (?, ?)
	`, string(cmd), source)
	return err
}

func (s *commandLogStore) Recent(ctx context.Context, limit int) ([]CommandEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, command, source, sent_at
		FROM command_log ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []CommandEntry
	for rows.Next() {
		var e CommandEntry
		var sentAt string
		if err := rows.Scan(&e.ID, &e.Command, &e.Source, &sentAt); err != nil {
			return nil, err
		}
		if e.SentAt, err = parseTimestamp("sent_at", sentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
