package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// HistoryLimit is how many revisions are kept per document.
const HistoryLimit = 20

// ErrNotFound is returned when a requested revision does not exist.
var ErrNotFound = errors.New("not found")

// Read returns the body stored under key, or nil when nothing was stored.
func (s *Store) Read(key string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow(`SELECT body FROM documents WHERE key = ?`, key).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document %q: %w", key, err)
	}
	return body, nil
}

// Write replaces the body stored under key and records it as the newest
// revision, pruning revisions beyond HistoryLimit.
func (s *Store) Write(key string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin write %q: %w", key, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		key, data, now,
	); err != nil {
		return fmt.Errorf("write document %q: %w", key, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO document_history (key, body, saved_at) VALUES (?, ?, ?)`,
		key, data, now,
	); err != nil {
		return fmt.Errorf("record revision %q: %w", key, err)
	}
	if _, err := tx.Exec(
		`DELETE FROM document_history WHERE key = ? AND id NOT IN (
			SELECT id FROM document_history WHERE key = ? ORDER BY id DESC LIMIT ?
		)`,
		key, key, HistoryLimit,
	); err != nil {
		return fmt.Errorf("prune revisions %q: %w", key, err)
	}
	return tx.Commit()
}

// History lists the revisions of key, newest first. limit <= 0 lists all.
func (s *Store) History(key string, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = HistoryLimit
	}
	rows, err := s.db.Query(
		`SELECT id, key, length(body), saved_at FROM document_history
		 WHERE key = ? ORDER BY id DESC LIMIT ?`, key, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions %q: %w", key, err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var r Revision
		var savedAt string
		if err := rows.Scan(&r.ID, &r.Key, &r.Size, &savedAt); err != nil {
			return nil, err
		}
		r.SavedAt, _ = time.Parse(time.RFC3339, savedAt)
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// Revision returns the body of one revision of key.
func (s *Store) Revision(key string, id int64) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow(
		`SELECT body FROM document_history WHERE key = ? AND id = ?`, key, id,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("revision %d of %q: %w", id, key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get revision %d of %q: %w", id, key, err)
	}
	return body, nil
}

// Restore makes an earlier revision the current body of key. The restore is
// itself recorded as a new revision.
func (s *Store) Restore(key string, id int64) ([]byte, error) {
	body, err := s.Revision(key, id)
	if err != nil {
		return nil, err
	}
	if err := s.Write(key, body); err != nil {
		return nil, fmt.Errorf("restore revision %d: %w", id, err)
	}
	return body, nil
}
