// ABOUTME: SQLite-backed DocumentStore with version-CAS appends and bounded backoff retry.
// ABOUTME: Operations are stored as JSON rows keyed by (doc, seq); op_id uniqueness gives idempotence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	_ "github.com/mattn/go-sqlite3"

	"github.com/scrawl-app/scrawl/core"
)

// appendMaxRetries bounds the optimistic-concurrency retry loop.
const appendMaxRetries = 5

// errVersionConflict marks a lost CAS race inside the retry loop.
var errVersionConflict = errors.New("version conflict")

// SqliteStore is a durable DocumentStore backed by SQLite in WAL mode.
type SqliteStore struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenSqlite opens or creates the store database at path. A non-positive
// ttl uses DefaultPresenceTTL.
func OpenSqlite(path string, ttl time.Duration) (*SqliteStore, error) {
	if ttl <= 0 {
		ttl = DefaultPresenceTTL
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			doc_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			version INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS operations (
			op_id TEXT PRIMARY KEY,
			doc_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			body TEXT NOT NULL,
			UNIQUE (doc_id, seq),
			FOREIGN KEY (doc_id) REFERENCES documents(doc_id)
		);

		CREATE TABLE IF NOT EXISTS presences (
			doc_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			body TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (doc_id, user_id),
			FOREIGN KEY (doc_id) REFERENCES documents(doc_id)
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SqliteStore{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

// Create inserts a new document and seeds its log with one add per element.
func (s *SqliteStore) Create(ctx context.Context, title string, elements []core.Element) (*core.Document, error) {
	id := core.NewID()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (doc_id, title, version, created_at, updated_at) VALUES (?, ?, 0, ?, ?)`,
		id, title, now, now,
	); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	for i, el := range elements {
		op := core.NewAdd(el)
		body, err := json.Marshal(op)
		if err != nil {
			return nil, fmt.Errorf("marshal seed op: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO operations (op_id, doc_id, seq, body) VALUES (?, ?, ?, ?)`,
			op.ID, id, i, string(body),
		); err != nil {
			return nil, fmt.Errorf("insert seed op: %w", err)
		}
	}
	if len(elements) > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET version = ? WHERE doc_id = ?`, len(elements), id,
		); err != nil {
			return nil, fmt.Errorf("bump seed version: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}
	return s.Get(ctx, id)
}

// Get loads the full document: log, projected elements, and live presences.
func (s *SqliteStore) Get(ctx context.Context, id string) (*core.Document, error) {
	var title, updatedAt string
	var version int
	err := s.db.QueryRowContext(ctx,
		`SELECT title, version, updated_at FROM documents WHERE doc_id = ?`, id,
	).Scan(&title, &version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	ops, err := s.OperationsSince(ctx, id, 0)
	if err != nil {
		return nil, err
	}
	presences, err := s.Presences(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &core.Document{
		ID:         id,
		Title:      title,
		Elements:   core.Project(ops),
		UpdatedAt:  updated,
		Ops:        ops,
		AckVersion: version,
		Presences:  presences,
	}, nil
}

// AppendOperations appends ops atomically under a version compare-and-swap.
// A lost race recomputes from the latest version and retries with
// exponential backoff, bounded at appendMaxRetries, then surfaces a
// ConflictError.
func (s *SqliteStore) AppendOperations(ctx context.Context, id string, ops []core.Operation) error {
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return err
		}
	}

	attempt := 0
	try := func() error {
		attempt++
		err := s.appendOnce(ctx, id, ops)
		if errors.Is(err, errVersionConflict) {
			return err // retryable
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), appendMaxRetries)
	if err := backoff.Retry(try, backoff.WithContext(policy, ctx)); err != nil {
		if errors.Is(err, errVersionConflict) {
			return &ConflictError{DocID: id, Attempts: attempt}
		}
		return err
	}
	return nil
}

func (s *SqliteStore) appendOnce(ctx context.Context, id string, ops []core.Operation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var version int
	err = tx.QueryRowContext(ctx, `SELECT version FROM documents WHERE doc_id = ?`, id).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDocumentNotFound
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}

	seq := version
	for _, op := range ops {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM operations WHERE op_id = ?`, op.ID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check op: %w", err)
		}
		if exists > 0 {
			continue
		}
		body, err := json.Marshal(op)
		if err != nil {
			return fmt.Errorf("marshal op: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO operations (op_id, doc_id, seq, body) VALUES (?, ?, ?, ?)`,
			op.ID, id, seq, string(body),
		); err != nil {
			return fmt.Errorf("insert op: %w", err)
		}
		seq++
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := tx.ExecContext(ctx,
		`UPDATE documents SET version = ?, updated_at = ? WHERE doc_id = ? AND version = ?`,
		seq, now, id, version,
	)
	if err != nil {
		return fmt.Errorf("bump version: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Another writer advanced the version between our read and
		// write; recompute from latest state on the next attempt.
		return errVersionConflict
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// OperationsSince returns the operations with seq >= version in log order.
func (s *SqliteStore) OperationsSince(ctx context.Context, id string, version int) ([]core.Operation, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE doc_id = ?`, id,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check document: %w", err)
	}
	if exists == 0 {
		return nil, ErrDocumentNotFound
	}

	if version < 0 {
		version = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM operations WHERE doc_id = ? AND seq >= ? ORDER BY seq`,
		id, version,
	)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ops []core.Operation
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		var op core.Operation
		if err := json.Unmarshal([]byte(body), &op); err != nil {
			return nil, fmt.Errorf("decode operation: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}
	return ops, nil
}

// UpdatePresence upserts a collaborator's live cursor.
func (s *SqliteStore) UpdatePresence(ctx context.Context, id string, presence core.Presence) error {
	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE doc_id = ?`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check document: %w", err)
	}
	if exists == 0 {
		return ErrDocumentNotFound
	}

	presence.UpdatedAt = time.Now().UTC()
	body, err := json.Marshal(presence)
	if err != nil {
		return fmt.Errorf("marshal presence: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO presences (doc_id, user_id, body, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(doc_id, user_id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at`,
		id, presence.UserID, string(body), presence.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}
	return nil
}

// Presences returns presences updated within the TTL window.
func (s *SqliteStore) Presences(ctx context.Context, id string) ([]core.Presence, error) {
	cutoff := time.Now().UTC().Add(-s.ttl).Format(time.RFC3339Nano)
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM presences WHERE doc_id = ? AND updated_at > ?`,
		id, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("query presences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []core.Presence
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan presence: %w", err)
		}
		var p core.Presence
		if err := json.Unmarshal([]byte(body), &p); err != nil {
			return nil, fmt.Errorf("decode presence: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presences: %w", err)
	}
	return out, nil
}
