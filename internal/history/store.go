// Package history persists a record of every forwarded email so the same
// expense is never submitted to the ledger twice.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one forwarded email and the expense it produced.
type Record struct {
	ID             string
	IdempotencyKey string
	Description    string
	Cost           string
	Currency       string
	ExpenseID      int64
	Confidence     float64
	CreatedAt      time.Time
}

// Key derives the idempotency key for an email: a hex SHA-256 over subject
// and body. Two emails with identical content always map to the same key.
func Key(subject, body string) string {
	sum := sha256.Sum256([]byte(subject + "\n" + body))
	return hex.EncodeToString(sum[:])
}

// Store is a PostgreSQL-backed forward history.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the forward_history table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS forward_history (
			id              uuid PRIMARY KEY,
			idempotency_key text NOT NULL UNIQUE,
			description     text NOT NULL,
			cost            text NOT NULL,
			currency        text NOT NULL,
			expense_id      bigint NOT NULL,
			confidence      double precision NOT NULL,
			created_at      timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create forward_history table: %w", err)
	}
	return nil
}

// AlreadyForwarded reports whether an email with this idempotency key has
// been forwarded before.
func (s *Store) AlreadyForwarded(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM forward_history WHERE idempotency_key = $1)", key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check forward history: %w", err)
	}
	return exists, nil
}

// RecordForward stores one forwarded email. A missing ID gets a fresh uuid.
func (s *Store) RecordForward(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO forward_history (id, idempotency_key, description, cost, currency, expense_id, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.IdempotencyKey, rec.Description, rec.Cost, rec.Currency, rec.ExpenseID, rec.Confidence,
	)
	if err != nil {
		return fmt.Errorf("record forward %q: %w", rec.IdempotencyKey, err)
	}
	return nil
}

// Recent returns the most recently forwarded expenses, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, idempotency_key, description, cost, currency, expense_id, confidence, created_at
		FROM forward_history
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query forward history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.IdempotencyKey, &r.Description, &r.Cost, &r.Currency, &r.ExpenseID, &r.Confidence, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan forward history row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
