package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgresStore keeps every collection in one JSONB table keyed by
// (collection, key).
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresStore creates the table if needed. table is quoted, so any
// name is safe to pass.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, table string) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool, table: pq.QuoteIdentifier(table)}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			collection TEXT NOT NULL,
			key        TEXT NOT NULL,
			body       JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, key)
		)`, s.table)
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("docstore: create table: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, key string) (Document, error) {
	query := fmt.Sprintf(`SELECT body FROM %s WHERE collection = $1 AND key = $2`, s.table)

	var body []byte
	err := s.pool.QueryRow(ctx, query, collection, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(body)
}

func (s *PostgresStore) Set(ctx context.Context, collection, key string, doc Document, mode WriteMode) error {
	clean, err := normalize(doc)
	if err != nil {
		return err
	}
	if mode == Replace {
		return s.upsert(ctx, s.pool, collection, key, clean)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`SELECT body FROM %s WHERE collection = $1 AND key = $2 FOR UPDATE`, s.table)
	existing := Document{}
	var body []byte
	err = tx.QueryRow(ctx, query, collection, key).Scan(&body)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return err
	default:
		if existing, err = decode(body); err != nil {
			return err
		}
	}

	if err := s.upsert(ctx, tx, collection, key, MergeFields(existing, clean)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (s *PostgresStore) upsert(ctx context.Context, db execer, collection, key string, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: encode document: %w", err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (collection, key, body, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (collection, key) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at`, s.table)

	// Sent as text: under the simple query protocol a []byte would be
	// encoded as bytea.
	_, err = db.Exec(ctx, query, collection, key, string(body))
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, collection, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE collection = $1 AND key = $2`, s.table)
	_, err := s.pool.Exec(ctx, query, collection, key)
	return err
}

// Query matches with JSONB containment, which for scalar values is equality.
func (s *PostgresStore) Query(ctx context.Context, collection, field string, value any) ([]Snapshot, error) {
	filter, err := json.Marshal(map[string]any{field: value})
	if err != nil {
		return nil, fmt.Errorf("docstore: encode filter: %w", err)
	}
	query := fmt.Sprintf(`SELECT key, body FROM %s WHERE collection = $1 AND body @> $2::jsonb ORDER BY key`, s.table)
	return s.collect(ctx, query, collection, string(filter))
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([]Snapshot, error) {
	query := fmt.Sprintf(`SELECT key, body FROM %s WHERE collection = $1 ORDER BY key`, s.table)
	return s.collect(ctx, query, collection)
}

func (s *PostgresStore) collect(ctx context.Context, query string, args ...any) ([]Snapshot, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var key string
		var body []byte
		if err := rows.Scan(&key, &body); err != nil {
			return nil, err
		}
		doc, err := decode(body)
		if err != nil {
			return nil, err
		}
		out = append(out, Snapshot{Key: key, Data: doc})
	}
	return out, rows.Err()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool. The store owns it once constructed.
func (s *PostgresStore) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}
