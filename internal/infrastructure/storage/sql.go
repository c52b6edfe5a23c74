package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"FakeNewsDetector/internal/domain"
)

const (
	resultsTable = "extension_storage"

	sqlMigration = `CREATE TABLE IF NOT EXISTS extension_storage (
	name       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at BIGINT NOT NULL
)`
)

// SQLStore persists the verdict as one row in Postgres or SQLite.
type SQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	key     string
}

var _ Store = (*SQLStore)(nil)

// OpenSQLStore opens driver ("postgres" or "sqlite"), pings it and creates the table.
func OpenSQLStore(ctx context.Context, driver, dsn, key string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}

	store := NewSQLStore(db, driver, key)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStore wires an open sql.DB; driver picks the placeholder style.
func NewSQLStore(db *sql.DB, driver, key string) *SQLStore {
	var format sq.PlaceholderFormat = sq.Question
	if driver == "postgres" || driver == "pgx" {
		format = sq.Dollar
	}
	return &SQLStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
		key:     key,
	}
}

// Migrate creates the storage table when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqlMigration); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Load returns the stored verdict or domain.ErrNoResult.
func (s *SQLStore) Load(ctx context.Context) (domain.Verdict, error) {
	query, args, err := s.builder.
		Select("payload").
		From(resultsTable).
		Where(sq.Eq{"name": s.key}).
		ToSql()
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("build select: %w", err)
	}

	var payload string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Verdict{}, domain.ErrNoResult
	}
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("query result: %w", err)
	}
	return decodeVerdict([]byte(payload))
}

// Save upserts the verdict under the configured key.
func (s *SQLStore) Save(ctx context.Context, v domain.Verdict) error {
	raw, err := encodeVerdict(v)
	if err != nil {
		return err
	}

	query, args, err := s.builder.
		Insert(resultsTable).
		Columns("name", "payload", "updated_at").
		Values(s.key, string(raw), time.Now().UTC().Unix()).
		Suffix("ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
