package settings

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

const createSettingsTable = `
CREATE TABLE IF NOT EXISTS relay_settings (
	name       text PRIMARY KEY,
	settings   jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// PostgresStore persists settings as one JSONB row per sink name, so a
// relay host can restart and pick up where operators left it.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}
	if _, err := db.Exec(createSettingsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create settings table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(key string) (map[string]any, error) {
	var raw []byte
	err := s.db.QueryRow(`SELECT settings FROM relay_settings WHERE name = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings for %q: %w", key, err)
	}

	values := map[string]any{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode settings for %q: %w", key, err)
	}
	return values, nil
}

func (s *PostgresStore) Put(key string, values map[string]any) error {
	raw, err := json.Marshal(encodableValues(values))
	if err != nil {
		return fmt.Errorf("encode settings for %q: %w", key, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO relay_settings (name, settings, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET settings = EXCLUDED.settings, updated_at = now()`,
		key, raw)
	if err != nil {
		return fmt.Errorf("store settings for %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var _ Store = (*PostgresStore)(nil)
