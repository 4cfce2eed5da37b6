package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteCache implements GeocodeCache using modernc.org/sqlite.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteCache{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	address_hash TEXT PRIMARY KEY,
	latitude     REAL NOT NULL DEFAULT 0,
	longitude    REAL NOT NULL DEFAULT 0,
	matched      INTEGER NOT NULL DEFAULT 0,
	cached_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Migrate creates the cache table if it does not exist.
func (s *SQLiteCache) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Get looks up a cached result by address hash.
func (s *SQLiteCache) Get(ctx context.Context, key string) (*CachedResult, bool, error) {
	var r CachedResult
	var matched int
	err := s.db.QueryRowContext(ctx,
		`SELECT latitude, longitude, matched FROM geocode_cache WHERE address_hash = ?`, key,
	).Scan(&r.Latitude, &r.Longitude, &matched)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite: get cached geocode")
	}
	r.Matched = matched != 0
	return &r, true, nil
}

// Put upserts a geocode result, match or miss.
func (s *SQLiteCache) Put(ctx context.Context, key string, result CachedResult) error {
	matched := 0
	if result.Matched {
		matched = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (address_hash, latitude, longitude, matched, cached_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT (address_hash) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			matched = excluded.matched,
			cached_at = datetime('now')`,
		key, result.Latitude, result.Longitude, matched,
	)
	return eris.Wrap(err, "sqlite: put cached geocode")
}

// Close closes the underlying database.
func (s *SQLiteCache) Close() error {
	return s.db.Close()
}
