package binder

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/soundlane/renderplan/internal/compiler"
	"github.com/soundlane/renderplan/internal/graph"
)

//go:embed schema.sql
var schemaSQL string

// Asset is one registered media asset.
type Asset struct {
	ID              uuid.UUID
	Path            string
	SampleRate      int
	Channels        int
	DurationSamples int64
}

// Catalog is a SQLite-backed asset registry implementing compiler.Binder.
//
// The database is configured with WAL mode for concurrent read access and
// a single writer connection to avoid SQLITE_BUSY errors.
type Catalog struct {
	db *sql.DB
}

// Open creates or opens a catalog database at the given path.
// Idempotent: the schema is applied on every open.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect catalog: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Put registers or replaces an asset.
func (c *Catalog) Put(ctx context.Context, a Asset) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO assets (asset_id, path, sample_rate, channels, duration_samples)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(asset_id) DO UPDATE SET
		   path = excluded.path,
		   sample_rate = excluded.sample_rate,
		   channels = excluded.channels,
		   duration_samples = excluded.duration_samples`,
		a.ID.String(), a.Path, a.SampleRate, a.Channels, a.DurationSamples)
	if err != nil {
		return fmt.Errorf("put asset %s: %w", a.ID, err)
	}
	return nil
}

// Get looks up an asset by id. Returns (nil, nil) when absent.
func (c *Catalog) Get(ctx context.Context, id uuid.UUID) (*Asset, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT path, sample_rate, channels, duration_samples
		 FROM assets WHERE asset_id = ?`, id.String())

	a := Asset{ID: id}
	err := row.Scan(&a.Path, &a.SampleRate, &a.Channels, &a.DurationSamples)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get asset %s: %w", id, err)
	}
	return &a, nil
}

// Bind implements compiler.Binder. Unknown assets and query failures both
// report "no handle"; the compiler records the diagnostic, never an error.
func (c *Catalog) Bind(clipID, assetID uuid.UUID, hint *graph.FormatHint, quality graph.Quality) (*compiler.SourceHandle, bool) {
	a, err := c.Get(context.Background(), assetID)
	if err != nil || a == nil {
		return nil, false
	}
	return &compiler.SourceHandle{
		AssetID:         a.ID,
		Path:            a.Path,
		SampleRate:      a.SampleRate,
		Channels:        a.Channels,
		DurationSamples: a.DurationSamples,
	}, true
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return nil
}
