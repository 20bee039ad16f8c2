// Package sqlstore implements core.Store on top of a single database/sql
// table, one row per key. It backs the sqlite and postgres blob drivers.
package sqlstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"recipecost/internal/blob/core"
)

const (
	defaultSQLitePath = "recipecost.db"
	defaultDSN        = "postgres://localhost/recipecost?sslmode=disable"
)

// Dialect captures the few statements that differ between sqlite and postgres.
type Dialect struct {
	Driver     core.Driver
	SQLDriver  string // database/sql driver name
	PayloadSQL string // column type for blob payloads
	SizeFunc   string // byte length function
	Numbered   bool   // $1 placeholders instead of ?
}

var (
	// SQLite targets modernc.org/sqlite.
	SQLite = Dialect{Driver: core.DriverSQLite, SQLDriver: "sqlite", PayloadSQL: "BLOB", SizeFunc: "length"}
	// Postgres targets pgx through its database/sql adapter.
	Postgres = Dialect{Driver: core.DriverPostgres, SQLDriver: "pgx", PayloadSQL: "BYTEA", SizeFunc: "octet_length", Numbered: true}
)

// Rebind rewrites ? placeholders into the dialect's form.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var sqlOpen = sql.Open

// Store persists blobs as rows of the `blobs` table.
type Store struct {
	db      *sql.DB
	dialect Dialect
	mu      sync.Mutex
}

// OpenSQLite opens (or creates) a sqlite database file and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = defaultSQLitePath
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sqlOpen(SQLite.SQLDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer keeps sqlite from reporting SQLITE_BUSY within a process
	db.SetMaxOpenConns(1)
	return New(ctx, db, SQLite)
}

// OpenPostgres connects to PostgreSQL using dsn (falls back to defaultDSN).
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sqlOpen(Postgres.SQLDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(ctx, db, Postgres)
}

// New wraps an open handle and creates the blobs table when missing.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS blobs (
		blob_key TEXT PRIMARY KEY,
		payload %s NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		metadata TEXT NOT NULL DEFAULT '',
		etag TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`, dialect.PayloadSQL)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create blobs table: %w", err)
	}
	return &Store{db: db, dialect: dialect}, nil
}

// Driver returns the dialect's blob driver identifier.
func (s *Store) Driver() core.Driver { return s.dialect.Driver }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Put writes key inside a transaction. Without opts.Overwrite an existing
// row fails with core.ErrExists; otherwise the row is upserted and keeps its
// created_at.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts core.PutOptions) (retInfo core.Info, retErr error) {
	if strings.TrimSpace(key) == "" {
		return core.Info{}, fmt.Errorf("empty key")
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, err
	}
	md, err := encodeMetadata(opts.Metadata)
	if err != nil {
		return core.Info{}, err
	}
	sum := sha256.Sum256(payload)
	etag := hex.EncodeToString(sum[:])
	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339Nano)

	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Info{}, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if !opts.Overwrite {
		var one int
		err := tx.QueryRowContext(ctx, s.dialect.Rebind(`SELECT 1 FROM blobs WHERE blob_key = ?`), key).Scan(&one)
		switch {
		case err == nil:
			return core.Info{}, fmt.Errorf("blob %s: %w", key, core.ErrExists)
		case !errors.Is(err, sql.ErrNoRows):
			return core.Info{}, err
		}
	}
	upsert := `INSERT INTO blobs(blob_key, payload, content_type, metadata, etag, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(blob_key) DO UPDATE SET payload=excluded.payload, content_type=excluded.content_type,
		metadata=excluded.metadata, etag=excluded.etag, updated_at=excluded.updated_at`
	if _, err := tx.ExecContext(ctx, s.dialect.Rebind(upsert), key, payload, opts.ContentType, md, etag, stamp, stamp); err != nil {
		return core.Info{}, fmt.Errorf("upsert %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return core.Info{}, err
	}
	return core.Info{Key: key, Size: int64(len(payload)), ContentType: opts.ContentType, ETag: etag, Metadata: core.CloneMetadata(opts.Metadata), LastModified: now}, nil
}

// Get returns the row for key with its payload as the reader.
func (s *Store) Get(ctx context.Context, key string) (core.Info, io.ReadCloser, error) {
	var (
		payload           []byte
		contentType, md   string
		etag, updatedText string
	)
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(`SELECT payload, content_type, metadata, etag, updated_at FROM blobs WHERE blob_key = ?`), key)
	if err := row.Scan(&payload, &contentType, &md, &etag, &updatedText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Info{}, nil, fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
		}
		return core.Info{}, nil, err
	}
	info, err := buildInfo(key, int64(len(payload)), contentType, md, etag, updatedText)
	if err != nil {
		return core.Info{}, nil, err
	}
	return info, io.NopCloser(bytes.NewReader(payload)), nil
}

// Head reports the row for key without reading the payload.
func (s *Store) Head(ctx context.Context, key string) (core.Info, error) {
	var (
		size              int64
		contentType, md   string
		etag, updatedText string
	)
	query := fmt.Sprintf(`SELECT %s(payload), content_type, metadata, etag, updated_at FROM blobs WHERE blob_key = ?`, s.dialect.SizeFunc)
	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), key).Scan(&size, &contentType, &md, &etag, &updatedText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Info{}, fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
		}
		return core.Info{}, err
	}
	return buildInfo(key, size, contentType, md, etag, updatedText)
}

func encodeMetadata(md map[string]string) (string, error) {
	if len(md) == 0 {
		return "", nil
	}
	b, err := json.Marshal(md)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

func buildInfo(key string, size int64, contentType, md, etag, updatedText string) (core.Info, error) {
	info := core.Info{Key: key, Size: size, ContentType: contentType, ETag: etag}
	if md != "" {
		if err := json.Unmarshal([]byte(md), &info.Metadata); err != nil {
			return core.Info{}, fmt.Errorf("decode metadata %s: %w", key, err)
		}
	}
	if updatedText != "" {
		ts, err := time.Parse(time.RFC3339Nano, updatedText)
		if err != nil {
			return core.Info{}, fmt.Errorf("decode updated_at %s: %w", key, err)
		}
		info.LastModified = ts
	}
	return info, nil
}
