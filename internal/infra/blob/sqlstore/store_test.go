package sqlstore

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"recipecost/internal/blob/core"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "blobs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	if s.Driver() != core.DriverSQLite {
		t.Fatalf("driver: %s", s.Driver())
	}
	info, err := s.Put(ctx, "ingredients.bin", bytes.NewReader([]byte{0x01, 0x00, 0x02}), core.PutOptions{ContentType: "application/x-gob", Metadata: map[string]string{"marker": "#END_INGREDIENT#"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 3 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := s.Put(ctx, "ingredients.bin", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := s.Put(ctx, "ingredients.bin", bytes.NewReader([]byte("salt")), core.PutOptions{Overwrite: true, ContentType: "application/json"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, rc, err := s.Get(ctx, "ingredients.bin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "salt" || got.ContentType != "application/json" || got.Metadata != nil {
		t.Fatalf("unexpected get %+v %q", got, b)
	}
	h, err := s.Head(ctx, "ingredients.bin")
	if err != nil || h.Size != 4 || h.ETag != got.ETag || h.LastModified.IsZero() {
		t.Fatalf("head: %+v %v", h, err)
	}
}

func TestSQLiteStoreMissingAndEmptyKey(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	if _, _, err := s.Get(ctx, "recipes.bin"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	if _, err := s.Head(ctx, "recipes.bin"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("head: %v", err)
	}
	if _, err := s.Put(ctx, " ", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
}

func TestSQLiteStoreReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keep.db")
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Put(ctx, "register.bin", bytes.NewReader([]byte("alice")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	_ = s.Close()
	s2, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close() }()
	if h, err := s2.Head(ctx, "register.bin"); err != nil || h.Size != 5 {
		t.Fatalf("head after reopen: %+v %v", h, err)
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT a FROM blobs WHERE blob_key = ? AND etag = ?`
	if got := SQLite.Rebind(q); got != q {
		t.Fatalf("sqlite rebind changed query: %s", got)
	}
	if got := Postgres.Rebind(q); got != `SELECT a FROM blobs WHERE blob_key = $1 AND etag = $2` {
		t.Fatalf("postgres rebind: %s", got)
	}
}

func TestOpenErrorsPropagate(t *testing.T) {
	old := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("no driver") }
	defer func() { sqlOpen = old }()
	if _, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "x.db")); err == nil {
		t.Fatalf("expected sqlite open error")
	}
	if _, err := OpenPostgres(context.Background(), ""); err == nil {
		t.Fatalf("expected postgres open error")
	}
}

func TestBuildInfoErrors(t *testing.T) {
	if _, err := buildInfo("k", 1, "", "{", "e", ""); err == nil {
		t.Fatalf("expected metadata decode error")
	}
	if _, err := buildInfo("k", 1, "", "", "e", "yesterday"); err == nil {
		t.Fatalf("expected timestamp decode error")
	}
}
