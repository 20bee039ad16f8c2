package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
)

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cases := []struct {
		name string
		cfg  Config
		want Driver
	}{
		{"default", Config{FSRoot: filepath.Join(dir, "fs-default")}, DriverFilesystem},
		{"fs", Config{Driver: DriverFilesystem, FSRoot: filepath.Join(dir, "fs")}, DriverFilesystem},
		{"memory", Config{Driver: DriverMemory}, DriverMemory},
		{"sqlite", Config{Driver: DriverSQLite, SQLitePath: filepath.Join(dir, "blobs.db")}, DriverSQLite},
		{"s3", Config{Driver: DriverS3, S3: S3Config{Bucket: "kitchen", Endpoint: "https://mock.s3.local", AccessKeyID: "a", SecretAccessKey: "b"}}, DriverS3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Open(ctx, tc.cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer func() { _ = Close(s) }()
			if s.Driver() != tc.want {
				t.Fatalf("driver %s want %s", s.Driver(), tc.want)
			}
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "floppy"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	s, err := Open(context.Background(), Config{Driver: DriverS3})
	if err == nil {
		t.Fatalf("expected missing bucket error")
	}
	if s != nil {
		t.Fatalf("failed open returned a non-nil store: %#v", s)
	}
}

// Every backend reached through the facade shares the same not-found and
// overwrite semantics.
func TestBackendsShareSemantics(t *testing.T) {
	ctx := context.Background()
	fsStore, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("fs: %v", err)
	}
	sqlStore, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "b.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer func() { _ = Close(sqlStore) }()
	for _, s := range []Store{fsStore, NewMemory(), NewMockS3ForTests(), sqlStore} {
		t.Run(string(s.Driver()), func(t *testing.T) {
			if _, _, err := s.Get(ctx, "recipes.bin"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if _, err := s.Put(ctx, "recipes.bin", bytes.NewReader([]byte("a")), PutOptions{}); err != nil {
				t.Fatalf("put: %v", err)
			}
			if _, err := s.Put(ctx, "recipes.bin", bytes.NewReader([]byte("b")), PutOptions{}); !errors.Is(err, ErrExists) {
				t.Fatalf("expected ErrExists, got %v", err)
			}
			if _, err := s.Put(ctx, "recipes.bin", bytes.NewReader([]byte("bc")), PutOptions{Overwrite: true}); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			_, rc, err := s.Get(ctx, "recipes.bin")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer func() { _ = rc.Close() }()
			if b, _ := io.ReadAll(rc); string(b) != "bc" {
				t.Fatalf("content %q", b)
			}
		})
	}
}

func TestCloseNonCloser(t *testing.T) {
	if err := Close(NewMemory()); err != nil {
		t.Fatalf("close memory: %v", err)
	}
}
