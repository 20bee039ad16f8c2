package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"recipecost/internal/blob/core"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	if s.Driver() != core.DriverMemory {
		t.Fatalf("driver: %s", s.Driver())
	}
	md := map[string]string{"marker": "#END_MEAL#"}
	info, err := s.Put(ctx, "meals.bin", bytes.NewReader([]byte("dinner")), core.PutOptions{ContentType: "application/json", Metadata: md})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	md["marker"] = "mutated"
	if info.ETag == "" || info.Size != 6 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := s.Put(ctx, "meals.bin", bytes.NewReader([]byte("again")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := s.Put(ctx, "meals.bin", bytes.NewReader([]byte("lunch")), core.PutOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, rc, err := s.Get(ctx, "meals.bin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "lunch" {
		t.Fatalf("content: %q", b)
	}
	if got.Metadata != nil {
		t.Fatalf("overwrite without metadata should clear it: %+v", got.Metadata)
	}
}

func TestMemoryStoreMetadataIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()
	md := map[string]string{"k": "v"}
	if _, err := s.Put(ctx, "a", bytes.NewReader(nil), core.PutOptions{Metadata: md}); err != nil {
		t.Fatalf("put: %v", err)
	}
	md["k"] = "changed"
	h, err := s.Head(ctx, "a")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if h.Metadata["k"] != "v" {
		t.Fatalf("metadata not cloned on put: %+v", h.Metadata)
	}
	h.Metadata["k"] = "x"
	h2, _ := s.Head(ctx, "a")
	if h2.Metadata["k"] != "v" {
		t.Fatalf("metadata not cloned on head: %+v", h2.Metadata)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, _, err := s.Get(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	if _, err := s.Head(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("head: %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read fail") }

func TestMemoryStorePutReadError(t *testing.T) {
	if _, err := New().Put(context.Background(), "k", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.Put(ctx, "recipes.bin", bytes.NewReader([]byte("soup")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	_, rc, err := s.Get(ctx, "recipes.bin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	b[0] = 'x'
	_, rc, _ = s.Get(ctx, "recipes.bin")
	again, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(again) != "soup" {
		t.Fatalf("stored content aliased by reader: %q", again)
	}
}
