package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"recipecost/internal/blob"
	"recipecost/internal/logger"
	"recipecost/internal/recordstore"
)

type fixture struct {
	mem  blob.Store
	rs   *recordstore.Store
	out  *bytes.Buffer
	logs *bytes.Buffer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mem := blob.NewMemory()
	return newFixtureOn(t, mem)
}

func newFixtureOn(t *testing.T, b blob.Store) fixture {
	t.Helper()
	return fixture{mem: b, rs: recordstore.New(b), out: &bytes.Buffer{}, logs: &bytes.Buffer{}}
}

func (f fixture) opts() []Option {
	return []Option{WithOutput(f.out), WithLogger(logger.New(logger.LevelVerbose, f.logs))}
}

// brokenBlob fails every write and read with errDisk.
type brokenBlob struct{ blob.Store }

var errDisk = errors.New("disk unavailable")

func (brokenBlob) Put(context.Context, string, io.Reader, blob.PutOptions) (blob.Info, error) {
	return blob.Info{}, errDisk
}

func (brokenBlob) Get(context.Context, string) (blob.Info, io.ReadCloser, error) {
	return blob.Info{}, nil, errDisk
}
