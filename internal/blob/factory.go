package blob

import (
	"context"
	"fmt"
	"io"
)

// Config selects and parameterises a backend. Zero value opens the
// filesystem driver under ./kitchendata.
type Config struct {
	Driver      Driver
	FSRoot      string
	S3          S3Config
	SQLitePath  string
	PostgresDSN string
}

// Open selects a blob.Store implementation from cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

// Close releases backend resources for drivers that hold them (sql handles).
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
