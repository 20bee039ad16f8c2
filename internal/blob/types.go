// Package blob re-exports core blob abstractions and selects a backend for
// the record store. Packages outside internal/blob depend on blob.Store and
// never import internal/infra/blob directly.
package blob

import (
	"recipecost/internal/blob/core"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory driver.
	DriverMemory = core.DriverMemory
	// DriverSQLite keeps blobs in an embedded sqlite file.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres keeps blobs in a PostgreSQL table.
	DriverPostgres = core.DriverPostgres
)

var (
	// ErrNotFound is wrapped by every driver for missing keys.
	ErrNotFound = core.ErrNotFound
	// ErrExists is wrapped by create-only puts on existing keys.
	ErrExists = core.ErrExists
)
