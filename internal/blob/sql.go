package blob

import (
	"context"

	"recipecost/internal/infra/blob/sqlstore"
)

// NewSQLite opens a sqlite-backed blob.Store at path.
func NewSQLite(ctx context.Context, path string) (Store, error) {
	s, err := sqlstore.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewPostgres opens a PostgreSQL-backed blob.Store using dsn.
func NewPostgres(ctx context.Context, dsn string) (Store, error) {
	s, err := sqlstore.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}
