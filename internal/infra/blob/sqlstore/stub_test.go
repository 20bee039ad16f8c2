package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// stubConn is a database/sql driver connection that understands the handful
// of statements Store issues against the blobs table. It lets the postgres
// dialect run without a server.
type stubConn struct {
	mu        sync.Mutex
	Stmts     []string
	Rows      map[string]stubRow
	FailPing  bool
	FailExec  bool
	FailBegin bool
}

type stubRow struct {
	payload                     []byte
	contentType, metadata, etag string
	createdAt, updatedAt        string
}

var stubSeq atomic.Int64

// newStubDB registers a fresh stub driver and opens a handle on it.
func newStubDB() (*sql.DB, *stubConn) {
	conn := &stubConn{Rows: make(map[string]stubRow)}
	name := fmt.Sprintf("stubpg%d", stubSeq.Add(1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct{ conn *stubConn }

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *stubConn) Ping(context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

func (c *stubConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	if c.FailBegin {
		return nil, fmt.Errorf("begin fail")
	}
	return stubTx{}, nil
}

func (c *stubConn) statements() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.Stmts...)
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stmts = append(c.Stmts, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	lower := strings.ToLower(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(lower, "create table"):
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(lower, "insert into blobs"):
		if len(args) != 7 {
			return nil, fmt.Errorf("insert: want 7 args, got %d", len(args))
		}
		key := args[0].Value.(string)
		row := stubRow{
			payload:     append([]byte(nil), args[1].Value.([]byte)...),
			contentType: args[2].Value.(string),
			metadata:    args[3].Value.(string),
			etag:        args[4].Value.(string),
			createdAt:   args[5].Value.(string),
			updatedAt:   args[6].Value.(string),
		}
		if prev, ok := c.Rows[key]; ok {
			row.createdAt = prev.createdAt
		}
		c.Rows[key] = row
		return driver.RowsAffected(1), nil
	}
	return nil, fmt.Errorf("unsupported statement: %s", query)
}

func (c *stubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stmts = append(c.Stmts, query)
	lower := strings.ToLower(query)
	fromIdx := strings.Index(lower, " from blobs")
	if !strings.HasPrefix(lower, "select ") || fromIdx < 0 || !strings.Contains(lower, "where blob_key = $1") {
		return nil, fmt.Errorf("unsupported query: %s", query)
	}
	cols := splitColumns(query[len("select "):fromIdx])
	var keys []string
	if key := args[0].Value.(string); hasRow(c.Rows, key) {
		keys = append(keys, key)
	}
	out := &stubRows{cols: cols}
	for _, k := range keys {
		row := c.Rows[k]
		vals := make([]driver.Value, len(cols))
		for i, col := range cols {
			switch col {
			case "1":
				vals[i] = int64(1)
			case "blob_key":
				vals[i] = k
			case "payload":
				vals[i] = row.payload
			case "octet_length(payload)", "length(payload)":
				vals[i] = int64(len(row.payload))
			case "content_type":
				vals[i] = row.contentType
			case "metadata":
				vals[i] = row.metadata
			case "etag":
				vals[i] = row.etag
			case "created_at":
				vals[i] = row.createdAt
			case "updated_at":
				vals[i] = row.updatedAt
			default:
				return nil, fmt.Errorf("unknown column %q", col)
			}
		}
		out.rows = append(out.rows, vals)
	}
	return out, nil
}

func hasRow(rows map[string]stubRow, key string) bool {
	_, ok := rows[key]
	return ok
}

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

func splitColumns(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(part)))
	}
	return out
}
