// Package storedb provides the two concrete backing-store bindings named
// in spec.md §6: an embedded, single-process, file-backed SQL engine, and
// a remote, multi-process SQL server.
package storedb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Opener is satisfied by every backing-store binding this package offers.
// Each returns a ready-to-use connection pool; the caller (internal/store)
// owns its lifecycle.
type Opener interface {
	Open() (*sql.DB, error)
	Dialect() string
}

// SQLiteConfig configures the embedded, file-backed binding.
type SQLiteConfig struct {
	// Dir is the directory the database file lives in; created if
	// missing, mirroring internal/db.EnsureWorkspace.
	Dir string
	// FileName defaults to "metadata.sqlite" if empty.
	FileName string
}

func (c SQLiteConfig) path() string {
	name := c.FileName
	if name == "" {
		name = "metadata.sqlite"
	}
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name)
}

func (c SQLiteConfig) Dialect() string { return "sqlite" }

// Open creates the workspace directory if needed and opens the database
// with foreign keys enabled, matching internal/db.Open's DSN shape.
func (c SQLiteConfig) Open() (*sql.DB, error) {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storedb: create dir %s: %w", dir, err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)", c.path())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storedb: open sqlite: %w", err)
	}
	// A single shared in-process connection avoids SQLITE_BUSY under the
	// one-transaction-per-request model of spec.md §5.
	db.SetMaxOpenConns(1)
	return db, nil
}

// MySQLConfig configures the remote, multi-process binding.
type MySQLConfig struct {
	// DSN is a go-sql-driver/mysql data source name, e.g.
	// "user:pass@tcp(host:3306)/dbname?parseTime=true".
	DSN string
	// MaxOpenConns bounds the pool; defaults to 16 if unset.
	MaxOpenConns int
}

func (c MySQLConfig) Dialect() string { return "mysql" }

func (c MySQLConfig) Open() (*sql.DB, error) {
	if c.DSN == "" {
		return nil, fmt.Errorf("storedb: mysql DSN is required")
	}
	db, err := sql.Open("mysql", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("storedb: open mysql: %w", err)
	}
	max := c.MaxOpenConns
	if max <= 0 {
		max = 16
	}
	db.SetMaxOpenConns(max)
	return db, nil
}
