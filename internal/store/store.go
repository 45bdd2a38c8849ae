// Package store implements the Request Dispatcher: it exposes the public
// operation set, opens one transaction per incoming request, routes to
// the Type Registry / Entity Store / Relationship Store, and commits or
// rolls back as a unit (spec.md §4.5). This is the composition root,
// grounded in the teacher's internal/engine.Engine (a thin struct holding
// *sql.DB plus the lower-level components, with one method per use case
// that opens its own transaction).
package store

import (
	"context"
	"database/sql"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/query"
	"github.com/ZxMYS/ml-metadata/internal/schema"
	"github.com/ZxMYS/ml-metadata/internal/storedb"
)

// Store is the metadata store handle returned to callers. Every exported
// method is one logical operation from spec.md §4 and runs inside its own
// transaction.
type Store struct {
	db     *sql.DB
	cfg    query.Config
	schema *schema.Manager
}

// Open opens a backing store via opener, runs the schema lifecycle
// described by opts, and returns a ready-to-use Store. On a downgrade
// request (opts.DowngradeToSchemaVersion set) the downgrade is performed
// and this returns a CANCELLED error with a nil *Store, per spec.md §4.1 —
// the caller must discard the handle and reconnect. A target version
// outside the supported range returns INVALID_ARGUMENT and nothing is
// downgraded.
func Open(ctx context.Context, opener storedb.Opener, opts schema.MigrationOptions) (*Store, error) {
	db, err := opener.Open()
	if err != nil {
		return nil, mlmd.ErrInternal("open backing store: %v", err)
	}
	cfg, err := query.LoadConfig(opener.Dialect(), schema.LibraryVersion)
	if err != nil {
		db.Close()
		return nil, err
	}
	mgr := schema.New(db, opener.Dialect())
	if err := mgr.InitIfNotExists(ctx, opts); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, cfg: cfg, schema: mgr}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying pool for callers that need to reach it
// directly; components never use this — they take the executor passed to
// them.
func (s *Store) DB() *sql.DB { return s.db }

// SchemaState reports the current schema version and state without
// mutating anything, for the CLI's status subcommand and the HTTP
// binding's health endpoint.
func (s *Store) SchemaState(ctx context.Context) (schema.State, int64, error) {
	return s.schema.Probe(ctx)
}
