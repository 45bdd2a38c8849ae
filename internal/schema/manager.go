// Package schema implements the Schema Manager component: it owns the
// single MLMDEnv.schema_version row, probes the backing store's state on
// startup, and applies upgrade/downgrade scripts atomically (spec.md
// §4.1).
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
)

// LibraryVersion is the schema version this build of the library expects.
// It is bumped every time scripts.go gains a new upgrade step.
const LibraryVersion = 2

// State is the result of Probe: what shape the backing store was found in.
type State int

const (
	// StateEmpty means none of the logical tables exist yet.
	StateEmpty State = iota
	// StateLegacy means tables exist but MLMDEnv does not — a known
	// early version, per spec.md §4.1 ("legacy layout ... treated as a
	// known early version").
	StateLegacy
	// StateVersioned means MLMDEnv exists and carries a version.
	StateVersioned
)

// MigrationOptions mirrors spec.md §6's MigrationOptions message.
type MigrationOptions struct {
	// EnableUpgradeMigration auto-runs forward migrations on create.
	// Without it, a version mismatch below the library version fails
	// with FAILED_PRECONDITION.
	EnableUpgradeMigration bool
	// DowngradeToSchemaVersion, if non-nil, runs downgrade scripts to
	// the given target on create, then fails the call with CANCELLED.
	DowngradeToSchemaVersion *int64
	// AllowNewerSchemaOverride accepts a stored version newer than
	// LibraryVersion instead of failing FAILED_PRECONDITION (spec.md
	// §4.1 Guard: "unless an explicit override is configured").
	AllowNewerSchemaOverride bool
}

// Manager owns the MLMDEnv row and table DDL for one dialect.
type Manager struct {
	DB      *sql.DB
	Dialect string
}

func New(db *sql.DB, dialect string) *Manager {
	return &Manager{DB: db, Dialect: dialect}
}

// Probe reports the backing store's current schema state without
// mutating anything.
func (m *Manager) Probe(ctx context.Context) (State, int64, error) {
	hasEnv, err := m.tableExists(ctx, "MLMDEnv")
	if err != nil {
		return StateEmpty, 0, err
	}
	if hasEnv {
		var version int64
		err := m.DB.QueryRowContext(ctx, `SELECT schema_version FROM MLMDEnv LIMIT 1`).Scan(&version)
		if err != nil {
			return StateEmpty, 0, fmt.Errorf("schema: read MLMDEnv: %w", err)
		}
		return StateVersioned, version, nil
	}
	hasType, err := m.tableExists(ctx, "Type")
	if err != nil {
		return StateEmpty, 0, err
	}
	if hasType {
		return StateLegacy, 0, nil
	}
	return StateEmpty, 0, nil
}

func (m *Manager) tableExists(ctx context.Context, name string) (bool, error) {
	switch m.Dialect {
	case "mysql":
		var n int
		err := m.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`, name).Scan(&n)
		return n > 0, err
	default: // sqlite
		var n int
		err := m.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?`, name).Scan(&n)
		return n > 0, err
	}
}

// Init creates the schema fresh, failing if the store is non-empty and
// does not already match the library version (spec.md §4.1: "fail if not
// empty and not matching").
func (m *Manager) Init(ctx context.Context, opts MigrationOptions) error {
	return m.ensure(ctx, opts, true)
}

// InitIfNotExists is the idempotent creation mode: it creates an empty
// store, accepts a store already at the library version, and otherwise
// applies the upgrade and newer-schema rules of opts, where Init rejects
// any non-empty store whose version differs from the library version.
func (m *Manager) InitIfNotExists(ctx context.Context, opts MigrationOptions) error {
	return m.ensure(ctx, opts, false)
}

func (m *Manager) ensure(ctx context.Context, opts MigrationOptions, strict bool) error {
	if opts.DowngradeToSchemaVersion != nil {
		return m.downgradeOnCreate(ctx, *opts.DowngradeToSchemaVersion)
	}

	state, version, err := m.Probe(ctx)
	if err != nil {
		return err
	}

	switch state {
	case StateEmpty:
		return m.createFresh(ctx)
	case StateLegacy:
		version = 0
	}

	if version == LibraryVersion {
		return nil
	}
	if strict {
		return versionMismatchError(
			"store is not empty and its schema version %d does not match library version %d", version, LibraryVersion)
	}
	if version < LibraryVersion {
		if !opts.EnableUpgradeMigration {
			return versionMismatchError(
				"stored schema version %d is behind library version %d and enable_upgrade_migration is not set", version, LibraryVersion)
		}
		return m.upgrade(ctx, version, LibraryVersion)
	}
	// version > LibraryVersion
	if !opts.AllowNewerSchemaOverride {
		return versionMismatchError(
			"stored schema version %d is ahead of library version %d", version, LibraryVersion)
	}
	return nil
}

func (m *Manager) createFresh(ctx context.Context) error {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return mlmd.ErrInternal("begin create schema: %v", err)
	}
	defer tx.Rollback()

	for _, stmt := range ddlStatements(m.Dialect) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return mlmd.ErrInternal("create schema: %v", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO MLMDEnv(schema_version) VALUES (?)`, LibraryVersion); err != nil {
		return mlmd.ErrInternal("seed schema version: %v", err)
	}
	if err := tx.Commit(); err != nil {
		return mlmd.ErrInternal("commit create schema: %v", err)
	}
	return nil
}

// upgrade runs ordered upgrade scripts (v -> v+1) one transaction per
// step, updating the version row last in each step (spec.md §4.1).
func (m *Manager) upgrade(ctx context.Context, from, to int64) error {
	for v := from; v < to; v++ {
		script, ok := upgradeScripts[v]
		if !ok {
			return mlmd.ErrInternal("no upgrade script registered for version %d -> %d", v, v+1)
		}
		if err := m.runStep(ctx, script, v+1); err != nil {
			return err
		}
	}
	return nil
}

// downgradeOnCreate implements spec.md §4.1's dedicated downgrade-on-create
// flow: validate the target, run downgrade scripts, commit, then always
// fail the *current* call with CANCELLED so the caller reconnects with a
// matching library version.
func (m *Manager) downgradeOnCreate(ctx context.Context, target int64) error {
	if target < 0 || target > LibraryVersion {
		return mlmd.ErrInvalidArgument("downgrade_to_schema_version %d is out of range [0, %d]", target, LibraryVersion)
	}

	state, version, err := m.Probe(ctx)
	if err != nil {
		return err
	}
	if state == StateEmpty {
		if err := m.createFresh(ctx); err != nil {
			return err
		}
		version = LibraryVersion
	} else if state == StateLegacy {
		version = 0
	}

	for v := version; v > target; v-- {
		script, ok := downgradeScripts[v]
		if !ok {
			return mlmd.ErrInternal("no downgrade script registered for version %d -> %d", v, v-1)
		}
		if err := m.runStep(ctx, script, v-1); err != nil {
			return err
		}
	}
	return mlmd.ErrCancelled("Downgrade migration was performed.")
}

func (m *Manager) runStep(ctx context.Context, script string, newVersion int64) error {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return mlmd.ErrInternal("begin migration step: %v", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, script); err != nil {
		return mlmd.ErrInternal("migration step to %d: %v", newVersion, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE MLMDEnv SET schema_version = ?`, newVersion); err != nil {
		return mlmd.ErrInternal("update schema version to %d: %v", newVersion, err)
	}
	if err := tx.Commit(); err != nil {
		return mlmd.ErrInternal("commit migration step to %d: %v", newVersion, err)
	}
	return nil
}

// ErrSchemaVersionMismatch is a sentinel callers can check with errors.Is to
// tell a version-mismatch FAILED_PRECONDITION apart from any other cause of
// the same mlmd.Code, without string-matching the message.
var ErrSchemaVersionMismatch = errors.New("schema: version mismatch")

// versionMismatchError builds the FAILED_PRECONDITION error ensure returns
// for a behind- or ahead-of-library schema version, wrapping
// ErrSchemaVersionMismatch so errors.Is(err, ErrSchemaVersionMismatch)
// works while mlmd.CodeOf(err) still resolves through to FailedPrecondition.
func versionMismatchError(format string, args ...any) error {
	return &schemaVersionMismatchError{cause: mlmd.ErrFailedPrecondition(format, args...)}
}

type schemaVersionMismatchError struct {
	cause *mlmd.Error
}

func (e *schemaVersionMismatchError) Error() string { return e.cause.Error() }
func (e *schemaVersionMismatchError) Unwrap() error { return e.cause }
func (e *schemaVersionMismatchError) Is(target error) bool {
	return target == ErrSchemaVersionMismatch
}
