package store

import (
	"context"
	"database/sql"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/typeregistry"
)

// withTx opens a transaction, runs fn against it, and commits on success or
// rolls back on any error, mirroring the teacher's
// engine.Engine.InitProject pattern (BeginTx, defer Rollback, Commit last).
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mlmd.ErrInternal("begin transaction: %v", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return mlmd.ErrInternal("commit transaction: %v", err)
	}
	return nil
}

// PutArtifactType upserts an ArtifactType.
func (s *Store) PutArtifactType(ctx context.Context, t mlmd.Type, opts typeregistry.PutOptions) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = typeregistry.New(tx).PutType(ctx, mlmd.KindArtifact, t, opts)
		return err
	})
	return id, err
}

// PutExecutionType upserts an ExecutionType.
func (s *Store) PutExecutionType(ctx context.Context, t mlmd.Type, opts typeregistry.PutOptions) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = typeregistry.New(tx).PutType(ctx, mlmd.KindExecution, t, opts)
		return err
	})
	return id, err
}

// PutContextType upserts a ContextType.
func (s *Store) PutContextType(ctx context.Context, t mlmd.Type, opts typeregistry.PutOptions) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = typeregistry.New(tx).PutType(ctx, mlmd.KindContext, t, opts)
		return err
	})
	return id, err
}

// PutTypes upserts a batch across all three kinds in one transaction.
func (s *Store) PutTypes(ctx context.Context, req typeregistry.PutTypesRequest) (typeregistry.PutTypesResponse, error) {
	var resp typeregistry.PutTypesResponse
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		resp, err = typeregistry.New(tx).PutTypes(ctx, req)
		return err
	})
	return resp, err
}

func (s *Store) GetArtifactType(ctx context.Context, name string) (mlmd.Type, error) {
	return typeregistry.New(s.db).GetTypeByName(ctx, mlmd.KindArtifact, name)
}

func (s *Store) GetExecutionType(ctx context.Context, name string) (mlmd.Type, error) {
	return typeregistry.New(s.db).GetTypeByName(ctx, mlmd.KindExecution, name)
}

func (s *Store) GetContextType(ctx context.Context, name string) (mlmd.Type, error) {
	return typeregistry.New(s.db).GetTypeByName(ctx, mlmd.KindContext, name)
}

func (s *Store) GetArtifactTypesByID(ctx context.Context, ids []int64) ([]mlmd.Type, error) {
	return typeregistry.New(s.db).GetTypesByID(ctx, mlmd.KindArtifact, ids)
}

func (s *Store) GetExecutionTypesByID(ctx context.Context, ids []int64) ([]mlmd.Type, error) {
	return typeregistry.New(s.db).GetTypesByID(ctx, mlmd.KindExecution, ids)
}

func (s *Store) GetContextTypesByID(ctx context.Context, ids []int64) ([]mlmd.Type, error) {
	return typeregistry.New(s.db).GetTypesByID(ctx, mlmd.KindContext, ids)
}

func (s *Store) GetArtifactTypes(ctx context.Context) ([]mlmd.Type, error) {
	return typeregistry.New(s.db).GetTypes(ctx, mlmd.KindArtifact)
}

func (s *Store) GetExecutionTypes(ctx context.Context) ([]mlmd.Type, error) {
	return typeregistry.New(s.db).GetTypes(ctx, mlmd.KindExecution)
}

func (s *Store) GetContextTypes(ctx context.Context) ([]mlmd.Type, error) {
	return typeregistry.New(s.db).GetTypes(ctx, mlmd.KindContext)
}
