package store

import (
	"context"
	"database/sql"

	"github.com/ZxMYS/ml-metadata/internal/entitystore"
	"github.com/ZxMYS/ml-metadata/internal/mlmd"
)

func (s *Store) PutArtifacts(ctx context.Context, artifacts []mlmd.Artifact) ([]int64, error) {
	var ids []int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		ids, err = entitystore.New(tx).PutArtifacts(ctx, artifacts)
		return err
	})
	return ids, err
}

func (s *Store) GetArtifactByID(ctx context.Context, id int64) (mlmd.Artifact, error) {
	return entitystore.New(s.db).GetArtifactByID(ctx, id)
}

func (s *Store) GetArtifactsByID(ctx context.Context, ids []int64) ([]mlmd.Artifact, error) {
	return entitystore.New(s.db).GetArtifactsByID(ctx, ids)
}

func (s *Store) GetArtifacts(ctx context.Context, opts entitystore.ListOptions) ([]mlmd.Artifact, error) {
	return entitystore.New(s.db).GetArtifacts(ctx, opts)
}

func (s *Store) GetArtifactsByType(ctx context.Context, typeName string) ([]mlmd.Artifact, error) {
	return entitystore.New(s.db).GetArtifactsByType(ctx, typeName)
}

func (s *Store) GetArtifactsByURI(ctx context.Context, uri string) ([]mlmd.Artifact, error) {
	return entitystore.New(s.db).GetArtifactsByURI(ctx, uri)
}

func (s *Store) PutExecutions(ctx context.Context, executions []mlmd.Execution) ([]int64, error) {
	var ids []int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		ids, err = entitystore.New(tx).PutExecutions(ctx, executions)
		return err
	})
	return ids, err
}

func (s *Store) GetExecutionByID(ctx context.Context, id int64) (mlmd.Execution, error) {
	return entitystore.New(s.db).GetExecutionByID(ctx, id)
}

func (s *Store) GetExecutionsByID(ctx context.Context, ids []int64) ([]mlmd.Execution, error) {
	return entitystore.New(s.db).GetExecutionsByID(ctx, ids)
}

func (s *Store) GetExecutions(ctx context.Context, opts entitystore.ListOptions) ([]mlmd.Execution, error) {
	return entitystore.New(s.db).GetExecutions(ctx, opts)
}

func (s *Store) GetExecutionsByType(ctx context.Context, typeName string) ([]mlmd.Execution, error) {
	return entitystore.New(s.db).GetExecutionsByType(ctx, typeName)
}

func (s *Store) PutContexts(ctx context.Context, contexts []mlmd.Context) ([]int64, error) {
	var ids []int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		ids, err = entitystore.New(tx).PutContexts(ctx, contexts)
		return err
	})
	return ids, err
}

func (s *Store) GetContextByID(ctx context.Context, id int64) (mlmd.Context, error) {
	return entitystore.New(s.db).GetContextByID(ctx, id)
}

func (s *Store) GetContextsByID(ctx context.Context, ids []int64) ([]mlmd.Context, error) {
	return entitystore.New(s.db).GetContextsByID(ctx, ids)
}

func (s *Store) GetContexts(ctx context.Context, opts entitystore.ListOptions) ([]mlmd.Context, error) {
	return entitystore.New(s.db).GetContexts(ctx, opts)
}

func (s *Store) GetContextsByType(ctx context.Context, typeName string) ([]mlmd.Context, error) {
	return entitystore.New(s.db).GetContextsByType(ctx, typeName)
}
