package store

import (
	"context"
	"database/sql"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/relationshipstore"
)

func (s *Store) PutEvents(ctx context.Context, events []mlmd.Event) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return relationshipstore.New(tx, s.cfg).PutEvents(ctx, events)
	})
}

func (s *Store) GetEventsByArtifactIDs(ctx context.Context, ids []int64) ([]mlmd.Event, error) {
	return relationshipstore.New(s.db, s.cfg).GetEventsByArtifactIDs(ctx, ids)
}

func (s *Store) GetEventsByExecutionIDs(ctx context.Context, ids []int64) ([]mlmd.Event, error) {
	return relationshipstore.New(s.db, s.cfg).GetEventsByExecutionIDs(ctx, ids)
}

func (s *Store) PutAttributionsAndAssociations(ctx context.Context, attributions []mlmd.Attribution, associations []mlmd.Association) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return relationshipstore.New(tx, s.cfg).PutAttributionsAndAssociations(ctx, attributions, associations)
	})
}

func (s *Store) GetContextsByArtifact(ctx context.Context, artifactID int64) ([]int64, error) {
	return relationshipstore.New(s.db, s.cfg).GetContextsByArtifact(ctx, artifactID)
}

func (s *Store) GetArtifactsByContext(ctx context.Context, contextID int64) ([]int64, error) {
	return relationshipstore.New(s.db, s.cfg).GetArtifactsByContext(ctx, contextID)
}

func (s *Store) GetContextsByExecution(ctx context.Context, executionID int64) ([]int64, error) {
	return relationshipstore.New(s.db, s.cfg).GetContextsByExecution(ctx, executionID)
}

func (s *Store) GetExecutionsByContext(ctx context.Context, contextID int64) ([]int64, error) {
	return relationshipstore.New(s.db, s.cfg).GetExecutionsByContext(ctx, contextID)
}
