package store

import (
	"context"
	"database/sql"

	"github.com/ZxMYS/ml-metadata/internal/entitystore"
	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/relationshipstore"
)

// PutExecution is the composite, all-or-nothing operation of spec.md §4.4:
// it upserts one execution, upserts each paired artifact, completes any
// event whose artifact_id/execution_id was left unset (because the caller
// doesn't know the id until the upsert runs), and inserts the completed
// events — all inside one transaction. Any failure rolls back every write,
// including the execution upsert.
func (s *Store) PutExecution(ctx context.Context, execution mlmd.Execution, pairs []mlmd.ArtifactAndEvent) (execID int64, artifactIDs []int64, err error) {
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		entities := entitystore.New(tx)
		relationships := relationshipstore.New(tx, s.cfg)

		var txErr error
		execID, txErr = entities.PutExecution(ctx, execution)
		if txErr != nil {
			return txErr
		}

		artifactIDs = make([]int64, len(pairs))
		var events []mlmd.Event
		for i, pair := range pairs {
			artifactID, txErr := entities.PutArtifact(ctx, pair.Artifact)
			if txErr != nil {
				return txErr
			}
			artifactIDs[i] = artifactID

			if pair.Event == nil {
				continue
			}
			e := *pair.Event
			if e.ArtifactID == 0 {
				e.ArtifactID = artifactID
			}
			if e.ExecutionID == 0 {
				e.ExecutionID = execID
			}
			events = append(events, e)
		}

		if len(events) > 0 {
			if txErr := relationships.PutEvents(ctx, events); txErr != nil {
				return txErr
			}
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return execID, artifactIDs, nil
}
