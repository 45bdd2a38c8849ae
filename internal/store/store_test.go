package store_test

import (
	"context"
	"testing"

	"github.com/ZxMYS/ml-metadata/internal/entitystore"
	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/schema"
	"github.com/ZxMYS/ml-metadata/internal/storedb"
	"github.com/ZxMYS/ml-metadata/internal/store"
	"github.com/ZxMYS/ml-metadata/internal/typeregistry"
)

func newTestStore(t *testing.T) (*store.Store, context.Context) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(context.Background(), storedb.SQLiteConfig{Dir: dir}, schema.MigrationOptions{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, context.Background()
}

func seedTypes(t *testing.T, s *store.Store, ctx context.Context) (artifactTypeID, executionTypeID int64) {
	t.Helper()
	var err error
	artifactTypeID, err = s.PutArtifactType(ctx, mlmd.Type{
		Name:       "Model",
		Properties: mlmd.PropertyMap{"accuracy": mlmd.PropertyDouble},
	}, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("seed artifact type: %v", err)
	}
	executionTypeID, err = s.PutExecutionType(ctx, mlmd.Type{Name: "Trainer"}, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("seed execution type: %v", err)
	}
	return artifactTypeID, executionTypeID
}

func TestSchemaStateReportsVersionedAfterOpen(t *testing.T) {
	s, ctx := newTestStore(t)
	state, version, err := s.SchemaState(ctx)
	if err != nil {
		t.Fatalf("schema state: %v", err)
	}
	if state != schema.StateVersioned {
		t.Fatalf("expected StateVersioned after Open, got %v", state)
	}
	if version != schema.LibraryVersion {
		t.Fatalf("expected schema version %d, got %d", schema.LibraryVersion, version)
	}
}

func TestPutExecutionCommitsExecutionArtifactsAndEvents(t *testing.T) {
	s, ctx := newTestStore(t)
	artifactTypeID, executionTypeID := seedTypes(t, s, ctx)

	execID, artifactIDs, err := s.PutExecution(ctx, mlmd.Execution{Entity: mlmd.Entity{TypeID: executionTypeID}}, []mlmd.ArtifactAndEvent{
		{
			Artifact: mlmd.Artifact{Entity: mlmd.Entity{TypeID: artifactTypeID}, URI: "s3://bucket/model-1"},
			Event:    &mlmd.Event{Type: mlmd.EventOutput},
		},
	})
	if err != nil {
		t.Fatalf("put execution: %v", err)
	}
	if execID == 0 {
		t.Fatalf("expected nonzero execution id")
	}
	if len(artifactIDs) != 1 || artifactIDs[0] == 0 {
		t.Fatalf("expected one nonzero artifact id, got %v", artifactIDs)
	}

	events, err := s.GetEventsByExecutionIDs(ctx, []int64{execID})
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event committed with the execution, got %d", len(events))
	}
	if events[0].ArtifactID != artifactIDs[0] {
		t.Fatalf("expected event's artifact_id completed from the upserted artifact, got %d want %d", events[0].ArtifactID, artifactIDs[0])
	}
	if events[0].ExecutionID != execID {
		t.Fatalf("expected event's execution_id completed from the upserted execution, got %d want %d", events[0].ExecutionID, execID)
	}

	got, err := s.GetArtifactByID(ctx, artifactIDs[0])
	if err != nil {
		t.Fatalf("get artifact: %v", err)
	}
	if got.URI != "s3://bucket/model-1" {
		t.Fatalf("expected artifact committed alongside execution, got %+v", got)
	}
}

func TestPutExecutionRollsBackOnArtifactFailure(t *testing.T) {
	s, ctx := newTestStore(t)
	_, executionTypeID := seedTypes(t, s, ctx)

	_, _, err := s.PutExecution(ctx, mlmd.Execution{Entity: mlmd.Entity{TypeID: executionTypeID}}, []mlmd.ArtifactAndEvent{
		{Artifact: mlmd.Artifact{Entity: mlmd.Entity{TypeID: 999}}},
	})
	if mlmd.CodeOf(err) != mlmd.InvalidArgument {
		t.Fatalf("expected InvalidArgument for unknown artifact type, got %v", err)
	}

	executions, err := s.GetExecutions(ctx, entitystore.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("list executions: %v", err)
	}
	if len(executions) != 0 {
		t.Fatalf("expected the execution upsert to roll back with the failed artifact, got %+v", executions)
	}
}

func TestPutTypesAndGetArtifactTypesByID(t *testing.T) {
	s, ctx := newTestStore(t)
	resp, err := s.PutTypes(ctx, typeregistry.PutTypesRequest{
		ArtifactTypes: []mlmd.Type{{Name: "Dataset"}},
	})
	if err != nil {
		t.Fatalf("put types: %v", err)
	}
	if len(resp.ArtifactTypeIDs) != 1 {
		t.Fatalf("expected one artifact type id, got %v", resp.ArtifactTypeIDs)
	}

	types, err := s.GetArtifactTypesByID(ctx, resp.ArtifactTypeIDs)
	if err != nil {
		t.Fatalf("get artifact types: %v", err)
	}
	if len(types) != 1 || types[0].Name != "Dataset" {
		t.Fatalf("expected Dataset type, got %+v", types)
	}
}

func TestPutAttributionsAndAssociationsThroughDispatcher(t *testing.T) {
	s, ctx := newTestStore(t)
	artifactTypeID, executionTypeID := seedTypes(t, s, ctx)
	contextTypeID, err := s.PutContextType(ctx, mlmd.Type{Name: "Experiment"}, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("put context type: %v", err)
	}

	artifactIDs, err := s.PutArtifacts(ctx, []mlmd.Artifact{{Entity: mlmd.Entity{TypeID: artifactTypeID}}})
	if err != nil {
		t.Fatalf("put artifacts: %v", err)
	}
	executionIDs, err := s.PutExecutions(ctx, []mlmd.Execution{{Entity: mlmd.Entity{TypeID: executionTypeID}}})
	if err != nil {
		t.Fatalf("put executions: %v", err)
	}
	contextIDs, err := s.PutContexts(ctx, []mlmd.Context{{Entity: mlmd.Entity{TypeID: contextTypeID}, Name: "exp-1"}})
	if err != nil {
		t.Fatalf("put contexts: %v", err)
	}

	err = s.PutAttributionsAndAssociations(ctx,
		[]mlmd.Attribution{{ArtifactID: artifactIDs[0], ContextID: contextIDs[0]}},
		[]mlmd.Association{{ExecutionID: executionIDs[0], ContextID: contextIDs[0]}},
	)
	if err != nil {
		t.Fatalf("put attributions and associations: %v", err)
	}

	gotArtifacts, err := s.GetArtifactsByContext(ctx, contextIDs[0])
	if err != nil {
		t.Fatalf("get artifacts by context: %v", err)
	}
	if len(gotArtifacts) != 1 || gotArtifacts[0] != artifactIDs[0] {
		t.Fatalf("expected artifact %d attributed to context, got %v", artifactIDs[0], gotArtifacts)
	}

	gotExecutions, err := s.GetExecutionsByContext(ctx, contextIDs[0])
	if err != nil {
		t.Fatalf("get executions by context: %v", err)
	}
	if len(gotExecutions) != 1 || gotExecutions[0] != executionIDs[0] {
		t.Fatalf("expected execution %d associated with context, got %v", executionIDs[0], gotExecutions)
	}
}
