package relationshipstore_test

import (
	"context"
	"testing"

	"github.com/ZxMYS/ml-metadata/internal/entitystore"
	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/query"
	"github.com/ZxMYS/ml-metadata/internal/relationshipstore"
	"github.com/ZxMYS/ml-metadata/internal/schema"
	"github.com/ZxMYS/ml-metadata/internal/storedb"
	"github.com/ZxMYS/ml-metadata/internal/typeregistry"
)

type testEnv struct {
	rel      relationshipstore.Store
	entities entitystore.Store
}

func newTestEnv(t *testing.T) (testEnv, context.Context) {
	t.Helper()
	dir := t.TempDir()
	db, err := storedb.SQLiteConfig{Dir: dir}.Open()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	mgr := schema.New(db, "sqlite")
	ctx := context.Background()
	if err := mgr.InitIfNotExists(ctx, schema.MigrationOptions{}); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return testEnv{
		rel:      relationshipstore.New(db, query.Config{}),
		entities: entitystore.New(db),
	}, ctx
}

func seedArtifactAndExecution(t *testing.T, env testEnv, ctx context.Context) (artifactID, executionID int64) {
	t.Helper()
	artType, err := env.entities.Types.PutType(ctx, mlmd.KindArtifact, mlmd.Type{Name: "Model"}, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("seed artifact type: %v", err)
	}
	execType, err := env.entities.Types.PutType(ctx, mlmd.KindExecution, mlmd.Type{Name: "Trainer"}, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("seed execution type: %v", err)
	}
	artifactID, err = env.entities.PutArtifact(ctx, mlmd.Artifact{Entity: mlmd.Entity{TypeID: artType}})
	if err != nil {
		t.Fatalf("seed artifact: %v", err)
	}
	executionID, err = env.entities.PutExecution(ctx, mlmd.Execution{Entity: mlmd.Entity{TypeID: execType}})
	if err != nil {
		t.Fatalf("seed execution: %v", err)
	}
	return artifactID, executionID
}

func seedContext(t *testing.T, env testEnv, ctx context.Context) int64 {
	t.Helper()
	ctxType, err := env.entities.Types.PutType(ctx, mlmd.KindContext, mlmd.Type{Name: "Experiment"}, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("seed context type: %v", err)
	}
	id, err := env.entities.PutContext(ctx, mlmd.Context{Entity: mlmd.Entity{TypeID: ctxType}, Name: "exp-1"})
	if err != nil {
		t.Fatalf("seed context: %v", err)
	}
	return id
}

func TestPutEventsRequiresExistingArtifactAndExecution(t *testing.T) {
	env, ctx := newTestEnv(t)
	err := env.rel.PutEvents(ctx, []mlmd.Event{{ArtifactID: 1, ExecutionID: 999, Type: mlmd.EventOutput}})
	if mlmd.CodeOf(err) != mlmd.InvalidArgument {
		t.Fatalf("expected InvalidArgument for nonexistent execution, got %v", err)
	}
}

func TestPutEventsRejectsUnsetIDs(t *testing.T) {
	env, ctx := newTestEnv(t)
	if err := env.rel.PutEvents(ctx, []mlmd.Event{{ExecutionID: 1, Type: mlmd.EventOutput}}); mlmd.CodeOf(err) != mlmd.InvalidArgument {
		t.Fatalf("expected InvalidArgument for missing artifact_id, got %v", err)
	}
	if err := env.rel.PutEvents(ctx, []mlmd.Event{{ArtifactID: 1, Type: mlmd.EventOutput}}); mlmd.CodeOf(err) != mlmd.InvalidArgument {
		t.Fatalf("expected InvalidArgument for missing execution_id, got %v", err)
	}
}

func TestPutEventsPersistsPathAndIsOrderedByInsertion(t *testing.T) {
	env, ctx := newTestEnv(t)
	artifactID, executionID := seedArtifactAndExecution(t, env, ctx)

	events := []mlmd.Event{
		{
			ArtifactID:  artifactID,
			ExecutionID: executionID,
			Type:        mlmd.EventOutput,
			Path: []mlmd.EventPathStep{
				{IsKey: true, Key: "output"},
			},
		},
		{
			ArtifactID:  artifactID,
			ExecutionID: executionID,
			Type:        mlmd.EventInput,
		},
	}
	if err := env.rel.PutEvents(ctx, events); err != nil {
		t.Fatalf("put events: %v", err)
	}

	got, err := env.rel.GetEventsByArtifactIDs(ctx, []int64{artifactID})
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != mlmd.EventOutput || got[1].Type != mlmd.EventInput {
		t.Fatalf("expected events in insertion order, got %+v", got)
	}
	if len(got[0].Path) != 1 || !got[0].Path[0].IsKey || got[0].Path[0].Key != "output" {
		t.Fatalf("expected path step preserved, got %+v", got[0].Path)
	}
	if got[0].Timestamp == 0 {
		t.Fatalf("expected timestamp to be stamped when unset")
	}
}

func TestPutEventsDoesNotDeduplicate(t *testing.T) {
	env, ctx := newTestEnv(t)
	artifactID, executionID := seedArtifactAndExecution(t, env, ctx)

	event := mlmd.Event{ArtifactID: artifactID, ExecutionID: executionID, Type: mlmd.EventInput}
	if err := env.rel.PutEvents(ctx, []mlmd.Event{event, event}); err != nil {
		t.Fatalf("put events: %v", err)
	}
	got, err := env.rel.GetEventsByExecutionIDs(ctx, []int64{executionID})
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected duplicate event to insert a second row, got %d", len(got))
	}
}

func TestPutAttributionsAndAssociationsRequireExistingRows(t *testing.T) {
	env, ctx := newTestEnv(t)
	err := env.rel.PutAttributionsAndAssociations(ctx, []mlmd.Attribution{{ArtifactID: 1, ContextID: 1}}, nil)
	if mlmd.CodeOf(err) != mlmd.InvalidArgument {
		t.Fatalf("expected InvalidArgument for nonexistent artifact/context, got %v", err)
	}
}

func TestPutAttributionsAndAssociationsIsIdempotent(t *testing.T) {
	env, ctx := newTestEnv(t)
	artifactID, executionID := seedArtifactAndExecution(t, env, ctx)
	contextID := seedContext(t, env, ctx)

	attributions := []mlmd.Attribution{{ArtifactID: artifactID, ContextID: contextID}}
	associations := []mlmd.Association{{ExecutionID: executionID, ContextID: contextID}}

	if err := env.rel.PutAttributionsAndAssociations(ctx, attributions, associations); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := env.rel.PutAttributionsAndAssociations(ctx, attributions, associations); err != nil {
		t.Fatalf("second put (idempotent re-insert): %v", err)
	}

	artifactIDs, err := env.rel.GetArtifactsByContext(ctx, contextID)
	if err != nil {
		t.Fatalf("get artifacts by context: %v", err)
	}
	if len(artifactIDs) != 1 || artifactIDs[0] != artifactID {
		t.Fatalf("expected exactly one attribution row despite double insert, got %v", artifactIDs)
	}

	executionIDs, err := env.rel.GetExecutionsByContext(ctx, contextID)
	if err != nil {
		t.Fatalf("get executions by context: %v", err)
	}
	if len(executionIDs) != 1 || executionIDs[0] != executionID {
		t.Fatalf("expected exactly one association row despite double insert, got %v", executionIDs)
	}
}

func TestRelationshipTraversalLookups(t *testing.T) {
	env, ctx := newTestEnv(t)
	artifactID, executionID := seedArtifactAndExecution(t, env, ctx)
	contextID := seedContext(t, env, ctx)

	if err := env.rel.PutAttributionsAndAssociations(ctx,
		[]mlmd.Attribution{{ArtifactID: artifactID, ContextID: contextID}},
		[]mlmd.Association{{ExecutionID: executionID, ContextID: contextID}},
	); err != nil {
		t.Fatalf("put attributions and associations: %v", err)
	}

	contextsByArtifact, err := env.rel.GetContextsByArtifact(ctx, artifactID)
	if err != nil {
		t.Fatalf("contexts by artifact: %v", err)
	}
	if len(contextsByArtifact) != 1 || contextsByArtifact[0] != contextID {
		t.Fatalf("expected context %d, got %v", contextID, contextsByArtifact)
	}

	contextsByExecution, err := env.rel.GetContextsByExecution(ctx, executionID)
	if err != nil {
		t.Fatalf("contexts by execution: %v", err)
	}
	if len(contextsByExecution) != 1 || contextsByExecution[0] != contextID {
		t.Fatalf("expected context %d, got %v", contextID, contextsByExecution)
	}
}

func TestEventsWhereReturnsEmptyForNoIDs(t *testing.T) {
	env, ctx := newTestEnv(t)
	got, err := env.rel.GetEventsByArtifactIDs(ctx, nil)
	if err != nil {
		t.Fatalf("expected no error for empty id set, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}
