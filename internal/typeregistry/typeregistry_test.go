package typeregistry_test

import (
	"context"
	"testing"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/schema"
	"github.com/ZxMYS/ml-metadata/internal/storedb"
	"github.com/ZxMYS/ml-metadata/internal/typeregistry"
)

func newTestRegistry(t *testing.T) (typeregistry.Registry, context.Context) {
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
	return typeregistry.New(db), ctx
}

func TestPutTypeInsertsFresh(t *testing.T) {
	r, ctx := newTestRegistry(t)
	id, err := r.PutType(ctx, mlmd.KindArtifact, mlmd.Type{
		Name:       "Model",
		Properties: mlmd.PropertyMap{"version": mlmd.PropertyInt},
	}, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("put type: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected nonzero id")
	}
	got, err := r.GetTypeByName(ctx, mlmd.KindArtifact, "Model")
	if err != nil {
		t.Fatalf("get type: %v", err)
	}
	if got.Properties["version"] != mlmd.PropertyInt {
		t.Fatalf("property not persisted: %+v", got.Properties)
	}
}

func TestPutTypeIdenticalIsNoop(t *testing.T) {
	r, ctx := newTestRegistry(t)
	t1 := mlmd.Type{Name: "Dataset", Properties: mlmd.PropertyMap{"split": mlmd.PropertyString}}
	id1, err := r.PutType(ctx, mlmd.KindArtifact, t1, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("first put: %v", err)
	}
	id2, err := r.PutType(ctx, mlmd.KindArtifact, t1, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %d and %d", id1, id2)
	}
}

func TestPutTypeAddFieldsRequiresFlag(t *testing.T) {
	r, ctx := newTestRegistry(t)
	base := mlmd.Type{Name: "Dataset", Properties: mlmd.PropertyMap{"split": mlmd.PropertyString}}
	if _, err := r.PutType(ctx, mlmd.KindArtifact, base, typeregistry.PutOptions{}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	extended := mlmd.Type{Name: "Dataset", Properties: mlmd.PropertyMap{
		"split": mlmd.PropertyString,
		"rows":  mlmd.PropertyInt,
	}}
	if _, err := r.PutType(ctx, mlmd.KindArtifact, extended, typeregistry.PutOptions{}); mlmd.CodeOf(err) != mlmd.AlreadyExists {
		t.Fatalf("expected AlreadyExists without can_add_fields, got %v", err)
	}

	id, err := r.PutType(ctx, mlmd.KindArtifact, extended, typeregistry.PutOptions{CanAddFields: true})
	if err != nil {
		t.Fatalf("put with can_add_fields: %v", err)
	}
	got, err := r.GetTypeByName(ctx, mlmd.KindArtifact, "Dataset")
	if err != nil {
		t.Fatalf("get type: %v", err)
	}
	if got.ID != id || len(got.Properties) != 2 {
		t.Fatalf("expected 2 properties after add, got %+v", got.Properties)
	}
}

func TestPutTypeIncompatibleChangeRejected(t *testing.T) {
	r, ctx := newTestRegistry(t)
	base := mlmd.Type{Name: "Model", Properties: mlmd.PropertyMap{"accuracy": mlmd.PropertyDouble}}
	if _, err := r.PutType(ctx, mlmd.KindArtifact, base, typeregistry.PutOptions{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	changed := mlmd.Type{Name: "Model", Properties: mlmd.PropertyMap{"accuracy": mlmd.PropertyString}}
	_, err := r.PutType(ctx, mlmd.KindArtifact, changed, typeregistry.PutOptions{CanAddFields: true, AllFieldsMatch: true})
	if mlmd.CodeOf(err) != mlmd.AlreadyExists {
		t.Fatalf("expected AlreadyExists for incompatible property kind, got %v", err)
	}
}

func TestGetTypeByNameNotFound(t *testing.T) {
	r, ctx := newTestRegistry(t)
	_, err := r.GetTypeByName(ctx, mlmd.KindExecution, "missing")
	if mlmd.CodeOf(err) != mlmd.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetTypesByIDSkipsMissing(t *testing.T) {
	r, ctx := newTestRegistry(t)
	id, err := r.PutType(ctx, mlmd.KindContext, mlmd.Type{Name: "Experiment"}, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("put type: %v", err)
	}
	got, err := r.GetTypesByID(ctx, mlmd.KindContext, []int64{id, 999})
	if err != nil {
		t.Fatalf("get types by id: %v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Fatalf("expected only the existing id, got %+v", got)
	}
}

func TestPutTypesBatchDedupesWithinRequest(t *testing.T) {
	r, ctx := newTestRegistry(t)
	req := typeregistry.PutTypesRequest{
		ArtifactTypes: []mlmd.Type{
			{Name: "Model"},
			{Name: "Model"},
		},
	}
	resp, err := r.PutTypes(ctx, req)
	if err != nil {
		t.Fatalf("put types: %v", err)
	}
	if len(resp.ArtifactTypeIDs) != 2 || resp.ArtifactTypeIDs[0] != resp.ArtifactTypeIDs[1] {
		t.Fatalf("expected both entries to resolve to the same id, got %v", resp.ArtifactTypeIDs)
	}
}
