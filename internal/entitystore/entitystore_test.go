package entitystore_test

import (
	"context"
	"testing"

	"github.com/ZxMYS/ml-metadata/internal/entitystore"
	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/schema"
	"github.com/ZxMYS/ml-metadata/internal/storedb"
	"github.com/ZxMYS/ml-metadata/internal/typeregistry"
)

func newTestStore(t *testing.T) (entitystore.Store, context.Context) {
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
	return entitystore.New(db), ctx
}

func seedArtifactType(t *testing.T, s entitystore.Store, ctx context.Context) int64 {
	t.Helper()
	id, err := s.Types.PutType(ctx, mlmd.KindArtifact, mlmd.Type{
		Name:       "Model",
		Properties: mlmd.PropertyMap{"accuracy": mlmd.PropertyDouble},
	}, typeregistry.PutOptions{})
	if err != nil {
		t.Fatalf("seed type: %v", err)
	}
	return id
}

func TestPutArtifactInsertThenUpdateMerges(t *testing.T) {
	s, ctx := newTestStore(t)
	typeID := seedArtifactType(t, s, ctx)

	id, err := s.PutArtifact(ctx, mlmd.Artifact{
		Entity: mlmd.Entity{TypeID: typeID, Properties: mlmd.ValueMap{"accuracy": mlmd.DoubleValue(0.9)}},
		URI:    "s3://bucket/model-1",
	})
	if err != nil {
		t.Fatalf("insert artifact: %v", err)
	}

	if _, err := s.PutArtifact(ctx, mlmd.Artifact{
		Entity: mlmd.Entity{
			ID:               id,
			TypeID:           typeID,
			CustomProperties: mlmd.ValueMap{"note": mlmd.StringValue("retrained")},
		},
	}); err != nil {
		t.Fatalf("update artifact: %v", err)
	}

	got, err := s.GetArtifactByID(ctx, id)
	if err != nil {
		t.Fatalf("get artifact: %v", err)
	}
	if got.URI != "s3://bucket/model-1" {
		t.Fatalf("expected URI preserved across update, got %q", got.URI)
	}
	if !got.Properties["accuracy"].Equal(mlmd.DoubleValue(0.9)) {
		t.Fatalf("expected accuracy preserved, got %+v", got.Properties)
	}
	if got.CustomProperties["note"].StringValue != "retrained" {
		t.Fatalf("expected custom property merged in, got %+v", got.CustomProperties)
	}
}

func TestPutArtifactUnknownTypeRejected(t *testing.T) {
	s, ctx := newTestStore(t)
	_, err := s.PutArtifact(ctx, mlmd.Artifact{Entity: mlmd.Entity{TypeID: 999}})
	if mlmd.CodeOf(err) != mlmd.InvalidArgument {
		t.Fatalf("expected InvalidArgument for unknown type, got %v", err)
	}
}

func TestGetArtifactByIDNotFound(t *testing.T) {
	s, ctx := newTestStore(t)
	_, err := s.GetArtifactByID(ctx, 12345)
	if mlmd.CodeOf(err) != mlmd.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetArtifactsByIDSkipsMissing(t *testing.T) {
	s, ctx := newTestStore(t)
	typeID := seedArtifactType(t, s, ctx)
	id, err := s.PutArtifact(ctx, mlmd.Artifact{Entity: mlmd.Entity{TypeID: typeID}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := s.GetArtifactsByID(ctx, []int64{id, 999})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Fatalf("expected only the existing artifact, got %+v", got)
	}
}

func TestGetArtifactsByTypeUnknownTypeReturnsEmpty(t *testing.T) {
	s, ctx := newTestStore(t)
	got, err := s.GetArtifactsByType(ctx, "DoesNotExist")
	if err != nil {
		t.Fatalf("expected no error for unknown type, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestGetArtifactsByURIMatchesExactly(t *testing.T) {
	s, ctx := newTestStore(t)
	typeID := seedArtifactType(t, s, ctx)
	if _, err := s.PutArtifact(ctx, mlmd.Artifact{Entity: mlmd.Entity{TypeID: typeID}, URI: "gs://a"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.PutArtifact(ctx, mlmd.Artifact{Entity: mlmd.Entity{TypeID: typeID}, URI: "gs://b"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := s.GetArtifactsByURI(ctx, "gs://a")
	if err != nil {
		t.Fatalf("get by uri: %v", err)
	}
	if len(got) != 1 || got[0].URI != "gs://a" {
		t.Fatalf("expected exactly one match, got %+v", got)
	}
}

func TestListOptionsPagesByAfterID(t *testing.T) {
	s, ctx := newTestStore(t)
	typeID := seedArtifactType(t, s, ctx)
	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := s.PutArtifact(ctx, mlmd.Artifact{Entity: mlmd.Entity{TypeID: typeID}})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}
	page, err := s.GetArtifacts(ctx, entitystore.ListOptions{AfterID: ids[0], Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 1 || page[0].ID != ids[1] {
		t.Fatalf("expected page to start after %d with limit 1, got %+v", ids[0], page)
	}
}
