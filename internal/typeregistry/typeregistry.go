// Package typeregistry implements the Type Registry component: it stores
// type definitions and enforces compatibility on re-registration
// (spec.md §4.2). One implementation is specialized three times (for
// ARTIFACT, EXECUTION, CONTEXT types) via the Kind parameter rather than
// via separate per-kind code, per spec.md §9's polymorphism note.
package typeregistry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/query"
)

// Registry is the Type Registry, scoped to the executor it was built
// with — either *sql.DB for standalone use or a *sql.Tx supplied by the
// Request Dispatcher so every write lands in the caller's transaction.
type Registry struct {
	Exec query.Executor
}

func New(exec query.Executor) Registry {
	return Registry{Exec: exec}
}

// PutOptions mirrors the upsert controls named in spec.md §4.2.
type PutOptions struct {
	CanAddFields   bool
	AllFieldsMatch bool
}

// PutType upserts a type of the given kind, implementing the six rules of
// spec.md §4.2.
func (r Registry) PutType(ctx context.Context, kind mlmd.Kind, t mlmd.Type, opts PutOptions) (int64, error) {
	if t.Name == "" {
		return 0, mlmd.ErrInvalidArgument("type name is required")
	}

	existing, err := r.getByName(ctx, kind, t.Name)
	if err != nil && mlmd.CodeOf(err) != mlmd.NotFound {
		return 0, err
	}
	if err != nil { // not found: insert fresh
		return r.insert(ctx, kind, t)
	}

	added, removed, changed := diffProperties(existing.Properties, t.Properties)

	if opts.AllFieldsMatch {
		if len(removed) > 0 || len(changed) > 0 {
			return 0, mlmd.ErrAlreadyExists(
				"type %q: all_fields_match requested but stored properties differ (removed=%v changed=%v)", t.Name, removed, changed)
		}
	}

	if len(removed) > 0 || len(changed) > 0 {
		return 0, mlmd.ErrAlreadyExists(
			"type %q already exists with incompatible properties (removed=%v changed=%v)", t.Name, removed, changed)
	}

	if len(added) == 0 {
		// identical property set: idempotent no-op.
		return existing.ID, nil
	}

	if !opts.CanAddFields {
		return 0, mlmd.ErrAlreadyExists(
			"type %q already exists and request adds properties %v without can_add_fields", t.Name, added)
	}

	for _, name := range added {
		if _, err := r.Exec.ExecContext(ctx, `INSERT INTO TypeProperty(type_id, name, property_type) VALUES (?,?,?)`,
			existing.ID, name, t.Properties[name]); err != nil {
			return 0, mlmd.ErrInternal("insert type property %s.%s: %v", t.Name, name, err)
		}
	}
	return existing.ID, nil
}

// diffProperties compares stored to incoming, classifying each incoming
// property name as added (new), removed (only in stored), or changed
// (kind differs). Names present in both with the same kind are omitted.
func diffProperties(stored, incoming mlmd.PropertyMap) (added, removed, changed []string) {
	for name, kind := range incoming {
		sk, ok := stored[name]
		if !ok {
			added = append(added, name)
			continue
		}
		if sk != kind {
			changed = append(changed, name)
		}
	}
	for name := range stored {
		if _, ok := incoming[name]; !ok {
			removed = append(removed, name)
		}
	}
	return
}

func (r Registry) insert(ctx context.Context, kind mlmd.Kind, t mlmd.Type) (int64, error) {
	res, err := r.Exec.ExecContext(ctx, `INSERT INTO Type(kind, name) VALUES (?,?)`, int(kind), t.Name)
	if err != nil {
		return 0, mlmd.ErrInternal("insert type %s: %v", t.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mlmd.ErrInternal("type %s: read last insert id: %v", t.Name, err)
	}
	for name, pk := range t.Properties {
		if pk == mlmd.PropertyUnknown {
			return 0, mlmd.ErrInvalidArgument("type %s: property %s has unknown kind", t.Name, name)
		}
		if _, err := r.Exec.ExecContext(ctx, `INSERT INTO TypeProperty(type_id, name, property_type) VALUES (?,?,?)`,
			id, name, pk); err != nil {
			return 0, mlmd.ErrInternal("insert type property %s.%s: %v", t.Name, name, err)
		}
	}
	return id, nil
}

func (r Registry) getByName(ctx context.Context, kind mlmd.Kind, name string) (mlmd.Type, error) {
	var id int64
	err := r.Exec.QueryRowContext(ctx, `SELECT id FROM Type WHERE kind = ? AND name = ?`, int(kind), name).Scan(&id)
	if err == sql.ErrNoRows {
		return mlmd.Type{}, mlmd.ErrNotFound("%s type %q not found", kind, name)
	}
	if err != nil {
		return mlmd.Type{}, mlmd.ErrInternal("lookup type %s: %v", name, err)
	}
	return r.getByID(ctx, kind, id)
}

func (r Registry) getByID(ctx context.Context, kind mlmd.Kind, id int64) (mlmd.Type, error) {
	var name string
	var gotKind int
	err := r.Exec.QueryRowContext(ctx, `SELECT name, kind FROM Type WHERE id = ?`, id).Scan(&name, &gotKind)
	if err == sql.ErrNoRows {
		return mlmd.Type{}, mlmd.ErrNotFound("type id %d not found", id)
	}
	if err != nil {
		return mlmd.Type{}, mlmd.ErrInternal("lookup type id %d: %v", id, err)
	}
	if mlmd.Kind(gotKind) != kind {
		return mlmd.Type{}, mlmd.ErrNotFound("type id %d is not a %s type", id, kind)
	}
	props, err := r.propertiesOf(ctx, id)
	if err != nil {
		return mlmd.Type{}, err
	}
	return mlmd.Type{ID: id, Kind: kind, Name: name, Properties: props}, nil
}

func (r Registry) propertiesOf(ctx context.Context, typeID int64) (mlmd.PropertyMap, error) {
	rows, err := r.Exec.QueryContext(ctx, `SELECT name, property_type FROM TypeProperty WHERE type_id = ?`, typeID)
	if err != nil {
		return nil, mlmd.ErrInternal("list type properties for %d: %v", typeID, err)
	}
	defer rows.Close()
	props := mlmd.PropertyMap{}
	for rows.Next() {
		var name string
		var pk int
		if err := rows.Scan(&name, &pk); err != nil {
			return nil, mlmd.ErrInternal("scan type property: %v", err)
		}
		props[name] = mlmd.PropertyType(pk)
	}
	return props, rows.Err()
}

// GetTypeByName returns the type of the given kind registered under name.
func (r Registry) GetTypeByName(ctx context.Context, kind mlmd.Kind, name string) (mlmd.Type, error) {
	return r.getByName(ctx, kind, name)
}

// GetTypesByID returns the subset of ids that resolve to a type of the
// given kind. Missing ids are silently omitted (spec.md §4.3 applies the
// same "missing ids do not produce errors" rule to type lookups here).
func (r Registry) GetTypesByID(ctx context.Context, kind mlmd.Kind, ids []int64) ([]mlmd.Type, error) {
	var out []mlmd.Type
	for _, id := range ids {
		t, err := r.getByID(ctx, kind, id)
		if err != nil {
			if mlmd.CodeOf(err) == mlmd.NotFound {
				continue
			}
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// GetTypes lists every registered type of the given kind.
func (r Registry) GetTypes(ctx context.Context, kind mlmd.Kind) ([]mlmd.Type, error) {
	rows, err := r.Exec.QueryContext(ctx, `SELECT id FROM Type WHERE kind = ? ORDER BY id`, int(kind))
	if err != nil {
		return nil, mlmd.ErrInternal("list %s types: %v", kind, err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, mlmd.ErrInternal("scan type id: %v", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mlmd.ErrInternal("list %s types: %v", kind, err)
	}
	var out []mlmd.Type
	for _, id := range ids {
		t, err := r.getByID(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// PutTypesRequest is the input to the multi-kind batch operation
// (spec.md §4.2).
type PutTypesRequest struct {
	ArtifactTypes  []mlmd.Type
	ExecutionTypes []mlmd.Type
	ContextTypes   []mlmd.Type
	Options        PutOptions
}

// PutTypesResponse carries the assigned ids in the same order as the
// request's slices.
type PutTypesResponse struct {
	ArtifactTypeIDs  []int64
	ExecutionTypeIDs []int64
	ContextTypeIDs   []int64
}

// PutTypes processes a batch across all three kinds under the same rules
// as PutType; duplicate entries within the batch describing the same type
// resolve to the same id (spec.md §4.2).
func (r Registry) PutTypes(ctx context.Context, req PutTypesRequest) (PutTypesResponse, error) {
	var resp PutTypesResponse
	seen := map[string]int64{}

	put := func(kind mlmd.Kind, t mlmd.Type) (int64, error) {
		key := fmt.Sprintf("%d:%s", kind, t.Name)
		if id, ok := seen[key]; ok {
			return id, nil
		}
		id, err := r.PutType(ctx, kind, t, req.Options)
		if err != nil {
			return 0, err
		}
		seen[key] = id
		return id, nil
	}

	for _, t := range req.ArtifactTypes {
		id, err := put(mlmd.KindArtifact, t)
		if err != nil {
			return PutTypesResponse{}, err
		}
		resp.ArtifactTypeIDs = append(resp.ArtifactTypeIDs, id)
	}
	for _, t := range req.ExecutionTypes {
		id, err := put(mlmd.KindExecution, t)
		if err != nil {
			return PutTypesResponse{}, err
		}
		resp.ExecutionTypeIDs = append(resp.ExecutionTypeIDs, id)
	}
	for _, t := range req.ContextTypes {
		id, err := put(mlmd.KindContext, t)
		if err != nil {
			return PutTypesResponse{}, err
		}
		resp.ContextTypeIDs = append(resp.ContextTypeIDs, id)
	}
	return resp, nil
}
