package entitystore

import (
	"context"
	"database/sql"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/query"
)

// PutArtifacts upserts each artifact in order and returns the final ids in
// the same order (spec.md §4.3).
func (s Store) PutArtifacts(ctx context.Context, artifacts []mlmd.Artifact) ([]int64, error) {
	ids := make([]int64, len(artifacts))
	for i, a := range artifacts {
		id, err := s.PutArtifact(ctx, a)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// PutArtifact upserts one artifact (insert if ID is unset, merge-update
// otherwise).
func (s Store) PutArtifact(ctx context.Context, a mlmd.Artifact) (int64, error) {
	if a.ID == 0 {
		return s.insertArtifact(ctx, a)
	}
	return s.updateArtifact(ctx, a)
}

func (s Store) insertArtifact(ctx context.Context, a mlmd.Artifact) (int64, error) {
	typ, err := s.Types.GetTypesByID(ctx, mlmd.KindArtifact, []int64{a.TypeID})
	if err != nil {
		return 0, err
	}
	if len(typ) == 0 {
		return 0, mlmd.ErrInvalidArgument("artifact references unknown type_id %d", a.TypeID)
	}
	if err := validateDeclaredProperties(typ[0], a.Properties); err != nil {
		return 0, err
	}
	res, err := s.Exec.ExecContext(ctx, `INSERT INTO Artifact(type_id, uri) VALUES (?,?)`, a.TypeID, nullableURI(a.URI))
	if err != nil {
		return 0, mlmd.ErrInternal("insert artifact: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mlmd.ErrInternal("artifact: read last insert id: %v", err)
	}
	if err := insertProperties(ctx, s.Exec, artifactTable, id, a.Properties, a.CustomProperties); err != nil {
		return 0, err
	}
	return id, nil
}

func (s Store) updateArtifact(ctx context.Context, a mlmd.Artifact) (int64, error) {
	existing, err := s.GetArtifactByID(ctx, a.ID)
	if err != nil {
		return 0, err
	}
	typ, err := s.Types.GetTypesByID(ctx, mlmd.KindArtifact, []int64{existing.TypeID})
	if err != nil {
		return 0, err
	}
	if len(typ) == 0 {
		return 0, mlmd.ErrInvalidArgument("artifact %d references unknown type_id %d", a.ID, existing.TypeID)
	}
	if err := validateDeclaredProperties(typ[0], a.Properties); err != nil {
		return 0, err
	}

	uri := existing.URI
	if a.URI != "" {
		uri = a.URI
	}
	if _, err := s.Exec.ExecContext(ctx, `UPDATE Artifact SET uri = ? WHERE id = ?`, nullableURI(uri), a.ID); err != nil {
		return 0, mlmd.ErrInternal("update artifact %d: %v", a.ID, err)
	}

	if err := mergeAndWrite(ctx, s.Exec, artifactTable, a.ID, existing.Properties, a.Properties, false); err != nil {
		return 0, err
	}
	if err := mergeAndWrite(ctx, s.Exec, artifactTable, a.ID, existing.CustomProperties, a.CustomProperties, true); err != nil {
		return 0, err
	}
	return a.ID, nil
}

// mergeAndWrite writes only the keys that are new or changed relative to
// stored, implementing the "merge, never remove" semantics without
// rewriting every stored property on every update.
func mergeAndWrite(ctx context.Context, exec query.Executor, t table, id int64, stored, incoming mlmd.ValueMap, isCustom bool) error {
	for name, v := range incoming {
		if old, ok := stored[name]; ok && old.Equal(v) {
			continue
		}
		if err := replaceProperty(ctx, exec, t, id, name, v, isCustom); err != nil {
			return err
		}
	}
	return nil
}

func nullableURI(uri string) any {
	if uri == "" {
		return nil
	}
	return uri
}

func (s Store) scanArtifact(ctx context.Context, id, typeID int64, uri sql.NullString) (mlmd.Artifact, error) {
	props, custom, err := readProperties(ctx, s.Exec, artifactTable, id)
	if err != nil {
		return mlmd.Artifact{}, err
	}
	return mlmd.Artifact{
		Entity: mlmd.Entity{ID: id, TypeID: typeID, Properties: props, CustomProperties: custom},
		URI:    uri.String,
	}, nil
}

// GetArtifactByID returns NOT_FOUND if id does not exist.
func (s Store) GetArtifactByID(ctx context.Context, id int64) (mlmd.Artifact, error) {
	var typeID int64
	var uri sql.NullString
	err := s.Exec.QueryRowContext(ctx, `SELECT type_id, uri FROM Artifact WHERE id = ?`, id).Scan(&typeID, &uri)
	if err == sql.ErrNoRows {
		return mlmd.Artifact{}, mlmd.ErrNotFound("artifact %d not found", id)
	}
	if err != nil {
		return mlmd.Artifact{}, mlmd.ErrInternal("lookup artifact %d: %v", id, err)
	}
	return s.scanArtifact(ctx, id, typeID, uri)
}

// GetArtifactsByID returns only the rows found; missing ids are silently
// omitted (spec.md §4.3).
func (s Store) GetArtifactsByID(ctx context.Context, ids []int64) ([]mlmd.Artifact, error) {
	var out []mlmd.Artifact
	for _, id := range ids {
		a, err := s.GetArtifactByID(ctx, id)
		if err != nil {
			if mlmd.CodeOf(err) == mlmd.NotFound {
				continue
			}
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// GetArtifacts lists every stored artifact, optionally paginated.
func (s Store) GetArtifacts(ctx context.Context, opts ListOptions) ([]mlmd.Artifact, error) {
	q := `SELECT id, type_id, uri FROM Artifact WHERE id > ? ORDER BY id`
	args := []any{opts.AfterID}
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}
	rows, err := s.Exec.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mlmd.ErrInternal("list artifacts: %v", err)
	}
	defer rows.Close()
	type row struct {
		id, typeID int64
		uri        sql.NullString
	}
	var rs []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.typeID, &r.uri); err != nil {
			return nil, mlmd.ErrInternal("scan artifact: %v", err)
		}
		rs = append(rs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, mlmd.ErrInternal("list artifacts: %v", err)
	}
	var out []mlmd.Artifact
	for _, r := range rs {
		a, err := s.scanArtifact(ctx, r.id, r.typeID, r.uri)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// GetArtifactsByType returns an empty list (not an error) if the type
// does not exist (spec.md §4.3).
func (s Store) GetArtifactsByType(ctx context.Context, typeName string) ([]mlmd.Artifact, error) {
	typ, err := s.Types.GetTypeByName(ctx, mlmd.KindArtifact, typeName)
	if err != nil {
		if mlmd.CodeOf(err) == mlmd.NotFound {
			return nil, nil
		}
		return nil, err
	}
	rows, err := s.Exec.QueryContext(ctx, `SELECT id, uri FROM Artifact WHERE type_id = ? ORDER BY id`, typ.ID)
	if err != nil {
		return nil, mlmd.ErrInternal("list artifacts by type %s: %v", typeName, err)
	}
	defer rows.Close()
	var ids []int64
	var uris []sql.NullString
	for rows.Next() {
		var id int64
		var uri sql.NullString
		if err := rows.Scan(&id, &uri); err != nil {
			return nil, mlmd.ErrInternal("scan artifact: %v", err)
		}
		ids = append(ids, id)
		uris = append(uris, uri)
	}
	var out []mlmd.Artifact
	for i, id := range ids {
		a, err := s.scanArtifact(ctx, id, typ.ID, uris[i])
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// GetArtifactsByURI matches exactly; an empty uri matches artifacts whose
// uri is empty/unset, both being equivalent (spec.md §4.3).
func (s Store) GetArtifactsByURI(ctx context.Context, uri string) ([]mlmd.Artifact, error) {
	var rows *sql.Rows
	var err error
	if uri == "" {
		rows, err = s.Exec.QueryContext(ctx, `SELECT id, type_id FROM Artifact WHERE uri IS NULL OR uri = '' ORDER BY id`)
	} else {
		rows, err = s.Exec.QueryContext(ctx, `SELECT id, type_id FROM Artifact WHERE uri = ? ORDER BY id`, uri)
	}
	if err != nil {
		return nil, mlmd.ErrInternal("list artifacts by uri: %v", err)
	}
	defer rows.Close()
	var ids, typeIDs []int64
	for rows.Next() {
		var id, typeID int64
		if err := rows.Scan(&id, &typeID); err != nil {
			return nil, mlmd.ErrInternal("scan artifact: %v", err)
		}
		ids = append(ids, id)
		typeIDs = append(typeIDs, typeID)
	}
	var out []mlmd.Artifact
	for i, id := range ids {
		a, err := s.scanArtifact(ctx, id, typeIDs[i], sql.NullString{String: uri, Valid: uri != ""})
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
