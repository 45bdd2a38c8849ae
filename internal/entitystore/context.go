package entitystore

import (
	"context"
	"database/sql"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
)

// PutContexts upserts each context in order, returning final ids in input
// order.
func (s Store) PutContexts(ctx context.Context, contexts []mlmd.Context) ([]int64, error) {
	ids := make([]int64, len(contexts))
	for i, c := range contexts {
		id, err := s.PutContext(ctx, c)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// PutContext upserts one context. Context.name must be unique within its
// type_id (spec.md §3 invariant 5).
func (s Store) PutContext(ctx context.Context, c mlmd.Context) (int64, error) {
	if c.ID == 0 {
		return s.insertContext(ctx, c)
	}
	return s.updateContext(ctx, c)
}

func (s Store) insertContext(ctx context.Context, c mlmd.Context) (int64, error) {
	if c.Name == "" {
		return 0, mlmd.ErrInvalidArgument("context name is required")
	}
	typ, err := s.Types.GetTypesByID(ctx, mlmd.KindContext, []int64{c.TypeID})
	if err != nil {
		return 0, err
	}
	if len(typ) == 0 {
		return 0, mlmd.ErrInvalidArgument("context references unknown type_id %d", c.TypeID)
	}
	if err := validateDeclaredProperties(typ[0], c.Properties); err != nil {
		return 0, err
	}
	var dupe int64
	err = s.Exec.QueryRowContext(ctx, `SELECT id FROM Context WHERE type_id = ? AND name = ?`, c.TypeID, c.Name).Scan(&dupe)
	if err == nil {
		return 0, mlmd.ErrAlreadyExists("context %q already exists for type_id %d (id=%d)", c.Name, c.TypeID, dupe)
	}
	if err != sql.ErrNoRows {
		return 0, mlmd.ErrInternal("lookup context by name: %v", err)
	}
	res, err := s.Exec.ExecContext(ctx, `INSERT INTO Context(type_id, name) VALUES (?,?)`, c.TypeID, c.Name)
	if err != nil {
		return 0, mlmd.ErrInternal("insert context: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mlmd.ErrInternal("context: read last insert id: %v", err)
	}
	if err := insertProperties(ctx, s.Exec, contextTable, id, c.Properties, c.CustomProperties); err != nil {
		return 0, err
	}
	return id, nil
}

func (s Store) updateContext(ctx context.Context, c mlmd.Context) (int64, error) {
	existing, err := s.GetContextByID(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	typ, err := s.Types.GetTypesByID(ctx, mlmd.KindContext, []int64{existing.TypeID})
	if err != nil {
		return 0, err
	}
	if len(typ) == 0 {
		return 0, mlmd.ErrInvalidArgument("context %d references unknown type_id %d", c.ID, existing.TypeID)
	}
	if err := validateDeclaredProperties(typ[0], c.Properties); err != nil {
		return 0, err
	}

	name := existing.Name
	if c.Name != "" {
		name = c.Name
	}
	if name != existing.Name {
		var dupe int64
		err := s.Exec.QueryRowContext(ctx, `SELECT id FROM Context WHERE type_id = ? AND name = ? AND id != ?`, existing.TypeID, name, c.ID).Scan(&dupe)
		if err == nil {
			return 0, mlmd.ErrAlreadyExists("context %q already exists for type_id %d (id=%d)", name, existing.TypeID, dupe)
		}
		if err != sql.ErrNoRows {
			return 0, mlmd.ErrInternal("lookup context by name: %v", err)
		}
	}
	if _, err := s.Exec.ExecContext(ctx, `UPDATE Context SET name = ? WHERE id = ?`, name, c.ID); err != nil {
		return 0, mlmd.ErrInternal("update context %d: %v", c.ID, err)
	}

	if err := mergeAndWrite(ctx, s.Exec, contextTable, c.ID, existing.Properties, c.Properties, false); err != nil {
		return 0, err
	}
	if err := mergeAndWrite(ctx, s.Exec, contextTable, c.ID, existing.CustomProperties, c.CustomProperties, true); err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (s Store) scanContext(ctx context.Context, id, typeID int64, name string) (mlmd.Context, error) {
	props, custom, err := readProperties(ctx, s.Exec, contextTable, id)
	if err != nil {
		return mlmd.Context{}, err
	}
	return mlmd.Context{
		Entity: mlmd.Entity{ID: id, TypeID: typeID, Properties: props, CustomProperties: custom},
		Name:   name,
	}, nil
}

// GetContextByID returns NOT_FOUND if id does not exist.
func (s Store) GetContextByID(ctx context.Context, id int64) (mlmd.Context, error) {
	var typeID int64
	var name string
	err := s.Exec.QueryRowContext(ctx, `SELECT type_id, name FROM Context WHERE id = ?`, id).Scan(&typeID, &name)
	if err == sql.ErrNoRows {
		return mlmd.Context{}, mlmd.ErrNotFound("context %d not found", id)
	}
	if err != nil {
		return mlmd.Context{}, mlmd.ErrInternal("lookup context %d: %v", id, err)
	}
	return s.scanContext(ctx, id, typeID, name)
}

// GetContextsByID returns only the rows found (spec.md §4.3).
func (s Store) GetContextsByID(ctx context.Context, ids []int64) ([]mlmd.Context, error) {
	var out []mlmd.Context
	for _, id := range ids {
		c, err := s.GetContextByID(ctx, id)
		if err != nil {
			if mlmd.CodeOf(err) == mlmd.NotFound {
				continue
			}
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// GetContexts lists every stored context, optionally paginated.
func (s Store) GetContexts(ctx context.Context, opts ListOptions) ([]mlmd.Context, error) {
	q := `SELECT id, type_id, name FROM Context WHERE id > ? ORDER BY id`
	args := []any{opts.AfterID}
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}
	rows, err := s.Exec.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mlmd.ErrInternal("list contexts: %v", err)
	}
	defer rows.Close()
	type row struct {
		id, typeID int64
		name       string
	}
	var rs []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.typeID, &r.name); err != nil {
			return nil, mlmd.ErrInternal("scan context: %v", err)
		}
		rs = append(rs, r)
	}
	var out []mlmd.Context
	for _, r := range rs {
		c, err := s.scanContext(ctx, r.id, r.typeID, r.name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// GetContextsByType returns an empty list if the type does not exist.
func (s Store) GetContextsByType(ctx context.Context, typeName string) ([]mlmd.Context, error) {
	typ, err := s.Types.GetTypeByName(ctx, mlmd.KindContext, typeName)
	if err != nil {
		if mlmd.CodeOf(err) == mlmd.NotFound {
			return nil, nil
		}
		return nil, err
	}
	rows, err := s.Exec.QueryContext(ctx, `SELECT id, name FROM Context WHERE type_id = ? ORDER BY id`, typ.ID)
	if err != nil {
		return nil, mlmd.ErrInternal("list contexts by type %s: %v", typeName, err)
	}
	defer rows.Close()
	type row struct {
		id   int64
		name string
	}
	var rs []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.name); err != nil {
			return nil, mlmd.ErrInternal("scan context: %v", err)
		}
		rs = append(rs, r)
	}
	var out []mlmd.Context
	for _, r := range rs {
		c, err := s.scanContext(ctx, r.id, typ.ID, r.name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
