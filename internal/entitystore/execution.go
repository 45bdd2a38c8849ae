package entitystore

import (
	"context"
	"database/sql"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
)

// PutExecutions upserts each execution in order, returning final ids in
// input order.
func (s Store) PutExecutions(ctx context.Context, executions []mlmd.Execution) ([]int64, error) {
	ids := make([]int64, len(executions))
	for i, e := range executions {
		id, err := s.PutExecution(ctx, e)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// PutExecution upserts one execution. This is the Entity Store's
// primitive; the composite, transactional operation named "PutExecution"
// in spec.md §4.4 lives in internal/store and calls this plus the
// Relationship Store.
func (s Store) PutExecution(ctx context.Context, e mlmd.Execution) (int64, error) {
	if e.ID == 0 {
		return s.insertExecution(ctx, e)
	}
	return s.updateExecution(ctx, e)
}

func (s Store) insertExecution(ctx context.Context, e mlmd.Execution) (int64, error) {
	typ, err := s.Types.GetTypesByID(ctx, mlmd.KindExecution, []int64{e.TypeID})
	if err != nil {
		return 0, err
	}
	if len(typ) == 0 {
		return 0, mlmd.ErrInvalidArgument("execution references unknown type_id %d", e.TypeID)
	}
	if err := validateDeclaredProperties(typ[0], e.Properties); err != nil {
		return 0, err
	}
	res, err := s.Exec.ExecContext(ctx, `INSERT INTO Execution(type_id) VALUES (?)`, e.TypeID)
	if err != nil {
		return 0, mlmd.ErrInternal("insert execution: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mlmd.ErrInternal("execution: read last insert id: %v", err)
	}
	if err := insertProperties(ctx, s.Exec, executionTable, id, e.Properties, e.CustomProperties); err != nil {
		return 0, err
	}
	return id, nil
}

func (s Store) updateExecution(ctx context.Context, e mlmd.Execution) (int64, error) {
	existing, err := s.GetExecutionByID(ctx, e.ID)
	if err != nil {
		return 0, err
	}
	typ, err := s.Types.GetTypesByID(ctx, mlmd.KindExecution, []int64{existing.TypeID})
	if err != nil {
		return 0, err
	}
	if len(typ) == 0 {
		return 0, mlmd.ErrInvalidArgument("execution %d references unknown type_id %d", e.ID, existing.TypeID)
	}
	if err := validateDeclaredProperties(typ[0], e.Properties); err != nil {
		return 0, err
	}
	if err := mergeAndWrite(ctx, s.Exec, executionTable, e.ID, existing.Properties, e.Properties, false); err != nil {
		return 0, err
	}
	if err := mergeAndWrite(ctx, s.Exec, executionTable, e.ID, existing.CustomProperties, e.CustomProperties, true); err != nil {
		return 0, err
	}
	return e.ID, nil
}

func (s Store) scanExecution(ctx context.Context, id, typeID int64) (mlmd.Execution, error) {
	props, custom, err := readProperties(ctx, s.Exec, executionTable, id)
	if err != nil {
		return mlmd.Execution{}, err
	}
	return mlmd.Execution{Entity: mlmd.Entity{ID: id, TypeID: typeID, Properties: props, CustomProperties: custom}}, nil
}

// GetExecutionByID returns NOT_FOUND if id does not exist.
func (s Store) GetExecutionByID(ctx context.Context, id int64) (mlmd.Execution, error) {
	var typeID int64
	err := s.Exec.QueryRowContext(ctx, `SELECT type_id FROM Execution WHERE id = ?`, id).Scan(&typeID)
	if err == sql.ErrNoRows {
		return mlmd.Execution{}, mlmd.ErrNotFound("execution %d not found", id)
	}
	if err != nil {
		return mlmd.Execution{}, mlmd.ErrInternal("lookup execution %d: %v", id, err)
	}
	return s.scanExecution(ctx, id, typeID)
}

// GetExecutionsByID returns only the rows found (spec.md §4.3).
func (s Store) GetExecutionsByID(ctx context.Context, ids []int64) ([]mlmd.Execution, error) {
	var out []mlmd.Execution
	for _, id := range ids {
		e, err := s.GetExecutionByID(ctx, id)
		if err != nil {
			if mlmd.CodeOf(err) == mlmd.NotFound {
				continue
			}
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// GetExecutions lists every stored execution, optionally paginated.
func (s Store) GetExecutions(ctx context.Context, opts ListOptions) ([]mlmd.Execution, error) {
	q := `SELECT id, type_id FROM Execution WHERE id > ? ORDER BY id`
	args := []any{opts.AfterID}
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}
	rows, err := s.Exec.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mlmd.ErrInternal("list executions: %v", err)
	}
	defer rows.Close()
	var ids, typeIDs []int64
	for rows.Next() {
		var id, typeID int64
		if err := rows.Scan(&id, &typeID); err != nil {
			return nil, mlmd.ErrInternal("scan execution: %v", err)
		}
		ids = append(ids, id)
		typeIDs = append(typeIDs, typeID)
	}
	var out []mlmd.Execution
	for i, id := range ids {
		e, err := s.scanExecution(ctx, id, typeIDs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// GetExecutionsByType returns an empty list if the type does not exist.
func (s Store) GetExecutionsByType(ctx context.Context, typeName string) ([]mlmd.Execution, error) {
	typ, err := s.Types.GetTypeByName(ctx, mlmd.KindExecution, typeName)
	if err != nil {
		if mlmd.CodeOf(err) == mlmd.NotFound {
			return nil, nil
		}
		return nil, err
	}
	rows, err := s.Exec.QueryContext(ctx, `SELECT id FROM Execution WHERE type_id = ? ORDER BY id`, typ.ID)
	if err != nil {
		return nil, mlmd.ErrInternal("list executions by type %s: %v", typeName, err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, mlmd.ErrInternal("scan execution: %v", err)
		}
		ids = append(ids, id)
	}
	var out []mlmd.Execution
	for _, id := range ids {
		e, err := s.scanExecution(ctx, id, typ.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
