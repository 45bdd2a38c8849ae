// Package entitystore implements the Entity Store component: it stores
// artifacts, executions, and contexts, validating their declared
// properties against the owning type (spec.md §4.3). The three entity
// kinds are one generic implementation (this file's property helpers,
// shared by all three) specialized three times for their kind-specific
// extra fields (internal/entitystore/{artifact,execution,context}.go),
// per spec.md §9.
package entitystore

import (
	"context"
	"database/sql"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/query"
)

// table names the property table and join column for one entity kind.
type table struct {
	entity   string // e.g. "Artifact"
	property string // e.g. "ArtifactProperty"
	idColumn string // e.g. "artifact_id"
}

var (
	artifactTable  = table{"Artifact", "ArtifactProperty", "artifact_id"}
	executionTable = table{"Execution", "ExecutionProperty", "execution_id"}
	contextTable   = table{"Context", "ContextProperty", "context_id"}
)

func insertProperties(ctx context.Context, exec query.Executor, t table, id int64, props, custom mlmd.ValueMap) error {
	if err := insertPropertySet(ctx, exec, t, id, props, false); err != nil {
		return err
	}
	return insertPropertySet(ctx, exec, t, id, custom, true)
}

func insertPropertySet(ctx context.Context, exec query.Executor, t table, id int64, values mlmd.ValueMap, isCustom bool) error {
	for name, v := range values {
		if err := insertOneProperty(ctx, exec, t, id, name, v, isCustom); err != nil {
			return err
		}
	}
	return nil
}

func insertOneProperty(ctx context.Context, exec query.Executor, t table, id int64, name string, v mlmd.Value, isCustom bool) error {
	query := `INSERT INTO ` + t.property + `(` + t.idColumn + `, name, is_custom, property_type, int_value, double_value, string_value)
		VALUES (?,?,?,?,?,?,?)`
	_, err := exec.ExecContext(ctx, query, id, name, boolToInt(isCustom), int(v.Type), nullableInt(v), nullableDouble(v), nullableString(v))
	if err != nil {
		return mlmd.ErrInternal("insert property %s on %s %d: %v", name, t.entity, id, err)
	}
	return nil
}

// replaceProperty overwrites a single property's value (used by merge
// updates, where the input's value wins over the stored one).
func replaceProperty(ctx context.Context, exec query.Executor, t table, id int64, name string, v mlmd.Value, isCustom bool) error {
	query := `DELETE FROM ` + t.property + ` WHERE ` + t.idColumn + ` = ? AND name = ? AND is_custom = ?`
	if _, err := exec.ExecContext(ctx, query, id, name, boolToInt(isCustom)); err != nil {
		return mlmd.ErrInternal("clear property %s on %s %d: %v", name, t.entity, id, err)
	}
	return insertOneProperty(ctx, exec, t, id, name, v, isCustom)
}

func readProperties(ctx context.Context, exec query.Executor, t table, id int64) (props, custom mlmd.ValueMap, err error) {
	rows, err := exec.QueryContext(ctx, `SELECT name, is_custom, property_type, int_value, double_value, string_value FROM `+t.property+` WHERE `+t.idColumn+` = ?`, id)
	if err != nil {
		return nil, nil, mlmd.ErrInternal("list properties for %s %d: %v", t.entity, id, err)
	}
	defer rows.Close()
	props, custom = mlmd.ValueMap{}, mlmd.ValueMap{}
	for rows.Next() {
		var name string
		var isCustom int
		var pt int
		var iv sql.NullInt64
		var dv sql.NullFloat64
		var sv sql.NullString
		if err := rows.Scan(&name, &isCustom, &pt, &iv, &dv, &sv); err != nil {
			return nil, nil, mlmd.ErrInternal("scan property for %s %d: %v", t.entity, id, err)
		}
		v := mlmd.Value{Type: mlmd.PropertyType(pt)}
		switch v.Type {
		case mlmd.PropertyInt:
			v.IntValue = iv.Int64
		case mlmd.PropertyDouble:
			v.DoubleValue = dv.Float64
		case mlmd.PropertyString:
			v.StringValue = sv.String
		}
		if isCustom != 0 {
			custom[name] = v
		} else {
			props[name] = v
		}
	}
	return props, custom, rows.Err()
}

// mergeValueMaps returns the result of merging incoming over stored: the
// input's value wins for each key present in it, otherwise the stored
// value is kept. No stored property is ever removed (spec.md §4.3 —
// "the wire message cannot distinguish omitted from explicitly cleared").
func mergeValueMaps(stored, incoming mlmd.ValueMap) mlmd.ValueMap {
	merged := make(mlmd.ValueMap, len(stored)+len(incoming))
	for k, v := range stored {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableInt(v mlmd.Value) any {
	if v.Type == mlmd.PropertyInt {
		return v.IntValue
	}
	return nil
}

func nullableDouble(v mlmd.Value) any {
	if v.Type == mlmd.PropertyDouble {
		return v.DoubleValue
	}
	return nil
}

func nullableString(v mlmd.Value) any {
	if v.Type == mlmd.PropertyString {
		return v.StringValue
	}
	return nil
}

// validateDeclaredProperties checks that every key in props is declared
// on typ with a matching kind (spec.md §3 invariant 3). custom_properties
// are exempt — free-form by definition.
func validateDeclaredProperties(typ mlmd.Type, props mlmd.ValueMap) error {
	for name, v := range props {
		declared, ok := typ.Properties[name]
		if !ok {
			return mlmd.ErrInvalidArgument("property %q is not declared on type %q", name, typ.Name)
		}
		if declared != v.Type {
			return mlmd.ErrInvalidArgument("property %q on type %q expects kind %s, got %s", name, typ.Name, declared, v.Type)
		}
	}
	return nil
}
