// Package relationshipstore implements the Relationship Store component:
// events, attributions, and associations, enforcing referential integrity
// against the Entity Store (spec.md §4.4).
package relationshipstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/query"
)

// Store is the Relationship Store, scoped to one executor.
type Store struct {
	Exec   query.Executor
	Config query.Config
	// Now stamps event timestamps that arrive unset; overridable in
	// tests, mirroring the teacher's events.Writer.Now field.
	Now func() time.Time
}

func New(exec query.Executor, cfg query.Config) Store {
	return Store{Exec: exec, Config: cfg, Now: time.Now}
}

func (s Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Store) insertIgnore() string {
	stmt, err := s.Config.Statement("insert_or_ignore")
	if err != nil {
		stmt = "INSERT OR IGNORE INTO" // sqlite default if Config wasn't supplied (e.g. unit tests)
	}
	return stmt
}

// PutEvents inserts the given events. Every event's artifact_id and
// execution_id must already reference existing rows — the composite
// PutExecution operation in internal/store resolves unset ids from its
// surrounding upserts *before* calling this. Events are not deduplicated:
// re-inserting an identical event creates a second row. This is a
// deliberate default (spec.md §9 open question), not an oversight.
func (s Store) PutEvents(ctx context.Context, events []mlmd.Event) error {
	for _, e := range events {
		if err := s.putEvent(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) putEvent(ctx context.Context, e mlmd.Event) error {
	if e.ArtifactID == 0 {
		return mlmd.ErrInvalidArgument("event is missing artifact_id")
	}
	if e.ExecutionID == 0 {
		return mlmd.ErrInvalidArgument("event is missing execution_id")
	}
	if err := s.requireExists(ctx, "Artifact", e.ArtifactID); err != nil {
		return err
	}
	if err := s.requireExists(ctx, "Execution", e.ExecutionID); err != nil {
		return err
	}
	ts := e.Timestamp
	if ts == 0 {
		ts = s.now().UnixMilli()
	}
	res, err := s.Exec.ExecContext(ctx, `INSERT INTO Event(artifact_id, execution_id, type, timestamp) VALUES (?,?,?,?)`,
		e.ArtifactID, e.ExecutionID, int(e.Type), ts)
	if err != nil {
		return mlmd.ErrInternal("insert event: %v", err)
	}
	eventID, err := res.LastInsertId()
	if err != nil {
		return mlmd.ErrInternal("event: read last insert id: %v", err)
	}
	for i, step := range e.Path {
		if _, err := s.Exec.ExecContext(ctx, `INSERT INTO EventPath(event_id, step_index, is_key, key_value, index_value) VALUES (?,?,?,?,?)`,
			eventID, i, boolToInt(step.IsKey), nullIfEmpty(step.Key), step.Index); err != nil {
			return mlmd.ErrInternal("insert event path step: %v", err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s Store) requireExists(ctx context.Context, tableName string, id int64) error {
	var n int
	err := s.Exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+tableName+` WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return mlmd.ErrInternal("check %s %d exists: %v", tableName, id, err)
	}
	if n == 0 {
		return mlmd.ErrInvalidArgument("%s %d does not exist", tableName, id)
	}
	return nil
}

// GetEventsByArtifactIDs returns all events whose artifact_id is in ids,
// ordered by id (insertion order) so callers observing one execution's
// events see them in the order they were inserted (spec.md §8 scenario 6).
func (s Store) GetEventsByArtifactIDs(ctx context.Context, ids []int64) ([]mlmd.Event, error) {
	return s.eventsWhere(ctx, "artifact_id", ids)
}

// GetEventsByExecutionIDs returns all events whose execution_id is in ids.
func (s Store) GetEventsByExecutionIDs(ctx context.Context, ids []int64) ([]mlmd.Event, error) {
	return s.eventsWhere(ctx, "execution_id", ids)
}

func (s Store) eventsWhere(ctx context.Context, column string, ids []int64) ([]mlmd.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]any, len(ids))
	qMarks := ""
	for i, id := range ids {
		placeholders[i] = id
		if i > 0 {
			qMarks += ","
		}
		qMarks += "?"
	}
	rows, err := s.Exec.QueryContext(ctx, `SELECT id, artifact_id, execution_id, type, timestamp FROM Event WHERE `+column+` IN (`+qMarks+`) ORDER BY id`, placeholders...)
	if err != nil {
		return nil, mlmd.ErrInternal("list events by %s: %v", column, err)
	}
	defer rows.Close()
	var events []mlmd.Event
	var eventIDs []int64
	for rows.Next() {
		var id int64
		var e mlmd.Event
		var t int
		if err := rows.Scan(&id, &e.ArtifactID, &e.ExecutionID, &t, &e.Timestamp); err != nil {
			return nil, mlmd.ErrInternal("scan event: %v", err)
		}
		e.Type = mlmd.EventType(t)
		events = append(events, e)
		eventIDs = append(eventIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mlmd.ErrInternal("list events by %s: %v", column, err)
	}
	for i, id := range eventIDs {
		path, err := s.eventPath(ctx, id)
		if err != nil {
			return nil, err
		}
		events[i].Path = path
	}
	return events, nil
}

func (s Store) eventPath(ctx context.Context, eventID int64) ([]mlmd.EventPathStep, error) {
	rows, err := s.Exec.QueryContext(ctx, `SELECT is_key, key_value, index_value FROM EventPath WHERE event_id = ? ORDER BY step_index`, eventID)
	if err != nil {
		return nil, mlmd.ErrInternal("list event path for %d: %v", eventID, err)
	}
	defer rows.Close()
	var steps []mlmd.EventPathStep
	for rows.Next() {
		var isKey int
		var key sql.NullString
		var idx sql.NullInt64
		if err := rows.Scan(&isKey, &key, &idx); err != nil {
			return nil, mlmd.ErrInternal("scan event path step: %v", err)
		}
		steps = append(steps, mlmd.EventPathStep{IsKey: isKey != 0, Key: key.String, Index: idx.Int64})
	}
	return steps, rows.Err()
}

// PutAttributionsAndAssociations inserts the given pairs. Re-inserting an
// existing pair is a no-op, by the uniqueness invariant in spec.md §3
// (idempotent).
func (s Store) PutAttributionsAndAssociations(ctx context.Context, attributions []mlmd.Attribution, associations []mlmd.Association) error {
	for _, a := range attributions {
		if err := s.requireExists(ctx, "Artifact", a.ArtifactID); err != nil {
			return err
		}
		if err := s.requireExists(ctx, "Context", a.ContextID); err != nil {
			return err
		}
		if _, err := s.Exec.ExecContext(ctx, s.insertIgnore()+` Attribution(artifact_id, context_id) VALUES (?,?)`, a.ArtifactID, a.ContextID); err != nil {
			return mlmd.ErrInternal("insert attribution: %v", err)
		}
	}
	for _, a := range associations {
		if err := s.requireExists(ctx, "Execution", a.ExecutionID); err != nil {
			return err
		}
		if err := s.requireExists(ctx, "Context", a.ContextID); err != nil {
			return err
		}
		if _, err := s.Exec.ExecContext(ctx, s.insertIgnore()+` Association(execution_id, context_id) VALUES (?,?)`, a.ExecutionID, a.ContextID); err != nil {
			return mlmd.ErrInternal("insert association: %v", err)
		}
	}
	return nil
}

// GetContextsByArtifact returns every context attributed to artifactID.
func (s Store) GetContextsByArtifact(ctx context.Context, artifactID int64) ([]int64, error) {
	return s.idsWhere(ctx, `SELECT context_id FROM Attribution WHERE artifact_id = ? ORDER BY context_id`, artifactID)
}

// GetArtifactsByContext returns every artifact attributed to contextID.
func (s Store) GetArtifactsByContext(ctx context.Context, contextID int64) ([]int64, error) {
	return s.idsWhere(ctx, `SELECT artifact_id FROM Attribution WHERE context_id = ? ORDER BY artifact_id`, contextID)
}

// GetContextsByExecution returns every context associated with executionID.
func (s Store) GetContextsByExecution(ctx context.Context, executionID int64) ([]int64, error) {
	return s.idsWhere(ctx, `SELECT context_id FROM Association WHERE execution_id = ? ORDER BY context_id`, executionID)
}

// GetExecutionsByContext returns every execution associated with contextID.
func (s Store) GetExecutionsByContext(ctx context.Context, contextID int64) ([]int64, error) {
	return s.idsWhere(ctx, `SELECT execution_id FROM Association WHERE context_id = ? ORDER BY execution_id`, contextID)
}

func (s Store) idsWhere(ctx context.Context, q string, arg int64) ([]int64, error) {
	rows, err := s.Exec.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, mlmd.ErrInternal("query relationship: %v", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, mlmd.ErrInternal("scan relationship row: %v", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
