package schema

// ddlStatements returns the full, current-version CREATE TABLE statements
// for the persisted state layout named in spec.md §6.4. Both dialects use
// `?` placeholders at query time (both drivers support it), so the only
// per-dialect difference at DDL time is the autoincrement keyword.
func ddlStatements(dialect string) []string {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == "mysql" {
		pk = "BIGINT PRIMARY KEY AUTO_INCREMENT"
	}
	return []string{
		`CREATE TABLE MLMDEnv (schema_version INTEGER NOT NULL)`,

		`CREATE TABLE Type (
			id ` + pk + `,
			kind INTEGER NOT NULL,
			name TEXT NOT NULL,
			UNIQUE(kind, name)
		)`,
		`CREATE TABLE TypeProperty (
			type_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			property_type INTEGER NOT NULL,
			PRIMARY KEY(type_id, name)
		)`,

		`CREATE TABLE Artifact (
			id ` + pk + `,
			type_id INTEGER NOT NULL,
			uri TEXT
		)`,
		`CREATE TABLE ArtifactProperty (
			artifact_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			is_custom INTEGER NOT NULL,
			property_type INTEGER NOT NULL,
			int_value INTEGER,
			double_value REAL,
			string_value TEXT,
			PRIMARY KEY(artifact_id, name, is_custom)
		)`,

		`CREATE TABLE Execution (
			id ` + pk + `,
			type_id INTEGER NOT NULL
		)`,
		`CREATE TABLE ExecutionProperty (
			execution_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			is_custom INTEGER NOT NULL,
			property_type INTEGER NOT NULL,
			int_value INTEGER,
			double_value REAL,
			string_value TEXT,
			PRIMARY KEY(execution_id, name, is_custom)
		)`,

		`CREATE TABLE Context (
			id ` + pk + `,
			type_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			UNIQUE(type_id, name)
		)`,
		`CREATE TABLE ContextProperty (
			context_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			is_custom INTEGER NOT NULL,
			property_type INTEGER NOT NULL,
			int_value INTEGER,
			double_value REAL,
			string_value TEXT,
			PRIMARY KEY(context_id, name, is_custom)
		)`,

		`CREATE TABLE Event (
			id ` + pk + `,
			artifact_id INTEGER NOT NULL,
			execution_id INTEGER NOT NULL,
			type INTEGER NOT NULL,
			timestamp INTEGER NOT NULL
		)`,
		`CREATE TABLE EventPath (
			event_id INTEGER NOT NULL,
			step_index INTEGER NOT NULL,
			is_key INTEGER NOT NULL,
			key_value TEXT,
			index_value INTEGER,
			PRIMARY KEY(event_id, step_index)
		)`,

		`CREATE TABLE Attribution (
			id ` + pk + `,
			artifact_id INTEGER NOT NULL,
			context_id INTEGER NOT NULL,
			UNIQUE(artifact_id, context_id)
		)`,
		`CREATE TABLE Association (
			id ` + pk + `,
			execution_id INTEGER NOT NULL,
			context_id INTEGER NOT NULL,
			UNIQUE(execution_id, context_id)
		)`,
	}
}

// upgradeScripts[v] runs when migrating from v to v+1. downgradeScripts[v]
// runs when migrating from v to v-1. Every downgrade step here is lossy by
// construction (it drops exactly what the matching upgrade step added) —
// the open question in spec.md §9 ("whether downgrade is irreversible ...
// is not pinned down") is resolved as: always irreversible, and documented
// per step rather than assumed.
var upgradeScripts = map[int64]string{
	// v0 (legacy: tables existed, no MLMDEnv row — treated as the schema
	// that predates EventPath) -> v1: introduce the EventPath table.
	0: `CREATE TABLE EventPath (
		event_id INTEGER NOT NULL,
		step_index INTEGER NOT NULL,
		is_key INTEGER NOT NULL,
		key_value TEXT,
		index_value INTEGER,
		PRIMARY KEY(event_id, step_index)
	)`,
	// v1 -> v2: add the is_custom discriminator to ArtifactProperty so
	// declared and custom properties can share one table without a name
	// collision between them.
	1: `ALTER TABLE ArtifactProperty ADD COLUMN is_custom INTEGER NOT NULL DEFAULT 0`,
}

var downgradeScripts = map[int64]string{
	// v2 -> v1: drop the is_custom column. Lossy: a declared and a custom
	// property with the same name on the same artifact become
	// indistinguishable after downgrade.
	2: `ALTER TABLE ArtifactProperty DROP COLUMN is_custom`,
	// v1 -> v0: drop EventPath entirely. Lossy: all recorded event paths
	// are discarded.
	1: `DROP TABLE EventPath`,
}
