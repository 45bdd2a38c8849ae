package query

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed dialects/*.yaml
var dialectsFS embed.FS

// Config is the configuration object spec.md §6 requires the Query
// Executor layer to carry: "the set of SQL statements to use for each
// logical operation and the current schema_version". Most CRUD statements
// in this store are portable `?`-parameterized SQL and need no
// dialect-specific text; Config carries the handful of statement
// fragments that genuinely differ between an embedded SQLite file and a
// remote MySQL-compatible server (autoincrement DDL, idempotent-insert
// syntax), loaded from an embedded YAML document per dialect — the same
// yaml.v3 + struct-tag convention the teacher uses for its project config.
type Config struct {
	Dialect       string            `yaml:"dialect"`
	SchemaVersion int               `yaml:"schema_version"`
	Statements    map[string]string `yaml:"statements"`
}

// Statement returns the dialect-specific SQL fragment registered under
// name, or an error if the config has no such entry.
func (c Config) Statement(name string) (string, error) {
	s, ok := c.Statements[name]
	if !ok {
		return "", fmt.Errorf("query: no statement %q registered for dialect %q", name, c.Dialect)
	}
	return s, nil
}

// LoadConfig reads the embedded dialect document for the named dialect
// ("sqlite" or "mysql") and stamps in the library's current schema
// version.
func LoadConfig(dialect string, libraryVersion int) (Config, error) {
	data, err := dialectsFS.ReadFile("dialects/" + dialect + ".yaml")
	if err != nil {
		return Config{}, fmt.Errorf("query: unknown dialect %q: %w", dialect, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("query: parse dialect %q: %w", dialect, err)
	}
	cfg.Dialect = dialect
	cfg.SchemaVersion = libraryVersion
	return cfg, nil
}
