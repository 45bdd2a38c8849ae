// Command mlmdctl is a local CLI over internal/store.Store: it talks to the
// backing store directly, with no HTTP hop, grounded in the teacher's cmd/wl
// (cobra command tree, viper flag binding, go-pretty table rendering, a
// --json escape hatch on every command).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ZxMYS/ml-metadata/internal/entitystore"
	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/schema"
	"github.com/ZxMYS/ml-metadata/internal/store"
	"github.com/ZxMYS/ml-metadata/internal/storedb"
	"github.com/ZxMYS/ml-metadata/internal/typeregistry"
)

var rootCmd = &cobra.Command{
	Use:   "mlmdctl",
	Short: "Metadata store CLI",
	Long: `mlmdctl is a direct-to-store client for the ML metadata store:
- Types: ArtifactType/ExecutionType/ContextType declare a name and typed properties.
- Instances: Artifact/Execution/Context are records of those types.
- Relationships: Event links an artifact to an execution; Attribution/Association link artifacts/executions to a context.
- Schema: the backing store carries one MLMDEnv.schema_version row; every command creates or migrates it when opening the store.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("MLMD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("dir", "d", ".", "sqlite workspace directory")
	rootCmd.PersistentFlags().String("mysql-dsn", "", "mysql DSN (overrides --dir, uses the mysql binding)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("enable-upgrade-migration", false, "auto-apply forward migrations on init")
	_ = viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("mysql-dsn", rootCmd.PersistentFlags().Lookup("mysql-dsn"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("enable-upgrade-migration", rootCmd.PersistentFlags().Lookup("enable-upgrade-migration"))
}

func registerCommands() {
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(typeCmd())
	rootCmd.AddCommand(artifactCmd())
	rootCmd.AddCommand(executionCmd())
	rootCmd.AddCommand(contextCmd())
	rootCmd.AddCommand(eventCmd())
}

// --- store lifecycle ---

func openStore(ctx context.Context) (*store.Store, error) {
	var opener storedb.Opener
	if dsn := viper.GetString("mysql-dsn"); dsn != "" {
		opener = storedb.MySQLConfig{DSN: dsn}
	} else {
		opener = storedb.SQLiteConfig{Dir: viper.GetString("dir")}
	}
	opts := schema.MigrationOptions{EnableUpgradeMigration: viper.GetBool("enable-upgrade-migration")}
	return store.Open(ctx, opener, opts)
}

func withStore(fn func(ctx context.Context, s *store.Store) error) error {
	ctx := context.Background()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

// --- status ---

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Probe schema state and version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *store.Store) error {
				state, version, err := s.SchemaState(ctx)
				if err != nil {
					return err
				}
				out := map[string]any{"state": schemaStateName(state), "version": version}
				if viper.GetBool("json") {
					return printJSON(out)
				}
				fmt.Printf("schema state: %s\nschema version: %d\n", schemaStateName(state), version)
				return nil
			})
		},
	}
	return cmd
}

func schemaStateName(s schema.State) string {
	switch s {
	case schema.StateEmpty:
		return "empty"
	case schema.StateLegacy:
		return "legacy"
	case schema.StateVersioned:
		return "versioned"
	default:
		return "unknown"
	}
}

// --- types ---

func typeCmd() *cobra.Command {
	t := &cobra.Command{
		Use:   "type",
		Short: "Manage ArtifactType/ExecutionType/ContextType",
	}
	t.AddCommand(typePutCmd())
	t.AddCommand(typeGetCmd())
	t.AddCommand(typeListCmd())
	return t
}

func kindFromFlag(name string) (mlmd.Kind, error) {
	switch strings.ToLower(name) {
	case "artifact":
		return mlmd.KindArtifact, nil
	case "execution":
		return mlmd.KindExecution, nil
	case "context":
		return mlmd.KindContext, nil
	default:
		return 0, fmt.Errorf("--kind must be one of artifact, execution, context (got %q)", name)
	}
}

// parsePropertySpecs parses repeated "name:INT|DOUBLE|STRING" flags into a
// mlmd.PropertyMap.
func parsePropertySpecs(specs []string) (mlmd.PropertyMap, error) {
	props := make(mlmd.PropertyMap, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --property %q, want name:TYPE", spec)
		}
		var pt mlmd.PropertyType
		switch strings.ToUpper(parts[1]) {
		case "INT":
			pt = mlmd.PropertyInt
		case "DOUBLE":
			pt = mlmd.PropertyDouble
		case "STRING":
			pt = mlmd.PropertyString
		default:
			return nil, fmt.Errorf("invalid property type %q, want INT, DOUBLE, or STRING", parts[1])
		}
		props[parts[0]] = pt
	}
	return props, nil
}

func typePutCmd() *cobra.Command {
	var kind, name string
	var properties []string
	var canAddFields, allFieldsMatch bool
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Upsert a type",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindFromFlag(kind)
			if err != nil {
				return err
			}
			props, err := parsePropertySpecs(properties)
			if err != nil {
				return err
			}
			t := mlmd.Type{Kind: k, Name: name, Properties: props}
			opts := typeregistry.PutOptions{CanAddFields: canAddFields, AllFieldsMatch: allFieldsMatch}
			return withStore(func(ctx context.Context, s *store.Store) error {
				var id int64
				var err error
				switch k {
				case mlmd.KindArtifact:
					id, err = s.PutArtifactType(ctx, t, opts)
				case mlmd.KindExecution:
					id, err = s.PutExecutionType(ctx, t, opts)
				case mlmd.KindContext:
					id, err = s.PutContextType(ctx, t, opts)
				}
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"id": id})
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "artifact, execution, or context")
	cmd.Flags().StringVar(&name, "name", "", "type name")
	cmd.Flags().StringArrayVar(&properties, "property", nil, "name:TYPE, repeatable")
	cmd.Flags().BoolVar(&canAddFields, "can-add-fields", false, "allow adding new properties to an existing type")
	cmd.Flags().BoolVar(&allFieldsMatch, "all-fields-match", false, "require the stored type's properties to match exactly")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func typeGetCmd() *cobra.Command {
	var kind, name string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a type by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindFromFlag(kind)
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, s *store.Store) error {
				var t mlmd.Type
				var err error
				switch k {
				case mlmd.KindArtifact:
					t, err = s.GetArtifactType(ctx, name)
				case mlmd.KindExecution:
					t, err = s.GetExecutionType(ctx, name)
				case mlmd.KindContext:
					t, err = s.GetContextType(ctx, name)
				}
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "artifact, execution, or context")
	cmd.Flags().StringVar(&name, "name", "", "type name")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func typeListCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all types of one kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kindFromFlag(kind)
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, s *store.Store) error {
				var types []mlmd.Type
				var err error
				switch k {
				case mlmd.KindArtifact:
					types, err = s.GetArtifactTypes(ctx)
				case mlmd.KindExecution:
					types, err = s.GetExecutionTypes(ctx)
				case mlmd.KindContext:
					types, err = s.GetContextTypes(ctx)
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(types)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Properties"})
				for _, t := range types {
					tw.AppendRow(table.Row{t.ID, t.Name, propertyMapSummary(t.Properties)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "artifact, execution, or context")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func propertyMapSummary(props mlmd.PropertyMap) string {
	parts := make([]string, 0, len(props))
	for name, pt := range props {
		parts = append(parts, fmt.Sprintf("%s:%s", name, pt.String()))
	}
	return strings.Join(parts, ", ")
}

// --- artifacts/executions/contexts ---

func artifactCmd() *cobra.Command {
	a := &cobra.Command{Use: "artifact", Short: "Manage artifacts"}
	a.AddCommand(artifactPutCmd())
	a.AddCommand(artifactGetCmd())
	a.AddCommand(artifactListCmd())
	return a
}

func artifactPutCmd() *cobra.Command {
	var typeID int64
	var uri string
	var properties []string
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Upsert an artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := parsePropertyValues(properties)
			if err != nil {
				return err
			}
			art := mlmd.Artifact{
				Entity: mlmd.Entity{TypeID: typeID, Properties: props},
				URI:    uri,
			}
			return withStore(func(ctx context.Context, s *store.Store) error {
				ids, err := s.PutArtifacts(ctx, []mlmd.Artifact{art})
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"id": ids[0]})
			})
		},
	}
	cmd.Flags().Int64Var(&typeID, "type-id", 0, "artifact type id")
	cmd.Flags().StringVar(&uri, "uri", "", "artifact uri")
	cmd.Flags().StringArrayVar(&properties, "property", nil, "name:TYPE:value, repeatable")
	_ = cmd.MarkFlagRequired("type-id")
	return cmd
}

// parsePropertyValues parses repeated "name:TYPE:value" flags into a
// mlmd.ValueMap.
func parsePropertyValues(specs []string) (mlmd.ValueMap, error) {
	out := make(mlmd.ValueMap, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --property %q, want name:TYPE:value", spec)
		}
		name, kind, raw := parts[0], strings.ToUpper(parts[1]), parts[2]
		switch kind {
		case "INT":
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid int value for %q: %w", name, err)
			}
			out[name] = mlmd.IntValue(v)
		case "DOUBLE":
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid double value for %q: %w", name, err)
			}
			out[name] = mlmd.DoubleValue(v)
		case "STRING":
			out[name] = mlmd.StringValue(raw)
		default:
			return nil, fmt.Errorf("invalid property type %q, want INT, DOUBLE, or STRING", parts[1])
		}
	}
	return out, nil
}

func artifactGetCmd() *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get an artifact by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *store.Store) error {
				a, err := s.GetArtifactByID(ctx, id)
				if err != nil {
					return err
				}
				return printJSONOrTable(a)
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "artifact id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func artifactListCmd() *cobra.Command {
	var typeName, uri string
	var limit int
	var afterID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List artifacts, optionally filtered by type or uri",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *store.Store) error {
				var items []mlmd.Artifact
				var err error
				switch {
				case typeName != "":
					items, err = s.GetArtifactsByType(ctx, typeName)
				case uri != "":
					items, err = s.GetArtifactsByURI(ctx, uri)
				default:
					items, err = s.GetArtifacts(ctx, entitystore.ListOptions{Limit: limit, AfterID: afterID})
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "TypeID", "URI"})
				for _, a := range items {
					tw.AppendRow(table.Row{a.ID, a.TypeID, a.URI})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "", "filter by artifact type name")
	cmd.Flags().StringVar(&uri, "uri", "", "filter by uri")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().Int64Var(&afterID, "after-id", 0, "page cursor")
	return cmd
}

func executionCmd() *cobra.Command {
	e := &cobra.Command{Use: "execution", Short: "Manage executions"}
	e.AddCommand(executionPutCmd())
	e.AddCommand(executionGetCmd())
	e.AddCommand(executionListCmd())
	return e
}

func executionPutCmd() *cobra.Command {
	var typeID int64
	var properties []string
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Upsert an execution",
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := parsePropertyValues(properties)
			if err != nil {
				return err
			}
			exec := mlmd.Execution{Entity: mlmd.Entity{TypeID: typeID, Properties: props}}
			return withStore(func(ctx context.Context, s *store.Store) error {
				ids, err := s.PutExecutions(ctx, []mlmd.Execution{exec})
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"id": ids[0]})
			})
		},
	}
	cmd.Flags().Int64Var(&typeID, "type-id", 0, "execution type id")
	cmd.Flags().StringArrayVar(&properties, "property", nil, "name:TYPE:value, repeatable")
	_ = cmd.MarkFlagRequired("type-id")
	return cmd
}

func executionGetCmd() *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get an execution by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *store.Store) error {
				e, err := s.GetExecutionByID(ctx, id)
				if err != nil {
					return err
				}
				return printJSONOrTable(e)
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "execution id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func executionListCmd() *cobra.Command {
	var typeName string
	var limit int
	var afterID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List executions, optionally filtered by type",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *store.Store) error {
				var items []mlmd.Execution
				var err error
				if typeName != "" {
					items, err = s.GetExecutionsByType(ctx, typeName)
				} else {
					items, err = s.GetExecutions(ctx, entitystore.ListOptions{Limit: limit, AfterID: afterID})
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "TypeID"})
				for _, e := range items {
					tw.AppendRow(table.Row{e.ID, e.TypeID})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "", "filter by execution type name")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().Int64Var(&afterID, "after-id", 0, "page cursor")
	return cmd
}

func contextCmd() *cobra.Command {
	c := &cobra.Command{Use: "context", Short: "Manage contexts"}
	c.AddCommand(contextPutCmd())
	c.AddCommand(contextGetCmd())
	c.AddCommand(contextListCmd())
	return c
}

func contextPutCmd() *cobra.Command {
	var typeID int64
	var name string
	var properties []string
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Upsert a context",
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := parsePropertyValues(properties)
			if err != nil {
				return err
			}
			ctxVal := mlmd.Context{Entity: mlmd.Entity{TypeID: typeID, Properties: props}, Name: name}
			return withStore(func(ctx context.Context, s *store.Store) error {
				ids, err := s.PutContexts(ctx, []mlmd.Context{ctxVal})
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"id": ids[0]})
			})
		},
	}
	cmd.Flags().Int64Var(&typeID, "type-id", 0, "context type id")
	cmd.Flags().StringVar(&name, "name", "", "context name")
	cmd.Flags().StringArrayVar(&properties, "property", nil, "name:TYPE:value, repeatable")
	_ = cmd.MarkFlagRequired("type-id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func contextGetCmd() *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a context by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *store.Store) error {
				c, err := s.GetContextByID(ctx, id)
				if err != nil {
					return err
				}
				return printJSONOrTable(c)
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "context id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func contextListCmd() *cobra.Command {
	var typeName string
	var limit int
	var afterID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contexts, optionally filtered by type",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *store.Store) error {
				var items []mlmd.Context
				var err error
				if typeName != "" {
					items, err = s.GetContextsByType(ctx, typeName)
				} else {
					items, err = s.GetContexts(ctx, entitystore.ListOptions{Limit: limit, AfterID: afterID})
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "TypeID", "Name"})
				for _, c := range items {
					tw.AppendRow(table.Row{c.ID, c.TypeID, c.Name})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "", "filter by context type name")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().Int64Var(&afterID, "after-id", 0, "page cursor")
	return cmd
}

// --- events ---

func eventCmd() *cobra.Command {
	e := &cobra.Command{
		Use:   "event",
		Short: "Manage artifact<->execution events",
		Long:  "Events link an artifact to an execution as input or output; list by artifact or execution id.",
	}
	e.AddCommand(eventPutCmd())
	e.AddCommand(eventListCmd())
	return e
}

func eventPutCmd() *cobra.Command {
	var artifactID, executionID int64
	var eventType string
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Record an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			et, ok := eventTypeNames[strings.ToUpper(eventType)]
			if !ok {
				return fmt.Errorf("invalid --type %q", eventType)
			}
			ev := mlmd.Event{ArtifactID: artifactID, ExecutionID: executionID, Type: et}
			return withStore(func(ctx context.Context, s *store.Store) error {
				if err := s.PutEvents(ctx, []mlmd.Event{ev}); err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"ok": true})
			})
		},
	}
	cmd.Flags().Int64Var(&artifactID, "artifact-id", 0, "artifact id")
	cmd.Flags().Int64Var(&executionID, "execution-id", 0, "execution id")
	cmd.Flags().StringVar(&eventType, "type", "", "DECLARED_OUTPUT, DECLARED_INPUT, INPUT, OUTPUT, INTERNAL_INPUT, INTERNAL_OUTPUT")
	_ = cmd.MarkFlagRequired("artifact-id")
	_ = cmd.MarkFlagRequired("execution-id")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

var eventTypeNames = map[string]mlmd.EventType{
	"DECLARED_OUTPUT": mlmd.EventDeclaredOutput,
	"DECLARED_INPUT":  mlmd.EventDeclaredInput,
	"INPUT":           mlmd.EventInput,
	"OUTPUT":          mlmd.EventOutput,
	"INTERNAL_INPUT":  mlmd.EventInternalInput,
	"INTERNAL_OUTPUT": mlmd.EventInternalOutput,
}

func eventListCmd() *cobra.Command {
	var artifactID, executionID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events for an artifact or an execution",
		RunE: func(cmd *cobra.Command, args []string) error {
			if artifactID == 0 && executionID == 0 {
				return fmt.Errorf("one of --artifact-id or --execution-id is required")
			}
			return withStore(func(ctx context.Context, s *store.Store) error {
				var items []mlmd.Event
				var err error
				if artifactID != 0 {
					items, err = s.GetEventsByArtifactIDs(ctx, []int64{artifactID})
				} else {
					items, err = s.GetEventsByExecutionIDs(ctx, []int64{executionID})
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ArtifactID", "ExecutionID", "Type", "Timestamp"})
				for _, e := range items {
					tw.AppendRow(table.Row{e.ArtifactID, e.ExecutionID, e.Type.String(), e.Timestamp})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&artifactID, "artifact-id", 0, "artifact id")
	cmd.Flags().Int64Var(&executionID, "execution-id", 0, "execution id")
	return cmd
}

// --- output helpers ---

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
