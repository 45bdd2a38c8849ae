// Package server implements the HTTP transport binding: every Request
// Dispatcher operation exposed as a huma operation on a chi router. Spec.md
// names transport an out-of-scope external collaborator; this binding is
// the fixed-interface reference implementation, built in the teacher's
// idiom (internal/server/server.go's router setup, error envelope, and
// body-buffering middleware) per the ambient-stack rule.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ZxMYS/ml-metadata/internal/entitystore"
	"github.com/ZxMYS/ml-metadata/internal/mlmd"
	"github.com/ZxMYS/ml-metadata/internal/store"
	"github.com/ZxMYS/ml-metadata/internal/typeregistry"
)

// Config for the HTTP API handler.
type Config struct {
	Store    *store.Store
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the required error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{status: status, Body: apiErrorBody{Code: code, Message: message, Details: details}}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_argument"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "already_exists"
	case http.StatusUnprocessableEntity:
		return "failed_precondition"
	case http.StatusInternalServerError:
		return "internal"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

// handleError maps an mlmd.Code to its HTTP status, passing the code
// through verbatim as the envelope's machine-readable field (spec.md §7:
// "errors are surfaced verbatim to the caller").
func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	code := mlmd.CodeOf(err)
	var status int
	switch code {
	case mlmd.InvalidArgument:
		status = http.StatusBadRequest
	case mlmd.NotFound:
		status = http.StatusNotFound
	case mlmd.AlreadyExists:
		status = http.StatusConflict
	case mlmd.FailedPrecondition:
		status = http.StatusUnprocessableEntity
	case mlmd.Cancelled:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}
	return newAPIError(status, strings.ToLower(code.String()), err.Error(), nil)
}

// New returns an HTTP handler exposing every metadata store operation.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Request-Id", requestIDFor(r))
			next.ServeHTTP(w, r)
		})
	})
	router.Use(newAuthMiddleware(basePath, cfg.Auth))
	router.Use(newAuditMiddleware(cfg.Auth.logger()))

	hcfg := huma.DefaultConfig("ML Metadata Store API", "1.0.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = ""
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group, cfg.Store)
	registerTypes(group, cfg.Store)
	registerArtifacts(group, cfg.Store)
	registerExecutions(group, cfg.Store)
	registerContexts(group, cfg.Store)
	registerRelationships(group, cfg.Store)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

// requestIDFor returns chi's request id if middleware.RequestID already
// populated the context, otherwise mints a fresh one — covers callers that
// construct *http.Request directly in tests.
func requestIDFor(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		spec, err := json.Marshal(api.OpenAPI())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func registerHealth(api huma.API, s *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check and schema status",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body struct {
			Status        string `json:"status"`
			SchemaVersion int64  `json:"schema_version"`
		} `json:"body"`
	}, error) {
		_, version, err := s.SchemaState(ctx)
		resp := &struct {
			Body struct {
				Status        string `json:"status"`
				SchemaVersion int64  `json:"schema_version"`
			} `json:"body"`
		}{}
		if err != nil {
			resp.Body.Status = "degraded"
			return resp, nil
		}
		resp.Body.Status = "ok"
		resp.Body.SchemaVersion = version
		return resp, nil
	})
}

func registerTypes(api huma.API, s *store.Store) {
	registerOneKind(api, s, "artifact-type", mlmd.KindArtifact,
		s.PutArtifactType, s.GetArtifactType, s.GetArtifactTypesByID, s.GetArtifactTypes)
	registerOneKind(api, s, "execution-type", mlmd.KindExecution,
		s.PutExecutionType, s.GetExecutionType, s.GetExecutionTypesByID, s.GetExecutionTypes)
	registerOneKind(api, s, "context-type", mlmd.KindContext,
		s.PutContextType, s.GetContextType, s.GetContextTypesByID, s.GetContextTypes)

	huma.Register(api, huma.Operation{
		OperationID:   "put-types",
		Method:        http.MethodPost,
		Path:          "/types:batch",
		Summary:       "Upsert a batch of types across all three kinds",
		DefaultStatus: http.StatusOK,
	}, func(ctx context.Context, input *struct {
		Body struct {
			ArtifactTypes  []TypeDTO               `json:"artifact_types,omitempty"`
			ExecutionTypes []TypeDTO               `json:"execution_types,omitempty"`
			ContextTypes   []TypeDTO               `json:"context_types,omitempty"`
			Options        typeregistry.PutOptions `json:"options,omitempty"`
		} `json:"body"`
	}) (*struct {
		Body struct {
			ArtifactTypeIDs  []int64 `json:"artifact_type_ids"`
			ExecutionTypeIDs []int64 `json:"execution_type_ids"`
			ContextTypeIDs   []int64 `json:"context_type_ids"`
		} `json:"body"`
	}, error) {
		req := typeregistry.PutTypesRequest{
			ArtifactTypes:  toTypeSlice(mlmd.KindArtifact, input.Body.ArtifactTypes),
			ExecutionTypes: toTypeSlice(mlmd.KindExecution, input.Body.ExecutionTypes),
			ContextTypes:   toTypeSlice(mlmd.KindContext, input.Body.ContextTypes),
			Options:        input.Body.Options,
		}
		resp, err := s.PutTypes(ctx, req)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				ArtifactTypeIDs  []int64 `json:"artifact_type_ids"`
				ExecutionTypeIDs []int64 `json:"execution_type_ids"`
				ContextTypeIDs   []int64 `json:"context_type_ids"`
			} `json:"body"`
		}{}
		out.Body.ArtifactTypeIDs = resp.ArtifactTypeIDs
		out.Body.ExecutionTypeIDs = resp.ExecutionTypeIDs
		out.Body.ContextTypeIDs = resp.ContextTypeIDs
		return out, nil
	})
}

func toTypeSlice(kind mlmd.Kind, dtos []TypeDTO) []mlmd.Type {
	out := make([]mlmd.Type, len(dtos))
	for i, d := range dtos {
		out[i] = typeFromDTO(kind, d)
	}
	return out
}

func registerOneKind(
	api huma.API, s *store.Store, slug string, kind mlmd.Kind,
	put func(context.Context, mlmd.Type, typeregistry.PutOptions) (int64, error),
	getByName func(context.Context, string) (mlmd.Type, error),
	getByID func(context.Context, []int64) ([]mlmd.Type, error),
	getAll func(context.Context) ([]mlmd.Type, error),
) {
	huma.Register(api, huma.Operation{
		OperationID:   "put-" + slug,
		Method:        http.MethodPost,
		Path:          "/" + slug + "s",
		Summary:       "Upsert a " + kind.String() + " type",
		DefaultStatus: http.StatusOK,
	}, func(ctx context.Context, input *struct {
		Body PutTypeRequest `json:"body"`
	}) (*struct {
		Body TypeDTO `json:"body"`
	}, error) {
		opts := typeregistry.PutOptions{CanAddFields: input.Body.CanAddFields, AllFieldsMatch: input.Body.AllFieldsMatch}
		id, err := put(ctx, typeFromDTO(kind, input.Body.Type), opts)
		if err != nil {
			return nil, handleError(err)
		}
		t := typeFromDTO(kind, input.Body.Type)
		t.ID = id
		return &struct {
			Body TypeDTO `json:"body"`
		}{Body: typeToDTO(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-" + slug,
		Method:      http.MethodGet,
		Path:        "/" + slug + "s/{name}",
		Summary:     "Get a " + kind.String() + " type by name",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Name string `path:"name"`
	}) (*struct {
		Body TypeDTO `json:"body"`
	}, error) {
		t, err := getByName(ctx, input.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TypeDTO `json:"body"`
		}{Body: typeToDTO(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-" + slug + "s",
		Method:      http.MethodGet,
		Path:        "/" + slug + "s",
		Summary:     "List all " + kind.String() + " types",
	}, func(ctx context.Context, input *struct {
		IDs string `query:"ids"`
	}) (*struct {
		Body []TypeDTO `json:"body"`
	}, error) {
		var types []mlmd.Type
		var err error
		if input.IDs != "" {
			types, err = getByID(ctx, parseInt64List(input.IDs))
		} else {
			types, err = getAll(ctx)
		}
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]TypeDTO, len(types))
		for i, t := range types {
			out[i] = typeToDTO(t)
		}
		return &struct {
			Body []TypeDTO `json:"body"`
		}{Body: out}, nil
	})
}

func parseInt64List(csv string) []int64 {
	parts := strings.Split(csv, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if v, err := strconv.ParseInt(p, 10, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func registerArtifacts(api huma.API, s *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID:   "put-artifacts",
		Method:        http.MethodPost,
		Path:          "/artifacts:batch",
		Summary:       "Upsert artifacts",
		DefaultStatus: http.StatusOK,
	}, func(ctx context.Context, input *struct {
		Body struct {
			Artifacts []EntityDTO `json:"artifacts"`
		} `json:"body"`
	}) (*struct {
		Body struct {
			IDs []int64 `json:"ids"`
		} `json:"body"`
	}, error) {
		items := make([]mlmd.Artifact, len(input.Body.Artifacts))
		for i, d := range input.Body.Artifacts {
			items[i] = artifactFromDTO(d)
		}
		ids, err := s.PutArtifacts(ctx, items)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				IDs []int64 `json:"ids"`
			} `json:"body"`
		}{}
		out.Body.IDs = ids
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-artifact",
		Method:      http.MethodGet,
		Path:        "/artifacts/{id}",
		Summary:     "Get an artifact by id",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body EntityDTO `json:"body"`
	}, error) {
		a, err := s.GetArtifactByID(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body EntityDTO `json:"body"`
		}{Body: artifactToDTO(a)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-artifacts",
		Method:      http.MethodGet,
		Path:        "/artifacts",
		Summary:     "List artifacts, optionally filtered by ids/type/uri",
	}, func(ctx context.Context, input *struct {
		IDs     string `query:"ids"`
		Type    string `query:"type"`
		URI     string `query:"uri"`
		HasURI  bool   `query:"has_uri"`
		Limit   int    `query:"limit"`
		AfterID int64  `query:"after_id"`
	}) (*struct {
		Body []EntityDTO `json:"body"`
	}, error) {
		var (
			artifacts []mlmd.Artifact
			err       error
		)
		switch {
		case input.IDs != "":
			artifacts, err = s.GetArtifactsByID(ctx, parseInt64List(input.IDs))
		case input.Type != "":
			artifacts, err = s.GetArtifactsByType(ctx, input.Type)
		case input.HasURI:
			artifacts, err = s.GetArtifactsByURI(ctx, input.URI)
		default:
			artifacts, err = s.GetArtifacts(ctx, entitystore.ListOptions{Limit: input.Limit, AfterID: input.AfterID})
		}
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]EntityDTO, len(artifacts))
		for i, a := range artifacts {
			out[i] = artifactToDTO(a)
		}
		return &struct {
			Body []EntityDTO `json:"body"`
		}{Body: out}, nil
	})
}

func registerExecutions(api huma.API, s *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID:   "put-executions",
		Method:        http.MethodPost,
		Path:          "/executions:batch",
		Summary:       "Upsert executions",
		DefaultStatus: http.StatusOK,
	}, func(ctx context.Context, input *struct {
		Body struct {
			Executions []EntityDTO `json:"executions"`
		} `json:"body"`
	}) (*struct {
		Body struct {
			IDs []int64 `json:"ids"`
		} `json:"body"`
	}, error) {
		items := make([]mlmd.Execution, len(input.Body.Executions))
		for i, d := range input.Body.Executions {
			items[i] = executionFromDTO(d)
		}
		ids, err := s.PutExecutions(ctx, items)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				IDs []int64 `json:"ids"`
			} `json:"body"`
		}{}
		out.Body.IDs = ids
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-execution",
		Method:      http.MethodGet,
		Path:        "/executions/{id}",
		Summary:     "Get an execution by id",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body EntityDTO `json:"body"`
	}, error) {
		e, err := s.GetExecutionByID(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body EntityDTO `json:"body"`
		}{Body: executionToDTO(e)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-executions",
		Method:      http.MethodGet,
		Path:        "/executions",
		Summary:     "List executions, optionally filtered by ids/type",
	}, func(ctx context.Context, input *struct {
		IDs     string `query:"ids"`
		Type    string `query:"type"`
		Limit   int    `query:"limit"`
		AfterID int64  `query:"after_id"`
	}) (*struct {
		Body []EntityDTO `json:"body"`
	}, error) {
		var (
			executions []mlmd.Execution
			err        error
		)
		switch {
		case input.IDs != "":
			executions, err = s.GetExecutionsByID(ctx, parseInt64List(input.IDs))
		case input.Type != "":
			executions, err = s.GetExecutionsByType(ctx, input.Type)
		default:
			executions, err = s.GetExecutions(ctx, entitystore.ListOptions{Limit: input.Limit, AfterID: input.AfterID})
		}
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]EntityDTO, len(executions))
		for i, e := range executions {
			out[i] = executionToDTO(e)
		}
		return &struct {
			Body []EntityDTO `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "put-execution",
		Method:        http.MethodPost,
		Path:          "/executions:putWithArtifactsAndEvents",
		Summary:       "Composite upsert: one execution, its paired artifacts, and their events",
		DefaultStatus: http.StatusOK,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		Body PutExecutionRequest `json:"body"`
	}) (*struct {
		Body PutExecutionResponse `json:"body"`
	}, error) {
		pairs := make([]mlmd.ArtifactAndEvent, len(input.Body.Artifacts))
		for i, p := range input.Body.Artifacts {
			pair := mlmd.ArtifactAndEvent{Artifact: artifactFromDTO(p.Artifact)}
			if p.Event != nil {
				e := eventFromDTO(*p.Event)
				pair.Event = &e
			}
			pairs[i] = pair
		}
		execID, artifactIDs, err := s.PutExecution(ctx, executionFromDTO(input.Body.Execution), pairs)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PutExecutionResponse `json:"body"`
		}{Body: PutExecutionResponse{ExecutionID: execID, ArtifactIDs: artifactIDs}}, nil
	})
}

func registerContexts(api huma.API, s *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID:   "put-contexts",
		Method:        http.MethodPost,
		Path:          "/contexts:batch",
		Summary:       "Upsert contexts",
		DefaultStatus: http.StatusOK,
	}, func(ctx context.Context, input *struct {
		Body struct {
			Contexts []EntityDTO `json:"contexts"`
		} `json:"body"`
	}) (*struct {
		Body struct {
			IDs []int64 `json:"ids"`
		} `json:"body"`
	}, error) {
		items := make([]mlmd.Context, len(input.Body.Contexts))
		for i, d := range input.Body.Contexts {
			items[i] = contextFromDTO(d)
		}
		ids, err := s.PutContexts(ctx, items)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				IDs []int64 `json:"ids"`
			} `json:"body"`
		}{}
		out.Body.IDs = ids
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-context",
		Method:      http.MethodGet,
		Path:        "/contexts/{id}",
		Summary:     "Get a context by id",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body EntityDTO `json:"body"`
	}, error) {
		c, err := s.GetContextByID(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body EntityDTO `json:"body"`
		}{Body: contextToDTO(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-contexts",
		Method:      http.MethodGet,
		Path:        "/contexts",
		Summary:     "List contexts, optionally filtered by ids/type",
	}, func(ctx context.Context, input *struct {
		IDs     string `query:"ids"`
		Type    string `query:"type"`
		Limit   int    `query:"limit"`
		AfterID int64  `query:"after_id"`
	}) (*struct {
		Body []EntityDTO `json:"body"`
	}, error) {
		var (
			contexts []mlmd.Context
			err      error
		)
		switch {
		case input.IDs != "":
			contexts, err = s.GetContextsByID(ctx, parseInt64List(input.IDs))
		case input.Type != "":
			contexts, err = s.GetContextsByType(ctx, input.Type)
		default:
			contexts, err = s.GetContexts(ctx, entitystore.ListOptions{Limit: input.Limit, AfterID: input.AfterID})
		}
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]EntityDTO, len(contexts))
		for i, c := range contexts {
			out[i] = contextToDTO(c)
		}
		return &struct {
			Body []EntityDTO `json:"body"`
		}{Body: out}, nil
	})
}

func registerRelationships(api huma.API, s *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID:   "put-events",
		Method:        http.MethodPost,
		Path:          "/events:batch",
		Summary:       "Insert events linking artifacts to executions",
		DefaultStatus: http.StatusOK,
	}, func(ctx context.Context, input *struct {
		Body struct {
			Events []EventDTO `json:"events"`
		} `json:"body"`
	}) (*struct{}, error) {
		items := make([]mlmd.Event, len(input.Body.Events))
		for i, d := range input.Body.Events {
			items[i] = eventFromDTO(d)
		}
		if err := s.PutEvents(ctx, items); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List events by artifact_ids or execution_ids",
	}, func(ctx context.Context, input *struct {
		ArtifactIDs  string `query:"artifact_ids"`
		ExecutionIDs string `query:"execution_ids"`
	}) (*struct {
		Body []EventDTO `json:"body"`
	}, error) {
		var (
			events []mlmd.Event
			err    error
		)
		switch {
		case input.ArtifactIDs != "":
			events, err = s.GetEventsByArtifactIDs(ctx, parseInt64List(input.ArtifactIDs))
		case input.ExecutionIDs != "":
			events, err = s.GetEventsByExecutionIDs(ctx, parseInt64List(input.ExecutionIDs))
		default:
			return nil, newAPIError(http.StatusBadRequest, "", "artifact_ids or execution_ids is required", nil)
		}
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]EventDTO, len(events))
		for i, e := range events {
			out[i] = eventToDTO(e)
		}
		return &struct {
			Body []EventDTO `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "put-attributions-and-associations",
		Method:        http.MethodPost,
		Path:          "/attributions-and-associations:batch",
		Summary:       "Link artifacts/executions to contexts",
		DefaultStatus: http.StatusOK,
	}, func(ctx context.Context, input *struct {
		Body struct {
			Attributions []struct {
				ArtifactID int64 `json:"artifact_id"`
				ContextID  int64 `json:"context_id"`
			} `json:"attributions,omitempty"`
			Associations []struct {
				ExecutionID int64 `json:"execution_id"`
				ContextID   int64 `json:"context_id"`
			} `json:"associations,omitempty"`
		} `json:"body"`
	}) (*struct{}, error) {
		attributions := make([]mlmd.Attribution, len(input.Body.Attributions))
		for i, a := range input.Body.Attributions {
			attributions[i] = mlmd.Attribution{ArtifactID: a.ArtifactID, ContextID: a.ContextID}
		}
		associations := make([]mlmd.Association, len(input.Body.Associations))
		for i, a := range input.Body.Associations {
			associations[i] = mlmd.Association{ExecutionID: a.ExecutionID, ContextID: a.ContextID}
		}
		if err := s.PutAttributionsAndAssociations(ctx, attributions, associations); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-contexts-by-artifact",
		Method:      http.MethodGet,
		Path:        "/artifacts/{id}/contexts",
		Summary:     "List contexts attributed to an artifact",
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body []int64 `json:"body"`
	}, error) {
		ids, err := s.GetContextsByArtifact(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []int64 `json:"body"`
		}{Body: ids}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-artifacts-by-context",
		Method:      http.MethodGet,
		Path:        "/contexts/{id}/artifacts",
		Summary:     "List artifacts attributed to a context",
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body []int64 `json:"body"`
	}, error) {
		ids, err := s.GetArtifactsByContext(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []int64 `json:"body"`
		}{Body: ids}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-contexts-by-execution",
		Method:      http.MethodGet,
		Path:        "/executions/{id}/contexts",
		Summary:     "List contexts associated with an execution",
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body []int64 `json:"body"`
	}, error) {
		ids, err := s.GetContextsByExecution(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []int64 `json:"body"`
		}{Body: ids}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-executions-by-context",
		Method:      http.MethodGet,
		Path:        "/contexts/{id}/executions",
		Summary:     "List executions associated with a context",
	}, func(ctx context.Context, input *struct {
		ID int64 `path:"id"`
	}) (*struct {
		Body []int64 `json:"body"`
	}, error) {
		ids, err := s.GetExecutionsByContext(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []int64 `json:"body"`
		}{Body: ids}, nil
	})
}
