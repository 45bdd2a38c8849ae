// Package mlmdsdk is a thin Go client over the metadata store's /v1 HTTP
// binding, grounded in the teacher's sdk/go/client.go (bearer-token
// request helper, APIError envelope, context-carrying methods).
package mlmdsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a minimal metadata store HTTP API client.
type Client struct {
	BaseURL     string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults. Endpoint paths are appended to
// baseURL as given, so baseURL includes the server's base path (for
// example "http://localhost:8080/v1").
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Property is the wire shape of one typed value; exactly one field is set.
type Property struct {
	IntValue    *int64   `json:"int_value,omitempty"`
	DoubleValue *float64 `json:"double_value,omitempty"`
	StringValue *string  `json:"string_value,omitempty"`
}

// Type is the wire shape of an ArtifactType/ExecutionType/ContextType.
type Type struct {
	ID         int64             `json:"id,omitempty"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Entity is the wire shape shared by Artifact/Execution/Context.
type Entity struct {
	ID               int64               `json:"id,omitempty"`
	TypeID           int64               `json:"type_id"`
	Properties       map[string]Property `json:"properties,omitempty"`
	CustomProperties map[string]Property `json:"custom_properties,omitempty"`
	URI              string              `json:"uri,omitempty"`
	Name             string              `json:"name,omitempty"`
}

// EventPathStep names a step within a structured artifact.
type EventPathStep struct {
	Key   string `json:"key,omitempty"`
	Index int64  `json:"index,omitempty"`
	IsKey bool   `json:"is_key,omitempty"`
}

// Event links an artifact to an execution.
type Event struct {
	ArtifactID  int64           `json:"artifact_id,omitempty"`
	ExecutionID int64           `json:"execution_id,omitempty"`
	Type        string          `json:"type"`
	Timestamp   int64           `json:"timestamp,omitempty"`
	Path        []EventPathStep `json:"path,omitempty"`
}

// Attribution links an artifact to a context.
type Attribution struct {
	ArtifactID int64 `json:"artifact_id"`
	ContextID  int64 `json:"context_id"`
}

// Association links an execution to a context.
type Association struct {
	ExecutionID int64 `json:"execution_id"`
	ContextID   int64 `json:"context_id"`
}

// ArtifactAndEvent pairs an artifact upsert with its optional event, the
// input shape of the composite PutExecution operation.
type ArtifactAndEvent struct {
	Artifact Entity `json:"artifact"`
	Event    *Event `json:"event,omitempty"`
}

// APIError wraps non-2xx responses in the store's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
}

// PutType upserts a single type of the given kind ("artifact-type",
// "execution-type", or "context-type").
func (c *Client) PutType(ctx context.Context, kindSlug string, t Type, canAddFields, allFieldsMatch bool) (Type, error) {
	body := map[string]any{
		"type":              t,
		"can_add_fields":    canAddFields,
		"all_fields_match":  allFieldsMatch,
	}
	var resp Type
	err := c.do(ctx, http.MethodPost, "/"+kindSlug+"s", body, &resp)
	return resp, err
}

// GetType fetches a type by name.
func (c *Client) GetType(ctx context.Context, kindSlug, name string) (Type, error) {
	var resp Type
	err := c.do(ctx, http.MethodGet, "/"+kindSlug+"s/"+url.PathEscape(name), nil, &resp)
	return resp, err
}

// ListTypes lists every type of the given kind, or those named by ids.
func (c *Client) ListTypes(ctx context.Context, kindSlug string, ids []int64) ([]Type, error) {
	endpoint := "/" + kindSlug + "s"
	if len(ids) > 0 {
		endpoint += "?ids=" + joinInt64s(ids)
	}
	var resp []Type
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// PutArtifacts upserts a batch of artifacts, returning their ids in order.
func (c *Client) PutArtifacts(ctx context.Context, artifacts []Entity) ([]int64, error) {
	var resp struct {
		IDs []int64 `json:"ids"`
	}
	err := c.do(ctx, http.MethodPost, "/artifacts:batch", map[string]any{"artifacts": artifacts}, &resp)
	return resp.IDs, err
}

// GetArtifact fetches an artifact by id.
func (c *Client) GetArtifact(ctx context.Context, id int64) (Entity, error) {
	var resp Entity
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/artifacts/%d", id), nil, &resp)
	return resp, err
}

// ListArtifacts lists artifacts, filtered by exactly one of ids/typeName/uri
// when non-empty, otherwise the unfiltered page starting at afterID.
func (c *Client) ListArtifacts(ctx context.Context, ids []int64, typeName, uri string, limit int, afterID int64) ([]Entity, error) {
	q := url.Values{}
	switch {
	case len(ids) > 0:
		q.Set("ids", joinInt64s(ids))
	case typeName != "":
		q.Set("type", typeName)
	case uri != "":
		q.Set("uri", uri)
		q.Set("has_uri", "true")
	default:
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
		if afterID > 0 {
			q.Set("after_id", strconv.FormatInt(afterID, 10))
		}
	}
	var resp []Entity
	err := c.do(ctx, http.MethodGet, "/artifacts?"+q.Encode(), nil, &resp)
	return resp, err
}

// PutExecutions upserts a batch of executions, returning their ids in order.
func (c *Client) PutExecutions(ctx context.Context, executions []Entity) ([]int64, error) {
	var resp struct {
		IDs []int64 `json:"ids"`
	}
	err := c.do(ctx, http.MethodPost, "/executions:batch", map[string]any{"executions": executions}, &resp)
	return resp.IDs, err
}

// GetExecution fetches an execution by id.
func (c *Client) GetExecution(ctx context.Context, id int64) (Entity, error) {
	var resp Entity
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/executions/%d", id), nil, &resp)
	return resp, err
}

// ListExecutions lists executions, filtered by ids or typeName when given.
func (c *Client) ListExecutions(ctx context.Context, ids []int64, typeName string, limit int, afterID int64) ([]Entity, error) {
	q := url.Values{}
	switch {
	case len(ids) > 0:
		q.Set("ids", joinInt64s(ids))
	case typeName != "":
		q.Set("type", typeName)
	default:
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
		if afterID > 0 {
			q.Set("after_id", strconv.FormatInt(afterID, 10))
		}
	}
	var resp []Entity
	err := c.do(ctx, http.MethodGet, "/executions?"+q.Encode(), nil, &resp)
	return resp, err
}

// PutExecutionResult is the response of the composite PutExecution call.
type PutExecutionResult struct {
	ExecutionID int64   `json:"execution_id"`
	ArtifactIDs []int64 `json:"artifact_ids"`
}

// PutExecution is the composite, all-or-nothing operation: one execution
// upsert, its paired artifact upserts, and their events, in one server-side
// transaction.
func (c *Client) PutExecution(ctx context.Context, execution Entity, pairs []ArtifactAndEvent) (PutExecutionResult, error) {
	body := map[string]any{
		"execution":           execution,
		"artifacts_and_events": pairs,
	}
	var resp PutExecutionResult
	err := c.do(ctx, http.MethodPost, "/executions:putWithArtifactsAndEvents", body, &resp)
	return resp, err
}

// PutContexts upserts a batch of contexts, returning their ids in order.
func (c *Client) PutContexts(ctx context.Context, contexts []Entity) ([]int64, error) {
	var resp struct {
		IDs []int64 `json:"ids"`
	}
	err := c.do(ctx, http.MethodPost, "/contexts:batch", map[string]any{"contexts": contexts}, &resp)
	return resp.IDs, err
}

// GetContext fetches a context by id.
func (c *Client) GetContext(ctx context.Context, id int64) (Entity, error) {
	var resp Entity
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/contexts/%d", id), nil, &resp)
	return resp, err
}

// ListContexts lists contexts, filtered by ids or typeName when given.
func (c *Client) ListContexts(ctx context.Context, ids []int64, typeName string, limit int, afterID int64) ([]Entity, error) {
	q := url.Values{}
	switch {
	case len(ids) > 0:
		q.Set("ids", joinInt64s(ids))
	case typeName != "":
		q.Set("type", typeName)
	default:
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
		if afterID > 0 {
			q.Set("after_id", strconv.FormatInt(afterID, 10))
		}
	}
	var resp []Entity
	err := c.do(ctx, http.MethodGet, "/contexts?"+q.Encode(), nil, &resp)
	return resp, err
}

// PutEvents inserts a batch of events linking artifacts to executions.
func (c *Client) PutEvents(ctx context.Context, events []Event) error {
	return c.do(ctx, http.MethodPost, "/events:batch", map[string]any{"events": events}, nil)
}

// ListEventsByArtifacts lists events for the given artifact ids.
func (c *Client) ListEventsByArtifacts(ctx context.Context, artifactIDs []int64) ([]Event, error) {
	var resp []Event
	err := c.do(ctx, http.MethodGet, "/events?artifact_ids="+joinInt64s(artifactIDs), nil, &resp)
	return resp, err
}

// ListEventsByExecutions lists events for the given execution ids.
func (c *Client) ListEventsByExecutions(ctx context.Context, executionIDs []int64) ([]Event, error) {
	var resp []Event
	err := c.do(ctx, http.MethodGet, "/events?execution_ids="+joinInt64s(executionIDs), nil, &resp)
	return resp, err
}

// PutAttributionsAndAssociations links artifacts/executions to contexts.
func (c *Client) PutAttributionsAndAssociations(ctx context.Context, attributions []Attribution, associations []Association) error {
	body := map[string]any{
		"attributions": attributions,
		"associations": associations,
	}
	return c.do(ctx, http.MethodPost, "/attributions-and-associations:batch", body, nil)
}

// ContextsByArtifact lists the ids of contexts attributed to an artifact.
func (c *Client) ContextsByArtifact(ctx context.Context, artifactID int64) ([]int64, error) {
	var resp []int64
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/artifacts/%d/contexts", artifactID), nil, &resp)
	return resp, err
}

// ArtifactsByContext lists the ids of artifacts attributed to a context.
func (c *Client) ArtifactsByContext(ctx context.Context, contextID int64) ([]int64, error) {
	var resp []int64
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/contexts/%d/artifacts", contextID), nil, &resp)
	return resp, err
}

// ContextsByExecution lists the ids of contexts associated with an execution.
func (c *Client) ContextsByExecution(ctx context.Context, executionID int64) ([]int64, error) {
	var resp []int64
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/executions/%d/contexts", executionID), nil, &resp)
	return resp, err
}

// ExecutionsByContext lists the ids of executions associated with a context.
func (c *Client) ExecutionsByContext(ctx context.Context, contextID int64) ([]int64, error) {
	var resp []int64
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/contexts/%d/executions", contextID), nil, &resp)
	return resp, err
}

// Health reports server status and the currently stored schema version.
func (c *Client) Health(ctx context.Context) (status string, schemaVersion int64, err error) {
	var resp struct {
		Status        string `json:"status"`
		SchemaVersion int64  `json:"schema_version"`
	}
	err = c.do(ctx, http.MethodGet, "/health", nil, &resp)
	return resp.Status, resp.SchemaVersion, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	reqURL := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(b, &envelope)
		return &APIError{StatusCode: resp.StatusCode, Code: envelope.Error.Code, Message: envelope.Error.Message}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func joinInt64s(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
