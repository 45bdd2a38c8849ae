package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"

	"github.com/ZxMYS/ml-metadata/internal/schema"
	"github.com/ZxMYS/ml-metadata/internal/storedb"
	"github.com/ZxMYS/ml-metadata/internal/store"
)

type testServer struct {
	URL    string
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(context.Background(), storedb.SQLiteConfig{Dir: dir}, schema.MigrationOptions{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	handler, err := New(Config{Store: st, BasePath: "/v1", Auth: AuthConfig{Disabled: true}})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	ts := &testServer{
		URL:    "http://" + ln.Addr().String(),
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			st.Close()
		},
	}
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func TestHealthReportsSchemaVersion(t *testing.T) {
	srv := newTestServer(t)
	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/health", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health status %d: %s", res.StatusCode, data)
	}
	var body struct {
		Status        string `json:"status"`
		SchemaVersion int64  `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal health body: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %q", body.Status)
	}
	if body.SchemaVersion != schema.LibraryVersion {
		t.Fatalf("expected schema version %d, got %d", schema.LibraryVersion, body.SchemaVersion)
	}
}

func TestPutAndGetArtifactType(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	putRes, putData := doJSON(t, client, http.MethodPost, srv.URL+"/v1/artifact-types", PutTypeRequest{
		Type: TypeDTO{Name: "Model", Properties: map[string]string{"accuracy": "DOUBLE"}},
	})
	if putRes.StatusCode != http.StatusOK {
		t.Fatalf("put artifact-type status %d: %s", putRes.StatusCode, putData)
	}
	var putBody TypeDTO
	if err := json.Unmarshal(putData, &putBody); err != nil {
		t.Fatalf("unmarshal put response: %v", err)
	}
	if putBody.ID == 0 {
		t.Fatalf("expected nonzero type id")
	}

	getRes, getData := doJSON(t, client, http.MethodGet, srv.URL+"/v1/artifact-types/Model", nil)
	if getRes.StatusCode != http.StatusOK {
		t.Fatalf("get artifact-type status %d: %s", getRes.StatusCode, getData)
	}
}

func TestGetArtifactTypeNotFoundMapsTo404(t *testing.T) {
	srv := newTestServer(t)
	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/artifact-types/DoesNotExist", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", res.StatusCode, data)
	}
	var body struct {
		Error apiErrorBody `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if body.Error.Code != "not_found" {
		t.Fatalf("expected verbatim not_found code, got %q", body.Error.Code)
	}
}

func TestPutArtifactUnknownTypeMapsTo400(t *testing.T) {
	srv := newTestServer(t)
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v1/artifacts:batch", struct {
		Artifacts []EntityDTO `json:"artifacts"`
	}{Artifacts: []EntityDTO{{TypeID: 999}}})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d: %s", res.StatusCode, data)
	}
}

func TestCompositePutExecutionEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	artifactType := putType(t, client, srv.URL, "artifact-types", "Model")
	executionType := putType(t, client, srv.URL, "execution-types", "Trainer")

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v1/executions:putWithArtifactsAndEvents", PutExecutionRequest{
		Execution: EntityDTO{TypeID: executionType},
		Artifacts: []ArtifactAndEventDTO{
			{
				Artifact: EntityDTO{TypeID: artifactType, URI: "s3://bucket/model-1"},
				Event:    &EventDTO{Type: "OUTPUT"},
			},
		},
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("put execution status %d: %s", res.StatusCode, data)
	}
	var body PutExecutionResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal put execution response: %v", err)
	}
	if body.ExecutionID == 0 || len(body.ArtifactIDs) != 1 {
		t.Fatalf("expected execution id and one artifact id, got %+v", body)
	}

	listRes, listData := doJSON(t, client, http.MethodGet, srv.URL+"/v1/events?execution_ids="+strconv.FormatInt(body.ExecutionID, 10), nil)
	if listRes.StatusCode != http.StatusOK {
		t.Fatalf("list events status %d: %s", listRes.StatusCode, listData)
	}
	var events []EventDTO
	if err := json.Unmarshal(listData, &events); err != nil {
		t.Fatalf("unmarshal events: %v", err)
	}
	if len(events) != 1 || events[0].Type != "OUTPUT" {
		t.Fatalf("expected one OUTPUT event committed with the execution, got %+v", events)
	}
}

func putType(t *testing.T, client *http.Client, baseURL, slug, name string) int64 {
	t.Helper()
	res, data := doJSON(t, client, http.MethodPost, baseURL+"/v1/"+slug, PutTypeRequest{Type: TypeDTO{Name: name}})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("put %s status %d: %s", slug, res.StatusCode, data)
	}
	var body TypeDTO
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal %s response: %v", slug, err)
	}
	return body.ID
}
