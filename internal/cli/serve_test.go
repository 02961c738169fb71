package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchorlayout/pkg/layout"
	"github.com/matzehuels/anchorlayout/pkg/observability"
	"github.com/matzehuels/anchorlayout/pkg/pipeline"
)

const cornerJSON = `{
  "document": {
    "id": "root",
    "width": 200,
    "height": 100,
    "widgets": [{
      "id": "a",
      "width": 50,
      "height": 20,
      "connect": [
        {"from": "left", "to": "parent.left", "margin": 10},
        {"from": "top", "to": "parent.top", "margin": 5}
      ]
    }]
  }
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := httptest.NewServer(newServer(runner, logger, pipeline.Options{}, ServeConfig{}).routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleSolve(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/solve", cornerJSON)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if resp.Header.Get(headerRequestID) == "" {
		t.Error("response should carry a request ID")
	}

	var res pipeline.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if !res.Frames.Resolved || res.Frames.Stage != layout.StageDirect {
		t.Errorf("frames = %+v", res.Frames)
	}
	var a layout.Frame
	for _, f := range res.Frames.Frames {
		if f.ID == "a" {
			a = f
		}
	}
	if a.X != 10 || a.Y != 5 || a.Width != 50 || a.Height != 20 {
		t.Errorf("frame a = %+v", a)
	}
}

func TestHandleSolveErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed", `{"document":`, "INVALID_DOCUMENT"},
		{"unknown field", `{"document":{"id":"root"},"extra":1}`, "INVALID_DOCUMENT"},
		{"missing document", `{"options":{}}`, "INVALID_INPUT"},
		{"unknown target", `{"document":{"widgets":[{"id":"a","connect":[{"from":"left","to":"ghost.left"}]}]}}`, "UNKNOWN_WIDGET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/v1/solve", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var er errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
				t.Fatal(err)
			}
			if string(er.Error.Code) != tt.wantCode {
				t.Errorf("code = %s, want %s", er.Error.Code, tt.wantCode)
			}
			if er.Error.RequestID == "" {
				t.Error("error should carry the request ID")
			}
		})
	}
}

func TestHandleSolveRejectsContentType(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/solve", "text/plain", strings.NewReader(cornerJSON))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
}

func TestHandleGraph(t *testing.T) {
	srv := newTestServer(t)
	body := strings.Replace(cornerJSON, `"document"`, `"options": {"format": "dot"}, "document"`, 1)
	resp := post(t, srv, "/v1/graph", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("content type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("body is not DOT:\n%s", data)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(headerRequestID, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(headerRequestID); got != "abc-123" {
		t.Errorf("request ID = %q, want abc-123", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	registerMetrics()
	defer observability.Reset()

	srv := newTestServer(t)
	post(t, srv, "/v1/solve", cornerJSON)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		"anchorlayout_solves_total",
		"anchorlayout_stages_total",
		`anchorlayout_http_requests_total{method="POST",route="/v1/solve",status="200"}`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}
