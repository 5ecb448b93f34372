package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/onepagerhq/onepager/pkg/cache"
	"github.com/onepagerhq/onepager/pkg/config"
	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/layout"
	"github.com/onepagerhq/onepager/pkg/pipeline"
	"github.com/onepagerhq/onepager/pkg/store"
)

const testContentJSON = `{
	"title": "Quarterly Review",
	"subtitle": "Q3 numbers",
	"sections": [
		{"id": "wins", "type": "bullets", "header": "Wins",
		 "content": {"items": [{"text": "Shipped the importer"}, {"text": "Cut latency in half"}]}},
		{"id": "revenue", "type": "kpi_box", "header": "Revenue",
		 "content": {"value": "1.2", "unit": "M", "label": "ARR"}}
	]
}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.NewWithOptions(io.Discard, log.Options{}))
	srv := New(Options{
		Runner: runner,
		Store:  store.NewMemoryStore(),
		Config: config.Default(),
		Logger: log.NewWithOptions(io.Discard, log.Options{}),
	})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestVersion(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatalf("GET /version: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	decodeBody(t, resp, &body)
	if body["version"] == "" {
		t.Error("version response should include a version")
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := testServer(t)

	req := fmt.Sprintf(`{"content": %s}`, testContentJSON)
	resp := postJSON(t, ts.URL+"/api/layout", req)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body struct {
		Layout layout.Layout `json:"layout"`
	}
	decodeBody(t, resp, &body)

	if len(body.Layout.Sections) != 2 {
		t.Errorf("layout has %d sections, want 2", len(body.Layout.Sections))
	}
	if body.Layout.Page.WidthMM != 420 {
		t.Errorf("page width = %g, want 420", body.Layout.Page.WidthMM)
	}
}

func TestLayoutEndpointEmptyContent(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/layout", `{"content": {"title": "empty"}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestRenderEndpoint(t *testing.T) {
	ts := testServer(t)

	var doc content.Document
	if err := json.Unmarshal([]byte(testContentJSON), &doc); err != nil {
		t.Fatal(err)
	}
	l, err := layout.Build(t.Context(), doc, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	data, err := layout.MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(ts.URL+"/api/render?format=svg", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST /api/render: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}

	svg, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(svg, []byte("Quarterly Review")) {
		t.Error("rendered SVG should contain the page title")
	}
}

func TestRenderEndpointInvalidFormat(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/render?format=gif", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestGenerateEndpointMissingKey(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/generate", `{"input": "some source text"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestGenerateEndpointEmptyInput(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/generate", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestPagesCRUD(t *testing.T) {
	ts := testServer(t)

	// Create from an existing content description; no provider needed.
	createReq, _ := json.Marshal(map[string]string{"content_json": testContentJSON})
	resp := postJSON(t, ts.URL+"/api/pages", string(createReq))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var rec store.Record
	decodeBody(t, resp, &rec)
	if rec.ID == "" {
		t.Fatal("created page should have an id")
	}
	if rec.Title != "Quarterly Review" {
		t.Errorf("record title = %q, want %q", rec.Title, "Quarterly Review")
	}

	// List
	listResp, err := http.Get(ts.URL + "/api/pages")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var recs []store.Record
	decodeBody(t, listResp, &recs)
	if len(recs) != 1 {
		t.Errorf("list returned %d records, want 1", len(recs))
	}

	// Get
	getResp, err := http.Get(ts.URL + "/api/pages/" + rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("get status = %d, want %d", getResp.StatusCode, http.StatusOK)
	}

	// Render the saved page
	renderResp, err := http.Get(ts.URL + "/api/pages/" + rec.ID + "/render?format=svg")
	if err != nil {
		t.Fatal(err)
	}
	defer renderResp.Body.Close()
	if renderResp.StatusCode != http.StatusOK {
		t.Errorf("render status = %d, want %d", renderResp.StatusCode, http.StatusOK)
	}

	// Delete
	delReq, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/pages/"+rec.ID, nil)
	delResp, err := http.DefaultClient.Do(delReq)
	if err != nil {
		t.Fatal(err)
	}
	defer delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want %d", delResp.StatusCode, http.StatusNoContent)
	}

	// Get after delete
	missResp, err := http.Get(ts.URL + "/api/pages/" + rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer missResp.Body.Close()
	if missResp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", missResp.StatusCode, http.StatusNotFound)
	}
}

func TestPageNotFound(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/pages/no-such-id")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestListLimitValidation(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/pages?limit=zero")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}
