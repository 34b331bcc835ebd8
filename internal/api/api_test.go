package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/graphol/internal/models"
	"github.com/starford/graphol/internal/ontoservice"
	"github.com/starford/graphol/internal/testutil"
)

// testEnv sets up a temp workspace, SQLite DB, service, and router for testing.
// An empty authToken means disabled mode; a non-empty one means token mode.
func testEnv(t *testing.T, authToken string) (*ontoservice.Service, http.Handler) {
	t.Helper()
	svc, router, _ := testEnvWithWorkspace(t, authToken != "", authToken, nil)
	return svc, router
}

func testEnvWithWorkspace(t *testing.T, authEnabled bool, authToken string, sseHandler http.Handler) (*ontoservice.Service, http.Handler, string) {
	t.Helper()
	root, store := testutil.TestWorkspace(t)
	db := testutil.TestDB(t)
	svc := ontoservice.NewService(store, db, ontoservice.NewCompiler())
	router := NewRouter(svc, authEnabled, authToken, sseHandler)
	return svc, router, root
}

func do(t *testing.T, router http.Handler, method, target string, body []byte, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func putBody(content string) []byte {
	b, _ := json.Marshal(PutDiagramRequest{Content: content})
	return b
}

func TestPutAndGetDiagram(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPut, "/diagrams/uni.yaml", putBody(testutil.PersonStudent))
	if w.Code != http.StatusCreated {
		t.Fatalf("put status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Header().Get("ETag") == "" {
		t.Error("missing ETag header")
	}

	w = do(t, router, http.MethodGet, "/diagrams/uni.yaml", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var d DiagramDetail
	_ = json.Unmarshal(w.Body.Bytes(), &d)
	if d.Path != "uni.yaml" || d.Status != models.StatusCompleted || d.Axioms != 3 {
		t.Errorf("diagram = %+v", d)
	}
	if d.LastRun == nil || d.LastRun.Nodes != 2 {
		t.Errorf("last run = %+v", d.LastRun)
	}
}

func TestPutWithOptimisticLocking(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPut, "/diagrams/lock.yaml", putBody(testutil.PersonStudent))
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d", w.Code)
	}
	var d DiagramDetail
	_ = json.Unmarshal(w.Body.Bytes(), &d)

	// Wrong checksum.
	w = do(t, router, http.MethodPut, "/diagrams/lock.yaml", putBody(testutil.Malformed), "If-Match", "wrong")
	if w.Code != http.StatusConflict {
		t.Errorf("wrong If-Match = %d, want 409", w.Code)
	}

	// Correct checksum, quoted as an ETag. The document decodes, so it is
	// stored even though its translation fails.
	w = do(t, router, http.MethodPut, "/diagrams/lock.yaml", putBody(testutil.Malformed), "If-Match", `"`+d.Checksum+`"`)
	if w.Code != http.StatusOK {
		t.Fatalf("correct If-Match = %d, body = %s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &d)
	if d.Status != models.StatusFailed || d.LastRun == nil || d.LastRun.Element != "bad" {
		t.Errorf("diagram after failed run = %+v", d)
	}
}

func TestPutInvalidDocument(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPut, "/diagrams/x.yaml", putBody("nodes: [{type: concept}]"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid document = %d, want 422", w.Code)
	}
	w = do(t, router, http.MethodPut, "/diagrams/x.txt", putBody(testutil.PersonStudent))
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-diagram path = %d, want 400", w.Code)
	}
	w = do(t, router, http.MethodPut, "/diagrams/x.yaml", []byte("{"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad JSON = %d, want 400", w.Code)
	}
	w = do(t, router, http.MethodPut, "/diagrams/ghost.yaml", putBody(testutil.PersonStudent), "If-Match", "abc")
	if w.Code != http.StatusNotFound {
		t.Errorf("If-Match on missing diagram = %d, want 404", w.Code)
	}
}

func TestDeleteDiagram(t *testing.T) {
	_, router := testEnv(t, "")
	do(t, router, http.MethodPut, "/diagrams/del.yaml", putBody(testutil.PersonStudent))

	w := do(t, router, http.MethodDelete, "/diagrams/del.yaml", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}
	w = do(t, router, http.MethodGet, "/diagrams/del.yaml", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
	w = do(t, router, http.MethodDelete, "/diagrams/del.yaml", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
}

func TestListDiagrams(t *testing.T) {
	_, router := testEnv(t, "")
	do(t, router, http.MethodPut, "/diagrams/a.yaml", putBody(testutil.PersonStudent))
	do(t, router, http.MethodPut, "/diagrams/sub%2Fb.yaml", putBody(testutil.Malformed))

	w := do(t, router, http.MethodGet, "/diagrams?limit=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp DiagramListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 || len(resp.Diagrams) != 2 {
		t.Fatalf("list = %+v", resp)
	}
	if resp.Diagrams[1].Path != "sub/b.yaml" {
		t.Errorf("encoded slash not decoded: %q", resp.Diagrams[1].Path)
	}

	w = do(t, router, http.MethodGet, "/diagrams?status=failed", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("failed filter total = %d, want 1", resp.Total)
	}

	w = do(t, router, http.MethodGet, "/diagrams?status=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bogus status = %d, want 400", w.Code)
	}
}

func TestTranslateDocument(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/translate", []byte(testutil.PersonStudent))
	if w.Code != http.StatusOK {
		t.Fatalf("translate = %d, body = %s", w.Code, w.Body.String())
	}
	var resp TranslationResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Run.Status != models.StatusCompleted || len(resp.Axioms) != 3 {
		t.Errorf("translation = %+v", resp)
	}

	w = do(t, router, http.MethodPost, "/translate", []byte(testutil.Malformed))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("malformed = %d, want 422", w.Code)
	}
	var terr TranslationError
	_ = json.Unmarshal(w.Body.Bytes(), &terr)
	if terr.Element != "bad" || !strings.Contains(terr.Error, "type mismatch in ISA") {
		t.Errorf("translation error = %+v", terr)
	}

	w = do(t, router, http.MethodPost, "/translate", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty body = %d, want 400", w.Code)
	}
}

func TestTranslateStoredDiagram(t *testing.T) {
	_, router, root := testEnvWithWorkspace(t, false, "", nil)
	testutil.WriteDiagram(t, root, "models/uni.yaml", testutil.PersonStudent)
	testutil.WriteDiagram(t, root, "bad.yaml", testutil.Malformed)

	w := do(t, router, http.MethodPost, "/translate/models/uni.yaml", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("translate stored = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/translate/bad.yaml", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("translate malformed = %d, want 422", w.Code)
	}
	var terr TranslationError
	_ = json.Unmarshal(w.Body.Bytes(), &terr)
	if terr.Run == nil || terr.Run.Status != models.StatusFailed {
		t.Errorf("failed run missing from error body: %+v", terr)
	}

	w = do(t, router, http.MethodPost, "/translate/ghost.yaml", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("translate missing = %d, want 404", w.Code)
	}

	w = do(t, router, http.MethodGet, "/runs/bad.yaml", nil)
	var runs RunsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &runs)
	if len(runs.Runs) != 1 || runs.Runs[0].Element != "bad" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestOntologyExport(t *testing.T) {
	_, router, root := testEnvWithWorkspace(t, false, "", nil)
	testutil.WriteDiagram(t, root, "uni.yaml", testutil.PersonStudent)

	w := do(t, router, http.MethodGet, "/ontology/uni.yaml", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/owl-functional") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Ontology(<http://example.org/uni>") {
		t.Errorf("unexpected document:\n%s", w.Body.String())
	}
}

func TestAxiomsEndpoint(t *testing.T) {
	_, router := testEnv(t, "")
	do(t, router, http.MethodPut, "/diagrams/uni.yaml", putBody(testutil.PersonStudent))

	w := do(t, router, http.MethodGet, "/axioms/uni.yaml", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("axioms = %d", w.Code)
	}
	var resp AxiomsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Axioms) != 3 {
		t.Errorf("axioms = %+v", resp.Axioms)
	}

	w = do(t, router, http.MethodGet, "/axioms?kind=Declaration", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Axioms) != 2 {
		t.Errorf("declarations = %d, want 2", len(resp.Axioms))
	}

	w = do(t, router, http.MethodGet, "/axioms?kind=Nope", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown kind = %d, want 400", w.Code)
	}
	w = do(t, router, http.MethodGet, "/axioms/ghost.yaml", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown diagram = %d, want 404", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")
	do(t, router, http.MethodPut, "/diagrams/s.yaml", putBody(testutil.PersonStudent))

	w := do(t, router, http.MethodGet, "/search?q=Student", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d", w.Code)
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) == 0 || resp.Results[0].Path != "s.yaml" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("search no query = %d, want 400", w.Code)
	}
}

func TestGetDiagram_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/diagrams/nope.yaml", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing diagram = %d, want 404", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	w := do(t, router, http.MethodPut, "/diagrams/auth.yaml", putBody(testutil.PersonStudent), "Authorization", "Bearer secret123")
	if w.Code != http.StatusCreated {
		t.Errorf("authed put = %d, want 201", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	w := do(t, router, http.MethodGet, "/diagrams", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	w := do(t, router, http.MethodGet, "/diagrams", nil, "Authorization", "Bearer wrong")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/diagrams", nil)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

// SSE endpoint auth tests.

// blockingSSE writes headers and blocks until the request context is done.
var blockingSSE = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	<-r.Context().Done()
})

func TestSSEEvents_AuthProtected(t *testing.T) {
	_, router, _ := testEnvWithWorkspace(t, true, "secret", blockingSSE)

	// No token → 401.
	w := do(t, router, http.MethodGet, "/events", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_AuthDisabled(t *testing.T) {
	_, router, _ := testEnvWithWorkspace(t, false, "", blockingSSE)

	// Disabled mode → should not 401. SSE handler will write 200 and block,
	// so we cancel the context after a short time.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE should not require auth when disabled")
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	_, router, _ := testEnvWithWorkspace(t, true, "tok", blockingSSE)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}
