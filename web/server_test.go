// ABOUTME: Tests for the cohort HTTP server and chi router.
// ABOUTME: Covers health, home, chapter pages and their error statuses, the JSON API, and graceful shutdown.
package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/2389-research/cohort/appdata"
	"github.com/2389-research/cohort/curriculum"
	"github.com/2389-research/cohort/logging"
)

const testManifest = `{"data":[[{"title":"Intro","icon":"📘","extra":{"x":1}},{"title":"Setup","icon":"🛠"}],[{"title":"Deep","icon":"🌊"}]]}`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newTestLibrary lays out a content tree with two members. Alice has the
// first part of chapter 1; the second part is missing on purpose.
func newTestLibrary(t *testing.T, manifest string) *curriculum.Library {
	t.Helper()
	root := t.TempDir()
	manifestPath := filepath.Join(root, "public", "curriculum.json")
	contentDir := filepath.Join(root, "content")

	writeFile(t, manifestPath, manifest)
	writeFile(t, filepath.Join(contentDir, "member", "alice", "README.mdx"), "# 🦊 Alice\n")
	writeFile(t, filepath.Join(contentDir, "member", "bob", "README.mdx"), "plain readme\n")
	writeFile(t, filepath.Join(contentDir, "member", "alice", "chap01", "1_intro", "README.mdx"),
		"---\ntitle: Intro\n---\nimport Box from './box'\n\n# Hello\n\nWelcome to **cohort**.\n")
	return curriculum.NewLibrary(manifestPath, contentDir)
}

func newServer(t *testing.T, lib *curriculum.Library, log *logging.Logger) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{
		Addr:      "127.0.0.1:0",
		Library:   lib,
		RenderTTL: time.Minute,
		Logger:    log,
	})
	if err != nil {
		t.Fatalf("unexpected error creating server: %v", err)
	}
	return srv
}

// newTestServer returns a server whose store has already loaded.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv := newServer(t, newTestLibrary(t, testManifest), nil)
	if err := srv.Store().Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	return srv
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status %q, got %v", "ok", body["status"])
	}
	if body["ready"] != true {
		t.Errorf("expected ready=true after load, got %v", body["ready"])
	}
}

func TestServerHealthBeforeLoad(t *testing.T) {
	srv := newServer(t, newTestLibrary(t, testManifest), nil)

	var body map[string]any
	if err := json.NewDecoder(get(t, srv, "/health").Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["ready"] != false {
		t.Errorf("expected ready=false before load, got %v", body["ready"])
	}
}

func TestServerHome(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{"alice", "🦊", "bob", `href="/alice/chapter/1"`, `href="/bob/chapter/2"`, "Intro", "Deep"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected home to contain %q", want)
		}
	}
	if strings.Contains(body, "Loading") {
		t.Error("loading notice should be gone once the store is ready")
	}
}

func TestServerHomeWhileLoading(t *testing.T) {
	srv := newServer(t, newTestLibrary(t, testManifest), nil)

	body := get(t, srv, "/").Body.String()
	if !strings.Contains(body, "Loading") {
		t.Errorf("expected loading notice, got %q", body)
	}
	if strings.Contains(body, "alice") {
		t.Error("members must not appear before the store loads")
	}
}

func TestServerChapter(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/alice/chapter/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	for _, want := range []string{"📘", "Intro", "<h1>Hello</h1>", "<strong>cohort</strong>", "🦊 alice"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected chapter page to contain %q", want)
		}
	}
	if strings.Contains(body, "import Box") {
		t.Error("ESM import leaked into rendered page")
	}
	if strings.Contains(body, "title: Intro") {
		t.Error("front matter leaked into rendered page")
	}

	// The second part has no file and falls back.
	if !strings.Contains(body, "Setup") || !strings.Contains(body, "Failed to load content.") {
		t.Error("expected fallback item for the missing part")
	}
	if strings.Index(body, "Intro") > strings.Index(body, "Setup") {
		t.Error("parts must render in manifest order")
	}
}

func TestServerChapterUntitledPartUsesFrontMatter(t *testing.T) {
	lib := newTestLibrary(t, `{"data":[[{"icon":"🧭"}]]}`)
	writeFile(t, filepath.Join(lib.ContentDir(), "member", "alice", "chap01", "1_", "README.mdx"),
		"---\ntitle: Orientation\n---\nFind your way.\n")
	srv := newServer(t, lib, nil)

	rec := get(t, srv, "/alice/chapter/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Orientation") || !strings.Contains(body, "Find your way.") {
		t.Errorf("expected front matter title and body, got %s", body)
	}
}

func TestServerChapterUnknownMemberFallsBack(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/nobody/chapter/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Deep") || !strings.Contains(body, "part-failed") {
		t.Errorf("expected a fallback part, got %q", body)
	}
}

func TestServerChapterErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		target string
		status int
	}{
		{"/alice/chapter/0", http.StatusBadRequest},
		{"/alice/chapter/abc", http.StatusBadRequest},
		{"/alice/chapter/-1", http.StatusBadRequest},
		{`/a%5Cb/chapter/1`, http.StatusBadRequest},
		{"/alice/chapter/3", http.StatusNotFound},
		{"/alice/chapter/12", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if rec := get(t, srv, tt.target); rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestServerChapterBrokenManifest(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	srv := newServer(t, newTestLibrary(t, `{"data":`), logging.FromZap(zap.New(core)))

	rec := get(t, srv, "/alice/chapter/1")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if n := logs.FilterMessage("failed to resolve chapter").Len(); n != 1 {
		t.Errorf("expected 1 error log, got %d", n)
	}
}

func TestServerAPIMembers(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/member")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var names []string
	if err := json.NewDecoder(rec.Body).Decode(&names); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if diff := cmp.Diff([]string{"alice", "bob"}, names); diff != "" {
		t.Errorf("unexpected members (-want +got):\n%s", diff)
	}
}

func TestServerAPIMember(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/member/alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["content"] != "# 🦊 Alice\n" {
		t.Errorf("unexpected content %q", body["content"])
	}

	if rec := get(t, srv, "/api/member/nobody"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown member, got %d", rec.Code)
	}
}

func TestServerAPICurriculumPreservesParts(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/curriculum")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"extra":{"x":1}`) {
		t.Errorf("expected unknown part fields to survive, got %s", body)
	}

	var got struct {
		Curriculum []curriculum.Chapter `json:"curriculum"`
	}
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got.Curriculum) != 2 || len(got.Curriculum[0]) != 2 {
		t.Fatalf("unexpected shape: %+v", got.Curriculum)
	}
	if got.Curriculum[1][0].Title != "Deep" || got.Curriculum[1][0].Icon != "🌊" {
		t.Errorf("unexpected part %+v", got.Curriculum[1][0])
	}
}

func TestServerStaticCSS(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/static/css/site.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("expected text/css, got %q", ct)
	}
}

func TestServerRequestID(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/health")
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("expected generated uuid, got %q", rec.Header().Get(RequestIDHeader))
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("expected incoming id %q to be kept, got %q", id, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("expected invalid id to be replaced")
	}
}

func TestServerLogsRequests(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	srv := newServer(t, newTestLibrary(t, testManifest), logging.FromZap(zap.New(core)))

	get(t, srv, "/alice/chapter/3")

	entries := logs.FilterMessage("web request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/alice/chapter/3" {
		t.Errorf("unexpected path %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusNotFound) {
		t.Errorf("expected status 404, got %v (%T)", fields["status"], fields["status"])
	}
	if id, _ := fields["request_id"].(string); id == "" {
		t.Error("expected request_id field")
	}
}

// The store can load from the server's own API, as cmd/cohort wires it.
func TestServerAPIFeedsHTTPStore(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	store := appdata.NewStore(appdata.NewHTTPClient(ts.URL, 5*time.Second), nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	got := store.Snapshot()
	want := []appdata.Member{{Name: "alice", Icon: "🦊"}, {Name: "bob"}}
	if diff := cmp.Diff(want, got.Members); diff != "" {
		t.Errorf("unexpected members (-want +got):\n%s", diff)
	}
	if len(got.Curriculum) != 2 {
		t.Errorf("expected 2 chapters, got %d", len(got.Curriculum))
	}
}

func TestServerServeShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewServerRequiresLibrary(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Error("expected error without a library")
	}
}
