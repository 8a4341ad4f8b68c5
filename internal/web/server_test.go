package web

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treeedit-cli/internal/model"
	"treeedit-cli/internal/render"
	"treeedit-cli/internal/store"
)

const projText = "proj\n|-- src\n|   |-- main.go\n|   `-- util.go\n`-- README.md\n"

func newTestServer(t *testing.T, readOnly bool) (*Server, http.Handler) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "proj.txt")
	require.NoError(t, os.WriteFile(p, []byte(projText), 0o644))

	s, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", File: store.File{Path: p}, ReadOnly: readOnly})
	require.NoError(t, err)
	return s, s.Handler()
}

// refOf finds a node by label.
func refOf(t *testing.T, s *Server, label string) model.NodeRef {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range render.Lines(s.tree, render.Options{}) {
		if l.Label == label {
			return l.Ref
		}
	}
	t.Fatalf("no node labeled %q", label)
	return ""
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func renderText(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodGet, "/render.txt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestNewServer_Validates(t *testing.T) {
	t.Parallel()

	_, err := NewServer(ServerConfig{File: store.File{Path: "x.txt"}})
	assert.Error(t, err)
	_, err = NewServer(ServerConfig{Addr: "127.0.0.1:0"})
	assert.Error(t, err)
}

func TestHealthAndHome(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, false)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="tree-editor"`)
	assert.Contains(t, body, `id="out"`)
	assert.Contains(t, body, "README.md")
	assert.Contains(t, body, "@get('/events')")

	rec = do(t, h, http.MethodGet, "/static/app.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, false)
	assert.Equal(t, projText, renderText(t, h))
}

func TestActions_MutateSessionTree(t *testing.T) {
	t.Parallel()

	s, h := newTestServer(t, false)

	rec := do(t, h, http.MethodPost, "/nodes/"+string(refOf(t, s, "main.go"))+"/add-sibling", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "proj\n|-- src\n|   |-- main.go\n|   |-- \n|   `-- util.go\n`-- README.md\n", renderText(t, h))

	rec = do(t, h, http.MethodPost, "/nodes/"+string(refOf(t, s, "src"))+"/delete", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "proj\n`-- README.md\n", renderText(t, h))

	rec = do(t, h, http.MethodPost, "/nodes/root/add-child", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "proj\n|-- README.md\n`-- \n", renderText(t, h))
}

func TestActions_Errors(t *testing.T) {
	t.Parallel()

	s, h := newTestServer(t, false)

	rec := do(t, h, http.MethodPost, "/nodes/node-999/delete", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/nodes/root/add-sibling", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/nodes/root/delete", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/nodes/"+string(refOf(t, s, "src"))+"/explode", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, projText, renderText(t, h))
}

func TestLabels(t *testing.T) {
	t.Parallel()

	s, h := newTestServer(t, false)

	rec := do(t, h, http.MethodPost, "/nodes/"+string(refOf(t, s, "src"))+"/label", `{"label":"lib"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPost, "/root", `{"label":"repo"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, "repo\n|-- lib\n|   |-- main.go\n|   `-- util.go\n`-- README.md\n", renderText(t, h))

	rec = do(t, h, http.MethodPost, "/nodes/node-999/label", `{"label":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/root", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSave(t *testing.T) {
	t.Parallel()

	s, h := newTestServer(t, false)
	do(t, h, http.MethodPost, "/nodes/"+string(refOf(t, s, "src"))+"/delete", "")

	s.mu.Lock()
	assert.True(t, s.dirty)
	s.mu.Unlock()

	rec := do(t, h, http.MethodPost, "/save", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	b, err := os.ReadFile(s.cfg.File.Path)
	require.NoError(t, err)
	assert.Equal(t, "proj\n`-- README.md\n", string(b))

	s.mu.Lock()
	assert.False(t, s.dirty)
	s.mu.Unlock()
}

func TestSave_RefusesLineBreakInLabel(t *testing.T) {
	t.Parallel()

	s, h := newTestServer(t, false)
	rec := do(t, h, http.MethodPost, "/nodes/"+string(refOf(t, s, "src"))+"/label", `{"label":"a\nb"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPost, "/save", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "line break")

	b, err := os.ReadFile(s.cfg.File.Path)
	require.NoError(t, err)
	assert.Equal(t, projText, string(b))

	s.mu.Lock()
	assert.True(t, s.dirty)
	s.mu.Unlock()
}

func TestReadOnly(t *testing.T) {
	t.Parallel()

	s, h := newTestServer(t, true)
	ref := string(refOf(t, s, "src"))

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPost, "/nodes/"+ref+"/delete", "").Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPost, "/nodes/"+ref+"/label", `{"label":"x"}`).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPost, "/save", "").Code)
	assert.Equal(t, projText, renderText(t, h))

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Contains(t, rec.Body.String(), "readonly")
}

func TestTreeJSON(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, false)
	rec := do(t, h, http.MethodGet, "/tree.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rootLabel": "proj"`)
	assert.Contains(t, rec.Body.String(), `"label": "main.go"`)
}

func TestEvents_PatchesOnConnectAndChange(t *testing.T) {
	t.Parallel()

	s, h := newTestServer(t, false)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	sc := bufio.NewScanner(resp.Body)
	waitFor := func(needle string) {
		t.Helper()
		for sc.Scan() {
			if strings.Contains(sc.Text(), needle) {
				return
			}
		}
		t.Fatalf("stream ended before %q: %v", needle, sc.Err())
	}

	waitFor("util.go")

	ref := string(refOf(t, s, "util.go"))
	rec := do(t, h, http.MethodPost, "/nodes/"+ref+"/label", `{"label":"helpers.go"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	waitFor("helpers.go")
}

func TestHub(t *testing.T) {
	t.Parallel()

	h := newResourceHub()
	a, cancelA := h.subscribe()
	b, cancelB := h.subscribe()
	assert.Equal(t, 2, h.len())

	h.broadcast()
	h.broadcast()
	<-a
	<-b
	select {
	case <-a:
		t.Fatal("notifications should coalesce")
	default:
	}

	cancelA()
	cancelB()
	assert.Equal(t, 0, h.len())
}
