// Package web is the browser host: a server-rendered editor kept live over a
// Datastar event stream.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"treeedit-cli/internal/docs"
	"treeedit-cli/internal/format"
	"treeedit-cli/internal/logger"
	"treeedit-cli/internal/model"
	"treeedit-cli/internal/mutate"
	"treeedit-cli/internal/publish"
	"treeedit-cli/internal/render"
	"treeedit-cli/internal/store"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

// containerRef is the path segment that addresses the tree container.
const containerRef = "root"

type ServerConfig struct {
	Addr     string
	File     store.File
	Glyphs   render.Glyphs
	ReadOnly bool
}

// Server holds one in-memory tree. The model is not synchronized, so every
// access goes through mu.
type Server struct {
	mu    sync.Mutex
	cfg   ServerConfig
	tree  *model.Tree
	dirty bool

	tmpl *template.Template
	hub  *resourceHub
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.File.Path = strings.TrimSpace(cfg.File.Path)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.File.Path == "" {
		return nil, errors.New("web: tree file is empty")
	}

	tmpl, err := template.New("base").ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	t, err := cfg.File.Load()
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tree: t, tmpl: tmpl, hub: newResourceHub()}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /render.txt", s.handleRenderText)
	mux.HandleFunc("GET /tree.json", s.handleTreeJSON)
	mux.HandleFunc("POST /nodes/{ref}/label", s.handleSetLabel)
	mux.HandleFunc("POST /nodes/{ref}/{action}", s.handleAction)
	mux.HandleFunc("POST /root", s.handleSetRoot)
	mux.HandleFunc("POST /save", s.handleSave)
	mux.HandleFunc("GET /{$}", s.handleHome)
	return logRequests(mux)
}

// Serve accepts connections on ln until it fails.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("web server listening", "addr", ln.Addr().String(), "file", s.cfg.File.Path)
	return srv.Serve(ln)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	help, _ := docs.Get("editing")
	s.mu.Lock()
	vm := pageVM{
		editorVM: s.editorVMLocked(),
		Output:   render.RenderWith(s.tree, render.Options{Glyphs: s.cfg.Glyphs}),
		Help:     publish.MarkdownToHTML(help),
	}
	s.mu.Unlock()
	s.writeHTMLTemplate(w, "index.html", vm)
}

func (s *Server) handleRenderText(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := render.Render(s.tree)
	s.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

func (s *Server) handleTreeJSON(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t := s.tree.Clone()
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := format.WriteJSON(w, map[string]any{"data": t}, true); err != nil {
		logger.Error("write tree json", "err", err)
	}
}

// handleEvents streams the editor and the rendered output, once on connect and
// again after every change.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ch, cancel := s.hub.subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	push := func() {
		editorHTML, outHTML, dirty, err := s.renderFragments()
		if err != nil {
			logger.Error("render fragments", "err", err)
			return
		}
		_ = sse.PatchElements(editorHTML, datastar.WithSelector("#tree-editor"), datastar.WithMode(datastar.ElementPatchModeOuter))
		_ = sse.PatchElements(outHTML, datastar.WithSelector("#out"), datastar.WithMode(datastar.ElementPatchModeOuter))
		_ = sse.MarshalAndPatchSignals(map[string]any{"dirty": dirty})
	}

	push()
	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			push()
		}
	}
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ReadOnly {
		http.Error(w, "read-only", http.StatusForbidden)
		return
	}
	action, err := mutate.ParseEditAction(r.PathValue("action"))
	if err != nil {
		writeEditError(w, err)
		return
	}
	ref := pathRef(r)

	s.mu.Lock()
	res, err := mutate.Apply(s.tree, action, ref)
	if err == nil {
		s.dirty = true
	}
	s.mu.Unlock()
	if err != nil {
		writeEditError(w, err)
		return
	}

	logger.Debug("web edit", "action", action.String(), "ref", string(ref), "created", string(res.Created))
	s.hub.broadcast()
	w.WriteHeader(http.StatusNoContent)
}

type labelSignals struct {
	Label string `json:"label"`
}

func (s *Server) handleSetLabel(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ReadOnly {
		http.Error(w, "read-only", http.StatusForbidden)
		return
	}
	var sig labelSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ref := pathRef(r)

	s.mu.Lock()
	var err error
	if ref == "" {
		s.tree.SetRootLabel(sig.Label)
	} else {
		err = s.tree.SetLabel(ref, sig.Label)
	}
	if err == nil {
		s.dirty = true
	}
	s.mu.Unlock()
	if err != nil {
		writeEditError(w, err)
		return
	}

	s.hub.broadcast()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetRoot(w http.ResponseWriter, r *http.Request) {
	r.SetPathValue("ref", containerRef)
	s.handleSetLabel(w, r)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ReadOnly {
		http.Error(w, "read-only", http.StatusForbidden)
		return
	}
	s.mu.Lock()
	err := s.cfg.File.Save(s.tree)
	if err == nil {
		s.dirty = false
	}
	n := s.tree.Len()
	s.mu.Unlock()
	if err != nil {
		logger.Error("save tree", "path", s.cfg.File.Path, "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrLineBreakInLabel) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	logger.Info("tree saved", "path", s.cfg.File.Path, "nodes", n)
	s.hub.broadcast()
	w.WriteHeader(http.StatusNoContent)
}

func pathRef(r *http.Request) model.NodeRef {
	ref := strings.TrimSpace(r.PathValue("ref"))
	if ref == containerRef {
		return ""
	}
	return model.NodeRef(ref)
}

func writeEditError(w http.ResponseWriter, err error) {
	var unknown mutate.UnknownActionError
	switch {
	case errors.Is(err, model.ErrInvalidReference):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &unknown):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps event streams working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
