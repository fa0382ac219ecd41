// ABOUTME: Cohort HTTP server: member home page, per-member chapter pages, and the JSON API
// ABOUTME: behind a single chi router with request IDs, zap request logs, and panic recovery.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2389-research/cohort/appdata"
	"github.com/2389-research/cohort/curriculum"
	"github.com/2389-research/cohort/logging"
	"github.com/2389-research/cohort/render"
)

const shutdownTimeout = 10 * time.Second

// Server serves the cohort pages and API.
type Server struct {
	lib       *curriculum.Library
	resolver  *curriculum.Resolver
	store     *appdata.Store
	cache     *render.Cache
	templates *TemplateEngine
	log       *logging.Logger
	router    chi.Router
	addr      string
}

// ServerConfig holds the configuration for the web server.
type ServerConfig struct {
	Addr      string // listen address (default: "127.0.0.1:3000")
	Library   *curriculum.Library
	Store     *appdata.Store // defaults to a store reading Library directly
	RenderTTL time.Duration  // 0 disables the render cache
	Logger    *logging.Logger
}

// NewServer creates a Server and sets up routing. It does not start loading
// the store; the caller decides when that happens.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:3000"
	}
	if cfg.Library == nil {
		return nil, errors.New("Library must not be nil")
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}
	store := cfg.Store
	if store == nil {
		store = appdata.NewStore(appdata.LibraryFetcher{Lib: cfg.Library}, log)
	}

	tmpl, err := NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("initializing templates: %w", err)
	}

	s := &Server{
		lib:       cfg.Library,
		resolver:  curriculum.NewResolver(cfg.Library, log),
		store:     store,
		cache:     render.NewCache(render.NewMarkdown().Render, cfg.RenderTTL),
		templates: tmpl,
		log:       log,
		addr:      cfg.Addr,
	}
	s.router = s.buildRouter()
	return s, nil
}

// Store returns the server's data store.
func (s *Server) Store() *appdata.Store { return s.store }

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

// ListenAndServe listens on the configured address and serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends, then shuts down gracefully.
// A clean shutdown returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := s.httpServer()
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)

	staticFS, err := fs.Sub(StaticFS, "static")
	if err != nil {
		s.log.Warn("failed to create static sub-FS", "error", err)
	} else {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/member", s.handleAPIMembers)
		r.Get("/member/{name}", s.handleAPIMember)
		r.Get("/curriculum", s.handleAPICurriculum)
	})

	r.Get("/{name}/chapter/{idx}", s.handleChapter)

	return r
}

// handleHome lists members and chapter links from the current snapshot.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	data := PageData{
		Title:    "Cohort",
		Ready:    s.store.Ready(),
		Members:  snap.Members,
		Chapters: chapterSummaries(snap.Curriculum),
	}
	if err := s.templates.Render(w, "home.html", data); err != nil {
		s.log.Error("error rendering home", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// handleHealth reports liveness and whether the store has settled.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"ready":  s.store.Ready(),
	})
}

// handleChapter renders every part of one chapter for one member.
func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	idx := chi.URLParam(r, "idx")

	items, err := s.resolver.Resolve(r.Context(), name, idx)
	if err != nil {
		status := chapterErrorStatus(err)
		if status == http.StatusInternalServerError {
			s.log.Error("failed to resolve chapter", "member", name, "chapter", idx, "error", err)
			http.Error(w, "internal server error", status)
			return
		}
		http.Error(w, err.Error(), status)
		return
	}

	n, _ := curriculum.ParseChapterIndex(idx)
	data := PageData{
		Title:      fmt.Sprintf("%s · Chapter %d", name, n),
		Ready:      s.store.Ready(),
		Member:     name,
		MemberIcon: s.memberIcon(name),
		Chapter:    n,
		Items:      make([]ChapterItem, len(items)),
	}
	for i, item := range items {
		title := item.Title
		if item.Err == nil {
			title = render.PartTitle(item.Title, item.Content)
		}
		data.Items[i] = ChapterItem{
			Title:  title,
			Icon:   item.Icon,
			HTML:   s.renderItem(r.Context(), name, n, item),
			Failed: item.Err != nil,
		}
	}

	if err := s.templates.Render(w, "chapter.html", data); err != nil {
		s.log.Error("error rendering chapter", "member", name, "chapter", n, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) renderItem(ctx context.Context, name string, idx int, item curriculum.ContentItem) template.HTML {
	html, err := s.cache.Render(ctx, item.Content)
	if err != nil {
		s.log.Warn("failed to render chapter content", "member", name, "chapter", idx, "title", item.Title, "error", err)
		return template.HTML("<p>" + template.HTMLEscapeString(curriculum.FallbackContent) + "</p>")
	}
	return html
}

func (s *Server) memberIcon(name string) string {
	for _, m := range s.store.Snapshot().Members {
		if m.Name == name {
			return m.Icon
		}
	}
	return ""
}

func chapterErrorStatus(err error) int {
	switch {
	case errors.Is(err, curriculum.ErrInvalidChapterIndex), errors.Is(err, curriculum.ErrInvalidMemberName):
		return http.StatusBadRequest
	case errors.Is(err, curriculum.ErrChapterNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
