package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"storytimeline/internal/config"
	appLog "storytimeline/internal/log"
	"storytimeline/internal/slideshow"
)

const shutdownTimeout = 5 * time.Second

// Server serves the slideshow page, its JSON API, the embedded assets and
// the media directory.
type Server struct {
	cfg   *config.Config
	deck  *slideshow.Deck
	debug bool
	mux   *http.ServeMux
}

// embeddedStatic holds the stylesheet and the progressive-enhancement
// script used by the page.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, deck *slideshow.Deck, debug bool) *Server {
	s := &Server{
		cfg:   cfg,
		deck:  deck,
		debug: debug,
		mux:   http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run listens on cfg.Listen and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	appLog.Info("starting HTTP server", "listen", "http://"+ln.Addr().String(), "debug", s.debug)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		appLog.Info("HTTP server stopped")
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /print/{index}", s.handlePrint)

	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/next", s.navigate("next", s.deck.Next))
	s.mux.HandleFunc("POST /api/previous", s.navigate("previous", s.deck.Previous))
	s.mux.HandleFunc("POST /api/home", s.navigate("home", s.deck.Home))
	s.mux.HandleFunc("POST /api/jump", s.handleJump)
	s.mux.HandleFunc("POST /api/quiz/open", s.handleQuizOpen)
	s.mux.HandleFunc("POST /api/quiz/answer", s.handleQuizAnswer)

	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
	s.mux.Handle("GET /static/", http.StripPrefix("/static", s.staticFileServer()))

	// Event image references resolve against the site root.
	s.mux.Handle("GET /", s.mediaFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// staticFileServer serves the embedded files under internal/web/static.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static assets not available", http.StatusServiceUnavailable)
		})
	}
	return http.FileServer(http.FS(sub))
}

// mediaFileServer serves photos and videos from cfg.MediaDir. Directory
// listings, dotfiles and /api/* paths are never served.
func (s *Server) mediaFileServer() http.Handler {
	fileServer := http.FileServer(http.Dir(s.cfg.MediaDir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") || strings.HasSuffix(path, "/") || hasDotElement(path) {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

// hasDotElement reports whether any element of path starts with ".".
func hasDotElement(path string) bool {
	for _, elem := range strings.Split(path, "/") {
		if strings.HasPrefix(elem, ".") {
			return true
		}
	}
	return false
}
