package web

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/georgifidanov/spotify-mood-classifier/internal/dashboard"
	"github.com/georgifidanov/spotify-mood-classifier/internal/telemetry"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr         string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TemplatesFS  fs.FS
	StaticFS     fs.FS
	Sessions     SessionManager
	Service      *dashboard.Service
	Logger       zerolog.Logger
}

// Server is the HTTP server for the dashboard.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	logger   zerolog.Logger
}

// NewServer creates a web server wired to the given session store and
// dashboard service.
func NewServer(cfg ServerConfig) (*Server, error) {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithScopes(
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopeUserTopRead,
			spotifyauth.ScopeUserReadRecentlyPlayed,
		),
	)

	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	handlers := NewHandlers(auth, cfg.Sessions, templates, cfg.Service, cfg.Logger)

	s := &Server{
		router:   chi.NewRouter(),
		handlers: handlers,
		logger:   cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: analyzeTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(telemetry.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes(staticFS fs.FS) {
	fileServer := http.FileServer(http.FS(staticFS))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Pages
	s.router.Get("/", s.handlers.Home)
	s.router.Get("/dashboard", s.handlers.Dashboard)

	// Auth
	s.router.Get("/auth/login", s.handlers.Login)
	s.router.Get("/callback", s.handlers.Callback)
	s.router.Post("/auth/logout", s.handlers.Logout)

	// JSON API
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/playlists", s.handlers.APIPlaylists)
		r.Get("/playlists/{id}/tracks", s.handlers.APIPlaylistTracks)
		r.Post("/playlists/{id}/analyze", s.handlers.APIAnalyzePlaylist)
		r.Post("/playlists/create", s.handlers.APICreatePlaylist)
		r.Get("/library/analyze", s.handlers.APIAnalyzeLibrary)
	})

	// Operational endpoints
	s.router.Get("/healthz", s.handlers.Healthz)
	s.router.Handle("/metrics", telemetry.Handler())
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and shuts down gracefully on interrupt.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info().Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info().Msg("server stopped")
	return nil
}
