// Command spotify-mood-classifier runs the mood clustering dashboard.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/georgifidanov/spotify-mood-classifier/internal/analysis"
	"github.com/georgifidanov/spotify-mood-classifier/internal/config"
	"github.com/georgifidanov/spotify-mood-classifier/internal/dashboard"
	"github.com/georgifidanov/spotify-mood-classifier/internal/db"
	"github.com/georgifidanov/spotify-mood-classifier/internal/logging"
	"github.com/georgifidanov/spotify-mood-classifier/internal/web"
	webfs "github.com/georgifidanov/spotify-mood-classifier/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.Environment)

	sessions, cleanup, err := buildSessions(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	service := dashboard.New(analysis.DefaultConfig(), logger)

	server, err := web.NewServer(web.ServerConfig{
		Addr:         cfg.Addr,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		TemplatesFS:  templates,
		StaticFS:     static,
		Sessions:     sessions,
		Service:      service,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Str("environment", cfg.Environment).Msg("configuration loaded")
	return server.Run()
}

// buildSessions picks the session store: Postgres when DATABASE_URL is
// set, in-memory otherwise.
func buildSessions(cfg *config.Config) (web.SessionManager, func(), error) {
	if cfg.DatabaseURL == "" {
		return web.NewMemorySessions(), func() {}, nil
	}

	ctx := context.Background()
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}

	return web.NewDBSessions(database), database.Close, nil
}
