package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/decades-app/decades/internal/repositories"
	"github.com/decades-app/decades/internal/server"
	"github.com/decades-app/decades/internal/services"
	"github.com/decades-app/decades/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until interrupted.
//
// Wires the session store, the OAuth login routes, the playlist JSON API,
// and the share-card image endpoint behind a single router.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.resolveConfig(cmd, false)

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: set credentials.spotify in config.toml", shared.ErrMissingCredentials)
	}

	appTokens := r.appTokens
	if appTokens == nil {
		appTokens = services.NewAppTokenProvider(
			config.Credentials.Spotify.ClientID,
			config.Credentials.Spotify.ClientSecret,
			r.logger,
		)
	}

	db, err := openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	users := repositories.NewUserRepository(db)
	sessions := repositories.NewSessionRepository(db)
	oauthCfg := oauthConfig(config)

	router := server.NewBasicRouter()
	router.Use(server.RecoveryMiddleware(r.logger), server.LoggingMiddleware(r.logger))
	router.Handler(server.NewAuthHandler(oauthCfg, r.catalog, users, sessions, r.logger))
	router.Handler(server.NewPlaylistHandler(r.catalog, appTokens, sessions, oauthCfg, r.logger))
	router.Handler(server.NewImageHandler(r.catalog, appTokens, r.logger))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.writePlain("Listening on %s\n", config.Server.Addr())
	return server.NewServer(config.Server.Addr(), router, r.logger).Serve(ctx)
}
