package main

import (
	"context"
	"os"

	"github.com/decades-app/decades/internal/services"
	"github.com/decades-app/decades/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	catalog := services.NewSpotifyService(logger)

	var appTokens services.TokenProvider
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		appTokens = services.NewAppTokenProvider(
			config.Credentials.Spotify.ClientID,
			config.Credentials.Spotify.ClientSecret,
			logger,
		)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    catalog,
		AppTokens:  appTokens,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "decades",
		Usage:    "Visualize Spotify playlists by release year",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
