package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/decades-app/decades/internal/shared"
	"github.com/decades-app/decades/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive release-year browser for one playlist.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	reference := cmd.StringArg("playlist")
	if reference == "" {
		return fmt.Errorf("%w: playlist ID or URL", shared.ErrMissingArgument)
	}

	config := r.resolveConfig(cmd, false)
	return r.launchTUI(ctx, config, reference)
}

// launchTUI starts the bubbletea program. Shared with analyze --interactive.
func (r *Runner) launchTUI(ctx context.Context, config *shared.Config, reference string) error {
	engine, closer, err := r.analysisEngine(config)
	if err != nil {
		return err
	}
	defer closer()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/decades-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, engine, reference)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
