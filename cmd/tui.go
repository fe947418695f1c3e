package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmfernandez/tastify/internal/repositories"
	"github.com/lmfernandez/tastify/internal/shared"
	"github.com/lmfernandez/tastify/internal/tasks"
	"github.com/lmfernandez/tastify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for preference enrichment.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	token, err := r.resolveToken(ctx, cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewUserRepository(db)
	engine := tasks.NewProfileEngine(r.spotify, repo, r.api)

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tastify-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, repo, r.spotify, engine, token, cmd.Int("limit"), cmd.String("time-range"))
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
