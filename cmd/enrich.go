package main

import (
	"context"

	"github.com/lmfernandez/tastify/internal/repositories"
	"github.com/lmfernandez/tastify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Enrich fetches the listener's top tracks and attaches them to a stored
// profile as enriched preferences.
func (r *Runner) Enrich(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")
	limit := cmd.Int("limit")
	timeRange := cmd.String("time-range")

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

	r.logger.Info("starting enrichment", "user", userID, "limit", limit, "range", timeRange)
	r.writePlain("Enriching preferences for user %s...\n\n", userID)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchTop:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SearchTracks:
				if update.Step == 0 {
					r.writePlain("\n🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.AttachPrefs:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Enrich(ctx, progressCh, token, userID, limit, timeRange)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Enrichment Complete!")
	r.writePlain("Profile: %s <%s>\n", result.User.Name, result.User.Email)
	r.writePlain("Top tracks considered: %d\n", result.TotalTracks)
	r.writePlain("Attached: %d\n", result.Enriched)
	r.writePlain("Already present: %d\n", result.Skipped)

	if result.Failed > 0 {
		r.writePlain("\nFailed to look up %d tracks:\n", result.Failed)
		for _, match := range result.Matches {
			if match.Error != nil {
				r.writePlain("  - %s - %s\n", match.Summary.Artist, match.Summary.TrackName)
			}
		}
	}

	return nil
}
