package main

import (
	"context"

	"github.com/lmfernandez/tastify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes the listening profile across time ranges to disk.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		TimeRanges: cmd.StringSlice("range"),
		Limit:      cmd.Int("limit"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}

	token, err := r.resolveToken(ctx, cmd)
	if err != nil {
		return err
	}

	engine := tasks.NewProfileEngine(r.spotify, nil, r.api)

	r.logger.Info("starting export", "owner", owner, "format", opts.Format)
	r.writePlain("Exporting listening profile...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchStats:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.WriteExport:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Export(ctx, progressCh, token, owner, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Ranges: %d total, %d succeeded, %d failed\n", result.TotalRanges, result.SuccessfulExports, result.FailedExports)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.FailedExports > 0 {
		r.writePlain("\nFailed ranges:\n")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %s\n", res.TimeRange, res.ErrorMsg)
			}
		}
	}

	return nil
}
