package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lmfernandez/tastify/internal/formatter"
	"github.com/lmfernandez/tastify/internal/models"
	"github.com/lmfernandez/tastify/internal/services"
	"github.com/lmfernandez/tastify/internal/shared"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for profile exports.
type ExportOpts struct {
	Format     string   // Export format: json, csv, markdown, txt
	OutputDir  string   // Base output directory (default: taste_export_{epoch})
	TimeRanges []string // Time ranges to export (default: all three)
	Limit      int      // Items per list (default: service default)
	NumWorkers int      // Concurrent workers (default: 3)
	RateLimit  float64  // Upstream requests per second (default: 5)
}

// ProfileExportJob carries one fetched time range to an export worker.
type ProfileExportJob struct {
	TimeRange string
	Export    *models.ProfileExport
}

// ProfileExportResult records the outcome for a single time range.
type ProfileExportResult struct {
	TimeRange string   `json:"time_range"`
	Success   bool     `json:"success"`
	Files     []string `json:"files,omitempty"`
	Error     error    `json:"-"`
	ErrorMsg  string   `json:"error,omitempty"`
}

// ExportResult contains all data from an export run.
type ExportResult struct {
	Owner             string                `json:"owner"`
	TotalRanges       int                   `json:"total_ranges"`
	SuccessfulExports int                   `json:"successful_exports"`
	FailedExports     int                   `json:"failed_exports"`
	OutputDirectory   string                `json:"output_directory"`
	ManifestPath      string                `json:"manifest_path,omitempty"`
	Results           []ProfileExportResult `json:"results"`
}

// Export fetches listening stats for each requested time range and writes
// them to disk concurrently with rate limiting and progress tracking.
//
// A worker pool drains fetched profiles while the producer paces upstream
// queries with a rate limiter. Partial failures are recorded per range and
// summarized in a manifest file.
func (e *ProfileEngine) Export(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	token, owner string,
	opts ExportOpts,
) (*ExportResult, error) {
	if e.spotify == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("taste_export_%d", time.Now().Unix())
	}
	if len(opts.TimeRanges) == 0 {
		opts.TimeRanges = []string{services.TimeRangeShort, services.TimeRangeMedium, services.TimeRangeLong}
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		Owner:           owner,
		TotalRanges:     len(opts.TimeRanges),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ProfileExportResult, 0, len(opts.TimeRanges)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan ProfileExportJob, len(opts.TimeRanges))
	results := make(chan ProfileExportResult, len(opts.TimeRanges))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, timeRange := range opts.TimeRanges {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			e.sendProgress(prog, fetchStatsUpdate(i+1, len(opts.TimeRanges), timeRange))

			stats, err := e.fetchStats(ctx, token, opts.Limit, timeRange)
			if err != nil {
				results <- ProfileExportResult{
					TimeRange: timeRange,
					Success:   false,
					Error:     fmt.Errorf("failed to fetch stats: %w", err),
				}
				continue
			}

			jobs <- ProfileExportJob{
				TimeRange: timeRange,
				Export: &models.ProfileExport{
					Owner:     owner,
					TimeRange: timeRange,
					Stats:     *stats,
				},
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Error != nil {
			res.ErrorMsg = res.Error.Error()
		}
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(opts.TimeRanges), res.TimeRange, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(opts.TimeRanges), res.TimeRange, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteExportManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// fetchStats queries both top lists for one time range.
func (e *ProfileEngine) fetchStats(ctx context.Context, token string, limit int, timeRange string) (*models.ListeningStats, error) {
	tracks, err := e.spotify.TopTracks(ctx, token, limit, timeRange)
	if err != nil {
		return nil, err
	}

	artists, err := e.spotify.TopArtists(ctx, token, limit, timeRange)
	if err != nil {
		return nil, err
	}

	return &models.ListeningStats{TopTracks: tracks, TopArtists: artists}, nil
}

// exportWorker is a worker goroutine that writes profiles from the jobs channel.
func (e *ProfileEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ProfileExportJob,
	results chan<- ProfileExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportSingleRange(job, opts)
	}
}

// exportSingleRange writes a single time range to the requested format.
func (e *ProfileEngine) exportSingleRange(j ProfileExportJob, opts ExportOpts) ProfileExportResult {
	result := ProfileExportResult{
		TimeRange: j.TimeRange,
		Success:   false,
		Files:     []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.TimeRange)
		csvRes, err := formatter.WriteCSVExport(j.Export, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.TracksFile, csvRes.ArtistsFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, j.TimeRange)
		mdRes, err := formatter.WriteMarkdownExport(j.Export, outputDir)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_profile.txt", j.TimeRange))
		written, err := formatter.WriteTextExport(j.Export, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{written}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.TimeRange))
		data, err := shared.MarshalJSON(j.Export, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}
