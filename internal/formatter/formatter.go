// package formatter provides functions to export listening profiles to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lmfernandez/tastify/internal/models"
	"github.com/lmfernandez/tastify/internal/shared"
)

// TracksToCSV converts top tracks to CSV with columns: Rank, Title, Artist, Album
func TracksToCSV(stats *models.ListeningStats) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Title", "Artist", "Album"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range stats.TopTracks {
		record := []string{
			strconv.Itoa(i + 1),
			track.TrackName,
			track.Artist,
			track.Album,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ArtistsToCSV converts top artists to CSV with columns: Rank, Name, Genres
func ArtistsToCSV(stats *models.ListeningStats) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Name", "Genres"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, artist := range stats.TopArtists {
		record := []string{
			strconv.Itoa(i + 1),
			artist.Name,
			strings.Join(artist.Genres, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a profile export to Markdown format
func ExportToMarkdown(export *models.ProfileExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Listening Profile: %s\n\n", export.Owner))
	buf.WriteString(fmt.Sprintf("**Time range**: %s\n\n", export.TimeRange))

	buf.WriteString("## Top Tracks\n\n")
	for i, track := range export.Stats.TopTracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, track.Artist, track.TrackName, albumPart))
	}

	buf.WriteString("\n## Top Artists\n\n")
	for i, artist := range export.Stats.TopArtists {
		genresPart := ""
		if len(artist.Genres) > 0 {
			genresPart = fmt.Sprintf(" — %s", strings.Join(artist.Genres, ", "))
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, artist.Name, genresPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a profile export to plain text format
func ExportToText(export *models.ProfileExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Listening profile: %s\n", export.Owner))
	buf.WriteString(fmt.Sprintf("Time range: %s\n\n", export.TimeRange))

	buf.WriteString("Top tracks:\n")
	for i, track := range export.Stats.TopTracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.TrackName))
	}

	buf.WriteString("\nTop artists:\n")
	for i, artist := range export.Stats.TopArtists {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, artist.Name))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of the export metadata (without stats)
func ToMetadataJSON(export *models.ProfileExport) ([]byte, error) {
	meta := map[string]any{
		"owner":      export.Owner,
		"time_range": export.TimeRange,
		"tracks":     len(export.Stats.TopTracks),
		"artists":    len(export.Stats.TopArtists),
	}
	return shared.MarshalJSON(meta, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile  string
	ArtistsFile string
}

// WriteCSVExport writes a profile export as a pair of CSV files.
//
// Defaults to the time range as the base filename & creates {base}_tracks.csv and {base}_artists.csv
func WriteCSVExport(export *models.ProfileExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.TimeRange
	}

	tracksCSV, err := TracksToCSV(&export.Stats)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tracks CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, tracksCSV, 0644); err != nil {
		return nil, fmt.Errorf("failed to write tracks CSV: %w", err)
	}

	artistsCSV, err := ArtistsToCSV(&export.Stats)
	if err != nil {
		return nil, fmt.Errorf("failed to generate artists CSV: %w", err)
	}

	artistsFile := baseFilepath + "_artists.csv"
	if err := os.WriteFile(artistsFile, artistsCSV, 0644); err != nil {
		return nil, fmt.Errorf("failed to write artists CSV: %w", err)
	}

	return &CSVExportResult{
		TracksFile:  tracksFile,
		ArtistsFile: artistsFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport writes a profile export to a dedicated directory.
//
// Directory name defaults to the time range. Creates {dir}/README.md.
func WriteMarkdownExport(export *models.ProfileExport, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.TimeRange
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{mdFile},
	}, nil
}

// WriteTextExport writes a profile export to plain text.
//
// Defaults to {time_range}_profile.txt as the filename.
func WriteTextExport(export *models.ProfileExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_profile.txt", export.TimeRange)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteExportManifest writes a JSON manifest summarizing an export run.
func WriteExportManifest(manifest any, path string) error {
	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
