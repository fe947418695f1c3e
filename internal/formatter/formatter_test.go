package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmfernandez/tastify/internal/models"
)

func sampleExport() *models.ProfileExport {
	return &models.ProfileExport{
		Owner:     "ada@example.com",
		TimeRange: "medium_term",
		Stats: models.ListeningStats{
			TopTracks: []models.TrackSummary{
				{TrackName: "Weird Fishes", Artist: "Radiohead", Album: "In Rainbows"},
				{TrackName: "Holocene", Artist: "Bon Iver", Album: "Bon Iver, Bon Iver"},
			},
			TopArtists: []models.ArtistSummary{
				{Name: "Radiohead", Genres: []string{"art rock", "alternative"}},
				{Name: "Bon Iver", Genres: []string{"indie folk"}},
			},
		},
	}
}

func TestCSV(t *testing.T) {
	export := sampleExport()

	t.Run("Tracks", func(t *testing.T) {
		data, err := TracksToCSV(&export.Stats)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "Rank,Title,Artist,Album" {
			t.Errorf("unexpected header %q", lines[0])
		}
		if !strings.HasPrefix(lines[1], "1,Weird Fishes,Radiohead") {
			t.Errorf("unexpected first row %q", lines[1])
		}
	})

	t.Run("Tracks With Commas Quoted", func(t *testing.T) {
		data, err := TracksToCSV(&export.Stats)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), `"Bon Iver, Bon Iver"`) {
			t.Error("expected album with comma to be quoted")
		}
	})

	t.Run("Artists", func(t *testing.T) {
		data, err := ArtistsToCSV(&export.Stats)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(string(data), "art rock; alternative") {
			t.Errorf("expected genres joined, got %s", data)
		}
	})

	t.Run("Empty Stats", func(t *testing.T) {
		empty := models.ListeningStats{}
		data, err := TracksToCSV(&empty)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(string(data)) != "Rank,Title,Artist,Album" {
			t.Errorf("expected header only, got %q", data)
		}
	})
}

func TestMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleExport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(data)
	for _, want := range []string{
		"# Listening Profile: ada@example.com",
		"**Time range**: medium_term",
		"## Top Tracks",
		"1. Radiohead - Weird Fishes (In Rainbows)",
		"## Top Artists",
		"2. Bon Iver",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestText(t *testing.T) {
	data, err := ExportToText(sampleExport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Listening profile: ada@example.com") {
		t.Errorf("unexpected text output:\n%s", text)
	}
	if !strings.Contains(text, "2. Bon Iver - Holocene") {
		t.Errorf("expected numbered track lines, got:\n%s", text)
	}
}

func TestWriteExports(t *testing.T) {
	export := sampleExport()

	t.Run("CSV", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "medium_term")

		result, err := WriteCSVExport(export, base)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, file := range []string{result.TracksFile, result.ArtistsFile} {
			if _, err := os.Stat(file); err != nil {
				t.Errorf("expected file %s: %v", file, err)
			}
		}
		if !strings.HasSuffix(result.TracksFile, "_tracks.csv") {
			t.Errorf("unexpected tracks file name %s", result.TracksFile)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "profile")

		result, err := WriteMarkdownExport(export, dir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(result.Files) != 1 || !strings.HasSuffix(result.Files[0], "README.md") {
			t.Errorf("unexpected files %v", result.Files)
		}
		content, err := os.ReadFile(result.Files[0])
		if err != nil {
			t.Fatalf("failed to read README: %v", err)
		}
		if !strings.Contains(string(content), "# Listening Profile") {
			t.Error("README missing title")
		}
	})

	t.Run("Text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.txt")

		written, err := WriteTextExport(export, path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}
	})

	t.Run("Manifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		manifest := map[string]any{"total": 3, "succeeded": 2}

		if err := WriteExportManifest(manifest, path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read manifest: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("manifest is not valid JSON: %v", err)
		}
		if decoded["total"] != float64(3) {
			t.Errorf("unexpected manifest %v", decoded)
		}
	})
}

func TestMetadataJSON(t *testing.T) {
	data, err := ToMetadataJSON(sampleExport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var meta map[string]any
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if meta["owner"] != "ada@example.com" || meta["tracks"] != float64(2) {
		t.Errorf("unexpected metadata %v", meta)
	}
}
