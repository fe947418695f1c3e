// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/lmfernandez/tastify/internal/models"
)

// MockService is a configurable test double for services.Service.
// Zero value returns empty results; set the function fields to override.
type MockService struct {
	TopArtistsFn     func(ctx context.Context, token string, limit int, timeRange string) ([]models.ArtistSummary, error)
	TopTracksFn      func(ctx context.Context, token string, limit int, timeRange string) ([]models.TrackSummary, error)
	SearchTrackFn    func(ctx context.Context, token, title, artist string) (*models.TrackInfo, error)
	ListeningStatsFn func(ctx context.Context, token string) (*models.ListeningStats, error)
}

func (m *MockService) TopArtists(ctx context.Context, token string, limit int, timeRange string) ([]models.ArtistSummary, error) {
	if m.TopArtistsFn != nil {
		return m.TopArtistsFn(ctx, token, limit, timeRange)
	}
	return []models.ArtistSummary{}, nil
}

func (m *MockService) TopTracks(ctx context.Context, token string, limit int, timeRange string) ([]models.TrackSummary, error) {
	if m.TopTracksFn != nil {
		return m.TopTracksFn(ctx, token, limit, timeRange)
	}
	return []models.TrackSummary{}, nil
}

func (m *MockService) SearchTrack(ctx context.Context, token, title, artist string) (*models.TrackInfo, error) {
	if m.SearchTrackFn != nil {
		return m.SearchTrackFn(ctx, token, title, artist)
	}
	return &models.TrackInfo{TrackName: title, Artist: artist}, nil
}

func (m *MockService) ListeningStats(ctx context.Context, token string) (*models.ListeningStats, error) {
	if m.ListeningStatsFn != nil {
		return m.ListeningStatsFn(ctx, token)
	}
	return &models.ListeningStats{TopTracks: []models.TrackSummary{}, TopArtists: []models.ArtistSummary{}}, nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
