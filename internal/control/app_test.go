package control

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/oldestdate/internal/core/config"
	"github.com/vietddude/oldestdate/internal/core/domain"
	"github.com/vietddude/oldestdate/internal/resolution/health"
)

var fakeMusicBrainz = map[string]string{
	"/ws/2/recording/seed": `{
		"id": "seed", "title": "Song",
		"artist-credit": [{"name": "Band", "artist": {"id": "a1", "name": "Band"}}],
		"releases": [{"id": "x", "date": "1990", "status": "Official"}],
		"relations": [{"type": "performance", "target-type": "work", "attributes": [],
			"work": {"id": "w1", "title": "Song"}}]
	}`,
	"/ws/2/work/w1": `{
		"id": "w1", "title": "Song",
		"relations": [
			{"type": "performance", "target-type": "recording", "attributes": [], "begin": null,
				"recording": {"id": "seed"}},
			{"type": "performance", "target-type": "recording", "attributes": [], "begin": null,
				"recording": {"id": "old"}},
			{"type": "performance", "target-type": "recording", "attributes": ["live"], "begin": null,
				"recording": {"id": "live"}}
		]
	}`,
	"/ws/2/recording/old": `{
		"id": "old", "title": "Song",
		"releases": [{"id": "y", "date": "1971-06-01", "status": "Official"}]
	}`,
	"/ws/2/recording/live": `{
		"id": "live", "title": "Song (live)",
		"releases": [{"id": "z", "date": "1960", "status": "Official"}]
	}`,
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := fakeMusicBrainz[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.MusicBrainz.URL = server.URL
	cfg.MusicBrainz.RateLimit = 1000
	cfg.Resolver.BackoffUnit = time.Millisecond

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Stop(context.Background()) })
	return app
}

func TestApp_ProcessLibrary(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	if err := app.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	tracks := []*domain.Track{
		{ID: "t1", RecordingID: "seed", Artist: "Band", Title: "Song", Year: 2001},
		{ID: "t2", RecordingID: "unknown"},
		{Artist: "No", Title: "Id"},
	}
	for _, tr := range tracks {
		if err := app.AddTrack(ctx, tr); err != nil {
			t.Fatalf("AddTrack failed: %v", err)
		}
	}
	if tracks[2].ID == "" {
		t.Error("expected AddTrack to generate an id")
	}

	summary, err := app.Processor.Run(ctx, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Counts[ResultUpdated] != 1 || summary.Counts[ResultNotFound] != 1 || summary.Counts[ResultSkippedNoID] != 1 {
		t.Errorf("unexpected counts %v", summary.Counts)
	}

	stored, err := app.Tracks.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.RecordingYear != 1971 || stored.RecordingMonth != 6 || stored.RecordingDay != 1 {
		t.Errorf("unexpected recording date %d-%d-%d", stored.RecordingYear, stored.RecordingMonth, stored.RecordingDay)
	}
	if stored.Year != 2001 {
		t.Errorf("expected year untouched, got %d", stored.Year)
	}
	if app.Cache.Len() != 0 {
		t.Errorf("expected cache to be drained, got %d entries", app.Cache.Len())
	}

	report, err := app.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if report.Storage != "memory" || report.SharedCache != -1 {
		t.Errorf("unexpected status %+v", report)
	}
	if report.Library.Total != 3 || report.Library.Processed != 1 || report.Library.WithRecording != 2 {
		t.Errorf("unexpected library stats %+v", report.Library)
	}
	if report.Health.SystemStatus != health.StatusHealthy {
		t.Errorf("expected healthy, got %s", report.Health.SystemStatus)
	}
	if report.MusicBrainz.Requests == 0 {
		t.Error("expected MusicBrainz requests to be recorded")
	}
}

func TestApp_Resolve(t *testing.T) {
	app := newTestApp(t)

	date, err := app.Resolver.OldestDate(context.Background(), "seed", nil)
	if err != nil {
		t.Fatalf("OldestDate failed: %v", err)
	}
	if date.String() != "1971-06-01" {
		t.Errorf("expected 1971-06-01, got %s", date)
	}
}

func TestApp_ForgetRecordingsWithoutRedis(t *testing.T) {
	app := newTestApp(t)
	if err := app.ForgetRecordings(context.Background(), "seed"); !errors.Is(err, ErrNoSharedCache) {
		t.Errorf("expected ErrNoSharedCache, got %v", err)
	}
}

func TestApp_RequireLibraryWithoutDatabase(t *testing.T) {
	app := newTestApp(t)
	if err := app.RequireLibrary(); !errors.Is(err, ErrNoLibrary) {
		t.Errorf("expected ErrNoLibrary, got %v", err)
	}
}

func TestNewApp_InvalidApproach(t *testing.T) {
	cfg := config.Default()
	cfg.Resolver.Approach = "sideways"
	if _, err := NewApp(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown approach")
	}
}

func TestNewApp_UnreachableRedis(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.URL = "redis://127.0.0.1:1/0"
	if _, err := NewApp(context.Background(), cfg); err == nil {
		t.Error("expected error for unreachable redis")
	}
}

func TestResolverOptions(t *testing.T) {
	rc := config.Default().Resolver
	rc.Approach = "both"
	rc.ReleaseTypes = nil
	rc.MaxNetworkRetries = 5
	rc.BackoffUnit = 2 * time.Second

	opts, err := ResolverOptions(rc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Approach != domain.ApproachBoth || opts.ReleaseTypes != nil {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.Retry.MaxAttempts != 5 || opts.Retry.Unit != 2*time.Second {
		t.Errorf("unexpected retry config %+v", opts.Retry)
	}
}
