package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/vietddude/oldestdate/internal/core/domain"
	"github.com/vietddude/oldestdate/internal/infra/storage"
)

func newTestRepo(t *testing.T) *TrackRepo {
	t.Helper()
	url := os.Getenv("OLDESTDATE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("OLDESTDATE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := NewDB(ctx, Config{URL: url})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE tracks`); err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}
	return NewTrackRepo(db)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		t.Fatalf("failed to read migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected embedded migrations")
	}
}

func TestTrackRepo(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, tr := range []*domain.Track{
		{ID: "a", RecordingID: "r1", Year: 1999},
		{ID: "b"},
		{ID: "c", RecordingID: "r3"},
	} {
		if err := repo.Add(ctx, tr); err != nil {
			t.Fatalf("failed to add %s: %v", tr.ID, err)
		}
	}
	if err := repo.Add(ctx, &domain.Track{ID: "a"}); !errors.Is(err, storage.ErrTrackExists) {
		t.Errorf("expected ErrTrackExists, got %v", err)
	}

	got, err := repo.List(ctx, storage.TrackFilter{IDs: []string{"c", "a"}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("unexpected list result %+v", got)
	}

	if err := repo.SaveRecordingDate(ctx, "a", domain.NewDate(1970, 5, domain.Unknown), true, "run-1"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	track, err := repo.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if track.RecordingYear != 1970 || track.RecordingMonth != 5 || track.RecordingDay != 0 || track.Year != 1970 {
		t.Errorf("unexpected track %+v", track)
	}

	if err := repo.SaveRecordingDate(ctx, "a", domain.YearOnly(1965), false, "run-2"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	track, err = repo.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if track.RecordingYear != 1965 || track.RecordingMonth != 0 || track.RecordingDay != 0 || track.Year != 1970 {
		t.Errorf("expected the less precise date to replace the stored one, got %+v", track)
	}

	pending, err := repo.List(ctx, storage.TrackFilter{IDs: []string{"a", "c"}, OnlyPending: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "c" {
		t.Errorf("unexpected pending tracks %+v", pending)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats != (storage.LibraryStats{Total: 3, WithRecording: 2, Processed: 1}) {
		t.Errorf("unexpected stats %+v", stats)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, storage.ErrTrackNotFound) {
		t.Errorf("expected ErrTrackNotFound, got %v", err)
	}
	if err := repo.SaveRecordingDate(ctx, "missing", domain.YearOnly(1970), false, ""); !errors.Is(err, storage.ErrTrackNotFound) {
		t.Errorf("expected ErrTrackNotFound, got %v", err)
	}
}
