package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vietddude/oldestdate/internal/core/domain"
	"github.com/vietddude/oldestdate/internal/infra/storage"
)

func seed(t *testing.T, repo *TrackRepo, tracks ...*domain.Track) {
	t.Helper()
	for _, tr := range tracks {
		if err := repo.Add(context.Background(), tr); err != nil {
			t.Fatalf("failed to add %s: %v", tr.ID, err)
		}
	}
}

func TestTrackRepo_AddGet(t *testing.T) {
	repo := NewTrackRepo(NewMemoryStorage())
	ctx := context.Background()
	seed(t, repo, &domain.Track{ID: "t1", RecordingID: "r1", Artist: "Band", Title: "Song", Year: 1999})

	got, err := repo.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RecordingID != "r1" || got.Year != 1999 || got.UpdatedAt.IsZero() {
		t.Errorf("unexpected track %+v", got)
	}

	if err := repo.Add(ctx, &domain.Track{ID: "t1"}); !errors.Is(err, storage.ErrTrackExists) {
		t.Errorf("expected ErrTrackExists, got %v", err)
	}
	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, storage.ErrTrackNotFound) {
		t.Errorf("expected ErrTrackNotFound, got %v", err)
	}
}

func TestTrackRepo_GetReturnsCopy(t *testing.T) {
	repo := NewTrackRepo(NewMemoryStorage())
	seed(t, repo, &domain.Track{ID: "t1", Year: 1999})

	got, _ := repo.Get(context.Background(), "t1")
	got.Year = 2000

	again, _ := repo.Get(context.Background(), "t1")
	if again.Year != 1999 {
		t.Errorf("expected stored track to be unchanged, got %d", again.Year)
	}
}

func TestTrackRepo_List(t *testing.T) {
	repo := NewTrackRepo(NewMemoryStorage())
	seed(t, repo,
		&domain.Track{ID: "c", RecordingID: "r3"},
		&domain.Track{ID: "a", RecordingID: "r1", RecordingYear: 1970},
		&domain.Track{ID: "b"},
	)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter storage.TrackFilter
		want   []string
	}{
		{"all", storage.TrackFilter{}, []string{"a", "b", "c"}},
		{"ids", storage.TrackFilter{IDs: []string{"c", "a", "zzz"}}, []string{"a", "c"}},
		{"pending", storage.TrackFilter{OnlyPending: true}, []string{"b", "c"}},
		{"pending ids", storage.TrackFilter{IDs: []string{"a", "b"}, OnlyPending: true}, []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d tracks, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestTrackRepo_SaveRecordingDate(t *testing.T) {
	ctx := context.Background()

	t.Run("full date", func(t *testing.T) {
		repo := NewTrackRepo(NewMemoryStorage())
		seed(t, repo, &domain.Track{ID: "t1", Year: 1999})

		if err := repo.SaveRecordingDate(ctx, "t1", domain.NewDate(1970, 5, 24), false, "run-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, _ := repo.Get(ctx, "t1")
		if got.RecordingYear != 1970 || got.RecordingMonth != 5 || got.RecordingDay != 24 {
			t.Errorf("unexpected recording date %d-%d-%d", got.RecordingYear, got.RecordingMonth, got.RecordingDay)
		}
		if got.Year != 1999 {
			t.Errorf("expected year untouched, got %d", got.Year)
		}
		if got.RunID != "run-1" {
			t.Errorf("expected run id run-1, got %s", got.RunID)
		}
	})

	t.Run("unknown components clear the previous date", func(t *testing.T) {
		repo := NewTrackRepo(NewMemoryStorage())
		seed(t, repo, &domain.Track{ID: "t1", RecordingYear: 1980, RecordingMonth: 3, RecordingDay: 4})

		if err := repo.SaveRecordingDate(ctx, "t1", domain.YearOnly(1965), true, "run-2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, _ := repo.Get(ctx, "t1")
		if got.RecordingYear != 1965 || got.RecordingMonth != 0 || got.RecordingDay != 0 {
			t.Errorf("unexpected recording date %d-%d-%d", got.RecordingYear, got.RecordingMonth, got.RecordingDay)
		}
		if got.Year != 1965 {
			t.Errorf("expected year overwritten, got %d", got.Year)
		}
	})

	t.Run("missing track", func(t *testing.T) {
		repo := NewTrackRepo(NewMemoryStorage())
		err := repo.SaveRecordingDate(ctx, "nope", domain.YearOnly(1965), false, "")
		if !errors.Is(err, storage.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})
}

func TestTrackRepo_Stats(t *testing.T) {
	repo := NewTrackRepo(NewMemoryStorage())
	seed(t, repo,
		&domain.Track{ID: "a", RecordingID: "r1", RecordingYear: 1970},
		&domain.Track{ID: "b", RecordingID: "r2"},
		&domain.Track{ID: "c"},
	)

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := storage.LibraryStats{Total: 3, WithRecording: 2, Processed: 1}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
}
