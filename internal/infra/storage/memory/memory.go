package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/vietddude/oldestdate/internal/core/domain"
	"github.com/vietddude/oldestdate/internal/infra/storage"
)

type MemoryStorage struct {
	tracks map[string]*domain.Track
	mu     sync.RWMutex
	now    func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tracks: make(map[string]*domain.Track),
		now:    time.Now,
	}
}

// -----------------------------------------------------------------------------
// Track Repository
// -----------------------------------------------------------------------------

type TrackRepo struct {
	store *MemoryStorage
}

func NewTrackRepo(store *MemoryStorage) *TrackRepo {
	return &TrackRepo{store: store}
}

func (r *TrackRepo) Add(ctx context.Context, track *domain.Track) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tracks[track.ID]; ok {
		return fmt.Errorf("track %s: %w", track.ID, storage.ErrTrackExists)
	}
	t := *track
	t.UpdatedAt = r.store.now()
	r.store.tracks[track.ID] = &t
	return nil
}

func (r *TrackRepo) Get(ctx context.Context, id string) (*domain.Track, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.tracks[id]
	if !ok {
		return nil, fmt.Errorf("track %s: %w", id, storage.ErrTrackNotFound)
	}
	out := *t
	return &out, nil
}

func (r *TrackRepo) List(ctx context.Context, filter storage.TrackFilter) ([]*domain.Track, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.Track
	for id, t := range r.store.tracks {
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, id) {
			continue
		}
		if filter.OnlyPending && t.RecordingYear != 0 {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *domain.Track) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *TrackRepo) SaveRecordingDate(
	ctx context.Context,
	id string,
	date domain.PartialDate,
	overwriteYear bool,
	runID string,
) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.tracks[id]
	if !ok {
		return fmt.Errorf("track %s: %w", id, storage.ErrTrackNotFound)
	}

	t.RecordingYear = date.Year()
	t.RecordingMonth, t.RecordingDay = 0, 0
	if month, ok := date.Month(); ok {
		t.RecordingMonth = month
	}
	if day, ok := date.Day(); ok {
		t.RecordingDay = day
	}
	if overwriteYear {
		t.Year = date.Year()
	}
	t.RunID = runID
	t.UpdatedAt = r.store.now()
	return nil
}

func (r *TrackRepo) Stats(ctx context.Context) (storage.LibraryStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var stats storage.LibraryStats
	for _, t := range r.store.tracks {
		stats.Total++
		if t.RecordingID != "" {
			stats.WithRecording++
		}
		if t.RecordingYear != 0 {
			stats.Processed++
		}
	}
	return stats, nil
}
