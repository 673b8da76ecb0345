package storage

import (
	"context"
	"errors"

	"github.com/vietddude/oldestdate/internal/core/domain"
)

var (
	// ErrTrackNotFound is returned when a track doesn't exist
	ErrTrackNotFound = errors.New("track not found")

	// ErrTrackExists is returned when adding a track whose id is taken
	ErrTrackExists = errors.New("track already exists")
)

// TrackFilter narrows List. An empty filter matches every track.
type TrackFilter struct {
	IDs         []string
	OnlyPending bool // tracks without a recording year
}

// LibraryStats summarizes the library.
type LibraryStats struct {
	Total         int `db:"total"`
	WithRecording int `db:"with_recording"`
	Processed     int `db:"processed"`
}

// TrackRepository handles the library of tracks
type TrackRepository interface {
	// Add adds a new track
	Add(ctx context.Context, track *domain.Track) error

	// Get retrieves a track by id
	Get(ctx context.Context, id string) (*domain.Track, error)

	// List retrieves tracks matching filter, ordered by id
	List(ctx context.Context, filter TrackFilter) ([]*domain.Track, error)

	// SaveRecordingDate stores a resolved date. Only the known components
	// are written; overwriteYear also replaces the track's own year.
	SaveRecordingDate(
		ctx context.Context,
		id string,
		date domain.PartialDate,
		overwriteYear bool,
		runID string,
	) error

	// Stats summarizes the library
	Stats(ctx context.Context) (LibraryStats, error)
}
