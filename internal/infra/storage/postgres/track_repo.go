package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/vietddude/oldestdate/internal/core/domain"
	"github.com/vietddude/oldestdate/internal/infra/storage"
)

const trackColumns = `id, recording_id, artist, title, year, month, day,
	recording_year, recording_month, recording_day, run_id, updated_at`

// TrackRepo implements storage.TrackRepository using PostgreSQL.
type TrackRepo struct {
	db *DB
}

// NewTrackRepo creates a new PostgreSQL track repository.
func NewTrackRepo(db *DB) *TrackRepo {
	return &TrackRepo{db: db}
}

// Add inserts a new track.
func (r *TrackRepo) Add(ctx context.Context, track *domain.Track) error {
	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO tracks (id, recording_id, artist, title, year, month, day,
			recording_year, recording_month, recording_day, run_id, updated_at)
		VALUES (:id, :recording_id, :artist, :title, :year, :month, :day,
			:recording_year, :recording_month, :recording_day, :run_id, NOW())
		ON CONFLICT (id) DO NOTHING`, track)
	if err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("track %s: %w", track.ID, storage.ErrTrackExists)
	}
	return nil
}

// Get retrieves a track by id.
func (r *TrackRepo) Get(ctx context.Context, id string) (*domain.Track, error) {
	var t domain.Track
	err := r.db.GetContext(ctx, &t, `SELECT `+trackColumns+` FROM tracks WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("track %s: %w", id, storage.ErrTrackNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return &t, nil
}

// List retrieves tracks matching filter, ordered by id.
func (r *TrackRepo) List(ctx context.Context, filter storage.TrackFilter) ([]*domain.Track, error) {
	var (
		conds []string
		args  []any
	)
	if len(filter.IDs) > 0 {
		args = append(args, pq.Array(filter.IDs))
		conds = append(conds, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.OnlyPending {
		conds = append(conds, "recording_year = 0")
	}

	query := `SELECT ` + trackColumns + ` FROM tracks`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY id`

	var tracks []*domain.Track
	if err := r.db.SelectContext(ctx, &tracks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}

// SaveRecordingDate stores a resolved date on a track.
func (r *TrackRepo) SaveRecordingDate(
	ctx context.Context,
	id string,
	date domain.PartialDate,
	overwriteYear bool,
	runID string,
) error {
	// Unknown components are stored as 0
	month, _ := date.Month()
	day, _ := date.Day()
	month, day = max(month, 0), max(day, 0)

	res, err := r.db.ExecContext(ctx, `
		UPDATE tracks SET
			recording_year  = $2,
			recording_month = $3,
			recording_day   = $4,
			year            = CASE WHEN $5::boolean THEN $2 ELSE year END,
			run_id          = $6,
			updated_at      = NOW()
		WHERE id = $1`,
		id, date.Year(), month, day, overwriteYear, runID)
	if err != nil {
		return fmt.Errorf("failed to save recording date: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save recording date: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("track %s: %w", id, storage.ErrTrackNotFound)
	}
	return nil
}

// Stats summarizes the library.
func (r *TrackRepo) Stats(ctx context.Context) (storage.LibraryStats, error) {
	var stats storage.LibraryStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE recording_id <> '') AS with_recording,
			COUNT(*) FILTER (WHERE recording_year <> 0) AS processed
		FROM tracks`)
	if err != nil {
		return stats, fmt.Errorf("failed to get library stats: %w", err)
	}
	return stats, nil
}
