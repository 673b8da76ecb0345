// Package resolution finds the oldest known date of a musical work.
//
// Starting from a recording, the resolver walks to the work it performs,
// then to every sibling recording of that work and their releases, and
// folds all partial dates it meets into the oldest one. The traversal is a
// bounded two-hop walk: recording -> work -> sibling recordings.
package resolution

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/oldestdate/internal/core/domain"
	"github.com/vietddude/oldestdate/internal/resolution/metrics"
	"github.com/vietddude/oldestdate/internal/resolution/retry"
)

// RecordingSource returns recordings, memoized, and forgets them on demand.
type RecordingSource interface {
	Get(ctx context.Context, id string) (*domain.Recording, error)
	Evict(id string)
}

// WorkFetcher retrieves a work with its recording relations.
type WorkFetcher interface {
	GetWorkByID(ctx context.Context, id string) (*domain.Work, error)
}

// Options holds the resolution policy.
type Options struct {
	Approach         domain.Approach
	ReleaseTypes     []string // nil accepts every release status
	FilterRecordings bool     // skip siblings carrying any relation attribute
	UseFileDate      bool     // start from the embedded date even when a work exists
	Retry            retry.Config
	Clock            func() time.Time
}

// DefaultOptions mirrors the plugin defaults.
var DefaultOptions = Options{
	Approach:         domain.ApproachHybrid,
	ReleaseTypes:     []string{"Official"},
	FilterRecordings: true,
	Retry:            retry.DefaultConfig,
}

// Resolver resolves the oldest date for a recording.
type Resolver struct {
	recordings RecordingSource
	works      WorkFetcher
	opts       Options
}

// NewResolver creates a resolver over an explicit recording cache.
func NewResolver(recordings RecordingSource, works WorkFetcher, opts Options) *Resolver {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Resolver{
		recordings: recordings,
		works:      works,
		opts:       opts,
	}
}

// OldestDate returns the oldest date found for recordingID. fallback is the
// date embedded in the local file, if any. domain.ErrNotFound and
// domain.ErrMissingRelations mean no date could be determined.
func (r *Resolver) OldestDate(
	ctx context.Context,
	recordingID string,
	fallback *domain.PartialDate,
) (domain.PartialDate, error) {
	seed, err := r.recordings.Get(ctx, recordingID)
	if err != nil {
		metrics.Resolutions.WithLabelValues("error").Inc()
		return domain.PartialDate{}, fmt.Errorf("failed to get recording %s: %w", recordingID, err)
	}

	isCoverOriginal := IsCover(seed)
	artistIDs := ArtistIDs(seed)
	workID, hasWork := WorkID(seed)

	start := domain.DateOf(r.opts.Clock())
	if fallback != nil && (r.opts.UseFileDate || !hasWork) {
		start = *fallback
	}

	var relations []domain.RecordingRelation
	if !hasWork {
		slog.Debug("No work found, scanning the recording itself", "recording", recordingID)
		relations = []domain.RecordingRelation{{RecordingID: recordingID}}
	} else {
		work, err := r.fetchWork(ctx, workID)
		if err != nil {
			metrics.Resolutions.WithLabelValues("error").Inc()
			return domain.PartialDate{}, fmt.Errorf("failed to get work %s: %w", workID, err)
		}
		if len(work.RecordingRelations) == 0 {
			slog.Error("Work has no associated recordings, choose another recording or amend the data",
				"work", workID, "recording", recordingID)
			metrics.Resolutions.WithLabelValues("missing_relations").Inc()
			return domain.PartialDate{}, fmt.Errorf("work %s: %w", workID, domain.ErrMissingRelations)
		}
		relations = work.RecordingRelations
	}

	oldest, found, err := r.resolveApproach(ctx, relations, start, isCoverOriginal, artistIDs)
	if err != nil {
		metrics.Resolutions.WithLabelValues("error").Inc()
		return domain.PartialDate{}, err
	}
	if !found {
		metrics.Resolutions.WithLabelValues("not_found").Inc()
		return domain.PartialDate{}, fmt.Errorf("recording %s: %w", recordingID, domain.ErrNotFound)
	}

	metrics.Resolutions.WithLabelValues("found").Inc()
	slog.Debug("Resolved oldest date", "recording", recordingID, "date", oldest.String(), "sentinel", start.String())
	return oldest, nil
}

// HasWork reports whether recordingID is related to a work.
func (r *Resolver) HasWork(ctx context.Context, recordingID string) (bool, error) {
	seed, err := r.recordings.Get(ctx, recordingID)
	if err != nil {
		return false, fmt.Errorf("failed to get recording %s: %w", recordingID, err)
	}
	_, ok := WorkID(seed)
	return ok, nil
}

func (r *Resolver) fetchWork(ctx context.Context, id string) (*domain.Work, error) {
	return retry.Do(ctx, r.opts.Retry,
		func(ctx context.Context) retry.Result[*domain.Work] {
			work, err := r.works.GetWorkByID(ctx, id)
			return retry.FromError(work, err)
		},
		func(attempt int, err error) {
			metrics.FetchRetries.WithLabelValues("work").Inc()
			slog.Warn("Retrying work lookup", "work", id, "attempt", attempt+1, "error", err)
		},
	)
}
