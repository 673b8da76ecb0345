package resolution

import (
	"context"
	"log/slog"
	"slices"

	"github.com/vietddude/oldestdate/internal/core/domain"
)

// scanRecordingBeginDates folds the begin dates of the related recordings
// into the oldest date, starting from start.
func (r *Resolver) scanRecordingBeginDates(
	relations []domain.RecordingRelation,
	start domain.PartialDate,
	isCoverOriginal bool,
	approach domain.Approach,
) domain.PartialDate {
	oldest := start

	for _, rel := range relations {
		// A cover only competes with other covers, an original never with covers.
		if rel.IsCover() != isCoverOriginal {
			r.recordings.Evict(rel.RecordingID)
			continue
		}

		date, ok, err := rel.BeginDate()
		if err != nil {
			slog.Debug("Skipping unparseable begin date",
				"recording", rel.RecordingID, "begin", rel.Begin, "error", err)
		} else if ok && date.Less(oldest) {
			oldest = date
		}

		// Releases are not scanned any more, so the recording is no longer needed.
		if approach == domain.ApproachRecordings ||
			(approach == domain.ApproachHybrid && !oldest.Equal(start)) {
			r.recordings.Evict(rel.RecordingID)
		}
	}

	return oldest
}

// scanReleaseDates folds the release dates of every kept sibling recording
// into the oldest date, starting from start.
func (r *Resolver) scanReleaseDates(
	ctx context.Context,
	relations []domain.RecordingRelation,
	start domain.PartialDate,
	isCoverOriginal bool,
	artistIDs map[string]struct{},
) (domain.PartialDate, error) {
	oldest := start

	for _, rel := range relations {
		id := rel.RecordingID

		if !r.keepBeforeFetch(rel, isCoverOriginal) {
			r.recordings.Evict(id)
			continue
		}

		rec, err := r.recordings.Get(ctx, id)
		if err != nil {
			return oldest, err
		}

		// Artist check happens after the fetch so the common non-cover path
		// does not pay for it.
		if isCoverOriginal && !ContainsArtist(rec, artistIDs) {
			r.recordings.Evict(id)
			continue
		}

		for _, release := range rec.Releases {
			if r.opts.ReleaseTypes != nil && !slices.Contains(r.opts.ReleaseTypes, release.Status) {
				continue
			}
			date, ok, err := release.ReleaseDate()
			if err != nil {
				slog.Debug("Skipping unparseable release date",
					"recording", id, "release", release.ID, "date", release.Date, "error", err)
				continue
			}
			if ok && date.Less(oldest) {
				oldest = date
			}
		}

		r.recordings.Evict(id)
	}

	return oldest, nil
}

func (r *Resolver) keepBeforeFetch(rel domain.RecordingRelation, isCoverOriginal bool) bool {
	if isCoverOriginal {
		return rel.IsCover()
	}
	if r.opts.FilterRecordings && len(rel.Attributes) > 0 {
		return false
	}
	return !rel.IsCover()
}

// resolveApproach runs the configured scans. found is false when nothing
// beat start.
func (r *Resolver) resolveApproach(
	ctx context.Context,
	relations []domain.RecordingRelation,
	start domain.PartialDate,
	isCoverOriginal bool,
	artistIDs map[string]struct{},
) (oldest domain.PartialDate, found bool, err error) {
	approach := r.opts.Approach
	oldest = start

	switch approach {
	case domain.ApproachRecordings:
		oldest = r.scanRecordingBeginDates(relations, start, isCoverOriginal, approach)
	case domain.ApproachReleases:
		oldest, err = r.scanReleaseDates(ctx, relations, start, isCoverOriginal, artistIDs)
	case domain.ApproachHybrid:
		oldest = r.scanRecordingBeginDates(relations, start, isCoverOriginal, approach)
		if oldest.Equal(start) {
			oldest, err = r.scanReleaseDates(ctx, relations, start, isCoverOriginal, artistIDs)
		}
	case domain.ApproachBoth:
		oldest = r.scanRecordingBeginDates(relations, start, isCoverOriginal, approach)
		oldest, err = r.scanReleaseDates(ctx, relations, oldest, isCoverOriginal, artistIDs)
	default:
		_, err = domain.ParseApproach(string(approach))
	}
	if err != nil {
		return start, false, err
	}

	return oldest, !oldest.Equal(start), nil
}
