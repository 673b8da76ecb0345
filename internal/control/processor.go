package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vietddude/oldestdate/internal/core/domain"
	"github.com/vietddude/oldestdate/internal/infra/storage"
	"github.com/vietddude/oldestdate/internal/resolution/metrics"
)

// Result classifies how a track was handled.
type Result string

const (
	ResultUpdated          Result = "updated"
	ResultSkippedNoID      Result = "skipped_no_id"
	ResultSkippedProcessed Result = "skipped_processed"
	ResultNotFound         Result = "not_found"
	ResultFailed           Result = "failed"
)

// DateResolver resolves the oldest date of a recording.
type DateResolver interface {
	OldestDate(ctx context.Context, recordingID string, fallback *domain.PartialDate) (domain.PartialDate, error)
}

// ProcessorConfig holds the per-track switches.
type ProcessorConfig struct {
	Force         bool // reprocess tracks that already carry a recording year
	OverwriteYear bool // also replace the track's own year
}

// Outcome is the result of processing one track.
type Outcome struct {
	TrackID string
	Result  Result
	Date    domain.PartialDate // set when Result is ResultUpdated
	Err     error
}

// Summary is the result of a batch run.
type Summary struct {
	RunID    string
	Counts   map[Result]int
	Outcomes []Outcome
}

// Processor resolves and stores recording dates for library tracks.
type Processor struct {
	resolver DateResolver
	tracks   storage.TrackRepository
	cfg      ProcessorConfig
	newRunID func() string
	log      *slog.Logger
}

// NewProcessor creates a new processor.
func NewProcessor(resolver DateResolver, tracks storage.TrackRepository, cfg ProcessorConfig) *Processor {
	return &Processor{
		resolver: resolver,
		tracks:   tracks,
		cfg:      cfg,
		newRunID: uuid.NewString,
		log:      slog.Default().With("component", "processor"),
	}
}

// Run processes the tracks with the given ids, or the whole library when
// ids is empty. Without Force a library run only lists tracks that have no
// recording date yet. A failing track does not stop the batch.
func (p *Processor) Run(ctx context.Context, ids []string) (*Summary, error) {
	filter := storage.TrackFilter{
		IDs:         ids,
		OnlyPending: len(ids) == 0 && !p.cfg.Force,
	}
	tracks, err := p.tracks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	if len(ids) > 0 && len(tracks) < len(ids) {
		p.log.Warn("Some requested tracks are not in the library",
			"requested", len(ids), "found", len(tracks))
	}

	summary := &Summary{
		RunID:  p.newRunID(),
		Counts: make(map[Result]int),
	}
	p.log.Info("Starting run", "run_id", summary.RunID, "tracks", len(tracks))

	for _, track := range tracks {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		outcome := p.ProcessTrack(ctx, track, summary.RunID)
		summary.Outcomes = append(summary.Outcomes, outcome)
		summary.Counts[outcome.Result]++
	}

	p.log.Info("Run finished", "run_id", summary.RunID,
		"updated", summary.Counts[ResultUpdated],
		"not_found", summary.Counts[ResultNotFound],
		"failed", summary.Counts[ResultFailed])
	return summary, nil
}

// ProcessTrack resolves and stores the recording date of one track.
func (p *Processor) ProcessTrack(ctx context.Context, track *domain.Track, runID string) Outcome {
	outcome := p.processTrack(ctx, track, runID)
	metrics.TracksProcessed.WithLabelValues(string(outcome.Result)).Inc()
	return outcome
}

func (p *Processor) processTrack(ctx context.Context, track *domain.Track, runID string) Outcome {
	out := Outcome{TrackID: track.ID}
	log := p.log.With("track", track.ID, "artist", track.Artist, "title", track.Title)

	if track.RecordingID == "" {
		log.Info("Skipping track with no recording id")
		out.Result = ResultSkippedNoID
		return out
	}

	if previous, ok := track.RecordingDate(); ok {
		if !p.cfg.Force {
			log.Info("Skipping already processed track", "recording_date", previous.String())
			out.Result = ResultSkippedProcessed
			return out
		}
		log.Debug("Reprocessing track", "recording_date", previous.String())
	}

	var fallback *domain.PartialDate
	if embedded, ok := track.EmbeddedDate(); ok {
		fallback = &embedded
	}

	log.Debug("Getting oldest date", "recording", track.RecordingID)
	date, err := p.resolver.OldestDate(ctx, track.RecordingID, fallback)
	if err != nil {
		out.Err = err
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrMissingRelations) {
			log.Error("No date found", "recording", track.RecordingID, "error", err)
			out.Result = ResultNotFound
			return out
		}
		log.Error("Failed to resolve oldest date", "recording", track.RecordingID, "error", err)
		out.Result = ResultFailed
		return out
	}

	if p.cfg.OverwriteYear {
		log.Warn("Overwriting year field", "from", track.Year, "to", date.Year())
	}

	if err := p.tracks.SaveRecordingDate(ctx, track.ID, date, p.cfg.OverwriteYear, runID); err != nil {
		log.Error("Failed to store recording date", "error", err)
		out.Result = ResultFailed
		out.Err = err
		return out
	}

	log.Info("Applying changes", "date", date.String())
	out.Result = ResultUpdated
	out.Date = date
	return out
}
