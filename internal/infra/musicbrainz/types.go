package musicbrainz

import "github.com/vietddude/oldestdate/internal/core/domain"

// Wire types of the ws/2 JSON API. Only the fields the resolver reads are
// decoded.

type recordingResponse struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	ArtistCredit []artistCredit   `json:"artist-credit"`
	Releases     []releaseSummary `json:"releases"`
	Relations    []relation       `json:"relations"`
}

type workResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Relations []relation `json:"relations"`
}

type artistCredit struct {
	Name   string `json:"name"`
	Artist struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artist"`
}

type releaseSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

type entityRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type relation struct {
	Type       string     `json:"type"`
	TargetType string     `json:"target-type"`
	Attributes []string   `json:"attributes"`
	Begin      string     `json:"begin"`
	Work       *entityRef `json:"work,omitempty"`
	Recording  *entityRef `json:"recording,omitempty"`
}

func (r *recordingResponse) toDomain() *domain.Recording {
	rec := &domain.Recording{
		ID:    r.ID,
		Title: r.Title,
	}

	for _, credit := range r.ArtistCredit {
		name := credit.Artist.Name
		if name == "" {
			name = credit.Name
		}
		rec.ArtistCredits = append(rec.ArtistCredits, domain.ArtistCredit{
			ArtistID: credit.Artist.ID,
			Name:     name,
		})
	}

	for _, rel := range r.Releases {
		rec.Releases = append(rec.Releases, domain.Release{
			ID:     rel.ID,
			Title:  rel.Title,
			Date:   rel.Date,
			Status: rel.Status,
		})
	}

	for _, rel := range r.Relations {
		if rel.TargetType != "work" || rel.Work == nil {
			continue
		}
		rec.WorkRelations = append(rec.WorkRelations, domain.WorkRelation{
			WorkID:     rel.Work.ID,
			Type:       rel.Type,
			Attributes: rel.Attributes,
		})
	}

	return rec
}

func (w *workResponse) toDomain() *domain.Work {
	work := &domain.Work{
		ID:    w.ID,
		Title: w.Title,
	}

	for _, rel := range w.Relations {
		if rel.TargetType != "recording" || rel.Recording == nil {
			continue
		}
		work.RecordingRelations = append(work.RecordingRelations, domain.RecordingRelation{
			RecordingID: rel.Recording.ID,
			Type:        rel.Type,
			Begin:       rel.Begin,
			Attributes:  rel.Attributes,
		})
	}

	return work
}
