package domain

import "slices"

// AttributeCover tags a relation whose recording is a cover version.
const AttributeCover = "cover"

// Recording is a single performance as returned by the bibliographic API,
// including its artists, releases and work relations.
type Recording struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	ArtistCredits []ArtistCredit `json:"artist_credits"`
	Releases      []Release      `json:"releases"`
	WorkRelations []WorkRelation `json:"work_relations"`
}

// ArtistCredit is one credited artist on a recording.
type ArtistCredit struct {
	ArtistID string `json:"artist_id"`
	Name     string `json:"name"`
}

// Release is a published edition containing a recording.
type Release struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// WorkRelation links a recording to the work it performs.
type WorkRelation struct {
	WorkID     string   `json:"work_id"`
	Type       string   `json:"type"`
	Attributes []string `json:"attributes"`
}

// HasAttribute reports whether the relation carries attr.
func (r WorkRelation) HasAttribute(attr string) bool {
	return slices.Contains(r.Attributes, attr)
}

// Work is an abstract composition and the recordings related to it.
type Work struct {
	ID                 string
	Title              string
	RecordingRelations []RecordingRelation
}

// RecordingRelation links a work to one of its recordings.
type RecordingRelation struct {
	RecordingID string
	Type        string
	Begin       string
	Attributes  []string
}

// HasAttribute reports whether the relation carries attr.
func (r RecordingRelation) HasAttribute(attr string) bool {
	return slices.Contains(r.Attributes, attr)
}

// IsCover reports whether the related recording is tagged as a cover.
func (r RecordingRelation) IsCover() bool {
	return r.HasAttribute(AttributeCover)
}

// BeginDate parses the relation's begin date. ok is false when the relation
// has no begin date at all.
func (r RecordingRelation) BeginDate() (date PartialDate, ok bool, err error) {
	if r.Begin == "" {
		return PartialDate{}, false, nil
	}
	date, err = ParseDate(r.Begin)
	if err != nil {
		return PartialDate{}, false, err
	}
	return date, true, nil
}

// ReleaseDate parses the release date. ok is false when the release is
// undated.
func (r Release) ReleaseDate() (date PartialDate, ok bool, err error) {
	if r.Date == "" {
		return PartialDate{}, false, nil
	}
	date, err = ParseDate(r.Date)
	if err != nil {
		return PartialDate{}, false, err
	}
	return date, true, nil
}
