package resolution

import "github.com/vietddude/oldestdate/internal/core/domain"

// WorkID returns the id of the first work related to rec.
func WorkID(rec *domain.Recording) (string, bool) {
	for _, rel := range rec.WorkRelations {
		if rel.WorkID != "" {
			return rel.WorkID, true
		}
	}
	return "", false
}

// ArtistIDs returns the set of artists credited on rec.
func ArtistIDs(rec *domain.Recording) map[string]struct{} {
	ids := make(map[string]struct{}, len(rec.ArtistCredits))
	for _, credit := range rec.ArtistCredits {
		if credit.ArtistID != "" {
			ids[credit.ArtistID] = struct{}{}
		}
	}
	return ids
}

// ContainsArtist reports whether any artist credited on rec is in ids.
func ContainsArtist(rec *domain.Recording, ids map[string]struct{}) bool {
	for _, credit := range rec.ArtistCredits {
		if _, ok := ids[credit.ArtistID]; ok {
			return true
		}
	}
	return false
}

// IsCover reports whether rec is related to its work as a cover.
func IsCover(rec *domain.Recording) bool {
	for _, rel := range rec.WorkRelations {
		if rel.HasAttribute(domain.AttributeCover) {
			return true
		}
	}
	return false
}
