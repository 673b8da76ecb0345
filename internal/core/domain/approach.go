package domain

import "fmt"

// Approach selects which data sources are scanned for dates.
type Approach string

const (
	ApproachRecordings Approach = "recordings" // relation begin dates only
	ApproachReleases   Approach = "releases"   // release dates only
	ApproachHybrid     Approach = "hybrid"     // releases only when begin dates find nothing
	ApproachBoth       Approach = "both"       // begin dates, then releases seeded with the result
)

// ParseApproach validates an approach name.
func ParseApproach(s string) (Approach, error) {
	switch a := Approach(s); a {
	case ApproachRecordings, ApproachReleases, ApproachHybrid, ApproachBoth:
		return a, nil
	default:
		return "", fmt.Errorf("unknown approach %q", s)
	}
}
