package identity

import (
	"sort"
	"strings"
	"time"
)

type Gender string

const (
	GenderFemale    Gender = "female"
	GenderMale      Gender = "male"
	GenderNonBinary Gender = "non-binary"
	GenderUnknown   Gender = "unknown"
)

// ParseGender maps free text onto the enumeration; anything unrecognised is unknown.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "f", "woman":
		return GenderFemale
	case "male", "m", "man":
		return GenderMale
	case "non-binary", "nonbinary", "non binary":
		return GenderNonBinary
	default:
		return GenderUnknown
	}
}

type ExternalIDs struct {
	WikidataID string `json:"wikidata_id,omitempty"`
	VIAFID     string `json:"viaf_id,omitempty"`
	ULANID     string `json:"ulan_id,omitempty"`
}

// Identity is the resolved demographic record for one artist name.
type Identity struct {
	Name        string      `json:"name"`
	Gender      Gender      `json:"gender"`
	Heritage    []string    `json:"heritage"`
	ExternalIDs ExternalIDs `json:"external_ids"`
	BirthYear   int         `json:"birth_year,omitempty"`
	DeathYear   int         `json:"death_year,omitempty"`
	Source      string      `json:"source,omitempty"`
	Confidence  float64     `json:"confidence"`
	ResolvedAt  time.Time   `json:"resolved_at,omitempty"`
}

// Unknown is the placeholder for unresolved artists.
func Unknown() Identity {
	return Identity{Gender: GenderUnknown, Heritage: []string{}}
}

func (i Identity) Resolved() bool {
	return i.Source != ""
}

// NormalizeHeritage sorts and de-duplicates tags, dropping blanks.
func NormalizeHeritage(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
