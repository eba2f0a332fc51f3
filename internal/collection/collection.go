package collection

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"museumdash/internal/identity"
)

var ErrMissingArtistColumn = errors.New("collection: artist_name column missing from header")

const (
	ColArtworkID       = "artwork_id"
	ColTitle           = "title"
	ColArtistName      = "artist_name"
	ColYearCreated     = "year_created"
	ColAcquisitionDate = "acquisition_date"
	ColDepartment      = "department"
	ColMedium          = "medium"

	ColGender          = "gender"
	ColHeritage        = "heritage"
	ColBirthYear       = "birth_year"
	ColDeathYear       = "death_year"
	ColWikidataID      = "wikidata_id"
	ColVIAFID          = "viaf_id"
	ColULANID          = "ulan_id"
	ColMatchSource     = "match_source"
	ColMatchConfidence = "match_confidence"
)

// DefaultColumns is the header written for records that were not read from a file.
var DefaultColumns = []string{
	ColArtworkID, ColTitle, ColArtistName, ColYearCreated,
	ColAcquisitionDate, ColDepartment, ColMedium,
}

// EnrichmentColumns are appended to the input header on output.
var EnrichmentColumns = []string{
	ColGender, ColHeritage, ColBirthYear, ColDeathYear,
	ColWikidataID, ColVIAFID, ColULANID, ColMatchSource, ColMatchConfidence,
}

const heritageSep = ";"

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// Field is an input column the record model has no slot for.
type Field struct {
	Name  string
	Value string
}

// Record is one artwork row. Records are treated as immutable once read.
type Record struct {
	Line            int       `json:"-"`
	ArtworkID       string    `json:"artwork_id"`
	Title           string    `json:"title"`
	ArtistName      string    `json:"artist_name"`
	YearCreated     int       `json:"year_created,omitempty"`
	AcquisitionDate time.Time `json:"acquisition_date"`
	Department      string    `json:"department"`
	Medium          string    `json:"medium"`
	Extra           []Field   `json:"-"`

	// raw cells as read, aligned with the source header
	raw []string
}

type EnrichedRecord struct {
	Record
	Identity identity.Identity `json:"identity"`
}

// Table is a parsed collection file.
type Table struct {
	Header   []string
	Records  []Record
	Skipped  []RowError
	Warnings []RowError
}

// RowError describes a problem with one input row.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}

func (e RowError) Unwrap() error { return e.Err }

// ParseDate accepts a calendar date, RFC 3339, or "YYYY-MM-DD hh:mm:ss".
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func (r Record) value(col string) string {
	switch col {
	case ColArtworkID:
		return r.ArtworkID
	case ColTitle:
		return r.Title
	case ColArtistName:
		return r.ArtistName
	case ColYearCreated:
		return formatYear(r.YearCreated)
	case ColAcquisitionDate:
		if r.AcquisitionDate.IsZero() {
			return ""
		}
		return r.AcquisitionDate.Format("2006-01-02")
	case ColDepartment:
		return r.Department
	case ColMedium:
		return r.Medium
	}
	for _, f := range r.Extra {
		if f.Name == col {
			return f.Value
		}
	}
	return ""
}

func identityValue(id identity.Identity, col string) (string, bool) {
	switch col {
	case ColGender:
		g := id.Gender
		if g == "" {
			g = identity.GenderUnknown
		}
		return string(g), true
	case ColHeritage:
		return strings.Join(id.Heritage, heritageSep), true
	case ColBirthYear:
		return formatYear(id.BirthYear), true
	case ColDeathYear:
		return formatYear(id.DeathYear), true
	case ColWikidataID:
		return id.ExternalIDs.WikidataID, true
	case ColVIAFID:
		return id.ExternalIDs.VIAFID, true
	case ColULANID:
		return id.ExternalIDs.ULANID, true
	case ColMatchSource:
		return id.Source, true
	case ColMatchConfidence:
		if !id.Resolved() {
			return "", true
		}
		return strconv.FormatFloat(id.Confidence, 'f', 3, 64), true
	}
	return "", false
}

func formatYear(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}
