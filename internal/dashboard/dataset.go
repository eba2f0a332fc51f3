package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"museumdash/internal/collection"
	"museumdash/internal/identity"
)

var ErrDatasetNotLoaded = errors.New("dataset not loaded")

// HeritageUnknown labels records that carry no heritage tag.
const HeritageUnknown = "unknown"

// All is the filter value that disables a dimension.
const All = "All"

// Underrepresented heritage regions counted by the summary KPI.
// Resolvers never emit RegionIndigenous because no country maps to it;
// the tag only arrives through curated enriched input or seeded data.
var Underrepresented = []string{
	identity.RegionAfrican,
	identity.RegionLatinAmerican,
	identity.RegionIndigenous,
	identity.RegionMiddleEastern,
}

// Dataset is an immutable snapshot of the enriched collection. It is
// safe for concurrent readers.
type Dataset struct {
	header   []string
	records  []collection.EnrichedRecord
	source   string
	loadedAt time.Time
}

func NewDataset(header []string, records []collection.EnrichedRecord, source string, loadedAt time.Time) *Dataset {
	recs := make([]collection.EnrichedRecord, len(records))
	copy(recs, records)
	for i := range recs {
		if recs[i].Identity.Gender == "" {
			recs[i].Identity.Gender = identity.GenderUnknown
		}
	}
	return &Dataset{
		header:   append([]string(nil), header...),
		records:  recs,
		source:   source,
		loadedAt: loadedAt,
	}
}

// LoadFile builds a dataset from an enriched collection file.
func LoadFile(path string, now time.Time) (*Dataset, error) {
	header, records, err := collection.ReadEnrichedFile(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return NewDataset(header, records, path, now), nil
}

func (d *Dataset) Len() int            { return len(d.records) }
func (d *Dataset) Source() string      { return d.source }
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }
func (d *Dataset) Header() []string    { return append([]string(nil), d.header...) }

// Select returns the records matching f, in dataset order.
func (d *Dataset) Select(f Filter) []collection.EnrichedRecord {
	m := f.matcher()
	out := make([]collection.EnrichedRecord, 0, len(d.records))
	for _, r := range d.records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Options lists the values each filter dimension can take.
type Options struct {
	Departments []string   `json:"departments"`
	Genders     []string   `json:"genders"`
	Heritages   []string   `json:"heritages"`
	MinDate     *time.Time `json:"min_date,omitempty"`
	MaxDate     *time.Time `json:"max_date,omitempty"`
}

func (d *Dataset) FilterOptions() Options {
	departments := map[string]bool{}
	genders := map[string]bool{}
	heritages := map[string]bool{}
	var minDate, maxDate time.Time

	for _, r := range d.records {
		if r.Department != "" {
			departments[r.Department] = true
		}
		genders[string(r.Identity.Gender)] = true
		for _, h := range heritageLabels(r) {
			heritages[h] = true
		}
		if dt := r.AcquisitionDate; !dt.IsZero() {
			if minDate.IsZero() || dt.Before(minDate) {
				minDate = dt
			}
			if maxDate.IsZero() || dt.After(maxDate) {
				maxDate = dt
			}
		}
	}

	opts := Options{
		Departments: sortedKeys(departments),
		Genders:     sortedKeys(genders),
		Heritages:   sortedKeys(heritages),
	}
	if !minDate.IsZero() {
		opts.MinDate = &minDate
		opts.MaxDate = &maxDate
	}
	return opts
}

// Search matches q case-insensitively against artist name and title and
// returns one page ordered by acquisition date, newest first. Records
// without a date sort last.
func (d *Dataset) Search(f Filter, q string, page, pageSize int) ([]collection.EnrichedRecord, int) {
	q = strings.ToLower(strings.TrimSpace(q))
	rows := d.Select(f)
	if q != "" {
		kept := rows[:0]
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.ArtistName), q) || strings.Contains(strings.ToLower(r.Title), q) {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].AcquisitionDate, rows[j].AcquisitionDate
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.After(b)
	})

	total := len(rows)
	start := (page - 1) * pageSize
	if start >= total || start < 0 {
		return []collection.EnrichedRecord{}, total
	}
	end := min(start+pageSize, total)
	return rows[start:end], total
}

func heritageLabels(r collection.EnrichedRecord) []string {
	if len(r.Identity.Heritage) == 0 {
		return []string{HeritageUnknown}
	}
	return r.Identity.Heritage
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
