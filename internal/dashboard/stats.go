package dashboard

import (
	"math"
	"sort"
	"time"

	"museumdash/internal/identity"
)

// RecentWindowYears is how far back "recent acquisitions" reach.
const RecentWindowYears = 5

type Summary struct {
	TotalArtworks       int     `json:"total_artworks"`
	FemalePct           float64 `json:"female_pct"`
	MalePct             float64 `json:"male_pct"`
	NonBinaryPct        float64 `json:"non_binary_pct"`
	UnknownGenderPct    float64 `json:"unknown_gender_pct"`
	UnderrepresentedPct float64 `json:"underrepresented_heritage_pct"`
	RecentAcquisitions  int     `json:"recent_acquisitions"`
	RecentFemalePct     float64 `json:"recent_female_pct"`
}

type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type YearGenderCount struct {
	Year   int    `json:"year"`
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

// Crosstab is heritage (rows) by gender (columns).
type Crosstab struct {
	Heritages []string `json:"heritages"`
	Genders   []string `json:"genders"`
	Counts    [][]int  `json:"counts"`
}

func (d *Dataset) Summary(f Filter, now time.Time) Summary {
	rows := d.Select(f)
	s := Summary{TotalArtworks: len(rows)}
	if len(rows) == 0 {
		return s
	}

	underrep := make(map[string]bool, len(Underrepresented))
	for _, h := range Underrepresented {
		underrep[h] = true
	}
	cutoff := now.AddDate(-RecentWindowYears, 0, 0)

	var female, male, nonBinary, unknown, under, recent, recentFemale int
	for _, r := range rows {
		switch r.Identity.Gender {
		case identity.GenderFemale:
			female++
		case identity.GenderMale:
			male++
		case identity.GenderNonBinary:
			nonBinary++
		default:
			unknown++
		}
		for _, h := range r.Identity.Heritage {
			if underrep[h] {
				under++
				break
			}
		}
		if acq := r.AcquisitionDate; !acq.IsZero() && !acq.Before(cutoff) {
			recent++
			if r.Identity.Gender == identity.GenderFemale {
				recentFemale++
			}
		}
	}

	n := len(rows)
	s.FemalePct = pct(female, n)
	s.MalePct = pct(male, n)
	s.NonBinaryPct = pct(nonBinary, n)
	s.UnknownGenderPct = pct(unknown, n)
	s.UnderrepresentedPct = pct(under, n)
	s.RecentAcquisitions = recent
	s.RecentFemalePct = pct(recentFemale, recent)
	return s
}

func (d *Dataset) GenderCounts(f Filter) []Count {
	counts := map[string]int{}
	for _, r := range d.Select(f) {
		counts[string(r.Identity.Gender)]++
	}
	return sortCounts(counts)
}

// HeritageCounts counts each tag once per record; untagged records count
// as HeritageUnknown.
func (d *Dataset) HeritageCounts(f Filter) []Count {
	counts := map[string]int{}
	for _, r := range d.Select(f) {
		for _, h := range heritageLabels(r) {
			counts[h]++
		}
	}
	return sortCounts(counts)
}

// AcquisitionsByYear groups dated records by acquisition year and gender.
func (d *Dataset) AcquisitionsByYear(f Filter) []YearGenderCount {
	type key struct {
		year   int
		gender string
	}
	counts := map[key]int{}
	for _, r := range d.Select(f) {
		if r.AcquisitionDate.IsZero() {
			continue
		}
		counts[key{r.AcquisitionDate.Year(), string(r.Identity.Gender)}]++
	}

	out := make([]YearGenderCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, YearGenderCount{Year: k.year, Gender: k.gender, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Gender < out[j].Gender
	})
	return out
}

func (d *Dataset) Intersection(f Filter) Crosstab {
	heritages := map[string]bool{}
	genders := map[string]bool{}
	cells := map[[2]string]int{}
	for _, r := range d.Select(f) {
		g := string(r.Identity.Gender)
		genders[g] = true
		for _, h := range heritageLabels(r) {
			heritages[h] = true
			cells[[2]string{h, g}]++
		}
	}

	ct := Crosstab{Heritages: sortedKeys(heritages), Genders: sortedKeys(genders)}
	ct.Counts = make([][]int, len(ct.Heritages))
	for i, h := range ct.Heritages {
		ct.Counts[i] = make([]int, len(ct.Genders))
		for j, g := range ct.Genders {
			ct.Counts[i][j] = cells[[2]string{h, g}]
		}
	}
	return ct
}

func sortCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, c := range m {
		out = append(out, Count{Label: label, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// pct is part/total as a percentage rounded to two decimals; 0 when total is 0.
func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
