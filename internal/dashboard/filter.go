package dashboard

import (
	"strings"
	"time"

	"museumdash/internal/collection"
	"museumdash/internal/identity"
)

// Filter narrows the dataset. Zero dates and empty lists (or lists
// containing All) leave that dimension unfiltered. From and To are
// inclusive calendar dates.
type Filter struct {
	From        time.Time
	To          time.Time
	Departments []string
	Genders     []string
	Heritages   []string
}

type matcher struct {
	from, to    time.Time
	departments map[string]bool
	genders     map[identity.Gender]bool
	heritages   map[string]bool
}

func (f Filter) matcher() matcher {
	m := matcher{
		departments: set(f.Departments, func(s string) string { return s }),
		heritages:   set(f.Heritages, func(s string) string { return s }),
	}
	if g := set(f.Genders, func(s string) string { return string(identity.ParseGender(s)) }); g != nil {
		m.genders = make(map[identity.Gender]bool, len(g))
		for k := range g {
			m.genders[identity.Gender(k)] = true
		}
	}
	if !f.From.IsZero() {
		m.from = truncateDay(f.From)
	}
	if !f.To.IsZero() {
		m.to = truncateDay(f.To).AddDate(0, 0, 1)
	}
	return m
}

func (m matcher) match(r collection.EnrichedRecord) bool {
	if !m.from.IsZero() || !m.to.IsZero() {
		d := r.AcquisitionDate
		if d.IsZero() {
			return false
		}
		if !m.from.IsZero() && d.Before(m.from) {
			return false
		}
		if !m.to.IsZero() && !d.Before(m.to) {
			return false
		}
	}
	if m.departments != nil && !m.departments[r.Department] {
		return false
	}
	if m.genders != nil && !m.genders[r.Identity.Gender] {
		return false
	}
	if m.heritages != nil {
		ok := false
		for _, h := range heritageLabels(r) {
			if m.heritages[h] {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// set returns nil when values is empty or selects All.
func set(values []string, norm func(string) string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.EqualFold(v, All) {
			return nil
		}
		out[norm(v)] = true
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
