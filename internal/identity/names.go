package identity

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// "1844-1926", "b. 1950", "1950-", "active 1880-1900" at the end of authority labels
	lifeDatesRe = regexp.MustCompile(`(?i)[,\s]*\(?\s*(active|fl\.|b\.|d\.|born|died)?\s*\d{3,4}\??\s*(-\s*(\d{3,4}\??)?)?\s*\)?\.?$`)
	suffixes    = map[string]bool{"jr": true, "jr.": true, "sr": true, "sr.": true, "ii": true, "iii": true, "iv": true}
)

// CleanName standardises a catalog or authority name for lookup:
// whitespace is collapsed, "Last, First" is flipped, generational
// suffixes and trailing life dates are dropped.
func CleanName(name string) string {
	name = whitespaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
	if name == "" {
		return ""
	}
	name = strings.TrimSpace(lifeDatesRe.ReplaceAllString(name, ""))

	parts := strings.Split(name, ",")
	kept := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || suffixes[strings.ToLower(p)] {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 2 {
		name = kept[1] + " " + kept[0]
	} else {
		name = strings.Join(kept, ", ")
	}

	words := strings.Fields(name)
	out := words[:0]
	for i, w := range words {
		if i > 0 && suffixes[strings.ToLower(w)] {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// NormalizeKey is the comparison form of a name: cleaned, lowercased,
// punctuation removed.
func NormalizeKey(name string) string {
	name = strings.ToLower(CleanName(name))

	var b strings.Builder
	prevSpace := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-':
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
