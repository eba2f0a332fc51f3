package resolver

import "museumdash/internal/identity"

// Candidate is one entity a source returned for a name query.
type Candidate struct {
	ID    string
	Label string
}

// Best picks the candidate whose normalized label is most similar to query.
// It returns -1 when nothing reaches minConfidence and ErrAmbiguous when two
// different IDs share the top score.
func Best(query string, candidates []Candidate, minConfidence float64) (int, float64, error) {
	q := identity.NormalizeKey(query)
	if q == "" {
		return -1, 0, nil
	}

	best, bestScore := -1, 0.0
	ambiguous := false
	for i, c := range candidates {
		score := JaroWinkler(q, identity.NormalizeKey(c.Label))
		if score < minConfidence {
			continue
		}
		switch {
		case best < 0 || score > bestScore:
			best, bestScore, ambiguous = i, score, false
		case score == bestScore && c.ID != candidates[best].ID:
			ambiguous = true
		}
	}

	if best < 0 {
		return -1, 0, nil
	}
	if ambiguous {
		return -1, bestScore, ErrAmbiguous
	}
	return best, bestScore, nil
}

// JaroWinkler returns a similarity between 0 (nothing shared) and 1 (equal).
// Strings are compared rune by rune.
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	jaro := jaro(ra, rb)

	prefix := 0
	for i := 0; i < len(ra) && i < len(rb) && i < 4; i++ {
		if ra[i] != rb[i] {
			break
		}
		prefix++
	}
	return jaro + float64(prefix)*0.1*(1.0-jaro)
}

func Jaro(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return jaro([]rune(a), []rune(b))
}

func jaro(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	matchDist := max(len(a), len(b))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatches := make([]bool, len(a))
	bMatches := make([]bool, len(b))
	matches := 0
	for i := range a {
		start := max(0, i-matchDist)
		end := min(len(b), i+matchDist+1)
		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	k := 0
	for i := range a {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}
