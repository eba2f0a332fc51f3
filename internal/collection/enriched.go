package collection

import (
	"strconv"
	"strings"

	"museumdash/internal/identity"
)

// ReadEnrichedFile loads a file produced by Write, rebuilding each row's
// identity from the enrichment columns. Rows from a plain collection file
// come back with identity.Unknown(). The header is returned for re-export.
func ReadEnrichedFile(path string) ([]string, []EnrichedRecord, error) {
	t, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	out := make([]EnrichedRecord, len(t.Records))
	for i, rec := range t.Records {
		out[i] = EnrichedRecord{Record: rec, Identity: identityFromFields(rec.Extra)}
	}
	return t.Header, out, nil
}

func identityFromFields(fields []Field) identity.Identity {
	id := identity.Unknown()
	for _, f := range fields {
		v := strings.TrimSpace(f.Value)
		switch normalizeColumn(f.Name) {
		case ColGender:
			id.Gender = identity.ParseGender(v)
		case ColHeritage:
			if v != "" {
				id.Heritage = identity.NormalizeHeritage(strings.Split(v, heritageSep))
			}
		case ColBirthYear:
			id.BirthYear, _ = strconv.Atoi(v)
		case ColDeathYear:
			id.DeathYear, _ = strconv.Atoi(v)
		case ColWikidataID:
			id.ExternalIDs.WikidataID = v
		case ColVIAFID:
			id.ExternalIDs.VIAFID = v
		case ColULANID:
			id.ExternalIDs.ULANID = v
		case ColMatchSource:
			id.Source = v
		case ColMatchConfidence:
			id.Confidence, _ = strconv.ParseFloat(v, 64)
		}
	}
	return id
}
