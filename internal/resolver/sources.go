package resolver

import (
	"context"
	"encoding/json"

	"museumdash/internal/identity"
	"museumdash/internal/platform/sparql"
	"museumdash/internal/platform/ulan"
	"museumdash/internal/platform/viaf"
	"museumdash/internal/platform/wikidata"
)

const (
	SourceWikidata = "wikidata"
	SourceVIAF     = "viaf"
	SourceULAN     = "ulan"
)

type WikidataSearcher interface {
	SearchArtists(ctx context.Context, name string) ([]wikidata.Person, error)
}

type Wikidata struct {
	client        WikidataSearcher
	minConfidence float64
}

func NewWikidata(client WikidataSearcher, minConfidence float64) *Wikidata {
	return &Wikidata{client: client, minConfidence: minConfidence}
}

func (w *Wikidata) Name() string { return SourceWikidata }

func (w *Wikidata) Resolve(ctx context.Context, name string) (*Match, error) {
	people, err := w.client.SearchArtists(ctx, name)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(people))
	for i, p := range people {
		candidates[i] = Candidate{ID: p.ID, Label: p.Label}
	}
	idx, score, err := Best(name, candidates, w.minConfidence)
	if err != nil || idx < 0 {
		return nil, err
	}
	p := people[idx]

	id := identity.Identity{
		Name:        p.Label,
		Gender:      identity.GenderUnknown,
		ExternalIDs: identity.ExternalIDs{WikidataID: p.ID},
		BirthYear:   p.BirthYear,
		DeathYear:   p.DeathYear,
		Source:      SourceWikidata,
		Confidence:  score,
	}
	for _, g := range p.Genders {
		if gender := identity.GenderForQID(g); gender != identity.GenderUnknown {
			id.Gender = gender
			break
		}
	}
	var tags []string
	for _, c := range p.Citizenships {
		if region, ok := identity.RegionForQID(c); ok {
			tags = append(tags, region)
		}
	}
	id.Heritage = identity.NormalizeHeritage(tags)

	raw, _ := json.Marshal(p)
	return &Match{Identity: id, Raw: raw}, nil
}

type VIAFClient interface {
	Suggest(ctx context.Context, name string) ([]viaf.Suggestion, error)
	GetCluster(ctx context.Context, viafID string) (*viaf.Cluster, error)
}

type VIAF struct {
	client        VIAFClient
	minConfidence float64
}

func NewVIAF(client VIAFClient, minConfidence float64) *VIAF {
	return &VIAF{client: client, minConfidence: minConfidence}
}

func (v *VIAF) Name() string { return SourceVIAF }

func (v *VIAF) Resolve(ctx context.Context, name string) (*Match, error) {
	suggestions, err := v.client.Suggest(ctx, name)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(suggestions))
	for i, s := range suggestions {
		candidates[i] = Candidate{ID: s.ViafID, Label: s.Term}
	}
	idx, score, err := Best(name, candidates, v.minConfidence)
	if err != nil || idx < 0 {
		return nil, err
	}
	s := suggestions[idx]

	cluster, err := v.client.GetCluster(ctx, s.ViafID)
	if err != nil {
		return nil, err
	}

	id := identity.Identity{
		Name:   identity.CleanName(s.Term),
		Gender: identity.GenderUnknown,
		ExternalIDs: identity.ExternalIDs{
			WikidataID: s.Wikidata,
			VIAFID:     s.ViafID,
			ULANID:     s.ULAN,
		},
		BirthYear:  sparql.Year(cluster.BirthDate),
		DeathYear:  sparql.Year(cluster.DeathDate),
		Source:     SourceVIAF,
		Confidence: score,
	}
	switch cluster.Fixed.Gender {
	case "a":
		id.Gender = identity.GenderFemale
	case "b":
		id.Gender = identity.GenderMale
	}
	var tags []string
	for _, code := range cluster.Nationalities() {
		if region, ok := identity.RegionForISO2(code); ok {
			tags = append(tags, region)
		}
	}
	id.Heritage = identity.NormalizeHeritage(tags)

	raw, _ := json.Marshal(cluster)
	return &Match{Identity: id, Raw: raw}, nil
}

type ULANSearcher interface {
	SearchAgents(ctx context.Context, name string) ([]ulan.Agent, error)
}

type ULAN struct {
	client        ULANSearcher
	minConfidence float64
}

func NewULAN(client ULANSearcher, minConfidence float64) *ULAN {
	return &ULAN{client: client, minConfidence: minConfidence}
}

func (u *ULAN) Name() string { return SourceULAN }

func (u *ULAN) Resolve(ctx context.Context, name string) (*Match, error) {
	agents, err := u.client.SearchAgents(ctx, name)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(agents))
	for i, a := range agents {
		candidates[i] = Candidate{ID: a.ID, Label: a.Label}
	}
	idx, score, err := Best(name, candidates, u.minConfidence)
	if err != nil || idx < 0 {
		return nil, err
	}
	a := agents[idx]

	id := identity.Identity{
		Name:        identity.CleanName(a.Label),
		Gender:      identity.ParseGender(a.Gender),
		Heritage:    []string{},
		ExternalIDs: identity.ExternalIDs{ULANID: a.ID},
		BirthYear:   a.BirthYear,
		DeathYear:   a.DeathYear,
		Source:      SourceULAN,
		Confidence:  score,
	}
	if region, ok := identity.RegionForDemonym(a.Nationality); ok {
		id.Heritage = []string{region}
	}

	raw, _ := json.Marshal(a)
	return &Match{Identity: id, Raw: raw}, nil
}
