package wikidata

import (
	"context"
	"fmt"
	"strings"

	"museumdash/internal/identity"
	"museumdash/internal/platform/fetch"
	"museumdash/internal/platform/sparql"
)

const DefaultEndpoint = "https://query.wikidata.org/sparql"

// Occupations that qualify a person as a collection artist:
// painter, sculptor, photographer, artist, draughtsperson.
var artistOccupations = []string{"Q1028181", "Q1281618", "Q33231", "Q483501", "Q15296811"}

type Client struct {
	fetch    *fetch.Client
	endpoint string
}

func NewClient(f *fetch.Client, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{fetch: f, endpoint: endpoint}
}

// Person is one Wikidata human, with every distinct gender and citizenship
// value folded in from the row-per-combination SPARQL result.
type Person struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Genders      []string `json:"genders"`
	Citizenships []string `json:"citizenships"`
	BirthYear    int      `json:"birth_year,omitempty"`
	DeathYear    int      `json:"death_year,omitempty"`
}

func BuildQuery(name string) string {
	occupations := make([]string, len(artistOccupations))
	for i, q := range artistOccupations {
		occupations[i] = "wd:" + q
	}

	return fmt.Sprintf(`SELECT DISTINCT ?person ?personLabel ?gender ?nationality ?birthDate ?deathDate WHERE {
  ?person wdt:P31 wd:Q5 ;
          rdfs:label %s@en ;
          wdt:P106 ?occupation .
  VALUES ?occupation { %s }
  OPTIONAL { ?person wdt:P21 ?gender . }
  OPTIONAL { ?person wdt:P27 ?nationality . }
  OPTIONAL { ?person wdt:P569 ?birthDate . }
  OPTIONAL { ?person wdt:P570 ?deathDate . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en" . }
}
LIMIT 100`, sparql.Literal(name), strings.Join(occupations, " "))
}

// SearchArtists looks up humans whose English label is exactly name.
func (c *Client) SearchArtists(ctx context.Context, name string) ([]Person, error) {
	res, err := sparql.Query(ctx, c.fetch, c.endpoint, BuildQuery(name))
	if err != nil {
		return nil, fmt.Errorf("wikidata query: %w", err)
	}
	return groupPersons(res.Results.Bindings), nil
}

func groupPersons(bindings []sparql.Binding) []Person {
	var order []string
	people := make(map[string]*Person)

	for _, b := range bindings {
		id := identity.LastPathSegment(b.Get("person"))
		if id == "" {
			continue
		}
		p, ok := people[id]
		if !ok {
			p = &Person{ID: id, Label: b.Get("personLabel")}
			people[id] = p
			order = append(order, id)
		}
		if g := identity.LastPathSegment(b.Get("gender")); g != "" {
			p.Genders = appendUnique(p.Genders, g)
		}
		if n := identity.LastPathSegment(b.Get("nationality")); n != "" {
			p.Citizenships = appendUnique(p.Citizenships, n)
		}
		if y := sparql.Year(b.Get("birthDate")); y != 0 && p.BirthYear == 0 {
			p.BirthYear = y
		}
		if y := sparql.Year(b.Get("deathDate")); y != 0 && p.DeathYear == 0 {
			p.DeathYear = y
		}
	}

	out := make([]Person, 0, len(order))
	for _, id := range order {
		out = append(out, *people[id])
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
