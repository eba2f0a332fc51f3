package ulan

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"museumdash/internal/identity"
	"museumdash/internal/platform/fetch"
	"museumdash/internal/platform/sparql"
)

const DefaultEndpoint = "http://vocab.getty.edu/sparql.json"

// AAT concepts used for biography gender.
const (
	aatFemale = "300189557"
	aatMale   = "300189559"
)

var parenRe = regexp.MustCompile(`\s*\(.*?\)`)

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

type Agent struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`
	BirthYear   int    `json:"birth_year,omitempty"`
	DeathYear   int    `json:"death_year,omitempty"`
}

func BuildQuery(name string) string {
	return fmt.Sprintf(`SELECT ?subject ?name ?gender ?nationality ?birth ?death WHERE {
  ?subject a gvp:PersonConcept ;
           luc:term %s ;
           gvp:prefLabelGVP/xl:literalForm ?name ;
           foaf:focus/gvp:biographyPreferred ?bio .
  OPTIONAL { ?bio schema:gender ?gender . }
  OPTIONAL { ?bio gvp:estStart ?birth . }
  OPTIONAL { ?bio gvp:estEnd ?death . }
  OPTIONAL { ?subject foaf:focus/gvp:nationalityPreferred/gvp:prefLabelGVP/xl:literalForm ?nationality . }
}
LIMIT 25`, sparql.Literal(name))
}

// SearchAgents runs a full-text term search over ULAN person records.
func (c *Client) SearchAgents(ctx context.Context, name string) ([]Agent, error) {
	res, err := sparql.Query(ctx, c.fetch, c.endpoint, BuildQuery(name))
	if err != nil {
		return nil, fmt.Errorf("ulan query: %w", err)
	}
	return groupAgents(res.Results.Bindings), nil
}

func groupAgents(bindings []sparql.Binding) []Agent {
	var order []string
	agents := make(map[string]*Agent)

	for _, b := range bindings {
		id := identity.LastPathSegment(b.Get("subject"))
		if id == "" {
			continue
		}
		a, ok := agents[id]
		if !ok {
			a = &Agent{ID: id, Label: b.Get("name")}
			agents[id] = a
			order = append(order, id)
		}
		if a.Gender == "" {
			a.Gender = Gender(b.Get("gender"))
		}
		if a.Nationality == "" {
			a.Nationality = Demonym(b.Get("nationality"))
		}
		if a.BirthYear == 0 {
			a.BirthYear = sparql.Year(b.Get("birth"))
		}
		if a.DeathYear == 0 {
			a.DeathYear = sparql.Year(b.Get("death"))
		}
	}

	out := make([]Agent, 0, len(order))
	for _, id := range order {
		out = append(out, *agents[id])
	}
	return out
}

// Gender maps an AAT gender concept URI to "female", "male" or "".
func Gender(uri string) string {
	switch identity.LastPathSegment(uri) {
	case aatFemale:
		return "female"
	case aatMale:
		return "male"
	}
	return ""
}

// Demonym strips the qualifier from labels like "American (North American)".
func Demonym(label string) string {
	return strings.TrimSpace(parenRe.ReplaceAllString(label, ""))
}
