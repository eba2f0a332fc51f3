// Package sparql holds the pieces shared by SPARQL endpoint clients:
// the application/sparql-results+json envelope and literal escaping.
package sparql

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"museumdash/internal/platform/fetch"
)

const ResultsJSON = "application/sparql-results+json"

type Value struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

type Binding map[string]Value

// Get returns the bound value or "" when the variable is unbound.
func (b Binding) Get(name string) string {
	return b[name].Value
}

type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Query runs a SELECT against endpoint and decodes the result set.
func Query(ctx context.Context, c *fetch.Client, endpoint, query string) (*Results, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")

	var res Results
	if err := c.GetJSON(ctx, endpoint, params, ResultsJSON, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Literal quotes s as a SPARQL string literal.
func Literal(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

// Year extracts the year from an xsd:dateTime, xsd:gYear or plain year
// value. Returns 0 when nothing parses.
func Year(v string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	neg := strings.HasPrefix(v, "-")
	v = strings.TrimPrefix(strings.TrimPrefix(v, "-"), "+")
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	y, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	if neg {
		return -y
	}
	return y
}
