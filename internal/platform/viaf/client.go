package viaf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"museumdash/internal/platform/fetch"
)

const DefaultEndpoint = "https://viaf.org/viaf"

type Client struct {
	fetch    *fetch.Client
	endpoint string
}

func NewClient(f *fetch.Client, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{fetch: f, endpoint: strings.TrimRight(endpoint, "/")}
}

// Suggestion matches one entry of AutoSuggest's result array.
type Suggestion struct {
	Term        string `json:"term"`
	DisplayForm string `json:"displayForm"`
	NameType    string `json:"nametype"`
	ViafID      string `json:"viafid"`
	Wikidata    string `json:"wkp,omitempty"`
	ULAN        string `json:"jpg,omitempty"`
}

type suggestResponse struct {
	Query  string       `json:"query"`
	Result []Suggestion `json:"result"`
}

// Cluster is the subset of a VIAF cluster record we read.
type Cluster struct {
	ViafID    string `json:"viafID"`
	NameType  string `json:"nameType"`
	BirthDate string `json:"birthDate"`
	DeathDate string `json:"deathDate"`
	Fixed     struct {
		Gender string `json:"gender"`
	} `json:"fixed"`
	NationalityOfEntity json.RawMessage `json:"nationalityOfEntity"`
}

// Nationalities returns the country codes attached to the cluster.
// VIAF emits "data" either as one object or as an array of objects.
func (c Cluster) Nationalities() []string {
	if len(c.NationalityOfEntity) == 0 {
		return nil
	}
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(c.NationalityOfEntity, &wrapper); err != nil {
		return nil
	}

	type item struct {
		Text string `json:"text"`
	}
	var items []item
	data := bytes.TrimSpace(wrapper.Data)
	switch {
	case len(data) == 0:
		return nil
	case data[0] == '[':
		_ = json.Unmarshal(data, &items)
	default:
		var one item
		if err := json.Unmarshal(data, &one); err == nil {
			items = []item{one}
		}
	}

	var out []string
	for _, it := range items {
		if code := strings.ToUpper(strings.TrimSpace(it.Text)); code != "" {
			out = append(out, code)
		}
	}
	return out
}

// Suggest returns personal-name suggestions for name.
func (c *Client) Suggest(ctx context.Context, name string) ([]Suggestion, error) {
	params := url.Values{}
	params.Set("query", name)

	var res suggestResponse
	if err := c.fetch.GetJSON(ctx, c.endpoint+"/AutoSuggest", params, "application/json", &res); err != nil {
		return nil, fmt.Errorf("viaf suggest: %w", err)
	}

	out := make([]Suggestion, 0, len(res.Result))
	for _, s := range res.Result {
		if s.NameType != "personal" || s.ViafID == "" {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Client) GetCluster(ctx context.Context, viafID string) (*Cluster, error) {
	u := fmt.Sprintf("%s/%s/viaf.json", c.endpoint, url.PathEscape(viafID))

	var res Cluster
	if err := c.fetch.GetJSON(ctx, u, nil, "application/json", &res); err != nil {
		return nil, fmt.Errorf("viaf cluster %s: %w", viafID, err)
	}
	if res.ViafID == "" {
		res.ViafID = viafID
	}
	return &res, nil
}
