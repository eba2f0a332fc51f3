package viaf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"museumdash/internal/platform/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/viaf/AutoSuggest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Frida Kahlo", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"query":"Frida Kahlo","result":[
			{"term":"Kahlo, Frida, 1907-1954","displayForm":"Kahlo, Frida, 1907-1954","nametype":"personal","viafid":"66477215"},
			{"term":"Museo Frida Kahlo","nametype":"corporate","viafid":"1"}
		]}`))
	})
	mux.HandleFunc("/viaf/66477215/viaf.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"viafID":"66477215","nameType":"Personal","birthDate":"1907-07-06","deathDate":"1954-07-13",
			"fixed":{"gender":"a"},
			"nationalityOfEntity":{"data":[{"text":"mx"},{"text":"DE"}]}}`))
	})
	mux.HandleFunc("/viaf/2/viaf.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"viafID":"2","fixed":{"gender":"b"},"nationalityOfEntity":{"data":{"text":"fr"}}}`))
	})
	return httptest.NewServer(mux)
}

func TestSuggest_FiltersNonPersonal(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	c := NewClient(fetch.NewClient(fetch.Options{RPS: 1000}), srv.URL+"/viaf/")
	got, err := c.Suggest(context.Background(), "Frida Kahlo")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "66477215", got[0].ViafID)
}

func TestGetCluster(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	c := NewClient(fetch.NewClient(fetch.Options{RPS: 1000}), srv.URL+"/viaf")
	cl, err := c.GetCluster(context.Background(), "66477215")
	require.NoError(t, err)
	assert.Equal(t, "a", cl.Fixed.Gender)
	assert.Equal(t, "1907-07-06", cl.BirthDate)
	assert.Equal(t, []string{"MX", "DE"}, cl.Nationalities())

	single, err := c.GetCluster(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"FR"}, single.Nationalities())
}

func TestNationalities_Missing(t *testing.T) {
	assert.Nil(t, Cluster{}.Nationalities())
}
