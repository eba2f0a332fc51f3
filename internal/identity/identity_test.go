package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Mary   Cassatt ", "Mary Cassatt"},
		{"Cassatt, Mary", "Mary Cassatt"},
		{"Cassatt, Mary, 1844-1926", "Mary Cassatt"},
		{"Picasso, Pablo (1881-1973)", "Pablo Picasso"},
		{"Smith, John, Jr.", "John Smith"},
		{"Martin Luther King Jr.", "Martin Luther King"},
		{"John Smith III", "John Smith"},
		{"Kusama, Yayoi, b. 1929", "Yayoi Kusama"},
		{"Jean-Michel Basquiat", "Jean-Michel Basquiat"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.in))
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "georgia okeeffe", NormalizeKey("O'Keeffe, Georgia"))
	assert.Equal(t, "jean michel basquiat", NormalizeKey("Jean-Michel  Basquiat"))
	assert.Equal(t, NormalizeKey("Mary Cassatt"), NormalizeKey("CASSATT, MARY, 1844-1926"))
	assert.Equal(t, "", NormalizeKey(" , "))
}

func TestRegionLookups(t *testing.T) {
	r, ok := RegionForQID("http://www.wikidata.org/entity/Q30")
	assert.True(t, ok)
	assert.Equal(t, RegionNorthAmerican, r)

	r, ok = RegionForISO2("jp")
	assert.True(t, ok)
	assert.Equal(t, RegionEastAsian, r)

	r, ok = RegionForDemonym("Nigerian")
	assert.True(t, ok)
	assert.Equal(t, RegionAfrican, r)

	_, ok = RegionForQID("Q99999999")
	assert.False(t, ok)
}

func TestCountryTableHasNoConflictingKeys(t *testing.T) {
	qids := map[string]string{}
	isos := map[string]string{}
	for _, c := range countries {
		if prev, ok := qids[c.QID]; ok {
			t.Errorf("QID %s used by %s and %s", c.QID, prev, c.Demonym)
		}
		if prev, ok := isos[c.ISO2]; ok {
			t.Errorf("ISO2 %s used by %s and %s", c.ISO2, prev, c.Demonym)
		}
		qids[c.QID] = c.Demonym
		isos[c.ISO2] = c.Demonym
	}
}

func TestIndigenousHasNoCountry(t *testing.T) {
	for _, c := range countries {
		assert.NotEqual(t, RegionIndigenous, c.Region, c.Demonym)
	}
}

func TestGenderForQID(t *testing.T) {
	assert.Equal(t, GenderFemale, GenderForQID("http://www.wikidata.org/entity/Q6581072"))
	assert.Equal(t, GenderMale, GenderForQID("Q6581097"))
	assert.Equal(t, GenderNonBinary, GenderForQID("Q48270"))
	assert.Equal(t, GenderUnknown, GenderForQID("Q1"))
}

func TestParseGender(t *testing.T) {
	assert.Equal(t, GenderFemale, ParseGender("Female"))
	assert.Equal(t, GenderNonBinary, ParseGender("Non-Binary"))
	assert.Equal(t, GenderUnknown, ParseGender(""))
}

func TestUnknown(t *testing.T) {
	u := Unknown()
	assert.Equal(t, GenderUnknown, u.Gender)
	assert.NotNil(t, u.Heritage)
	assert.Empty(t, u.Heritage)
	assert.False(t, u.Resolved())
}

func TestNormalizeHeritage(t *testing.T) {
	assert.Equal(t, []string{"African", "European"}, NormalizeHeritage([]string{"European", " ", "African", "European"}))
	assert.Equal(t, []string{}, NormalizeHeritage(nil))
}
