package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"country english", "Data Scientist - Acme - Tel Aviv District, Israel", true},
		{"country hebrew", "מדען נתונים - ישראל", true},
		{"city only english", "Hybrid role in Haifa", true},
		{"city only hebrew", "משרה בבאר שבע", true},
		{"remote qualifier", "Remote Israel position", true},
		{"case insensitive", "data scientist ISRAEL", true},
		{"offshore", "Data Scientist - Berlin, Germany", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.text))
		})
	}
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, MatchesAny("", "nothing here", "Ramat Gan"))
	assert.False(t, MatchesAny("", "London", "Paris"))
}

func TestLocationFromTexts(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  string
	}{
		{
			"city country block",
			[]string{"Data Scientist at Acme - Tel Aviv, Israel"},
			"Tel Aviv, Israel",
		},
		{
			"city region country block",
			[]string{"Herzliya, Tel Aviv District, Israel (Hybrid)"},
			"Herzliya, Tel Aviv District, Israel",
		},
		{
			"bare city gains country suffix",
			[]string{"Data Scientist for our Haifa office; Israel-based team"},
			"Haifa, Israel",
		},
		{
			"bare city alone",
			[]string{"Looking for a data scientist in Rehovot"},
			"Rehovot",
		},
		{
			"second text wins when first empty",
			[]string{"", "Jerusalem, Israel"},
			"Jerusalem, Israel",
		},
		{
			"hebrew city keeps hebrew suffix",
			[]string{"דרושים: מדען נתונים חיפה, ישראל"},
			"חיפה, ישראל",
		},
		{
			"suffix follows city script not surrounding text",
			[]string{"Israel-based team; join our תל אביב hub"},
			"תל אביב, ישראל",
		},
		{"no signal", []string{"Senior Data Scientist"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LocationFromTexts(tt.texts...))
		})
	}
}

func TestCityFromQuery(t *testing.T) {
	assert.Equal(t, "Tel Aviv", CityFromQuery(`site:linkedin.com/jobs/view "Data Scientist" "Tel Aviv"`))
	assert.Equal(t, "Israel", CityFromQuery(`site:linkedin.com/jobs/view "Data Scientist" Israel`))
	assert.Equal(t, "", CityFromQuery(`site:linkedin.com/jobs/view "Data Scientist"`))
}

func TestShortCity(t *testing.T) {
	assert.Equal(t, "Tel Aviv", ShortCity("Tel Aviv, Israel"))
	assert.Equal(t, "Herzliya", ShortCity("Herzliya, Tel Aviv District, Israel"))
	assert.Equal(t, "Ramat Gan", ShortCity(" Ramat Gan, Israel • Hybrid"))
	assert.Equal(t, "", ShortCity(""))
}

func TestCityTerms(t *testing.T) {
	terms := CityTerms()
	assert.NotEmpty(t, terms)
	for _, term := range terms {
		assert.True(t, strings.HasPrefix(term, `"`) && strings.HasSuffix(term, `"`), term)
		for _, r := range term {
			assert.Less(t, r, rune(0x80), "city terms are the ASCII names only: %s", term)
		}
	}
}
