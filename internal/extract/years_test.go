package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYears(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"plus form", "3+ years building ML systems", 3},
		{"at least form", "at least 2 years in production ML", 2},
		{"of relevant experience", "5 years of relevant experience", 5},
		{"hebrew at least", "לפחות 4 שנות ניסיון בתחום", 4},
		{"hebrew plain", "3 שנים ניסיון בפייתון", 3},
		{
			"minimum across languages",
			"3+ years required. לפחות 5 שנות ניסיון",
			3,
		},
		{
			"minimum across mentions",
			"7+ years overall, 4+ years with Python",
			4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Years(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestYears_NoMention(t *testing.T) {
	assert.Nil(t, Years("We value curiosity and rigor."))
	assert.Nil(t, Years(""))
}
