package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityForName_ExactMatches(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"indeed_api", 100},
		{"indeed_rss", 90},
		{"adzuna_api", 80},
		{"jooble_api", 70},
		{"rss", 60},
		{"scraper", 50},
		{"partner", 40},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PriorityForName(c.name), c.name)
	}
}

func TestPriorityForName_SubstringHeuristics(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"Indeed API (backup)", 100},
		{"indeed feed", 90},
		{"Adzuna UK", 80},
		{"jooble-eu", 70},
		{"partner rss feed", 60},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PriorityForName(c.name), c.name)
	}
}

func TestPriorityForName_Default(t *testing.T) {
	assert.Equal(t, DefaultPriority, PriorityForName("craigslist"))
	assert.Equal(t, DefaultPriority, PriorityForName(""))
}

func TestPriorityForName_CaseAndSpaceInsensitive(t *testing.T) {
	assert.Equal(t, 100, PriorityForName("  INDEED_API "))
}
