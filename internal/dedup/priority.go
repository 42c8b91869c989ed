package dedup

import "strings"

// DefaultPriority is assigned to sources whose name matches no known pattern,
// and to sources that cannot be resolved at all.
const DefaultPriority = 50

// exactPriorities ranks the well-known source names. Higher wins a duplicate
// conflict.
var exactPriorities = map[string]int{
	"indeed_api": 100,
	"indeed_rss": 90,
	"adzuna_api": 80,
	"jooble_api": 70,
	"rss":        60,
	"scraper":    50,
	"partner":    40,
}

// PriorityForName maps a source display name to its ranking. Exact matches
// are checked first, then substring heuristics in fixed order, so e.g. an
// operator-named "Indeed API (backup)" still ranks as Indeed.
func PriorityForName(name string) int {
	n := strings.ToLower(strings.TrimSpace(name))

	if p, ok := exactPriorities[n]; ok {
		return p
	}

	switch {
	case strings.Contains(n, "indeed"):
		if strings.Contains(n, "api") {
			return 100
		}
		return 90
	case strings.Contains(n, "adzuna"):
		return 80
	case strings.Contains(n, "jooble"):
		return 70
	case strings.Contains(n, "rss"):
		return 60
	}

	return DefaultPriority
}
