package highlighter

import (
	"regexp"
	"sort"
	"strings"
)

// markerMatcher finds a comment marker such as "// TODO:" at the start of a
// line. The marker word matches case-insensitively.
type markerMatcher struct {
	re       *regexp.Regexp
	patterns []string
}

func newMarkerMatcher(prefix string, patterns []string) *markerMatcher {
	alts := make([]string, 0, len(patterns))
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kept = append(kept, p)
		alts = append(alts, regexp.QuoteMeta(p))
	}
	if len(alts) == 0 {
		return &markerMatcher{}
	}
	// longest first so "TODO:" never shadows "TODO(x):"
	sort.SliceStable(alts, func(i, j int) bool { return len(alts[i]) > len(alts[j]) })

	expr := `^[ \t]*` + regexp.QuoteMeta(strings.TrimSpace(prefix)) + `[ \t]*(?i:(` + strings.Join(alts, "|") + `))`
	return &markerMatcher{re: regexp.MustCompile(expr), patterns: kept}
}

// match returns the byte span of the marker in line and the configured
// pattern it matched.
func (m *markerMatcher) match(line string) (int, int, string, bool) {
	if m.re == nil {
		return 0, 0, "", false
	}
	loc := m.re.FindStringSubmatchIndex(line)
	if loc == nil {
		return 0, 0, "", false
	}
	lo, hi := loc[2], loc[3]
	word := line[lo:hi]
	for _, p := range m.patterns {
		if strings.EqualFold(p, word) {
			return lo, hi, p, true
		}
	}
	return lo, hi, word, true
}
