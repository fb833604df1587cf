package theme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultName is the chroma style used when none is configured.
const DefaultName = "nord"

// Palette holds the colours of the viewer chrome around the document.
type Palette struct {
	Name     string
	Text     string
	Base     string
	StatusBG string
	Muted    string
	Accent   string
}

// lookupStyle resolves a user-supplied theme name to a chroma style.
func lookupStyle(name string) (string, *chroma.Style, error) {
	requested := strings.TrimSpace(name)
	if requested == "" {
		requested = DefaultName
	}

	lookup := normalizeThemeName(requested)
	names := styles.Names()
	available := make(map[string]struct{}, len(names))
	for _, n := range names {
		available[n] = struct{}{}
	}
	unknownThemeErr := func() error {
		sort.Strings(names)
		return fmt.Errorf("unknown theme %q. try one of: %s", requested, strings.Join(topThemeHints(names), ", "))
	}
	if _, ok := available[lookup]; !ok {
		return "", nil, unknownThemeErr()
	}
	style := styles.Get(lookup)
	if style == nil {
		return "", nil, unknownThemeErr()
	}
	return lookup, style, nil
}

func buildPalette(name string, style *chroma.Style) Palette {
	base := pickBackground(style, "#2E3440", chroma.Background)
	text := pickForeground(style, "#D8DEE9", chroma.Text, chroma.Background)
	comment := pickForeground(style, adjustTone(text, -60), chroma.Comment)
	return Palette{
		Name:     name,
		Text:     text,
		Base:     base,
		StatusBG: pickBackground(style, adjustTone(base, autoDelta(base, 18, -18)), chroma.LineHighlight),
		Muted:    pickForeground(style, adjustTone(comment, -10), chroma.LineNumbers, chroma.Comment),
		Accent:   pickForeground(style, text, chroma.NameFunction, chroma.Keyword),
	}
}

func normalizeThemeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "solarized":
		return "solarized-dark"
	case "one-dark":
		return "onedark"
	default:
		return n
	}
}

func pickForeground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Colour.IsSet() {
			return entry.Colour.String()
		}
	}
	return fallback
}

func pickBackground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Background.IsSet() {
			return entry.Background.String()
		}
	}
	return fallback
}

func topThemeHints(all []string) []string {
	wanted := []string{"nord", "dracula", "monokai", "github", "github-dark", "solarized-dark", "solarized-light", "gruvbox", "onedark"}
	set := map[string]bool{}
	for _, n := range all {
		set[n] = true
	}
	out := make([]string, 0, len(wanted))
	for _, name := range wanted {
		if set[name] {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return all[:min(8, len(all))]
	}
	return out
}

func autoDelta(bg string, darkDelta int, lightDelta int) int {
	r, g, b, ok := parseHexRGB(bg)
	if !ok {
		return darkDelta
	}
	if 0.2126*float64(r)+0.7152*float64(g)+0.0722*float64(b) < 128 {
		return darkDelta
	}
	return lightDelta
}

func adjustTone(hex string, delta int) string {
	r, g, b, ok := parseHexRGB(hex)
	if !ok {
		return hex
	}
	return fmt.Sprintf("#%02X%02X%02X", clamp8(r+delta), clamp8(g+delta), clamp8(b+delta))
}

func parseHexRGB(hex string) (int, int, int, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int((v >> 16) & 0xFF), int((v >> 8) & 0xFF), int(v & 0xFF), true
}

func clamp8(v int) int {
	return max(0, min(255, v))
}
