// Package theme maps capture kinds to display attributes using chroma styles.
package theme

import (
	"strings"

	"livehl/internal/capture"
	"livehl/internal/log"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/patrickmn/go-cache"
)

// Attributes is the attribute map applied to a document range.
type Attributes struct {
	Foreground string
	Background string
	Bold       bool
	Italic     bool
	Underline  bool
}

// Style converts the attributes to a lipgloss style.
func (a Attributes) Style() lipgloss.Style {
	s := lipgloss.NewStyle().Bold(a.Bold).Italic(a.Italic).Underline(a.Underline)
	if a.Foreground != "" {
		s = s.Foreground(lipgloss.Color(a.Foreground))
	}
	if a.Background != "" {
		s = s.Background(lipgloss.Color(a.Background))
	}
	return s
}

// kindTokens lists, per capture kind, the chroma token types tried in order.
var kindTokens = map[capture.Kind][]chroma.TokenType{
	capture.Include:         {chroma.KeywordNamespace, chroma.Keyword},
	capture.Constructor:     {chroma.NameClass, chroma.NameFunction},
	capture.Keyword:         {chroma.Keyword},
	capture.Boolean:         {chroma.KeywordConstant, chroma.Keyword},
	capture.Repeat:          {chroma.Keyword},
	capture.Conditional:     {chroma.Keyword},
	capture.Tag:             {chroma.NameTag, chroma.Keyword},
	capture.Comment:         {chroma.Comment},
	capture.Variable:        {chroma.NameVariable, chroma.Name},
	capture.Property:        {chroma.NameProperty, chroma.NameAttribute, chroma.Name},
	capture.Field:           {chroma.NameProperty, chroma.Name},
	capture.Function:        {chroma.NameFunction},
	capture.Method:          {chroma.NameFunction},
	capture.Number:          {chroma.LiteralNumber},
	capture.Float:           {chroma.LiteralNumberFloat, chroma.LiteralNumber},
	capture.String:          {chroma.LiteralString},
	capture.Type:            {chroma.KeywordType, chroma.NameClass},
	capture.TypeAlternate:   {chroma.NameClass, chroma.KeywordType},
	capture.Parameter:       {chroma.NameVariable, chroma.Name},
	capture.VariableBuiltin: {chroma.NameBuiltinPseudo, chroma.NameBuiltin},
	capture.KeywordReturn:   {chroma.Keyword},
	capture.KeywordFunction: {chroma.KeywordDeclaration, chroma.Keyword},
	capture.Identifier:      {chroma.Name},
	capture.Operator:        {chroma.Operator},
	capture.Constant:        {chroma.NameConstant, chroma.KeywordConstant},
	capture.Attribute:       {chroma.NameAttribute},
	capture.Embedded:        {chroma.LiteralStringInterpol},
	capture.Error:           {chroma.Error},
	capture.Preproc:         {chroma.CommentPreproc},
	capture.Define:          {chroma.CommentPreproc},
	capture.Debug:           {chroma.KeywordPseudo},
	capture.Exception:       {chroma.NameException, chroma.Keyword},
	capture.Label:           {chroma.NameLabel},
	capture.StorageClass:    {chroma.KeywordDeclaration, chroma.Keyword},
	capture.Symbol:          {chroma.LiteralStringSymbol, chroma.LiteralString},
	capture.Namespace:       {chroma.NameNamespace},
	capture.Conceal:         {chroma.Comment},
	capture.Punctuation:     {chroma.Punctuation},
}

// boldKinds are always rendered bold regardless of the style.
var boldKinds = map[capture.Kind]bool{
	capture.Include:         true,
	capture.Constructor:     true,
	capture.Keyword:         true,
	capture.Boolean:         true,
	capture.Repeat:          true,
	capture.Conditional:     true,
	capture.Tag:             true,
	capture.VariableBuiltin: true,
	capture.KeywordReturn:   true,
	capture.KeywordFunction: true,
}

// Theme resolves attributes for capture kinds and comment markers. Lookups
// are memoised and safe for concurrent use.
type Theme struct {
	name    string
	style   *chroma.Style
	palette Palette
	memo    *cache.Cache
}

// Load returns the theme for a chroma style name.
func Load(name string) (*Theme, error) {
	lookup, style, err := lookupStyle(name)
	if err != nil {
		return nil, err
	}
	return &Theme{
		name:    lookup,
		style:   style,
		palette: buildPalette(lookup, style),
		memo:    cache.New(cache.NoExpiration, 0),
	}, nil
}

// MustLoad is Load for names known to exist, falling back to the default.
func MustLoad(name string) *Theme {
	t, err := Load(name)
	if err == nil {
		return t
	}
	log.Warn(log.CatTheme, "theme unavailable, using default", "theme", name, "error", err)
	t, err = Load(DefaultName)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Theme) Name() string {
	return t.name
}

func (t *Theme) Palette() Palette {
	return t.palette
}

// AttributesFor returns the attributes of a capture kind. None yields the
// plain text attributes.
func (t *Theme) AttributesFor(kind capture.Kind) Attributes {
	key := "kind:" + kind.String()
	if v, ok := t.memo.Get(key); ok {
		return v.(Attributes)
	}

	attrs := Attributes{Foreground: t.palette.Text}
	for _, tt := range kindTokens[kind] {
		entry := t.style.Get(tt)
		if !entry.Colour.IsSet() {
			continue
		}
		attrs.Foreground = entry.Colour.String()
		attrs.Italic = entry.Italic == chroma.Yes
		attrs.Underline = entry.Underline == chroma.Yes
		attrs.Bold = entry.Bold == chroma.Yes
		break
	}
	if boldKinds[kind] {
		attrs.Bold = true
	}

	t.memo.Set(key, attrs, cache.NoExpiration)
	return attrs
}

// MarkerAttributes returns the overlay applied to a comment marker such as
// "TODO:". Markers share comment colouring rules but stand out from it.
func (t *Theme) MarkerAttributes(pattern string) Attributes {
	key := "marker:" + strings.ToUpper(pattern)
	if v, ok := t.memo.Get(key); ok {
		return v.(Attributes)
	}

	var fg string
	switch word := strings.TrimRight(strings.ToUpper(pattern), ":"); word {
	case "FIXME":
		fg = pickForeground(t.style, "#BF616A", chroma.Error, chroma.GenericError)
	case "MARK":
		fg = pickForeground(t.style, t.palette.Accent, chroma.NameLabel, chroma.Keyword)
	default:
		fg = pickForeground(t.style, "#EBCB8B", chroma.CommentSpecial, chroma.GenericEmph, chroma.KeywordConstant)
	}
	attrs := Attributes{Foreground: fg, Bold: true, Underline: true}

	t.memo.Set(key, attrs, cache.NoExpiration)
	return attrs
}
