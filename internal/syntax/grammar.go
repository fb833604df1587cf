// Package syntax owns the parse trees of a document. A Client keeps one
// primary tree plus trees for injected regions, applies edits incrementally
// and publishes immutable Snapshots that query workers read without locking.
package syntax

import (
	"sort"
	"sync"

	"livehl/internal/lang"
	"livehl/internal/log"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	bashlang "github.com/smacker/go-tree-sitter/bash"
	clang "github.com/smacker/go-tree-sitter/c"
	cpplang "github.com/smacker/go-tree-sitter/cpp"
	csslang "github.com/smacker/go-tree-sitter/css"
	golang "github.com/smacker/go-tree-sitter/golang"
	htmllang "github.com/smacker/go-tree-sitter/html"
	jslang "github.com/smacker/go-tree-sitter/javascript"
	mdlang "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	python "github.com/smacker/go-tree-sitter/python"
	rust "github.com/smacker/go-tree-sitter/rust"
	toml "github.com/smacker/go-tree-sitter/toml"
	tsxlang "github.com/smacker/go-tree-sitter/typescript/tsx"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"
	yaml "github.com/smacker/go-tree-sitter/yaml"
	tsjson "github.com/tree-sitter/tree-sitter-json/bindings/go"
)

// Capture names with special meaning in injection queries.
const (
	contentCapture  = "content"
	languageCapture = "language"
)

// Grammar is a compiled language: the tree-sitter language plus its
// highlight query and injection rules. A nil Highlights query means leaf
// nodes are classified heuristically instead.
type Grammar struct {
	ID         lang.ID
	Language   *sitter.Language
	Highlights *sitter.Query
	Injections []InjectionRule
}

// InjectionRule finds regions of a tree that are written in another
// language. The query must capture the region as @content. The target
// language is read from an @language capture when present, else Language.
type InjectionRule struct {
	Query    *sitter.Query
	Language lang.ID
}

type grammarDef struct {
	language   func() *sitter.Language
	highlights string
	injections []injectionDef
}

type injectionDef struct {
	query    string
	language lang.ID
}

func builtinGrammars() map[lang.ID]grammarDef {
	return map[lang.ID]grammarDef{
		lang.Go:         {language: golang.GetLanguage, highlights: goHighlights},
		lang.JavaScript: {language: jslang.GetLanguage, highlights: javascriptHighlights},
		lang.TypeScript: {language: tslang.GetLanguage},
		lang.TSX:        {language: tsxlang.GetLanguage},
		lang.CSS:        {language: csslang.GetLanguage, highlights: cssHighlights},
		lang.JSON: {
			language:   func() *sitter.Language { return sitter.NewLanguage(tsjson.Language()) },
			highlights: jsonHighlights,
		},
		lang.HTML: {
			language:   htmllang.GetLanguage,
			highlights: htmlHighlights,
			injections: []injectionDef{
				{query: htmlScriptInjection, language: lang.JavaScript},
				{query: htmlStyleInjection, language: lang.CSS},
			},
		},
		lang.Markdown: {
			language:   mdlang.GetLanguage,
			highlights: markdownHighlights,
			injections: []injectionDef{{query: markdownFenceInjection}},
		},
		lang.Rust:   {language: rust.GetLanguage},
		lang.Python: {language: python.GetLanguage},
		lang.Bash:   {language: bashlang.GetLanguage},
		lang.C:      {language: clang.GetLanguage},
		lang.CPP:    {language: cpplang.GetLanguage},
		lang.TOML:   {language: toml.GetLanguage, highlights: tomlHighlights},
		lang.YAML:   {language: yaml.GetLanguage, highlights: yamlHighlights},
	}
}

// Registry compiles grammars on first use and caches them. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.Mutex
	defs     map[lang.ID]grammarDef
	compiled map[lang.ID]*Grammar
}

func NewRegistry() *Registry {
	return &Registry{
		defs:     builtinGrammars(),
		compiled: make(map[lang.ID]*Grammar),
	}
}

// Languages lists the languages with a parser, sorted by name.
func (r *Registry) Languages() []lang.ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]lang.ID, 0, len(r.defs))
	for id := range r.defs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup returns the compiled grammar for id, or nil when the language has
// no parser. A highlight query that fails to compile degrades to leaf
// classification; the error is only returned when the language itself is
// unusable.
func (r *Registry) Lookup(id lang.ID) (*Grammar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.compiled[id]; ok {
		return g, nil
	}
	def, ok := r.defs[id]
	if !ok {
		return nil, nil
	}

	g, err := compile(id, def)
	if err != nil {
		return nil, err
	}
	r.compiled[id] = g
	return g, nil
}

func compile(id lang.ID, def grammarDef) (*Grammar, error) {
	language := def.language()
	if language == nil {
		return nil, errors.Errorf("grammar %s: no language", id)
	}

	g := &Grammar{ID: id, Language: language}
	if def.highlights != "" {
		q, err := sitter.NewQuery([]byte(def.highlights), language)
		if err != nil {
			log.Warn(log.CatSyntax, "highlight query rejected, using leaf classifier", "lang", id, "error", err)
		} else {
			g.Highlights = q
		}
	}

	for _, inj := range def.injections {
		q, err := sitter.NewQuery([]byte(inj.query), language)
		if err != nil {
			log.Warn(log.CatSyntax, "injection query rejected", "lang", id, "error", err)
			continue
		}
		g.Injections = append(g.Injections, InjectionRule{Query: q, Language: inj.language})
	}
	return g, nil
}
