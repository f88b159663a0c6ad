// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package transform implements the `@name` dispatch table the interpreter
// consults when rendering an interpolation: universal case transforms
// (@cap, @upper, @lower) present for every language, plus a per-language
// table of grammar-metadata transforms (English @a/@an, German @der/@ein,
// and so on).
package transform

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rlf-lang/rlf/rlferr"
	"github.com/rlf-lang/rlf/value"
)

// Context is the optional static or dynamic context attached to a
// transform invocation (the `:ctx` or `($p)` clause). Exactly one of Text
// or Value is meaningful, mirroring ast.Selector's Kind split; a nil
// *Context means no context was written.
type Context struct {
	// Text holds a static context (`@der:dat`, `@inflect:abl.poss1sg.pl`).
	Text string
	// Value holds a dynamic context (`@count($n)`), already resolved to its
	// bound Value by the interpreter.
	Value value.Value
	// IsDynamic reports that the context is dynamic (Value is set) rather
	// than static (Text is set); the interpreter only sets one of Text/Value.
	// A transform written with no context at all receives a nil *Context.
	IsDynamic bool
}

// Func executes one transform over v, given the optional context and the
// current language, returning the rendered string.
type Func func(v value.Value, ctx *Context, language string) (string, error)

// Registry is the per-process transform dispatch table: universal
// transforms apply to every language; metadata transforms are scoped to
// one language and resolved via its base BCP-47 subtag.
type Registry struct {
	universal map[string]Func
	byLang    map[string]map[string]Func
	aliases   map[string]string // alias name -> canonical name, global
}

// NewRegistry builds the default registry: universal case transforms plus
// the representative per-language metadata transforms.
func NewRegistry() *Registry {
	r := &Registry{
		universal: map[string]Func{
			"cap":   capTransform,
			"upper": upperTransform,
			"lower": lowerTransform,
		},
		byLang:  make(map[string]map[string]Func),
		aliases: map[string]string{"an": "a"},
	}

	r.registerLanguage("en", map[string]Func{"a": englishArticleTransform})
	r.registerLanguage("de", map[string]Func{"der": germanDerTransform, "ein": germanEinTransform})
	r.registerLanguage("fr", map[string]Func{"le": frenchLeTransform})
	r.registerLanguage("es", map[string]Func{"el": spanishElTransform})
	r.registerLanguage("zh", map[string]Func{"count": chineseCountTransform})
	r.registerLanguage("ja", map[string]Func{"counter": japaneseCounterTransform})
	r.registerLanguage("tr", map[string]Func{"inflect": turkishInflectTransform})
	r.registerLanguage("ru", map[string]Func{"case": russianCaseTransform})

	return r
}

func (r *Registry) registerLanguage(lang string, fns map[string]Func) {
	r.byLang[lang] = fns
}

// Register adds or overrides a metadata transform for lang. It lets host
// code extend the registry with additional languages at startup.
func (r *Registry) Register(lang, name string, fn Func) {
	if r.byLang[lang] == nil {
		r.byLang[lang] = make(map[string]Func)
	}

	r.byLang[lang][name] = fn
}

// Lookup resolves name for language, applying alias resolution and falling
// back from a full tag ("de-AT") to its base subtag ("de"). It never falls
// back across languages (no "de" transform implies "en" is tried).
func (r *Registry) Lookup(name, lang string) (Func, error) {
	canonical := name
	if c, ok := r.aliases[name]; ok {
		canonical = c
	}

	if fn, ok := r.universal[canonical]; ok {
		return fn, nil
	}

	base := baseSubtag(lang)

	if fns, ok := r.byLang[base]; ok {
		if fn, ok := fns[canonical]; ok {
			return fn, nil
		}
	}

	return nil, &rlferr.UnknownTransformError{
		Name:        name,
		Language:    lang,
		Suggestions: rlferr.Suggest(name, r.namesFor(base)),
	}
}

func (r *Registry) namesFor(base string) []string {
	names := make([]string, 0, len(r.universal)+4)
	for n := range r.universal {
		names = append(names, n)
	}

	for n := range r.byLang[base] {
		names = append(names, n)
	}

	for alias := range r.aliases {
		names = append(names, alias)
	}

	return names
}

func baseSubtag(lang string) string {
	for i, r := range lang {
		if r == '-' || r == '_' {
			return lang[:i]
		}
	}

	return lang
}

func textOf(v value.Value) string {
	if p, ok := v.AsPhrase(); ok {
		return p.String()
	}

	return v.String()
}

func casesFor(lang string) cases.Caser {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}

	return cases.Title(tag)
}

// capTransform uppercases the first grapheme cluster (approximated here as
// the first rune) and leaves the remainder unchanged, using locale-aware
// casing so e.g. Turkish "i" capitalises to "İ".
func capTransform(v value.Value, _ *Context, lang string) (string, error) {
	s := textOf(v)
	if s == "" {
		return s, nil
	}

	r := []rune(s)
	head := casesFor(lang).String(string(r[0]))

	return head + string(r[1:]), nil
}

func upperTransform(v value.Value, _ *Context, lang string) (string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}

	return cases.Upper(tag).String(textOf(v)), nil
}

func lowerTransform(v value.Value, _ *Context, lang string) (string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}

	return cases.Lower(tag).String(textOf(v)), nil
}

func requirePhrase(v value.Value, transform string) (value.Phrase, error) {
	p, ok := v.AsPhrase()
	if !ok {
		return value.Phrase{}, &rlferr.TypeMismatchError{
			Op:       "@" + transform,
			Expected: "Phrase",
			Got:      kindName(v.Kind()),
		}
	}

	return p, nil
}

func kindName(k value.ValueKind) string {
	switch k {
	case value.KindNumber:
		return "Number"
	case value.KindFloat:
		return "Float"
	case value.KindString:
		return "String"
	case value.KindPhrase:
		return "Phrase"
	default:
		return "?"
	}
}

func missingTag(transform string, required []string, p value.Phrase) error {
	return &rlferr.MissingTagError{
		Transform: "@" + transform,
		Required:  required,
		Available: p.Tags(),
	}
}

// englishArticleTransform implements @a/@an: looks at the value's tags and
// prepends the indefinite article the tag requests.
func englishArticleTransform(v value.Value, _ *Context, _ string) (string, error) {
	p, err := requirePhrase(v, "a")
	if err != nil {
		return "", err
	}

	switch {
	case p.HasTag("an"):
		return "an " + p.String(), nil
	case p.HasTag("a"):
		return "a " + p.String(), nil
	default:
		return "", missingTag("a", []string{"a", "an"}, p)
	}
}

// germanDerTransform implements @der: combines a gender tag (masc/fem/neut)
// with an optional grammatical-case context (nom/acc/dat/gen, default nom).
func germanDerTransform(v value.Value, ctx *Context, _ string) (string, error) {
	p, err := requirePhrase(v, "der")
	if err != nil {
		return "", err
	}

	grammarCase := "nom"
	if ctx != nil && !ctx.IsDynamic && ctx.Text != "" {
		grammarCase = ctx.Text
	}

	table := map[string]map[string]string{
		"masc": {"nom": "der", "acc": "den", "dat": "dem", "gen": "des"},
		"fem":  {"nom": "die", "acc": "die", "dat": "der", "gen": "der"},
		"neut": {"nom": "das", "acc": "das", "dat": "dem", "gen": "des"},
	}

	for _, gender := range []string{"masc", "fem", "neut"} {
		if p.HasTag(gender) {
			article, ok := table[gender][grammarCase]
			if !ok {
				return "", &rlferr.TypeMismatchError{Op: "@der", Expected: "nom|acc|dat|gen case context", Got: grammarCase}
			}

			return article + " " + p.String(), nil
		}
	}

	return "", missingTag("der", []string{"masc", "fem", "neut"}, p)
}

// germanEinTransform implements @ein: the indefinite-article counterpart of
// @der, with the same gender/case combination.
func germanEinTransform(v value.Value, ctx *Context, _ string) (string, error) {
	p, err := requirePhrase(v, "ein")
	if err != nil {
		return "", err
	}

	grammarCase := "nom"
	if ctx != nil && !ctx.IsDynamic && ctx.Text != "" {
		grammarCase = ctx.Text
	}

	table := map[string]map[string]string{
		"masc": {"nom": "ein", "acc": "einen", "dat": "einem", "gen": "eines"},
		"fem":  {"nom": "eine", "acc": "eine", "dat": "einer", "gen": "einer"},
		"neut": {"nom": "ein", "acc": "ein", "dat": "einem", "gen": "eines"},
	}

	for _, gender := range []string{"masc", "fem", "neut"} {
		if p.HasTag(gender) {
			article, ok := table[gender][grammarCase]
			if !ok {
				return "", &rlferr.TypeMismatchError{Op: "@ein", Expected: "nom|acc|dat|gen case context", Got: grammarCase}
			}

			return article + " " + p.String(), nil
		}
	}

	return "", missingTag("ein", []string{"masc", "fem", "neut"}, p)
}

// frenchLeTransform implements @le: gendered definite article, eliding to
// "l'" when the rendering's first byte is a, e, i, o, u or h (either case).
// Accented initial letters such as "é" are not treated as vowels.
func frenchLeTransform(v value.Value, _ *Context, _ string) (string, error) {
	p, err := requirePhrase(v, "le")
	if err != nil {
		return "", err
	}

	text := p.String()
	if startsWithVowel(text) {
		return "l'" + text, nil
	}

	switch {
	case p.HasTag("masc"):
		return "le " + text, nil
	case p.HasTag("fem"):
		return "la " + text, nil
	default:
		return "", missingTag("le", []string{"masc", "fem"}, p)
	}
}

// spanishElTransform implements @el: gendered definite article.
func spanishElTransform(v value.Value, _ *Context, _ string) (string, error) {
	p, err := requirePhrase(v, "el")
	if err != nil {
		return "", err
	}

	switch {
	case p.HasTag("masc"):
		return "el " + p.String(), nil
	case p.HasTag("fem"):
		return "la " + p.String(), nil
	default:
		return "", missingTag("el", []string{"masc", "fem"}, p)
	}
}

func startsWithVowel(s string) bool {
	if s == "" {
		return false
	}

	switch strings.ToLower(s[:1]) {
	case "a", "e", "i", "o", "u", "h":
		return true
	default:
		return false
	}
}

// chineseCountTransform implements @count($n): renders n followed by the
// measure word selected by the value's classifier tag.
func chineseCountTransform(v value.Value, ctx *Context, _ string) (string, error) {
	p, err := requirePhrase(v, "count")
	if err != nil {
		return "", err
	}

	if ctx == nil || !ctx.IsDynamic {
		return "", &rlferr.TypeMismatchError{Op: "@count", Expected: "dynamic numeric context", Got: "none"}
	}

	n, ok := ctx.Value.AsNumber()
	if !ok {
		return "", &rlferr.TypeMismatchError{Op: "@count", Expected: "Number", Got: kindName(ctx.Value.Kind())}
	}

	classifiers := []string{"zhang", "ge", "ben", "tiao", "zhi"}

	for _, cl := range classifiers {
		if p.HasTag(cl) {
			return fmt.Sprintf("%d%s%s", n, classifierGlyph(cl), p.String()), nil
		}
	}

	return "", missingTag("count", classifiers, p)
}

func classifierGlyph(classifier string) string {
	glyphs := map[string]string{
		"zhang": "张",
		"ge":    "个",
		"ben":   "本",
		"tiao":  "条",
		"zhi":   "只",
	}

	return glyphs[classifier]
}

// japaneseCounterTransform implements @counter($n): renders n followed by
// the counter word selected by the value's classifier tag.
func japaneseCounterTransform(v value.Value, ctx *Context, _ string) (string, error) {
	p, err := requirePhrase(v, "counter")
	if err != nil {
		return "", err
	}

	if ctx == nil || !ctx.IsDynamic {
		return "", &rlferr.TypeMismatchError{Op: "@counter", Expected: "dynamic numeric context", Got: "none"}
	}

	n, ok := ctx.Value.AsNumber()
	if !ok {
		return "", &rlferr.TypeMismatchError{Op: "@counter", Expected: "Number", Got: kindName(ctx.Value.Kind())}
	}

	counters := []string{"hon", "mai", "satsu", "ko"}

	for _, c := range counters {
		if p.HasTag(c) {
			return fmt.Sprintf("%d%s", n, counterGlyph(c)), nil
		}
	}

	return "", missingTag("counter", counters, p)
}

func counterGlyph(counter string) string {
	glyphs := map[string]string{
		"hon":   "本",
		"mai":   "枚",
		"satsu": "冊",
		"ko":    "個",
	}

	return glyphs[counter]
}

// turkishInflectTransform implements @inflect:<suffix chain>: applies
// vowel-harmony driven by the value's front/back tag. The suffix chain is a
// dot-joined sequence such as "abl.poss1sg.pl"; each component contributes
// a harmonised suffix in order.
func turkishInflectTransform(v value.Value, ctx *Context, _ string) (string, error) {
	p, err := requirePhrase(v, "inflect")
	if err != nil {
		return "", err
	}

	if ctx == nil || ctx.IsDynamic || ctx.Text == "" {
		return "", &rlferr.TypeMismatchError{Op: "@inflect", Expected: "static suffix-chain context", Got: "none"}
	}

	front := p.HasTag("front")
	back := p.HasTag("back")

	if !front && !back {
		return "", missingTag("inflect", []string{"front", "back"}, p)
	}

	text := p.String()

	for _, seg := range strings.Split(ctx.Text, ".") {
		suffix, ok := turkishSuffix(seg, front)
		if !ok {
			return "", &rlferr.TypeMismatchError{Op: "@inflect", Expected: "known suffix segment", Got: seg}
		}

		text += suffix
	}

	return text, nil
}

func turkishSuffix(segment string, front bool) (string, bool) {
	// Each pair is {front-vowel form, back-vowel form}; vowel harmony picks
	// the first when the stem carries the :front tag.
	table := map[string][2]string{
		"abl":     {"den", "dan"},
		"dat":     {"e", "a"},
		"loc":     {"de", "da"},
		"gen":     {"in", "ın"},
		"poss1sg": {"im", "ım"},
		"poss2sg": {"in", "ın"},
		"poss3sg": {"i", "ı"},
		"pl":      {"ler", "lar"},
	}

	pair, ok := table[segment]
	if !ok {
		return "", false
	}

	if front {
		return pair[0], true
	}

	return pair[1], true
}

// russianCaseTransform implements @case:<case>: selects a grammatical-case
// form from the value's variant table (e.g. "nom", "acc", "gen"), falling
// back to the value's default text when no context is given.
func russianCaseTransform(v value.Value, ctx *Context, _ string) (string, error) {
	p, err := requirePhrase(v, "case")
	if err != nil {
		return "", err
	}

	if ctx == nil {
		return p.String(), nil
	}

	var key string

	switch {
	case ctx.IsDynamic:
		key = textOf(ctx.Value)
	default:
		key = ctx.Text
	}

	variant, err := p.Variant(key)
	if err != nil {
		return "", err
	}

	return variant, nil
}

// ParseNumberContext parses a static context's text as a base-10 int64. No
// built-in transform calls it; @count and @counter accept only a dynamic
// ($n) context.
func ParseNumberContext(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}
