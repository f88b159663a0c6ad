// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package registry holds, per language, the set of installed definitions
// and validates them atomically at load time: name uniqueness, reference
// resolution, arity, parameter shadowing, match-block default coverage,
// and reference-graph cycles (via Tarjan's strongly-connected-components
// algorithm). It is the load-time half of the interpreter/registry split
// described for package interpreter.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rlf-lang/rlf/ast"
	"github.com/rlf-lang/rlf/value"
)

// langRegistry is the committed, validated state for one language.
type langRegistry struct {
	defs map[string]*ast.Definition
	ids  map[value.PhraseId]string
}

// Registry holds one langRegistry per installed language. The zero value is
// ready to use.
type Registry struct {
	mu     sync.RWMutex
	byLang map[string]*langRegistry
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{byLang: make(map[string]*langRegistry)}
}

// Install validates defs as a complete replacement for language's
// definitions and, only if validation succeeds in full, commits them. A
// failed Install leaves any previously installed definitions for language
// untouched. origin identifies the source for error messages (a file path,
// or "<string>" for sources the Locale loads from a string) and is stamped
// onto any returned *Error.
func (r *Registry) Install(language, origin string, defs []*ast.Definition) (int, error) {
	lr, err := validate(defs)
	if err != nil {
		if rerr, ok := err.(*Error); ok {
			rerr.Origin = origin
		}

		return 0, err
	}

	r.mu.Lock()
	r.byLang[language] = lr
	r.mu.Unlock()

	log.Debug().Str("language", language).Int("count", len(lr.defs)).Msg("rlf: installed translations")

	return len(lr.defs), nil
}

// Lookup returns the definition named name for language.
func (r *Registry) Lookup(language, name string) (*ast.Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lr, ok := r.byLang[language]
	if !ok {
		return nil, false
	}

	def, ok := lr.defs[name]

	return def, ok
}

// Names returns the sorted list of definition names installed for
// language, or nil if the language has no definitions installed.
func (r *Registry) Names(language string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lr, ok := r.byLang[language]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(lr.defs))
	for n := range lr.defs {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Languages returns the sorted list of languages that have at least one
// definition installed.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.byLang))
	for l, lr := range r.byLang {
		if len(lr.defs) > 0 {
			langs = append(langs, l)
		}
	}

	sort.Strings(langs)

	return langs
}

// NameForId resolves id back to the definition name that produced it for
// language, supporting PhraseId-based lookups (see the root package's
// Translatable implementations).
func (r *Registry) NameForId(language string, id value.PhraseId) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lr, ok := r.byLang[language]
	if !ok {
		return "", false
	}

	name, ok := lr.ids[id]

	return name, ok
}

// Stats summarizes one language's installed definitions.
type Stats struct {
	Terms   int
	Phrases int
	Ids     int
}

// Stats reports counts of terms/phrases/ids installed for language.
func (r *Registry) Stats(language string) Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s Stats

	lr, ok := r.byLang[language]
	if !ok {
		return s
	}

	for _, def := range lr.defs {
		if def.Kind == ast.DefTerm {
			s.Terms++
		} else {
			s.Phrases++
		}
	}

	s.Ids = len(lr.ids)

	return s
}

// ValidateTranslations compares the installed definitions of source and
// target, returning warnings describing target's coverage gaps. It never
// errors; a target with no definitions installed simply reports every
// source definition as UnknownPhrase.
func (r *Registry) ValidateTranslations(source, target string) []LoadWarning {
	r.mu.RLock()
	srcLR, srcOK := r.byLang[source]
	tgtLR, tgtOK := r.byLang[target]
	r.mu.RUnlock()

	if !srcOK {
		return nil
	}

	var tgtDefs map[string]*ast.Definition
	if tgtOK {
		tgtDefs = tgtLR.defs
	}

	return compareCoverage(target, srcLR.defs, tgtDefs, tgtOK)
}

// ValidateCandidate runs the same coverage checks ValidateTranslations
// applies to an installed target language, against candidate, a
// not-yet-installed definition set for target. A strict-mode loader
// (config.RuntimeConfig.Load.Strict) uses this to reject a batch before
// Install ever commits it, rather than discovering the gap only after the
// fact via ValidateTranslations.
func (r *Registry) ValidateCandidate(source, target string, candidate []*ast.Definition) []LoadWarning {
	r.mu.RLock()
	srcLR, srcOK := r.byLang[source]
	r.mu.RUnlock()

	if !srcOK {
		return nil
	}

	tgtDefs := make(map[string]*ast.Definition, len(candidate))
	for _, d := range candidate {
		tgtDefs[d.Name] = d
	}

	return compareCoverage(target, srcLR.defs, tgtDefs, true)
}

// compareCoverage implements the coverage checks shared by
// ValidateTranslations and ValidateCandidate: every name installed for the
// source language must exist in tgtDefs with the same parameter count and
// well-formed tags/variant keys. tgtKnown distinguishes "target language has
// no definitions at all" from "target has definitions but this one is
// missing".
func compareCoverage(target string, srcDefs, tgtDefs map[string]*ast.Definition, tgtKnown bool) []LoadWarning {
	var warnings []LoadWarning

	names := make([]string, 0, len(srcDefs))
	for n := range srcDefs {
		names = append(names, n)
	}

	sort.Strings(names)

	for _, name := range names {
		srcDef := srcDefs[name]

		if !tgtKnown {
			warnings = append(warnings, LoadWarning{Kind: WarnUnknownPhrase, Name: name, Language: target, Detail: "no definitions installed for target language"})

			continue
		}

		tgtDef, ok := tgtDefs[name]
		if !ok {
			warnings = append(warnings, LoadWarning{Kind: WarnUnknownPhrase, Name: name, Language: target, Detail: "not defined in target language"})

			continue
		}

		if len(srcDef.Params) != len(tgtDef.Params) {
			warnings = append(warnings, LoadWarning{
				Kind: WarnParameterCountMismatch, Name: name, Language: target,
				Detail: fmt.Sprintf("source has %d parameter(s), target has %d", len(srcDef.Params), len(tgtDef.Params)),
			})
		}

		warnings = append(warnings, tagWarnings(name, target, tgtDef.Tags)...)
		warnings = append(warnings, variantKeyWarnings(name, target, tgtDef)...)
	}

	return warnings
}

// tagWarnings reports each of def's tags that is not well-formed per
// value.Tag.Valid (e.g. written with an uppercase letter, which the parser's
// identifier grammar accepts but the tag grammar does not).
func tagWarnings(name, language string, tags []string) []LoadWarning {
	var warnings []LoadWarning

	for _, tag := range tags {
		if !value.Tag(tag).Valid() {
			warnings = append(warnings, LoadWarning{
				Kind: WarnInvalidTag, Name: name, Language: language,
				Detail: fmt.Sprintf("tag %q is not well-formed", tag),
			})
		}
	}

	return warnings
}

// variantKeyWarnings reports each of def's variant/match keys (joined to
// their canonical dot-separated form) that is not well-formed per
// value.VariantKey.Valid.
func variantKeyWarnings(name, language string, def *ast.Definition) []LoadWarning {
	var keys []string

	switch {
	case def.Kind == ast.DefTerm && def.TermBody != nil:
		for _, v := range def.TermBody.Variants {
			keys = append(keys, ast.CanonicalKey(v.Keys))
		}

	case def.Kind == ast.DefPhrase && def.PhraseBody != nil:
		for _, b := range def.PhraseBody.Branches {
			keys = append(keys, ast.CanonicalKey(b.Keys))
		}
	}

	var warnings []LoadWarning

	for _, key := range keys {
		if !value.VariantKey(key).Valid() {
			warnings = append(warnings, LoadWarning{
				Kind: WarnInvalidVariantKey, Name: name, Language: language,
				Detail: fmt.Sprintf("variant key %q is not well-formed", key),
			})
		}
	}

	return warnings
}

// ValidateAll runs ValidateTranslations concurrently between source and
// each of targets, returning one warning list per target language.
func (r *Registry) ValidateAll(source string, targets ...string) (map[string][]LoadWarning, error) {
	results := make(map[string][]LoadWarning, len(targets))

	var mu sync.Mutex

	var g errgroup.Group

	for _, target := range targets {
		target := target

		g.Go(func() error {
			warnings := r.ValidateTranslations(source, target)

			mu.Lock()
			results[target] = warnings
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
