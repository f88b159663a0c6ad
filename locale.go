// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package rlf

import (
	"fmt"
	"os"
	"sync"

	"github.com/rlf-lang/rlf/config"
	"github.com/rlf-lang/rlf/interpreter"
	"github.com/rlf-lang/rlf/parser"
	"github.com/rlf-lang/rlf/registry"
	"github.com/rlf-lang/rlf/transform"
	"github.com/rlf-lang/rlf/value"
)

// Locale is the host-facing entry point (§4.H): a definition registry, a
// transform registry, and the language currently selected for evaluation.
// A Locale is safe for concurrent use by multiple goroutines; each
// evaluation call builds its own single-threaded evaluator state
// internally (see package interpreter), so readers never contend on
// anything but the registries' own locks.
type Locale struct {
	mu sync.RWMutex

	language      string
	registry      *registry.Registry
	transforms    *transform.Registry
	interp        *interpreter.Interpreter
	depthLimit    int
	stringContext string
	strict        bool
}

// New constructs a Locale with no translations loaded and language set to
// "en". Use WithLanguage to change it, or one of the load methods to
// populate the registry.
func New() *Locale {
	reg := registry.New()
	transforms := transform.NewRegistry()

	return &Locale{
		language:   "en",
		registry:   reg,
		transforms: transforms,
		interp:     interpreter.New(reg, transforms, interpreter.DefaultDepthLimit),
		depthLimit: interpreter.DefaultDepthLimit,
	}
}

// NewWithConfig constructs a Locale using cfg's depth ceiling and default
// language, the way a host that has already called config.Load would.
func NewWithConfig(cfg config.RuntimeConfig) *Locale {
	loc := New()
	loc.depthLimit = cfg.Eval.DepthLimit
	loc.language = cfg.Eval.DefaultLanguage
	loc.strict = cfg.Load.Strict
	loc.interp = interpreter.New(loc.registry, loc.transforms, loc.depthLimit)

	return loc
}

// WithLanguage sets language as the language future evaluation calls use
// and returns loc, for chaining at construction time
// (rlf.New().WithLanguage("fr")).
func (loc *Locale) WithLanguage(language string) *Locale {
	loc.SetLanguage(language)

	return loc
}

// SetLanguage changes the language used by future EvalString/CallPhrase/
// GetPhrase calls.
func (loc *Locale) SetLanguage(language string) {
	loc.mu.Lock()
	defer loc.mu.Unlock()

	loc.language = language
}

// Language returns the currently selected language.
func (loc *Locale) Language() string {
	loc.mu.RLock()
	defer loc.mu.RUnlock()

	return loc.language
}

// SetStringContext sets a free-form string (e.g. "formal", "masc") that
// GetPhrase prefers when it resolves a term's variant block at the top
// level (§4.H): if the term has a variant keyed ctx, GetPhrase returns that
// variant's text in place of the declared `*` default. It has no effect on
// phrases, on terms with no matching variant, or on terms reached through a
// nested reference rather than directly by name.
func (loc *Locale) SetStringContext(ctx string) {
	loc.mu.Lock()
	defer loc.mu.Unlock()

	loc.stringContext = ctx
}

// StringContext returns the string set by SetStringContext, or "".
func (loc *Locale) StringContext() string {
	loc.mu.RLock()
	defer loc.mu.RUnlock()

	return loc.stringContext
}

// LoadTranslationsString parses src as a complete translation file and
// installs it for language, replacing any previously installed
// definitions for that language. Error messages identify src by the
// origin "<string>".
func (loc *Locale) LoadTranslationsString(language, src string) error {
	return loc.loadString(language, src, "<string>")
}

// LoadTranslations reads path and installs it for language, a thin
// os.ReadFile convenience around LoadTranslationsString (the loader itself
// only ever takes the source text as a string), using path as the origin
// in error messages.
func (loc *Locale) LoadTranslations(language, path string) error {
	raw, err := os.ReadFile(path) // #nosec G304 -- path is caller-supplied
	if err != nil {
		return fmt.Errorf("rlf: reading %s: %w", path, err)
	}

	return loc.loadString(language, string(raw), path)
}

// ReloadTranslations re-parses and re-installs src for language. Install is
// already atomic (validate-then-commit, §4.F): a failed reload leaves the
// previously installed definitions for language untouched, so this is
// simply LoadTranslationsString under another name, kept distinct to match
// the host-facing vocabulary of spec.md §4.H.
func (loc *Locale) ReloadTranslations(language, src string) error {
	return loc.loadString(language, src, "<string>")
}

func (loc *Locale) loadString(language, src, origin string) error {
	defs, err := parser.ParseFile(src, origin)
	if err != nil {
		return err
	}

	loc.mu.Lock()
	defer loc.mu.Unlock()

	// Strict mode (config.RuntimeConfig.Load.Strict, §4.F) rejects a batch
	// that fails validate_translations coverage checks against loc's
	// reference language, before Install ever commits it. Loading the
	// reference language itself, or loading into an empty registry, has
	// nothing yet to compare against and always proceeds.
	if loc.strict && language != loc.language {
		if warnings := loc.registry.ValidateCandidate(loc.language, language, defs); len(warnings) > 0 {
			return &registry.StrictCoverageError{Language: language, Warnings: warnings}
		}
	}

	_, err = loc.registry.Install(language, origin, defs)

	return err
}

// EvalString parses src as an ad-hoc template (no surrounding definition)
// and evaluates it under params in loc's current language.
func (loc *Locale) EvalString(src string, params map[string]value.Value) (Phrase, error) {
	loc.mu.RLock()
	language := loc.language
	loc.mu.RUnlock()

	return loc.interp.EvalString(src, params, language)
}

// CallPhrase looks up name in loc's current language, binds args to its
// declared parameters, and evaluates it.
func (loc *Locale) CallPhrase(name string, args []value.Value) (Phrase, error) {
	loc.mu.RLock()
	language := loc.language
	loc.mu.RUnlock()

	return loc.interp.CallPhrase(name, args, language)
}

// GetPhrase looks up name in loc's current language: for a term, returns
// the Phrase assembled from its variants and tags; for a zero-parameter
// phrase, it is equivalent to CallPhrase(name, nil).
func (loc *Locale) GetPhrase(name string) (Phrase, error) {
	loc.mu.RLock()
	language := loc.language
	ctx := loc.stringContext
	loc.mu.RUnlock()

	return loc.interp.GetPhraseInContext(name, language, ctx)
}

// ValidateTranslations compares source's installed definitions against
// target's, returning coverage-gap warnings (§4.F). It never errors.
func (loc *Locale) ValidateTranslations(source, target string) []registry.LoadWarning {
	return loc.registry.ValidateTranslations(source, target)
}

// ValidateAll runs ValidateTranslations concurrently between source and
// each of targets (§2.2).
func (loc *Locale) ValidateAll(source string, targets ...string) (map[string][]registry.LoadWarning, error) {
	return loc.registry.ValidateAll(source, targets...)
}

// Languages returns the sorted list of languages that have at least one
// definition installed.
func (loc *Locale) Languages() []string {
	return loc.registry.Languages()
}

// Stats reports counts of terms/phrases/ids installed for language.
func (loc *Locale) Stats(language string) registry.Stats {
	return loc.registry.Stats(language)
}

// Transforms returns loc's transform registry, letting a host register
// additional language-specific metadata transforms via
// Transforms().Register(lang, name, fn).
func (loc *Locale) Transforms() *transform.Registry {
	return loc.transforms
}

// trByName resolves a zero-parameter term or phrase by name under
// language, for use by the Translatable implementations in translatable.go
// (which receive language explicitly rather than reading it from loc's own
// selected-language state). A definition that takes parameters cannot be
// reached through Translatable at all; call CallPhrase directly instead.
func (loc *Locale) trByName(name, language string) (Phrase, error) {
	return loc.interp.GetPhrase(name, language)
}

var (
	globalMu  sync.RWMutex
	globalLoc *Locale
)

// SetGlobal installs loc as the package-level global Locale, mirroring the
// teacher's own global config.Global / package i18n singleton pattern.
func SetGlobal(loc *Locale) {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalLoc = loc
}

// GlobalLocale returns the package-level global Locale, constructing one
// with New() on first use if none has been set.
func GlobalLocale() *Locale {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLoc == nil {
		globalLoc = New()
	}

	return globalLoc
}

// WithGlobal runs fn against the current global Locale, holding no lock of
// its own beyond what GlobalLocale/Locale's own methods already take; it
// exists purely as host-facing sugar for GlobalLocale() call chains.
func WithGlobal(fn func(*Locale)) {
	fn(GlobalLocale())
}
