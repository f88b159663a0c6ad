// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package interpreter is the evaluator half of the registry/interpreter
// split: given a definition registry and a transform registry, it
// implements the three public evaluation operations (eval_str, call_phrase,
// get_phrase), variant/match resolution, reference resolution, and the
// call-stack cycle check plus recursion-depth ceiling that guarantee
// termination.
package interpreter

import (
	"github.com/rlf-lang/rlf/ast"
	"github.com/rlf-lang/rlf/parser"
	"github.com/rlf-lang/rlf/registry"
	"github.com/rlf-lang/rlf/rlferr"
	"github.com/rlf-lang/rlf/transform"
	"github.com/rlf-lang/rlf/value"
)

// DefaultDepthLimit is the recursion ceiling applied when a non-positive
// limit is passed to New.
const DefaultDepthLimit = 64

// Interpreter evaluates definitions from a registry.Registry using a
// transform.Registry for `@`-transform dispatch.
type Interpreter struct {
	registry   *registry.Registry
	transforms *transform.Registry
	depthLimit int
}

// New constructs an Interpreter. depthLimit <= 0 uses DefaultDepthLimit.
func New(reg *registry.Registry, transforms *transform.Registry, depthLimit int) *Interpreter {
	if depthLimit <= 0 {
		depthLimit = DefaultDepthLimit
	}

	return &Interpreter{registry: reg, transforms: transforms, depthLimit: depthLimit}
}

// EvalString parses src as an ad-hoc template and evaluates it under
// params/language. The returned Phrase always has empty variants/tags: a
// template parsed outside any definition has no `:from` modifier to
// populate them.
func (it *Interpreter) EvalString(src string, params map[string]value.Value, language string) (value.Phrase, error) {
	tmpl, err := parser.ParseTemplate(src, "<eval_str>")
	if err != nil {
		return value.Phrase{}, err
	}

	ctx := newEvalContext(language, it.depthLimit)
	ctx.params = params

	text, err := it.renderTemplate(ctx, *tmpl, "<eval_str>")
	if err != nil {
		return value.Phrase{}, err
	}

	return value.NewPhrase(text, nil, nil), nil
}

// CallPhrase looks up name in language, binds args to its declared
// parameters (arity-checked), and evaluates it.
func (it *Interpreter) CallPhrase(name string, args []value.Value, language string) (value.Phrase, error) {
	ctx := newEvalContext(language, it.depthLimit)

	return it.evalNamed(ctx, name, args)
}

// GetPhrase looks up name in language: for a term, returns the Phrase
// assembled from its variants and tags; for a zero-parameter phrase, it is
// equivalent to CallPhrase(name, nil, language). It is GetPhraseInContext
// with no preferred variant.
func (it *Interpreter) GetPhrase(name, language string) (value.Phrase, error) {
	return it.GetPhraseInContext(name, language, "")
}

// GetPhraseInContext is GetPhrase with a string_context key (§4.H):
// when name resolves to a term with a variant block, the variant keyed
// preferredVariant is used in place of the declared `*` default, if the
// term has a variant under that key. It has no effect on a simple term, a
// phrase, or a nested term referenced from within name's own template.
func (it *Interpreter) GetPhraseInContext(name, language, preferredVariant string) (value.Phrase, error) {
	def, ok := it.registry.Lookup(language, name)
	if !ok {
		return value.Phrase{}, &rlferr.PhraseNotFoundError{
			Name: name, Language: language,
			Suggestions: rlferr.Suggest(name, it.registry.Names(language)),
		}
	}

	if def.Kind == ast.DefPhrase && len(def.Params) > 0 {
		return value.Phrase{}, &rlferr.ArgumentCountError{Name: name, Expected: len(def.Params), Got: 0}
	}

	ctx := newEvalContext(language, it.depthLimit)
	ctx.preferredVariant = preferredVariant

	return it.evalNamed(ctx, name, nil)
}
