// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package rlf is the Runtime Localization Framework: a DSL parser plus a
runtime interpreter for grammatically-correct localized text. It supports
complex morphology (grammatical case, gender, plural categories,
classifiers, agglutinative suffixes) through named text entries
("definitions") that carry variants, tags, and parameters, composed with
`:match`/`:from` and a small repertoire of `@`-transforms.

# Quick start

Translations are loaded as DSL source text, not structured data:

	loc := rlf.New() // language defaults to "en"
	if err := loc.LoadTranslationsString("en", `
		card = :a { one: "card", other: "cards" };
		draw($n) = "Draw {$n} {card:$n}.";
	`); err != nil {
		log.Fatal(err)
	}

	phrase, err := loc.CallPhrase("draw", []rlf.Value{rlf.Number(3)})
	// phrase.Text == "Draw 3 cards."

# Missing translations

There is no automatic language fallback: a phrase or variant that is not
registered for the current language is an evaluation error
([github.com/rlf-lang/rlf/rlferr.PhraseNotFoundError], a
[github.com/rlf-lang/rlf/value.MissingVariantError]), not a silent
substitution. This is a deliberate design choice, not an oversight.

# Layers

Use [Locale] for the host-facing surface ([Locale.EvalString],
[Locale.CallPhrase], [Locale.GetPhrase]). The DSL grammar and AST live in
package ast and package parser; the registries and evaluator live in
package registry and package interpreter; CLDR plural-category mapping
lives in package plural; the `@`-transform dispatch table lives in package
transform. Process-wide tunables (recursion ceiling, strict-load mode,
default language) live in package config.
*/
package rlf
