// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package registry

import "fmt"

// Kind discriminates the semantic load-time failures install() can report,
// distinct from the parser's structural Kind.
type Kind string

const (
	KindDuplicateName     Kind = "duplicate_name"
	KindUnresolvedRef     Kind = "unresolved_reference"
	KindParamShadow       Kind = "parameter_shadows_name"
	KindDuplicateParam    Kind = "duplicate_parameter"
	KindFromNotParam      Kind = "from_target_not_a_parameter"
	KindMatchParamInvalid Kind = "match_parameter_not_declared"
	KindMissingDefault    Kind = "match_block_missing_default"
	KindArity             Kind = "arity_mismatch"
	KindTermCalled        Kind = "term_called_with_parens"
	KindPhraseBareCall    Kind = "phrase_requires_call_syntax"
	KindCycle             Kind = "cyclic_reference"
	KindIdCollision       Kind = "phrase_id_collision"
)

// Error is a semantic load-time failure: a definition was structurally
// valid DSL but violates a cross-definition invariant (undefined reference,
// cycle, arity, shadowing, missing match default, ...).
type Error struct {
	Origin  string
	Line    int
	Column  int
	Kind    Kind
	Name    string
	Message string
}

func (e *Error) Error() string {
	origin := e.Origin
	if origin == "" {
		origin = "<input>"
	}

	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", origin, e.Line, e.Column, e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s: %s", origin, e.Kind, e.Message)
}

// LoadWarning is a non-fatal finding from ValidateTranslations: a target
// language's coverage gap relative to a source language.
type LoadWarning struct {
	Kind     WarningKind
	Name     string
	Language string
	Detail   string
}

func (w LoadWarning) String() string {
	return fmt.Sprintf("%s: %s (%s): %s", w.Language, w.Kind, w.Name, w.Detail)
}

// WarningKind discriminates LoadWarning.
type WarningKind string

const (
	WarnUnknownPhrase          WarningKind = "unknown_phrase"
	WarnParameterCountMismatch WarningKind = "parameter_count_mismatch"
	WarnInvalidTag             WarningKind = "invalid_tag"
	WarnInvalidVariantKey      WarningKind = "invalid_variant_key"
)

// StrictCoverageError reports that a candidate load was rejected under
// strict-load mode (config.RuntimeConfig.Load.Strict) because it failed one
// or more ValidateTranslations coverage checks against the reference
// language. The candidate is never installed when this error is returned.
type StrictCoverageError struct {
	Language string
	Warnings []LoadWarning
}

func (e *StrictCoverageError) Error() string {
	return fmt.Sprintf("rlf: strict load rejected %q: %d coverage warning(s)", e.Language, len(e.Warnings))
}
