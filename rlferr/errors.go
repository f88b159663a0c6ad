// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package rlferr defines the evaluation-time error kinds the interpreter and
// registry raise (PhraseNotFound, UnknownParameter, MissingTag,
// UnknownTransform, ArgumentCount, CyclicReference, RecursionLimit,
// TypeMismatch), plus the did-you-mean suggestion helper shared by all of
// them. It imports no other package of this module, so both package value
// and package rlferr can be imported by registry/interpreter/rlf without a
// cycle.
//
// MissingVariantError is the one exception: it lives on [value.Phrase]
// itself, since it is constructed directly from a Phrase's own variant
// table rather than from registry/interpreter state.
package rlferr

import (
	"fmt"
	"strings"
)

// PhraseNotFoundError reports that name has no definition registered for the
// current language.
type PhraseNotFoundError struct {
	Origin      string
	Name        string
	Language    string
	Suggestions []string
}

func (e *PhraseNotFoundError) Error() string {
	msg := fmt.Sprintf("%sphrase %q not found for language %q", origin(e.Origin), e.Name, e.Language)

	return msg + suggestionSuffix(e.Suggestions)
}

// UnknownParameterError reports a reference to `$p` with no matching bound
// argument.
type UnknownParameterError struct {
	Origin      string
	Name        string
	Available   []string
	Suggestions []string
}

func (e *UnknownParameterError) Error() string {
	msg := fmt.Sprintf("%sunknown parameter %q", origin(e.Origin), e.Name)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (bound: %s)", strings.Join(e.Available, ", "))
	}

	return msg + suggestionSuffix(e.Suggestions)
}

// MissingTagError reports that a transform required a tag a value's Phrase
// does not carry.
type MissingTagError struct {
	Origin    string
	Transform string
	Required  []string
	Available []string
}

func (e *MissingTagError) Error() string {
	return fmt.Sprintf("%stransform %q requires one of tags [%s]; value carries [%s]",
		origin(e.Origin), e.Transform, strings.Join(e.Required, ", "), strings.Join(e.Available, ", "))
}

// UnknownTransformError reports a `@name` with no registered implementation
// for the current language (or for any language, if name is unknown
// entirely).
type UnknownTransformError struct {
	Origin      string
	Name        string
	Language    string
	Suggestions []string
}

func (e *UnknownTransformError) Error() string {
	msg := fmt.Sprintf("%sunknown transform %q for language %q", origin(e.Origin), e.Name, e.Language)

	return msg + suggestionSuffix(e.Suggestions)
}

// ArgumentCountError reports a call_phrase/term-reference arity mismatch.
type ArgumentCountError struct {
	Origin   string
	Name     string
	Expected int
	Got      int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("%s%q expects %d argument(s), got %d", origin(e.Origin), e.Name, e.Expected, e.Got)
}

// CyclicReferenceError reports that evaluation re-entered a definition
// already on the active call stack.
type CyclicReferenceError struct {
	Origin string
	Name   string
	Stack  []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("%scyclic reference to %q (call stack: %s)", origin(e.Origin), e.Name, strings.Join(e.Stack, " -> "))
}

// RecursionLimitError reports that evaluation exceeded the configured depth
// ceiling.
type RecursionLimitError struct {
	Origin string
	Name   string
	Limit  int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("%srecursion limit (%d) exceeded evaluating %q", origin(e.Origin), e.Limit, e.Name)
}

// TypeMismatchError reports an operation applied to a Value of the wrong
// kind, e.g. `:from($p)` where $p is not a Phrase.
type TypeMismatchError struct {
	Origin   string
	Op       string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s%s requires a %s value, got %s", origin(e.Origin), e.Op, e.Expected, e.Got)
}

func origin(o string) string {
	if o == "" {
		return ""
	}

	return o + ": "
}

func suggestionSuffix(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}

	return fmt.Sprintf(" (did you mean: %s?)", strings.Join(suggestions, ", "))
}

// Suggest returns up to 3 candidates whose Levenshtein distance from target
// is within the length-scaled threshold (<=1 for targets of 3 runes or
// fewer, <=2 otherwise), sorted by increasing distance then lexically.
func Suggest(target string, candidates []string) []string {
	threshold := 2
	if len([]rune(target)) <= 3 {
		threshold = 1
	}

	type scored struct {
		name string
		dist int
	}

	var matches []scored

	for _, c := range candidates {
		if c == target {
			continue
		}

		d := levenshtein(target, c)
		if d <= threshold {
			matches = append(matches, scored{c, d})
		}
	}

	// Insertion sort: the input sets are small (definition/parameter
	// counts), and this keeps the comparator trivial to read.
	for i := 1; i < len(matches); i++ {
		j := i
		for j > 0 && less(matches[j], matches[j-1]) {
			matches[j], matches[j-1] = matches[j-1], matches[j]
			j--
		}
	}

	if len(matches) > 3 {
		matches = matches[:3]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}

	return out
}

func less(a, b struct {
	name string
	dist int
}) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}

	return a.name < b.name
}

// levenshtein computes the rune-wise edit distance between a and b.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i

		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			m := del
			if ins < m {
				m = ins
			}

			if sub < m {
				m = sub
			}

			curr[j] = m
		}

		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
