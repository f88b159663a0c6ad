// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package interpreter

import (
	"math"
	"strconv"
	"strings"

	"github.com/rlf-lang/rlf/ast"
	"github.com/rlf-lang/rlf/value"
)

// selectorCandidates returns v's ordered candidate key components for one
// selector dimension: exact text before the CLDR plural category, tags in
// declaration order for a Phrase, or the literal string (plus its CLDR
// category, if it parses as an integer).
func selectorCandidates(c *evalContext, v value.Value) []string {
	switch v.Kind() {
	case value.KindNumber:
		n, _ := v.AsNumber()

		return []string{strconv.FormatInt(n, 10), string(c.plural.Of(c.language, n))}

	case value.KindFloat:
		f, _ := v.AsFloat()
		n := int64(math.Trunc(f))

		return []string{strconv.FormatInt(n, 10), string(c.plural.Of(c.language, n))}

	case value.KindString:
		s, _ := v.AsString()

		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return []string{s, string(c.plural.Of(c.language, n))}
		}

		return []string{s}

	case value.KindPhrase:
		p, _ := v.AsPhrase()

		return p.Tags()

	default:
		return nil
	}
}

// matchCandidates mirrors selectorCandidates for :match parameter
// resolution (§4.G.5), which is defined slightly differently: no
// exact-then-CLDR split is documented for strings, and a float is not
// called out separately (truncated and treated as a number).
func matchCandidates(c *evalContext, v value.Value) []string {
	switch v.Kind() {
	case value.KindNumber:
		n, _ := v.AsNumber()

		return []string{strconv.FormatInt(n, 10), string(c.plural.Of(c.language, n))}

	case value.KindFloat:
		f, _ := v.AsFloat()
		n := int64(math.Trunc(f))

		return []string{strconv.FormatInt(n, 10), string(c.plural.Of(c.language, n))}

	case value.KindString:
		s, _ := v.AsString()

		return []string{s}

	case value.KindPhrase:
		p, _ := v.AsPhrase()

		return p.Tags()

	default:
		return nil
	}
}

// cartesian produces the ordered cartesian product of lists, varying the
// last dimension fastest, which is the priority order §4.G.3/§4.G.5 both
// specify for candidate-key generation.
func cartesian(lists [][]string) [][]string {
	if len(lists) == 0 {
		return [][]string{{}}
	}

	rest := cartesian(lists[1:])
	out := make([][]string, 0, len(lists[0])*len(rest))

	for _, head := range lists[0] {
		for _, tail := range rest {
			combo := make([]string, 0, 1+len(tail))
			combo = append(combo, head)
			combo = append(combo, tail...)
			out = append(out, combo)
		}
	}

	return out
}

// matchDefaultAtoms returns, for each match dimension, the '*'-marked atom
// used as that dimension's fallback (validated to be unique per dimension
// at load time).
func matchDefaultAtoms(body *ast.PhraseBody) []string {
	dims := len(body.MatchParams)
	atoms := make([]string, dims)

	for _, b := range body.Branches {
		for d := 0; d < dims && d < len(b.Keys); d++ {
			if b.Keys[d].Star {
				atoms[d] = b.Keys[d].Name
			}
		}
	}

	return atoms
}

// branchMatches reports whether branch's key components equal combo
// positionally.
func branchMatches(keys []ast.VariantKeyComponent, combo []string) bool {
	if len(keys) != len(combo) {
		return false
	}

	for i, k := range keys {
		if k.Name != combo[i] {
			return false
		}
	}

	return true
}

// selectBranch implements §4.G.5: try every cartesian candidate combination
// in priority order, then fall back dimension-by-dimension (left to right)
// to that dimension's '*' default, finally landing on the fully-default
// combination that load-time validation guarantees is declared.
func selectBranch(c *evalContext, body *ast.PhraseBody) (*ast.MatchBranch, bool) {
	lists := make([][]string, len(body.MatchParams))

	for i, mp := range body.MatchParams {
		lists[i] = matchCandidates(c, c.params[mp])
	}

	for _, combo := range cartesian(lists) {
		if b, ok := findBranch(body, combo); ok {
			return b, true
		}
	}

	defaults := matchDefaultAtoms(body)

	if len(lists) == 0 {
		return nil, false
	}

	combo := make([]string, len(lists))
	for i, l := range lists {
		if len(l) > 0 {
			combo[i] = l[0]
		}
	}

	for d := range combo {
		if b, ok := findBranch(body, combo); ok {
			return b, true
		}

		combo[d] = defaults[d]
	}

	return findBranch(body, combo)
}

func findBranch(body *ast.PhraseBody, combo []string) (*ast.MatchBranch, bool) {
	for i := range body.Branches {
		if branchMatches(body.Branches[i].Keys, combo) {
			return &body.Branches[i], true
		}
	}

	return nil, false
}

// joinDot joins key components with '.', the canonical variant-key
// separator.
func joinDot(parts []string) string {
	return strings.Join(parts, ".")
}
