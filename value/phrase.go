// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package value

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// VariantKey is a dot-joined variant key such as "nom.one". Valid keys are
// non-empty and contain only ASCII lowercase letters, digits, underscores,
// and dots (dots separate dimensions).
type VariantKey string

// Tag is a piece of metadata attached to a term, such as "a" or "fem". Valid
// tags are non-empty and contain only ASCII lowercase letters, digits, and
// underscores (no dots).
type Tag string

// Valid reports whether k is well-formed per the grammar above.
func (k VariantKey) Valid() bool {
	return isValidKeyLike(string(k), true)
}

// Valid reports whether t is well-formed per the grammar above.
func (t Tag) Valid() bool {
	return isValidKeyLike(string(t), false)
}

func isValidKeyLike(s string, allowDot bool) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		case r == '.' && allowDot:
		default:
			return false
		}
	}

	return true
}

// Phrase is the canonical runtime value returned from any evaluation: a
// default rendering, a set of named/numeric variant forms, and an ordered
// list of tags. Phrase values are immutable once constructed.
type Phrase struct {
	// Text is the default rendering, derived from the '*'-marked variant or,
	// absent one, the first declared variant.
	Text string

	variants map[string]string
	tags     []string
}

// NewPhrase constructs a Phrase, defensively copying variants and tags so the
// result is safe to share by value. Variants with an empty key are dropped,
// and repeated tags are kept only at their first occurrence.
func NewPhrase(text string, variants map[string]string, tags []string) Phrase {
	v := make(map[string]string, len(variants))

	for k, val := range variants {
		if k == "" {
			continue
		}

		v[k] = val
	}

	t := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}

		seen[tag] = struct{}{}
		t = append(t, tag)
	}

	return Phrase{Text: text, variants: v, tags: t}
}

// String implements fmt.Stringer: a Phrase displays as its Text.
func (p Phrase) String() string { return p.Text }

// Tags returns p's tags in declaration order. The returned slice is a copy.
func (p Phrase) Tags() []string {
	out := make([]string, len(p.tags))
	copy(out, p.tags)

	return out
}

// HasTag reports whether p carries tag.
func (p Phrase) HasTag(tag string) bool {
	for _, t := range p.tags {
		if t == tag {
			return true
		}
	}

	return false
}

// VariantKeys returns the sorted set of variant keys p carries, for use in
// MissingVariant error messages ("available alternatives").
func (p Phrase) VariantKeys() []string {
	keys := make([]string, 0, len(p.variants))
	for k := range p.variants {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// MissingVariantError reports that no prefix of a requested variant key
// matched any variant a Phrase carries, even after wildcard fallback. It
// lives alongside Phrase, rather than in package rlferr with the rest of the
// evaluation error surface, because it is constructed directly from a
// Phrase's own variant table and needs no registry/interpreter context.
type MissingVariantError struct {
	PhraseName string
	KeyTried   string
	Available  []string
}

func (e *MissingVariantError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("phrase %q has no variant matching %q (and carries no variants)", e.PhraseName, e.KeyTried)
	}

	return fmt.Sprintf("phrase %q has no variant matching %q; available: %s", e.PhraseName, e.KeyTried, strings.Join(e.Available, ", "))
}

// Variant returns the variant text matching key, falling back by repeatedly
// stripping the trailing ".<segment>" component until a match is found
// (wildcard fallback). It fails with a *MissingVariantError if no prefix of
// key matches. The caller (typically package interpreter) is responsible for
// filling in PhraseName, which Phrase itself does not know.
func (p Phrase) Variant(key string) (string, error) {
	candidate := key

	for {
		if v, ok := p.variants[candidate]; ok {
			return v, nil
		}

		idx := strings.LastIndexByte(candidate, '.')
		if idx < 0 {
			return "", &MissingVariantError{
				PhraseName: "",
				KeyTried:   key,
				Available:  p.VariantKeys(),
			}
		}

		candidate = candidate[:idx]
	}
}

// PhraseId is a 128-bit FNV-1a identifier of a definition name: comparable,
// hashable, and serializable (it is a plain [2]uint64 array, directly usable
// as a map key). It is computed at registry-load time rather than derived as
// a compile-time constant, since Go has no const-evaluable FNV primitive.
type PhraseId [2]uint64

// PhraseIdFromName computes the 128-bit FNV-1a hash of name.
func PhraseIdFromName(name string) PhraseId {
	h := fnv.New128a()
	_, _ = h.Write([]byte(name))

	sum := h.Sum(nil)

	return PhraseId{
		binary.BigEndian.Uint64(sum[0:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	}
}
