// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package rlf

import (
	"github.com/rlf-lang/rlf/rlferr"
	"github.com/rlf-lang/rlf/value"
)

// Value, Phrase, and the identifier/key types used throughout the public
// API are defined in package value, which sits below package rlf in the
// import graph (rlf imports registry and interpreter, which in turn import
// value; value itself imports nothing in this module). These aliases let
// callers write rlf.Value/rlf.Phrase without reaching into the subpackage.
type (
	Value      = value.Value
	ValueKind  = value.ValueKind
	Phrase     = value.Phrase
	VariantKey = value.VariantKey
	Tag        = value.Tag
)

// PhraseId is a defined type over value.PhraseId, rather than an alias
// like the others above: it needs to carry the Tr method (translatable.go)
// so a PhraseId can implement Translatable, and Go only allows new methods
// on a type defined in the same package as the method.
type PhraseId value.PhraseId

// ValueKind constants, re-exported for the same reason as the type aliases.
const (
	KindNumber = value.KindNumber
	KindFloat  = value.KindFloat
	KindString = value.KindString
	KindPhrase = value.KindPhrase
)

// Constructors and helpers re-exported from package value.
var (
	Number     = value.Number
	Float      = value.Float
	String     = value.String
	FromPhrase = value.FromPhrase
	NewPhrase  = value.NewPhrase
	Params     = value.Params
)

// PhraseIdFromName computes the 128-bit FNV-1a PhraseId of name.
func PhraseIdFromName(name string) PhraseId {
	return PhraseId(value.PhraseIdFromName(name))
}

// Evaluation error types, re-exported from package rlferr (and, for
// MissingVariantError, package value). Callers that only need to
// errors.As-match a kind can do so against these names instead of importing
// the subpackages directly.
type (
	PhraseNotFoundError   = rlferr.PhraseNotFoundError
	UnknownParameterError = rlferr.UnknownParameterError
	MissingVariantError   = value.MissingVariantError
	MissingTagError       = rlferr.MissingTagError
	UnknownTransformError = rlferr.UnknownTransformError
	ArgumentCountError    = rlferr.ArgumentCountError
	CyclicReferenceError  = rlferr.CyclicReferenceError
	RecursionLimitError   = rlferr.RecursionLimitError
	TypeMismatchError     = rlferr.TypeMismatchError
)
