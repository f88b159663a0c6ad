// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package parser

import "fmt"

// Kind classifies a structural parse failure.
type Kind string

// Recognised Kind values. These are deliberately coarse; the Message carries
// the specifics a human needs, and programmatic callers should match on
// Kind rather than parse Message.
const (
	KindUnexpectedEOF      Kind = "unexpected_eof"
	KindUnexpectedChar     Kind = "unexpected_char"
	KindUnterminatedString Kind = "unterminated_string"
	KindExpected           Kind = "expected"
	KindInvalidKey         Kind = "invalid_variant_key"
	KindDuplicateDefault   Kind = "duplicate_wildcard_default"
	KindBodyShape          Kind = "invalid_body_shape"
)

// Error is a structural parse-time failure. It implements error, stringifying
// to a single line of the form "origin:line:col: message".
type Error struct {
	Origin  string
	Line    int
	Column  int
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	origin := e.Origin
	if origin == "" {
		origin = "<input>"
	}

	return fmt.Sprintf("%s:%d:%d: %s", origin, e.Line, e.Column, e.Message)
}
