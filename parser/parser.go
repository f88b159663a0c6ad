// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package parser converts RLF DSL source text into an [ast.Definition] list
// (ParseFile) or a single [ast.Template] (ParseTemplate, for ad-hoc
// evaluation). It is a hand-written recursive-descent parser operating
// directly on runes rather than a generic token stream, since the grammar's
// escape rules are context-sensitive (literal text, interpolations, and
// string literals each treat `"`, `{`, `@`, `$`, `:` differently).
//
// The parser reports structural errors only (grammar violations, malformed
// variant keys, missing/extra punctuation); semantic validation (undefined
// references, cycles, arity, shadowing) is the definition registry's job.
package parser

import "github.com/rlf-lang/rlf/ast"

// ParseFile parses a full translation file: `(definition ';')*`. origin
// identifies the source for error messages (a file path, "<macro>", or "").
func ParseFile(src, origin string) ([]*ast.Definition, error) {
	s := newScanner(src, origin)
	s.skipTrivia()

	var defs []*ast.Definition

	for !s.eof() {
		def, err := s.parseDefinition()
		if err != nil {
			return nil, err
		}

		if err := s.expect(';', "';'"); err != nil {
			return nil, err
		}

		defs = append(defs, def)

		s.skipTrivia()
	}

	return defs, nil
}

// ParseTemplate parses a single ad-hoc template (no surrounding
// definition), as used by the interpreter's eval_str entry point.
func ParseTemplate(src, origin string) (*ast.Template, error) {
	s := newScanner(src, origin)

	tmpl, err := s.parseTemplate()
	if err != nil {
		return nil, err
	}

	s.skipTrivia()

	if !s.eof() {
		return nil, s.errorf(KindUnexpectedChar, "unexpected trailing content after template")
	}

	return &tmpl, nil
}
