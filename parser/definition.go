// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package parser

import (
	"github.com/rlf-lang/rlf/ast"
)

// rawEntry is one `key(s): template` entry of a variant block, after
// multi-key shorthand has already been expanded to one key per rawEntry.
type rawEntry struct {
	Keys     []ast.VariantKeyComponent
	Template ast.Template
	Pos      ast.Position
}

type bodyKind int

const (
	bodyTemplate bodyKind = iota
	bodyBlock
)

type rawBody struct {
	kind     bodyKind
	template ast.Template
	entries  []rawEntry
}

// parseParamList parses `'(' '$' ident (',' '$' ident)* ')'`. An empty list
// (`name()`) is a structural error.
func (s *scanner) parseParamList() ([]string, error) {
	openPos := s.position()

	if err := s.expect('(', "'('"); err != nil {
		return nil, err
	}

	s.skipTrivia()

	if s.peek() == ')' {
		return nil, s.errorfAt(openPos, KindBodyShape, "empty parameter list")
	}

	var params []string

	for {
		if err := s.expect('$', "'$'"); err != nil {
			return nil, err
		}

		ident, err := s.parseIdent()
		if err != nil {
			return nil, err
		}

		params = append(params, ident)

		if s.consume(',') {
			continue
		}

		break
	}

	if err := s.expect(')', "')'"); err != nil {
		return nil, err
	}

	return params, nil
}

// parseMatchParamList parses `'(' '$' ident (',' '$' ident)* ')'` for a
// `:match(...)` modifier; at least one parameter is required.
func (s *scanner) parseMatchParamList() ([]string, error) {
	return s.parseParamList()
}

// parseTags parses `(':' ident)*` preceding '='.
func (s *scanner) parseTags() ([]string, error) {
	var tags []string

	for {
		s.skipTrivia()

		if s.peek() != ':' {
			break
		}

		s.next()

		ident, err := s.parseIdent()
		if err != nil {
			return nil, err
		}

		tags = append(tags, ident)
	}

	return tags, nil
}

// parseModifiers parses the optional `:from($p)` and/or `:match($p, ...)`
// clauses between '=' and the body.
func (s *scanner) parseModifiers() (from string, matchParams []string, err error) {
	s.skipTrivia()

	if s.peek() != ':' {
		return "", nil, nil
	}

	s.next()

	kw, err := s.parseIdent()
	if err != nil {
		return "", nil, err
	}

	switch kw {
	case "from":
		if err := s.expect('(', "'('"); err != nil {
			return "", nil, err
		}

		if err := s.expect('$', "'$'"); err != nil {
			return "", nil, err
		}

		from, err = s.parseIdent()
		if err != nil {
			return "", nil, err
		}

		if err := s.expect(')', "')'"); err != nil {
			return "", nil, err
		}

		s.skipTrivia()

		if s.peek() == ':' {
			s.next()

			kw2, err := s.parseIdent()
			if err != nil {
				return from, nil, err
			}

			if kw2 != "match" {
				return from, nil, s.errorf(KindExpected, "expected ':match' after ':from', got ':%s'", kw2)
			}

			matchParams, err = s.parseMatchParamList()
			if err != nil {
				return from, nil, err
			}
		}

		return from, matchParams, nil

	case "match":
		matchParams, err = s.parseMatchParamList()

		return "", matchParams, err

	default:
		return "", nil, s.errorf(KindExpected, "unknown definition modifier ':%s'", kw)
	}
}

// parseVariantKey parses `'*'? key_atom ('.' '*'? key_atom)*`, rejecting more
// than one '*'-marked component.
func (s *scanner) parseVariantKey() ([]ast.VariantKeyComponent, error) {
	startPos := s.position()

	var comps []ast.VariantKeyComponent

	for {
		star := s.consume('*')

		atom, err := s.parseKeyAtom()
		if err != nil {
			return nil, err
		}

		comps = append(comps, ast.VariantKeyComponent{Name: atom, Star: star})

		if s.peek() == '.' {
			s.next()

			continue
		}

		break
	}

	stars := 0

	for _, c := range comps {
		if c.Star {
			stars++
		}
	}

	if stars > 1 {
		return nil, s.errorfAt(startPos, KindDuplicateDefault, "at most one '*' is allowed within a single variant key")
	}

	return comps, nil
}

// parseKeyList parses `key (',' key)*`.
func (s *scanner) parseKeyList() ([][]ast.VariantKeyComponent, error) {
	var keys [][]ast.VariantKeyComponent

	for {
		key, err := s.parseVariantKey()
		if err != nil {
			return nil, err
		}

		keys = append(keys, key)

		s.skipTrivia()

		if s.peek() == ',' {
			s.next()

			continue
		}

		break
	}

	return keys, nil
}

// parseVariantBlock parses `'{' entry (',' entry)* ','? '}'`, expanding
// multi-key shorthand entries into one rawEntry per key.
func (s *scanner) parseVariantBlock() ([]rawEntry, error) {
	openPos := s.position()

	if err := s.expect('{', "'{'"); err != nil {
		return nil, err
	}

	s.skipTrivia()

	if s.peek() == '}' {
		s.next()

		return nil, s.errorfAt(openPos, KindBodyShape, "variant block must have at least one entry")
	}

	var entries []rawEntry

	for {
		entryPos := s.position()

		keys, err := s.parseKeyList()
		if err != nil {
			return nil, err
		}

		if err := s.expect(':', "':'"); err != nil {
			return nil, err
		}

		tmpl, err := s.parseTemplate()
		if err != nil {
			return nil, err
		}

		for _, k := range keys {
			entries = append(entries, rawEntry{Keys: k, Template: tmpl, Pos: entryPos})
		}

		s.skipTrivia()

		if s.consume(',') {
			s.skipTrivia()

			if s.peek() == '}' {
				s.next()

				break
			}

			continue
		}

		if err := s.expect('}', "'}'"); err != nil {
			return nil, err
		}

		break
	}

	return entries, nil
}

// parseBody parses `template | variant_block`.
func (s *scanner) parseBody() (rawBody, error) {
	s.skipTrivia()

	switch s.peek() {
	case '"':
		t, err := s.parseTemplate()
		if err != nil {
			return rawBody{}, err
		}

		return rawBody{kind: bodyTemplate, template: t}, nil

	case '{':
		entries, err := s.parseVariantBlock()
		if err != nil {
			return rawBody{}, err
		}

		return rawBody{kind: bodyBlock, entries: entries}, nil

	default:
		return rawBody{}, s.errorf(KindExpected, "expected a template or a variant block")
	}
}

// parseDefinition parses `ident param_list? tags? '=' modifiers? body`.
func (s *scanner) parseDefinition() (*ast.Definition, error) {
	s.skipTrivia()
	pos := s.position()

	name, err := s.parseIdent()
	if err != nil {
		return nil, err
	}

	var params []string

	hasParams := false

	s.skipTrivia()

	if s.peek() == '(' {
		hasParams = true

		params, err = s.parseParamList()
		if err != nil {
			return nil, err
		}
	}

	tags, err := s.parseTags()
	if err != nil {
		return nil, err
	}

	if err := s.expect('=', "'='"); err != nil {
		return nil, err
	}

	from, matchParams, err := s.parseModifiers()
	if err != nil {
		return nil, err
	}

	def := &ast.Definition{Name: name, Params: params, Tags: tags, From: from, Pos: pos}

	if !hasParams {
		if from != "" || matchParams != nil {
			return nil, s.errorfAt(pos, KindBodyShape, "term %q cannot use :from/:match; only phrases (with parameters) can", name)
		}

		def.Kind = ast.DefTerm

		body, err := s.parseBody()
		if err != nil {
			return nil, err
		}

		switch body.kind {
		case bodyTemplate:
			def.TermBody = &ast.TermBody{Kind: ast.BodySimple, Simple: body.template}
		case bodyBlock:
			variants := make([]ast.VariantEntry, 0, len(body.entries))
			for _, e := range body.entries {
				variants = append(variants, ast.VariantEntry{Keys: e.Keys, Template: e.Template, Pos: e.Pos})
			}

			def.TermBody = &ast.TermBody{Kind: ast.BodyVariants, Variants: variants}
		}

		return def, nil
	}

	def.Kind = ast.DefPhrase

	body, err := s.parseBody()
	if err != nil {
		return nil, err
	}

	if len(matchParams) > 0 {
		if body.kind != bodyBlock {
			return nil, s.errorfAt(pos, KindBodyShape, "phrase %q has :match but its body is not a variant block", name)
		}

		branches := make([]ast.MatchBranch, 0, len(body.entries))

		for _, e := range body.entries {
			if len(e.Keys) != len(matchParams) {
				return nil, s.errorfAt(e.Pos, KindInvalidKey,
					"match branch key has %d component(s), expected %d (one per :match parameter)", len(e.Keys), len(matchParams))
			}

			branches = append(branches, ast.MatchBranch{Keys: e.Keys, Template: e.Template, Pos: e.Pos})
		}

		def.PhraseBody = &ast.PhraseBody{Kind: ast.BodyMatch, MatchParams: matchParams, Branches: branches}

		return def, nil
	}

	if body.kind != bodyTemplate {
		return nil, s.errorfAt(pos, KindBodyShape, "phrase %q has a variant-block body but no :match modifier", name)
	}

	def.PhraseBody = &ast.PhraseBody{Kind: ast.BodySimple, Simple: body.template}

	return def, nil
}
