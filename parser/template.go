// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rlf-lang/rlf/ast"
)

// parseTemplate parses a quoted template: '"' (text_char | escape | interpolation)* '"'.
//
// Inside literal text, `{{` and `}}` are the only escapes (producing literal
// `{`/`}`); every other character, including `:`, `@`, and `$`, is literal.
func (s *scanner) parseTemplate() (ast.Template, error) {
	startPos := s.position()

	if err := s.expect('"', "'\"'"); err != nil {
		return ast.Template{}, err
	}

	tmpl := ast.Template{Pos: startPos}

	var lit strings.Builder
	litPos := s.position()

	flush := func() {
		if lit.Len() > 0 {
			tmpl.Segments = append(tmpl.Segments, ast.Segment{
				Kind:    ast.SegLiteral,
				Literal: lit.String(),
				Pos:     litPos,
			})
			lit.Reset()
		}
	}

	for {
		if s.eof() {
			return ast.Template{}, s.errorfAt(startPos, KindUnterminatedString, "unterminated template")
		}

		r := s.peek()

		switch r {
		case '"':
			s.next()
			flush()

			return tmpl, nil

		case '{':
			if s.peekAt(1) == '{' {
				s.next()
				s.next()

				if lit.Len() == 0 {
					litPos = s.position()
				}

				lit.WriteRune('{')

				continue
			}

			flush()

			interpPos := s.position()
			s.next() // consume '{'

			interp, err := s.parseInterpolation(interpPos)
			if err != nil {
				return ast.Template{}, err
			}

			tmpl.Segments = append(tmpl.Segments, ast.Segment{
				Kind:          ast.SegInterpolation,
				Interpolation: interp,
				Pos:           interpPos,
			})

			litPos = s.position()

		case '}':
			if s.peekAt(1) == '}' {
				s.next()
				s.next()

				if lit.Len() == 0 {
					litPos = s.position()
				}

				lit.WriteRune('}')

				continue
			}

			return ast.Template{}, s.errorf(KindUnexpectedChar, "stray '}' in template; use '}}' for a literal brace")

		default:
			if lit.Len() == 0 {
				litPos = s.position()
			}

			lit.WriteRune(s.next())
		}
	}
}

// parseInterpolation parses `transform* reference selector*` up to and
// including the closing '}'. pos is the position of the opening '{'.
func (s *scanner) parseInterpolation(pos ast.Position) (*ast.Interpolation, error) {
	interp := &ast.Interpolation{Pos: pos}

	for {
		s.skipTrivia()

		if s.peek() != '@' {
			break
		}

		tr, err := s.parseTransform()
		if err != nil {
			return nil, err
		}

		interp.Transforms = append(interp.Transforms, tr)
	}

	ref, err := s.parseReference()
	if err != nil {
		return nil, err
	}

	interp.Reference = ref

	for {
		s.skipTrivia()

		if s.peek() != ':' {
			break
		}

		sel, err := s.parseSelector()
		if err != nil {
			return nil, err
		}

		interp.Selectors = append(interp.Selectors, sel)
	}

	if err := s.expect('}', "'}'"); err != nil {
		return nil, err
	}

	return interp, nil
}

// parseTransform parses `'@' ident (':' ctxchain)? ('(' '$' ident ')')?`.
// ctxchain generalises the grammar's single `ident_or_int` context to a
// dotted chain (`abl.poss1sg.pl`), as the Turkish `@inflect` example requires.
func (s *scanner) parseTransform() (ast.Transform, error) {
	pos := s.position()

	if err := s.expect('@', "'@'"); err != nil {
		return ast.Transform{}, err
	}

	name, err := s.parseIdent()
	if err != nil {
		return ast.Transform{}, err
	}

	tr := ast.Transform{Name: name, Pos: pos}

	s.skipTrivia()

	if s.peek() == ':' {
		s.next()

		ctx, err := s.parseContextChain()
		if err != nil {
			return ast.Transform{}, err
		}

		tr.Context = &ast.Selector{Kind: ast.SelLiteral, Literal: ctx, Pos: pos}
	}

	s.skipTrivia()

	if s.peek() == '(' {
		s.next()

		if err := s.expect('$', "'$'"); err != nil {
			return ast.Transform{}, err
		}

		param, err := s.parseIdent()
		if err != nil {
			return ast.Transform{}, err
		}

		if err := s.expect(')', "')'"); err != nil {
			return ast.Transform{}, err
		}

		tr.Context = &ast.Selector{Kind: ast.SelParameter, Parameter: param, Pos: pos}
	}

	return tr, nil
}

// parseContextChain parses `ident_or_int ('.' ident_or_int)*` and returns the
// joined dotted text (e.g. "abl.poss1sg.pl").
func (s *scanner) parseContextChain() (string, error) {
	var parts []string

	atom, err := s.parseKeyAtom()
	if err != nil {
		return "", err
	}

	parts = append(parts, atom)

	for s.peek() == '.' {
		s.next()

		atom, err := s.parseKeyAtom()
		if err != nil {
			return "", err
		}

		parts = append(parts, atom)
	}

	return strings.Join(parts, "."), nil
}

// parseReference parses `'$' ident | ident | ident '(' args? ')'`.
func (s *scanner) parseReference() (ast.Reference, error) {
	pos := s.position()

	if s.peek() == '$' {
		s.next()

		ident, err := s.parseIdent()
		if err != nil {
			return ast.Reference{}, err
		}

		return ast.Reference{Kind: ast.RefParameter, Ident: ident, Pos: pos}, nil
	}

	ident, err := s.parseIdent()
	if err != nil {
		return ast.Reference{}, err
	}

	implicitCap := ident != "" && unicode.IsUpper([]rune(ident)[0])

	s.skipTrivia()

	if s.peek() == '(' {
		s.next()

		args, err := s.parseArgs()
		if err != nil {
			return ast.Reference{}, err
		}

		if err := s.expect(')', "')'"); err != nil {
			return ast.Reference{}, err
		}

		return ast.Reference{Kind: ast.RefCall, Ident: ident, Args: args, ImplicitCap: implicitCap, Pos: pos}, nil
	}

	return ast.Reference{Kind: ast.RefName, Ident: ident, ImplicitCap: implicitCap, Pos: pos}, nil
}

// parseArgs parses a possibly-empty comma-separated `arg` list up to (but not
// including) the closing ')'.
func (s *scanner) parseArgs() ([]ast.Argument, error) {
	s.skipTrivia()

	if s.peek() == ')' {
		return nil, nil
	}

	var args []ast.Argument

	for {
		arg, err := s.parseArgument()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if s.consume(',') {
			continue
		}

		break
	}

	return args, nil
}

// parseArgument parses `'$' ident | ident | integer | string_lit`.
func (s *scanner) parseArgument() (ast.Argument, error) {
	s.skipTrivia()
	pos := s.position()

	switch {
	case s.peek() == '$':
		s.next()

		ident, err := s.parseIdent()
		if err != nil {
			return ast.Argument{}, err
		}

		return ast.Argument{Kind: ast.ArgParameter, Ident: ident, Pos: pos}, nil

	case s.peek() == '"':
		str, err := s.parseStringLiteral()
		if err != nil {
			return ast.Argument{}, err
		}

		return ast.Argument{Kind: ast.ArgString, Str: str, Pos: pos}, nil

	case s.peek() == '-' || unicode.IsDigit(s.peek()):
		text, err := s.parseIntegerText()
		if err != nil {
			return ast.Argument{}, err
		}

		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return ast.Argument{}, s.errorfAt(pos, KindUnexpectedChar, "invalid integer literal %q", text)
		}

		return ast.Argument{Kind: ast.ArgNumber, Number: n, Pos: pos}, nil

	default:
		ident, err := s.parseIdent()
		if err != nil {
			return ast.Argument{}, err
		}

		return ast.Argument{Kind: ast.ArgTermRef, Ident: ident, Pos: pos}, nil
	}
}

// parseStringLiteral parses a `"..."` string-literal argument, where `\"`
// and `\\` are the only escapes.
func (s *scanner) parseStringLiteral() (string, error) {
	startPos := s.position()

	if err := s.expect('"', "'\"'"); err != nil {
		return "", err
	}

	var b strings.Builder

	for {
		if s.eof() {
			return "", s.errorfAt(startPos, KindUnterminatedString, "unterminated string literal")
		}

		r := s.next()

		switch r {
		case '"':
			return b.String(), nil

		case '\\':
			if s.eof() {
				return "", s.errorfAt(startPos, KindUnterminatedString, "unterminated string literal")
			}

			esc := s.next()

			switch esc {
			case '"', '\\':
				b.WriteRune(esc)
			default:
				b.WriteRune('\\')
				b.WriteRune(esc)
			}

		default:
			b.WriteRune(r)
		}
	}
}

// parseSelector parses `':' (ident | integer | '$' ident)`.
func (s *scanner) parseSelector() (ast.Selector, error) {
	pos := s.position()

	if err := s.expect(':', "':'"); err != nil {
		return ast.Selector{}, err
	}

	if s.peek() == '$' {
		s.next()

		ident, err := s.parseIdent()
		if err != nil {
			return ast.Selector{}, err
		}

		return ast.Selector{Kind: ast.SelParameter, Parameter: ident, Pos: pos}, nil
	}

	atom, err := s.parseKeyAtom()
	if err != nil {
		return ast.Selector{}, err
	}

	return ast.Selector{Kind: ast.SelLiteral, Literal: atom, Pos: pos}, nil
}
