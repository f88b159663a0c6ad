// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package registry

import (
	"github.com/rlf-lang/rlf/ast"
	"github.com/rlf-lang/rlf/value"
)

// validate performs the §4.F second pass: name collection, reference
// resolution, arity, shadowing, and match-default checks, then cycle
// detection over the resulting reference graph. It returns a committed
// langRegistry only if every definition passes.
func validate(defs []*ast.Definition) (*langRegistry, error) {
	byName := make(map[string]*ast.Definition, len(defs))

	for _, def := range defs {
		if _, dup := byName[def.Name]; dup {
			return nil, &Error{Line: def.Pos.Line, Column: def.Pos.Column,
				Kind: KindDuplicateName, Name: def.Name, Message: "duplicate definition name " + def.Name}
		}

		byName[def.Name] = def
	}

	for _, def := range defs {
		if err := validateDefinition(def, byName); err != nil {
			return nil, err
		}
	}

	graph := buildGraph(defs, byName)
	if cyc := findCycle(graph); cyc != nil {
		return nil, &Error{Kind: KindCycle, Name: cyc[0],
			Message: "cyclic reference among definitions: " + joinArrow(cyc)}
	}

	ids := make(map[value.PhraseId]string, len(defs))

	for name := range byName {
		id := value.PhraseIdFromName(name)
		if existing, collide := ids[id]; collide && existing != name {
			return nil, &Error{Kind: KindIdCollision, Name: name,
				Message: "PhraseId collision between " + existing + " and " + name}
		}

		ids[id] = name
	}

	return &langRegistry{defs: byName, ids: ids}, nil
}

func joinArrow(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += " -> "
		}

		s += n
	}

	return s
}

// validateDefinition checks the invariants local to one definition that
// require knowledge of the whole batch: parameter shadowing, :from/:match
// target validity, and per-dimension match-default coverage.
func validateDefinition(def *ast.Definition, byName map[string]*ast.Definition) error {
	seenParam := make(map[string]bool, len(def.Params))

	for _, p := range def.Params {
		if seenParam[p] {
			return &Error{Line: def.Pos.Line, Column: def.Pos.Column,
				Kind: KindDuplicateParam, Name: def.Name, Message: "duplicate parameter $" + p + " in " + def.Name}
		}

		seenParam[p] = true

		if _, shadow := byName[p]; shadow {
			return &Error{Line: def.Pos.Line, Column: def.Pos.Column,
				Kind: KindParamShadow, Name: def.Name, Message: "parameter $" + p + " shadows definition name " + p}
		}
	}

	if def.Kind == ast.DefPhrase {
		if def.From != "" && !seenParam[def.From] {
			return &Error{Line: def.Pos.Line, Column: def.Pos.Column,
				Kind: KindFromNotParam, Name: def.Name, Message: ":from($" + def.From + ") target is not a declared parameter"}
		}

		if def.PhraseBody.Kind == ast.BodyMatch {
			for _, mp := range def.PhraseBody.MatchParams {
				if !seenParam[mp] {
					return &Error{Line: def.Pos.Line, Column: def.Pos.Column,
						Kind: KindMatchParamInvalid, Name: def.Name, Message: ":match parameter $" + mp + " is not a declared parameter"}
				}
			}

			if err := validateMatchDefaults(def); err != nil {
				return err
			}
		}

		if err := validateTemplateRefs(def.Name, def.PhraseBody.Simple, byName, def.Params); err != nil {
			return err
		}

		for _, b := range def.PhraseBody.Branches {
			if err := validateTemplateRefs(def.Name, b.Template, byName, def.Params); err != nil {
				return err
			}
		}

		return nil
	}

	if err := validateTemplateRefs(def.Name, def.TermBody.Simple, byName, nil); err != nil {
		return err
	}

	for _, v := range def.TermBody.Variants {
		if err := validateTemplateRefs(def.Name, v.Template, byName, nil); err != nil {
			return err
		}
	}

	return nil
}

// validateMatchDefaults enforces that, for each match dimension, exactly
// one branch marks that dimension's key component with '*', and that the
// branch composed entirely of those defaults is itself declared (the
// overall fallback branch §4.G.5 step 5 relies on).
func validateMatchDefaults(def *ast.Definition) error {
	dims := len(def.PhraseBody.MatchParams)
	defaultAtom := make([]string, dims)
	defaultCount := make([]int, dims)

	for _, b := range def.PhraseBody.Branches {
		for d := 0; d < dims && d < len(b.Keys); d++ {
			if b.Keys[d].Star {
				defaultCount[d]++
				defaultAtom[d] = b.Keys[d].Name
			}
		}
	}

	for d := 0; d < dims; d++ {
		if defaultCount[d] != 1 {
			return &Error{Kind: KindMissingDefault, Name: def.Name,
				Message: "match dimension " + def.PhraseBody.MatchParams[d] + " of " + def.Name + " must have exactly one '*' default branch"}
		}
	}

	for _, b := range def.PhraseBody.Branches {
		if matchesAll(b.Keys, defaultAtom) {
			return nil
		}
	}

	return &Error{Kind: KindMissingDefault, Name: def.Name,
		Message: "match block in " + def.Name + " has no branch covering the all-default key combination"}
}

func matchesAll(keys []ast.VariantKeyComponent, atoms []string) bool {
	if len(keys) != len(atoms) {
		return false
	}

	for i, k := range keys {
		if k.Name != atoms[i] {
			return false
		}
	}

	return true
}

// validateTemplateRefs walks every interpolation in tmpl, resolving
// non-parameter references against byName and checking arity/call-shape.
func validateTemplateRefs(ownerName string, tmpl ast.Template, byName map[string]*ast.Definition, params []string) error {
	isParam := make(map[string]bool, len(params))
	for _, p := range params {
		isParam[p] = true
	}

	for _, seg := range tmpl.Segments {
		if seg.Kind != ast.SegInterpolation {
			continue
		}

		ref := seg.Interpolation.Reference

		switch ref.Kind {
		case ast.RefParameter:
			if !isParam[ref.Ident] {
				return &Error{Origin: "", Line: seg.Pos.Line, Column: seg.Pos.Column,
					Kind: KindUnresolvedRef, Name: ownerName, Message: "unbound parameter $" + ref.Ident + " in " + ownerName}
			}

		case ast.RefName:
			target, ok := byName[ref.Ident]
			if !ok {
				return &Error{Line: seg.Pos.Line, Column: seg.Pos.Column,
					Kind: KindUnresolvedRef, Name: ownerName, Message: "undefined reference to " + ref.Ident + " in " + ownerName}
			}

			if target.Kind == ast.DefPhrase && len(target.Params) > 0 {
				return &Error{Line: seg.Pos.Line, Column: seg.Pos.Column,
					Kind: KindPhraseBareCall, Name: ownerName,
					Message: "phrase " + ref.Ident + " requires call syntax (has parameters), referenced bare in " + ownerName}
			}

		case ast.RefCall:
			target, ok := byName[ref.Ident]
			if !ok {
				return &Error{Line: seg.Pos.Line, Column: seg.Pos.Column,
					Kind: KindUnresolvedRef, Name: ownerName, Message: "undefined reference to " + ref.Ident + " in " + ownerName}
			}

			if target.Kind == ast.DefTerm {
				return &Error{Line: seg.Pos.Line, Column: seg.Pos.Column,
					Kind: KindTermCalled, Name: ownerName, Message: "term " + ref.Ident + " cannot be called with (), referenced in " + ownerName}
			}

			if len(target.Params) != len(ref.Args) {
				return &Error{Line: seg.Pos.Line, Column: seg.Pos.Column,
					Kind: KindArity, Name: ownerName,
					Message: "call to " + ref.Ident + " in " + ownerName + " passes wrong argument count"}
			}

			for _, arg := range ref.Args {
				if arg.Kind == ast.ArgParameter && !isParam[arg.Ident] {
					return &Error{Line: seg.Pos.Line, Column: seg.Pos.Column,
						Kind: KindUnresolvedRef, Name: ownerName, Message: "unbound parameter $" + arg.Ident + " in " + ownerName}
				}

				if arg.Kind == ast.ArgTermRef {
					termTarget, ok := byName[arg.Ident]
					if !ok {
						return &Error{Line: seg.Pos.Line, Column: seg.Pos.Column,
							Kind: KindUnresolvedRef, Name: ownerName, Message: "undefined term reference " + arg.Ident + " in " + ownerName}
					}

					if termTarget.Kind != ast.DefTerm {
						return &Error{Line: seg.Pos.Line, Column: seg.Pos.Column,
							Kind: KindArity, Name: ownerName, Message: arg.Ident + " is not a term, cannot pass as a bare argument in " + ownerName}
					}
				}
			}
		}
	}

	return nil
}

// buildGraph builds the reference graph used for cycle detection: an edge
// ownerName -> targetName for every Name/Call reference and every
// term-reference argument a definition's templates contain.
func buildGraph(defs []*ast.Definition, byName map[string]*ast.Definition) map[string][]string {
	graph := make(map[string][]string, len(defs))

	for _, def := range defs {
		var edges []string

		collect := func(tmpl ast.Template) {
			for _, seg := range tmpl.Segments {
				if seg.Kind != ast.SegInterpolation {
					continue
				}

				ref := seg.Interpolation.Reference

				switch ref.Kind {
				case ast.RefName, ast.RefCall:
					if _, ok := byName[ref.Ident]; ok {
						edges = append(edges, ref.Ident)
					}
				}

				for _, arg := range ref.Args {
					if arg.Kind == ast.ArgTermRef {
						if _, ok := byName[arg.Ident]; ok {
							edges = append(edges, arg.Ident)
						}
					}
				}
			}
		}

		if def.Kind == ast.DefTerm {
			collect(def.TermBody.Simple)

			for _, v := range def.TermBody.Variants {
				collect(v.Template)
			}
		} else {
			collect(def.PhraseBody.Simple)

			for _, b := range def.PhraseBody.Branches {
				collect(b.Template)
			}
		}

		graph[def.Name] = edges
	}

	return graph
}

// findCycle runs Tarjan's strongly-connected-components algorithm over
// graph and returns the member names of the first non-trivial SCC found
// (a true cycle), or nil if the graph is acyclic. A self-loop (a definition
// referencing itself) also counts.
func findCycle(graph map[string][]string) []string {
	var (
		index   int
		stack   []string
		onStack = make(map[string]bool)
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		result  []string
	)

	var strongconnect func(v string) bool

	strongconnect = func(v string) bool {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, ok := indices[w]; !ok {
				if strongconnect(w) {
					return true
				}

				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string

			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)

				if w == v {
					break
				}
			}

			if len(scc) > 1 || selfLoop(graph, v) {
				result = scc

				return true
			}
		}

		return false
	}

	names := make([]string, 0, len(graph))
	for n := range graph {
		names = append(names, n)
	}

	for _, n := range names {
		if _, ok := indices[n]; !ok {
			if strongconnect(n) {
				return result
			}
		}
	}

	return nil
}

func selfLoop(graph map[string][]string, v string) bool {
	for _, w := range graph[v] {
		if w == v {
			return true
		}
	}

	return false
}
