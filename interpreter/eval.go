// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package interpreter

import (
	"github.com/rlf-lang/rlf/ast"
	"github.com/rlf-lang/rlf/rlferr"
	"github.com/rlf-lang/rlf/transform"
	"github.com/rlf-lang/rlf/value"
)

// evalNamed resolves name in ctx.language to a Phrase, applying the cycle
// and recursion-depth guards (§4.G.1) around the call. It is the single
// path both call_phrase/get_phrase and in-template Name/Call references go
// through.
func (it *Interpreter) evalNamed(ctx *evalContext, name string, args []value.Value) (value.Phrase, error) {
	// string_context (§4.H) only ever preempts the term named directly by
	// the outermost get_phrase call, so it is consumed here, before any
	// recursive evalNamed call (a nested reference inside name's own
	// template) can see it.
	preferred := ctx.preferredVariant
	ctx.preferredVariant = ""

	def, ok := it.registry.Lookup(ctx.language, name)
	if !ok {
		return value.Phrase{}, &rlferr.PhraseNotFoundError{
			Name: name, Language: ctx.language,
			Suggestions: rlferr.Suggest(name, it.registry.Names(ctx.language)),
		}
	}

	if def.Kind == ast.DefTerm && len(args) != 0 {
		return value.Phrase{}, &rlferr.ArgumentCountError{Name: name, Expected: 0, Got: len(args)}
	}

	if def.Kind == ast.DefPhrase && len(args) != len(def.Params) {
		return value.Phrase{}, &rlferr.ArgumentCountError{Name: name, Expected: len(def.Params), Got: len(args)}
	}

	if ctx.onStack(name) {
		return value.Phrase{}, &rlferr.CyclicReferenceError{Name: name, Stack: append(append([]string{}, ctx.stack...), name)}
	}

	if ctx.depth+1 > ctx.limit {
		return value.Phrase{}, &rlferr.RecursionLimitError{Name: name, Limit: ctx.limit}
	}

	savedParams := ctx.params

	if def.Kind == ast.DefPhrase {
		params := make(map[string]value.Value, len(def.Params))
		for i, p := range def.Params {
			params[p] = args[i]
		}

		ctx.params = params
	} else {
		ctx.params = nil
	}

	ctx.stack = append(ctx.stack, name)
	ctx.depth++

	var (
		result value.Phrase
		err    error
	)

	if def.Kind == ast.DefTerm {
		result, err = it.evalTerm(ctx, def, preferred)
	} else {
		result, err = it.evalPhrase(ctx, def)
	}

	ctx.depth--
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	ctx.params = savedParams

	return result, err
}

// evalTerm renders def's term body. preferred, if non-empty and naming one
// of def's variant keys, is used in place of the declared `*` default
// variant (§4.H's string_context, already scoped to this one call by
// evalNamed).
func (it *Interpreter) evalTerm(ctx *evalContext, def *ast.Definition, preferred string) (value.Phrase, error) {
	body := def.TermBody

	if body.Kind == ast.BodySimple {
		text, err := it.renderTemplate(ctx, body.Simple, def.Name)
		if err != nil {
			return value.Phrase{}, err
		}

		return value.NewPhrase(text, nil, def.Tags), nil
	}

	variants := make(map[string]string, len(body.Variants))

	var (
		defaultKey    string
		haveDefault   bool
		havePreferred bool
	)

	for i, v := range body.Variants {
		text, err := it.renderTemplate(ctx, v.Template, def.Name)
		if err != nil {
			return value.Phrase{}, err
		}

		key := ast.CanonicalKey(v.Keys)
		variants[key] = text

		if i == 0 {
			defaultKey = key
		}

		if !haveDefault && ast.HasStar(v.Keys) {
			defaultKey = key
			haveDefault = true
		}

		if preferred != "" && key == preferred {
			havePreferred = true
		}
	}

	if havePreferred {
		defaultKey = preferred
	}

	return value.NewPhrase(variants[defaultKey], variants, def.Tags), nil
}

func (it *Interpreter) evalPhrase(ctx *evalContext, def *ast.Definition) (value.Phrase, error) {
	if def.From != "" {
		return it.evalFromPhrase(ctx, def)
	}

	body := def.PhraseBody

	if body.Kind == ast.BodyMatch {
		branch, ok := selectBranch(ctx, body)
		if !ok {
			return value.Phrase{}, &rlferr.TypeMismatchError{Op: ":match", Expected: "a declared default branch", Got: "none"}
		}

		text, err := it.renderTemplate(ctx, branch.Template, def.Name)
		if err != nil {
			return value.Phrase{}, err
		}

		return value.NewPhrase(text, nil, def.Tags), nil
	}

	text, err := it.renderTemplate(ctx, body.Simple, def.Name)
	if err != nil {
		return value.Phrase{}, err
	}

	return value.NewPhrase(text, nil, def.Tags), nil
}

// evalFromPhrase implements §4.G.6: the result inherits the `:from` source
// Phrase's tags and variant-key set, with each variant (and the default
// text) computed by re-evaluating the body under that variant's own text
// rebound to the `:from` parameter.
func (it *Interpreter) evalFromPhrase(ctx *evalContext, def *ast.Definition) (value.Phrase, error) {
	srcVal, ok := ctx.params[def.From]
	if !ok {
		return value.Phrase{}, &rlferr.UnknownParameterError{Name: def.From}
	}

	src, ok := srcVal.AsPhrase()
	if !ok {
		return value.Phrase{}, &rlferr.TypeMismatchError{Op: ":from", Expected: "Phrase", Got: kindName(srcVal.Kind())}
	}

	tags := src.Tags()
	sourceVariants := variantMapOf(src)

	renderUnder := func(text string) (string, error) {
		synthetic := value.NewPhrase(text, sourceVariants, tags)
		sub := ctx.withParam(def.From, value.FromPhrase(synthetic))

		if def.PhraseBody.Kind == ast.BodyMatch {
			branch, ok := selectBranch(sub, def.PhraseBody)
			if !ok {
				return "", &rlferr.TypeMismatchError{Op: ":match", Expected: "a declared default branch", Got: "none"}
			}

			return it.renderTemplate(sub, branch.Template, def.Name)
		}

		return it.renderTemplate(sub, def.PhraseBody.Simple, def.Name)
	}

	variants := make(map[string]string, len(sourceVariants))

	for key, text := range sourceVariants {
		rendered, err := renderUnder(text)
		if err != nil {
			return value.Phrase{}, err
		}

		variants[key] = rendered
	}

	defaultText, err := renderUnder(src.Text)
	if err != nil {
		return value.Phrase{}, err
	}

	return value.NewPhrase(defaultText, variants, tags), nil
}

func variantMapOf(p value.Phrase) map[string]string {
	m := make(map[string]string, len(p.VariantKeys()))

	for _, k := range p.VariantKeys() {
		if v, err := p.Variant(k); err == nil {
			m[k] = v
		}
	}

	return m
}

func kindName(k value.ValueKind) string {
	switch k {
	case value.KindNumber:
		return "Number"
	case value.KindFloat:
		return "Float"
	case value.KindString:
		return "String"
	case value.KindPhrase:
		return "Phrase"
	default:
		return "?"
	}
}

// renderTemplate evaluates tmpl's segments under ctx, returning the
// concatenated output. ownerName identifies the enclosing definition for
// error messages (empty for ad-hoc eval_str templates).
func (it *Interpreter) renderTemplate(ctx *evalContext, tmpl ast.Template, ownerName string) (string, error) {
	var out []byte

	for _, seg := range tmpl.Segments {
		switch seg.Kind {
		case ast.SegLiteral:
			out = append(out, seg.Literal...)

		case ast.SegInterpolation:
			s, err := it.evalInterpolation(ctx, seg.Interpolation, ownerName)
			if err != nil {
				return "", err
			}

			out = append(out, s...)
		}
	}

	return string(out), nil
}

// evalInterpolation implements §4.G.4: resolve the reference, apply the
// selector chain, then apply transforms right-to-left (innermost/last
// written first), with the capitalisation shorthand's implicit @cap applied
// last of all.
func (it *Interpreter) evalInterpolation(ctx *evalContext, interp *ast.Interpolation, ownerName string) (string, error) {
	val, err := it.resolveReference(ctx, interp.Reference, ownerName)
	if err != nil {
		return "", err
	}

	val, err = it.resolveSelectors(ctx, val, interp.Selectors, ownerName)
	if err != nil {
		return "", err
	}

	for i := len(interp.Transforms) - 1; i >= 0; i-- {
		val, err = it.applyTransform(ctx, val, interp.Transforms[i])
		if err != nil {
			return "", err
		}
	}

	if interp.Reference.ImplicitCap {
		val, err = it.applyTransform(ctx, val, ast.Transform{Name: "cap"})
		if err != nil {
			return "", err
		}
	}

	return val.String(), nil
}

func (it *Interpreter) resolveReference(ctx *evalContext, ref ast.Reference, ownerName string) (value.Value, error) {
	switch ref.Kind {
	case ast.RefParameter:
		v, ok := ctx.params[ref.Ident]
		if !ok {
			return value.Value{}, &rlferr.UnknownParameterError{
				Name: ref.Ident, Available: paramNames(ctx.params),
				Suggestions: rlferr.Suggest(ref.Ident, paramNames(ctx.params)),
			}
		}

		return v, nil

	case ast.RefName:
		p, err := it.evalNamed(ctx, ref.Ident, nil)
		if err != nil {
			return value.Value{}, err
		}

		return value.FromPhrase(p), nil

	case ast.RefCall:
		args := make([]value.Value, len(ref.Args))

		for i, a := range ref.Args {
			v, err := it.resolveArgument(ctx, a)
			if err != nil {
				return value.Value{}, err
			}

			args[i] = v
		}

		p, err := it.evalNamed(ctx, ref.Ident, args)
		if err != nil {
			return value.Value{}, err
		}

		return value.FromPhrase(p), nil

	default:
		return value.Value{}, &rlferr.TypeMismatchError{Op: "reference", Expected: "known reference kind", Got: "unknown"}
	}
}

func (it *Interpreter) resolveArgument(ctx *evalContext, arg ast.Argument) (value.Value, error) {
	switch arg.Kind {
	case ast.ArgParameter:
		v, ok := ctx.params[arg.Ident]
		if !ok {
			return value.Value{}, &rlferr.UnknownParameterError{Name: arg.Ident, Available: paramNames(ctx.params)}
		}

		return v, nil

	case ast.ArgNumber:
		return value.Number(arg.Number), nil

	case ast.ArgString:
		return value.String(arg.Str), nil

	case ast.ArgTermRef:
		p, err := it.evalNamed(ctx, arg.Ident, nil)
		if err != nil {
			return value.Value{}, err
		}

		return value.FromPhrase(p), nil

	default:
		return value.Value{}, &rlferr.TypeMismatchError{Op: "argument", Expected: "known argument kind", Got: "unknown"}
	}
}

// resolveSelectors implements §4.G.3: selectors together form one
// multi-dimensional variant key. A Phrase value is narrowed to the chosen
// variant's text (wrapped so its tags remain visible to later transforms);
// any other value kind with a non-empty selector chain is MissingVariant.
func (it *Interpreter) resolveSelectors(ctx *evalContext, val value.Value, selectors []ast.Selector, ownerName string) (value.Value, error) {
	if len(selectors) == 0 {
		return val, nil
	}

	p, ok := val.AsPhrase()
	if !ok {
		return value.Value{}, &value.MissingVariantError{PhraseName: ownerName, KeyTried: ""}
	}

	lists := make([][]string, len(selectors))

	for i, sel := range selectors {
		switch sel.Kind {
		case ast.SelLiteral:
			lists[i] = []string{sel.Literal}

		case ast.SelParameter:
			pv, ok := ctx.params[sel.Parameter]
			if !ok {
				return value.Value{}, &rlferr.UnknownParameterError{Name: sel.Parameter, Available: paramNames(ctx.params)}
			}

			lists[i] = selectorCandidates(ctx, pv)
		}
	}

	var firstCombo []string

	for idx, combo := range cartesian(lists) {
		if idx == 0 {
			firstCombo = combo
		}

		key := joinDot(combo)

		if text, err := p.Variant(key); err == nil {
			return value.FromPhrase(value.NewPhrase(text, nil, p.Tags())), nil
		}
	}

	return value.Value{}, &value.MissingVariantError{
		PhraseName: ownerName,
		KeyTried:   joinDot(firstCombo),
		Available:  p.VariantKeys(),
	}
}

func (it *Interpreter) applyTransform(ctx *evalContext, val value.Value, tr ast.Transform) (value.Value, error) {
	fn, err := it.transforms.Lookup(tr.Name, ctx.language)
	if err != nil {
		return value.Value{}, err
	}

	var tctx *transform.Context

	if tr.Context != nil {
		switch tr.Context.Kind {
		case ast.SelLiteral:
			tctx = &transform.Context{Text: tr.Context.Literal}

		case ast.SelParameter:
			pv, ok := ctx.params[tr.Context.Parameter]
			if !ok {
				return value.Value{}, &rlferr.UnknownParameterError{Name: tr.Context.Parameter, Available: paramNames(ctx.params)}
			}

			tctx = &transform.Context{Value: pv, IsDynamic: true}
		}
	}

	out, err := fn(val, tctx, ctx.language)
	if err != nil {
		return value.Value{}, err
	}

	return value.String(out), nil
}
