// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package interpreter

import (
	"github.com/rlf-lang/rlf/plural"
	"github.com/rlf-lang/rlf/value"
)

// evalContext is the mutable evaluation environment threaded through one
// eval_str/call_phrase/get_phrase call: the current language, the active
// parameter bindings, the call stack used for cycle detection, and the
// depth counter checked against the configured recursion ceiling.
//
// A single evalContext is mutated in place across a recursive evaluation
// rather than copied per call frame: evaluation is single-threaded and
// synchronous (see the concurrency model), so save/restore of params
// around a nested call is sufficient and avoids reallocating the stack
// slice on every frame.
type evalContext struct {
	language string
	params   map[string]value.Value
	stack    []string
	depth    int
	limit    int
	plural   *plural.Cache

	// preferredVariant is get_phrase's string_context key (§4.H), honored
	// only for the term named directly by get_phrase, not for any term a
	// template goes on to reference. evalNamed clears it the instant it
	// dispatches so nested references never see a stale value.
	preferredVariant string
}

func newEvalContext(language string, limit int) *evalContext {
	return &evalContext{
		language: language,
		params:   make(map[string]value.Value),
		limit:    limit,
		plural:   plural.NewCache(),
	}
}

func (c *evalContext) onStack(name string) bool {
	for _, n := range c.stack {
		if n == name {
			return true
		}
	}

	return false
}

// withParam returns a shallow copy of c's parameter bindings with name
// rebound to v, used for :from's per-variant rebinding (§4.G.6). The
// original map is left untouched so sibling variant evaluations don't see
// each other's rebinding.
func (c *evalContext) withParam(name string, v value.Value) *evalContext {
	params := make(map[string]value.Value, len(c.params)+1)
	for k, val := range c.params {
		params[k] = val
	}

	params[name] = v

	child := *c
	child.params = params

	return &child
}

func paramNames(params map[string]value.Value) []string {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}

	return names
}
