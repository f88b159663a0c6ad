// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package value defines the host-facing data model shared by every other
// RLF package: the tagged parameter union [Value] and the compiled
// translation result [Phrase]. It sits at the bottom of the import graph
// (depending on nothing else in this module) so that package registry,
// package interpreter, and the root package rlf can all depend on it
// without creating a cycle.
package value

import "fmt"

// ValueKind discriminates Value.
type ValueKind int

// Recognised ValueKind values.
const (
	KindNumber ValueKind = iota
	KindFloat
	KindString
	KindPhrase
)

// Value is the tagged union of parameter types RLF accepts: Number(int64),
// Float(float64), String(string), or Phrase. It is a plain struct rather than
// an `any`, so a caller can never silently hand the interpreter a Go value of
// an unsupported type and have it coerce to a zero value.
//
// Implicit conversions happen only at the host-API boundary (the
// constructors below and [Params]); within the interpreter, values never
// coerce except where §4.G of the specification documents a rule (e.g.
// truncating a float to an int64 for plural-category lookup).
type Value struct {
	kind   ValueKind
	number int64
	float  float64
	str    string
	phrase Phrase
}

// Number constructs an integer Value.
func Number(n int64) Value { return Value{kind: KindNumber, number: n} }

// Float constructs a floating-point Value.
func Float(f float64) Value { return Value{kind: KindFloat, float: f} }

// String constructs a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// FromPhrase constructs a Value wrapping a Phrase (e.g. a term reference
// passed as a call argument).
func FromPhrase(p Phrase) Value { return Value{kind: KindPhrase, phrase: p} }

// Kind reports which alternative v holds.
func (v Value) Kind() ValueKind { return v.kind }

// AsNumber returns v's integer payload and whether v.Kind() == KindNumber.
func (v Value) AsNumber() (int64, bool) { return v.number, v.kind == KindNumber }

// AsFloat returns v's float payload and whether v.Kind() == KindFloat.
func (v Value) AsFloat() (float64, bool) { return v.float, v.kind == KindFloat }

// AsString returns v's string payload and whether v.Kind() == KindString.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsPhrase returns v's Phrase payload and whether v.Kind() == KindPhrase.
func (v Value) AsPhrase() (Phrase, bool) { return v.phrase, v.kind == KindPhrase }

// String renders v for diagnostics; it is not used to produce interpolation
// output (the interpreter's own rendering rules apply there).
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return fmt.Sprintf("%d", v.number)
	case KindFloat:
		return fmt.Sprintf("%g", v.float)
	case KindString:
		return v.str
	case KindPhrase:
		return v.phrase.Text
	default:
		return ""
	}
}

// Params builds a parameter map from alternating key/value pairs, the way
// the `params!` convenience in the specification's host-language surface
// does. It panics on programmer error (odd argument count, non-string key,
// or a value with no Into[Value] conversion), mirroring the teacher's own
// `i18n.v` helper.
func Params(kv ...any) map[string]Value {
	if len(kv)%2 != 0 {
		panic("value.Params: odd number of arguments, want key, value pairs")
	}

	m := make(map[string]Value, len(kv)/2)

	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("value.Params: key must be a string")
		}

		m[key] = toValue(kv[i+1])
	}

	return m
}

// toValue converts a host value into Value, panicking for unsupported types.
func toValue(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case Phrase:
		return FromPhrase(x)
	case string:
		return String(x)
	case int:
		return Number(int64(x))
	case int32:
		return Number(int64(x))
	case int64:
		return Number(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	default:
		panic(fmt.Sprintf("value.Params: unsupported value type %T", v))
	}
}
