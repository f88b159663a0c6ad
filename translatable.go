// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package rlf

import "github.com/rlf-lang/rlf/value"

// Translatable is a value that can render itself in a given language
// against the package-level global Locale (see SetGlobal/GlobalLocale),
// mirroring the teacher's i18n.Translatable/i18n.MsgKey pair for ergonomic
// call sites that don't want to hold a *Locale directly.
type Translatable interface {
	Tr(language string) string
}

// Name is a zero-parameter term or phrase's declared name. Tr resolves it
// against the global Locale; a lookup failure renders as "!name!" rather
// than panicking, the same "visibly wrapped" failure mode the teacher's
// own strict-missing-keys mode uses.
type Name string

// Tr implements Translatable.
func (n Name) Tr(language string) string {
	phrase, err := GlobalLocale().trByName(string(n), language)
	if err != nil {
		return "!" + string(n) + "!"
	}

	return phrase.Text
}

// Tr implements Translatable for a PhraseId: it resolves id back to the
// definition name that produced it (via the global Locale's registry) and
// renders that definition, failing the same visible way Name does when id
// is unknown for language.
func (id PhraseId) Tr(language string) string {
	loc := GlobalLocale()

	name, ok := loc.registry.NameForId(language, value.PhraseId(id))
	if !ok {
		return "!unknown-phrase-id!"
	}

	phrase, err := loc.trByName(name, language)
	if err != nil {
		return "!" + name + "!"
	}

	return phrase.Text
}
