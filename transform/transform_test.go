// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package transform

import (
	"testing"

	"github.com/rlf-lang/rlf/rlferr"
	"github.com/rlf-lang/rlf/value"
)

func mustLookup(t *testing.T, r *Registry, name, lang string) Func {
	t.Helper()

	fn, err := r.Lookup(name, lang)
	if err != nil {
		t.Fatalf("Lookup(%s, %s) error = %v", name, lang, err)
	}

	return fn
}

func TestLookupUniversalTransformsWorkForAnyLanguage(t *testing.T) {
	r := NewRegistry()

	for _, lang := range []string{"en", "ja", "xx"} {
		if _, err := r.Lookup("cap", lang); err != nil {
			t.Errorf("Lookup(cap, %s) error = %v", lang, err)
		}
	}
}

func TestLookupUnknownTransformSuggestsCandidates(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("captial", "en")
	if err == nil {
		t.Fatal("Lookup(captial, en) unexpectedly succeeded")
	}

	uerr, ok := err.(*rlferr.UnknownTransformError)
	if !ok {
		t.Fatalf("err = %T, want *rlferr.UnknownTransformError", err)
	}

	found := false

	for _, s := range uerr.Suggestions {
		if s == "cap" {
			found = true
		}
	}

	if !found {
		t.Errorf("Suggestions = %v, want it to include %q", uerr.Suggestions, "cap")
	}
}

func TestLookupDoesNotFallBackAcrossLanguages(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Lookup("der", "en"); err == nil {
		t.Fatal("Lookup(der, en) unexpectedly succeeded; @der is German-only")
	}
}

func TestLookupResolvesAlias(t *testing.T) {
	r := NewRegistry()

	anFn := mustLookup(t, r, "an", "en")
	aFn := mustLookup(t, r, "a", "en")

	apple := value.FromPhrase(value.NewPhrase("apple", nil, []string{"an"}))

	got1, err := anFn(apple, nil, "en")
	if err != nil {
		t.Fatalf("an(apple) error = %v", err)
	}

	got2, err := aFn(apple, nil, "en")
	if err != nil {
		t.Fatalf("a(apple) error = %v", err)
	}

	if got1 != got2 {
		t.Errorf("an(apple) = %q, a(apple) = %q, want the alias to resolve identically", got1, got2)
	}
}

func TestLookupBaseSubtagFallback(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Lookup("der", "de-AT"); err != nil {
		t.Errorf("Lookup(der, de-AT) error = %v, want the de-AT tag to fall back to de", err)
	}
}

func TestRegisterAddsCustomTransform(t *testing.T) {
	r := NewRegistry()
	r.Register("pt", "custom", func(v value.Value, _ *Context, _ string) (string, error) {
		return "custom:" + v.String(), nil
	})

	fn := mustLookup(t, r, "custom", "pt")

	got, err := fn(value.String("x"), nil, "pt")
	if err != nil {
		t.Fatalf("custom transform error = %v", err)
	}

	if got != "custom:x" {
		t.Errorf("custom transform = %q, want %q", got, "custom:x")
	}
}

func TestCapTransformUppercasesFirstRuneOnly(t *testing.T) {
	got, err := capTransform(value.String("hello"), nil, "en")
	if err != nil {
		t.Fatalf("capTransform error = %v", err)
	}

	if got != "Hello" {
		t.Errorf("capTransform(hello) = %q, want %q", got, "Hello")
	}
}

func TestCapTransformEmptyString(t *testing.T) {
	got, err := capTransform(value.String(""), nil, "en")
	if err != nil {
		t.Fatalf("capTransform error = %v", err)
	}

	if got != "" {
		t.Errorf("capTransform(\"\") = %q, want %q", got, "")
	}
}

func TestUpperAndLowerTransforms(t *testing.T) {
	got, err := upperTransform(value.String("hello"), nil, "en")
	if err != nil || got != "HELLO" {
		t.Errorf("upperTransform(hello) = %q, %v, want HELLO, nil", got, err)
	}

	got, err = lowerTransform(value.String("HELLO"), nil, "en")
	if err != nil || got != "hello" {
		t.Errorf("lowerTransform(HELLO) = %q, %v, want hello, nil", got, err)
	}
}

func TestEnglishArticleTransform(t *testing.T) {
	an := value.FromPhrase(value.NewPhrase("apple", nil, []string{"an"}))

	got, err := englishArticleTransform(an, nil, "en")
	if err != nil || got != "an apple" {
		t.Errorf("englishArticleTransform(apple) = %q, %v, want \"an apple\", nil", got, err)
	}

	a := value.FromPhrase(value.NewPhrase("cat", nil, []string{"a"}))

	got, err = englishArticleTransform(a, nil, "en")
	if err != nil || got != "a cat" {
		t.Errorf("englishArticleTransform(cat) = %q, %v, want \"a cat\", nil", got, err)
	}
}

func TestEnglishArticleTransformMissingTag(t *testing.T) {
	bare := value.FromPhrase(value.NewPhrase("cat", nil, nil))

	_, err := englishArticleTransform(bare, nil, "en")
	if err == nil {
		t.Fatal("englishArticleTransform with no a/an tag unexpectedly succeeded")
	}

	if _, ok := err.(*rlferr.MissingTagError); !ok {
		t.Fatalf("err = %T, want *rlferr.MissingTagError", err)
	}
}

func TestEnglishArticleTransformRequiresPhrase(t *testing.T) {
	_, err := englishArticleTransform(value.String("cat"), nil, "en")
	if err == nil {
		t.Fatal("englishArticleTransform on a non-Phrase Value unexpectedly succeeded")
	}

	if _, ok := err.(*rlferr.TypeMismatchError); !ok {
		t.Fatalf("err = %T, want *rlferr.TypeMismatchError", err)
	}
}

func TestGermanDerTransformDefaultsToNominative(t *testing.T) {
	masc := value.FromPhrase(value.NewPhrase("Hund", nil, []string{"masc"}))

	got, err := germanDerTransform(masc, nil, "de")
	if err != nil || got != "der Hund" {
		t.Errorf("germanDerTransform(Hund) = %q, %v, want \"der Hund\", nil", got, err)
	}
}

func TestGermanDerTransformWithCaseContext(t *testing.T) {
	fem := value.FromPhrase(value.NewPhrase("Katze", nil, []string{"fem"}))
	ctx := &Context{Text: "dat"}

	got, err := germanDerTransform(fem, ctx, "de")
	if err != nil || got != "der Katze" {
		t.Errorf("germanDerTransform(Katze, dat) = %q, %v, want \"der Katze\", nil", got, err)
	}
}

func TestGermanEinTransform(t *testing.T) {
	neut := value.FromPhrase(value.NewPhrase("Kind", nil, []string{"neut"}))
	ctx := &Context{Text: "acc"}

	got, err := germanEinTransform(neut, ctx, "de")
	if err != nil || got != "ein Kind" {
		t.Errorf("germanEinTransform(Kind, acc) = %q, %v, want \"ein Kind\", nil", got, err)
	}
}

func TestFrenchLeTransformElidesBeforeVowel(t *testing.T) {
	amie := value.FromPhrase(value.NewPhrase("amie", nil, []string{"fem"}))

	got, err := frenchLeTransform(amie, nil, "fr")
	if err != nil || got != "l'amie" {
		t.Errorf("frenchLeTransform(amie) = %q, %v, want \"l'amie\", nil", got, err)
	}
}

func TestFrenchLeTransformGendered(t *testing.T) {
	chat := value.FromPhrase(value.NewPhrase("chat", nil, []string{"masc"}))

	got, err := frenchLeTransform(chat, nil, "fr")
	if err != nil || got != "le chat" {
		t.Errorf("frenchLeTransform(chat) = %q, %v, want \"le chat\", nil", got, err)
	}
}

func TestSpanishElTransform(t *testing.T) {
	casa := value.FromPhrase(value.NewPhrase("casa", nil, []string{"fem"}))

	got, err := spanishElTransform(casa, nil, "es")
	if err != nil || got != "la casa" {
		t.Errorf("spanishElTransform(casa) = %q, %v, want \"la casa\", nil", got, err)
	}
}

func TestChineseCountTransform(t *testing.T) {
	book := value.FromPhrase(value.NewPhrase("书", nil, []string{"ben"}))
	ctx := &Context{Value: value.Number(3), IsDynamic: true}

	got, err := chineseCountTransform(book, ctx, "zh")
	if err != nil {
		t.Fatalf("chineseCountTransform error = %v", err)
	}

	if got != "3本书" {
		t.Errorf("chineseCountTransform = %q, want %q", got, "3本书")
	}
}

func TestChineseCountTransformRequiresDynamicContext(t *testing.T) {
	book := value.FromPhrase(value.NewPhrase("书", nil, []string{"ben"}))

	_, err := chineseCountTransform(book, nil, "zh")
	if err == nil {
		t.Fatal("chineseCountTransform with no context unexpectedly succeeded")
	}
}

func TestJapaneseCounterTransform(t *testing.T) {
	pen := value.FromPhrase(value.NewPhrase("ペン", nil, []string{"hon"}))
	ctx := &Context{Value: value.Number(2), IsDynamic: true}

	got, err := japaneseCounterTransform(pen, ctx, "ja")
	if err != nil {
		t.Fatalf("japaneseCounterTransform error = %v", err)
	}

	if got != "2本" {
		t.Errorf("japaneseCounterTransform = %q, want %q", got, "2本")
	}
}

func TestTurkishInflectTransformBackVowelHarmony(t *testing.T) {
	ev := value.FromPhrase(value.NewPhrase("ev", nil, []string{"back"}))
	ctx := &Context{Text: "abl"}

	got, err := turkishInflectTransform(ev, ctx, "tr")
	if err != nil {
		t.Fatalf("turkishInflectTransform error = %v", err)
	}

	if got != "evdan" {
		t.Errorf("turkishInflectTransform(ev, abl) = %q, want %q", got, "evdan")
	}
}

func TestTurkishInflectTransformSuffixChain(t *testing.T) {
	ev := value.FromPhrase(value.NewPhrase("ev", nil, []string{"back"}))
	ctx := &Context{Text: "poss1sg.pl"}

	got, err := turkishInflectTransform(ev, ctx, "tr")
	if err != nil {
		t.Fatalf("turkishInflectTransform error = %v", err)
	}

	if got != "evımlar" {
		t.Errorf("turkishInflectTransform(ev, poss1sg.pl) = %q, want %q", got, "evımlar")
	}
}

func TestTurkishInflectTransformUnknownSuffix(t *testing.T) {
	ev := value.FromPhrase(value.NewPhrase("ev", nil, []string{"back"}))
	ctx := &Context{Text: "bogus"}

	_, err := turkishInflectTransform(ev, ctx, "tr")
	if err == nil {
		t.Fatal("turkishInflectTransform with an unknown suffix segment unexpectedly succeeded")
	}
}

func TestRussianCaseTransformSelectsVariant(t *testing.T) {
	p := value.FromPhrase(value.NewPhrase("кот", map[string]string{"acc": "кота"}, nil))
	ctx := &Context{Text: "acc"}

	got, err := russianCaseTransform(p, ctx, "ru")
	if err != nil {
		t.Fatalf("russianCaseTransform error = %v", err)
	}

	if got != "кота" {
		t.Errorf("russianCaseTransform(acc) = %q, want %q", got, "кота")
	}
}

func TestRussianCaseTransformNoContextUsesDefaultText(t *testing.T) {
	p := value.FromPhrase(value.NewPhrase("кот", map[string]string{"acc": "кота"}, nil))

	got, err := russianCaseTransform(p, nil, "ru")
	if err != nil {
		t.Fatalf("russianCaseTransform error = %v", err)
	}

	if got != "кот" {
		t.Errorf("russianCaseTransform(no context) = %q, want %q", got, "кот")
	}
}

func TestParseNumberContext(t *testing.T) {
	n, err := ParseNumberContext("42")
	if err != nil || n != 42 {
		t.Errorf("ParseNumberContext(42) = %d, %v, want 42, nil", n, err)
	}

	if _, err := ParseNumberContext("not-a-number"); err == nil {
		t.Error("ParseNumberContext(not-a-number) unexpectedly succeeded")
	}
}
