// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package rlf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rlf-lang/rlf/config"
	"github.com/rlf-lang/rlf/registry"
	"github.com/rlf-lang/rlf/transform"
)

func TestNewDefaultsToEnglish(t *testing.T) {
	loc := New()

	if loc.Language() != "en" {
		t.Errorf("Language() = %q, want %q", loc.Language(), "en")
	}
}

func TestWithLanguageChainsAndSets(t *testing.T) {
	loc := New().WithLanguage("fr")

	if loc.Language() != "fr" {
		t.Errorf("Language() = %q, want %q", loc.Language(), "fr")
	}
}

func TestNewWithConfigAppliesDepthLimitAndLanguage(t *testing.T) {
	var cfg config.RuntimeConfig
	cfg.SetDefaults()
	cfg.Eval.DepthLimit = 3
	cfg.Eval.DefaultLanguage = "de"

	loc := NewWithConfig(cfg)

	if loc.Language() != "de" {
		t.Errorf("Language() = %q, want %q", loc.Language(), "de")
	}

	if err := loc.LoadTranslationsString("de", `a = "{b}"; b = "{c}"; c = "{d}"; d = "end";`); err != nil {
		t.Fatalf("LoadTranslationsString() error = %v", err)
	}

	if _, err := loc.GetPhrase("a"); err == nil {
		t.Fatal("GetPhrase() with a shallow configured depth limit unexpectedly succeeded")
	}
}

func TestLoadTranslationsStringAndEvaluate(t *testing.T) {
	loc := New()

	err := loc.LoadTranslationsString("en", `greeting($name) = "Hello, {$name}!";`)
	if err != nil {
		t.Fatalf("LoadTranslationsString() error = %v", err)
	}

	p, err := loc.CallPhrase("greeting", []Value{String("World")})
	if err != nil {
		t.Fatalf("CallPhrase() error = %v", err)
	}

	if p.Text != "Hello, World!" {
		t.Errorf("CallPhrase() = %q, want %q", p.Text, "Hello, World!")
	}
}

func TestLoadTranslationsReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.rlf")
	writeRLF(t, path, `greeting = "Hi there";`)

	loc := New()

	if err := loc.LoadTranslations("en", path); err != nil {
		t.Fatalf("LoadTranslations() error = %v", err)
	}

	p, err := loc.GetPhrase("greeting")
	if err != nil {
		t.Fatalf("GetPhrase() error = %v", err)
	}

	if p.Text != "Hi there" {
		t.Errorf("GetPhrase() = %q, want %q", p.Text, "Hi there")
	}
}

func TestLoadTranslationsMissingFile(t *testing.T) {
	loc := New()

	err := loc.LoadTranslations("en", filepath.Join(t.TempDir(), "missing.rlf"))
	if err == nil {
		t.Fatal("LoadTranslations() of a missing file unexpectedly succeeded")
	}
}

func TestReloadTranslationsReplacesDefinitions(t *testing.T) {
	loc := New()

	if err := loc.LoadTranslationsString("en", `greeting = "v1";`); err != nil {
		t.Fatalf("LoadTranslationsString() error = %v", err)
	}

	if err := loc.ReloadTranslations("en", `greeting = "v2";`); err != nil {
		t.Fatalf("ReloadTranslations() error = %v", err)
	}

	p, err := loc.GetPhrase("greeting")
	if err != nil {
		t.Fatalf("GetPhrase() error = %v", err)
	}

	if p.Text != "v2" {
		t.Errorf("GetPhrase() = %q, want %q", p.Text, "v2")
	}
}

func TestReloadTranslationsFailureLeavesOriginalInPlace(t *testing.T) {
	loc := New()

	if err := loc.LoadTranslationsString("en", `greeting = "v1"; farewell = "bye";`); err != nil {
		t.Fatalf("LoadTranslationsString() error = %v", err)
	}

	err := loc.ReloadTranslations("en", `greeting = "v2"; greeting = "v3";`)
	if err == nil {
		t.Fatal("ReloadTranslations() with duplicate names unexpectedly succeeded")
	}

	p, err := loc.GetPhrase("greeting")
	if err != nil {
		t.Fatalf("GetPhrase() error = %v", err)
	}

	if p.Text != "v1" {
		t.Errorf("GetPhrase() = %q, want %q (failed reload must not clobber prior state)", p.Text, "v1")
	}
}

func TestEvalStringAgainstLocaleLanguage(t *testing.T) {
	loc := New().WithLanguage("en")

	p, err := loc.EvalString(`"Hi {$who}"`, Params("who", "there"))
	if err != nil {
		t.Fatalf("EvalString() error = %v", err)
	}

	if p.Text != "Hi there" {
		t.Errorf("EvalString() = %q, want %q", p.Text, "Hi there")
	}
}

func TestSetAndGetStringContext(t *testing.T) {
	loc := New()

	if loc.StringContext() != "" {
		t.Fatal(`StringContext() is non-empty before SetStringContext`)
	}

	loc.SetStringContext("masc")

	if got := loc.StringContext(); got != "masc" {
		t.Errorf("StringContext() = %q, want %q", got, "masc")
	}
}

func TestGetPhrasePrefersStringContextVariant(t *testing.T) {
	loc := New()

	if err := loc.LoadTranslationsString("en", `cat = {*generic: "cat", masc: "tomcat", fem: "queen"};`); err != nil {
		t.Fatalf("LoadTranslationsString() error = %v", err)
	}

	loc.SetStringContext("masc")

	p, err := loc.GetPhrase("cat")
	if err != nil {
		t.Fatalf("GetPhrase() error = %v", err)
	}

	if p.Text != "tomcat" {
		t.Errorf("GetPhrase() = %q, want %q (string_context should prefer the masc variant)", p.Text, "tomcat")
	}
}

func TestGetPhraseIgnoresUnmatchedStringContext(t *testing.T) {
	loc := New()

	if err := loc.LoadTranslationsString("en", `cat = {*generic: "cat", masc: "tomcat"};`); err != nil {
		t.Fatalf("LoadTranslationsString() error = %v", err)
	}

	loc.SetStringContext("neuter")

	p, err := loc.GetPhrase("cat")
	if err != nil {
		t.Fatalf("GetPhrase() error = %v", err)
	}

	if p.Text != "cat" {
		t.Errorf("GetPhrase() = %q, want %q (no matching variant, so the declared default stands)", p.Text, "cat")
	}
}

func TestLoadTranslationsStringRejectsGapsUnderStrictMode(t *testing.T) {
	var cfg config.RuntimeConfig
	cfg.SetDefaults()
	cfg.Load.Strict = true

	loc := NewWithConfig(cfg)

	if err := loc.LoadTranslationsString("en", `greeting = "Hi"; farewell = "Bye";`); err != nil {
		t.Fatalf("LoadTranslationsString(en) error = %v", err)
	}

	err := loc.LoadTranslationsString("fr", `greeting = "Salut";`)
	if err == nil {
		t.Fatal("LoadTranslationsString(fr) with a coverage gap unexpectedly succeeded under strict mode")
	}

	if _, ok := err.(*registry.StrictCoverageError); !ok {
		t.Errorf("err = %#v, want *registry.StrictCoverageError", err)
	}

	// A rejected strict load must not have installed anything for fr.
	if langs := loc.Languages(); len(langs) != 1 || langs[0] != "en" {
		t.Errorf("Languages() = %v, want only [en] after the rejected fr load", langs)
	}
}

func TestLoadTranslationsStringAllowsCleanBatchUnderStrictMode(t *testing.T) {
	var cfg config.RuntimeConfig
	cfg.SetDefaults()
	cfg.Load.Strict = true

	loc := NewWithConfig(cfg)

	if err := loc.LoadTranslationsString("en", `greeting = "Hi";`); err != nil {
		t.Fatalf("LoadTranslationsString(en) error = %v", err)
	}

	if err := loc.LoadTranslationsString("fr", `greeting = "Salut";`); err != nil {
		t.Fatalf("LoadTranslationsString(fr) error = %v, want a full-coverage batch to be accepted", err)
	}
}

func TestValidateTranslationsReportsGaps(t *testing.T) {
	loc := New()

	if err := loc.LoadTranslationsString("en", `a = "A"; b = "B";`); err != nil {
		t.Fatalf("LoadTranslationsString(en) error = %v", err)
	}

	if err := loc.LoadTranslationsString("fr", `a = "A-fr";`); err != nil {
		t.Fatalf("LoadTranslationsString(fr) error = %v", err)
	}

	warnings := loc.ValidateTranslations("en", "fr")
	if len(warnings) != 1 || warnings[0].Name != "b" {
		t.Errorf("ValidateTranslations() = %+v, want one warning for b", warnings)
	}
}

func TestValidateAllAcrossMultipleTargets(t *testing.T) {
	loc := New()

	if err := loc.LoadTranslationsString("en", `a = "A";`); err != nil {
		t.Fatalf("LoadTranslationsString(en) error = %v", err)
	}

	results, err := loc.ValidateAll("en", "fr", "de")
	if err != nil {
		t.Fatalf("ValidateAll() error = %v", err)
	}

	if len(results) != 2 {
		t.Errorf("ValidateAll() = %v, want results for fr and de", results)
	}
}

func TestLanguagesAndStats(t *testing.T) {
	loc := New()

	if err := loc.LoadTranslationsString("en", `a = "A"; greet($n) = "hi {$n}";`); err != nil {
		t.Fatalf("LoadTranslationsString() error = %v", err)
	}

	if langs := loc.Languages(); len(langs) != 1 || langs[0] != "en" {
		t.Errorf("Languages() = %v, want [en]", langs)
	}

	stats := loc.Stats("en")
	if stats.Terms != 1 || stats.Phrases != 1 {
		t.Errorf("Stats(en) = %+v, want Terms:1 Phrases:1", stats)
	}
}

func TestTransformsAllowsHostRegistration(t *testing.T) {
	loc := New()

	loc.Transforms().Register("en", "shout", func(v Value, _ *transform.Context, _ string) (string, error) {
		return v.String() + "!!!", nil
	})

	if err := loc.LoadTranslationsString("en", `name = "hi"; greeting = "{@shout name}";`); err != nil {
		t.Fatalf("LoadTranslationsString() error = %v", err)
	}

	p, err := loc.GetPhrase("greeting")
	if err != nil {
		t.Fatalf("GetPhrase() error = %v", err)
	}

	if p.Text != "hi!!!" {
		t.Errorf("GetPhrase() = %q, want %q", p.Text, "hi!!!")
	}
}

func writeRLF(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
