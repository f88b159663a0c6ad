// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package plural

import "testing"

func TestOfEnglish(t *testing.T) {
	cases := map[int64]Category{0: Other, 1: One, 2: Other, -1: One}

	for n, want := range cases {
		if got := Of("en", n); got != want {
			t.Errorf("Of(en, %d) = %q, want %q", n, got, want)
		}
	}
}

func TestOfFrenchTreatsZeroAndOneAsOne(t *testing.T) {
	cases := map[int64]Category{0: One, 1: One, 2: Other}

	for n, want := range cases {
		if got := Of("fr", n); got != want {
			t.Errorf("Of(fr, %d) = %q, want %q", n, got, want)
		}
	}
}

func TestOfRussianFourWaySplit(t *testing.T) {
	cases := map[int64]Category{
		1:  One,
		2:  Few,
		5:  Many,
		11: Many,
		21: One,
		22: Few,
		25: Many,
	}

	for n, want := range cases {
		if got := Of("ru", n); got != want {
			t.Errorf("Of(ru, %d) = %q, want %q", n, got, want)
		}
	}
}

func TestOfArabicSixWaySplit(t *testing.T) {
	cases := map[int64]Category{
		0:   Zero,
		1:   One,
		2:   Two,
		3:   Few,
		10:  Few,
		11:  Many,
		99:  Many,
		100: Other,
	}

	for n, want := range cases {
		if got := Of("ar", n); got != want {
			t.Errorf("Of(ar, %d) = %q, want %q", n, got, want)
		}
	}
}

func TestOfPolishFourWaySplit(t *testing.T) {
	cases := map[int64]Category{
		1:  One,
		2:  Few,
		5:  Many,
		12: Many,
		22: Few,
	}

	for n, want := range cases {
		if got := Of("pl", n); got != want {
			t.Errorf("Of(pl, %d) = %q, want %q", n, got, want)
		}
	}
}

func TestOfNoPluralLanguagesAlwaysOther(t *testing.T) {
	for _, lang := range []string{"zh", "ja", "ko", "vi", "th", "id", "fa"} {
		if got := Of(lang, 0); got != Other {
			t.Errorf("Of(%s, 0) = %q, want %q", lang, got, Other)
		}

		if got := Of(lang, 5); got != Other {
			t.Errorf("Of(%s, 5) = %q, want %q", lang, got, Other)
		}
	}
}

func TestOfUnknownLanguageFallsBackToEnglish(t *testing.T) {
	if got := Of("xx", 1); got != One {
		t.Errorf("Of(xx, 1) = %q, want %q (English fallback)", got, One)
	}
}

func TestOfMatchesBySubtagIgnoringRegion(t *testing.T) {
	if got := Of("pt-BR", 1); got != Of("pt", 1) {
		t.Errorf("Of(pt-BR, 1) = %q, want it to match Of(pt, 1) = %q", got, Of("pt", 1))
	}
}

func TestOfFloatTruncatesTowardZero(t *testing.T) {
	if got := Of("en", 1); got != One {
		t.Fatalf("sanity check failed: Of(en, 1) = %q", got)
	}

	c := NewCache()
	if got := c.OfFloat("en", 1.9); got != One {
		t.Errorf("OfFloat(en, 1.9) = %q, want %q (truncated to 1)", got, One)
	}

	if got := c.OfFloat("en", -1.9); got != One {
		t.Errorf("OfFloat(en, -1.9) = %q, want %q (truncated to -1, abs 1)", got, One)
	}
}

func TestCacheReturnsConsistentResultsAcrossCalls(t *testing.T) {
	c := NewCache()

	for i := 0; i < 3; i++ {
		if got := c.Of("ru", 2); got != Few {
			t.Errorf("Cache.Of(ru, 2) call %d = %q, want %q", i, got, Few)
		}
	}
}

func TestCacheHandlesMoreLanguagesThanCapacity(t *testing.T) {
	c := NewCache()

	langs := []string{"en", "fr", "ru", "pl", "cs", "ar", "tr", "hi", "zh", "ja"}
	for _, lang := range langs {
		_ = c.Of(lang, 1)
	}

	// The cache evicts under pressure but must still answer correctly for
	// every language, cached or not.
	if got := c.Of("ar", 2); got != Two {
		t.Errorf("Cache.Of(ar, 2) after eviction pressure = %q, want %q", got, Two)
	}
}
