package usecase

import (
	"math"
	"testing"
)

func TestBigramSimilarity(t *testing.T) {
	t.Run("identical strings score 1.0", func(t *testing.T) {
		if got := BigramSimilarity("whey protein", "whey protein"); got != 1.0 {
			t.Errorf("score = %v, want 1.0", got)
		}
	})

	t.Run("identical after whitespace stripping score 1.0", func(t *testing.T) {
		if got := BigramSimilarity("whey protein", "wheyprotein"); got != 1.0 {
			t.Errorf("score = %v, want 1.0", got)
		}
	})

	t.Run("short differing strings score 0.0", func(t *testing.T) {
		cases := [][2]string{{"a", "abc"}, {"", "abc"}, {"a", "b"}}
		for _, c := range cases {
			if got := BigramSimilarity(c[0], c[1]); got != 0.0 {
				t.Errorf("score(%q, %q) = %v, want 0.0", c[0], c[1], got)
			}
		}
	})

	t.Run("known dice coefficient", func(t *testing.T) {
		// night/nacht share one bigram (ht) of 4+4: 2*1/8 = 0.25
		if got := BigramSimilarity("night", "nacht"); math.Abs(got-0.25) > 1e-9 {
			t.Errorf("score = %v, want 0.25", got)
		}
	})

	t.Run("unrelated strings score near 0", func(t *testing.T) {
		if got := BigramSimilarity("whey protein", "running shoes"); got > 0.2 {
			t.Errorf("score = %v, want near 0", got)
		}
	})

	t.Run("repeated bigrams are not double counted", func(t *testing.T) {
		// "aaaa" has bigrams {aa, aa, aa}; "aa" has {aa}. 2*1/(3+1) = 0.5
		if got := BigramSimilarity("aaaa", "aa"); math.Abs(got-0.5) > 1e-9 {
			t.Errorf("score = %v, want 0.5", got)
		}
	})
}

func TestBigramSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"whey protein", "whey protein isolate"},
		{"creatine", "creatine monohydrate"},
		{"energy blast", "blast energy"},
		{"a", "abc"},
		{"", ""},
	}

	for _, p := range pairs {
		ab := BigramSimilarity(p[0], p[1])
		ba := BigramSimilarity(p[1], p[0])
		if ab != ba {
			t.Errorf("score(%q, %q) = %v but score(%q, %q) = %v", p[0], p[1], ab, p[1], p[0], ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("score(%q, %q) = %v, out of [0,1]", p[0], p[1], ab)
		}
	}
}
