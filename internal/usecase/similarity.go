package usecase

import "strings"

// BigramSimilarity computes the Dice coefficient over character bigrams of
// two strings: 2 * |intersection| / (|bigrams(a)| + |bigrams(b)|).
// Whitespace is ignored. Identical strings score 1.0; when either string
// has fewer than two characters and they differ, the score is 0.0.
// The metric is symmetric and bounded to [0, 1]. The downstream merge
// threshold is calibrated against this distribution.
func BigramSimilarity(a, b string) float64 {
	a = strings.ReplaceAll(a, " ", "")
	b = strings.ReplaceAll(b, " ", "")

	if a == b {
		return 1.0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0.0
	}

	// Bigram multiset of the first string; matches consume counts so
	// repeated bigrams are only credited as often as they occur in both.
	counts := make(map[string]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[string(ra[i:i+2])]++
	}

	matches := 0
	for i := 0; i < len(rb)-1; i++ {
		bigram := string(rb[i : i+2])
		if counts[bigram] > 0 {
			counts[bigram]--
			matches++
		}
	}

	return 2.0 * float64(matches) / float64(len(ra)+len(rb)-2)
}
