package similarity

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// JaroWinkler returns the Jaro-Winkler similarity between two strings in
// [0,1]. The Winkler prefix boost uses the standard parameters (prefix
// length capped at 4, scaling factor 0.1).
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}
	return float64(score)
}

// EditSimilarity returns 1 - levenshtein(a,b)/max(len(a),len(b)).
// Two empty strings are identical and score 1.0.
func EditSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := edlib.LevenshteinDistance(a, b)
	similarity := 1.0 - float64(distance)/float64(maxLen)
	if similarity < 0 {
		return 0.0
	}
	return similarity
}

// NGramSimilarity returns the Jaccard similarity over the multisets of
// character n-grams of the two strings. Strings shorter than n contribute
// themselves as a single gram.
func NGramSimilarity(a, b string, n int) float64 {
	if n < 1 {
		n = 3
	}
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	gramsA := ngramCounts(a, n)
	gramsB := ngramCounts(b, n)

	intersection := 0
	union := 0
	for gram, countA := range gramsA {
		countB := gramsB[gram]
		intersection += min(countA, countB)
		union += max(countA, countB)
	}
	for gram, countB := range gramsB {
		if _, seen := gramsA[gram]; !seen {
			union += countB
		}
	}

	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// ngramCounts extracts the multiset of character n-grams from a string.
func ngramCounts(s string, n int) map[string]int {
	runes := []rune(s)
	grams := make(map[string]int)

	if len(runes) < n {
		grams[s] = 1
		return grams
	}

	for i := 0; i+n <= len(runes); i++ {
		grams[string(runes[i:i+n])]++
	}
	return grams
}

// WordSetSimilarity returns the Jaccard similarity over the lower-cased
// whitespace-tokenized word sets of the two strings.
func WordSetSimilarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1.0
	}
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	intersection := 0
	for word := range wordsA {
		if wordsB[word] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection

	return float64(intersection) / float64(union)
}

// ContainmentScore returns the fraction of the smaller token set contained
// in the larger one, a coverage proxy for partial matches.
func ContainmentScore(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	smaller, larger := wordsA, wordsB
	if len(wordsB) < len(wordsA) {
		smaller, larger = wordsB, wordsA
	}

	contained := 0
	for word := range smaller {
		if larger[word] {
			contained++
		}
	}
	return float64(contained) / float64(len(smaller))
}

// LengthRatio returns min(len(a),len(b)) / max(len(a),len(b)),
// or 0 when either string is empty.
func LengthRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	return minMaxRatio(la, lb)
}

// WordCountRatio returns the min/max ratio of whitespace-token counts,
// or 0 when either string has no tokens.
func WordCountRatio(a, b string) float64 {
	return minMaxRatio(len(strings.Fields(a)), len(strings.Fields(b)))
}

func minMaxRatio(x, y int) float64 {
	if x == 0 || y == 0 {
		return 0.0
	}
	if x > y {
		x, y = y, x
	}
	return float64(x) / float64(y)
}

func wordSet(s string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		words[word] = true
	}
	return words
}
