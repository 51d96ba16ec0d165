// Package lcs measures how alike two names are by their longest common
// subsequence. It is used to suggest a name for a misspelled one.
package lcs

import "unicode"

// Len returns the length of the longest common subsequence of a and b in
// runes. Letters are compared case-insensitively.
func Len(a, b string) int {
	ra, rb := fold(a), fold(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	// Two rows of the dynamic programming table are enough.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := range ra {
		for j := range rb {
			switch {
			case ra[i] == rb[j]:
				curr[j+1] = prev[j] + 1
			case prev[j+1] >= curr[j]:
				curr[j+1] = prev[j+1]
			default:
				curr[j+1] = curr[j]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity returns 2*Len(a, b) / (len(a) + len(b)) in runes. It is 1 for
// names equal but case and 0 for names without a common rune.
func Similarity(a, b string) float64 {
	n := len([]rune(a)) + len([]rune(b))
	if n == 0 {
		return 1
	}
	return float64(2*Len(a, b)) / float64(n)
}

// Threshold is the least similarity of a suggestion.
const Threshold = 0.7

// Closest returns the candidate most similar to name. It returns false if no
// candidate reaches [Threshold]. The first one wins a tie.
func Closest(name string, candidates []string) (string, bool) {
	best, bestScore := "", 0.0
	for _, c := range candidates {
		if s := Similarity(name, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < Threshold {
		return "", false
	}
	return best, true
}

func fold(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}
