package match

import (
	"sort"
	"strings"
)

// levenshtein computes the edit distance between two rune sequences.
// Operates on runes, not bytes: inputs may still carry multibyte characters
// when a fold table entry is missing.
func levenshtein(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := 0; j <= len(s2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// ratio is the normalized similarity of two strings, 0-100: edit distance
// scaled by the longer length. Equal strings score 100, disjoint ones 0.
func ratio(a, b string) float64 {
	if a == b {
		return 100.0
	}
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 100.0
	}
	dist := levenshtein(ra, rb)
	return 100.0 * (1.0 - float64(dist)/float64(longest))
}

// tokenSortRatio compares two strings insensitive to word order: tokens are
// sorted and rejoined before the ratio, so "Mueller Hans" matches
// "Hans Mueller".
func tokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// partialRatio finds the best-scoring window of the longer string against
// the whole shorter one, tolerating different levels of specificity:
// "london" scores high against "london england".
func partialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	shorter, longer := ra, rb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0.0
	}
	if len(shorter) == len(longer) {
		return ratio(string(shorter), string(longer))
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := string(longer[i : i+len(shorter)])
		if score := ratio(string(shorter), window); score > best {
			best = score
			if best == 100.0 {
				break
			}
		}
	}
	return best
}
