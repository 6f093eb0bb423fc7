package scorer

import (
	"sort"
	"strings"
)

// ratio is the SequenceMatcher-style similarity used by token_sort/
// token_set: twice the combined length of matching blocks divided by the
// combined length of both strings. No repo in the example corpus ships a
// RapidFuzz-equivalent token-ratio library (DESIGN.md), so this hand-rolls
// the classic Ratcliff/Obershelp "gestalt pattern matching" recursion.
func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	matches := matchingBlockLength(a, b)
	return float64(2*matches) / float64(len(a)+len(b))
}

func matchingBlockLength(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	i, j, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingBlockLength(a[:i], b[:j]) + matchingBlockLength(a[i+size:], b[j+size:])
}

// longestMatch finds the longest common substring of a and b in O(len(a)*len(b))
// using the rolling-length-table technique from Python's difflib.
func longestMatch(a, b string) (aStart, bStart, size int) {
	prevRow := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		currRow := make([]int, len(b)+1)
		for j := 0; j < len(b); j++ {
			if a[i] == b[j] {
				k := prevRow[j] + 1
				currRow[j+1] = k
				if k > size {
					aStart, bStart, size = i-k+1, j-k+1, k
				}
			}
		}
		prevRow = currRow
	}
	return aStart, bStart, size
}

// tokenSortRatio sorts each side's tokens alphabetically, rejoins, and
// compares the resulting strings.
func tokenSortRatio(tokensA, tokensB []string) float64 {
	return ratio(sortedJoin(tokensA), sortedJoin(tokensB))
}

// tokenSetRatio compares the shared-token core against each side's
// leftover tokens, taking the best of three pairings (rapidfuzz's
// token_set_ratio recipe).
func tokenSetRatio(tokensA, tokensB []string) float64 {
	setA := toSet(tokensA)
	setB := toSet(tokensB)

	var intersection, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			intersection = append(intersection, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(intersection)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(intersection, " ")
	combined1 := strings.TrimSpace(strings.Join([]string{sect, strings.Join(onlyA, " ")}, " "))
	combined2 := strings.TrimSpace(strings.Join([]string{sect, strings.Join(onlyB, " ")}, " "))

	best := ratio(sect, combined1)
	if r := ratio(sect, combined2); r > best {
		best = r
	}
	if r := ratio(combined1, combined2); r > best {
		best = r
	}
	return best
}

func sortedJoin(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

func toSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
