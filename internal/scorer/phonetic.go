package scorer

import "strings"

// metaphone is a reduced Metaphone-class phonetic encoder: no library in
// the example corpus implements Metaphone or an equivalent (DESIGN.md),
// so this hand-rolls the common consonant-reduction rules over the
// ASCII-transliterated alphabet the normalizer package already produces.
// It is intentionally simplified relative to the canonical algorithm —
// good enough to cluster same-sounding transliterations of one name, not
// a general-purpose phonetic library replacement.
func metaphone(word string) string {
	word = strings.ToLower(word)
	if word == "" {
		return ""
	}

	runes := []rune(word)
	var out strings.Builder
	isVowel := func(r rune) bool {
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			return true
		}
		return false
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		prev := rune(0)
		if i > 0 {
			prev = runes[i-1]
		}
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		if r == prev && r != 'c' {
			// Drop doubled letters other than C (CC is handled below).
			continue
		}

		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			if i == 0 {
				out.WriteRune(r)
			}
		case 'b':
			if !(i == len(runes)-1 && prev == 'm') {
				out.WriteByte('b')
			}
		case 'c':
			switch {
			case next == 'i' || next == 'e' || next == 'y':
				out.WriteByte('s')
			case next == 'h':
				out.WriteByte('x')
				i++
			default:
				out.WriteByte('k')
			}
		case 'd':
			if next == 'g' && i+2 < len(runes) && isVowel(runes[i+2]) {
				out.WriteByte('j')
				i++
			} else {
				out.WriteByte('t')
			}
		case 'g':
			if next == 'h' {
				out.WriteByte('f')
				i++
			} else if next == 'n' {
				// Silent G before N.
			} else {
				out.WriteByte('k')
			}
		case 'h':
			if isVowel(prev) && !isVowel(next) {
				// Silent H after a vowel, before a consonant.
			} else {
				out.WriteByte('h')
			}
		case 'k':
			if prev != 'c' {
				out.WriteByte('k')
			}
		case 'p':
			if next == 'h' {
				out.WriteByte('f')
				i++
			} else {
				out.WriteByte('p')
			}
		case 'q':
			out.WriteByte('k')
		case 's':
			if next == 'h' {
				out.WriteByte('x')
				i++
			} else {
				out.WriteByte('s')
			}
		case 't':
			if next == 'h' {
				out.WriteByte('0')
				i++
			} else {
				out.WriteByte('t')
			}
		case 'v':
			out.WriteByte('f')
		case 'w', 'y':
			if isVowel(next) {
				out.WriteRune(r)
			}
		case 'x':
			out.WriteString("ks")
		case 'z':
			out.WriteByte('s')
		default:
			out.WriteRune(r)
		}
	}

	return out.String()
}

// phoneticSimilarity scores two names by the overlap of their per-token
// Metaphone-class codes: |intersection| / max(|codesA|, |codesB|).
func phoneticSimilarity(tokensA, tokensB []string) float64 {
	codesA := phoneticSet(tokensA)
	codesB := phoneticSet(tokensB)
	if len(codesA) == 0 || len(codesB) == 0 {
		return 0
	}

	intersection := 0
	for code := range codesA {
		if codesB[code] {
			intersection++
		}
	}

	denom := len(codesA)
	if len(codesB) > denom {
		denom = len(codesB)
	}
	return float64(intersection) / float64(denom)
}

func phoneticSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if code := metaphone(t); code != "" {
			set[code] = true
		}
	}
	return set
}
