// Package normalizer implements deterministic name normalization:
// transliteration, tokenization, culture-aware variant expansion, and the
// corporate-entity heuristic (spec.md §4.1).
//
// Ported from the original Python NameNormalizer
// (original_source/backend/app/engine/normalizer.py): the transliteration,
// prefix/suffix vocabularies, and Arabic-variant equivalence classes are
// the same tables, re-expressed as Go package-level literals instead of
// re-parsed per call.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxVariants bounds generate_variations' output set (spec.md §4.1).
const MaxVariants = 32

// prefixes are culture/corporate lead tokens dropped unless keepPrefixes
// is requested.
var prefixes = map[string]struct{}{
	"al": {}, "el": {}, "ul": {}, "bin": {}, "ibn": {}, "bint": {},
	"abu": {}, "umm": {}, "the": {}, "a": {}, "an": {},
}

// suffixes supplements spec.md §4.1 with the original's trailing-token
// vocabulary (SPEC_FULL.md DATA MODEL section); stripped under the same
// keepPrefixes gate, after prefix stripping.
var suffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "phd": {}, "md": {}, "esq": {},
	"llc": {}, "ltd": {}, "inc": {}, "corp": {}, "co": {}, "plc": {},
	"fzc": {}, "fze": {}, "fzco": {}, "wll": {}, "saog": {}, "saoc": {},
	"pjsc": {}, "psc": {}, "llp": {}, "lp": {},
}

// corporateIndicators is the fixed vocabulary is_corporate checks against.
var corporateIndicators = []string{
	"company", "corporation", "corp", "inc", "incorporated", "limited", "ltd",
	"llc", "llp", "plc", "psc", "pjsc", "group", "holding", "holdings",
	"enterprise", "enterprises", "trading", "establishment", "est", "bank",
	"insurance", "investment", "capital", "fzc", "fze", "fzco", "wll",
	"saog", "saoc",
}

// variantGroups is the literal Arabic-origin equivalence table from
// spec.md §4.1. Each group's first entry is its canonical form.
var variantGroups = [][]string{
	{"mohammed", "mohammad", "muhammad", "muhammed", "mohamed", "mohamad"},
	{"ahmed", "ahmad", "ahmet"},
	{"abdul", "abd", "abdel", "abdal"},
	{"ali", "aly"},
	{"hassan", "hasan"},
	{"hussein", "hussain", "husain", "hossein"},
	{"khalid", "khaled"},
	{"omar", "umar"},
	{"osman", "uthman", "othman"},
	{"saleh", "salih", "salah"},
	{"yousef", "yusuf", "youssef", "joseph"},
	{"ibrahim", "ebrahim", "abraham"},
}

// variantOf maps every member of every equivalence group to its group's
// canonical form, and canonicalToGroup maps a canonical form back to its
// full member list (including itself) for variant generation.
var (
	variantOf        = map[string]string{}
	canonicalToGroup = map[string][]string{}
)

func init() {
	for _, group := range variantGroups {
		canonical := group[0]
		canonicalToGroup[canonical] = group
		for _, member := range group {
			variantOf[member] = canonical
		}
	}
}

var (
	nonWordRe   = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// transliterator strips combining marks after NFD decomposition, which
// reduces most accented Latin and many transliterated Arabic characters to
// a plain ASCII-ish skeleton without panicking on arbitrary Unicode input
// (spec.md §4.1 invariant: "transliteration is lossy but total").
var transliterator = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// transliterate strips combining marks after NFD decomposition, so accented
// Latin letters reduce to their ASCII base letters. Letters of other
// scripts (Cyrillic, Arabic, CJK) are returned unchanged.
func transliterate(s string) string {
	out, _, err := transform.String(transliterator, s)
	if err != nil {
		// Never fails on well-formed input, but normalize() must be total;
		// fall back to the original string rather than erroring out.
		return s
	}
	return out
}

// Normalize produces the deterministic canonical form of name described in
// spec.md §4.1. It is idempotent: Normalize(Normalize(x, k), k) == Normalize(x, k).
func Normalize(name string, keepPrefixes bool) string {
	if name == "" {
		return ""
	}

	s := transliterate(name)
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "-", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if !keepPrefixes {
		words := strings.Fields(s)
		if len(words) > 0 {
			if _, ok := prefixes[words[0]]; ok {
				words = words[1:]
			}
		}
		if len(words) > 0 {
			last := words[len(words)-1]
			if _, ok := suffixes[last]; ok {
				words = words[:len(words)-1]
			}
		}
		s = strings.Join(words, " ")
	}

	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Fingerprint applies aggressive normalization for cheap pre-filtering:
// normalize without prefixes, standardize Arabic-origin variants, then
// concatenate tokens with no separator (spec.md §4.1). Never shown to a
// caller; used by scorer.MightMatch and cached as CorpusEntry.Fingerprint.
func Fingerprint(name string) string {
	normalized := Normalize(name, false)
	words := strings.Fields(normalized)

	var b strings.Builder
	for _, w := range words {
		if canonical, ok := variantOf[w]; ok {
			b.WriteString(canonical)
		} else {
			b.WriteString(w)
		}
	}
	return b.String()
}

// Tokenize splits name into tokens of Normalize(name, true), dropping
// single-character tokens unless they are upper-case letters in the
// original (treated as initials).
func Tokenize(name string) []string {
	normalized := Normalize(name, true)
	words := strings.Fields(normalized)

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) > 1 || isUpperInitial(name, w) {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// isUpperInitial reports whether the single-character token w appears in
// the original name as an upper-case letter (i.e., plausibly an initial).
func isUpperInitial(original, w string) bool {
	if w == "" {
		return false
	}
	target := strings.ToUpper(w)
	for _, r := range original {
		if unicode.IsUpper(r) && strings.EqualFold(string(r), target) {
			return true
		}
	}
	return false
}

// ExtractNameParts splits a full name into first, middle, and last parts,
// supplementing spec.md §4.1 with the original's extract_name_parts
// (SPEC_FULL.md DATA MODEL section).
func ExtractNameParts(fullName string) (first, middle, last string) {
	tokens := Tokenize(fullName)
	switch len(tokens) {
	case 0:
		return "", "", ""
	case 1:
		return tokens[0], "", ""
	case 2:
		return tokens[0], "", tokens[1]
	default:
		return tokens[0], strings.Join(tokens[1:len(tokens)-1], " "), tokens[len(tokens)-1]
	}
}

// GenerateVariations produces a bounded, deterministic set of name
// variants for broader recall (spec.md §4.1). The cap is enforced by
// first-seen-wins insertion order.
func GenerateVariations(name string) []string {
	seen := make(map[string]struct{}, MaxVariants)
	var out []string

	add := func(v string) {
		if len(out) >= MaxVariants {
			return
		}
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	withPrefixes := Normalize(name, true)
	withoutPrefixes := Normalize(name, false)
	add(withPrefixes)
	add(withoutPrefixes)

	words := strings.Fields(withPrefixes)
	if len(words) >= 2 {
		add(words[len(words)-1] + " " + strings.Join(words[:len(words)-1], " "))
		add(words[0] + " " + words[len(words)-1])
	}

	for i, w := range words {
		canonical, ok := variantOf[w]
		if !ok {
			continue
		}
		replaced := make([]string, len(words))
		copy(replaced, words)
		replaced[i] = canonical
		add(strings.Join(replaced, " "))

		for _, member := range canonicalToGroup[canonical] {
			replaced[i] = member
			add(strings.Join(replaced, " "))
		}
	}

	return out
}

// IsCorporate reports whether name's normalized form contains a corporate
// indicator token or substring (spec.md §4.1).
func IsCorporate(name string) bool {
	normalized := Normalize(name, true)
	for _, indicator := range corporateIndicators {
		if strings.Contains(normalized, indicator) {
			return true
		}
	}
	return false
}
