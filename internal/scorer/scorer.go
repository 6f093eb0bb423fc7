// Package scorer implements the multi-algorithm name-similarity and
// attribute-augmented scoring described in spec.md §4.2-4.3.
//
// Ported from the original Python MatchScorer/EnhancedScorer
// (original_source/backend/app/engine/scorer.py): the same weighted
// ensemble of Jaro-Winkler, edit-distance, token-sort, token-set, and
// phonetic similarity, re-expressed with Go libraries in place of
// rapidfuzz/jellyfish where the example corpus grounds one.
package scorer

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"

	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/normalizer"
	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/screeningtypes"
)

// Weights is the weighted-composition configuration for NameScorer.
// Values must sum to 1 within 1e-6 (enforced by Validate).
type Weights struct {
	JaroWinkler float64
	EditSim     float64
	TokenSort   float64
	TokenSet    float64
	Phonetic    float64
}

// DefaultWeights mirrors the Python original's DEFAULT_WEIGHTS.
var DefaultWeights = Weights{
	JaroWinkler: 0.30,
	EditSim:     0.20,
	TokenSort:   0.25,
	TokenSet:    0.15,
	Phonetic:    0.10,
}

// Validate reports whether the weights sum to 1 within tolerance.
func (w Weights) Validate() error {
	sum := w.JaroWinkler + w.EditSim + w.TokenSort + w.TokenSet + w.Phonetic
	if sum < 1-1e-6 || sum > 1+1e-6 {
		return fmt.Errorf("scorer: weights must sum to 1, got %v", sum)
	}
	return nil
}

// jaroWinklerBoostThreshold and jaroWinklerPrefixSize are smetrics'
// standard Jaro-Winkler parameters (Winkler's own defaults).
const (
	jaroWinklerBoostThreshold = 0.7
	jaroWinklerPrefixSize     = 4

	// maxVariantPairs caps the variant-aware cartesian product (spec.md
	// §4.2): sqrt(maxVariantPairs) variants enforced per side.
	maxVariantPairs  = 256
	maxVariantPerSide = 16
)

// NameScorer computes NameScore between two names.
type NameScorer struct {
	weights Weights
}

// NewNameScorer constructs a NameScorer, validating weights.
func NewNameScorer(weights Weights) (*NameScorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &NameScorer{weights: weights}, nil
}

// Score computes the full NameScore between query and target. If
// normalize is true, both names are run through normalizer.Normalize
// first (the original's `normalize=True` default).
func (s *NameScorer) Score(query, target string, normalize bool) screeningtypes.NameScore {
	rawQuery, rawTarget := query, target
	if strings.EqualFold(strings.TrimSpace(rawQuery), strings.TrimSpace(rawTarget)) {
		return screeningtypes.NameScore{
			JaroWinkler: 1, EditSimilarity: 1, TokenSort: 1, TokenSet: 1, Phonetic: 1,
			ExactMatch: true, OverallScore: 1, AlgorithmUsed: "exact",
		}
	}

	a, b := query, target
	if normalize {
		a = normalizer.Normalize(query, false)
		b = normalizer.Normalize(target, false)
	}
	if a == b {
		return screeningtypes.NameScore{
			JaroWinkler: 1, EditSimilarity: 1, TokenSort: 1, TokenSet: 1, Phonetic: 1,
			ExactMatch: true, OverallScore: 1, AlgorithmUsed: "exact",
		}
	}

	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)

	jw := smetrics.JaroWinkler(a, b, jaroWinklerBoostThreshold, jaroWinklerPrefixSize)
	edit := editSimilarity(a, b)
	sortR := tokenSortRatio(tokensA, tokensB)
	setR := tokenSetRatio(tokensA, tokensB)
	phon := phoneticSimilarity(tokensA, tokensB)

	overall := s.weights.JaroWinkler*jw +
		s.weights.EditSim*edit +
		s.weights.TokenSort*sortR +
		s.weights.TokenSet*setR +
		s.weights.Phonetic*phon

	components := []struct {
		name  string
		value float64
	}{
		{"jaro_winkler", jw},
		{"levenshtein", edit},
		{"token_sort", sortR},
		{"token_set", setR},
		{"phonetic", phon},
	}
	best := components[0]
	for _, c := range components[1:] {
		if c.value > best.value {
			best = c
		}
	}

	return screeningtypes.NameScore{
		JaroWinkler:    jw,
		EditSimilarity: edit,
		TokenSort:      sortR,
		TokenSet:       setR,
		Phonetic:       phon,
		ExactMatch:     false,
		OverallScore:   overall,
		AlgorithmUsed:  best.name,
	}
}

// ScoreWithVariations scores query against target across the cartesian
// product of both sides' normalizer.GenerateVariations, bounded to
// maxVariantPerSide variants per side (maxVariantPairs total), and
// returns the highest-overall result (spec.md §4.2).
func (s *NameScorer) ScoreWithVariations(query, target string) screeningtypes.NameScore {
	queryVariants := capVariants(normalizer.GenerateVariations(query))
	targetVariants := capVariants(normalizer.GenerateVariations(target))
	if len(queryVariants) == 0 {
		queryVariants = []string{query}
	}
	if len(targetVariants) == 0 {
		targetVariants = []string{target}
	}

	best := s.Score(query, target, true)
	for _, qv := range queryVariants {
		for _, tv := range targetVariants {
			candidate := s.Score(qv, tv, false)
			if candidate.OverallScore > best.OverallScore {
				best = candidate
			}
		}
	}
	return best
}

func capVariants(variants []string) []string {
	if len(variants) <= maxVariantPerSide {
		return variants
	}
	return variants[:maxVariantPerSide]
}

// MightMatch is the cheap pre-filter (spec.md §4.4 step 2.1): a
// length-ratio sanity check followed by a plain Jaro-Winkler comparison
// of fingerprints, run before the expensive variant-aware scoring.
func MightMatch(query, target string, threshold float64) bool {
	fpQuery := normalizer.Fingerprint(query)
	fpTarget := normalizer.Fingerprint(target)
	if fpQuery == "" || fpTarget == "" {
		return fpQuery == fpTarget
	}

	shorter, longer := len(fpQuery), len(fpTarget)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if float64(shorter)/float64(longer) < 0.5 {
		return false
	}

	return smetrics.JaroWinkler(fpQuery, fpTarget, jaroWinklerBoostThreshold, jaroWinklerPrefixSize) >= threshold
}

// editSimilarity converts agnivade/levenshtein's raw edit distance into a
// [0,1] similarity normalized by the longer string's length.
func editSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	sim := 1 - float64(dist)/float64(maxLen)
	if sim < 0 {
		sim = 0
	}
	return sim
}
