package scorer

import (
	"regexp"
	"strings"
	"time"

	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/screeningtypes"
)

// Boost values mirror the original EnhancedScorer's DOB_BOOST/
// NATIONALITY_BOOST/ID_BOOST constants (spec.md §4.3).
const (
	DOBBoost         = 0.15
	NationalityBoost = 0.05
	IdentifierBoost  = 0.20
)

// dobLayouts are the date formats the original _normalize_date tries, in
// order, before giving up on a DOB comparison.
var dobLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"01-02-2006",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02.01.2006",
	"2006.01.02",
}

// nationalityAliases maps every informal/abbreviated/alternate nationality
// form to a canonical form, grounded on the original's alias table
// (spec.md §4.3). Each group's alternate forms all resolve to the same
// canonical string so any pair within a group matches.
var nationalityAliases = map[string]string{
	"uae":                     "united arab emirates",
	"emirates":                "united arab emirates",
	"ksa":                     "saudi arabia",
	"saudi":                   "saudi arabia",
	"kingdom of saudi arabia": "saudi arabia",
	"usa":                     "united states",
	"america":                 "united states",
	"united states of america": "united states",
	"uk":            "united kingdom",
	"great britain": "united kingdom",
	"britain":       "united kingdom",
	"england":       "united kingdom",
}

var identifierCleanRe = regexp.MustCompile(`[\s-]+`)

// AugmentedScorer composes NameScorer with attribute-concordance boosts
// (date of birth, nationality, identifier) per spec.md §4.3.
type AugmentedScorer struct {
	names *NameScorer
}

// NewAugmentedScorer wraps a NameScorer.
func NewAugmentedScorer(names *NameScorer) *AugmentedScorer {
	return &AugmentedScorer{names: names}
}

// candidateAttrs is the minimal attribute set AugmentedScorer compares;
// both ScreeningQuery and CorpusEntry are adapted to it by the caller.
type candidateAttrs struct {
	DateOfBirth string
	Nationality string
	Identifier  string
}

// Score computes an AugmentedScore for queryName/queryAttrs against
// targetName/targetAttrs, using variant-aware name scoring.
func (s *AugmentedScorer) Score(queryName string, queryAttrs candidateAttrs, targetName string, targetAttrs candidateAttrs) screeningtypes.AugmentedScore {
	nameScore := s.names.ScoreWithVariations(queryName, targetName)

	boosts := make(map[string]float64)
	combined := nameScore.OverallScore

	dobMatch := dobMatches(queryAttrs.DateOfBirth, targetAttrs.DateOfBirth)
	if dobMatch {
		boosts["date_of_birth"] = DOBBoost
		combined += DOBBoost
	}

	nationalityMatch := nationalityMatches(queryAttrs.Nationality, targetAttrs.Nationality)
	if nationalityMatch {
		boosts["nationality"] = NationalityBoost
		combined += NationalityBoost
	}

	idMatch := identifierMatches(queryAttrs.Identifier, targetAttrs.Identifier)
	if idMatch {
		boosts["identifier"] = IdentifierBoost
		combined += IdentifierBoost
	}

	if combined > 1 {
		combined = 1
	}

	return screeningtypes.AugmentedScore{
		Name:             nameScore,
		DOBMatch:         dobMatch,
		NationalityMatch: nationalityMatch,
		IDMatch:          idMatch,
		AppliedBoosts:    boosts,
		CombinedScore:    combined,
	}
}

// QueryAttrs adapts a ScreeningQuery to candidateAttrs.
func QueryAttrs(q screeningtypes.ScreeningQuery) candidateAttrs {
	return candidateAttrs{
		DateOfBirth: q.DateOfBirth,
		Nationality: q.Nationality,
		Identifier:  q.IdentifierValue(),
	}
}

// EntryAttrs adapts a CorpusEntry to candidateAttrs.
func EntryAttrs(e *screeningtypes.CorpusEntry) candidateAttrs {
	return candidateAttrs{
		DateOfBirth: e.DateOfBirth,
		Nationality: e.Nationality,
		Identifier:  e.NationalID,
	}
}

// dobMatches reports whether both dates parse under any shared layout and
// fall on the same calendar day. Unparseable or empty input on either
// side yields no boost, never an error (spec.md §4.3).
func dobMatches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ta, ok := parseDOB(a)
	if !ok {
		return false
	}
	tb, ok := parseDOB(b)
	if !ok {
		return false
	}
	return ta.Equal(tb)
}

func parseDOB(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// nationalityMatches compares two nationality strings case-insensitively,
// resolving every form listed in nationalityAliases to its canonical form
// first.
func nationalityMatches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return canonicalNationality(a) == canonicalNationality(b)
}

func canonicalNationality(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := nationalityAliases[s]; ok {
		return canonical
	}
	return s
}

// identifierMatches compares two identifiers after stripping whitespace
// and hyphens and upper-casing, a byte-exact comparison otherwise.
func identifierMatches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return cleanIdentifier(a) == cleanIdentifier(b)
}

func cleanIdentifier(s string) string {
	return strings.ToUpper(identifierCleanRe.ReplaceAllString(strings.TrimSpace(s), ""))
}
