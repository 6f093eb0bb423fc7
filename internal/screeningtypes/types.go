// Package screeningtypes holds the data model shared across the
// normalizer, scorer, matcher, and batch packages.
package screeningtypes

import "time"

// EntityKind distinguishes an individual from a corporate entity.
type EntityKind string

const (
	EntityIndividual EntityKind = "individual"
	EntityCorporate  EntityKind = "corporate"
)

// ScreeningQuery represents the entity being checked against the corpus.
type ScreeningQuery struct {
	DisplayName         string     `json:"display_name"`
	EntityKind          EntityKind `json:"entity_type"`
	DateOfBirth         string     `json:"date_of_birth,omitempty"`
	Nationality         string     `json:"nationality,omitempty"`
	NationalID          string     `json:"national_id,omitempty"`
	PassportNumber      string     `json:"passport_number,omitempty"`
	RegistrationNumber  string     `json:"registration_number,omitempty"`
	RegistrationCountry string     `json:"registration_country,omitempty"`
	Context             string     `json:"context,omitempty"`
}

// IdentifierValue returns the value to compare against a corpus entry's
// national ID: the query's national ID if present, otherwise its passport
// number (individuals only, per spec.md §4.3).
func (q ScreeningQuery) IdentifierValue() string {
	if q.NationalID != "" {
		return q.NationalID
	}
	return q.PassportNumber
}

// CorpusEntry is a single sanctions/watchlist entry. Normalized fields are
// derived once, at CorpusView construction time, and never recomputed
// during screening (spec.md §5 Memory).
type CorpusEntry struct {
	SourceID            string     `json:"source_id"`
	ListCode            string     `json:"list_code"`
	ListName            string     `json:"list_name"`
	EntityKind          EntityKind `json:"entity_type"`
	PrimaryName         string     `json:"primary_name"`
	Aliases             []string   `json:"aliases"`
	DateOfBirth         string     `json:"date_of_birth,omitempty"`
	Nationality         string     `json:"nationality,omitempty"`
	NationalID          string     `json:"national_id,omitempty"`
	RegistrationNumber  string     `json:"registration_number,omitempty"`
	RegistrationCountry string     `json:"registration_country,omitempty"`
	SanctionDate        string     `json:"sanction_date,omitempty"`
	SanctionPrograms    []string   `json:"sanction_programs,omitempty"`
	SanctionReason      string     `json:"sanction_reason,omitempty"`
	Active              bool       `json:"active"`

	// Derived, populated once by CorpusView construction.
	NormalizedPrimary string
	NormalizedAliases []string
	Fingerprint       string
}

// NameScore is the multi-algorithm breakdown produced by the name scorer.
type NameScore struct {
	JaroWinkler    float64 `json:"jaro_winkler"`
	EditSimilarity float64 `json:"edit_sim"`
	TokenSort      float64 `json:"token_sort"`
	TokenSet       float64 `json:"token_set"`
	Phonetic       float64 `json:"phonetic"`
	ExactMatch     bool    `json:"exact_match"`
	OverallScore   float64 `json:"overall"`
	AlgorithmUsed  string  `json:"algorithm_used"`
}

// AugmentedScore composes a NameScore with attribute concordance boosts.
type AugmentedScore struct {
	Name              NameScore          `json:"name_score"`
	DOBMatch          bool               `json:"dob_match"`
	NationalityMatch  bool               `json:"nationality_match"`
	IDMatch           bool               `json:"id_match"`
	AppliedBoosts     map[string]float64 `json:"applied_boosts,omitempty"`
	CombinedScore     float64            `json:"combined_score"`
}

// MatchResult references a CorpusEntry matched by a screening query.
type MatchResult struct {
	Entry        *CorpusEntry
	MatchedName  string
	IsAliasMatch bool
	Score        AugmentedScore
}

// OverallStatus is the risk-ladder outcome of a completed screening.
type OverallStatus string

const (
	StatusReleased      OverallStatus = "released"
	StatusPendingReview OverallStatus = "pending_review"
	StatusEscalated     OverallStatus = "escalated"
	StatusFlagged       OverallStatus = "flagged"
	StatusFalsePositive OverallStatus = "false_positive"
	StatusTrueMatch     OverallStatus = "true_match"
)

// RiskLevel is the discrete bucket derived from the top combined score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// rank gives a total order over risk levels for monotonicity checks
// (spec.md §8 property 8): low < medium < high < critical.
var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// AtLeast reports whether r is at least as severe as other.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return riskRank[r] >= riskRank[other]
}

// Warning records a non-fatal CorpusError encountered while building a
// view or screening an entry (spec.md §7: CorpusError downgrades to a
// skip, recorded here, rather than failing the whole screen).
type Warning struct {
	SourceID string `json:"source_id,omitempty"`
	ListCode string `json:"list_code,omitempty"`
	Reason   string `json:"reason"`
}

// ScreeningResponse is the complete, immutable result of one screening.
type ScreeningResponse struct {
	ReferenceID       string        `json:"reference_id"`
	ScreenedName      string        `json:"screened_name"`
	EntityKind        EntityKind    `json:"entity_type"`
	TotalMatches      int           `json:"total_matches"`
	HighestScore      float64       `json:"highest_score"`
	RiskLevel         RiskLevel     `json:"risk_level"`
	ProcessingTimeMS  int64         `json:"processing_time_ms"`
	ListsScreened     []string      `json:"lists_screened"`
	Timestamp         time.Time     `json:"timestamp"`
	OverallStatus     OverallStatus `json:"overall_status"`
	AutoReleased      bool          `json:"auto_released"`
	Matches           []MatchResult `json:"matches"`
	Warnings          []Warning     `json:"warnings,omitempty"`
	FailureKind       string        `json:"failure_kind,omitempty"`
}
