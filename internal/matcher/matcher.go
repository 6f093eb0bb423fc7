package matcher

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/scorer"
	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/screeningtypes"
)

// preFilterFactor scales the effective threshold (Config.DefaultThreshold
// or the per-call override) down for the cheap pre-filter pass, mirroring
// the original's quick_filter(threshold * 0.7).
const preFilterFactor = 0.7

// Metrics is the subset of instrumentation Matcher emits; nil-safe, so
// callers that don't wire Prometheus can pass nil.
type Metrics interface {
	ObserveScreen(riskLevel string, durationSeconds float64)
}

// Config holds the tunables from spec.md §4.4/§6.
type Config struct {
	DefaultThreshold  float64
	HighRiskThreshold float64
	IncludeAliases    bool
	MaxResults        int
}

// DefaultConfig mirrors the Python original's ScreeningMatcher defaults.
var DefaultConfig = Config{
	DefaultThreshold:  0.75,
	HighRiskThreshold: 0.90,
	IncludeAliases:    true,
	MaxResults:        50,
}

func (c Config) validate() error {
	if c.DefaultThreshold < 0.5 || c.DefaultThreshold > 1 {
		return &InvalidConfigurationError{Reason: "default_threshold must be in [0.5,1.0]"}
	}
	if c.HighRiskThreshold < 0.5 || c.HighRiskThreshold > 1 {
		return &InvalidConfigurationError{Reason: "high_risk_threshold must be in [0.5,1.0]"}
	}
	if c.MaxResults <= 0 {
		return &InvalidConfigurationError{Reason: "max_results must be positive"}
	}
	return nil
}

// maxDisplayNameLength is the spec's cap on ScreeningQuery.DisplayName
// (spec.md §7).
const maxDisplayNameLength = 500

// Matcher implements the retrieval-and-rank screening pipeline.
type Matcher struct {
	scorer  *scorer.AugmentedScorer
	config  Config
	logger  *zap.Logger
	metrics Metrics
}

// New constructs a Matcher. logger and metrics may be nil; a nil logger
// falls back to zap.NewNop().
func New(s *scorer.AugmentedScorer, cfg Config, logger *zap.Logger, metrics Metrics) (*Matcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{scorer: s, config: cfg, logger: logger, metrics: metrics}, nil
}

// Screen runs query against every entry in view, returning a
// ScreeningResponse ranked by descending combined score. referenceID is
// used verbatim if non-empty; otherwise a UUID is generated. threshold,
// if non-nil, overrides Config.DefaultThreshold for this call only.
// listCodes restricts the entries screened to those list codes; an empty
// or nil slice screens every active list (spec.md §6). A list code with
// no entries in view is reported as a CorpusError-derived Warning rather
// than failing the screen.
func (m *Matcher) Screen(ctx context.Context, query screeningtypes.ScreeningQuery, view *screeningtypes.CorpusView, referenceID string, threshold *float64, listCodes []string) (*screeningtypes.ScreeningResponse, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	effectiveThreshold := m.config.DefaultThreshold
	if threshold != nil {
		effectiveThreshold = *threshold
	}
	preFilterThreshold := effectiveThreshold * preFilterFactor

	if referenceID == "" {
		referenceID = uuid.New().String()
	}

	start := time.Now()
	queryAttrs := scorer.QueryAttrs(query)

	requestedListCodes := make(map[string]bool, len(listCodes))
	for _, code := range listCodes {
		requestedListCodes[code] = true
	}

	listsScreened := make(map[string]struct{})
	var matches []screeningtypes.MatchResult
	var warnings []screeningtypes.Warning
	warnings = append(warnings, view.LoadWarnings()...)

	for code := range requestedListCodes {
		if !view.HasEntriesForListCode(code) {
			warnings = append(warnings, screeningtypes.Warning{
				ListCode: code,
				Reason:   (&screeningtypes.CorpusError{ListCode: code, Reason: "requested list code has no entries"}).Error(),
			})
		}
	}

	for _, entry := range view.Entries() {
		select {
		case <-ctx.Done():
			return nil, &CancelledError{Cause: ctx.Err()}
		default:
		}

		if len(requestedListCodes) > 0 && !requestedListCodes[entry.ListCode] {
			continue
		}

		listsScreened[entry.ListCode] = struct{}{}

		if !m.entryMightMatch(query.DisplayName, entry, preFilterThreshold) {
			continue
		}

		best := m.scorer.Score(query.DisplayName, queryAttrs, entry.PrimaryName, scorer.EntryAttrs(entry))
		matchedName := entry.PrimaryName
		isAlias := false

		if m.config.IncludeAliases {
			for _, alias := range entry.Aliases {
				aliasScore := m.scorer.Score(query.DisplayName, queryAttrs, alias, scorer.EntryAttrs(entry))
				if aliasScore.CombinedScore > best.CombinedScore {
					best = aliasScore
					matchedName = alias
					isAlias = true
				}
			}
		}

		if best.CombinedScore >= effectiveThreshold {
			matches = append(matches, screeningtypes.MatchResult{
				Entry:        entry,
				MatchedName:  matchedName,
				IsAliasMatch: isAlias,
				Score:        best,
			})
		}
	}

	sortMatches(matches)
	if len(matches) > m.config.MaxResults {
		matches = matches[:m.config.MaxResults]
	}

	highestScore := 0.0
	if len(matches) > 0 {
		highestScore = matches[0].Score.CombinedScore
	}
	risk := classifyRisk(highestScore)
	status, autoReleased := deriveOutcome(len(matches), highestScore, m.config.HighRiskThreshold)

	listCodes := make([]string, 0, len(listsScreened))
	for code := range listsScreened {
		listCodes = append(listCodes, code)
	}
	sort.Strings(listCodes)

	elapsed := time.Since(start)
	if m.metrics != nil {
		m.metrics.ObserveScreen(string(risk), elapsed.Seconds())
	}
	m.logger.Debug("screening completed",
		zap.String("reference_id", referenceID),
		zap.Int("match_count", len(matches)),
		zap.Float64("highest_score", highestScore),
		zap.String("risk_level", string(risk)),
	)

	return &screeningtypes.ScreeningResponse{
		ReferenceID:      referenceID,
		ScreenedName:     query.DisplayName,
		EntityKind:       query.EntityKind,
		TotalMatches:     len(matches),
		HighestScore:     highestScore,
		RiskLevel:        risk,
		ProcessingTimeMS: elapsed.Milliseconds(),
		ListsScreened:    listCodes,
		Timestamp:        start,
		OverallStatus:    status,
		AutoReleased:     autoReleased,
		Matches:          matches,
		Warnings:         warnings,
	}, nil
}

// entryMightMatch applies the cheap pre-filter to an entry's primary name
// and, if aliases are enabled, falls back to checking each alias.
func (m *Matcher) entryMightMatch(queryName string, entry *screeningtypes.CorpusEntry, preFilterThreshold float64) bool {
	if scorer.MightMatch(queryName, entry.PrimaryName, preFilterThreshold) {
		return true
	}
	if !m.config.IncludeAliases {
		return false
	}
	for _, alias := range entry.Aliases {
		if scorer.MightMatch(queryName, alias, preFilterThreshold) {
			return true
		}
	}
	return false
}

// sortMatches orders matches by descending combined score, tie-breaking
// by list code then source ID ascending for a total, deterministic order
// (spec.md §4.4 step 3).
func sortMatches(matches []screeningtypes.MatchResult) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score.CombinedScore != b.Score.CombinedScore {
			return a.Score.CombinedScore > b.Score.CombinedScore
		}
		if a.Entry.ListCode != b.Entry.ListCode {
			return a.Entry.ListCode < b.Entry.ListCode
		}
		return a.Entry.SourceID < b.Entry.SourceID
	})
}

func validateQuery(query screeningtypes.ScreeningQuery) error {
	if strings.TrimSpace(query.DisplayName) == "" {
		return &InvalidQueryError{Reason: "display_name is required"}
	}
	if len(query.DisplayName) > maxDisplayNameLength {
		return &InvalidQueryError{Reason: "display_name must not exceed 500 characters"}
	}
	switch query.EntityKind {
	case "", screeningtypes.EntityIndividual, screeningtypes.EntityCorporate:
	default:
		return &InvalidQueryError{Reason: "entity_type must be individual or corporate"}
	}
	return nil
}
