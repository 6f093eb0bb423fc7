// Command screen is a one-shot CLI demo of the screening core: it loads
// an EngineConfig, builds a CorpusView from a JSON fixture, screens a
// single query built from flags, and prints the resulting
// ScreeningResponse as JSON. It stands in for the HTTP/gRPC surface the
// core's spec places out of scope.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/config"
	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/corpusfeed"
	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/matcher"
	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/observability"
	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/scorer"
	"github.com/rohitsadhu1947/arabiasanctions/screening/internal/screeningtypes"
)

func main() {
	corpusPath := flag.String("corpus", "", "path to a JSON file containing []screeningtypes.CorpusEntry")
	name := flag.String("name", "", "display name to screen")
	entityKind := flag.String("entity-type", "", "individual or corporate (optional)")
	dob := flag.String("dob", "", "date of birth (optional)")
	nationality := flag.String("nationality", "", "nationality (optional)")
	nationalID := flag.String("national-id", "", "national ID or passport number (optional)")
	threshold := flag.Float64("threshold", -1, "override the configured match threshold (optional)")
	listCodesFlag := flag.String("list-codes", "", "comma-separated list codes to screen against (optional, empty means all active)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *name == "" {
		logger.Fatal("missing required -name flag")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	entries, err := loadEntries(*corpusPath)
	if err != nil {
		logger.Fatal("failed to load corpus", zap.Error(err))
	}

	source := corpusfeed.NewStaticSource(entries, nil)
	view, err := corpusfeed.LoadView(context.Background(), source)
	if err != nil {
		logger.Fatal("failed to build corpus view", zap.Error(err))
	}

	weights := scorer.Weights{
		JaroWinkler: cfg.Weights.JaroWinkler,
		EditSim:     cfg.Weights.EditSim,
		TokenSort:   cfg.Weights.TokenSort,
		TokenSet:    cfg.Weights.TokenSet,
		Phonetic:    cfg.Weights.Phonetic,
	}
	nameScorer, err := scorer.NewNameScorer(weights)
	if err != nil {
		logger.Fatal("invalid weights", zap.Error(err))
	}
	augmentedScorer := scorer.NewAugmentedScorer(nameScorer)

	metrics := observability.NewMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)

	m, err := matcher.New(augmentedScorer, matcher.Config{
		DefaultThreshold:  cfg.Matching.DefaultThreshold,
		HighRiskThreshold: cfg.Matching.HighRiskThreshold,
		IncludeAliases:    cfg.Matching.IncludeAliases,
		MaxResults:        cfg.Matching.MaxResults,
	}, logger, metrics)
	if err != nil {
		logger.Fatal("failed to build matcher", zap.Error(err))
	}

	query := screeningtypes.ScreeningQuery{
		DisplayName: *name,
		EntityKind:  screeningtypes.EntityKind(*entityKind),
		DateOfBirth: *dob,
		Nationality: *nationality,
		NationalID:  *nationalID,
	}

	var thresholdOverride *float64
	if *threshold >= 0 {
		thresholdOverride = threshold
	}

	var listCodes []string
	if *listCodesFlag != "" {
		listCodes = strings.Split(*listCodesFlag, ",")
		for i := range listCodes {
			listCodes[i] = strings.TrimSpace(listCodes[i])
		}
	}

	response, err := m.Screen(context.Background(), query, view, "", thresholdOverride, listCodes)
	if err != nil {
		logger.Fatal("screening failed", zap.Error(err))
	}

	output, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		logger.Fatal("failed to encode response", zap.Error(err))
	}
	fmt.Println(string(output))
}

// loadEntries reads a JSON corpus fixture, or returns an empty corpus
// when path is unset so the command is runnable without any fixture
// on hand (every query then simply releases with zero matches).
func loadEntries(path string) ([]screeningtypes.CorpusEntry, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var entries []screeningtypes.CorpusEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode corpus file: %w", err)
	}
	return entries, nil
}
