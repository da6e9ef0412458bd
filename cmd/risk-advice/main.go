package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mailrisk/risk-engine/internal/adapters/emailstore"
	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
	"github.com/mailrisk/risk-engine/internal/factory"
	"github.com/mailrisk/risk-engine/internal/logging"
	"github.com/mailrisk/risk-engine/internal/mailparse"
	"go.uber.org/zap"
)

var (
	inputFile = flag.String("file", "", "Input email file (use stdin if not specified)")
	userID    = flag.String("user", "", "User id for confidence adjustment and feedback")
	feedback  = flag.String("feedback", "", "Submit a verdict after scoring (scam or legit)")

	threshold  = flag.Float64("threshold", 0, "Override the suspicious threshold")
	storeType  = flag.String("store", "", "Override the weight store type (memory, sqlite, mysql, postgres, redis)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Read email from file or stdin
	var doc *core.EmailDocument
	if *inputFile != "" {
		doc, err = mailparse.ParseFile(*inputFile)
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		logger.Info("Reading email from stdin")
		doc, err = mailparse.Parse(bufio.NewReader(os.Stdin))
	}
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	service, store, err := buildService(cfg, doc, logger)
	if err != nil {
		logger.Fatal("Failed to build risk engine", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close weight store", zap.Error(err))
		}
	}()

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", doc.From)
	fmt.Printf("Reply-To: %s\n", doc.ReplyTo)
	fmt.Printf("Subject: %s\n", doc.Subject)
	fmt.Printf("SPF=%s DKIM=%s DMARC=%s\n", doc.Auth.SPF, doc.Auth.DKIM, doc.Auth.DMARC)
	fmt.Printf("Attachments: %d, body length: %d bytes\n", len(doc.Attachments), len(doc.Body))

	ctx := context.Background()
	assessment, err := service.GetRiskAdvice(ctx, doc.ID, *userID)
	if err != nil {
		logger.Fatal("Failed to assess email", zap.Error(err))
	}

	fmt.Printf("\n=== Assessment ===\n")
	fmt.Printf("Suspicious: %t\n", assessment.Suspicious)
	fmt.Printf("Raw score: %.1f\n", assessment.RawScore)
	fmt.Printf("Confidence: %.2f\n", assessment.Confidence)
	if assessment.UsedFallback {
		fmt.Printf("(weight store unavailable, baseline confidence used)\n")
	}
	for i, explanation := range assessment.Explanations {
		fmt.Printf("%d. %s\n", i+1, explanation)
	}

	if *feedback != "" {
		receipt, err := service.SubmitRiskFeedback(ctx, doc.ID, *userID, *feedback)
		if err != nil {
			logger.Fatal("Failed to submit feedback", zap.Error(err))
		}
		fmt.Printf("\n=== Feedback ===\n")
		fmt.Printf("Accepted: %t, updated feature keys: %v\n", receipt.Accepted, receipt.UpdatedKeys)
	}
}

func loadConfig(logger *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	if *configFile != "" {
		loaded, err := config.New()
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = config.NewFromViper(config.NewEmptyViper())
	}

	if *threshold > 0 {
		cfg.GetViper().Set("scoring.suspicious_threshold", *threshold)
	}
	if *storeType != "" {
		cfg.GetViper().Set("weight_store.type", *storeType)
	}
	return cfg, nil
}

// buildService assembles a full engine around a single parsed document
func buildService(cfg *config.Config, doc *core.EmailDocument, logger *zap.Logger) (*core.RiskService, core.WeightStore, error) {
	store, err := factory.NewWeightStoreFactory(cfg, logger).CreateWeightStore()
	if err != nil {
		return nil, nil, err
	}

	ages, err := factory.NewEnrichmentFactory(cfg, logger).CreateDomainAgeProvider()
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	signalsFactory := factory.NewSignalsFactory(cfg, logger)
	registry, err := signalsFactory.CreateRegistry(ages)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	aggregator := signalsFactory.CreateAggregator(registry)

	scoring := cfg.GetScoring()
	adjuster := core.NewConfidenceAdjuster(store, core.ScoringParams{
		SuspiciousThreshold: scoring.SuspiciousThreshold,
		HighRiskThreshold:   scoring.HighRiskThreshold,
		HighRiskConfidence:  scoring.HighRiskConfidence,
		BaselineDivisor:     scoring.BaselineDivisor,
		BaselineFloor:       scoring.BaselineFloor,
		BaselineCeiling:     scoring.BaselineCeiling,
		AdjustmentBound:     scoring.AdjustmentBound,
	}, logger)

	emails := emailstore.NewMemoryRepository()
	emails.Put(doc)

	return core.NewRiskService(emails, aggregator, adjuster, store, cfg.GetStringSlice("scoring.trusted_domains"), logger), store, nil
}
