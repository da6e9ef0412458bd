package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/mailrisk/risk-engine/internal/adapters/emailstore"
	"github.com/mailrisk/risk-engine/internal/core"
	"github.com/mailrisk/risk-engine/internal/di"
	"github.com/mailrisk/risk-engine/internal/logging"
	"github.com/mailrisk/risk-engine/internal/mailparse"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	mailDir     = flag.String("dir", "", "Directory of .eml files to score")
	outFile     = flag.String("out", "", "JSONL output file (stdout if not specified)")
	userID      = flag.String("user", "", "User id for confidence adjustment")
	concurrency = flag.Int("concurrency", 8, "Number of emails scored in parallel")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog     = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	if *mailDir == "" {
		fmt.Println("Usage: risk-backfill -dir <directory of .eml files>")
		os.Exit(1)
	}

	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Backfill error: %v\n", err)
		os.Exit(1)
	}
}

// run scores every message in the directory through the engine, any
// number of emails in parallel: extraction and aggregation touch no
// shared mutable state, and the weight store is only read.
func run(
	service *core.RiskService,
	emails *emailstore.MemoryRepository,
	store core.WeightStore,
) error {
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close weight store", zap.Error(err))
		}
	}()

	paths, err := filepath.Glob(filepath.Join(*mailDir, "*.eml"))
	if err != nil {
		return fmt.Errorf("failed to list mail directory: %w", err)
	}
	logger.Info("Starting backfill",
		zap.Int("emails", len(paths)),
		zap.Int("concurrency", *concurrency))

	out := os.Stdout
	if *outFile != "" {
		out, err = os.Create(*outFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()
	}
	encoder := json.NewEncoder(out)
	var outMu sync.Mutex

	// Cancellation for a batch is just "stop submitting work": SIGINT
	// cancels the context and in-flight items finish on their own
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		path := path
		g.Go(func() error {
			assessment, err := scoreFile(ctx, service, emails, path)
			if err != nil {
				// One bad message never fails the batch
				logger.Warn("Skipping unparseable email", zap.String("file", path), zap.Error(err))
				return nil
			}

			outMu.Lock()
			defer outMu.Unlock()
			return encoder.Encode(assessment)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Backfill complete")
	return nil
}

func scoreFile(ctx context.Context, service *core.RiskService, emails *emailstore.MemoryRepository, path string) (*core.RiskAssessment, error) {
	doc, err := mailparse.ParseFile(path)
	if err != nil {
		return nil, err
	}
	// Message-IDs in a historical corpus are not guaranteed unique;
	// the file name is
	doc.ID = filepath.Base(path)
	emails.Put(doc)
	return service.GetRiskAdvice(ctx, doc.ID, *userID)
}
