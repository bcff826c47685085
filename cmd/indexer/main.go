package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"agri-curator/internal/config"
	"agri-curator/internal/embedding"
	"agri-curator/internal/indexer"
	"agri-curator/internal/llm"
	"agri-curator/internal/scheduler"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	ctx := context.Background()

	qc, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.QdrantHost,
		Port:   cfg.QdrantPort,
		APIKey: cfg.QdrantAPIKey,
	})
	if err != nil {
		logger.Fatal("connect qdrant", zap.Error(err))
	}

	embedder, err := embedding.NewGenAIEngine(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel, "RETRIEVAL_DOCUMENT")
	if err != nil {
		logger.Fatal("create embedding engine", zap.Error(err))
	}

	factory := llm.NewFactory(cfg)
	tagger, err := factory.CreateClient(ctx, string(cfg.LLMProvider), modelFor(cfg))
	if err != nil {
		logger.Fatal("create llm client", zap.Error(err))
	}

	ix := indexer.New(qc, embedder, tagger, cfg.QdrantCollection, logger)

	run := func(ctx context.Context) error {
		if err := ix.EnsureCollection(ctx); err != nil {
			return err
		}
		return ix.IndexDirectory(ctx, cfg.DocumentsDir, cfg.MetadataFile)
	}

	if err := run(ctx); err != nil {
		logger.Fatal("indexing run failed", zap.Error(err))
	}

	if cfg.IndexSchedule == "" {
		return
	}

	// keep running and re-index on schedule
	sched := scheduler.New(logger)
	sched.SetJob(run)
	if err := sched.Start(cfg.IndexSchedule); err != nil {
		logger.Fatal("start scheduler", zap.Error(err))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	sched.Stop()
}

func modelFor(cfg *config.Config) string {
	if cfg.LLMProvider == config.ProviderGemini {
		return cfg.GeminiModel
	}
	return cfg.OpenAIModel
}

func newLogger(debug bool) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}
