package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"agri-curator/internal/config"
	"agri-curator/internal/curator"
	"agri-curator/internal/dataclient"
	"agri-curator/internal/embedding"
	"agri-curator/internal/httpapi"
	"agri-curator/internal/llm"
	"agri-curator/internal/storage"
	"agri-curator/internal/tools"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	ctx := context.Background()

	factory := llm.NewFactory(cfg)
	model, err := factory.CreateClient(ctx, string(cfg.LLMProvider), modelFor(cfg))
	if err != nil {
		logger.Fatal("create llm client", zap.Error(err))
	}

	data := dataclient.New(cfg.DataServiceURL)
	messageLog := tools.NewMessageHistoryLogger(data)
	userData := tools.NewUserDataLogger(data)
	suggestions := tools.NewSuggestionDataLogger(data)

	search := tools.NewWebSearch(cfg.TavilyAPIKey)
	registryTools := []tools.Tool{
		search,
		tools.NewWeatherAnalysis(),
		tools.NewPriceFetcher(),
		tools.NewNewsFetcher(),
		tools.NewPolicyFetcher(search, model),
		userData,
		messageLog,
		suggestions,
	}

	if vision, ok := model.(llm.VisionClient); ok {
		registryTools = append(registryTools, tools.NewPestDetection(cfg.PestAPIURL, vision))
	} else {
		logger.Warn("llm provider has no vision support, pest detection disabled")
	}

	var images *tools.ImageSearchTool
	if cfg.GoogleAPIKey != "" && cfg.GoogleCSEID != "" {
		images = tools.NewImageSearch(cfg.GoogleAPIKey, cfg.GoogleCSEID)
		registryTools = append(registryTools, images)
	}

	if retrieval := buildRetrieval(ctx, cfg, model, logger); retrieval != nil {
		registryTools = append(registryTools, retrieval)
	}

	registry := tools.NewRegistry(registryTools...)
	logger.Info("tool registry ready", zap.Strings("tools", registry.Names()))

	recorder, err := storage.NewFileRecorder(cfg.LogFilePath)
	if err != nil {
		logger.Fatal("init turn recorder", zap.Error(err))
	}

	router := curator.NewQueryRouter(model, curator.SystemPrompt, messageLog, userData, suggestions, registry, logger)
	taskManager := curator.NewTaskManager(registry, logger)
	formatter := curator.NewResponseFormatter(model, userData, suggestions, logger)
	workflow := curator.NewWorkflow(router, taskManager, formatter, userData, logger)
	gatherer := curator.NewElementDetailGatherer(model, search, images, suggestions, logger)

	svc := curator.NewService(workflow, router, userData, messageLog, gatherer, recorder, logger)

	e := echo.New()
	e.HideBanner = true
	httpapi.NewHandler(svc, logger).Register(e)

	logger.Info("agent service listening", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// buildRetrieval wires the document-retrieval tool when the vector store
// and embedding credentials are configured. Returns nil when they are not.
func buildRetrieval(ctx context.Context, cfg *config.Config, model llm.Client, logger *zap.Logger) tools.Tool {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("gemini api key not set, document retrieval disabled")
		return nil
	}

	qc, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.QdrantHost,
		Port:   cfg.QdrantPort,
		APIKey: cfg.QdrantAPIKey,
	})
	if err != nil {
		logger.Warn("qdrant unavailable, document retrieval disabled", zap.Error(err))
		return nil
	}

	embedder, err := embedding.NewGenAIEngine(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel, "RETRIEVAL_QUERY")
	if err != nil {
		logger.Warn("embedding engine unavailable, document retrieval disabled", zap.Error(err))
		return nil
	}

	selector := tools.NewMetadataSelector(model, cfg.MetadataFile)
	return tools.NewRetrieval(qc, embedder, selector, cfg.QdrantCollection)
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
