package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderGemini LLMProvider = "gemini"
)

type Config struct {
	// HTTP
	Port  string `env:"PORT" envDefault:"8080"`
	Debug bool   `env:"DEBUG"`

	// LLM settings
	LLMProvider   LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey  string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string      `env:"OPENAI_BASE_URL"`
	OpenAIModel   string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GeminiAPIKey  string      `env:"GEMINI_API_KEY"`
	GeminiModel   string      `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// External services
	DataServiceURL string `env:"DATA_SERVICE_URL" envDefault:"http://localhost:8081/api/data"`
	TavilyAPIKey   string `env:"TAVILY_API_KEY"`
	PestAPIURL     string `env:"PEST_API_URL"`
	GoogleAPIKey   string `env:"GOOGLE_API_KEY"`
	GoogleCSEID    string `env:"GOOGLE_CSE_ID"`

	// Vector store
	QdrantHost       string `env:"QDRANT_HOST" envDefault:"localhost"`
	QdrantPort       int    `env:"QDRANT_PORT" envDefault:"6334"`
	QdrantAPIKey     string `env:"QDRANT_API_KEY"`
	QdrantCollection string `env:"QDRANT_COLLECTION" envDefault:"agri_documents"`
	EmbeddingModel   string `env:"EMBEDDING_MODEL" envDefault:"gemini-embedding-001"`
	MetadataFile     string `env:"METADATA_FILE" envDefault:"data/metadata.json"`

	// Data service
	DBPath string `env:"DB_PATH" envDefault:"data/documents.db"`

	// Indexer
	DocumentsDir  string `env:"DOCUMENTS_DIR" envDefault:"documents"`
	IndexSchedule string `env:"INDEX_SCHEDULE"`

	// Storage
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/turns.jsonl"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
