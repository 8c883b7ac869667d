// Package app wires the kiosk services from environment settings. Both the HTTP
// server and kioskctl build their object graph here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ai-kiosk/config"
	"ai-kiosk/kiosk-svc/internal/llm"
	"ai-kiosk/kiosk-svc/internal/nlu"
	"ai-kiosk/kiosk-svc/internal/service"
	"ai-kiosk/kiosk-svc/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

type Settings struct {
	Addr        string
	Env         string
	LLMProvider string
	LLMAPIKey   string
	LLMBaseURL  string
	LLMModel    string
	LLMTimeout  time.Duration
	LLMJSONMode bool
	CatalogTTL  time.Duration
	KafkaTopic  string
	QRBaseURL   string
	PickupDelay time.Duration
	LexiconPath string
}

func LoadSettings() Settings {
	return Settings{
		Addr:        config.GetString("ADDR", ":8084"),
		Env:         config.GetString("ENV", "production"),
		LLMProvider: defaultProvider(),
		LLMAPIKey:   config.GetString("LLM_API_KEY", ""),
		LLMBaseURL:  config.GetString("LLM_BASE_URL", ""),
		LLMModel:    config.GetString("LLM_MODEL", ""),
		LLMTimeout:  config.GetSeconds("LLM_TIMEOUT_SECONDS", 30*time.Second),
		LLMJSONMode: config.GetBool("LLM_JSON_MODE", true),
		CatalogTTL:  config.GetSeconds("CATALOG_CACHE_TTL_SECONDS", 5*time.Minute),
		KafkaTopic:  config.GetString("KAFKA_TOPIC", config.DefaultOrdersTopic),
		QRBaseURL:   config.GetString("QR_BASE_URL", "http://localhost:8084"),
		PickupDelay: time.Duration(config.GetInt("PICKUP_MINUTES", 15)) * time.Minute,
		LexiconPath: config.GetString("LEXICON_PATH", ""),
	}
}

// defaultProvider picks openai when only a key is configured.
func defaultProvider() string {
	fallback := ProviderNone
	if config.GetString("LLM_API_KEY", "") != "" {
		fallback = ProviderOpenAI
	}
	return strings.ToLower(config.GetString("LLM_PROVIDER", fallback))
}

// NewChatModel returns nil for the "none" provider; turns then fall back to a
// fixed reply instead of calling a model.
func NewChatModel(ctx context.Context, s Settings) (llm.ChatModel, error) {
	switch s.LLMProvider {
	case ProviderNone, "":
		return nil, nil
	case ProviderOpenAI:
		if s.LLMAPIKey == "" {
			return nil, fmt.Errorf("%s: %w", ProviderOpenAI, llm.ErrNotConfigured)
		}
		return llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:   s.LLMAPIKey,
			BaseURL:  s.LLMBaseURL,
			Model:    s.LLMModel,
			Timeout:  s.LLMTimeout,
			JSONMode: s.LLMJSONMode,
		}), nil
	case ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, s.LLMAPIKey, s.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ProviderGemini, err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", s.LLMProvider)
	}
}

type Services struct {
	Repo     *storage.PostgresRepository
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Dialogue *service.DialogueService
}

// Build assembles the services. rdb and publisher may be nil; the catalog is then
// read straight from Postgres and no order events are emitted.
func Build(ctx context.Context, s Settings, db *sql.DB, rdb *redis.Client, publisher service.EventPublisher, logger *zap.SugaredLogger) (*Services, error) {
	lexicon, err := nlu.LoadLexicon(s.LexiconPath)
	if err != nil {
		return nil, err
	}
	model, err := NewChatModel(ctx, s)
	if err != nil {
		return nil, err
	}
	if model == nil {
		logger.Warnw("no language model configured, general questions get a fixed reply", "provider", s.LLMProvider)
	}

	var (
		cache      service.CatalogCache
		popularity service.PopularityReader
	)
	if rdb != nil {
		cache = storage.NewRedisCatalogCache(rdb, s.CatalogTTL)
		popularity = storage.NewRedisPopularity(rdb)
	}

	repo := storage.NewPostgresRepository(db)
	catalogSvc := service.NewCatalogService(repo, cache, lexicon.Categories, logger)
	cart := service.NewCartService(repo, service.DefaultQRGenerator{BaseURL: s.QRBaseURL}, publisher, s.PickupDelay, logger)

	return &Services{
		Repo:     repo,
		Catalog:  catalogSvc,
		Cart:     cart,
		Dialogue: service.NewDialogueService(catalogSvc, cart, model, popularity, lexicon, logger),
	}, nil
}
