package bootstrap

import (
	"context"
	"fmt"

	"lexi-drafting-be/internal/config"
	"lexi-drafting-be/internal/controller"
	"lexi-drafting-be/internal/handler"
	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/internal/repository/memory"
	"lexi-drafting-be/internal/repository/rediscache"
	"lexi-drafting-be/internal/repository/unitofwork"
	"lexi-drafting-be/internal/service"
	"lexi-drafting-be/internal/websocket"
	"lexi-drafting-be/pkg/drafting"
	"lexi-drafting-be/pkg/embedding"
	"lexi-drafting-be/pkg/extraction"
	"lexi-drafting-be/pkg/llm/factory"
	pktNats "lexi-drafting-be/pkg/nats"
	"lexi-drafting-be/pkg/oracle"
	"lexi-drafting-be/pkg/websearch"
	"lexi-drafting-be/pkg/websearch/exa"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health lists which optional backends are wired in.
type Health struct {
	Store        string `json:"store"`
	Sessions     string `json:"sessions"`
	LLM          string `json:"llm"`
	Embedding    string `json:"embedding"`
	WebSearch    bool   `json:"web_search"`
	EventBus     bool   `json:"event_bus"`
	ClusterRelay bool   `json:"cluster_relay"`
}

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	TemplateController controller.ITemplateController
	DocumentController controller.IDocumentController

	// WebSockets & activity feed
	ChatSocketHandler *handler.ChatSocketHandler
	ActivityHandler   *handler.ActivityHandler
	WebSocketHub      *websocket.Hub

	// Background services (run by main.go)
	ConsumerServices []service.IConsumerService
	ActivityService  service.IActivityService

	Logger logger.ILogger
	Health Health

	closers []func()
}

// NewContainer wires the application. db may be nil, in which case
// templates, instances and documents live in process memory.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	transcript := logger.NewIsolatedLogger(cfg.App.OracleLogFilePath)
	c.Logger = sysLogger

	var catalog service.Catalog
	if db != nil {
		catalog = service.NewDraftingStore(unitofwork.NewRepositoryFactory(db))
		c.Health.Store = "postgres"
	} else {
		catalog = memory.NewDraftingRepository()
		c.Health.Store = "memory"
	}

	// 2. Redis (sessions + websocket relay)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
			_ = rdb.Close()
			rdb = nil
		} else {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	var sessions drafting.SessionStore
	var registryOpts []drafting.RegistryOption
	switch {
	case cfg.App.SessionStore == "redis" && rdb != nil:
		sessions = rediscache.NewSessionRepository(rdb, cfg.App.SessionTTL)
		registryOpts = append(registryOpts, drafting.WithLocker(rediscache.NewSessionLocker(rdb, cfg.App.SessionLockTTL)))
		c.Health.Sessions = "redis"
	case cfg.App.SessionStore == "redis":
		return nil, fmt.Errorf("SESSION_STORE=redis requires a reachable REDIS_URL")
	default:
		sessions = memory.NewSessionRepository(cfg.App.SessionTTL)
		c.Health.Sessions = "memory"
	}

	// 3. AI providers
	orc, llmName, err := NewOracle(ctx, cfg, sysLogger, transcript)
	if err != nil {
		return nil, err
	}
	c.Health.LLM = llmName

	embeddingProvider, err := newEmbeddingProvider(ctx, cfg)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Embedding provider unavailable", map[string]interface{}{"error": err.Error()})
	}
	c.Health.Embedding = "none"
	if embeddingProvider != nil {
		c.Health.Embedding = cfg.Ai.EmbeddingProvider
	}

	var web websearch.Provider
	if cfg.Keys.Exa != "" {
		web = exa.NewExaProvider(cfg.Keys.Exa, cfg.Drafting.ExaNumResults, cfg.Drafting.ExaTextLength)
		c.Health.WebSearch = true
	}

	// 4. Event bus + async jobs
	var eventPublisher service.EventPublisher
	var eventSubscriber service.EventSubscriber
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect NATS subscriber", map[string]interface{}{"error": err.Error()})
		} else {
			eventSubscriber = natsSub
			c.closers = append(c.closers, natsSub.Close)
		}
		c.Health.EventBus = eventPublisher != nil && eventSubscriber != nil
	}

	wsHub := websocket.NewHub(redisOrNil(rdb), sysLogger)
	c.WebSocketHub = wsHub
	c.Health.ClusterRelay = rdb != nil

	activityService := service.NewActivityService(eventSubscriber, wsHub, sysLogger)
	c.ActivityService = activityService

	var templateJobs, documentJobs service.IPublisherService
	if embeddingProvider != nil {
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
		c.closers = append(c.closers, func() { _ = pubSub.Close() })

		templateJobs = service.NewPublisherService(cfg.Drafting.EmbedTemplateTopic, pubSub)
		documentJobs = service.NewPublisherService(cfg.Drafting.EmbedDocumentTopic, pubSub)
		c.ConsumerServices = []service.IConsumerService{
			service.NewConsumerService(pubSub, cfg.Drafting.EmbedTemplateTopic, catalog, embeddingProvider, sysLogger),
			service.NewConsumerService(pubSub, cfg.Drafting.EmbedDocumentTopic, catalog, embeddingProvider, sysLogger),
		}
	}
	notifier := service.NewNotifierService(templateJobs, documentJobs, eventPublisher, activityService, sysLogger)

	// 5. Drafting core
	pipeline := NewPipeline(orc, cfg, sysLogger)

	threshold := cfg.Drafting.MinConfidenceThreshold
	machine := drafting.NewMachine(drafting.MachineDeps{
		Templates: catalog,
		Instances: catalog,
		Matcher:   drafting.NewMatcher(catalog, orc, web, threshold, sysLogger),
		Collector: drafting.NewCollector(orc, sysLogger),
		Extractor: pipeline,
		Notifier:  notifier,
		Logger:    sysLogger,
	})
	engine := drafting.NewEngine(drafting.NewRegistry(sessions, registryOpts...), machine, sysLogger)

	// The REST match endpoint never reaches out to the web.
	apiMatcher := drafting.NewMatcher(catalog, orc, nil, threshold, sysLogger)

	// 6. Services + controllers
	chatService := service.NewChatService(engine, catalog)
	templateService := service.NewTemplateService(catalog, apiMatcher, embeddingProvider, notifier)
	documentService := service.NewDocumentService(catalog, pipeline, notifier, int64(cfg.App.MaxUploadSize), sysLogger)

	c.ChatController = controller.NewChatController(chatService)
	c.TemplateController = controller.NewTemplateController(templateService)
	c.DocumentController = controller.NewDocumentController(documentService)
	c.ChatSocketHandler = handler.NewChatSocketHandler(chatService, wsHub, sysLogger)
	c.ActivityHandler = handler.NewActivityHandler(activityService, wsHub, sysLogger)

	c.closers = append(c.closers, func() {
		_ = transcript.Sync()
		_ = sysLogger.Sync()
	})
	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// NewOracle builds the AI oracle from configuration. The returned name is
// "none" when no LLM is configured; the oracle then degrades every call.
func NewOracle(ctx context.Context, cfg *config.Config, log, transcript logger.ILogger) (*oracle.Oracle, string, error) {
	llmProvider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL(cfg),
		APIKey:   llmAPIKey(cfg),
	})
	if err != nil {
		return nil, "", fmt.Errorf("init LLM provider: %w", err)
	}
	name := "none"
	if llmProvider != nil {
		name = cfg.Ai.LLMProvider
	}
	log.Info("BOOTSTRAP", "LLM provider selected", map[string]interface{}{"provider": name, "model": cfg.Ai.LLMModel})

	orc := oracle.NewOracle(llmProvider, oracle.Config{
		Timeout:     cfg.Ai.OracleTimeout,
		RPS:         cfg.Ai.OracleRPS,
		Burst:       cfg.Ai.OracleBurst,
		Temperature: cfg.Ai.Temperature,
		MaxTokens:   cfg.Ai.MaxTokens,
	}, log, transcript)
	return orc, name, nil
}

func NewPipeline(orc *oracle.Oracle, cfg *config.Config, log logger.ILogger) *extraction.Pipeline {
	return extraction.NewPipeline(orc, extraction.Options{
		ChunkSize:     cfg.Drafting.ChunkSize,
		ChunkOverlap:  cfg.Drafting.ChunkOverlap,
		ChunkLookback: cfg.Drafting.ChunkLookback,
	}, log)
}

func redisOrNil(rdb *redis.Client) redis.UniversalClient {
	if rdb == nil {
		return nil
	}
	return rdb
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMBaseURL != "" {
		return cfg.Ai.LLMBaseURL
	}
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return ""
}

func llmAPIKey(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "huggingface" {
		return cfg.Keys.HuggingFace
	}
	return cfg.Keys.GoogleGemini
}

// newEmbeddingProvider returns nil, nil when embeddings are switched off.
func newEmbeddingProvider(ctx context.Context, cfg *config.Config) (embedding.EmbeddingProvider, error) {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel), nil
	case "gemini":
		if cfg.Keys.GoogleGemini == "" {
			return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY is not set")
		}
		p, err := embedding.NewGeminiProvider(ctx, cfg.Keys.GoogleGemini)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
}
