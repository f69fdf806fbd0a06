package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-search-agent/internal/config"
	"github.com/jonathan/job-search-agent/internal/content"
	"github.com/jonathan/job-search-agent/internal/db"
	"github.com/jonathan/job-search-agent/internal/enrich"
	"github.com/jonathan/job-search-agent/internal/llm"
	"github.com/jonathan/job-search-agent/internal/logger"
	"github.com/jonathan/job-search-agent/internal/pipeline"
	"github.com/jonathan/job-search-agent/internal/serpapi"
)

// app holds the wired collaborators shared by the serve and search commands.
type app struct {
	cfg         config.Config
	log         *zap.Logger
	database    *db.DB
	llmClient   llm.Client
	retriever   *serpapi.Client
	coordinator *pipeline.Coordinator
}

// loadConfig resolves configuration as flags over file over environment.
func loadConfig(configPath string, flags config.Config) (config.Config, error) {
	cfg := flags
	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(config.FromEnv())

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildApp wires the retrieval and enrichment stack. The database is optional:
// without DATABASE_URL searches run but are not persisted.
func buildApp(ctx context.Context, cfg config.Config) (*app, error) {
	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var database *db.DB
	var store pipeline.Store
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		store = database
	} else {
		log.Warn("DATABASE_URL not set, searches will not be persisted")
	}

	llmClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, llm.DefaultModel)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	var reader *content.ReaderClient
	if cfg.JinaAPIKey != "" {
		reader = content.NewReaderClient(cfg.JinaAPIKey, &content.ReaderConfig{Logger: log})
	}
	fetcher := content.NewFetcher(&content.FetcherConfig{
		Reader:        reader,
		EnableDirect:  true,
		EnableBrowser: cfg.UseBrowser,
		Logger:        log,
	})

	scorer := llm.NewMatchScorer(llmClient, log)
	enricher := enrich.NewEnricher(fetcher, scorer, log)

	return &app{
		cfg:         cfg,
		log:         log,
		database:    database,
		llmClient:   llmClient,
		retriever:   serpapi.NewClient(cfg.SerpAPIKey, &serpapi.ClientConfig{Logger: log}),
		coordinator: pipeline.NewCoordinator(enricher, store, log),
	}, nil
}

// close releases the app's external connections.
func (a *app) close() {
	if a.llmClient != nil {
		_ = a.llmClient.Close()
	}
	if a.database != nil {
		a.database.Close()
	}
	_ = a.log.Sync()
}

// greeter adapts the LLM client to the server's chat bootstrap.
type greeter struct {
	client       llm.Client
	systemPrompt string
	log          *zap.Logger
}

func (g *greeter) Greeting(ctx context.Context) string {
	return llm.Greeting(ctx, g.client, g.systemPrompt, g.log)
}
