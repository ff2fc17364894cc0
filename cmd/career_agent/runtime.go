package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/career-diagnosis/internal/config"
	"github.com/jonathan/career-diagnosis/internal/db"
	"github.com/jonathan/career-diagnosis/internal/diagnosis"
	"github.com/jonathan/career-diagnosis/internal/llm"
	"github.com/jonathan/career-diagnosis/internal/observability"
	"github.com/jonathan/career-diagnosis/internal/store/mongostore"
)

// loadConfig reads --config and the environment, then validates the result
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*observability.Logger, error) {
	logger, err := observability.NewLogger(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// stores is the opened persistence backend
type stores struct {
	diagnoses diagnosis.Store
	profiles  diagnosis.ProfileStore
	close     func()
}

// openStores connects the backend named by cfg.Store and prepares its schema
func openStores(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*stores, error) {
	switch cfg.Store {
	case config.StorePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL, db.WithMaxConns(int32(cfg.DBMaxConns)))
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, err
		}
		logger.Info("using postgres store")
		return &stores{diagnoses: database, profiles: database, close: database.Close}, nil

	case config.StoreMongo:
		ms, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = ms.Close(ctx)
			return nil, err
		}
		logger.Info("using mongo store", "database", cfg.MongoDatabase)
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := ms.Close(closeCtx); err != nil {
				logger.Warn("failed to disconnect mongo", "error", err)
			}
		}
		return &stores{diagnoses: ms, profiles: ms, close: closeFn}, nil

	case config.StoreMemory, "":
		logger.Warn("using in-memory store; records are lost on exit")
		return memoryStores(), nil

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func memoryStores() *stores {
	mem := diagnosis.NewMemoryStore()
	return &stores{diagnoses: mem, profiles: mem, close: func() {}}
}

// newClient builds the generation client. Tests replace it.
var newClient = func(ctx context.Context, cfg *config.Config, logger *observability.Logger) (llm.Client, error) {
	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return llm.WithLogging(client, logger), nil
}
