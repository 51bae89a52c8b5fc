package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/smishing-guard/internal/config"
	"github.com/mikey/smishing-guard/internal/core"
	"github.com/mikey/smishing-guard/internal/factory"
	"github.com/mikey/smishing-guard/internal/logging"
	"github.com/mikey/smishing-guard/internal/ports"
	"github.com/mikey/smishing-guard/internal/rules"
	"github.com/mikey/smishing-guard/internal/trust"
	"github.com/mikey/smishing-guard/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.LLMFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register classifier cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.ClassifierCache, error) {
		return f.CreateClassifierCache()
	}); err != nil {
		return nil, err
	}

	// Register sender history store and rule engine
	if err := container.Provide(func(cfg *config.Config) *rules.HistoryStore {
		return rules.NewHistoryStore(cfg.GetEngine().HistoryCapacity)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(rules.NewEngine); err != nil {
		return nil, err
	}

	// Register trusted sender registry
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *trust.Registry {
		return trust.NewRegistry(cfg.GetEngine().TrustedSenders, logger)
	}); err != nil {
		return nil, err
	}

	// Register analysis service
	if err := container.Provide(func(
		classifier core.Classifier,
		engine *rules.Engine,
		registry *trust.Registry,
		cacheRepo core.ClassifierCache,
		cacheFactory *factory.CacheFactory,
		cfg *config.Config,
		logger *zap.Logger,
	) (*core.AnalyzerService, error) {
		ttl, err := cacheFactory.GetCacheTTL()
		if err != nil {
			return nil, err
		}
		engineCfg := cfg.GetEngine()
		return core.NewAnalyzerService(
			classifier,
			engine,
			registry,
			cacheRepo,
			logger,
			cacheFactory.IsCacheEnabled(),
			ttl,
			engineCfg.EscalationThreshold,
		), nil
	}); err != nil {
		return nil, err
	}

	// Register message filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.MessageFilter, error) {
		return f.CreateMessageFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
