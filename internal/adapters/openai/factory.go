package openai

import (
	"github.com/mikey/smishing-guard/internal/config"
	"github.com/mikey/smishing-guard/internal/utils"
	"go.uber.org/zap"
)

// Factory creates OpenAI classifiers
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new OpenAI factory
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClient creates a new OpenAI classifier from configuration
func (f *Factory) CreateClient() (*OpenAIClassifier, error) {
	openaiCfg := f.cfg.GetOpenAI()
	return NewOpenAIClassifier(
		openaiCfg.APIKey,
		openaiCfg.ModelName,
		openaiCfg.EscalationModel,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		openaiCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}
