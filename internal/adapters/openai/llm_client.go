package openai

import (
	"context"
	"fmt"

	"github.com/mikey/smishing-guard/internal/core"
	"github.com/mikey/smishing-guard/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClassifier is an implementation of the Classifier interface using OpenAI
type OpenAIClassifier struct {
	client          *openai.Client
	modelName       string
	escalationModel string
	maxTokens       int
	temperature     float32
	topP            float32
	maxBodySize     int
	logger          *zap.Logger
	textProcessor   *utils.TextProcessor
	promptFormat    string
}

// NewOpenAIClassifier creates a new OpenAI classifier
func NewOpenAIClassifier(
	apiKey string,
	modelName string,
	escalationModel string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClassifier {
	client := openai.NewClient(apiKey)

	return &OpenAIClassifier{
		client:          client,
		modelName:       modelName,
		escalationModel: escalationModel,
		maxTokens:       maxTokens,
		temperature:     temperature,
		topP:            topP,
		maxBodySize:     maxBodySize,
		logger:          logger,
		textProcessor:   textProcessor,
		promptFormat:    classifierPrompt,
	}
}

const classifierPrompt = `You are an expert at detecting smishing (SMS phishing) messages.

Analyze the following text message and determine whether it is a smishing attempt:

"%s"

Signals to weigh:
1. Shortened URLs from unknown sources (bit.ly, me2.do, ...)
2. Urgency pressure ("immediately", "urgent", "within 24 hours")
3. Requests for money or personal information
4. Impersonation of institutions (banks, couriers, government agencies)
5. Spelling and spacing mistakes
6. Click steering (links, app installs)

Respond with a JSON object containing:
- risk_score: integer between 0 and 100
- is_smishing: true or false
- risk_level: one of "safe", "low", "medium", "high", "critical"
- reasons: array of short strings explaining the verdict
- safe_actions: array of short strings the recipient should follow

Respond only with the JSON object and nothing else.`

// ModelName reports the concrete model serving a tier
func (c *OpenAIClassifier) ModelName(tier core.ModelTier) string {
	if tier == core.TierEscalated && c.escalationModel != "" {
		return c.escalationModel
	}
	return c.modelName
}

// ClassifyText classifies a message text at the given model tier
func (c *OpenAIClassifier) ClassifyText(ctx context.Context, text string, tier core.ModelTier) (*core.ClassifierOutput, error) {
	processed := c.textProcessor.ProcessText(text, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, processed)
	model := c.ModelName(tier)

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a smishing detection system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	output, err := core.ParseClassifierOutput(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("OpenAI classification complete",
		zap.String("model", model),
		zap.String("processing_id", resp.ID),
		zap.Int("risk_score", output.RiskScore))

	return output, nil
}
