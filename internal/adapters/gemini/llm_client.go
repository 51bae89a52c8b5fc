package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/smishing-guard/internal/core"
	"github.com/mikey/smishing-guard/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClassifier is an implementation of the Classifier interface using Google Gemini
type GeminiClassifier struct {
	client          *genai.Client
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

// NewGeminiClassifier creates a new Gemini classifier
func NewGeminiClassifier(
	apiKey string,
	modelName string,
	escalationModel string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClassifier, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClassifier{
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
	}, nil
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

// Close closes the Gemini client
func (c *GeminiClassifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ModelName reports the concrete model serving a tier
func (c *GeminiClassifier) ModelName(tier core.ModelTier) string {
	if tier == core.TierEscalated && c.escalationModel != "" {
		return c.escalationModel
	}
	return c.modelName
}

// ClassifyText classifies a message text at the given model tier
func (c *GeminiClassifier) ClassifyText(ctx context.Context, text string, tier core.ModelTier) (*core.ClassifierOutput, error) {
	processed := c.textProcessor.ProcessText(text, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, processed)
	modelName := c.ModelName(tier)

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.temperature)
	model.SetTopP(c.topP)
	model.SetMaxOutputTokens(int32(c.maxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	output, err := core.ParseClassifierOutput(responseText)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Gemini classification complete",
		zap.String("model", modelName),
		zap.Int("risk_score", output.RiskScore))

	return output, nil
}
