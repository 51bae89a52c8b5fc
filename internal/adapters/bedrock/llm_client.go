package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/smishing-guard/internal/core"
	"github.com/mikey/smishing-guard/internal/utils"
	"go.uber.org/zap"
)

// BedrockClassifier is an implementation of the Classifier interface using Amazon Bedrock
type BedrockClassifier struct {
	client            *bedrockruntime.Client
	modelID           string
	escalationModelID string
	maxTokens         int
	temperature       float32
	topP              float32
	maxBodySize       int
	logger            *zap.Logger
	textProcessor     *utils.TextProcessor
	promptFormat      string
}

// NewBedrockClassifier creates a new Bedrock classifier
func NewBedrockClassifier(
	client *bedrockruntime.Client,
	modelID string,
	escalationModelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *BedrockClassifier {
	return &BedrockClassifier{
		client:            client,
		modelID:           modelID,
		escalationModelID: escalationModelID,
		maxTokens:         maxTokens,
		temperature:       temperature,
		topP:              topP,
		maxBodySize:       maxBodySize,
		logger:            logger,
		textProcessor:     textProcessor,
		promptFormat:      classifierPrompt,
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
func (c *BedrockClassifier) ModelName(tier core.ModelTier) string {
	if tier == core.TierEscalated && c.escalationModelID != "" {
		return c.escalationModelID
	}
	return c.modelID
}

// ClassifyText classifies a message text at the given model tier
func (c *BedrockClassifier) ClassifyText(ctx context.Context, text string, tier core.ModelTier) (*core.ClassifierOutput, error) {
	processed := c.textProcessor.ProcessText(text, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, processed)
	modelID := c.ModelName(tier)

	// Request payload format depends on the model family
	var payload []byte
	var err error

	switch {
	case isAnthropicModel(modelID):
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	case isAmazonTitanModel(modelID):
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	default:
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := extractResponseText(modelID, resp.Body)
	if err != nil {
		return nil, err
	}

	output, err := core.ParseClassifierOutput(responseText)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Bedrock classification complete",
		zap.String("model", modelID),
		zap.Int("risk_score", output.RiskScore))

	return output, nil
}

// extractResponseText pulls the generated text out of the model-family
// specific response envelope
func extractResponseText(modelID string, body []byte) (string, error) {
	switch {
	case isAnthropicModel(modelID):
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	case isAmazonTitanModel(modelID):
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		switch {
		case genericResp.Output != "":
			return genericResp.Output, nil
		case genericResp.Text != "":
			return genericResp.Text, nil
		case genericResp.Response != "":
			return genericResp.Response, nil
		default:
			return string(body), nil
		}
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func isAnthropicModel(modelID string) bool {
	return strings.HasPrefix(modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func isAmazonTitanModel(modelID string) bool {
	return strings.HasPrefix(modelID, "amazon.titan")
}
