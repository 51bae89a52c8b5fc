package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mikey/smishing-guard/internal/adapters/filter"
	"github.com/mikey/smishing-guard/internal/config"
	"github.com/mikey/smishing-guard/internal/core"
	"github.com/mikey/smishing-guard/internal/factory"
	"github.com/mikey/smishing-guard/internal/logging"
	"github.com/mikey/smishing-guard/internal/rules"
	"github.com/mikey/smishing-guard/internal/trust"
	"github.com/mikey/smishing-guard/internal/utils"
	"go.uber.org/zap"
)

var (
	// Classifier provider flags
	provider    = flag.String("provider", "openai", "Classifier provider (openai, gemini, bedrock)")
	maxTokens   = flag.Int("max-tokens", 800, "Maximum tokens for classifier response")
	temperature = flag.Float64("temperature", 0.1, "Temperature for classifier generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for classifier generation")
	maxBodySize = flag.Int("max-body-size", 4096, "Maximum message size to send to the classifier")

	// OpenAI flags
	openaiAPIKey     = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName  = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")
	openaiEscalation = flag.String("openai-escalation-model", "gpt-4o", "OpenAI model for escalated analysis")

	// Gemini flags
	geminiAPIKey     = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName  = flag.String("gemini-model", "gemini-pro", "Gemini model name")
	geminiEscalation = flag.String("gemini-escalation-model", "gemini-1.5-pro", "Gemini model for escalated analysis")

	// Bedrock flags
	bedrockRegion     = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID    = flag.String("bedrock-model", "anthropic.claude-instant-v1", "Bedrock model ID")
	bedrockEscalation = flag.String("bedrock-escalation-model", "anthropic.claude-v2", "Bedrock model ID for escalated analysis")

	// Engine flags
	escalationThreshold = flag.Int("escalation-threshold", 50, "Local risk score at which the escalated model is used")
	trustedSenders      = flag.String("trusted-senders", "", "Comma-separated list of trusted sender identifiers")

	// Input flags
	text       = flag.String("text", "", "Message text to analyze (use -file or stdin if not specified)")
	sender     = flag.String("sender", "", "Sender identifier")
	timestamp  = flag.String("timestamp", "", "Message timestamp in RFC 3339 format")
	inputFile  = flag.String("file", "", "Input text file (use stdin if neither -text nor -file is specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	// Initialize classifier
	textProcessor := utils.NewTextProcessor(logger)
	llmFactory := factory.NewLLMFactory(cfg, logger, textProcessor)
	classifier, err := llmFactory.CreateClassifier()
	if err != nil {
		logger.Fatal("Failed to create classifier", zap.Error(err))
	}

	// Wire the local rule engine with a fresh history store; a one-shot
	// CLI run has no prior history, so no cache either
	engineCfg := cfg.GetEngine()
	history := rules.NewHistoryStore(engineCfg.HistoryCapacity)
	engine := rules.NewEngine(history, logger)
	registry := trust.NewRegistry(engineCfg.TrustedSenders, logger)

	service := core.NewAnalyzerService(
		classifier,
		engine,
		registry,
		nil,
		logger,
		false,
		0,
		engineCfg.EscalationThreshold,
	)

	msg, err := readMessage()
	if err != nil {
		logger.Fatal("Failed to read message", zap.Error(err))
	}

	cliFilter, err := filter.NewCliFilter(service, logger, *verbose)
	if err != nil {
		logger.Fatal("Failed to create CLI filter", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := cliFilter.ProcessMessage(ctx, msg)
	if err != nil {
		logger.Fatal("Failed to analyze message", zap.Error(err))
	}

	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}

	if result.IsSmishing {
		os.Exit(2)
	}
}

// readMessage assembles the message from flags, a file or stdin
func readMessage() (*core.Message, error) {
	msg := &core.Message{
		Sender: *sender,
	}

	if *timestamp != "" {
		ts, err := time.Parse(time.RFC3339, *timestamp)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp: %w", err)
		}
		msg.Timestamp = ts
	}

	switch {
	case *text != "":
		msg.Text = *text
	case *inputFile != "":
		data, err := os.ReadFile(*inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		msg.Text = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		msg.Text = string(data)
	}

	msg.Text = strings.TrimSpace(msg.Text)
	if msg.Text == "" {
		return nil, fmt.Errorf("no message text provided")
	}
	return msg, nil
}

// createConfigFromFlags builds a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", *provider)

	v.Set("openai.api_key", *openaiAPIKey)
	v.Set("openai.model_name", *openaiModelName)
	v.Set("openai.escalation_model", *openaiEscalation)
	v.Set("openai.max_tokens", *maxTokens)
	v.Set("openai.temperature", *temperature)
	v.Set("openai.top_p", *topP)
	v.Set("openai.max_body_size", *maxBodySize)

	v.Set("gemini.api_key", *geminiAPIKey)
	v.Set("gemini.model_name", *geminiModelName)
	v.Set("gemini.escalation_model", *geminiEscalation)
	v.Set("gemini.max_tokens", *maxTokens)
	v.Set("gemini.temperature", *temperature)
	v.Set("gemini.top_p", *topP)
	v.Set("gemini.max_body_size", *maxBodySize)

	v.Set("bedrock.region", *bedrockRegion)
	v.Set("bedrock.model_id", *bedrockModelID)
	v.Set("bedrock.escalation_model_id", *bedrockEscalation)
	v.Set("bedrock.max_tokens", *maxTokens)
	v.Set("bedrock.temperature", *temperature)
	v.Set("bedrock.top_p", *topP)
	v.Set("bedrock.max_body_size", *maxBodySize)

	v.Set("engine.escalation_threshold", *escalationThreshold)
	if *trustedSenders != "" {
		senders := strings.Split(*trustedSenders, ",")
		for i := range senders {
			senders[i] = strings.TrimSpace(senders[i])
		}
		v.Set("engine.trusted_senders", senders)
	}

	return config.NewFromViper(v)
}
