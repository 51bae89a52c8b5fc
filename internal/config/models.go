package config

// LLMConfig represents the configuration for the classifier provider
type LLMConfig struct {
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey          string
	ModelName       string
	EscalationModel string
	MaxTokens       int
	Temperature     float32
	TopP            float32
	MaxBodySize     int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey          string
	ModelName       string
	EscalationModel string
	MaxTokens       int
	Temperature     float32
	TopP            float32
	MaxBodySize     int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region            string
	ModelID           string
	EscalationModelID string
	MaxTokens         int
	Temperature       float32
	TopP              float32
	MaxBodySize       int
}

// EngineConfig represents the configuration for the risk engine
type EngineConfig struct {
	EscalationThreshold int
	HistoryCapacity     int
	TrustedSenders      []string
}

// GetLLM returns the classifier provider configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:          c.GetString("openai.api_key"),
		ModelName:       c.GetString("openai.model_name"),
		EscalationModel: c.GetString("openai.escalation_model"),
		MaxTokens:       c.GetInt("openai.max_tokens"),
		Temperature:     float32(c.GetFloat64("openai.temperature")),
		TopP:            float32(c.GetFloat64("openai.top_p")),
		MaxBodySize:     c.GetInt("openai.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:          c.GetString("gemini.api_key"),
		ModelName:       c.GetString("gemini.model_name"),
		EscalationModel: c.GetString("gemini.escalation_model"),
		MaxTokens:       c.GetInt("gemini.max_tokens"),
		Temperature:     float32(c.GetFloat64("gemini.temperature")),
		TopP:            float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize:     c.GetInt("gemini.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:            c.GetString("bedrock.region"),
		ModelID:           c.GetString("bedrock.model_id"),
		EscalationModelID: c.GetString("bedrock.escalation_model_id"),
		MaxTokens:         c.GetInt("bedrock.max_tokens"),
		Temperature:       float32(c.GetFloat64("bedrock.temperature")),
		TopP:              float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize:       c.GetInt("bedrock.max_body_size"),
	}
}

// GetEngine returns the risk engine configuration
func (c *Config) GetEngine() EngineConfig {
	return EngineConfig{
		EscalationThreshold: c.GetInt("engine.escalation_threshold"),
		HistoryCapacity:     c.GetInt("engine.history_capacity"),
		TrustedSenders:      c.GetStringSlice("engine.trusted_senders"),
	}
}
