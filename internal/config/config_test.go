package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	assert.Equal(t, "openai", cfg.GetLLM().Provider)
	assert.Equal(t, "http", cfg.GetString("server.filter_type"))

	engine := cfg.GetEngine()
	assert.Equal(t, 50, engine.EscalationThreshold)
	assert.Equal(t, 100, engine.HistoryCapacity)
	assert.Empty(t, engine.TrustedSenders)

	openai := cfg.GetOpenAI()
	assert.Equal(t, "gpt-4o-mini", openai.ModelName)
	assert.Equal(t, "gpt-4o", openai.EscalationModel)

	ttl, err := cfg.GetDuration("cache.ttl")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)
}

func TestOverridesWinOverDefaults(t *testing.T) {
	v := NewEmptyViper()
	v.Set("engine.escalation_threshold", 70)
	v.Set("engine.trusted_senders", []string{"1588-0000"})
	cfg := NewFromViper(v)

	engine := cfg.GetEngine()
	assert.Equal(t, 70, engine.EscalationThreshold)
	assert.Equal(t, []string{"1588-0000"}, engine.TrustedSenders)
}
