package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	// The default base must carry the /v1 path segment; chat, embedding and
	// audio endpoints are all resolved relative to it.
	assert.Equal(t, "https://api.openai.com/v1", cfg.Ai.BaseURL)
	assert.Equal(t, "gpt-4-turbo-preview", cfg.Ai.ChatModel)
	assert.Equal(t, 20, cfg.Ai.EmbedBatchSize)
	assert.Equal(t, "ru", cfg.Ai.DefaultLanguage)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("AI_EMBED_BATCH_SIZE", "5")

	cfg := Load()
	assert.Equal(t, "http://localhost:8080/v1", cfg.Ai.BaseURL)
	assert.Equal(t, 5, cfg.Ai.EmbedBatchSize)
}
