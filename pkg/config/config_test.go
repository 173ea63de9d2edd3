package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CONVERSATION_CACHE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.MessageBodyMaxLength)
	assert.Equal(t, 60, cfg.APIRateLimit)
	assert.Equal(t, "HelperHive", cfg.MailFromName)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CONVERSATION_CACHE_TTL", "2m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ALLOWED_ORIGINS", "https://app.helperhive.app, https://admin.helperhive.app,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Minute, cfg.ConversationCacheTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, []string{"https://app.helperhive.app", "https://admin.helperhive.app"}, cfg.AllowedOrigins)
}
