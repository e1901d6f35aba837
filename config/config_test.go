package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSupabase(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("REALTIME_URL", "")
	t.Setenv("REALTIME_MODEL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "wss://api.openai.com/v1/realtime", cfg.RealtimeURL)
	assert.Equal(t, "gpt-4o-realtime-preview-2024-12-17", cfg.RealtimeModel)
	assert.Equal(t, "generated-documents", cfg.DocumentBucket)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://example.supabase.co/functions/v1/chat-iasted", cfg.ChatEndpoint())
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_DB")
}
