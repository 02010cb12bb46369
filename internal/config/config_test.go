package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "storefrontdb", cfg.MongoDBName)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}
