package config

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, GeneratorLocal, cfg.Generator)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 1, cfg.MinSourceURLs)
	assert.True(t, bool(cfg.RequireExternalSources))
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 600, cfg.MaxOutputTokens)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("PARCEL_STORE", "redis")
	t.Setenv("PARCEL_REDIS_ADDR", "cache:6380")
	t.Setenv("PARCEL_REDIS_DB", "2")
	t.Setenv("PARCEL_REDIS_TTL", "1h")
	t.Setenv("FINAL_GUARDRAIL_MAX_RETRIES", "2")
	t.Setenv("CREW_MIN_EXTERNAL_SOURCE_URLS", "3")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 3, cfg.MinSourceURLs)
}

func TestFlag(t *testing.T) {
	for _, raw := range []string{"1", "true", "YES", " on "} {
		var f Flag
		require.NoError(t, f.UnmarshalText([]byte(raw)))
		assert.True(t, bool(f), raw)
	}
	for _, raw := range []string{"0", "false", "off", "", "enabled"} {
		f := Flag(true)
		require.NoError(t, f.UnmarshalText([]byte(raw)))
		assert.False(t, bool(f), raw)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Setenv("PARCEL_STORE", "postgres")
	_, err := Parse()
	assert.Error(t, err)
}

func TestGuardrail_SearchConfigured(t *testing.T) {
	t.Setenv("SERPER_API_KEY", "key")
	t.Setenv("CREW_REQUIRE_EXTERNAL_SOURCES", "yes")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.False(t, cfg.SearchConfigured(), "the local writer cannot search")
	assert.False(t, cfg.Guardrail().SearchConfigured)

	for _, gen := range []string{GeneratorOpenAI, GeneratorAnthropic} {
		cfg.Generator = gen
		g := cfg.Guardrail()
		assert.True(t, g.SearchConfigured, gen)
		assert.True(t, g.RequireExternalSources)
		assert.Equal(t, 5, g.MaxRetries)
	}

	cfg.Generator = GeneratorProcess
	assert.False(t, cfg.SearchConfigured(), "external commands get no search tool")

	cfg.Generator = GeneratorOpenAI
	cfg.WebTools = false
	assert.False(t, cfg.SearchConfigured())

	cfg.WebTools = true
	cfg.SerperKey = " "
	assert.False(t, cfg.SearchConfigured())
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PARCEL_GENERATOR=anthropic\nPARCEL_MODEL=from-file\n"), 0o600))
	t.Setenv("PARCEL_MODEL", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("PARCEL_GENERATOR") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, GeneratorAnthropic, cfg.Generator)
	assert.Equal(t, "from-env", cfg.Model)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestParse_EncryptionAndPII(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	old := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{9}, 32))
	t.Setenv("PARCEL_ENCRYPTION_KEY", key)
	t.Setenv("PARCEL_ENCRYPTION_FALLBACK_KEYS", old)
	t.Setenv("PARCEL_PII_PATTERNS", "^owner_,phone")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, []string{"^owner_", "phone"}, cfg.PIIPatterns)

	active, fallback, err := cfg.EncryptionKeys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	require.Len(t, fallback, 1)
	assert.Equal(t, byte(9), fallback[0][0])

	t.Setenv("PARCEL_ENCRYPTION_KEY", base64.StdEncoding.EncodeToString([]byte("short")))
	_, err = Parse()
	assert.ErrorContains(t, err, "32 bytes")

	t.Setenv("PARCEL_ENCRYPTION_KEY", "%%%")
	_, err = Parse()
	assert.ErrorContains(t, err, "PARCEL_ENCRYPTION_KEY")
}
