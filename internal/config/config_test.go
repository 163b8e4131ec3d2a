package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/legalchunk/internal/footnote"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 15000, cfg.MaxTokens)
	assert.Equal(t, "cl100k_base", cfg.TokenEncoding)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.Equal(t, footnote.SecondOccurrence, cfg.Footnotes())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("MAX_TOKENS", "800")
	t.Setenv("FOOTNOTE_POLICY", "first-line-marker")
	t.Setenv("WORKER_COUNT", "0")
	t.Setenv("JOB_TTL", "15m")
	t.Setenv("PUBLISH_URL", "http://localhost:9000/api/documents/import-from-txt")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.MaxTokens)
	assert.Equal(t, footnote.FirstLineMarker, cfg.Footnotes())
	assert.Equal(t, 4, cfg.WorkerCount, "non-positive worker count falls back")
	assert.Equal(t, 15*time.Minute, cfg.JobTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("MAX_TOKENS", "many")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Load()
	require.NoError(t, err)

	cfg := base
	cfg.MaxTokens = 0
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.FootnotePolicy = "nearest"
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.PublishURL = "http://x"
	cfg.PublishRate = 0
	assert.Error(t, cfg.Validate())
}
