package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("HF_TOKEN", "")
	t.Setenv("STORAGE", "")
	t.Setenv("MIN_CONTENT_LENGTH", "")
	t.Setenv("RETRY_BACKOFF_UNIT", "")

	cfg := New()

	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 3, cfg.MinContentLength)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryBackoffUnit)
	assert.InDelta(t, 0.9, cfg.SentimentNeutralThreshold, 1e-9)
	assert.Contains(t, cfg.HFNERURL, "bert-base-NER")
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("HF_TOKEN", "hf_abc")
	t.Setenv("STORAGE", "Memory")
	t.Setenv("MIN_CONTENT_LENGTH", "10")
	t.Setenv("RETRY_BACKOFF_UNIT", "250ms")
	t.Setenv("ANALYSIS_TIMEOUT", "5")
	t.Setenv("ENTITY_MIN_SCORE", "0.75")

	cfg := New()

	assert.Equal(t, "hf_abc", cfg.HFToken)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 10, cfg.MinContentLength)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryBackoffUnit)
	assert.Equal(t, 5*time.Second, cfg.AnalysisTimeout)
	assert.InDelta(t, 0.75, cfg.EntityMinScore, 1e-9)
	require.NoError(t, cfg.Validate())
}

func TestNew_BadNumbersFallBack(t *testing.T) {
	t.Setenv("MIN_CONTENT_LENGTH", "abc")
	t.Setenv("RETRY_BACKOFF_UNIT", "soon")

	cfg := New()

	assert.Equal(t, 3, cfg.MinContentLength)
	assert.Equal(t, time.Second, cfg.RetryBackoffUnit)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Storage:          "redis",
		MinContentLength: 0,
		RetryMaxAttempts: 0,
		AnalysisTimeout:  time.Second,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HF_TOKEN")
	assert.Contains(t, err.Error(), "STORAGE")
	assert.Contains(t, err.Error(), "MIN_CONTENT_LENGTH")
	assert.Contains(t, err.Error(), "RETRY_MAX_ATTEMPTS")
}
