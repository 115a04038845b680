package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Len(t, cfg.Sources, 3)
	assert.Len(t, cfg.QuickSources, 3)
	assert.Equal(t, 32, cfg.ML.BatchSize)
	assert.Equal(t, 512, cfg.ML.MaxLength)
	assert.Equal(t, 15, cfg.Keywords.TopK)
	assert.Equal(t, 100, cfg.Keywords.MaxFeatures)
	assert.Equal(t, 20, cfg.Topics.MinTopicSize)
	assert.Equal(t, "negative", cfg.Topics.Label)
	assert.Contains(t, cfg.Keywords.Stopwords, "coretax")
	assert.Contains(t, cfg.Stopwords.Special, "terimakasih")
}

func TestParseAndMerge(t *testing.T) {
	t.Parallel()

	raw := []byte(`
logging:
  level: warn
ml:
  backend: lexicon
  batchSize: 8
  timeout: 5s
  labels:
    LABEL_0: positive
sources:
  - name: yt
    schema: youtube
    path: /tmp/yt.csv
topics:
  minTopicSize: 5
stopwords:
  languages: []
`)
	override, err := Parse(raw)
	require.NoError(t, err)

	cfg := mergeConfig(Default(), override)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "lexicon", cfg.ML.Backend)
	assert.Equal(t, 8, cfg.ML.BatchSize)
	assert.Equal(t, 512, cfg.ML.MaxLength)
	assert.Equal(t, 5*time.Second, cfg.ML.Timeout)
	assert.Equal(t, "positive", cfg.ML.Labels["LABEL_0"])
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "youtube", cfg.Sources[0].Schema)
	assert.Equal(t, 5, cfg.Topics.MinTopicSize)
	assert.Equal(t, 10, cfg.Topics.TopWords)
	assert.Empty(t, cfg.Stopwords.Languages)
	assert.Len(t, cfg.QuickSources, 3)
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("ml: [unterminated"))
	assert.Error(t, err)
}

func TestLoadAppliesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coretax.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  dir: charts\n"), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(hfTokenEnv, "hf_secret")
	t.Setenv(chatGPTAPIKeyEnv, "sk-test")
	t.Setenv(storePathEnv, "")

	cfg := Load()
	assert.Equal(t, "charts", cfg.Output.Dir)
	assert.Equal(t, "hf_secret", cfg.ML.APIKey)
	assert.Equal(t, "sk-test", cfg.ChatGPT.APIKey)
	assert.Empty(t, cfg.Store.Path)
	assert.Len(t, cfg.Sources, 3)
}

func TestLoadFallsBackOnMissingFile(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	assert.Equal(t, Default().Output, cfg.Output)
}
