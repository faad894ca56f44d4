package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kevinmichaelchen/repo-audit/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no credential variables
// inherited from the developer's shell.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, name := range []string{"REPO_AUDIT_LLM_API_KEY", "LLM_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "API_KEY"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, "github.com", cfg.GitHub.Host)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.InDelta(t, 0.4, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, logging.LevelInfo, cfg.Log.Level)
	assert.Equal(t, logging.FormatConsole, cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  model: gemini-2.5-flash
  base_url: https://generativelanguage.googleapis.com/v1beta/openai/
  temperature: 0.2
log:
  level: debug
`), 0o644))

	t.Setenv("REPO_AUDIT_LOG_LEVEL", "warn")
	t.Setenv("GEMINI_API_KEY", "from-gemini")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/openai", cfg.LLM.BaseURL)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, logging.LevelWarn, cfg.Log.Level, "env overrides file")
	assert.Equal(t, "from-gemini", cfg.LLM.APIKey)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoadDiscoversDotFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".repo-audit.yaml"), []byte("server:\n  addr: 127.0.0.1:9999\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LLM_API_KEY=from-dotenv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("LLM_API_KEY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.LLM.APIKey)
}

func TestLoadPrefixedKeyWins(t *testing.T) {
	isolate(t)
	t.Setenv("REPO_AUDIT_LLM_API_KEY", "prefixed")
	t.Setenv("OPENAI_API_KEY", "openai")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.LLM.APIKey)
}

func TestLoadErrors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		dir := isolate(t)
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.ErrorContains(t, err, "reading config file")
	})

	t.Run("invalid values", func(t *testing.T) {
		isolate(t)
		t.Setenv("REPO_AUDIT_LOG_FORMAT", "xml")
		t.Setenv("REPO_AUDIT_GITHUB_API_URL", "not-a-url")
		t.Setenv("REPO_AUDIT_LLM_TEMPERATURE", "3")

		_, err := Load("")
		require.Error(t, err)
		assert.ErrorContains(t, err, "unsupported log format: xml")
		assert.ErrorContains(t, err, "github.api_url")
		assert.ErrorContains(t, err, "llm.temperature")
	})
}
