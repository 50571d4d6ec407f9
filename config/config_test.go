package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_port": "9000",
		"gemini": {"model": "gemini-test"},
		"chat": {"max_context_entries": 10},
		"knowledge": {"backend": "local", "local_path": "kb.json"},
		"cors": {"allowed_origins": ["https://vale.example"]}
	}`), 0o644))

	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("PORT", "9100")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", c.ApiPort)
	assert.Equal(t, "secret", c.Gemini.ApiKey)
	assert.Equal(t, "gemini-test", c.Gemini.Model)
	assert.Equal(t, 10, c.Chat.MaxContextEntries)
	assert.Equal(t, 600, c.Chat.MaxEntryChars)
	assert.Equal(t, KNOWLEDGE_BACKEND_LOCAL, c.Knowledge.Backend)
	assert.Equal(t, []string{"https://vale.example"}, c.Cors.AllowedOrigins)
}

func TestLoad_EnvDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com", c.Connectivity.ProbeURL)
	assert.Equal(t, 3*time.Second, c.ProbeTimeout())
	assert.Equal(t, int64(500*1024*1024), c.UploadLimitBytes())
	assert.Equal(t, KNOWLEDGE_BACKEND_DATABASE, c.Knowledge.Backend)
	assert.False(t, c.Chat.PersistIntents)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
