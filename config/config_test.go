package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "/ask", cfg.Backend.AskPath)
	assert.Equal(t, "/upload", cfg.Backend.UploadPath)
	assert.Equal(t, "/reset", cfg.Backend.ResetPath)
	assert.Equal(t, 120, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, 50, cfg.Upload.MaxFileSizeMB)
	assert.NotEmpty(t, cfg.Paths.StateDir)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Backend.BaseURL, cfg.Backend.BaseURL)
}

func TestLoad_OverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `backend:
  base_url: http://rag.internal:9000
  timeout_seconds: 30
upload:
  max_file_size_mb: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://rag.internal:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 30, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, 10, cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, "/ask", cfg.Backend.AskPath, "unset fields keep defaults")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: ["), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Backend.BaseURL = "http://example.com"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", loaded.Backend.BaseURL)
}
