package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLocalConfig(t *testing.T) {
	// Create a temporary directory structure
	tempDir := t.TempDir()
	subDir := filepath.Join(tempDir, "subdir")
	require.NoError(t, os.MkdirAll(filepath.Join(subDir, "deep"), 0o755))

	configYML := filepath.Join(subDir, ".spvc.yml")
	require.NoError(t, os.WriteFile(configYML, []byte("spirv_version: \"1.5\""), 0o644))

	// Test finding in subdir
	assert.Equal(t, configYML, FindLocalConfig(subDir))

	// Test finding in parent
	assert.Equal(t, configYML, FindLocalConfig(filepath.Join(subDir, "deep")))

	// Test not found
	assert.Equal(t, "", FindLocalConfig(tempDir))
}

func TestFindLocalConfig_ExtensionOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".spvc.toml"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".spvc.json"), []byte("{}"), 0o644))

	assert.Equal(t, filepath.Join(dir, ".spvc.json"), FindLocalConfig(dir))
}

func TestFindGlobalConfig(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", FindGlobalConfig(dir))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: true"), 0o644))
	assert.Equal(t, path, FindGlobalConfig(dir))
}
