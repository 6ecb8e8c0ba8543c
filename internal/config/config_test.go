package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"), false)
	require.NoError(t, err)
	assert.Equal(t, "loom.db", cfg.DBPath)
	assert.Equal(t, "loom", cfg.ServerName)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"), true)
	assert.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path     = "/tmp/library.db"
server_name = "loom-staging"
`), 0o644))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/library.db", cfg.DBPath)
	assert.Equal(t, "loom-staging", cfg.ServerName)
}

func TestLoadPartialFileKeepsRemainingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`db_path = "/tmp/library.db"`+"\n"), 0o644))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/library.db", cfg.DBPath)
	assert.Equal(t, "loom", cfg.ServerName)
}

func TestLoadRejectsMalformedHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`db_path = `), 0o644))

	_, err := Load(path, true)
	assert.Error(t, err)
}
