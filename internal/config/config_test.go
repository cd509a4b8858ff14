package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, time.Second, cfg.Execution.StepDelay)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.TLS.Enable)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: PROD
log_level: debug
server:
  port: 9090
execution:
  step_delay: 250ms
client:
  base_url: "http://example.test:9090/ "
`), 0o600))

	t.Setenv("WORKFLOW_BUILDER_SERVER_PORT", "9191")
	t.Setenv("WORKFLOW_BUILDER_SEED_ENABLE", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "PROD", cfg.Environment)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.True(t, cfg.Seed.Enable)
	assert.Equal(t, 250*time.Millisecond, cfg.Execution.StepDelay)
	assert.Equal(t, "http://example.test:9090", cfg.Client.BaseURL)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_RejectsNonPositiveStepDelay(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WORKFLOW_BUILDER_EXECUTION_STEP_DELAY", "0s")

	_, err := LoadConfig("")
	assert.Error(t, err)
}
