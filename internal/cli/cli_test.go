package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCLI(t *testing.T) {
	cmd := BuildCLI()

	assert.NotNil(t, cmd)
	assert.Equal(t, "dagrun", cmd.Use)
	assert.Equal(t, "1.0.0", cmd.Version)

	commands := cmd.Commands()
	assert.Len(t, commands, 2)

	commandNames := make(map[string]bool)
	for _, c := range commands {
		commandNames[c.Use] = true
	}
	assert.True(t, commandNames["run"])
	assert.True(t, commandNames["graph"])

	configFlag := cmd.PersistentFlags().Lookup("config")
	assert.NotNil(t, configFlag)
	assert.Equal(t, "configs/default.yaml", configFlag.DefValue)
}

func TestBuildRunCommand(t *testing.T) {
	cmd := buildRunCommand()

	assert.NotNil(t, cmd)
	assert.Equal(t, "run", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestBuildGraphCommand(t *testing.T) {
	cmd := buildGraphCommand()

	assert.NotNil(t, cmd)
	assert.Equal(t, "graph", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
scheduler:
  pool_size: 8
  loops: 20
  jitter: true
logging:
  loops: true
  runner_task: true
metrics:
  enabled: true
  port: 9191
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Scheduler.PoolSize)
	assert.Equal(t, 20, cfg.Scheduler.Loops)
	assert.True(t, cfg.Scheduler.Jitter)
	assert.True(t, cfg.Logging.Loops)
	assert.True(t, cfg.Logging.RunnerTask)
	assert.False(t, cfg.Logging.RunnerLifecycle)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9191, cfg.Metrics.Port)
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  pool_size: 0\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Scheduler.PoolSize)
	assert.Equal(t, 10, cfg.Scheduler.Loops)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  pool_size: \"not a number\"\n  bad indent\n    nope\n"), 0o644))

	_, err := loadConfig(path)
	assert.Error(t, err)
}
