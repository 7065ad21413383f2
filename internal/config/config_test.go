package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Import.ArchiveProcessed = true
	cfg.Output.Format = "csv"
	cfg.Server.MaxUploadMB = 8

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "import", cfg.Import.Dir)
	assert.False(t, cfg.Import.ArchiveProcessed)
	assert.Equal(t, filepath.Join("rules", "rules.yaml"), cfg.Rules.Path)
	assert.True(t, cfg.Rules.IncludeDefaults)
	assert.Equal(t, "exports", cfg.Output.Dir)
	assert.Equal(t, "both", cfg.Output.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(32), cfg.Server.MaxUploadMB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: json\nrules:\n  include_defaults: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "exports", cfg.Output.Dir)
	assert.False(t, cfg.Rules.IncludeDefaults)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output: [unclosed"), 0o644))

	_, err := LoadOrDefault(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "archive_processed: false")
	assert.Contains(t, contents, "include_defaults: true")
	assert.Contains(t, contents, "format: both")
	assert.Contains(t, contents, "max_upload_mb: 32")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvAddr, "127.0.0.1:9090")
	t.Setenv(EnvRules, "")
	require.NoError(t, os.Unsetenv(EnvRules))
	t.Setenv(EnvOutputDir, "/tmp/out")

	root := t.TempDir()
	envFile := filepath.Join(root, EnvFileName)
	require.NoError(t, os.WriteFile(envFile, []byte(EnvRules+"=custom/rules.yaml\n"+EnvAddr+"=:1\n"), 0o644))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(root))

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr, "process env wins over .env")
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, "custom/rules.yaml", cfg.Rules.Path)
}

func TestApplyEnv_MissingFile(t *testing.T) {
	for _, k := range []string{EnvLogLevel, EnvAddr, EnvRules, EnvOutputDir} {
		t.Setenv(k, "")
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(t.TempDir()))
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv_MalformedFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, EnvFileName), []byte("BAD-KEY=1\n"), 0o644))

	cfg := Default()
	err := cfg.ApplyEnv(root)
	assert.ErrorContains(t, err, "loading env file")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	assert.ErrorContains(t, cfg.Validate(), "output.format")

	cfg = Default()
	cfg.Log.Level = "chatty"
	assert.ErrorContains(t, cfg.Validate(), "log.level")

	cfg = Default()
	cfg.Server.MaxUploadMB = -1
	assert.ErrorContains(t, cfg.Validate(), "max_upload_mb")
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", "exports"), Resolve("proj", "exports"))
	assert.Equal(t, "/abs/exports", Resolve("proj", "/abs/exports"))
	assert.Equal(t, "", Resolve("proj", ""))
}
