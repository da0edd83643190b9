package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	assert.Equal(t, "ts", cfg.Markers.TOC)
	assert.Equal(t, []string{"te", "end"}, cfg.Markers.End)
	assert.Equal(t, []string{".md"}, cfg.Extensions)
	assert.Equal(t, "doctoc.rewritten", cfg.Events.Subject)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
max_depth: 2
extensions: [MARKDOWN, .md]
logging:
  level: DEBUG
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, []string{".markdown", ".md"}, cfg.Extensions)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, "tfs", cfg.Markers.TOF)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCTOC_TEST_NATS", "nats://localhost:4222")
	path := writeConfig(t, "events:\n  nats_url: ${DOCTOC_TEST_NATS}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nats://localhost:4222", cfg.Events.NATSURL)
}

func TestLoad_DotEnvNextToConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCTOC_TEST_STATE=/tmp/doctoc.db\n"), 0o600))
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("state:\n  path: ${DOCTOC_TEST_STATE}\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DOCTOC_TEST_STATE") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/doctoc.db", cfg.State.Path)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "markers: [\n"},
		{"negative depth", "max_depth: -1\n"},
		{"negative offset", "heading_offset: -3\n"},
		{"bad log format", "logging:\n  format: xml\n"},
		{"duplicate tokens", "markers:\n  toc: x\n  tof: x\n"},
		{"empty extension", "extensions: [\"  \"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
		})
	}
}

func TestTOCOptions(t *testing.T) {
	cfg := Default()
	cfg.HeadingOffset = 3
	opts := cfg.TOCOptions()
	assert.Equal(t, 3, opts.HeadingOffset)
	assert.Equal(t, "fig_x", opts.Markers.Figure)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	require.NoError(t, Init(path, true))
}

func TestNormalizeLogging(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))
}
