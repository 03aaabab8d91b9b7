package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fitsdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "output:\n  overwrite: true\n"))
	require.NoError(t, err)

	assert.Equal(t, "docs", cfg.Output.Directory)
	assert.Equal(t, FormatRST, cfg.Output.Format)
	assert.True(t, cfg.Output.Overwrite)
	assert.Equal(t, []string{".fits", ".fit", ".fts"}, cfg.Discovery.Extensions)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, ".fitsdoc/catalog.db", cfg.Catalog.Path)

	assert.Equal(t, "fitsdoc.documented", cfg.Notify.Subject)
	assert.Empty(t, cfg.Notify.NATSURL)

	d, err := cfg.WatchDebounce()
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, d)

	rescan, err := cfg.WatchRescan()
	require.NoError(t, err)
	assert.Zero(t, rescan)
}

func TestLoad_Rescan(t *testing.T) {
	cfg, err := Load(writeConfig(t, "watch:\n  rescan: 15m\n"))
	require.NoError(t, err)
	rescan, err := cfg.WatchRescan()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, rescan)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("FITSDOC_TEST_OUT", "/srv/datamodel")
	cfg, err := Load(writeConfig(t, "output:\n  directory: ${FITSDOC_TEST_OUT}/docs\n"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/datamodel/docs", cfg.Output.Directory)
}

func TestLoad_NormalizesEnums(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
output:
  format: Markdown
logging:
  level: WARNING
  format: JSON
discovery:
  extensions: [" .FITS ", ".fz"]
`))
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, cfg.Output.Format)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, []string{".fits", ".fz"}, cfg.Discovery.Extensions)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown format", "output:\n  format: latex\n"},
		{"unknown level", "logging:\n  level: loud\n"},
		{"unknown field", "output:\n  colour: red\n"},
		{"bad debounce", "watch:\n  debounce: soon\n"},
		{"negative debounce", "watch:\n  debounce: -1s\n"},
		{"short rescan", "watch:\n  rescan: 10ms\n"},
		{"empty extension", "discovery:\n  extensions: [\" \"]\n"},
		{"malformed yaml", "output: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
		})
	}
}

func TestLoad_UnknownFormatListsOptions(t *testing.T) {
	_, err := Load(writeConfig(t, "output:\n  format: latex\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "html, markdown, md, restructuredtext, rst")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FITSDOC_TEST_KEEP", "from-process")
	require.NoError(t, os.WriteFile(".env", []byte("FITSDOC_TEST_KEEP=from-file\nFITSDOC_TEST_NEW=night1\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("FITSDOC_TEST_NEW") })

	cfg, err := Load(writeConfig(t, "output:\n  directory: ${FITSDOC_TEST_KEEP}/${FITSDOC_TEST_NEW}\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-process/night1", cfg.Output.Directory)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fitsdoc.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	require.NoError(t, Init(path, true))
}
