package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MIDAI_DB", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".midai", "midai.db"), cfg.DB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, LogFormatAuto, cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "local", cfg.UserID)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("MIDAI_DB", "/tmp/x.db")
	t.Setenv("MIDAI_LOG_LEVEL", "debug")
	t.Setenv("MIDAI_LOG_FORMAT", "json")
	t.Setenv("MIDAI_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("MIDAI_SETTINGS_FILE", "/etc/midai.yaml")
	t.Setenv("MIDAI_USER_ID", "ana")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DB)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, "/etc/midai.yaml", cfg.SettingsFile)
	assert.Equal(t, "ana", cfg.UserID)
}

func TestLoad_RejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("MIDAI_DB", "/tmp/x.db")
	t.Setenv("MIDAI_LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoadSettings_EmptyPathIsDefault(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
}

func TestLoadSettings_PartialDocumentOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone: Europe/Madrid
workingHours:
  start: "08:30"
  end: "17:00"
plan:
  includeTravelBuffer: true
scoring:
  weights:
    revenueTag: 5
`), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", s.Timezone)
	assert.Equal(t, domain.ClockRange{Start: "08:30", End: "17:00"}, s.WorkingHours)
	assert.True(t, s.Plan.IncludeTravelBuffer)
	assert.Equal(t, 20, s.Plan.MaxBlocks, "untouched keys keep defaults")
	assert.Equal(t, 5.0, s.Weight(domain.WeightRevenueTag))
	assert.Equal(t, 3.0, s.Weight(domain.WeightPriorityHigh))
}

func TestLoadSettings_Invalid(t *testing.T) {
	_, err := SettingsFromYAML([]byte("timezone: Mars/Olympus\n"))
	assert.True(t, domain.IsValidation(err))

	_, err = SettingsFromYAML([]byte("workingHours: [oops\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid settings yaml")

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultSettingsYAML_LoadsBack(t *testing.T) {
	data, err := DefaultSettingsYAML()
	require.NoError(t, err)

	s, err := SettingsFromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
}
