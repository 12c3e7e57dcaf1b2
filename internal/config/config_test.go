package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Contains(t, cfg.Intake.NeedTypes, "Captions")
	assert.Contains(t, cfg.Intake.Turnarounds, "Rush 12h")
	assert.Equal(t, "clipdesk_session", cfg.Auth.CookieName)
	assert.Equal(t, 5, cfg.Classifier.BasicVolumeMax)
	assert.Equal(t, 16, cfg.Classifier.EliteVolumeMin)
}

func TestGenerateDefaultRoundTrips(t *testing.T) {
	cfg, err := FromYAML([]byte(GenerateDefault()))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOptionalReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `intake:
  need_types: [Captions]
  platforms: [TikTok]
  turnarounds: ["24-48h"]
  budget_ranges: ["<200"]
classifier:
  basic_volume_max: 3
  elite_volume_min: 12
auth:
  cookie_name: session
  session_ttl_hours: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clipdesk.yml"), []byte(content), 0o644))
	cfg, err := LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Captions"}, cfg.Intake.NeedTypes)
	assert.Equal(t, 3, cfg.Classifier.BasicVolumeMax)
	assert.Equal(t, "session", cfg.Auth.CookieName)
}

func TestValidateRejectsBadClassifier(t *testing.T) {
	cfg := Default()
	cfg.Classifier.EliteVolumeMin = cfg.Classifier.BasicVolumeMax
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Classifier.BasicVolumeMax = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyCatalogs(t *testing.T) {
	cfg := Default()
	cfg.Intake.Platforms = nil
	assert.Error(t, cfg.Validate())
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
