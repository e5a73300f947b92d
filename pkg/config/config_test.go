package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jayanta8509/storage-audio/pkg/media"
)

// ConfigTestSuite tests configuration loading
type ConfigTestSuite struct {
	suite.Suite
}

// TestLoadDefaults tests the built-in defaults
func (s *ConfigTestSuite) TestLoadDefaults() {
	cfg := Load()

	s.Equal(":8072", cfg.Addr)
	s.Equal("media_storage", cfg.StorageDir)
	s.Empty(cfg.DatabasePath)
	s.Equal(12*time.Hour, cfg.AudioRetention)
	s.Equal(20*time.Minute, cfg.ImageRetention)
	s.Equal(time.Minute, cfg.ReapInterval)
}

// TestLoadEnvOverrides tests that environment variables win over defaults
func (s *ConfigTestSuite) TestLoadEnvOverrides() {
	s.T().Setenv("MEDIAD_ADDR", ":9000")
	s.T().Setenv("MEDIAD_STORAGE_DIR", "/var/lib/mediad")
	s.T().Setenv("MEDIAD_DB", "/var/lib/mediad/registry.db")
	s.T().Setenv("MEDIAD_AUDIO_RETENTION", "2h")
	s.T().Setenv("MEDIAD_IMAGE_RETENTION", "90m")
	s.T().Setenv("MEDIAD_REAP_INTERVAL", "30s")

	cfg := Load()

	s.Equal(":9000", cfg.Addr)
	s.Equal("/var/lib/mediad", cfg.StorageDir)
	s.Equal("/var/lib/mediad/registry.db", cfg.DatabasePath)
	s.Equal(2*time.Hour, cfg.AudioRetention)
	s.Equal(90*time.Minute, cfg.ImageRetention)
	s.Equal(30*time.Second, cfg.ReapInterval)
}

// TestLoadInvalidDurationFallsBack tests that a malformed duration keeps the default
func (s *ConfigTestSuite) TestLoadInvalidDurationFallsBack() {
	s.T().Setenv("MEDIAD_AUDIO_RETENTION", "tomorrow")

	cfg := Load()
	s.Equal(12*time.Hour, cfg.AudioRetention)
}

// TestRetentionPerCategory tests the per-category retention accessor
func (s *ConfigTestSuite) TestRetentionPerCategory() {
	cfg := &Config{
		AudioRetention: 3 * time.Hour,
		ImageRetention: 10 * time.Minute,
	}

	s.Equal(3*time.Hour, cfg.Retention(media.Audio))
	s.Equal(10*time.Minute, cfg.Retention(media.Image))
}

// TestReapIntervalFor tests the interval heuristic
func (s *ConfigTestSuite) TestReapIntervalFor() {
	s.Equal(time.Minute, ReapIntervalFor(12*time.Hour, 20*time.Minute))
	s.Equal(5*time.Minute, ReapIntervalFor(12*time.Hour, 2*time.Hour))
	s.Equal(time.Minute, ReapIntervalFor(30*time.Minute))
}

// TestConfigSuite runs the config test suite
func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
