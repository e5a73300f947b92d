// Package config loads runtime configuration from a .env file (if present)
// and environment variables. Command-line flags in the binaries take these
// values as defaults.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jayanta8509/storage-audio/pkg/log"
	"github.com/jayanta8509/storage-audio/pkg/media"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Addr       string
	StorageDir string

	// DatabasePath enables the durable SQLite registry when non-empty;
	// otherwise the registry lives in process memory only.
	DatabasePath string

	AudioRetention time.Duration
	ImageRetention time.Duration
	ReapInterval   time.Duration
}

// Load reads configuration from the environment, applying built-in defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, reading from environment")
	}

	cfg := &Config{
		Addr:           getEnv("MEDIAD_ADDR", ":8072"),
		StorageDir:     getEnv("MEDIAD_STORAGE_DIR", "media_storage"),
		DatabasePath:   getEnv("MEDIAD_DB", ""),
		AudioRetention: getDuration("MEDIAD_AUDIO_RETENTION", media.Audio.DefaultRetention()),
		ImageRetention: getDuration("MEDIAD_IMAGE_RETENTION", media.Image.DefaultRetention()),
	}
	cfg.ReapInterval = getDuration("MEDIAD_REAP_INTERVAL",
		ReapIntervalFor(cfg.AudioRetention, cfg.ImageRetention))

	return cfg
}

// Retention returns the configured time-to-live for the category.
func (c *Config) Retention(category media.Category) time.Duration {
	if category == media.Image {
		return c.ImageRetention
	}
	return c.AudioRetention
}

// ReapIntervalFor picks a sweep interval proportional to the shortest
// retention: once a minute when anything expires within the hour, otherwise
// every five minutes.
func ReapIntervalFor(retentions ...time.Duration) time.Duration {
	for _, retention := range retentions {
		if retention < time.Hour {
			return time.Minute
		}
	}
	return 5 * time.Minute
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid duration, using default")
		return fallback
	}
	return parsed
}
