package main

import (
	"flag"
	"os"

	"github.com/jayanta8509/storage-audio/pkg/blob"
	"github.com/jayanta8509/storage-audio/pkg/config"
	"github.com/jayanta8509/storage-audio/pkg/log"
	"github.com/jayanta8509/storage-audio/pkg/reaper"
	"github.com/jayanta8509/storage-audio/pkg/registry"
	"github.com/jayanta8509/storage-audio/pkg/registry/sqlite"
	"github.com/jayanta8509/storage-audio/pkg/server"
)

const storageDirPerm = 0750

func main() {
	// Initialize logger first
	_ = log.Logger

	cfg := config.Load()

	addr := flag.String("addr", cfg.Addr, "Listen address")
	storageDir := flag.String("storage", cfg.StorageDir, "Storage directory path")
	dbPath := flag.String("db", cfg.DatabasePath, "SQLite registry path (empty for in-memory)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		log.SetDebugMode()
	}

	cfg.Addr = *addr
	cfg.StorageDir = *storageDir
	cfg.DatabasePath = *dbPath

	if err := os.MkdirAll(cfg.StorageDir, storageDirPerm); err != nil {
		log.Fatal().Err(err).Str("storage_dir", cfg.StorageDir).Msg("Failed to create storage directory")
	}

	blobs, err := blob.NewStore(cfg.StorageDir)
	if err != nil {
		log.Fatal().Err(err).Str("storage_dir", cfg.StorageDir).Msg("Failed to create blob store")
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DatabasePath).Msg("Failed to open registry")
	}

	sweeper := reaper.New(reg, blobs, cfg.ReapInterval)
	sweeper.Start()

	media := server.NewMediaServer(cfg, blobs, reg)
	if err := media.Start(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}

	sweeper.Stop()
	if err := reg.Close(); err != nil {
		log.Error().Err(err).Msg("Registry close failed")
	}

	os.Exit(0)
}

// openRegistry picks the registry backend: SQLite when a database path is
// configured, otherwise process memory. A durable registry lets records
// outlive a restart, so leftover blobs still get reaped.
func openRegistry(cfg *config.Config) (registry.Registry, error) {
	if cfg.DatabasePath == "" {
		log.Info().Msg("Using in-memory registry")
		return registry.NewMemory(), nil
	}

	log.Info().Str("db", cfg.DatabasePath).Msg("Using SQLite registry")
	return sqlite.NewStore(cfg.DatabasePath)
}
