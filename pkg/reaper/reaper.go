// Package reaper runs the background reclamation loop that enforces
// retention: it scans the registry for expired records, deletes their backing
// blobs and removes the records.
package reaper

import (
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jayanta8509/storage-audio/pkg/log"
	"github.com/jayanta8509/storage-audio/pkg/registry"
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = time.Minute

// BlobDeleter is the part of the blob store the reaper needs.
type BlobDeleter interface {
	Delete(path string) error
}

// Reaper periodically drains expired records from the registry.
type Reaper struct {
	registry registry.Registry
	blobs    BlobDeleter
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New creates a reaper over the given registry and blob store.
func New(reg registry.Registry, blobs BlobDeleter, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Reaper{
		registry: reg,
		blobs:    blobs,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the background loop. The loop wakes every interval, runs one
// cycle and honors Stop at the sleep boundary.
func (r *Reaper) Start() {
	r.wg.Add(1)
	go r.loop()

	log.Info().Dur("interval", r.interval).Msg("Reaper started")
}

// Stop signals the loop to exit and waits for the current cycle to finish.
func (r *Reaper) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	log.Info().Msg("Reaper stopped")
}

func (r *Reaper) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.RunCycle(time.Now())
		}
	}
}

// RunCycle performs one scan-and-delete pass at the given time. A failure on
// one record is logged and skipped; it never aborts the cycle, and the record
// is retried on the next pass.
func (r *Reaper) RunCycle(now time.Time) {
	expired, err := r.registry.SnapshotExpired(now)
	if err != nil {
		log.Error().Err(err).Msg("Expiry scan failed")
		return
	}
	if len(expired) == 0 {
		return
	}

	var (
		reaped     int
		freedBytes int64
	)
	for _, token := range expired {
		record, err := r.registry.Get(token)
		if err != nil {
			// Already gone, nothing to clean up.
			continue
		}

		// Delete the blob before removing the record: an interruption
		// between the two steps leaves an orphaned record that the next
		// cycle retries, never an unreferenced file on disk.
		if err := r.blobs.Delete(record.FilePath); err != nil {
			log.Error().Err(err).Str("token", token).Str("file_path", record.FilePath).
				Msg("Blob cleanup failed, will retry next cycle")
			continue
		}

		if _, err := r.registry.Remove(token); err != nil {
			log.Error().Err(err).Str("token", token).Msg("Registry removal failed")
			continue
		}

		reaped++
		freedBytes += record.SizeBytes
		log.Info().Str("token", token).Str("stored_name", record.StoredName).
			Str("category", string(record.Category)).Msg("Expired file deleted")
	}

	if reaped > 0 {
		log.Info().Int("reaped", reaped).
			Str("freed", humanize.Bytes(uint64(freedBytes))).
			Msg("Reap cycle complete")
	}
}
