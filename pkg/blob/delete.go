package blob

import (
	"os"

	"github.com/jayanta8509/storage-audio/pkg/log"
)

// Delete removes the blob at path. Deleting an already-absent blob is not an
// error; reclamation retries must be idempotent.
func (s *Store) Delete(path string) error {
	err := os.Remove(path)
	if err == nil {
		log.Debug().Str("path", path).Msg("Blob deleted")
		return nil
	}
	if os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("Blob already absent")
		return nil
	}

	log.Error().Err(err).Str("path", path).Msg("Failed to delete blob")
	return err
}
