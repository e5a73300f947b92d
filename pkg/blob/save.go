package blob

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jayanta8509/storage-audio/pkg/log"
	"github.com/jayanta8509/storage-audio/pkg/media"
)

// Save writes the content to a freshly generated name preserving ext and
// returns the stored name and the number of bytes written. The content is
// first written to a temporary file in the same directory and then renamed,
// so a partially written blob is never visible under its public name.
func (s *Store) Save(category media.Category, ext string, content io.Reader) (string, int64, error) {
	dir := s.Dir(category)
	storedName := uuid.NewString() + ext

	tempFile, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("Failed to create temporary file")
		return "", 0, err
	}

	size, err := io.Copy(tempFile, content)
	if err != nil {
		s.discardTemp(tempFile)
		log.Error().Err(err).Str("stored_name", storedName).Msg("Failed to write blob content")
		return "", 0, err
	}

	if err := tempFile.Close(); err != nil {
		if removeErr := os.Remove(tempFile.Name()); removeErr != nil {
			log.Error().Err(removeErr).Str("temp_file", tempFile.Name()).Msg("Failed to remove temporary file")
		}
		log.Error().Err(err).Str("stored_name", storedName).Msg("Failed to close temporary file")
		return "", 0, err
	}

	targetPath := filepath.Join(dir, storedName)
	if err := os.Rename(tempFile.Name(), targetPath); err != nil {
		if removeErr := os.Remove(tempFile.Name()); removeErr != nil {
			log.Error().Err(removeErr).Str("temp_file", tempFile.Name()).Msg("Failed to remove temporary file")
		}
		log.Error().Err(err).Str("target_path", targetPath).Msg("Failed to move blob into place")
		return "", 0, err
	}

	log.Debug().Str("stored_name", storedName).Int64("size", size).Msg("Blob stored")
	return storedName, size, nil
}

// discardTemp closes and removes a temporary upload file.
func (s *Store) discardTemp(tempFile *os.File) {
	if err := tempFile.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close temporary file")
	}
	if err := os.Remove(tempFile.Name()); err != nil {
		log.Error().Err(err).Str("temp_file", tempFile.Name()).Msg("Failed to remove temporary file")
	}
}
