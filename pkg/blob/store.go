// Package blob persists uploaded media bytes on the local filesystem under
// randomly generated names, one directory per category.
package blob

import (
	"os"
	"path/filepath"

	"github.com/jayanta8509/storage-audio/pkg/log"
	"github.com/jayanta8509/storage-audio/pkg/media"
)

const dirPerm = 0750

// Store writes and removes media blobs beneath a single storage root.
type Store struct {
	root string
}

// NewStore creates a blob store rooted at root and ensures the per-category
// directories exist.
func NewStore(root string) (*Store, error) {
	s := &Store{root: root}

	for _, category := range []media.Category{media.Audio, media.Image} {
		dir := s.Dir(category)
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			log.Error().Err(err).Str("dir", dir).Msg("Failed to create storage directory")
			return nil, err
		}
	}

	return s, nil
}

// Dir returns the directory blobs of the given category are stored in.
func (s *Store) Dir(category media.Category) string {
	return filepath.Join(s.root, category.StorageSubdir())
}

// Path returns the on-disk path for a stored name within a category.
func (s *Store) Path(category media.Category, storedName string) string {
	return filepath.Join(s.Dir(category), storedName)
}
