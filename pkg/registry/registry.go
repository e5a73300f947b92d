// Package registry tracks stored uploads and their expiry times. It is the
// single shared mutable resource of the service: upload handlers insert
// records, the reaper scans for and removes expired ones.
package registry

import (
	"time"

	"github.com/jayanta8509/storage-audio/pkg/media"
)

// FileRecord is one entry per successfully stored upload.
type FileRecord struct {
	Token            string         `json:"token"`
	Category         media.Category `json:"category"`
	StoredName       string         `json:"stored_name"`
	OriginalFilename string         `json:"original_filename"`
	FilePath         string         `json:"-"`
	SizeBytes        int64          `json:"file_size"`
	CreatedAt        time.Time      `json:"created_at"`
	ExpiresAt        time.Time      `json:"expires_at"`
}

// Expired reports whether the record is past its expiry at the given time.
func (r FileRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Registry is the contract shared by the in-memory and durable
// implementations. Implementations must make Insert and Remove mutually
// exclusive with each other and with SnapshotExpired, and must never hold
// their lock across I/O.
type Registry interface {
	// Insert adds a new record. It fails with DuplicateTokenError if the
	// token is already present.
	Insert(record FileRecord) error

	// Get returns the record for token, or NotFoundError. Unknown and
	// already-reaped tokens are indistinguishable.
	Get(token string) (FileRecord, error)

	// SnapshotExpired returns the tokens of all records whose expiry lies
	// before now, without mutating the registry.
	SnapshotExpired(now time.Time) ([]string, error)

	// Remove atomically removes and returns the record for token, or
	// NotFoundError. It is the sole mutation path after insertion.
	Remove(token string) (FileRecord, error)

	// Len returns the number of live records.
	Len() (int, error)

	// Close releases any resources held by the registry.
	Close() error
}

// DuplicateTokenError is returned when inserting a token that already exists.
type DuplicateTokenError struct {
	Token string
}

func (e DuplicateTokenError) Error() string {
	return "token already registered"
}

// NotFoundError is returned when looking up or removing an unknown token.
type NotFoundError struct {
	Token string
}

func (e NotFoundError) Error() string {
	return "token not found"
}
