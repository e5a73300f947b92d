package registry

import (
	"sync"
	"time"
)

// Memory is the process-memory registry implementation. One exclusive lock
// guards the whole map; operations are cheap map reads and writes, so lock
// hold time stays bounded.
type Memory struct {
	mu      sync.Mutex
	records map[string]FileRecord
}

// NewMemory creates an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]FileRecord),
	}
}

// Insert adds a new record, failing with DuplicateTokenError if the token is
// already present.
func (m *Memory) Insert(record FileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.Token]; exists {
		return DuplicateTokenError{Token: record.Token}
	}

	m.records[record.Token] = record
	return nil
}

// Get returns the record for token, or NotFoundError.
func (m *Memory) Get(token string) (FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.records[token]
	if !exists {
		return FileRecord{}, NotFoundError{Token: token}
	}
	return record, nil
}

// SnapshotExpired returns the tokens of all records expired at now.
func (m *Memory) SnapshotExpired(now time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []string
	for token, record := range m.records {
		if record.Expired(now) {
			expired = append(expired, token)
		}
	}
	return expired, nil
}

// Remove atomically removes and returns the record for token.
func (m *Memory) Remove(token string) (FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.records[token]
	if !exists {
		return FileRecord{}, NotFoundError{Token: token}
	}

	delete(m.records, token)
	return record, nil
}

// Len returns the number of live records.
func (m *Memory) Len() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

// Close is a no-op for the in-memory registry.
func (m *Memory) Close() error {
	return nil
}
