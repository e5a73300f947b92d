package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jayanta8509/storage-audio/pkg/media"
	"github.com/jayanta8509/storage-audio/pkg/registry"
)

// StoreTestSuite tests the SQLite-backed registry.
type StoreTestSuite struct {
	suite.Suite
	tempDir string
	dbPath  string
	store   *Store
	now     time.Time
}

// SetupSuite runs once before all tests.
func (s *StoreTestSuite) SetupSuite() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "registry-sqlite-test-*")
	s.Require().NoError(err)

	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// TearDownSuite runs once after all tests.
func (s *StoreTestSuite) TearDownSuite() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// SetupTest runs before each test.
func (s *StoreTestSuite) SetupTest() {
	s.dbPath = filepath.Join(s.tempDir, "registry.db")
	var err error
	s.store, err = NewStore(s.dbPath)
	s.Require().NoError(err)
}

// TearDownTest runs after each test.
func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
	os.Remove(s.dbPath)
}

func (s *StoreTestSuite) record(token string, expiresAt time.Time) registry.FileRecord {
	return registry.FileRecord{
		Token:            token,
		Category:         media.Image,
		StoredName:       token + ".png",
		OriginalFilename: "photo.png",
		FilePath:         filepath.Join(s.tempDir, "image_storage", token+".png"),
		SizeBytes:        42,
		CreatedAt:        s.now,
		ExpiresAt:        expiresAt,
	}
}

// TestNewStoreInvalidPath tests store creation with an unwritable path.
func (s *StoreTestSuite) TestNewStoreInvalidPath() {
	_, err := NewStore("/nonexistent/path/to/registry.db")
	s.Error(err)
	s.True(errors.Is(err, ErrDatabase))
}

// TestInsertAndGetRoundTrip tests that a record survives the database round trip.
func (s *StoreTestSuite) TestInsertAndGetRoundTrip() {
	record := s.record("tok-1", s.now.Add(20*time.Minute))
	s.NoError(s.store.Insert(record))

	got, err := s.store.Get("tok-1")
	s.NoError(err)
	s.Equal(record.Token, got.Token)
	s.Equal(record.Category, got.Category)
	s.Equal(record.StoredName, got.StoredName)
	s.Equal(record.OriginalFilename, got.OriginalFilename)
	s.Equal(record.FilePath, got.FilePath)
	s.Equal(record.SizeBytes, got.SizeBytes)
	s.True(record.CreatedAt.Equal(got.CreatedAt))
	s.True(record.ExpiresAt.Equal(got.ExpiresAt))
}

// TestInsertDuplicateToken tests the duplicate token error mapping.
func (s *StoreTestSuite) TestInsertDuplicateToken() {
	s.NoError(s.store.Insert(s.record("tok-1", s.now.Add(time.Hour))))

	err := s.store.Insert(s.record("tok-1", s.now.Add(time.Hour)))
	var dupErr registry.DuplicateTokenError
	s.True(errors.As(err, &dupErr))
	s.Equal("tok-1", dupErr.Token)
}

// TestGetUnknownToken tests lookup of a missing token.
func (s *StoreTestSuite) TestGetUnknownToken() {
	_, err := s.store.Get("missing")
	var notFoundErr registry.NotFoundError
	s.True(errors.As(err, &notFoundErr))
}

// TestSnapshotExpired tests the expiry scan query.
func (s *StoreTestSuite) TestSnapshotExpired() {
	s.NoError(s.store.Insert(s.record("expired-1", s.now.Add(-time.Minute))))
	s.NoError(s.store.Insert(s.record("live-1", s.now.Add(time.Minute))))

	expired, err := s.store.SnapshotExpired(s.now)
	s.NoError(err)
	s.Equal([]string{"expired-1"}, expired)

	count, err := s.store.Len()
	s.NoError(err)
	s.Equal(2, count)
}

// TestRemove tests atomic removal.
func (s *StoreTestSuite) TestRemove() {
	record := s.record("tok-1", s.now.Add(time.Hour))
	s.NoError(s.store.Insert(record))

	removed, err := s.store.Remove("tok-1")
	s.NoError(err)
	s.Equal(record.Token, removed.Token)
	s.Equal(record.FilePath, removed.FilePath)

	_, err = s.store.Remove("tok-1")
	var notFoundErr registry.NotFoundError
	s.True(errors.As(err, &notFoundErr))

	count, err := s.store.Len()
	s.NoError(err)
	s.Equal(0, count)
}

// TestRecordsSurviveReopen tests durability across store restarts.
func (s *StoreTestSuite) TestRecordsSurviveReopen() {
	s.NoError(s.store.Insert(s.record("tok-1", s.now.Add(time.Hour))))
	s.NoError(s.store.Close())

	reopened, err := NewStore(s.dbPath)
	s.Require().NoError(err)
	s.store = reopened

	got, err := s.store.Get("tok-1")
	s.NoError(err)
	s.Equal("tok-1", got.Token)
}

// TestImplementsRegistry tests interface compliance.
func (s *StoreTestSuite) TestImplementsRegistry() {
	var _ registry.Registry = s.store
}

// TestStoreSuite runs the SQLite registry test suite.
func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
