package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketRecords   = []byte("records")
	bucketPositions = []byte("positions")
)

var allBuckets = [][]byte{bucketRecords, bucketPositions}

// cachedRecords wraps decoded records with the source's modification time
// and the decode options they were produced under
type cachedRecords struct {
	Path    string          `json:"path"`
	Variant string          `json:"variant"`
	ModTime int64           `json:"mod_time"`
	Records []domain.Record `json:"records"`
}

// cachedPosition is the last reported second for a media file
type cachedPosition struct {
	Second    int   `json:"second"`
	UpdatedAt int64 `json:"updated_at"`
}

// ChapterStore implements domain.Store using BoltDB.
type ChapterStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

func NewChapterStore(cacheDir string) (*ChapterStore, error) {
	if cacheDir == "" {
		// Memory-only mode (no persistence)
		return &ChapterStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "reel.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ChapterStore{db: db, cache: make(map[string][]byte)}, nil
}

// hashPath keys entries by absolute path so relative and absolute spellings agree
func hashPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	hash := sha256.Sum256([]byte(filepath.Clean(path)))
	return hex.EncodeToString(hash[:8])
}

func (s *ChapterStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *ChapterStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *ChapterStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *ChapterStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Records ===

// GetRecords returns cached records when they were decoded under variant
// from a source no older than modTime
func (s *ChapterStore) GetRecords(sourcePath, variant string, modTime time.Time) ([]domain.Record, bool) {
	var cached cachedRecords
	if !s.get(bucketRecords, hashPath(sourcePath), &cached) {
		return nil, false
	}
	if cached.Variant != variant || cached.ModTime < modTime.UnixNano() {
		return nil, false
	}
	return cached.Records, true
}

func (s *ChapterStore) SaveRecords(sourcePath, variant string, modTime time.Time, records []domain.Record) error {
	return s.set(bucketRecords, hashPath(sourcePath), cachedRecords{
		Path:    sourcePath,
		Variant: variant,
		ModTime: modTime.UnixNano(),
		Records: records,
	})
}

func (s *ChapterStore) InvalidateRecords(sourcePath string) {
	s.delete(bucketRecords, hashPath(sourcePath))
}

// === Positions ===

func (s *ChapterStore) GetPosition(mediaPath string) (int, bool) {
	var pos cachedPosition
	if !s.get(bucketPositions, hashPath(mediaPath), &pos) {
		return 0, false
	}
	return pos.Second, true
}

func (s *ChapterStore) SavePosition(mediaPath string, second int) error {
	return s.set(bucketPositions, hashPath(mediaPath), cachedPosition{
		Second:    second,
		UpdatedAt: time.Now().Unix(),
	})
}

func (s *ChapterStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

var _ domain.Store = (*ChapterStore)(nil)
