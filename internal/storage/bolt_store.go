package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

const (
	storeBucket      = "stores"
	clientBucket     = "client"
	sessionKey       = "session"
	locationKey      = "location"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	storeTTL        time.Duration
	sessionTTL      time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{storeBucket, clientBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	store := &boltStore{
		db:              db,
		storeTTL:        opts.StoreTTL,
		sessionTTL:      opts.SessionTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenStore reports whether the store was announced for the area within the TTL.
func (b *boltStore) SeenStore(areaID string, storeID int64) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	if err := b.maybeCleanupExpired(time.Now()); err != nil {
		return false, err
	}

	var exists bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx, storeBucket)
		if err != nil {
			return err
		}

		key := []byte(storeKey(areaID, storeID))
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		expiry, ok := decodeExpiry(value)
		if !ok || !expiry.After(time.Now()) {
			return bucket.Delete(key)
		}

		exists = true
		return nil
	})
	return exists, err
}

// MarkStore records the store as announced for the area.
func (b *boltStore) MarkStore(areaID string, storeID int64) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx, storeBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(storeKey(areaID, storeID)), encodeExpiry(now.Add(b.storeTTL)))
	})
}

// SaveSession stores the token prefixed with its expiry.
func (b *boltStore) SaveSession(token string) error {
	if b == nil || b.db == nil {
		return nil
	}
	value := append(encodeExpiry(time.Now().Add(b.sessionTTL)), token...)
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx, clientBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(sessionKey), value)
	})
}

func (b *boltStore) Session() (string, bool, error) {
	if b == nil || b.db == nil {
		return "", false, nil
	}
	var token string
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx, clientBucket)
		if err != nil {
			return err
		}
		value := bucket.Get([]byte(sessionKey))
		if value == nil {
			return nil
		}
		if len(value) <= expiryValueBytes {
			return bucket.Delete([]byte(sessionKey))
		}
		expiry, ok := decodeExpiry(value[:expiryValueBytes])
		if !ok || !expiry.After(time.Now()) {
			return bucket.Delete([]byte(sessionKey))
		}
		token = string(value[expiryValueBytes:])
		return nil
	})
	return token, token != "", err
}

func (b *boltStore) ClearSession() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx, clientBucket)
		if err != nil {
			return err
		}
		return bucket.Delete([]byte(sessionKey))
	})
}

func (b *boltStore) SaveLocation(p domain.Coordinates) error {
	if b == nil || b.db == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx, clientBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(locationKey), raw)
	})
}

func (b *boltStore) LastLocation() (domain.Coordinates, bool, error) {
	var p domain.Coordinates
	if b == nil || b.db == nil {
		return p, false, nil
	}
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx, clientBucket)
		if err != nil {
			return err
		}
		raw := bucket.Get([]byte(locationKey))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decode location: %w", err)
		}
		found = true
		return nil
	})
	return p, found, err
}

// maybeCleanupExpired removes expired store marks on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := bucketOf(tx, storeBucket)
		if err != nil {
			return err
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func bucketOf(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(name))
	if bucket == nil {
		return nil, fmt.Errorf("%s bucket missing", name)
	}
	return bucket, nil
}

func encodeExpiry(t time.Time) []byte {
	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()))
	return buf
}

// decodeExpiry decodes the expiry time from the stored byte slice.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
