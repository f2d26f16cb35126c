package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const uploadBucket = "uploads"

// keySep separates the dial uid from the digest; uids never contain NUL.
const keySep = 0x00

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	uploadTTL       time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (*boltStore, error) {
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
		_, err := tx.CreateBucketIfNotExists([]byte(uploadBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		uploadTTL:       opts.UploadTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

func uploadKey(uid, digest string) []byte {
	key := make([]byte, 0, len(uid)+1+len(digest))
	key = append(key, uid...)
	key = append(key, keySep)
	return append(key, digest...)
}

func dialPrefix(uid string) []byte {
	return append([]byte(uid), keySep)
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenUpload reports whether digest was uploaded to uid and has not expired.
func (b *boltStore) SeenUpload(uid, digest string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var seen bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadBucket))
		if bucket == nil {
			return fmt.Errorf("upload bucket missing")
		}
		raw := bucket.Get(uploadKey(uid, digest))
		if raw == nil {
			return nil
		}
		var u Upload
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil
		}
		seen = u.ExpiresAt.After(now)
		return nil
	})
	return seen, err
}

// MarkUpload records u. Earlier uploads to the same dial are replaced since a
// dial only shows one background at a time.
func (b *boltStore) MarkUpload(u Upload) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}
	if u.UploadedAt.IsZero() {
		u.UploadedAt = now.UTC()
	}
	u.ExpiresAt = u.UploadedAt.Add(b.uploadTTL)

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode upload: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadBucket))
		if bucket == nil {
			return fmt.Errorf("upload bucket missing")
		}
		if err := deletePrefix(bucket, dialPrefix(u.DialUID)); err != nil {
			return err
		}
		return bucket.Put(uploadKey(u.DialUID, u.Digest), raw)
	})
}

// ForgetDial drops every recorded upload for uid.
func (b *boltStore) ForgetDial(uid string) error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadBucket))
		if bucket == nil {
			return fmt.Errorf("upload bucket missing")
		}
		return deletePrefix(bucket, dialPrefix(uid))
	})
}

func deletePrefix(bucket *bolt.Bucket, prefix []byte) error {
	c := bucket.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Seek(prefix) {
		if err := c.Delete(); err != nil {
			return err
		}
	}
	return nil
}

// maybeCleanupExpired removes expired uploads on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
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
		bucket := tx.Bucket([]byte(uploadBucket))
		if bucket == nil {
			return fmt.Errorf("upload bucket missing")
		}

		var expired [][]byte
		if err := bucket.ForEach(func(k, v []byte) error {
			var u Upload
			if json.Unmarshal(v, &u) != nil || !u.ExpiresAt.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}
