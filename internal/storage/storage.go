package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Upload is one background image pushed to a dial.
type Upload struct {
	DialUID    string    `json:"dial_uid"`
	Digest     string    `json:"digest"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Store is the upload ledger: it remembers which image content each dial
// already received so unchanged backgrounds are not re-sent.
type Store interface {
	Close() error
	SeenUpload(uid, digest string) (bool, error)
	MarkUpload(u Upload) error
	ForgetDial(uid string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	UploadTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultUploadTTL       = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// Digest returns the hex sha256 of image content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.UploadTTL <= 0 {
		opts.UploadTTL = defaultUploadTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                             { return nil }
func (noopStore) SeenUpload(string, string) (bool, error) { return false, nil }
func (noopStore) MarkUpload(Upload) error                 { return nil }
func (noopStore) ForgetDial(string) error                 { return nil }
