package ocrcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS ocr_results (
    digest      TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    text        TEXT NOT NULL,
    created_at  TEXT NOT NULL,
    PRIMARY KEY (digest, fingerprint)
);
`

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// ErrLocked reports that another process holds the cache.
var ErrLocked = errors.New("ocr cache is locked by another process")

// Store is a SQLite-backed recognition cache.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

// Open creates or opens the cache database at path, taking an exclusive
// sidecar flock for the store's lifetime.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !held {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		lock.Unlock()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return &Store{db: db, lock: lock, path: path}, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close releases the database and the flock.
func (s *Store) Close() error {
	dbErr := s.db.Close()
	lockErr := s.lock.Unlock()
	if dbErr != nil {
		return dbErr
	}
	return lockErr
}

// Get looks up text for an image digest under an engine fingerprint.
func (s *Store) Get(ctx context.Context, digest, fingerprint string) (string, bool, error) {
	var text string
	err := s.queryRowWithRetry(ctx,
		`SELECT text FROM ocr_results WHERE digest = ? AND fingerprint = ?`,
		[]any{digest, fingerprint}, &text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache lookup: %w", err)
	}
	return text, true, nil
}

// Put stores text for an image digest, replacing any previous entry.
func (s *Store) Put(ctx context.Context, digest, fingerprint, text string) error {
	err := s.execWithRetry(ctx,
		`INSERT OR REPLACE INTO ocr_results (digest, fingerprint, text, created_at) VALUES (?, ?, ?, ?)`,
		digest, fingerprint, text, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	return nil
}

// ImageDigest hashes a rendered line image's geometry and pixels.
func ImageDigest(img *image.Gray) string {
	h := sha256.New()
	var dims [16]byte
	bounds := img.Bounds()
	binary.BigEndian.PutUint64(dims[:8], uint64(bounds.Dx()))
	binary.BigEndian.PutUint64(dims[8:], uint64(bounds.Dy()))
	h.Write(dims[:])
	h.Write(img.Pix)
	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintDigest hashes an engine configuration fingerprint into a fixed
// width key.
func FingerprintDigest(fingerprint string) string {
	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:])
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func (s *Store) queryRowWithRetry(ctx context.Context, query string, args []any, dest ...any) error {
	return retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	})
}
