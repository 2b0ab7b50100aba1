//go:build mips64 || mips64le || ppc64 || s390x

package journal

import (
	"errors"
	"log/slog"
	"time"
)

var errSQLiteUnavailable = errors.New("SQLite journal not available")

// SQLiteStore is a stub for platforms the pure-Go driver does not support.
type SQLiteStore struct{}

// NewSQLiteStore returns an error on unsupported platforms.
func NewSQLiteStore(path string, maxRows int, logger *slog.Logger) (*SQLiteStore, error) {
	return nil, errors.New("SQLite storage is not supported on this platform, use memory storage instead")
}

func (s *SQLiteStore) Append(e *Entry) error { return errSQLiteUnavailable }

func (s *SQLiteStore) List(opts ListOptions) ([]Entry, error) { return nil, errSQLiteUnavailable }

func (s *SQLiteStore) Overview(window time.Duration) (*Overview, error) {
	return nil, errSQLiteUnavailable
}

func (s *SQLiteStore) Close() error { return nil }
