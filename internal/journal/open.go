package journal

import (
	"log/slog"
)

// Open returns the store for kind: "sqlite", "memory" or "off" (nil store).
// A SQLite store that cannot be opened falls back to memory.
func Open(kind, path string, maxRows int, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	switch kind {
	case "off":
		return nil
	case "sqlite":
		s, err := NewSQLiteStore(path, maxRows, logger)
		if err == nil {
			return s
		}
		logger.Warn("sqlite journal unavailable, using memory", "path", path, "err", err)
	}
	return NewMemoryStore(maxRows)
}
