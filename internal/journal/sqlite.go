//go:build !mips64 && !mips64le && !ppc64 && !s390x

package journal

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO required)
)

const schema = `
CREATE TABLE IF NOT EXISTS journal (
    id TEXT PRIMARY KEY,
    ts INTEGER NOT NULL,
    session_id TEXT NOT NULL DEFAULT '',
    outcome TEXT NOT NULL,

    record_id TEXT,
    reference_number TEXT,
    project_title TEXT,
    invalid_fields TEXT,
    file_count INTEGER DEFAULT 0,
    record_count INTEGER DEFAULT 0,
    error TEXT,
    duration_ms INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_journal_ts ON journal(ts);
CREATE INDEX IF NOT EXISTS idx_journal_outcome_ts ON journal(outcome, ts);
CREATE INDEX IF NOT EXISTS idx_journal_session_ts ON journal(session_id, ts);
`

const selectColumns = `
	SELECT id, ts, session_id, outcome, record_id, reference_number, project_title,
		invalid_fields, file_count, record_count, error, duration_ms
	FROM journal`

// SQLiteStore implements Store using SQLite with WAL mode.
type SQLiteStore struct {
	db      *sql.DB
	maxRows int
	pruneMu sync.Mutex
	logger  *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the journal database at path.
func NewSQLiteStore(path string, maxRows int, logger *slog.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteStore{
		db:      db,
		maxRows: maxRows,
		logger:  logger,
	}, nil
}

// Append inserts an entry and prunes old rows in the background.
func (s *SQLiteStore) Append(e *Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO journal (
			id, ts, session_id, outcome, record_id, reference_number, project_title,
			invalid_fields, file_count, record_count, error, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID, e.TS, e.SessionID, string(e.Outcome), e.RecordID, e.ReferenceNumber, e.ProjectTitle,
		strings.Join(e.InvalidFields, ","), e.FileCount, e.RecordCount, e.Error, e.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	go s.maybePrune()
	return nil
}

// List returns entries matching opts, newest first.
func (s *SQLiteStore) List(opts ListOptions) ([]Entry, error) {
	query := selectColumns + " WHERE 1=1"
	var args []any

	if opts.Outcome != nil {
		query += " AND outcome = ?"
		args = append(args, string(*opts.Outcome))
	}
	if opts.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, opts.SessionID)
	}
	if opts.Window > 0 {
		query += " AND ts >= ?"
		args = append(args, time.Now().UnixMilli()-opts.Window.Milliseconds())
	}

	query += " ORDER BY ts DESC, rowid DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Overview counts outcomes within window.
func (s *SQLiteStore) Overview(window time.Duration) (*Overview, error) {
	cutoff := time.Now().UnixMilli() - window.Milliseconds()

	row := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN outcome = 'loaded' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'load_failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'invalid' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'submitted' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'submit_failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome IN ('submitted', 'submit_failed') THEN duration_ms ELSE 0 END), 0)
		FROM journal
		WHERE ts >= ?
	`, cutoff)

	var o Overview
	var submitMs int
	if err := row.Scan(&o.Total, &o.Loaded, &o.LoadFailed, &o.Invalid, &o.Submitted, &o.SubmitFailed, &submitMs); err != nil {
		return nil, fmt.Errorf("overview query: %w", err)
	}
	o.finish(submitMs)
	return &o, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// maybePrune deletes the oldest rows beyond maxRows, at most one batch per call.
func (s *SQLiteStore) maybePrune() {
	s.pruneMu.Lock()
	defer s.pruneMu.Unlock()

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM journal`).Scan(&count); err != nil {
		s.logger.Error("prune count query failed", "err", err)
		return
	}
	if count <= s.maxRows {
		return
	}

	toDelete := count - s.maxRows
	const batchSize = 500
	if toDelete > batchSize {
		toDelete = batchSize
	}

	_, err := s.db.Exec(`
		DELETE FROM journal WHERE id IN (
			SELECT id FROM journal ORDER BY ts ASC, rowid ASC LIMIT ?
		)
	`, toDelete)
	if err != nil {
		s.logger.Error("prune failed", "err", err)
	} else {
		s.logger.Debug("pruned old journal entries", "deleted", toDelete)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var outcome string
	var recordID, reference, title, invalid, errText sql.NullString

	err := row.Scan(
		&e.ID, &e.TS, &e.SessionID, &outcome, &recordID, &reference, &title,
		&invalid, &e.FileCount, &e.RecordCount, &errText, &e.DurationMs,
	)
	if err != nil {
		return nil, err
	}

	e.Outcome = Outcome(outcome)
	e.RecordID = recordID.String
	e.ReferenceNumber = reference.String
	e.ProjectTitle = title.String
	e.Error = errText.String
	if invalid.String != "" {
		e.InvalidFields = strings.Split(invalid.String, ",")
	}
	return &e, nil
}
