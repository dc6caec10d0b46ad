// Package sqlite persists reconciliation outcomes in a local SQLite file so
// earlier runs can be inspected with `arrayctl history`.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "modernc.org/sqlite"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	recorded_at INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	resource    TEXT NOT NULL,
	verdict     TEXT NOT NULL,
	changed     INTEGER NOT NULL,
	message     TEXT,
	error_code  TEXT,
	changes     TEXT
);

CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_recorded ON outcomes(recorded_at);
`

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Journal struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

var _ ports.Journal = (*Journal)(nil)

// Open creates the database file and its parent directory if needed.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New(errors.CodeJournalError, "journal path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, errors.CodeJournalError, "failed to create journal directory")
	}

	dsn := path + "?" + url.Values{
		"_pragma": []string{
			"busy_timeout(10000)",
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
		},
	}.Encode()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeJournalError, "failed to open journal database")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.CodeJournalError, "failed to initialize journal schema")
	}
	return &Journal{db: db, now: time.Now}, nil
}

func (j *Journal) Record(ctx context.Context, runID string, outcome domain.Outcome) error {
	var changes []byte
	if len(outcome.Changes) > 0 {
		var err error
		if changes, err = json.Marshal(outcome.Changes); err != nil {
			return errors.Wrap(err, errors.CodeJournalError, "failed to encode field changes")
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO outcomes (run_id, recorded_at, kind, resource, verdict, changed, message, error_code, changes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		j.now().UnixNano(),
		string(outcome.Kind),
		outcome.Key.String(),
		string(outcome.Verdict),
		outcome.Changed,
		failureMessage(outcome),
		string(outcome.FailureCode()),
		nullable(changes),
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeJournalError,
			fmt.Sprintf("failed to record outcome for %s %s", outcome.Kind, outcome.Key))
	}
	return nil
}

// Recent returns the newest entries first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]ports.JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, recorded_at, kind, resource, verdict, changed, message, error_code, changes
		FROM outcomes ORDER BY recorded_at DESC, seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeJournalError, "failed to query journal")
	}
	defer rows.Close()

	var entries []ports.JournalEntry
	for rows.Next() {
		var (
			e                      ports.JournalEntry
			recorded               int64
			kind, verdict          string
			message, code, changes sql.NullString
		)
		if err := rows.Scan(&e.RunID, &recorded, &kind, &e.Key, &verdict, &e.Changed, &message, &code, &changes); err != nil {
			return nil, errors.Wrap(err, errors.CodeJournalError, "failed to read journal row")
		}
		e.RecordedAt = time.Unix(0, recorded)
		e.Kind = domain.ResourceKind(kind)
		e.Verdict = domain.Verdict(verdict)
		e.Message = message.String
		e.ErrorCode = code.String
		if changes.Valid && changes.String != "" {
			if err := json.UnmarshalFromString(changes.String, &e.Changes); err != nil {
				return nil, errors.Wrap(err, errors.CodeJournalError, "failed to decode field changes")
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeJournalError, "failed to iterate journal")
	}
	return entries, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func failureMessage(o domain.Outcome) string {
	if o.Failure != nil {
		return o.Failure.Message
	}
	return o.Message
}

func nullable(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
