// Package store persists enriched commands in a local SQLite database.
// List-valued fields are stored as JSON text columns; reads come back
// newest first.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/histlens/histlens/internal/history"
	"github.com/histlens/histlens/internal/redact"
)

// Store wraps the commands database. database/sql serializes access; the
// connection string enables WAL and a write busy timeout.
type Store struct {
	db     *sql.DB
	path   string
	redact bool
}

// Options configure Open.
type Options struct {
	// RedactCredentials masks credential material in command text on the
	// save path. Loaded records reflect what was stored.
	RedactCredentials bool
}

// SaveResult summarizes one SaveCommands call.
type SaveResult struct {
	Saved    int
	Redacted int
}

// Summary holds whole-database totals.
type Summary struct {
	Commands    int
	Sessions    int
	Hosts       int
	Dangerous   int
	Experiments int
}

// Open creates or opens the database at path, creating parent directories
// as needed, and ensures the schema exists.
func Open(path string, opts Options) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	s := &Store{db: db, path: path, redact: opts.RedactCredentials}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		command TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		exit_code INTEGER,
		duration_ms INTEGER,
		working_directory TEXT,
		session_id TEXT,
		host_id TEXT,
		shell TEXT,
		network_endpoints TEXT,
		packages_used TEXT,
		is_dangerous INTEGER NOT NULL DEFAULT 0,
		danger_score REAL NOT NULL DEFAULT 0,
		danger_reasons TEXT,
		is_experiment INTEGER NOT NULL DEFAULT 0,
		experiment_tags TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_commands_timestamp ON commands(timestamp);
	CREATE INDEX IF NOT EXISTS idx_commands_session ON commands(session_id);
	CREATE INDEX IF NOT EXISTS idx_commands_dangerous ON commands(is_dangerous);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_commands_identity
		ON commands(command, timestamp, session_id, host_id, shell);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveCommands inserts the records in one transaction. Rows matching an
// already-stored (command, timestamp, session, host, shell) identity are
// skipped, so re-importing a timestamped history file is idempotent.
// When redaction is enabled, command text passes through redact.Apply
// first and the result counts how many saved lines were masked.
func (s *Store) SaveCommands(ctx context.Context, cmds []history.Command) (SaveResult, error) {
	var result SaveResult
	if len(cmds) == 0 {
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO commands (
			command, timestamp, exit_code, duration_ms, working_directory,
			session_id, host_id, shell, network_endpoints, packages_used,
			is_dangerous, danger_score, danger_reasons, is_experiment,
			experiment_tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return result, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range cmds {
		c := &cmds[i]

		text := c.Command
		changed := false
		if s.redact {
			text, changed = redact.Apply(text)
		}

		endpoints, _ := json.Marshal(c.NetworkEndpoints)
		packages, _ := json.Marshal(c.PackagesUsed)
		reasons, _ := json.Marshal(c.DangerReasons)
		tags, _ := json.Marshal(c.ExperimentTags)

		res, err := stmt.ExecContext(ctx,
			text, c.Timestamp.UnixMilli(), c.ExitCode, c.Duration,
			c.WorkingDirectory, c.SessionID, c.HostID, c.Shell,
			string(endpoints), string(packages),
			c.IsDangerous, c.DangerScore, string(reasons),
			c.IsExperiment, string(tags),
		)
		if err != nil {
			return result, fmt.Errorf("insert command: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			result.Saved++
			if changed {
				result.Redacted++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

// LoadCommands reads records newest first. A limit of zero or less loads
// everything.
func (s *Store) LoadCommands(ctx context.Context, limit int) ([]history.Command, error) {
	query := `
		SELECT id, command, timestamp, exit_code, duration_ms,
			working_directory, session_id, host_id, shell,
			network_endpoints, packages_used, is_dangerous, danger_score,
			danger_reasons, is_experiment, experiment_tags
		FROM commands ORDER BY timestamp DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	var cmds []history.Command
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	return cmds, nil
}

func scanCommand(rows *sql.Rows) (history.Command, error) {
	var (
		c         history.Command
		ts        int64
		exitCode  sql.NullInt64
		duration  sql.NullInt64
		endpoints sql.NullString
		packages  sql.NullString
		reasons   sql.NullString
		tags      sql.NullString
	)

	err := rows.Scan(&c.ID, &c.Command, &ts, &exitCode, &duration,
		&c.WorkingDirectory, &c.SessionID, &c.HostID, &c.Shell,
		&endpoints, &packages, &c.IsDangerous, &c.DangerScore,
		&reasons, &c.IsExperiment, &tags)
	if err != nil {
		return c, fmt.Errorf("scan command: %w", err)
	}

	c.Timestamp = time.UnixMilli(ts).UTC()
	if exitCode.Valid {
		v := int(exitCode.Int64)
		c.ExitCode = &v
	}
	if duration.Valid {
		v := duration.Int64
		c.Duration = &v
	}
	unmarshalList(endpoints, &c.NetworkEndpoints)
	unmarshalList(packages, &c.PackagesUsed)
	unmarshalList(reasons, &c.DangerReasons)
	unmarshalList(tags, &c.ExperimentTags)
	return c, nil
}

func unmarshalList[T any](col sql.NullString, dst *T) {
	if !col.Valid || col.String == "" || col.String == "null" {
		return
	}
	_ = json.Unmarshal([]byte(col.String), dst)
}

// Summary reports whole-database totals in one pass.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(DISTINCT session_id),
			COUNT(DISTINCT host_id),
			COALESCE(SUM(is_dangerous), 0),
			COALESCE(SUM(is_experiment), 0)
		FROM commands`).
		Scan(&sum.Commands, &sum.Sessions, &sum.Hosts, &sum.Dangerous, &sum.Experiments)
	if err != nil {
		return sum, fmt.Errorf("summarize commands: %w", err)
	}
	return sum, nil
}
