// Package storage persists the activity journal in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000Z"

// ActivityEntry is one journaled mutation.
type ActivityEntry struct {
	ID         int64
	Resource   string
	Operation  string
	ResourceID string
	Summary    string
	OccurredAt time.Time
	RecordedAt time.Time
	Mirrored   bool
}

type SQLiteRepository struct {
	db      *sql.DB
	now     func() time.Time
	version uint
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	version, err := migrateJournal(dsn)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db, now: time.Now, version: version}, nil
}

// SchemaVersion is the migration version the journal was opened at.
func (r *SQLiteRepository) SchemaVersion() uint {
	return r.version
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Record appends an entry and returns its id.
func (r *SQLiteRepository) Record(ctx context.Context, e ActivityEntry) (int64, error) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = r.now()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO activity (resource, operation, resource_id, summary, occurred_at, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Resource, e.Operation, e.ResourceID, e.Summary, formatTime(e.OccurredAt), formatTime(r.now()))
	if err != nil {
		return 0, fmt.Errorf("insert activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("activity id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]ActivityEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, resource, operation, resource_id, summary, occurred_at, recorded_at, mirrored_at
		 FROM activity ORDER BY occurred_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var (
			e                  ActivityEntry
			occurred, recorded string
			mirrored           sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Resource, &e.Operation, &e.ResourceID, &e.Summary,
			&occurred, &recorded, &mirrored); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		e.OccurredAt = parseTime(occurred)
		e.RecordedAt = parseTime(recorded)
		e.Mirrored = mirrored.Valid
		out = append(out, e)
	}
	return out, rows.Err()
}

// Unmirrored returns up to limit entries not yet copied to the
// spreadsheet, oldest first.
func (r *SQLiteRepository) Unmirrored(ctx context.Context, limit int) ([]ActivityEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, resource, operation, resource_id, summary, occurred_at, recorded_at
		 FROM activity WHERE mirrored_at IS NULL ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query unmirrored activity: %w", err)
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var (
			e                  ActivityEntry
			occurred, recorded string
		)
		if err := rows.Scan(&e.ID, &e.Resource, &e.Operation, &e.ResourceID, &e.Summary,
			&occurred, &recorded); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		e.OccurredAt = parseTime(occurred)
		e.RecordedAt = parseTime(recorded)
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkMirrored flags an entry as copied to the spreadsheet.
func (r *SQLiteRepository) MarkMirrored(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE activity SET mirrored_at = ? WHERE id = ?`, formatTime(r.now()), id)
	if err != nil {
		return fmt.Errorf("mark activity %d mirrored: %w", id, err)
	}
	return nil
}

// Prune deletes entries that occurred before cutoff.
func (r *SQLiteRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM activity WHERE occurred_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
