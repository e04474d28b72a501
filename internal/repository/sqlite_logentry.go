package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/studenttracker/internal/db"
	"github.com/alexanderramin/studenttracker/internal/domain"
)

// SQLiteLogEntryRepo implements LogEntryRepo. There is no update or delete:
// entries are immutable once written.
type SQLiteLogEntryRepo struct {
	db db.DBTX
}

func NewSQLiteLogEntryRepo(db db.DBTX) *SQLiteLogEntryRepo {
	return &SQLiteLogEntryRepo{db: db}
}

const logEntryColumns = `id, user_id, timestamp, productivity, feedback, blockers`

func (r *SQLiteLogEntryRepo) Create(ctx context.Context, e *domain.LogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO log_entries (`+logEntryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, formatTime(e.Timestamp), string(e.Productivity), e.Feedback, e.Blockers)
	if err != nil {
		return fmt.Errorf("inserting log entry: %w", err)
	}
	return nil
}

func (r *SQLiteLogEntryRepo) GetByID(ctx context.Context, id string) (*domain.LogEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+logEntryColumns+` FROM log_entries WHERE id = ?`, id)

	var e domain.LogEntry
	var ts, productivity string
	if err := row.Scan(&e.ID, &e.UserID, &ts, &productivity, &e.Feedback, &e.Blockers); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("log entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning log entry: %w", err)
	}
	return populateLogEntry(&e, ts, productivity)
}

func (r *SQLiteLogEntryRepo) ListByUser(ctx context.Context, userID string) ([]domain.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+logEntryColumns+` FROM log_entries WHERE user_id = ? ORDER BY timestamp DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing log entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.LogEntry{}
	for rows.Next() {
		var e domain.LogEntry
		var ts, productivity string
		if err := rows.Scan(&e.ID, &e.UserID, &ts, &productivity, &e.Feedback, &e.Blockers); err != nil {
			return nil, fmt.Errorf("scanning log entry row: %w", err)
		}
		if _, err := populateLogEntry(&e, ts, productivity); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log entries: %w", err)
	}
	return entries, nil
}

func populateLogEntry(e *domain.LogEntry, ts, productivity string) (*domain.LogEntry, error) {
	var err error
	if e.Timestamp, err = parseTime(ts, "timestamp"); err != nil {
		return nil, err
	}
	e.Productivity = domain.Productivity(productivity)
	return e, nil
}
