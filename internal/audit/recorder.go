// Package audit records back-office actions. Recording is best effort:
// a failed insert is logged and never fails the request that caused it.
package audit

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	TableName string    `json:"table_name"`
	RecordID  string    `json:"record_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Recorder struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRecorder(db *sql.DB, logger *slog.Logger) *Recorder {
	return &Recorder{
		db:     db,
		logger: logger,
	}
}

// Record writes one audit row for an action taken by actor on a record.
func (r *Recorder) Record(ctx context.Context, actor, action, tableName, recordID string) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_audit (id, actor, action, table_name, record_id, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NOW())
	`, uuid.New().String(), actor, action, tableName, recordID)
	if err != nil {
		r.logger.Error("failed to record audit entry",
			"error", err, "actor", actor, "action", action, "table", tableName)
	}
}

// ListRecent returns the newest entries, newest first.
func (r *Recorder) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor, action, table_name, COALESCE(record_id, ''), created_at
		FROM admin_audit
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.TableName, &e.RecordID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
