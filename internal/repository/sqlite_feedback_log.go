package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/midai/internal/db"
	"github.com/alexanderramin/midai/internal/domain"
	"github.com/google/uuid"
)

type SQLiteFeedbackLogRepo struct {
	db db.DBTX
}

func NewSQLiteFeedbackLogRepo(conn db.DBTX) *SQLiteFeedbackLogRepo {
	return &SQLiteFeedbackLogRepo{db: conn}
}

// Append inserts e, assigning an ID and timestamp when missing.
func (r *SQLiteFeedbackLogRepo) Append(ctx context.Context, e *domain.FeedbackLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback_log (id, user_id, item_type, action, item_id, meeting_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.ItemType, e.Action, e.ItemID, e.MeetingID, e.Payload,
		e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("appending feedback log: %w", err)
	}
	return nil
}

// ListByUser returns up to limit entries, newest first.
func (r *SQLiteFeedbackLogRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.FeedbackLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, item_type, action, item_id, meeting_id, payload, created_at
		FROM feedback_log WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing feedback log: %w", err)
	}
	defer rows.Close()

	var out []*domain.FeedbackLogEntry
	for rows.Next() {
		var e domain.FeedbackLogEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.ItemType, &e.Action, &e.ItemID, &e.MeetingID, &e.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning feedback log: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, &e)
	}
	return out, rows.Err()
}
