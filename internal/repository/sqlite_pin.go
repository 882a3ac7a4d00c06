package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/midai/internal/db"
	"github.com/alexanderramin/midai/internal/domain"
)

type SQLitePinRepo struct {
	db db.DBTX
}

func NewSQLitePinRepo(conn db.DBTX) *SQLitePinRepo {
	return &SQLitePinRepo{db: conn}
}

func (r *SQLitePinRepo) EnsureEmpty(ctx context.Context, userID, meetingID string) error {
	data, err := encodeJSON("pins", domain.NewPinnedItems(userID, meetingID))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO pinned_items (user_id, meeting_id, data, updated_at) VALUES (?, ?, ?, ?)`,
		userID, meetingID, data, nowUTC())
	if err != nil {
		return fmt.Errorf("seeding pins: %w", err)
	}
	return nil
}

func (r *SQLitePinRepo) Get(ctx context.Context, userID, meetingID string) (*domain.PinnedItems, error) {
	var data, updatedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT data, updated_at FROM pinned_items WHERE user_id = ? AND meeting_id = ?`,
		userID, meetingID).Scan(&data, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pins for %s/%s: %w", userID, meetingID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning pins: %w", err)
	}

	pins := domain.NewPinnedItems(userID, meetingID)
	if err := decodeJSON("pins", data, &pins); err != nil {
		return nil, err
	}
	pins.UserID, pins.MeetingID = userID, meetingID
	pins.UpdatedAt = parseTime(updatedAt)
	return &pins, nil
}

func (r *SQLitePinRepo) Upsert(ctx context.Context, pins *domain.PinnedItems) error {
	data, err := encodeJSON("pins", pins)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO pinned_items (user_id, meeting_id, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, meeting_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		pins.UserID, pins.MeetingID, data, timeOrNow(pins.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting pins: %w", err)
	}
	return nil
}

func (r *SQLitePinRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pinned_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("deleting pins: %w", err)
	}
	return nil
}
