package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/midai/internal/db"
	"github.com/alexanderramin/midai/internal/domain"
)

// SQLitePlanRepo keeps the latest generated plan per user and date.
type SQLitePlanRepo struct {
	db db.DBTX
}

func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

// Save replaces any plan already stored for the same user and date.
func (r *SQLitePlanRepo) Save(ctx context.Context, p *domain.StoredPlan) error {
	data, err := encodeJSON("plan", p.Plan)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO plans (user_id, date, data, created_at, block_count, warning_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Date, data, timeOrNow(p.CreatedAt), len(p.Plan.Blocks), len(p.Plan.Warnings))
	if err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) Get(ctx context.Context, userID, date string) (*domain.StoredPlan, error) {
	var data, createdAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT data, created_at FROM plans WHERE user_id = ? AND date = ?`,
		userID, date).Scan(&data, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan %s for %s: %w", date, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	sp := &domain.StoredPlan{UserID: userID, Date: date, CreatedAt: parseTime(createdAt)}
	if err := decodeJSON("plan", data, &sp.Plan); err != nil {
		return nil, err
	}
	return sp, nil
}

// ListRecent returns up to limit plans for userID, newest date first.
func (r *SQLitePlanRepo) ListRecent(ctx context.Context, userID string, limit int) ([]PlanSummary, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, block_count, warning_count, created_at FROM plans
		WHERE user_id = ? ORDER BY date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	out := []PlanSummary{}
	for rows.Next() {
		var s PlanSummary
		var createdAt string
		if err := rows.Scan(&s.Date, &s.BlockCount, &s.WarningCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning plan summary: %w", err)
		}
		s.CreatedAt = parseTime(createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}
