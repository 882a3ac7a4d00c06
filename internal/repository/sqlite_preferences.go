package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/midai/internal/db"
	"github.com/alexanderramin/midai/internal/domain"
)

// SQLitePreferencesRepo stores one JSON preferences document per user.
type SQLitePreferencesRepo struct {
	db db.DBTX
}

func NewSQLitePreferencesRepo(conn db.DBTX) *SQLitePreferencesRepo {
	return &SQLitePreferencesRepo{db: conn}
}

func (r *SQLitePreferencesRepo) EnsureDefault(ctx context.Context, userID string) error {
	data, err := encodeJSON("preferences", domain.DefaultPreferences())
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO preferences (user_id, data, updated_at) VALUES (?, ?, ?)`,
		userID, data, nowUTC())
	if err != nil {
		return fmt.Errorf("seeding preferences: %w", err)
	}
	return nil
}

func (r *SQLitePreferencesRepo) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM preferences WHERE user_id = ?`, userID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("preferences for %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning preferences: %w", err)
	}

	var p domain.Preferences
	if err := decodeJSON("preferences", data, &p); err != nil {
		return nil, err
	}
	p = fillEmpty(p)
	return &p, nil
}

// fillEmpty replaces nil lists and maps so stored documents written by older
// versions read back like fresh ones.
func fillEmpty(p domain.Preferences) domain.Preferences {
	for _, list := range []*[]string{&p.KeywordsUp, &p.KeywordsDown, &p.EmailDomainsUp, &p.EmailDomainsDown} {
		if *list == nil {
			*list = []string{}
		}
	}
	for _, m := range []*map[string]int{&p.ParticipantsBoost, &p.CompaniesBoost, &p.DocTypesBoost} {
		if *m == nil {
			*m = map[string]int{}
		}
	}
	return p
}

func (r *SQLitePreferencesRepo) Upsert(ctx context.Context, userID string, p domain.Preferences) error {
	data, err := encodeJSON("preferences", p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO preferences (user_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, data, nowUTC())
	if err != nil {
		return fmt.Errorf("upserting preferences: %w", err)
	}
	return nil
}

func (r *SQLitePreferencesRepo) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("deleting preferences: %w", err)
	}
	return nil
}
