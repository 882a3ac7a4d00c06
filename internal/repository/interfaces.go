package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
)

// PlanSummary is the listing view of a stored plan.
type PlanSummary struct {
	Date         string    `json:"date"`
	BlockCount   int       `json:"blockCount"`
	WarningCount int       `json:"warningCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PreferencesRepo interface {
	// EnsureDefault inserts the default record when userID has none. Called
	// first in a transaction it also claims the write lock.
	EnsureDefault(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (*domain.Preferences, error)
	Upsert(ctx context.Context, userID string, p domain.Preferences) error
	Delete(ctx context.Context, userID string) error
}

type PinRepo interface {
	EnsureEmpty(ctx context.Context, userID, meetingID string) error
	Get(ctx context.Context, userID, meetingID string) (*domain.PinnedItems, error)
	Upsert(ctx context.Context, pins *domain.PinnedItems) error
	DeleteByUser(ctx context.Context, userID string) error
}

type PlanRepo interface {
	Save(ctx context.Context, p *domain.StoredPlan) error
	Get(ctx context.Context, userID, date string) (*domain.StoredPlan, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]PlanSummary, error)
}

// FeedbackLogRepo is append-only.
type FeedbackLogRepo interface {
	Append(ctx context.Context, e *domain.FeedbackLogEntry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.FeedbackLogEntry, error)
}
