package service

import (
	"context"
	"encoding/json"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/repository"
)

// PlanOptions controls GeneratePlan side effects.
type PlanOptions struct {
	// Persist stores the plan for the user and date, replacing any earlier one.
	Persist bool
}

type PlanService interface {
	GeneratePlan(ctx context.Context, userID string, pack *domain.ContextPack, opts PlanOptions) (*domain.DailyPlanResponse, error)
	GetPlan(ctx context.Context, userID, date string) (*domain.StoredPlan, error)
	ListPlans(ctx context.Context, userID string, limit int) ([]repository.PlanSummary, error)
}

type PrepService interface {
	GeneratePrep(ctx context.Context, userID string, event *domain.ContextEvent, pack *domain.ContextPack) (*domain.MeetingPrep, error)
}

// FeedbackRequest is one up/down/pin/unpin event on a task, thread or doc.
type FeedbackRequest struct {
	ItemType  string          `json:"itemType"`
	Action    string          `json:"action"`
	MeetingID string          `json:"meetingId,omitempty"`
	Item      json.RawMessage `json:"item"`
}

// FeedbackResult carries whichever record the request changed.
type FeedbackResult struct {
	Preferences *domain.Preferences `json:"preferences,omitempty"`
	Pins        *domain.PinnedItems `json:"pins,omitempty"`
}

type FeedbackService interface {
	Submit(ctx context.Context, userID string, req FeedbackRequest) (*FeedbackResult, error)
	History(ctx context.Context, userID string, limit int) ([]*domain.FeedbackLogEntry, error)
	// Close waits for pending audit writes.
	Close() error
}

type PreferencesService interface {
	// Get returns the stored preferences, or the defaults when none exist.
	Get(ctx context.Context, userID string) (*domain.Preferences, error)
	Reset(ctx context.Context, userID string) error
}
