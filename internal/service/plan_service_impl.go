package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/prep"
	"github.com/alexanderramin/midai/internal/relevance"
	"github.com/alexanderramin/midai/internal/repository"
	"github.com/alexanderramin/midai/internal/scheduler"
)

type planService struct {
	prefs    repository.PreferencesRepo
	plans    repository.PlanRepo
	observer UseCaseObserver
	now      func() time.Time
}

func NewPlanService(
	prefs repository.PreferencesRepo,
	plans repository.PlanRepo,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		prefs:    prefs,
		plans:    plans,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

// GeneratePlan filters the pack by the user's preferences, builds the day and
// appends the day insights to the summary notes. userID may be empty for an
// anonymous plan, which cannot be persisted.
func (s *planService) GeneratePlan(ctx context.Context, userID string, pack *domain.ContextPack, opts PlanOptions) (resp *domain.DailyPlanResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"persist": opts.Persist}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generate-plan",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if pack == nil {
		return nil, domain.NewValidationError("context", "is required")
	}
	if opts.Persist {
		if err = requireUser(userID); err != nil {
			return nil, err
		}
	}

	var prefs *domain.Preferences
	prefs, err = loadPreferences(ctx, s.prefs, userID)
	if err != nil {
		return nil, err
	}

	in := relevance.FilterForPlan(*pack, prefs)
	resp, err = scheduler.BuildPlan(in.Pack, scheduler.Options{Related: in.Related, Relevance: in.Relevance})
	if err != nil {
		return nil, err
	}

	if insights := prep.Insights(in.Pack); len(insights) > 0 {
		notes := append([]string{}, insights...)
		if resp.Summary.Notes != "" {
			notes = append([]string{resp.Summary.Notes}, notes...)
		}
		resp.Summary.Notes = strings.Join(notes, " ")
	}

	fields[FieldWarningCodes] = warningCodes(resp.Warnings)
	fields["block_count"] = len(resp.Blocks)
	fields["followup_count"] = len(resp.FollowUps)

	if opts.Persist {
		err = s.plans.Save(ctx, &domain.StoredPlan{
			UserID:    userID,
			Date:      resp.Date,
			Plan:      *resp,
			CreatedAt: s.now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("persisting plan: %w", err)
		}
	}
	return resp, nil
}

func (s *planService) GetPlan(ctx context.Context, userID, date string) (*domain.StoredPlan, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, domain.NewValidationError("date", "expected YYYY-MM-DD, got %q", date)
	}
	return s.plans.Get(ctx, userID, date)
}

func (s *planService) ListPlans(ctx context.Context, userID string, limit int) ([]repository.PlanSummary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.plans.ListRecent(ctx, userID, limit)
}
