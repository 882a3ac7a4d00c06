package service

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/midai/internal/db"
	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/feedback"
	"github.com/alexanderramin/midai/internal/repository"
	"github.com/rs/zerolog"
)

const auditTimeout = 5 * time.Second

type feedbackService struct {
	uow      db.UnitOfWork
	audit    repository.FeedbackLogRepo
	log      zerolog.Logger
	observer UseCaseObserver
	now      func() time.Time
	pending  sync.WaitGroup
}

func NewFeedbackService(
	uow db.UnitOfWork,
	audit repository.FeedbackLogRepo,
	log zerolog.Logger,
	observers ...UseCaseObserver,
) FeedbackService {
	return &feedbackService{
		uow:      uow,
		audit:    audit,
		log:      log,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

// Submit folds one feedback event into the user's preferences, or pins, in a
// single transaction. The audit entry is written afterwards in the background;
// its failure is logged and never returned.
func (s *feedbackService) Submit(ctx context.Context, userID string, req FeedbackRequest) (result *FeedbackResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		FieldItemType: req.ItemType,
		FieldAction:   req.Action,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "submit-feedback",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err = requireUser(userID); err != nil {
		return nil, err
	}
	var itemType feedback.ItemType
	if itemType, err = feedback.ParseItemType(req.ItemType); err != nil {
		return nil, err
	}
	var action feedback.Action
	if action, err = feedback.ParseAction(req.Action); err != nil {
		return nil, err
	}
	var sig feedback.Signal
	if sig, err = feedback.DecodeSignal(itemType, req.Item); err != nil {
		return nil, err
	}

	result = &FeedbackResult{}
	if action.IsPin() {
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			pins, err := s.mergePins(ctx, repository.NewSQLitePinRepo(tx), userID, req.MeetingID, itemType, action, sig.ID())
			result.Pins = pins
			return err
		})
	} else {
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			prefs, err := s.mergePreferences(ctx, repository.NewSQLitePreferencesRepo(tx), userID, sig, action)
			result.Preferences = prefs
			return err
		})
	}
	if err != nil {
		return nil, err
	}

	s.appendAudit(ctx, &domain.FeedbackLogEntry{
		UserID:    userID,
		ItemType:  string(itemType),
		Action:    string(action),
		ItemID:    sig.ID(),
		MeetingID: req.MeetingID,
		Payload:   string(req.Item),
		CreatedAt: s.now().UTC(),
	})
	return result, nil
}

func (s *feedbackService) mergePreferences(ctx context.Context, repo repository.PreferencesRepo, userID string, sig feedback.Signal, action feedback.Action) (*domain.Preferences, error) {
	if err := repo.EnsureDefault(ctx, userID); err != nil {
		return nil, err
	}
	current, err := repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated, err := feedback.Apply(*current, sig, action)
	if err != nil {
		return nil, err
	}
	if err := repo.Upsert(ctx, userID, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *feedbackService) mergePins(ctx context.Context, repo repository.PinRepo, userID, meetingID string, itemType feedback.ItemType, action feedback.Action, itemID string) (*domain.PinnedItems, error) {
	if meetingID == "" {
		return nil, domain.NewValidationError("meetingId", "is required for %s", action)
	}
	if err := repo.EnsureEmpty(ctx, userID, meetingID); err != nil {
		return nil, err
	}
	current, err := repo.Get(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}
	updated, err := feedback.ApplyPin(*current, itemType, action, itemID, s.now())
	if err != nil {
		return nil, err
	}
	if err := repo.Upsert(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *feedbackService) appendAudit(ctx context.Context, entry *domain.FeedbackLogEntry) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
		defer cancel()
		if err := s.audit.Append(ctx, entry); err != nil {
			s.log.Warn().Err(err).
				Str("user_id", entry.UserID).
				Str(FieldItemType, entry.ItemType).
				Str(FieldAction, entry.Action).
				Msg("feedback audit append failed")
		}
	}()
}

func (s *feedbackService) History(ctx context.Context, userID string, limit int) ([]*domain.FeedbackLogEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.audit.ListByUser(ctx, userID, limit)
}

func (s *feedbackService) Close() error {
	s.pending.Wait()
	return nil
}
