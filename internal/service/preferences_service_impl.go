package service

import (
	"context"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/repository"
)

type preferencesService struct {
	prefs    repository.PreferencesRepo
	observer UseCaseObserver
}

func NewPreferencesService(prefs repository.PreferencesRepo, observers ...UseCaseObserver) PreferencesService {
	return &preferencesService{prefs: prefs, observer: useCaseObserverOrNoop(observers)}
}

func (s *preferencesService) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	p, err := loadPreferences(ctx, s.prefs, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		d := domain.DefaultPreferences()
		return &d, nil
	}
	return p, nil
}

// Reset deletes the stored preferences; the next Get returns the defaults.
// Pinned items are kept.
func (s *preferencesService) Reset(ctx context.Context, userID string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "reset-preferences",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
		})
	}()

	if err = requireUser(userID); err != nil {
		return err
	}
	return s.prefs.Delete(ctx, userID)
}
