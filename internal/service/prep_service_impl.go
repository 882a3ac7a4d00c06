package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/prep"
	"github.com/alexanderramin/midai/internal/relevance"
	"github.com/alexanderramin/midai/internal/repository"
)

const (
	prepSourceModel     = "model"
	prepSourceHeuristic = "heuristic"
)

type prepService struct {
	prefs    repository.PreferencesRepo
	pins     repository.PinRepo
	prep     *prep.Service
	observer UseCaseObserver
}

func NewPrepService(
	prefs repository.PreferencesRepo,
	pins repository.PinRepo,
	generator *prep.Service,
	observers ...UseCaseObserver,
) PrepService {
	return &prepService{
		prefs:    prefs,
		pins:     pins,
		prep:     generator,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *prepService) GeneratePrep(ctx context.Context, userID string, event *domain.ContextEvent, pack *domain.ContextPack) (p *domain.MeetingPrep, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generate-prep",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if event == nil {
		return nil, domain.NewValidationError("event", "is required")
	}
	if pack == nil {
		return nil, domain.NewValidationError("context", "is required")
	}
	fields["meeting_id"] = event.ID

	var stored *domain.Preferences
	stored, err = loadPreferences(ctx, s.prefs, userID)
	if err != nil {
		return nil, err
	}
	prefs := domain.DefaultPreferences()
	if stored != nil {
		prefs = *stored
	}

	filtered := relevance.FilterForMeeting(*event, *pack, &prefs)

	if userID != "" && event.ID != "" {
		var pins *domain.PinnedItems
		pins, err = s.pins.Get(ctx, userID, event.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			err = nil
		case err != nil:
			return nil, fmt.Errorf("loading pins: %w", err)
		default:
			filtered = mergePinned(filtered, pack.Normalize(), *pins)
			fields["pinned"] = len(pins.TaskIDs) + len(pins.EmailIDs) + len(pins.DocIDs)
		}
	}

	p, err = s.prep.GeneratePrep(ctx, event, &filtered)
	if err != nil {
		return nil, err
	}

	fields[FieldPrepSource] = prepSourceModel
	if reason := prep.FallbackReason(p); reason != "" {
		fields[FieldPrepSource] = prepSourceHeuristic
		fields[FieldFallback] = reason
	}
	return p, nil
}

// mergePinned puts the pinned items found in full ahead of the ranked ones in
// filtered, without duplicates. Pins naming items absent from the pack are
// ignored.
func mergePinned(filtered, full domain.ContextPack, pins domain.PinnedItems) domain.ContextPack {
	out := filtered
	out.Tasks = pinFirst(filtered.Tasks, full.Tasks, pins.TaskIDs, func(t domain.ContextTask) string { return t.ID })
	out.EmailThreads = pinFirst(filtered.EmailThreads, full.EmailThreads, pins.EmailIDs, func(th domain.ContextEmailThread) string { return th.ThreadID })
	out.Docs = pinFirst(filtered.Docs, full.Docs, pins.DocIDs, func(d domain.ContextDocSummary) string { return d.DocID })
	return out
}

func pinFirst[T any](ranked, all []T, pinned []string, key func(T) string) []T {
	if len(pinned) == 0 {
		return ranked
	}
	byID := make(map[string]T, len(all))
	for _, item := range all {
		byID[key(item)] = item
	}

	out := make([]T, 0, len(ranked)+len(pinned))
	seen := make(map[string]bool, len(pinned))
	for _, id := range pinned {
		item, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, item)
	}
	for _, item := range ranked {
		if !seen[key(item)] {
			out = append(out, item)
		}
	}
	return out
}
