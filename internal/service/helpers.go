package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/repository"
)

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.NewValidationError("userId", "is required")
	}
	return nil
}

// loadPreferences returns the user's preferences, nil when there is no user
// or no stored record.
func loadPreferences(ctx context.Context, repo repository.PreferencesRepo, userID string) (*domain.Preferences, error) {
	if userID == "" {
		return nil, nil
	}
	p, err := repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	return p, nil
}

// warningCodes extracts the code prefix of each "code: message" warning.
func warningCodes(warnings []string) []string {
	codes := make([]string, 0, len(warnings))
	for _, w := range warnings {
		code, _, _ := strings.Cut(w, ":")
		codes = append(codes, strings.TrimSpace(code))
	}
	return codes
}
