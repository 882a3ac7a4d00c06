package feedback

import (
	"strings"
	"time"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/relevance"
)

// Apply folds an up/down signal into prefs and returns the updated value. The
// input is never modified. Numeric boosts accumulate on every call; keyword and
// domain lists keep set semantics capped at domain.MaxKeywords.
func Apply(prefs domain.Preferences, sig Signal, action Action) (domain.Preferences, error) {
	if sig == nil {
		return prefs, domain.NewValidationError("item", "is required")
	}
	var delta int
	switch action {
	case ActionUp:
		delta = 1
	case ActionDown:
		delta = -1
	case ActionPin, ActionUnpin:
		return prefs, domain.NewValidationError("action", "%s applies to pinned items, not preferences", action)
	default:
		return prefs, domain.NewValidationError("action", "unknown action %q", action)
	}

	out := ensureMaps(prefs.Clone())
	switch s := sig.(type) {
	case TaskSignal:
		words := relevance.Tokenize(s.Title)
		for _, tag := range s.Tags {
			if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
				words = append(words, tag)
			}
		}
		addKeywords(&out, words, delta)
		if s.CompanyID != "" {
			out.CompaniesBoost[s.CompanyID] += delta
		}
	case EmailSignal:
		addr := relevance.ExtractAddress(s.Sender())
		if dom := relevance.DomainOf(addr); dom != "" {
			if delta > 0 {
				out.EmailDomainsUp = mergeKeywords(out.EmailDomainsUp, []string{dom}, domain.MaxKeywords)
			} else {
				out.EmailDomainsDown = mergeKeywords(out.EmailDomainsDown, []string{dom}, domain.MaxKeywords)
			}
		}
		addKeywords(&out, relevance.Tokenize(s.Subject), delta)
		if addr != "" {
			out.ParticipantsBoost[addr] += delta
		}
	case DocSignal:
		addKeywords(&out, relevance.Tokenize(s.Title), delta)
		if kind := strings.ToLower(strings.TrimSpace(s.Kind)); kind != "" {
			out.DocTypesBoost[kind] += delta
		}
	default:
		return prefs, domain.NewValidationError("itemType", "unsupported item %T", sig)
	}
	return out, nil
}

func addKeywords(p *domain.Preferences, words []string, delta int) {
	if len(words) == 0 {
		return
	}
	if delta > 0 {
		p.KeywordsUp = mergeKeywords(p.KeywordsUp, words, domain.MaxKeywords)
		return
	}
	p.KeywordsDown = mergeKeywords(p.KeywordsDown, words, domain.MaxKeywords)
}

func ensureMaps(p domain.Preferences) domain.Preferences {
	if p.ParticipantsBoost == nil {
		p.ParticipantsBoost = map[string]int{}
	}
	if p.CompaniesBoost == nil {
		p.CompaniesBoost = map[string]int{}
	}
	if p.DocTypesBoost == nil {
		p.DocTypesBoost = map[string]int{}
	}
	return p
}

// ApplyPin adds (pin) or removes (unpin) itemID from the per-type id set of
// the pinned-items record. Missing identifiers are a client error.
func ApplyPin(pins domain.PinnedItems, itemType ItemType, action Action, itemID string, now time.Time) (domain.PinnedItems, error) {
	if strings.TrimSpace(pins.MeetingID) == "" {
		return pins, domain.NewValidationError("meetingId", "is required for %s", action)
	}
	if strings.TrimSpace(itemID) == "" {
		return pins, domain.NewValidationError("item.id", "is required for %s", action)
	}
	if !action.IsPin() {
		return pins, domain.NewValidationError("action", "%s does not apply to pinned items", action)
	}

	out := pins
	var ids *[]string
	switch itemType {
	case ItemTask:
		out.TaskIDs = append([]string{}, pins.TaskIDs...)
		ids = &out.TaskIDs
	case ItemEmail:
		out.EmailIDs = append([]string{}, pins.EmailIDs...)
		ids = &out.EmailIDs
	case ItemDoc:
		out.DocIDs = append([]string{}, pins.DocIDs...)
		ids = &out.DocIDs
	default:
		return pins, domain.NewValidationError("itemType", "unknown item type %q", itemType)
	}

	if action == ActionPin {
		*ids = addID(*ids, itemID)
	} else {
		*ids = removeID(*ids, itemID)
	}
	out.UpdatedAt = now.UTC()
	return out, nil
}
