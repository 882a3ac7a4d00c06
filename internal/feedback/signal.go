// Package feedback folds up/down/pin signals into user preferences.
package feedback

import (
	"encoding/json"
	"strings"

	"github.com/alexanderramin/midai/internal/domain"
)

type ItemType string

const (
	ItemTask  ItemType = "task"
	ItemEmail ItemType = "email"
	ItemDoc   ItemType = "doc"
)

type Action string

const (
	ActionUp    Action = "up"
	ActionDown  Action = "down"
	ActionPin   Action = "pin"
	ActionUnpin Action = "unpin"
)

// ParseItemType validates a wire item type.
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(strings.ToLower(strings.TrimSpace(s))); t {
	case ItemTask, ItemEmail, ItemDoc:
		return t, nil
	default:
		return "", domain.NewValidationError("itemType", "unknown item type %q", s)
	}
}

// ParseAction validates a wire action.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionUp, ActionDown, ActionPin, ActionUnpin:
		return a, nil
	default:
		return "", domain.NewValidationError("action", "unknown action %q", s)
	}
}

// IsPin reports whether the action targets the pinned-items record.
func (a Action) IsPin() bool {
	return a == ActionPin || a == ActionUnpin
}

// Signal is the item a feedback event refers to. The set of implementations is
// closed: TaskSignal, EmailSignal and DocSignal.
type Signal interface {
	Type() ItemType
	ID() string
	sealed()
}

type TaskSignal struct {
	TaskID    string   `json:"id"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags,omitempty"`
	CompanyID string   `json:"companyId,omitempty"`
}

func (TaskSignal) Type() ItemType { return ItemTask }
func (s TaskSignal) ID() string   { return s.TaskID }
func (TaskSignal) sealed()        {}

type EmailSignal struct {
	ThreadID string `json:"threadId"`
	// AliasID accepts clients that send "id" for every item type.
	AliasID  string `json:"id,omitempty"`
	Subject  string `json:"subject"`
	From     string `json:"from,omitempty"`
	LastFrom string `json:"lastFrom,omitempty"`
}

func (EmailSignal) Type() ItemType { return ItemEmail }
func (s EmailSignal) ID() string   { return s.ThreadID }
func (EmailSignal) sealed()        {}

// Sender returns the sender field that is set, preferring From.
func (s EmailSignal) Sender() string {
	return domain.CoalesceStr(s.From, s.LastFrom)
}

type DocSignal struct {
	DocID   string `json:"docId"`
	AliasID string `json:"id,omitempty"`
	Title   string `json:"title"`
	Kind    string `json:"type,omitempty"`
}

func (DocSignal) Type() ItemType { return ItemDoc }
func (s DocSignal) ID() string   { return s.DocID }
func (DocSignal) sealed()        {}

// DecodeSignal decodes the JSON item payload for the given item type.
func DecodeSignal(t ItemType, raw json.RawMessage) (Signal, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, domain.NewValidationError("item", "is required")
	}
	var (
		sig Signal
		err error
	)
	switch t {
	case ItemTask:
		var s TaskSignal
		err = json.Unmarshal(raw, &s)
		sig = s
	case ItemEmail:
		var s EmailSignal
		err = json.Unmarshal(raw, &s)
		s.ThreadID = domain.CoalesceStr(s.ThreadID, s.AliasID)
		sig = s
	case ItemDoc:
		var s DocSignal
		err = json.Unmarshal(raw, &s)
		s.DocID = domain.CoalesceStr(s.DocID, s.AliasID)
		sig = s
	default:
		return nil, domain.NewValidationError("itemType", "unknown item type %q", t)
	}
	if err != nil {
		return nil, domain.NewValidationError("item", "malformed %s item: %v", t, err)
	}
	return sig, nil
}
