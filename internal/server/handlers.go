package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/service"
	"github.com/go-chi/chi/v5"
)

type planRequest struct {
	UserID  string              `json:"userId,omitempty"`
	Context *domain.ContextPack `json:"context"`
	Persist bool                `json:"persist,omitempty"`
}

type prepRequest struct {
	UserID  string               `json:"userId,omitempty"`
	Event   *domain.ContextEvent `json:"event"`
	Context *domain.ContextPack  `json:"context"`
}

type feedbackRequest struct {
	UserID    string          `json:"userId,omitempty"`
	ItemType  string          `json:"itemType"`
	Action    string          `json:"action"`
	MeetingID string          `json:"meetingId,omitempty"`
	Item      json.RawMessage `json:"item"`
}

func (a *api) generatePlan(w http.ResponseWriter, r *http.Request) {
	var in planRequest
	if err := decode(r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	resp, err := a.cfg.Plans.GeneratePlan(r.Context(), userID(r, in.UserID), in.Context, service.PlanOptions{Persist: in.Persist})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *api) getPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := a.cfg.Plans.GetPlan(r.Context(), userID(r, ""), chi.URLParam(r, "date"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (a *api) listPlans(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	plans, err := a.cfg.Plans.ListPlans(r.Context(), userID(r, ""), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (a *api) generatePrep(w http.ResponseWriter, r *http.Request) {
	var in prepRequest
	if err := decode(r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.cfg.Preps.GeneratePrep(r.Context(), userID(r, in.UserID), in.Event, in.Context)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var in feedbackRequest
	if err := decode(r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	res, err := a.cfg.Feedback.Submit(r.Context(), userID(r, in.UserID), service.FeedbackRequest{
		ItemType:  in.ItemType,
		Action:    in.Action,
		MeetingID: in.MeetingID,
		Item:      in.Item,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *api) feedbackHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	entries, err := a.cfg.Feedback.History(r.Context(), userID(r, ""), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (a *api) getPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := a.cfg.Preferences.Get(r.Context(), userID(r, ""))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) resetPreferences(w http.ResponseWriter, r *http.Request) {
	if err := a.cfg.Preferences.Reset(r.Context(), userID(r, "")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryLimit parses ?limit=, 0 when absent.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError("limit", "must be a non-negative integer, got %q", raw)
	}
	return n, nil
}
