package handler

import (
	"crypto/subtle"
	"net/http"

	"creative-tools-api/internal/domain"

	"github.com/gorilla/mux"
)

// AdminHandler exposes admin-only endpoints protected by X-Admin-Secret.
// These endpoints are intended for support tooling and should not be exposed publicly without additional safeguards.
type AdminHandler struct {
	subscriptions domain.SubscriptionService
	secret        string
	logger        domain.Logger
}

// NewAdminHandler creates the admin endpoints. An empty secret disables them.
func NewAdminHandler(subscriptions domain.SubscriptionService, secret string, logger domain.Logger) *AdminHandler {
	return &AdminHandler{
		subscriptions: subscriptions,
		secret:        secret,
		logger:        logger,
	}
}

func (h *AdminHandler) authorized(r *http.Request) bool {
	got := r.Header.Get("X-Admin-Secret")
	if h.secret == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}

type setPlanRequest struct {
	Plan        string `json:"plan"`
	Status      string `json:"status"`
	RenewalDate *int64 `json:"renewal_date"`
}

// SetPlan changes a user's plan.
//
// Auth: requires `X-Admin-Secret` header matching env `ADMIN_API_SECRET`.
func (h *AdminHandler) SetPlan(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID := mux.Vars(r)["id"]
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User id is required")
		return
	}

	var req setPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	var renewal *domain.Timestamp
	if req.RenewalDate != nil {
		ts, err := domain.ParseTimestamp(*req.RenewalDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid renewal_date")
			return
		}
		renewal = ts
	}

	sub, err := h.subscriptions.SetPlan(r.Context(), userID, domain.Plan(req.Plan), req.Status, renewal)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	h.logger.Info("Admin changed plan", "user_id", userID, "plan", string(sub.Plan))
	writeJSON(w, http.StatusOK, newSubscriptionView(sub))
}

// ResetUsage clears a user's counters.
func (h *AdminHandler) ResetUsage(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID := mux.Vars(r)["id"]
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User id is required")
		return
	}

	sub, err := h.subscriptions.ResetUsage(r.Context(), userID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	h.logger.Info("Admin reset usage", "user_id", userID)
	writeJSON(w, http.StatusOK, newSubscriptionView(sub))
}
