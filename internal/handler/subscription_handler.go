package handler

import (
	"net/http"

	"creative-tools-api/internal/domain"
)

type SubscriptionHandler struct {
	subscriptions domain.SubscriptionService
	logger        domain.Logger
}

func NewSubscriptionHandler(subscriptions domain.SubscriptionService, logger domain.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// subscriptionView is the client representation of a subscription.
type subscriptionView struct {
	*domain.Subscription
	Remaining map[domain.ToolID]int `json:"remaining"`
}

func newSubscriptionView(sub *domain.Subscription) subscriptionView {
	remaining := make(map[domain.ToolID]int, len(domain.AllTools))
	for _, tool := range domain.AllTools {
		remaining[tool] = sub.RemainingFor(tool)
	}
	return subscriptionView{Subscription: sub, Remaining: remaining}
}

// Get returns the caller's effective subscription. Remaining is -1 for unlimited plans.
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sub, err := h.subscriptions.GetEffectiveSubscription(r.Context(), userID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubscriptionView(sub))
}
