package service

import (
	"context"
	"fmt"
	"time"

	"creative-tools-api/internal/domain"
	"creative-tools-api/internal/metrics"
)

type subscriptionService struct {
	repo   domain.SubscriptionRepository
	logger domain.Logger
	now    func() time.Time
}

// NewSubscriptionService creates the lifecycle manager. now may be nil to use the wall clock.
func NewSubscriptionService(repo domain.SubscriptionRepository, logger domain.Logger, now func() time.Time) *subscriptionService {
	if now == nil {
		now = time.Now
	}
	return &subscriptionService{
		repo:   repo,
		logger: logger,
		now:    now,
	}
}

// GetEffectiveSubscription returns the user's subscription as it applies right
// now: created on first sight, limit derived from the plan, and free usage
// cleared once the 7-day window has passed.
func (s *subscriptionService) GetEffectiveSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	now := s.now()

	sub, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	if sub == nil {
		sub = &domain.Subscription{
			UserID:    userID,
			Plan:      domain.PlanFree,
			Usage:     map[domain.ToolID]int{},
			Limit:     domain.PlanLimit(domain.PlanFree),
			Status:    domain.StatusTrialing,
			LastReset: domain.NewTimestamp(now),
		}
		if err := s.repo.Create(ctx, sub); err != nil {
			return nil, fmt.Errorf("failed to create subscription: %w", err)
		}
		metrics.SubscriptionsCreated.Inc()
		s.logger.Info("Created default subscription", "user_id", userID)
		return sub, nil
	}

	sub.Plan = effectivePlan(sub.Plan)
	sub.Limit = domain.PlanLimit(sub.Plan)
	if sub.Usage == nil {
		sub.Usage = map[domain.ToolID]int{}
	}

	if sub.Plan.IsFree() && freeWindowElapsed(sub.LastReset, now) {
		if err := s.repo.ResetUsage(ctx, userID, now); err != nil {
			return nil, fmt.Errorf("failed to reset free usage: %w", err)
		}
		sub.Usage = map[domain.ToolID]int{}
		sub.LastReset = domain.NewTimestamp(now)
		metrics.FreeTierResets.Inc()
		s.logger.Info("Reset free tier usage", "user_id", userID)
	}

	return sub, nil
}

// SetPlan moves a user to another plan. Usage counters are kept.
func (s *subscriptionService) SetPlan(ctx context.Context, userID string, plan domain.Plan, status string, renewal *domain.Timestamp) (*domain.Subscription, error) {
	canonical, ok := domain.ParsePlan(string(plan))
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPlan, plan)
	}
	if status == "" {
		status = domain.StatusActive
	}

	if _, err := s.GetEffectiveSubscription(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePlan(ctx, userID, canonical, status, renewal); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	s.logger.Info("Subscription plan changed", "user_id", userID, "plan", string(canonical), "status", status)

	return s.GetEffectiveSubscription(ctx, userID)
}

// ResetUsage clears all counters regardless of plan.
func (s *subscriptionService) ResetUsage(ctx context.Context, userID string) (*domain.Subscription, error) {
	if _, err := s.GetEffectiveSubscription(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.ResetUsage(ctx, userID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to reset usage: %w", err)
	}
	s.logger.Info("Usage reset", "user_id", userID)

	return s.GetEffectiveSubscription(ctx, userID)
}

// effectivePlan canonicalizes known plan names, maps a missing plan to Free
// and keeps unknown names as stored.
func effectivePlan(stored domain.Plan) domain.Plan {
	if stored == "" {
		return domain.PlanFree
	}
	if p, ok := domain.ParsePlan(string(stored)); ok {
		return p
	}
	return stored
}

// freeWindowElapsed is true when strictly more than 7 days have passed since lastReset.
func freeWindowElapsed(lastReset *domain.Timestamp, now time.Time) bool {
	if lastReset == nil {
		return true
	}
	return now.UnixMilli()-lastReset.Millis() > domain.FreeResetWindowMillis
}
