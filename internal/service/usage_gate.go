package service

import (
	"context"
	"fmt"

	"creative-tools-api/internal/domain"
	"creative-tools-api/internal/metrics"
)

type usageGate struct {
	subscriptions domain.SubscriptionService
	repo          domain.SubscriptionRepository
	locker        domain.Locker
	logger        domain.Logger
}

// NewUsageGate creates the quota gate. With a nil locker the check and the
// increment are independent round trips and concurrent calls may overshoot the
// limit; a Locker serializes them per user.
func NewUsageGate(subscriptions domain.SubscriptionService, repo domain.SubscriptionRepository, locker domain.Locker, logger domain.Logger) *usageGate {
	return &usageGate{
		subscriptions: subscriptions,
		repo:          repo,
		locker:        locker,
		logger:        logger,
	}
}

// Authorize checks the user's quota for tool and, if permitted, records one use.
func (g *usageGate) Authorize(ctx context.Context, userID string, tool domain.ToolID) error {
	if err := validateGateArgs(userID, tool); err != nil {
		return err
	}

	unlock, err := g.lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := g.check(ctx, userID, tool); err != nil {
		return err
	}
	return g.charge(ctx, userID, tool)
}

// Meter holds the user's lock while it checks the quota, runs fn and records
// one use only when fn succeeds. A failed charge is logged and not returned
// since the work has already been done.
func (g *usageGate) Meter(ctx context.Context, userID string, tool domain.ToolID, fn func(ctx context.Context) error) error {
	if err := validateGateArgs(userID, tool); err != nil {
		return err
	}

	unlock, err := g.lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := g.check(ctx, userID, tool); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		return err
	}
	if err := g.charge(ctx, userID, tool); err != nil {
		g.logger.Error("Failed to charge usage after generation", err, "user_id", userID, "tool", string(tool))
	}
	return nil
}

// Check verifies the quota without recording a use. It does not take the lock.
func (g *usageGate) Check(ctx context.Context, userID string, tool domain.ToolID) error {
	if err := validateGateArgs(userID, tool); err != nil {
		return err
	}
	return g.check(ctx, userID, tool)
}

// Charge records one use without checking the quota. It does not take the lock.
func (g *usageGate) Charge(ctx context.Context, userID string, tool domain.ToolID) error {
	if err := validateGateArgs(userID, tool); err != nil {
		return err
	}
	return g.charge(ctx, userID, tool)
}

func (g *usageGate) check(ctx context.Context, userID string, tool domain.ToolID) error {
	sub, err := g.subscriptions.GetEffectiveSubscription(ctx, userID)
	if err != nil {
		return err
	}
	if sub == nil {
		return domain.ErrSubscriptionNotFound
	}

	used := sub.UsageFor(tool)
	if sub.Limit.Exceeded(used) {
		metrics.QuotaDenials.WithLabelValues(string(tool), string(sub.Plan)).Inc()
		g.logger.Info("Usage limit reached", "user_id", userID, "tool", string(tool), "used", used, "limit", sub.Limit.String())
		return &domain.QuotaError{Tool: tool, Plan: sub.Plan, Used: used, Limit: sub.Limit}
	}
	return nil
}

func (g *usageGate) charge(ctx context.Context, userID string, tool domain.ToolID) error {
	if err := g.repo.IncrementUsage(ctx, userID, tool); err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	metrics.UsageCharged.WithLabelValues(string(tool)).Inc()
	g.logger.Debug("Usage recorded", "user_id", userID, "tool", string(tool))
	return nil
}

func (g *usageGate) lock(ctx context.Context, userID string) (func(), error) {
	if g.locker == nil {
		return func() {}, nil
	}
	unlock, err := g.locker.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire quota lock: %w", err)
	}
	return unlock, nil
}

func validateGateArgs(userID string, tool domain.ToolID) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if _, ok := domain.ParseToolID(string(tool)); !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownTool, tool)
	}
	return nil
}
