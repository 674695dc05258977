package repository

import (
	"context"
	"fmt"
	"time"

	"creative-tools-api/internal/domain"
)

// SubscriptionsCollection holds one document per user, keyed by user ID.
const SubscriptionsCollection = "subscriptions"

const (
	fieldPlan        = "plan"
	fieldUsage       = "usage"
	fieldLimit       = "limit"
	fieldStatus      = "status"
	fieldRenewalDate = "renewal_date"
	fieldLastReset   = "last_reset"
	fieldPriceID     = "price_id"
	fieldMethod      = "subscription_method"
)

// SubscriptionRepository implements domain.SubscriptionRepository over a document store
type SubscriptionRepository struct {
	store  domain.DocumentStore
	logger domain.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(store domain.DocumentStore, logger domain.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{
		store:  store,
		logger: logger,
	}
}

// Get returns the stored subscription or nil when the user has none. Plan is
// returned as stored and Limit is left for the caller to derive.
func (r *SubscriptionRepository) Get(ctx context.Context, userID string) (*domain.Subscription, error) {
	doc, err := r.store.Get(ctx, SubscriptionsCollection, userID)
	if err != nil {
		return nil, domain.StoreError("get subscription", err)
	}
	if doc == nil {
		return nil, nil
	}
	return r.fromDocument(userID, doc), nil
}

// Create writes a full subscription record, replacing anything stored.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	if err := r.store.Set(ctx, SubscriptionsCollection, sub.UserID, toDocument(sub), domain.SetOptions{}); err != nil {
		return domain.StoreError("create subscription", err)
	}
	return nil
}

// ResetUsage clears all counters and stamps the reset time.
func (r *SubscriptionRepository) ResetUsage(ctx context.Context, userID string, at time.Time) error {
	doc := domain.Document{
		fieldUsage:     map[string]interface{}{},
		fieldLastReset: domain.NewTimestamp(at).Millis(),
	}
	if err := r.store.Set(ctx, SubscriptionsCollection, userID, doc, domain.SetOptions{Merge: true}); err != nil {
		return domain.StoreError("reset usage", err)
	}
	return nil
}

// UpdatePlan changes plan, status and renewal date, leaving usage untouched.
func (r *SubscriptionRepository) UpdatePlan(ctx context.Context, userID string, plan domain.Plan, status string, renewal *domain.Timestamp) error {
	doc := domain.Document{
		fieldPlan:        string(plan),
		fieldLimit:       domain.PlanLimit(plan).Value(),
		fieldStatus:      status,
		fieldRenewalDate: timestampValue(renewal),
	}
	if err := r.store.Set(ctx, SubscriptionsCollection, userID, doc, domain.SetOptions{Merge: true}); err != nil {
		return domain.StoreError("update plan", err)
	}
	return nil
}

// IncrementUsage atomically adds one call to the tool's counter.
func (r *SubscriptionRepository) IncrementUsage(ctx context.Context, userID string, tool domain.ToolID) error {
	if err := r.store.Increment(ctx, SubscriptionsCollection, userID, fieldUsage+"."+string(tool), 1); err != nil {
		return domain.StoreError("increment usage", err)
	}
	return nil
}

func toDocument(sub *domain.Subscription) domain.Document {
	usage := make(map[string]interface{}, len(sub.Usage))
	for tool, n := range sub.Usage {
		usage[string(tool)] = n
	}

	doc := domain.Document{
		fieldPlan:        string(sub.Plan),
		fieldUsage:       usage,
		fieldLimit:       sub.Limit.Value(),
		fieldStatus:      sub.Status,
		fieldRenewalDate: timestampValue(sub.RenewalDate),
		fieldLastReset:   timestampValue(sub.LastReset),
		fieldPriceID:     optionalString(sub.PriceID),
		fieldMethod:      optionalString(sub.Method),
	}
	return doc
}

func optionalString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func (r *SubscriptionRepository) fromDocument(userID string, doc domain.Document) *domain.Subscription {
	sub := &domain.Subscription{
		UserID:  userID,
		Plan:    domain.Plan(stringField(doc, fieldPlan)),
		Usage:   make(map[domain.ToolID]int),
		Status:  stringField(doc, fieldStatus),
		PriceID: stringField(doc, fieldPriceID),
		Method:  stringField(doc, fieldMethod),
	}

	if usage, ok := doc[fieldUsage].(map[string]interface{}); ok {
		for k, v := range usage {
			if n, ok := toInt(v); ok {
				sub.Usage[domain.ToolID(k)] = n
			}
		}
	}

	sub.RenewalDate = r.timestampField(userID, doc, fieldRenewalDate)
	sub.LastReset = r.timestampField(userID, doc, fieldLastReset)
	return sub
}

// timestampField treats unreadable timestamps as absent.
func (r *SubscriptionRepository) timestampField(userID string, doc domain.Document, key string) *domain.Timestamp {
	ts, err := domain.ParseTimestamp(doc[key])
	if err != nil {
		r.logger.Warn("Ignoring unreadable timestamp", "user_id", userID, "field", key, "error", err.Error())
		return nil
	}
	return ts
}

func timestampValue(ts *domain.Timestamp) interface{} {
	if ts == nil {
		return nil
	}
	return ts.Millis()
}

func stringField(doc domain.Document, key string) string {
	switch v := doc[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
