package domain

import (
	"context"
	"time"
)

// Document is a schemaless record as held by the document store.
type Document map[string]interface{}

// SetOptions controls how Set writes a document.
type SetOptions struct {
	// Merge keeps fields not present in the written document.
	Merge bool
}

// DocumentStore is the hosted document database contract. No multi-document
// transactions are offered.
type DocumentStore interface {
	// Get returns nil, nil when the document does not exist.
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, doc Document, opts SetOptions) error
	// Increment atomically adds delta to the numeric field at fieldPath
	// ("usage.text-to-image"), creating it at zero when absent.
	Increment(ctx context.Context, collection, id, fieldPath string, delta int) error
}

// SubscriptionRepository is the typed quota store accessor.
type SubscriptionRepository interface {
	Get(ctx context.Context, userID string) (*Subscription, error)
	Create(ctx context.Context, sub *Subscription) error
	ResetUsage(ctx context.Context, userID string, at time.Time) error
	UpdatePlan(ctx context.Context, userID string, plan Plan, status string, renewal *Timestamp) error
	IncrementUsage(ctx context.Context, userID string, tool ToolID) error
}

// SubscriptionService computes the effective subscription for a user.
type SubscriptionService interface {
	GetEffectiveSubscription(ctx context.Context, userID string) (*Subscription, error)
	SetPlan(ctx context.Context, userID string, plan Plan, status string, renewal *Timestamp) (*Subscription, error)
	ResetUsage(ctx context.Context, userID string) (*Subscription, error)
}

// UsageGate guards metered operations.
type UsageGate interface {
	// Authorize checks the quota and, when permitted, records one use.
	Authorize(ctx context.Context, userID string, tool ToolID) error
	// Meter checks the quota, runs fn and records one use if fn succeeds,
	// all under the user's lock.
	Meter(ctx context.Context, userID string, tool ToolID, fn func(ctx context.Context) error) error
	// Check verifies the quota without recording a use.
	Check(ctx context.Context, userID string, tool ToolID) error
	// Charge records one use without checking.
	Charge(ctx context.Context, userID string, tool ToolID) error
}

// Locker serializes quota checks per user when stronger guarantees are configured.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSupabaseServiceRoleKey() string
	GetJWTSecret() string
	GetGCPProjectID() string
	GetGCPLocation() string
	GetTextModel() string
	GetImageModel() string
	GetSpeechModel() string
	GetSpeechVoice() string
	GetStoreDriver() string
	GetQuotaLockMode() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetChargeOnBackendFailure() bool
	GetGalleryTTL() time.Duration
	GetStorageBucket() string
	GetAdminSecret() string
	GetBackendTimeout() time.Duration
	GetAllowedOrigins() []string
}
