package domain

import (
	"strconv"
	"strings"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanFree    Plan = "Free"
	PlanMonthly Plan = "Monthly"
	PlanYearly  Plan = "Yearly"
)

// Subscription status values seen in stored records. Any other provider string is
// accepted and kept as-is; status never gates tool access.
const (
	StatusActive     = "active"
	StatusTrialing   = "trialing"
	StatusIncomplete = "incomplete"
	StatusPastDue    = "past_due"
	StatusCanceled   = "canceled"
)

// FreeResetWindowMillis is the rolling free-tier usage window (7 days) in milliseconds.
const FreeResetWindowMillis int64 = 7 * 24 * 60 * 60 * 1000

// NormalizePlan parses a stored or user supplied plan name. Matching is
// case-insensitive; empty and unknown names fall back to Free.
func NormalizePlan(name string) Plan {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "monthly":
		return PlanMonthly
	case "yearly":
		return PlanYearly
	default:
		return PlanFree
	}
}

// ParsePlan is the strict variant of NormalizePlan used for plan changes.
func ParsePlan(name string) (Plan, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "free":
		return PlanFree, true
	case "monthly":
		return PlanMonthly, true
	case "yearly":
		return PlanYearly, true
	}
	return "", false
}

// IsFree reports whether p is the free tier.
func (p Plan) IsFree() bool {
	return strings.EqualFold(string(p), string(PlanFree))
}

// Limit is a per-tool usage ceiling. The zero value is a finite limit of 0;
// use Unlimited for plans without a ceiling.
type Limit struct {
	value     int
	unlimited bool
}

// Unlimited never reports a ceiling as exceeded.
var Unlimited = Limit{unlimited: true}

// FiniteLimit returns a bounded limit.
func FiniteLimit(n int) Limit {
	return Limit{value: n}
}

func (l Limit) IsUnlimited() bool { return l.unlimited }

// Value returns the numeric ceiling, or -1 for Unlimited.
func (l Limit) Value() int {
	if l.unlimited {
		return -1
	}
	return l.value
}

// Exceeded reports whether used has reached the ceiling.
func (l Limit) Exceeded(used int) bool {
	if l.unlimited {
		return false
	}
	return used >= l.value
}

// Remaining returns how many calls are left, or -1 for Unlimited.
func (l Limit) Remaining(used int) int {
	if l.unlimited {
		return -1
	}
	if used >= l.value {
		return 0
	}
	return l.value - used
}

func (l Limit) String() string {
	if l.unlimited {
		return "unlimited"
	}
	return strconv.Itoa(l.value)
}

// MarshalJSON encodes Unlimited as -1.
func (l Limit) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(l.Value())), nil
}

var planLimits = map[Plan]Limit{
	PlanFree:    FiniteLimit(5),
	PlanMonthly: FiniteLimit(35),
	PlanYearly:  Unlimited,
}

// PlanLimit returns the per-tool usage ceiling for a plan. Unknown plans get the Free ceiling.
func PlanLimit(plan Plan) Limit {
	if limit, ok := planLimits[NormalizePlan(string(plan))]; ok {
		return limit
	}
	return planLimits[PlanFree]
}

// Subscription is the per-user metering record.
type Subscription struct {
	UserID      string         `json:"user_id"`
	Plan        Plan           `json:"plan"`
	Usage       map[ToolID]int `json:"usage"`
	Limit       Limit          `json:"limit"`
	Status      string         `json:"status"`
	RenewalDate *Timestamp     `json:"renewalDate"`
	LastReset   *Timestamp     `json:"lastReset,omitempty"`
	PriceID     string         `json:"priceId,omitempty"`
	Method      string         `json:"subscriptionMethod,omitempty"`
}

// UsageFor returns the call count for a tool; absent keys are zero.
func (s *Subscription) UsageFor(tool ToolID) int {
	if s == nil || s.Usage == nil {
		return 0
	}
	return s.Usage[tool]
}

// RemainingFor returns the calls left for a tool, or -1 when unlimited.
func (s *Subscription) RemainingFor(tool ToolID) int {
	return s.Limit.Remaining(s.UsageFor(tool))
}
