package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp is the normalized time type used at the store boundary.
// It always encodes as epoch milliseconds.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, truncated to millisecond precision.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: time.UnixMilli(t.UnixMilli()).UTC()}
}

// Millis returns the epoch milliseconds, or 0 for a nil receiver.
func (t *Timestamp) Millis() int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(t.UnixMilli(), 10)), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	if parsed == nil {
		*t = Timestamp{}
		return nil
	}
	*t = *parsed
	return nil
}

// ParseTimestamp converts whatever the store returned into a Timestamp.
// Accepted shapes: epoch milliseconds (number or numeric string), RFC3339
// strings, time.Time, and provider objects with seconds/nanoseconds fields
// (`seconds`/`nanoseconds` or `_seconds`/`_nanoseconds`). nil yields nil.
func ParseTimestamp(v interface{}) (*Timestamp, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case *Timestamp:
		return val, nil
	case Timestamp:
		return &val, nil
	case time.Time:
		return NewTimestamp(val), nil
	case float64:
		return NewTimestamp(time.UnixMilli(int64(val))), nil
	case int64:
		return NewTimestamp(time.UnixMilli(val)), nil
	case int:
		return NewTimestamp(time.UnixMilli(int64(val))), nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", val.String(), err)
		}
		return NewTimestamp(time.UnixMilli(n)), nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NewTimestamp(time.UnixMilli(n)), nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return NewTimestamp(parsed), nil
	case map[string]interface{}:
		secs, okSecs := numberField(val, "seconds", "_seconds")
		if !okSecs {
			return nil, fmt.Errorf("unsupported timestamp object: %v", val)
		}
		nanos, _ := numberField(val, "nanoseconds", "_nanoseconds")
		return NewTimestamp(time.Unix(int64(secs), int64(nanos))), nil
	default:
		return nil, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func numberField(m map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch n := m[k].(type) {
		case float64:
			return n, true
		case int64:
			return float64(n), true
		case int:
			return float64(n), true
		}
	}
	return 0, false
}
