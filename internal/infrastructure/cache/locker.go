package cache

import (
	"context"
	"time"
)

// Locker hands out short-lived named locks whose value identifies the holder
type Locker interface {
	// Acquire sets key to value if it is free. It reports false when another holder owns it.
	Acquire(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Holder returns the value of a held lock
	Holder(ctx context.Context, key string) (string, bool, error)
	// Release frees key only while it still holds value
	Release(ctx context.Context, key, value string) error
}

// SummaryLockKey is the lock guarding a meeting's summary job
func SummaryLockKey(meetingID string) string {
	return "summary:lock:" + meetingID
}
