package cache

import (
	"context"
	"fmt"
	"time"
)

// Telegram keeps undelivered updates for 24 hours.
const defaultUpdateTTL = 24 * time.Hour

// UpdateLedger claims Telegram update ids in Redis, so a redelivered update
// is skipped even when another replica or a restarted process receives it.
type UpdateLedger struct {
	kv  KV
	ttl time.Duration
}

// NewUpdateLedger creates a ledger on kv. A non-positive ttl falls back to 24 hours.
func NewUpdateLedger(kv KV, ttl time.Duration) *UpdateLedger {
	if ttl <= 0 {
		ttl = defaultUpdateTTL
	}
	return &UpdateLedger{kv: kv, ttl: ttl}
}

// Claim reports true the first time updateID is claimed within the ttl.
func (l *UpdateLedger) Claim(ctx context.Context, updateID int) (bool, error) {
	ok, err := l.kv.SetNX(ctx, fmt.Sprintf("telegram:update:%d", updateID), []byte("1"), l.ttl)
	if err != nil {
		return false, fmt.Errorf("failed to claim update %d: %w", updateID, err)
	}
	return ok, nil
}
