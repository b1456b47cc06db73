package bot

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// UpdateLedger remembers which updates were already dispatched, so an update
// Telegram delivers again is not processed twice.
type UpdateLedger interface {
	// Claim reports true the first time updateID is seen.
	Claim(ctx context.Context, updateID int) (bool, error)
}

const recentUpdatesSize = 4096

// recentUpdates is an in-memory UpdateLedger holding the most recent ids.
type recentUpdates struct {
	mu    sync.Mutex
	seen  map[int]struct{}
	order []int
	next  int
	size  int
}

func newRecentUpdates(size int) *recentUpdates {
	return &recentUpdates{seen: make(map[int]struct{}, size), size: size}
}

func (r *recentUpdates) Claim(_ context.Context, updateID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[updateID]; ok {
		return false, nil
	}
	if len(r.order) < r.size {
		r.order = append(r.order, updateID)
	} else {
		delete(r.seen, r.order[r.next])
		r.order[r.next] = updateID
		r.next = (r.next + 1) % r.size
	}
	r.seen[updateID] = struct{}{}
	return true, nil
}

// UseUpdateLedger replaces the in-memory ledger with a shared one. The
// in-memory ledger still answers while the shared one fails.
func (b *Bot) UseUpdateLedger(l UpdateLedger) {
	b.ledger = l
}

func (b *Bot) claimUpdate(ctx context.Context, updateID int) bool {
	if b.ledger != nil {
		fresh, err := b.ledger.Claim(ctx, updateID)
		if err == nil {
			return fresh
		}
		b.logger.Warn("Update ledger unavailable, falling back to memory",
			zap.Int("update_id", updateID),
			zap.Error(err),
		)
	}
	fresh, _ := b.recent.Claim(ctx, updateID)
	return fresh
}
