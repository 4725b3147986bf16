package notify

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"classgate/internal/metrics"
)

// Store is the cache the poller reads identities from and writes badge
// counts to.
type Store interface {
	ActiveEmails(ctx context.Context) ([]string, error)
	UserID(ctx context.Context, email string) (int, bool)
	SetUnread(ctx context.Context, email string, count int) error
}

// FetchFunc returns the unread notification count for a backend user.
type FetchFunc func(ctx context.Context, userID int) (int, error)

// Poller refreshes unread-notification counts for recently active
// users on a fixed interval. Ticks are single-flight: a new tick is
// skipped while the previous one is still running, and a failed fetch
// leaves the stored count untouched.
type Poller struct {
	store    Store
	fetch    FetchFunc
	interval time.Duration
	running  atomic.Bool
}

// New creates a poller.
func New(store Store, fetch FetchFunc, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 90 * time.Second
	}
	return &Poller{store: store, fetch: fetch, interval: interval}
}

// Run polls until the context is cancelled. The first tick fires
// immediately.
func (p *Poller) Run(ctx context.Context) {
	p.dispatch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.dispatch(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) dispatch(ctx context.Context) {
	if !p.running.CompareAndSwap(false, true) {
		metrics.PollerSkips.Inc()
		return
	}
	go func() {
		defer p.running.Store(false)
		p.tick(ctx)
	}()
}

func (p *Poller) tick(ctx context.Context) {
	emails, err := p.store.ActiveEmails(ctx)
	if err != nil {
		log.Printf("notify: list active emails failed: %v", err)
		return
	}

	for _, email := range emails {
		if ctx.Err() != nil {
			return
		}
		id, ok := p.store.UserID(ctx, email)
		if !ok {
			// Not resolved yet; the badge stays at its last value.
			continue
		}
		count, err := p.fetch(ctx, id)
		if err != nil {
			log.Printf("notify: unread fetch failed for %s: %v", email, err)
			continue
		}
		if err := p.store.SetUnread(ctx, email, count); err != nil {
			log.Printf("notify: store unread failed for %s: %v", email, err)
		}
	}
	metrics.PollerTicks.Inc()
}
