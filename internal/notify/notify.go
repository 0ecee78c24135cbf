package notify

import (
	"context"
	"sync"

	"github.com/stwalsh4118/estatehub/internal/models"
)

// DefaultOutboxCapacity is the number of notifications an Outbox keeps
// when no capacity is configured.
const DefaultOutboxCapacity = 100

// Notifier hands a notification to a delivery channel.
// Delivery is best effort: Notify never reports failure to the caller.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// Outbox is a bounded in-memory notification log. The oldest entries are
// dropped once capacity is reached.
type Outbox struct {
	mu       sync.RWMutex
	items    []models.Notification // oldest first
	capacity int
}

// NewOutbox creates an Outbox holding at most capacity notifications.
func NewOutbox(capacity int) *Outbox {
	if capacity <= 0 {
		capacity = DefaultOutboxCapacity
	}
	return &Outbox{capacity: capacity}
}

// Notify appends n, evicting the oldest entry when full.
func (o *Outbox) Notify(_ context.Context, n models.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.items) == o.capacity {
		copy(o.items, o.items[1:])
		o.items = o.items[:len(o.items)-1]
	}
	o.items = append(o.items, n)
}

// ForRecipient returns the notifications addressed to recipientID, newest first.
func (o *Outbox) ForRecipient(recipientID string) []models.Notification {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := []models.Notification{}
	for i := len(o.items) - 1; i >= 0; i-- {
		if o.items[i].RecipientID == recipientID {
			out = append(out, o.items[i])
		}
	}
	return out
}

// All returns every retained notification, newest first.
func (o *Outbox) All() []models.Notification {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]models.Notification, 0, len(o.items))
	for i := len(o.items) - 1; i >= 0; i-- {
		out = append(out, o.items[i])
	}
	return out
}

// Len returns the number of retained notifications.
func (o *Outbox) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.items)
}

// Fanout delivers each notification to every wrapped notifier in order.
type Fanout []Notifier

// Notify forwards n to each notifier.
func (f Fanout) Notify(ctx context.Context, n models.Notification) {
	for _, notifier := range f {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}
