package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/estatehub/internal/logger"
	"github.com/stwalsh4118/estatehub/internal/models"
	"github.com/stwalsh4118/estatehub/internal/notify"
	"github.com/stwalsh4118/estatehub/internal/store"
)

// Engine is the shared state behind the marketplace services: the store,
// the notification sink and the command lock. Services built from the
// same Engine apply their commands one at a time, so a command's checks
// and writes are never interleaved with another command's.
type Engine struct {
	mu       sync.Mutex
	store    store.Store
	notifier notify.Notifier
	log      *logger.Logger
	now      func() time.Time
	newID    func() string
}

// NewEngine creates an Engine over st. A nil notifier discards notifications.
func NewEngine(st store.Store, notifier notify.Notifier, log *logger.Logger) *Engine {
	if notifier == nil {
		notifier = notify.Fanout{}
	}
	return &Engine{
		store:    st,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Store returns the underlying entity store.
func (e *Engine) Store() store.Store {
	return e.store
}

// command runs fn under the command lock and hands the notifications it
// produced to the notifier once the lock is released. Notifications for
// recipients who muted them are dropped. fn must not write to the store
// before all of its checks have passed.
func (e *Engine) command(ctx context.Context, fn func() ([]models.Notification, error)) error {
	e.mu.Lock()
	notes, err := fn()
	if err == nil {
		notes = e.deliverable(notes)
	}
	e.mu.Unlock()
	if err != nil {
		return err
	}

	for _, n := range notes {
		n.ID = e.newID()
		n.CreatedAt = e.now()
		e.notifier.Notify(ctx, n)
	}
	return nil
}

// deliverable filters out notifications whose recipient muted them.
// Callers hold the command lock.
func (e *Engine) deliverable(notes []models.Notification) []models.Notification {
	out := notes[:0]
	for _, n := range notes {
		if u, ok := e.store.FindUser(n.RecipientID); ok && u.NotificationsMuted {
			continue
		}
		out = append(out, n)
	}
	return out
}

// rejected logs a refused command at warn level and returns err unchanged.
func (e *Engine) rejected(op, actorID string, err error) error {
	e.log.Warn("Command rejected", map[string]interface{}{
		"op":       op,
		"actor_id": actorID,
		"error":    err.Error(),
	})
	return err
}

// activeActor resolves actorID to a stored, non-banned profile. Unknown ids
// fail with missing so callers can choose between ErrNotFound and
// ErrUnauthorized.
func (e *Engine) activeActor(actorID string, missing error) (*models.UserProfile, error) {
	if actorID == "" {
		return nil, fmt.Errorf("%w: authentication required", models.ErrUnauthorized)
	}
	u, ok := e.store.FindUser(actorID)
	if !ok {
		return nil, fmt.Errorf("%w: user %s", missing, actorID)
	}
	if u.Banned {
		return nil, fmt.Errorf("%w: user %s is banned", models.ErrUnauthorized, actorID)
	}
	return u, nil
}

// requireAdmin resolves actorID to an admin profile. Banned admins may
// still read but not mutate.
func (e *Engine) requireAdmin(actorID string, mutating bool) (*models.UserProfile, error) {
	u, ok := e.store.FindUser(actorID)
	if actorID == "" || !ok || u.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: admin role required", models.ErrUnauthorized)
	}
	if mutating && u.Banned {
		return nil, fmt.Errorf("%w: user %s is banned", models.ErrUnauthorized, actorID)
	}
	return u, nil
}

// viewer resolves the actor a query runs as. Unknown ids resolve to the
// anonymous actor, which sees nothing.
func (e *Engine) viewer(actorID string) models.Actor {
	if actorID == "" {
		return models.Actor{}
	}
	u, ok := e.store.FindUser(actorID)
	if !ok {
		return models.Actor{}
	}
	return u.Actor()
}

// visibleProperty returns the property when it exists and the actor may
// see it. Hidden and missing properties are indistinguishable.
func (e *Engine) visibleProperty(actor models.Actor, propertyID string) (*models.Property, error) {
	p, ok := e.store.FindProperty(propertyID)
	if !ok || !CanView(actor, p) {
		return nil, fmt.Errorf("%w: property %s", models.ErrNotFound, propertyID)
	}
	return p, nil
}
