package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"abk-storefront/internal/storage"
)

var (
	ErrEmptyToken = errors.New("token must not be empty")
)

// Event describes one login or logout transition
type Event struct {
	ClientID string
	LoggedIn bool
	Role     string
}

// Listener observes session transitions
type Listener func(Event)

// Tracker derives the logged-in flag from the token kept in a client's store and
// broadcasts every transition to its registered listeners.
type Tracker struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
	order     []int
}

// NewTracker creates a tracker with no listeners
func NewTracker() *Tracker {
	return &Tracker{listeners: make(map[int]Listener)}
}

// OnChange registers listener and returns a function that unregisters it
func (t *Tracker) OnChange(listener Listener) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = listener
	t.order = append(t.order, id)
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.listeners, id)
			for i, v := range t.order {
				if v == id {
					t.order = append(t.order[:i], t.order[i+1:]...)
					break
				}
			}
		})
	}
}

// IsLoggedIn reports whether a credential token is present. Expiry is not tracked here.
func (t *Tracker) IsLoggedIn(ctx context.Context, store storage.Store) bool {
	return storage.Load(ctx, store, storage.KeyToken, "") != ""
}

// Role returns the cached role of the logged-in client, if any
func (t *Tracker) Role(ctx context.Context, store storage.Store) string {
	if !t.IsLoggedIn(ctx, store) {
		return ""
	}
	return storage.Load(ctx, store, storage.KeyUserRole, "")
}

// Login stores token and role for the client and broadcasts the transition
func (t *Tracker) Login(ctx context.Context, clientID string, store storage.Store, token, role string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}

	if err := storage.Save(ctx, store, storage.KeyToken, token); err != nil {
		return err
	}
	if err := storage.Save(ctx, store, storage.KeyUserRole, role); err != nil {
		return err
	}

	t.broadcast(Event{ClientID: clientID, LoggedIn: true, Role: role})
	return nil
}

// Logout clears the token and cached role. It neither navigates nor renders anything;
// a client without a token is already logged out and no event is sent.
func (t *Tracker) Logout(ctx context.Context, clientID string, store storage.Store) error {
	wasLoggedIn := t.IsLoggedIn(ctx, store)

	if err := store.Delete(ctx, storage.KeyToken); err != nil {
		return err
	}
	if err := store.Delete(ctx, storage.KeyUserRole); err != nil {
		return err
	}

	if wasLoggedIn {
		t.broadcast(Event{ClientID: clientID, LoggedIn: false})
	}
	return nil
}

func (t *Tracker) broadcast(e Event) {
	t.mu.RLock()
	listeners := make([]Listener, 0, len(t.order))
	for _, id := range t.order {
		listeners = append(listeners, t.listeners[id])
	}
	t.mu.RUnlock()

	for _, l := range listeners {
		l(e)
	}
}
