package notification

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for MVP/testing. Production should use a database-backed implementation.
type InMemoryRepository struct {
	mu            sync.RWMutex
	notifications map[string]*Notification // keyed by notification ID
	byUser        map[string][]string      // userID -> notification IDs
	preferences   map[string]*Preferences  // keyed by user ID
}

// NewInMemoryRepository creates a new in-memory notification repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		notifications: make(map[string]*Notification),
		byUser:        make(map[string][]string),
		preferences:   make(map[string]*Preferences),
	}
}

// Insert stores a new notification.
func (r *InMemoryRepository) Insert(_ context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nCopy := *n
	r.notifications[n.ID] = &nCopy
	r.byUser[n.UserID] = append(r.byUser[n.UserID], n.ID)

	return nil
}

// ListActive returns the user's non-archived notifications, newest first.
func (r *InMemoryRepository) ListActive(_ context.Context, userID string, limit int) ([]*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*Notification
	for _, id := range r.byUser[userID] {
		n := r.notifications[id]
		if n == nil || n.Archived {
			continue
		}
		nCopy := *n
		items = append(items, &nCopy)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// UnreadCount counts the user's unread, non-archived notifications.
func (r *InMemoryRepository) UnreadCount(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, id := range r.byUser[userID] {
		if n := r.notifications[id]; n != nil && !n.Read && !n.Archived {
			count++
		}
	}
	return count, nil
}

// MarkRead marks one notification as read.
func (r *InMemoryRepository) MarkRead(_ context.Context, userID, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return ErrNotificationNotFound
	}

	if !n.Read {
		n.Read = true
		n.ReadAt = &at
	}
	return nil
}

// MarkAllRead marks every unread notification as read.
func (r *InMemoryRepository) MarkAllRead(_ context.Context, userID string, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	affected := 0
	for _, id := range r.byUser[userID] {
		if n := r.notifications[id]; n != nil && !n.Read {
			n.Read = true
			n.ReadAt = &at
			affected++
		}
	}
	return affected, nil
}

// Archive removes one notification from the active list.
func (r *InMemoryRepository) Archive(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return ErrNotificationNotFound
	}

	n.Archived = true
	return nil
}

// ArchiveRead archives every read notification.
func (r *InMemoryRepository) ArchiveRead(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	affected := 0
	for _, id := range r.byUser[userID] {
		if n := r.notifications[id]; n != nil && n.Read && !n.Archived {
			n.Archived = true
			affected++
		}
	}
	return affected, nil
}

// Delete permanently removes one notification.
func (r *InMemoryRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return ErrNotificationNotFound
	}

	delete(r.notifications, id)

	ids := r.byUser[userID]
	for i, nid := range ids {
		if nid == id {
			r.byUser[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// GetPreferences returns the user's stored preferences.
func (r *InMemoryRepository) GetPreferences(_ context.Context, userID string) (*Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.preferences[userID]
	if !ok {
		return nil, ErrPreferencesNotFound
	}

	prefsCopy := *prefs
	return &prefsCopy, nil
}

// SavePreferences upserts the user's preferences.
func (r *InMemoryRepository) SavePreferences(_ context.Context, p *Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefsCopy := *p
	r.preferences[p.UserID] = &prefsCopy
	return nil
}
