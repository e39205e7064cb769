package payease

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhi-bhosle/payease/gateway"
)

// RosterManager is the admin dashboard's view of every account: a cached
// roster replaced wholesale on each Load, plus a two-step deletion gate so
// no account is removed without an explicit confirmation.
type RosterManager struct {
	mu     sync.Mutex
	client *Client

	entries []gateway.RosterEntry
	loaded  bool

	pendingID string
	pending   bool
}

// NewRosterManager creates a manager bound to the current Admin-role session.
func (c *Client) NewRosterManager() (*RosterManager, error) {
	if c == nil || c.gw == nil {
		return nil, ErrClientNotReady
	}

	sess := c.Session()
	if !sess.Authenticated {
		return nil, ErrNotAuthenticated
	}
	if sess.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: roster requires an admin session", ErrUnauthorized)
	}

	return &RosterManager{client: c}, nil
}

// Load fetches the full account roster and replaces the cache wholesale. On
// failure the previously loaded entries are kept; a backend session rejection
// additionally forces a logout.
func (m *RosterManager) Load(ctx context.Context) error {
	sess := m.client.Session()
	if !sess.Authenticated || sess.Role != RoleAdmin {
		return fmt.Errorf("%w: roster requires an admin session", ErrUnauthorized)
	}

	entries, err := m.client.gw.ListUsers(ctx)
	if err != nil {
		m.client.metricInc(MetricRosterLoadFailure)
		if isUnauthorized(err) {
			m.client.forceLogout(ctx, EventSessionExpired, "backend rejected session")
			return fmt.Errorf("%w: backend rejected session", ErrUnauthorized)
		}
		return wrapGateway(ErrFetch, err)
	}

	m.mu.Lock()
	m.entries = entries
	m.loaded = true
	m.mu.Unlock()

	m.client.metricInc(MetricRosterLoadSuccess)
	m.client.emit(ctx, EventRosterLoaded, true, "", map[string]string{
		"accounts": fmt.Sprint(len(entries)),
	})
	return nil
}

// Entries returns a copy of the cached roster.
func (m *RosterManager) Entries() []gateway.RosterEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]gateway.RosterEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Loaded reports whether at least one Load has succeeded.
func (m *RosterManager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// RequestDeletion opens the confirmation gate for the account with the given
// id. No network call happens until [RosterManager.ConfirmDeletion]. A second
// request replaces the pending one.
func (m *RosterManager) RequestDeletion(id string) error {
	if id == "" {
		return fmt.Errorf("%w: account id required", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingID = id
	m.pending = true
	return nil
}

// PendingDeletion returns the id awaiting confirmation, if any.
func (m *RosterManager) PendingDeletion() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingID, m.pending
}

// CancelDeletion closes the confirmation gate without any network call.
func (m *RosterManager) CancelDeletion() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingID = ""
	m.pending = false
}

// ConfirmDeletion performs the deletion that was requested. The gate closes
// whether the call succeeds or fails; a fresh RequestDeletion is needed to
// retry. On success the entry with the confirmed id is removed from the
// cached roster, preserving the order of the rest; on failure the roster is
// unchanged. Returns the backend's confirmation message.
func (m *RosterManager) ConfirmDeletion(ctx context.Context) (string, error) {
	m.mu.Lock()
	if !m.pending {
		m.mu.Unlock()
		return "", ErrNoPendingDeletion
	}
	id := m.pendingID
	m.pendingID = ""
	m.pending = false
	m.mu.Unlock()

	sess := m.client.Session()
	if !sess.Authenticated || sess.Role != RoleAdmin {
		return "", fmt.Errorf("%w: roster requires an admin session", ErrUnauthorized)
	}

	resp, err := m.client.gw.DeleteUser(ctx, id)
	if err != nil {
		m.client.metricInc(MetricRosterDeleteFailure)
		wrapped := wrapGateway(ErrDeletion, err)
		m.client.emit(ctx, EventRosterDeleteFailed, false, UserMessage(wrapped), map[string]string{
			"account": id,
		})
		if isUnauthorized(err) {
			m.client.forceLogout(ctx, EventSessionExpired, "backend rejected session")
			return "", fmt.Errorf("%w: backend rejected session", ErrUnauthorized)
		}
		return "", wrapped
	}

	m.mu.Lock()
	kept := m.entries[:0]
	for _, entry := range m.entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	m.entries = kept
	m.mu.Unlock()

	m.client.metricInc(MetricRosterDeleteSuccess)
	m.client.emit(ctx, EventRosterDeleted, true, "", map[string]string{
		"account": id,
	})
	return resp.Message, nil
}
