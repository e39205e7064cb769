package payease

import (
	"context"
	"fmt"

	"github.com/abhi-bhosle/payease/session"
)

// ViewTarget is one of the three views the client can land on.
type ViewTarget uint8

const (
	// ViewLogin is the unauthenticated landing view.
	ViewLogin ViewTarget = iota
	// ViewUserDashboard is the standard wallet dashboard.
	ViewUserDashboard
	// ViewAdminDashboard is the account roster view.
	ViewAdminDashboard
)

// String names the view for logs and events.
func (v ViewTarget) String() string {
	switch v {
	case ViewUserDashboard:
		return "UserDashboard"
	case ViewAdminDashboard:
		return "AdminDashboard"
	default:
		return "LoginView"
	}
}

// Route is the pure routing decision: which view a session lands on. It
// reads nothing but its argument.
func Route(sess session.Session) ViewTarget {
	if !sess.Authenticated {
		return ViewLogin
	}
	if sess.Role == RoleAdmin {
		return ViewAdminDashboard
	}
	return ViewUserDashboard
}

// Route applies the routing decision to the client's current session.
func (c *Client) Route() ViewTarget {
	return Route(c.Session())
}

// roleFor maps a protected view to the role it requires.
func roleFor(view ViewTarget) Role {
	if view == ViewAdminDashboard {
		return RoleAdmin
	}
	return RoleUser
}

// EnterView re-checks authorization for target and returns the view actually
// granted. Authorization is evaluated on every entry, not only at login: a
// session whose role does not match the view, or whose persisted token marker
// has expired, is redirected to [ViewLogin] — the latter also forces a
// logout, since the marker is known stale.
func (c *Client) EnterView(ctx context.Context, target ViewTarget) (ViewTarget, error) {
	if c == nil || c.sessions == nil {
		return ViewLogin, ErrClientNotReady
	}
	if target == ViewLogin {
		return ViewLogin, nil
	}

	sess := c.sessions.Current()
	if !sess.Authenticated {
		c.metricInc(MetricViewDenied)
		return ViewLogin, fmt.Errorf("%w: %s requires a session", ErrNotAuthenticated, target)
	}

	if c.sessions.TokenExpired() {
		c.forceLogout(ctx, EventSessionExpired, "session marker expired")
		return ViewLogin, fmt.Errorf("%w: session marker expired", ErrUnauthorized)
	}

	if sess.Role != roleFor(target) {
		c.metricInc(MetricViewDenied)
		c.emit(ctx, EventViewDenied, false, "", map[string]string{
			"view": target.String(),
		})
		return ViewLogin, fmt.Errorf("%w: role %s cannot enter %s", ErrUnauthorized, sess.Role, target)
	}

	return target, nil
}
