package payease

import (
	"context"

	"github.com/abhi-bhosle/payease/session"
)

// Login verifies credentials against the gateway and, on success, installs
// the authenticated session (persisted before Login returns). The returned
// balance and history are the backend's authoritative snapshot.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*LoginResult, error) {
	if c == nil || c.gw == nil {
		return nil, ErrClientNotReady
	}

	resp, err := c.gw.Login(ctx, usernameOrEmail, password)
	if err != nil {
		c.metricInc(MetricLoginFailure)
		wrapped := wrapGateway(ErrAuth, err)
		c.emit(ctx, EventLoginFailure, false, UserMessage(wrapped), map[string]string{
			"identifier": usernameOrEmail,
		})
		return nil, wrapped
	}

	role := RoleUser
	if resp.IsAdmin {
		role = RoleAdmin
	}

	identity := session.Identity{
		Username: resp.User.Username,
		Email:    resp.User.Email,
		UPIID:    resp.User.UPIID,
	}
	if err := c.sessions.Login(ctx, identity, role, resp.Token); err != nil {
		return nil, err
	}

	c.metricInc(MetricLoginSuccess)
	c.emit(ctx, EventLoginSuccess, true, "", nil)

	return &LoginResult{
		Role:    role,
		User:    resp.User,
		Balance: resp.Balance,
		History: transactionRecords(resp.TransactionHistory),
	}, nil
}

// Register creates a new account and returns the backend's confirmation
// message. Registration never touches the session; the caller logs in
// afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	if c == nil || c.gw == nil {
		return "", ErrClientNotReady
	}

	resp, err := c.gw.Register(ctx, username, email, password)
	if err != nil {
		c.metricInc(MetricRegisterFailure)
		wrapped := wrapGateway(ErrRegistration, err)
		c.emit(ctx, EventRegisterFailure, false, UserMessage(wrapped), map[string]string{
			"username": username,
		})
		return "", wrapped
	}

	c.metricInc(MetricRegisterSuccess)
	c.emit(ctx, EventRegisterSuccess, true, "", map[string]string{
		"username": username,
	})
	return resp.Message, nil
}

// Logout resets the session and clears persisted state. A no-op on an
// already-logged-out client.
func (c *Client) Logout(ctx context.Context) error {
	if c == nil || c.sessions == nil {
		return nil
	}
	if !c.sessions.Current().Authenticated {
		return nil
	}

	// Emit before the store resets so the event still carries the identity.
	c.emit(ctx, EventLogout, true, "", nil)

	if err := c.sessions.Logout(ctx); err != nil {
		return err
	}
	c.metricInc(MetricLogout)
	return nil
}
