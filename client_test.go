package payease

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhi-bhosle/payease/gateway"
	"github.com/abhi-bhosle/payease/session"
	"github.com/golang-jwt/jwt/v5"
)

// stubGateway implements gateway.API with per-operation hooks and call
// counters. Operations without a hook fail the calling test path with an
// explicit error.
type stubGateway struct {
	loginFn    func(ctx context.Context, usernameOrEmail, password string) (*gateway.LoginResponse, error)
	registerFn func(ctx context.Context, username, email, password string) (*gateway.RegisterResponse, error)
	currentFn  func(ctx context.Context, username string) (*gateway.AccountSnapshot, error)
	submitFn   func(ctx context.Context, req gateway.TransferRequest) (*gateway.TransferResponse, error)
	listFn     func(ctx context.Context) ([]gateway.RosterEntry, error)
	deleteFn   func(ctx context.Context, id string) (*gateway.DeleteResponse, error)

	loginCalls   atomic.Int64
	currentCalls atomic.Int64
	submitCalls  atomic.Int64
	listCalls    atomic.Int64
	deleteCalls  atomic.Int64
}

func (s *stubGateway) Login(ctx context.Context, usernameOrEmail, password string) (*gateway.LoginResponse, error) {
	s.loginCalls.Add(1)
	if s.loginFn == nil {
		return nil, errors.New("stub: unexpected Login")
	}
	return s.loginFn(ctx, usernameOrEmail, password)
}

func (s *stubGateway) Register(ctx context.Context, username, email, password string) (*gateway.RegisterResponse, error) {
	if s.registerFn == nil {
		return nil, errors.New("stub: unexpected Register")
	}
	return s.registerFn(ctx, username, email, password)
}

func (s *stubGateway) CurrentUser(ctx context.Context, username string) (*gateway.AccountSnapshot, error) {
	s.currentCalls.Add(1)
	if s.currentFn == nil {
		return nil, errors.New("stub: unexpected CurrentUser")
	}
	return s.currentFn(ctx, username)
}

func (s *stubGateway) SubmitTransfer(ctx context.Context, req gateway.TransferRequest) (*gateway.TransferResponse, error) {
	s.submitCalls.Add(1)
	if s.submitFn == nil {
		return nil, errors.New("stub: unexpected SubmitTransfer")
	}
	return s.submitFn(ctx, req)
}

func (s *stubGateway) ListUsers(ctx context.Context) ([]gateway.RosterEntry, error) {
	s.listCalls.Add(1)
	if s.listFn == nil {
		return nil, errors.New("stub: unexpected ListUsers")
	}
	return s.listFn(ctx)
}

func (s *stubGateway) DeleteUser(ctx context.Context, id string) (*gateway.DeleteResponse, error) {
	s.deleteCalls.Add(1)
	if s.deleteFn == nil {
		return nil, errors.New("stub: unexpected DeleteUser")
	}
	return s.deleteFn(ctx, id)
}

func newTestClient(t *testing.T, gw gateway.API) *Client {
	t.Helper()

	client, err := New().WithGateway(gw).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

// loginAs installs an authenticated session directly through the store, the
// way a successful login would.
func loginAs(t *testing.T, c *Client, username string, role Role) {
	t.Helper()

	identity := session.Identity{Username: username, Email: username + "@example.com", UPIID: username + "@payease"}
	if err := c.Sessions().Login(context.Background(), identity, role, ""); err != nil {
		t.Fatalf("session login: %v", err)
	}
}

func signedTokenExpiring(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestLoginInstallsSession(t *testing.T) {
	gw := &stubGateway{
		loginFn: func(ctx context.Context, usernameOrEmail, password string) (*gateway.LoginResponse, error) {
			if usernameOrEmail != "alice" || password != "hunter2" {
				return nil, &gateway.StatusError{Code: 400, Message: "Invalid username/email or password"}
			}
			return &gateway.LoginResponse{
				IsAdmin: false,
				User:    gateway.UserRef{Username: "alice", Email: "alice@example.com", UPIID: "alice@payease"},
				Balance: 500,
				TransactionHistory: []gateway.Transaction{
					{Type: "receive", From: "bob", Amount: 100, Date: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
				},
			}, nil
		},
	}
	client := newTestClient(t, gw)

	result, err := client.Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Role != RoleUser {
		t.Fatalf("role = %v, want %v", result.Role, RoleUser)
	}
	if result.Balance != 500 {
		t.Fatalf("balance = %v, want 500", result.Balance)
	}
	if len(result.History) != 1 || result.History[0].Direction != DirectionReceived || result.History[0].Counterparty != "bob" {
		t.Fatalf("history = %+v", result.History)
	}

	sess := client.Session()
	if !sess.Authenticated || sess.Role != RoleUser {
		t.Fatalf("session = %+v, want authenticated user", sess)
	}
	if sess.Identity == nil || sess.Identity.Username != "alice" {
		t.Fatalf("identity = %+v", sess.Identity)
	}
	if got := client.MetricsSnapshot().Counters[MetricLoginSuccess]; got != 1 {
		t.Fatalf("login success metric = %d, want 1", got)
	}
}

func TestLoginFailureLeavesSessionOut(t *testing.T) {
	gw := &stubGateway{
		loginFn: func(ctx context.Context, usernameOrEmail, password string) (*gateway.LoginResponse, error) {
			return nil, &gateway.StatusError{Code: 400, Message: "Invalid username/email or password"}
		},
	}
	client := newTestClient(t, gw)

	_, err := client.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("err = %v, want ErrAuth", err)
	}
	if got := UserMessage(err); got != "Invalid username/email or password" {
		t.Fatalf("UserMessage = %q", got)
	}
	if client.Session().Authenticated {
		t.Fatal("session authenticated after failed login")
	}
	if got := client.MetricsSnapshot().Counters[MetricLoginFailure]; got != 1 {
		t.Fatalf("login failure metric = %d, want 1", got)
	}
}

func TestLoginAdminRole(t *testing.T) {
	gw := &stubGateway{
		loginFn: func(ctx context.Context, usernameOrEmail, password string) (*gateway.LoginResponse, error) {
			return &gateway.LoginResponse{
				IsAdmin: true,
				User:    gateway.UserRef{Username: "root", Email: "root@example.com"},
			}, nil
		},
	}
	client := newTestClient(t, gw)

	result, err := client.Login(context.Background(), "root", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Role != RoleAdmin {
		t.Fatalf("role = %v, want %v", result.Role, RoleAdmin)
	}
	if got := client.Session().Role; got != RoleAdmin {
		t.Fatalf("session role = %v, want %v", got, RoleAdmin)
	}
}

func TestRegisterReturnsMessage(t *testing.T) {
	gw := &stubGateway{
		registerFn: func(ctx context.Context, username, email, password string) (*gateway.RegisterResponse, error) {
			return &gateway.RegisterResponse{Message: "User registered successfully"}, nil
		},
	}
	client := newTestClient(t, gw)

	msg, err := client.Register(context.Background(), "carol", "carol@example.com", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if msg != "User registered successfully" {
		t.Fatalf("message = %q", msg)
	}
	if client.Session().Authenticated {
		t.Fatal("register must not touch the session")
	}
}

func TestRegisterFailure(t *testing.T) {
	gw := &stubGateway{
		registerFn: func(ctx context.Context, username, email, password string) (*gateway.RegisterResponse, error) {
			return nil, &gateway.StatusError{Code: 400, Message: "Username already taken"}
		},
	}
	client := newTestClient(t, gw)

	_, err := client.Register(context.Background(), "carol", "carol@example.com", "pw")
	if !errors.Is(err, ErrRegistration) {
		t.Fatalf("err = %v, want ErrRegistration", err)
	}
	if got := UserMessage(err); got != "Username already taken" {
		t.Fatalf("UserMessage = %q", got)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	client := newTestClient(t, &stubGateway{})
	loginAs(t, client, "alice", RoleUser)

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if client.Session().Authenticated {
		t.Fatal("still authenticated after logout")
	}
	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if got := client.MetricsSnapshot().Counters[MetricLogout]; got != 1 {
		t.Fatalf("logout metric = %d, want 1 (second call is a no-op)", got)
	}
}

func TestSessionSurvivesRebuild(t *testing.T) {
	kv := session.NewMemoryKV()

	first, err := New().WithGateway(&stubGateway{}).WithSessionBackend(kv).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	loginAs(t, first, "alice", RoleUser)
	first.Close()

	second, err := New().WithGateway(&stubGateway{}).WithSessionBackend(kv).Build()
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	defer second.Close()

	sess := second.Session()
	if !sess.Authenticated || sess.Role != RoleUser || sess.Identity == nil || sess.Identity.Username != "alice" {
		t.Fatalf("restored session = %+v", sess)
	}
	if got := second.MetricsSnapshot().Counters[MetricSessionRestored]; got != 1 {
		t.Fatalf("restore metric = %d, want 1", got)
	}
}

func TestLogoutClearsPersistedState(t *testing.T) {
	kv := session.NewMemoryKV()

	first, err := New().WithGateway(&stubGateway{}).WithSessionBackend(kv).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	loginAs(t, first, "alice", RoleUser)
	if err := first.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	first.Close()

	second, err := New().WithGateway(&stubGateway{}).WithSessionBackend(kv).Build()
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	defer second.Close()

	if sess := second.Session(); sess.Authenticated || sess.Role != RoleNone || sess.Identity != nil {
		t.Fatalf("session after logout+rebuild = %+v, want zero session", sess)
	}
}

func TestBuilderRejectsReuse(t *testing.T) {
	b := New().WithGateway(&stubGateway{})
	if _, err := b.Build(); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("second Build succeeded, want error")
	}
}

func TestBuilderRequiresGatewayOrBaseURL(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("Build without gateway or base URL succeeded")
	}
}
