package payease

import (
	"errors"

	"github.com/abhi-bhosle/payease/gateway"
)

var (
	// ErrClientNotReady signals use of a Client before Build completed.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrNotAuthenticated signals an operation that requires a logged-in session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUnauthorized signals that the current session does not grant the
	// requested view or operation, or that the backend rejected the session.
	ErrUnauthorized = errors.New("session not authorized")
	// ErrAuth wraps a failed login.
	ErrAuth = errors.New("login failed")
	// ErrRegistration wraps a failed account registration.
	ErrRegistration = errors.New("registration failed")
	// ErrValidation marks a transfer rejected locally before any network call.
	ErrValidation = errors.New("transfer validation failed")
	// ErrTransfer wraps a transfer the backend rejected or that failed in transport.
	ErrTransfer = errors.New("transfer rejected")
	// ErrFetch wraps a failed balance/roster fetch; cached data stays authoritative.
	ErrFetch = errors.New("account fetch failed")
	// ErrDeletion wraps a failed roster deletion.
	ErrDeletion = errors.New("account deletion failed")
	// ErrTimeout marks a submission that outlived Transfer.SubmitTimeout.
	ErrTimeout = errors.New("gateway timed out")
	// ErrSubmitInFlight rejects a submit while one is already outstanding.
	ErrSubmitInFlight = errors.New("transfer already in flight")
	// ErrWorkflowClosed rejects operations on a torn-down workflow.
	ErrWorkflowClosed = errors.New("transfer workflow closed")
	// ErrNoPendingDeletion rejects a confirmation with no open deletion gate.
	ErrNoPendingDeletion = errors.New("no deletion pending confirmation")
)

// UserMessage extracts the display string for err: the backend's own message
// when one travelled with the error, otherwise a generic per-category
// fallback. Never returns an empty string for a non-nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *gateway.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}

	switch {
	case errors.Is(err, ErrValidation):
		return "Please check the recipient and amount."
	case errors.Is(err, ErrAuth):
		return "Login failed."
	case errors.Is(err, ErrRegistration):
		return "Registration failed."
	case errors.Is(err, ErrTimeout):
		return "The server took too long to respond."
	case errors.Is(err, ErrTransfer):
		return "Transaction failed."
	case errors.Is(err, ErrFetch):
		return "Could not load account data."
	case errors.Is(err, ErrDeletion):
		return "Error deleting user."
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNotAuthenticated):
		return "Please log in again."
	default:
		return "Something went wrong."
	}
}

// isUnauthorized reports whether the backend rejected the session itself.
func isUnauthorized(err error) bool {
	var statusErr *gateway.StatusError
	return errors.As(err, &statusErr) && statusErr.Unauthorized()
}
