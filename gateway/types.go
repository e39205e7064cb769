package gateway

import (
	"context"
	"fmt"
	"time"
)

// UserRef is the backend's profile snapshot for one account.
type UserRef struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	UPIID    string `json:"upiId"`
}

// Transaction is one ledger entry as the backend reports it. Type is "send"
// or "receive"; To/From carry the counterparty username for the matching
// direction.
type Transaction struct {
	Type   string    `json:"type"`
	To     string    `json:"to,omitempty"`
	From   string    `json:"from,omitempty"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

// LoginResponse is the success body of the login operation. Token is optional;
// backends that issue no bearer marker leave it empty and the client falls
// back to presence-only session semantics.
type LoginResponse struct {
	IsAdmin            bool          `json:"isAdmin"`
	User               UserRef       `json:"user"`
	Balance            float64       `json:"balance"`
	TransactionHistory []Transaction `json:"transactionHistory"`
	Message            string        `json:"message"`
	Token              string        `json:"token,omitempty"`
}

// RegisterResponse carries the backend's confirmation message.
type RegisterResponse struct {
	Message string `json:"message"`
}

// AccountSnapshot is the current-user fetch body: the authoritative balance
// and the full transaction history, replaced wholesale on every fetch.
type AccountSnapshot struct {
	Balance            float64       `json:"balance"`
	TransactionHistory []Transaction `json:"transactionHistory"`
}

// TransferRequest is one send-money submission. It exists only for the
// duration of a single attempt and is never persisted.
type TransferRequest struct {
	SenderUsername    string  `json:"senderUsername"`
	RecipientUsername string  `json:"recipientUsername"`
	Amount            float64 `json:"amount"`
}

// TransferResponse is the authoritative settlement result. SenderBalance and
// SenderTransactionHistory replace the client's cached copies; the client
// never derives them locally.
type TransferResponse struct {
	Message                  string        `json:"message"`
	SenderBalance            float64       `json:"senderBalance"`
	SenderTransactionHistory []Transaction `json:"senderTransactionHistory"`
}

// RosterEntry is one account in the admin roster. The backend keys accounts
// by "_id".
type RosterEntry struct {
	ID       string  `json:"_id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Balance  float64 `json:"balance"`
	UPIID    string  `json:"upiId"`
}

// DeleteResponse carries the backend's deletion confirmation message.
type DeleteResponse struct {
	Message string `json:"message"`
}

// StatusError is a non-success backend response. Message is the server's
// human-readable explanation when one was supplied.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway status %d", e.Code)
	}
	return fmt.Sprintf("gateway status %d: %s", e.Code, e.Message)
}

// Unauthorized reports whether the backend rejected the session itself rather
// than the operation.
func (e *StatusError) Unauthorized() bool {
	return e.Code == 401 || e.Code == 403
}

// API is the full backend contract the wallet client consumes. Tests and
// alternative transports substitute their own implementation.
type API interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*LoginResponse, error)
	Register(ctx context.Context, username, email, password string) (*RegisterResponse, error)
	CurrentUser(ctx context.Context, username string) (*AccountSnapshot, error)
	SubmitTransfer(ctx context.Context, req TransferRequest) (*TransferResponse, error)
	ListUsers(ctx context.Context) ([]RosterEntry, error)
	DeleteUser(ctx context.Context, id string) (*DeleteResponse, error)
}
