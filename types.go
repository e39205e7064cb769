package payease

import (
	"time"

	"github.com/abhi-bhosle/payease/gateway"
	internalaudit "github.com/abhi-bhosle/payease/internal/audit"
	"github.com/abhi-bhosle/payease/session"
)

// Role is the session's authorization tier.
type Role = session.Role

const (
	// RoleNone marks an unauthenticated session.
	RoleNone = session.RoleNone
	// RoleUser is a standard wallet account.
	RoleUser = session.RoleUser
	// RoleAdmin may list and delete accounts.
	RoleAdmin = session.RoleAdmin
)

// UserRef is the backend's profile snapshot for one account.
type UserRef = gateway.UserRef

// Direction classifies a transaction from the session owner's point of view.
type Direction uint8

const (
	// DirectionSent marks funds leaving the session owner's balance.
	DirectionSent Direction = iota
	// DirectionReceived marks funds arriving.
	DirectionReceived
)

// String returns "sent" or "received".
func (d Direction) String() string {
	if d == DirectionReceived {
		return "received"
	}
	return "sent"
}

// TransactionRecord is one ledger entry in the client's view: direction,
// counterparty, amount, and timestamp. The sequence it belongs to is replaced
// wholesale on every fetch, never merged.
type TransactionRecord struct {
	Direction    Direction
	Counterparty string
	Amount       float64
	Timestamp    time.Time
}

// transactionRecords maps the backend's wire entries into client records.
func transactionRecords(wire []gateway.Transaction) []TransactionRecord {
	if wire == nil {
		return nil
	}

	out := make([]TransactionRecord, 0, len(wire))
	for _, txn := range wire {
		record := TransactionRecord{
			Amount:    txn.Amount,
			Timestamp: txn.Date,
		}
		if txn.Type == "send" {
			record.Direction = DirectionSent
			record.Counterparty = txn.To
		} else {
			record.Direction = DirectionReceived
			record.Counterparty = txn.From
		}
		out = append(out, record)
	}
	return out
}

// LoginResult is returned by [Client.Login]: the granted role plus the
// initial authoritative balance and history.
type LoginResult struct {
	Role    Role
	User    UserRef
	Balance float64
	History []TransactionRecord
}

// AuditEvent is one observed client action or outcome.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the client's dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] writing one JSON object per line.
type JSONWriterSink = internalaudit.JSONWriterSink
