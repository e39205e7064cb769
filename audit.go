package payease

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/abhi-bhosle/payease/internal/audit"
)

// Audit event types emitted by the client.
const (
	EventLoginSuccess       = "login.success"
	EventLoginFailure       = "login.failure"
	EventRegisterSuccess    = "register.success"
	EventRegisterFailure    = "register.failure"
	EventLogout             = "logout"
	EventSessionExpired     = "session.expired"
	EventViewDenied         = "view.denied"
	EventTransferSettled    = "transfer.settled"
	EventTransferRejected   = "transfer.rejected"
	EventRosterLoaded       = "roster.loaded"
	EventRosterDeleted      = "roster.deleted"
	EventRosterDeleteFailed = "roster.delete_failed"
)

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *internalaudit.Dispatcher {
	return internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

// emit records an event against the current session. Safe on a nil client or
// disabled dispatcher.
func (c *Client) emit(ctx context.Context, eventType string, success bool, errMsg string, metadata map[string]string) {
	if c == nil || c.audit == nil {
		return
	}

	event := internalaudit.Event{
		Timestamp: time.Now(),
		EventType: eventType,
		Success:   success,
		Error:     errMsg,
		Metadata:  metadata,
	}
	if sess := c.sessions.Current(); sess.Identity != nil {
		event.Username = sess.Identity.Username
		event.Role = sess.Role.String()
	}

	c.audit.Emit(ctx, event)
}
