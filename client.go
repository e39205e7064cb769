package payease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhi-bhosle/payease/gateway"
	internalaudit "github.com/abhi-bhosle/payease/internal/audit"
	"github.com/abhi-bhosle/payease/session"
)

// Client is the assembled wallet client. Instances are configured through a
// [Builder] and treated as immutable afterwards; all mutable state lives in
// the session store and the workflows the client hands out.
type Client struct {
	config   Config
	gw       gateway.API
	sessions *session.Store
	audit    *internalaudit.Dispatcher
	metrics  *Metrics
}

// Close stops the audit dispatcher after draining buffered events.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// Session returns a copy of the current session.
func (c *Client) Session() session.Session {
	if c == nil || c.sessions == nil {
		return session.Session{}
	}
	return c.sessions.Current()
}

// Sessions exposes the underlying store for callers that persist through
// their own lifecycle hooks.
func (c *Client) Sessions() *session.Store {
	if c == nil {
		return nil
	}
	return c.sessions
}

// MetricsSnapshot returns a deep copy of all metrics.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under backpressure.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil {
		return
	}
	c.metrics.Inc(id)
}

// forceLogout invalidates the session after the backend (or a stale token
// marker) rejected it. Errors from the store are deliberately not returned:
// the in-memory session is gone either way and the caller already holds the
// triggering error.
func (c *Client) forceLogout(ctx context.Context, eventType, reason string) {
	c.emit(ctx, eventType, false, reason, nil)
	_ = c.sessions.Logout(ctx)
	c.metricInc(MetricSessionExpired)
}

// wrapGateway translates a raw gateway error into the taxonomy: transport
// deadline becomes ErrTimeout, everything else wraps the matching sentinel.
// The cause stays in the chain so UserMessage can recover a StatusError's
// server message verbatim.
func wrapGateway(sentinel error, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

func (c *Client) observeSubmitLatency(d time.Duration) {
	if c == nil {
		return
	}
	c.metrics.ObserveSubmitLatency(d)
}
