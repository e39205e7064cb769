package payease

import (
	"errors"
	"time"
)

// Config is the full client configuration. Zero values are filled in by
// defaultConfig; Build validates the result.
type Config struct {
	Gateway  GatewayConfig
	Session  SessionConfig
	Transfer TransferConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// GatewayConfig configures the backend HTTP client.
type GatewayConfig struct {
	// BaseURL of the wallet backend, e.g. "http://localhost:5000". Required
	// unless a custom gateway is injected through the builder.
	BaseURL string
	// Timeout bounds every gateway request at the transport level.
	Timeout time.Duration
}

// SessionConfig configures the session store.
type SessionConfig struct {
	// TokenLeeway widens the bearer-token expiry check to absorb clock skew
	// between client and gateway.
	TokenLeeway time.Duration
}

// TransferConfig configures the transfer workflow.
type TransferConfig struct {
	// SubmitTimeout bounds one submission attempt; when it elapses the
	// workflow transitions to Rejected with ErrTimeout. Zero disables the
	// bound and an unresponsive backend keeps the workflow in Submitting.
	SubmitTimeout time.Duration
}

// AuditConfig controls the audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process metrics.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Gateway: GatewayConfig{
			Timeout: 15 * time.Second,
		},
		Session: SessionConfig{
			TokenLeeway: 30 * time.Second,
		},
		Transfer: TransferConfig{
			SubmitTimeout: 0,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations that cannot produce a working client.
func (c Config) Validate() error {
	if c.Gateway.Timeout < 0 {
		return errors.New("Gateway.Timeout must not be negative")
	}
	if c.Session.TokenLeeway < 0 {
		return errors.New("Session.TokenLeeway must not be negative")
	}
	if c.Transfer.SubmitTimeout < 0 {
		return errors.New("Transfer.SubmitTimeout must not be negative")
	}
	if c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	return nil
}
