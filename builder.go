package payease

import (
	"context"
	"errors"
	"net/http"

	"github.com/abhi-bhosle/payease/gateway"
	"github.com/abhi-bhosle/payease/session"
	"github.com/redis/go-redis/v9"
)

// Builder assembles a [Client]. Configure it once, call Build once.
type Builder struct {
	config Config

	gw        gateway.API
	kv        session.KV
	redis     *redis.Client
	auditSink AuditSink

	built bool
}

// New creates a Builder pre-loaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the wallet backend address the default gateway client
// talks to.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.Gateway.BaseURL = baseURL
	return b
}

// WithGateway injects a custom backend implementation, replacing the default
// HTTP client. BaseURL is ignored when a gateway is injected.
func (b *Builder) WithGateway(gw gateway.API) *Builder {
	b.gw = gw
	return b
}

// WithSessionBackend sets the durable store behind the session. Takes
// precedence over WithRedis.
func (b *Builder) WithSessionBackend(kv session.KV) *Builder {
	b.kv = kv
	return b
}

// WithSessionFile persists the session to a JSON file at path, the durable
// default for single-host clients.
func (b *Builder) WithSessionFile(path string) *Builder {
	b.kv = session.NewFileKV(path)
	return b
}

// WithRedis persists the session to Redis.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAuditSink routes audit events to sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles in-process metrics.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the submit-latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, assembles the client, and restores any
// persisted session. Restore performs no network call; a missing or corrupt
// persisted session yields a logged-out client, never an error.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kv := b.kv
	if kv == nil && b.redis != nil {
		kv = session.NewRedisKV(b.redis, "pe")
	}
	if kv == nil {
		kv = session.NewMemoryKV()
	}

	store := session.NewStore(kv, cfg.Session.TokenLeeway)

	gw := b.gw
	if gw == nil {
		if cfg.Gateway.BaseURL == "" {
			return nil, errors.New("gateway base URL or custom gateway required")
		}

		httpClient := &http.Client{Timeout: cfg.Gateway.Timeout}
		client, err := gateway.NewClient(
			cfg.Gateway.BaseURL,
			gateway.WithHTTPClient(httpClient),
			gateway.WithTokenSource(func() string {
				return store.Current().Token
			}),
		)
		if err != nil {
			return nil, err
		}
		gw = client
	}

	client := &Client{
		config:   cfg,
		gw:       gw,
		sessions: store,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
	}

	if restored := store.Restore(context.Background()); restored.Authenticated {
		client.metricInc(MetricSessionRestored)
	}

	b.built = true

	return client, nil
}
