package internaldefs

import (
	payease "github.com/abhi-bhosle/payease"
)

// CounterDef binds one core counter to its exported name and help text.
type CounterDef struct {
	ID   payease.MetricID
	Name string
	Help string
}

// HistogramDef binds one core histogram to its exported name and help text.
type HistogramDef struct {
	ID   payease.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter, in a stable order.
var CounterDefs = []CounterDef{
	{ID: payease.MetricLoginSuccess, Name: "payease_login_success_total", Help: "Successful logins."},
	{ID: payease.MetricLoginFailure, Name: "payease_login_failure_total", Help: "Failed logins."},
	{ID: payease.MetricRegisterSuccess, Name: "payease_register_success_total", Help: "Successful registrations."},
	{ID: payease.MetricRegisterFailure, Name: "payease_register_failure_total", Help: "Failed registrations."},
	{ID: payease.MetricLogout, Name: "payease_logout_total", Help: "Logout operations."},
	{ID: payease.MetricSessionRestored, Name: "payease_session_restored_total", Help: "Sessions restored from durable state."},
	{ID: payease.MetricSessionExpired, Name: "payease_session_expired_total", Help: "Sessions dropped for a stale or rejected token."},
	{ID: payease.MetricViewDenied, Name: "payease_view_denied_total", Help: "Protected-view entries refused by the router."},
	{ID: payease.MetricTransferValidationFailed, Name: "payease_transfer_validation_failed_total", Help: "Transfers rejected before any network call."},
	{ID: payease.MetricTransferSettled, Name: "payease_transfer_settled_total", Help: "Server-confirmed transfers."},
	{ID: payease.MetricTransferRejected, Name: "payease_transfer_rejected_total", Help: "Transfers the backend or transport rejected."},
	{ID: payease.MetricTransferDiscarded, Name: "payease_transfer_discarded_total", Help: "Transfer responses dropped after workflow teardown."},
	{ID: payease.MetricHydrateSuccess, Name: "payease_hydrate_success_total", Help: "Successful account snapshot fetches."},
	{ID: payease.MetricHydrateFailure, Name: "payease_hydrate_failure_total", Help: "Failed account snapshot fetches."},
	{ID: payease.MetricRosterLoadSuccess, Name: "payease_roster_load_success_total", Help: "Successful roster loads."},
	{ID: payease.MetricRosterLoadFailure, Name: "payease_roster_load_failure_total", Help: "Failed roster loads."},
	{ID: payease.MetricRosterDeleteSuccess, Name: "payease_roster_delete_success_total", Help: "Confirmed roster deletions."},
	{ID: payease.MetricRosterDeleteFailure, Name: "payease_roster_delete_failure_total", Help: "Failed roster deletions."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: payease.MetricSubmitLatency, Name: "payease_submit_latency_seconds", Help: "Transfer submission latency histogram."},
}

// HistogramBounds are the bucket upper bounds as Prometheus le label values.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are the bounds as metric-name-safe suffixes, for
// exporters that cannot carry labels.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed bucket
// count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus histograms use; the last element is the total sample count.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
