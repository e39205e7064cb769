package otel

import (
	"context"
	"errors"
	"fmt"

	payease "github.com/abhi-bhosle/payease"
	"github.com/abhi-bhosle/payease/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() payease.MetricsSnapshot
	AuditDropped() uint64
}

// instruments groups everything the collection callback observes. Counters are
// index-aligned with internaldefs.CounterDefs, histograms with HistogramDefs.
type instruments struct {
	counters     []metric.Int64ObservableCounter
	histograms   []histogramInstruments
	auditDropped metric.Int64ObservableCounter
}

// histogramInstruments carries one bucket gauge per bound plus the sample
// count, since the OTel API has no observable histogram.
type histogramInstruments struct {
	buckets [8]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// OTelExporter mirrors client metrics into OpenTelemetry instruments through a
// single registered callback.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
}

// NewOTelExporter registers instruments on meter that observe client.
func NewOTelExporter(meter metric.Meter, client *payease.Client) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, client)
}

// NewOTelExporterFromSource registers instruments observing a custom source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	ins, observables, err := buildInstruments(meter)
	if err != nil {
		return nil, err
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observe(observer, ins, source)
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	return &OTelExporter{source: source, registration: registration}, nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}

func buildInstruments(meter metric.Meter) (*instruments, []metric.Observable, error) {
	ins := &instruments{
		counters:   make([]metric.Int64ObservableCounter, 0, len(internaldefs.CounterDefs)),
		histograms: make([]histogramInstruments, 0, len(internaldefs.HistogramDefs)),
	}
	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+len(internaldefs.HistogramDefs)*9+1)

	for _, def := range internaldefs.CounterDefs {
		counter, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		ins.counters = append(ins.counters, counter)
		observables = append(observables, counter)
	}

	for _, def := range internaldefs.HistogramDefs {
		var h histogramInstruments
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			name := def.Name + "_bucket_le_" + suffix
			gauge, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative histogram bucket count."))
			if err != nil {
				return nil, nil, fmt.Errorf("create histogram bucket gauge %s: %w", name, err)
			}
			h.buckets[i] = gauge
			observables = append(observables, gauge)
		}

		count, err := meter.Int64ObservableGauge(def.Name+"_count", metric.WithDescription("Histogram total sample count."))
		if err != nil {
			return nil, nil, fmt.Errorf("create histogram count gauge %s_count: %w", def.Name, err)
		}
		h.count = count
		observables = append(observables, count)
		ins.histograms = append(ins.histograms, h)
	}

	dropped, err := meter.Int64ObservableCounter(
		"payease_audit_dropped_total",
		metric.WithDescription("Dropped audit events due to dispatcher backpressure."),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	ins.auditDropped = dropped
	observables = append(observables, dropped)

	return ins, observables, nil
}

func observe(observer metric.Observer, ins *instruments, source metricsSource) {
	snapshot := source.MetricsSnapshot()

	for i, def := range internaldefs.CounterDefs {
		observer.ObserveInt64(ins.counters[i], int64(snapshot.Counters[def.ID]))
	}

	for i, def := range internaldefs.HistogramDefs {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[def.ID]))
		for j, gauge := range ins.histograms[i].buckets {
			observer.ObserveInt64(gauge, int64(cumulative[j]))
		}
		observer.ObserveInt64(ins.histograms[i].count, int64(cumulative[len(cumulative)-1]))
	}

	observer.ObserveInt64(ins.auditDropped, int64(source.AuditDropped()))
}
