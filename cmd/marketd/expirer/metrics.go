package expirer

import (
	"context"

	"github.com/flocx/flocx-market/cmd/marketd/metrics"
	rootmetrics "github.com/flocx/flocx-market/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func attrKind(kind string) attribute.KeyValue {
	return attribute.Key("entity").String(kind)
}

func (e *Expirer) initMetrics() {
	e.metricExpired = metrics.Meter.NewInt64Counter(metrics.Prefix + ".expired_total")
	e.metricSweep = rootmetrics.NewOperation(metrics.Meter, metrics.Prefix+".sweeps")
	e.metricLastSwept = metrics.Meter.NewInt64GaugeObserver(metrics.Prefix+".last_sweep_epoch", e.lastSweptCb)
	e.metricLastExpire = metrics.Meter.NewInt64GaugeObserver(metrics.Prefix+".last_sweep_expired", e.lastExpiredCb)
}

func (e *Expirer) lastSweptCb(ctx context.Context, r metric.Int64ObserverResult) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if !e.statLastSwept.IsZero() {
		r.Observe(e.statLastSwept.Unix())
	}
}

func (e *Expirer) lastExpiredCb(ctx context.Context, r metric.Int64ObserverResult) {
	e.lock.Lock()
	defer e.lock.Unlock()
	r.Observe(e.statLastExpired)
}
