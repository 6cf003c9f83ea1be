package gpubsub

import (
	"context"
	"time"

	"github.com/flocx/flocx-market/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type metricsCollector interface {
	onPublish(ctx context.Context, topic string, start time.Time, err error)
}

type noopMetricsCollector struct{}

func (noopMetricsCollector) onPublish(context.Context, string, time.Time, error) {}

// otelMetricsCollector counts publications per topic and status, and records
// how long the broker took to acknowledge them.
type otelMetricsCollector struct {
	publish metrics.Operation
}

func (c *otelMetricsCollector) onPublish(ctx context.Context, topic string, start time.Time, err error) {
	c.publish.Record(ctx, start, err, attribute.String("topic", topic))
}

func (p *PubsubMsgBroker) initMetrics(meter metric.MeterMust) {
	p.metrics = &otelMetricsCollector{
		publish: metrics.NewOperation(meter, "gpubsub_publish"),
	}
}
