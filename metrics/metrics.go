package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// AttrOK is a metric tag to indicate a successful operation.
	AttrOK = attribute.Key("status").String("ok")
	// AttrError is a metric tag to indicate a failed operation.
	AttrError = attribute.Key("status").String("error")
)

// Operation instruments a family of timed operations: a counter of calls and
// a histogram of their duration in milliseconds.
type Operation struct {
	Calls    metric.Int64Counter
	Duration metric.Int64Histogram
}

// NewOperation registers the name+"_total" counter and the
// name+"_duration_millis" histogram in meter.
func NewOperation(meter metric.MeterMust, name string) Operation {
	return Operation{
		Calls:    meter.NewInt64Counter(name + "_total"),
		Duration: meter.NewInt64Histogram(name + "_duration_millis"),
	}
}

// Record counts one call that started at start and failed if err isn't nil.
// It's meant to be deferred.
func (o Operation) Record(ctx context.Context, start time.Time, err error, labels ...attribute.KeyValue) {
	MetricIncrCounter(ctx, err, o.Calls, labels...)
	o.Duration.Record(ctx, time.Since(start).Milliseconds(), append(labels, status(err))...)
}

// MetricIncrCounter increments the specified Int64Counter by 1. Depending if err
// is nil or not, it will use AttrOK or AttrError respectively. This method is a helper
// for deferring in methods.
func MetricIncrCounter(ctx context.Context, err error, m metric.Int64Counter, labels ...attribute.KeyValue) {
	m.Add(ctx, 1, append(labels, status(err))...)
}

func status(err error) attribute.KeyValue {
	if err != nil {
		return AttrError
	}
	return AttrOK
}
