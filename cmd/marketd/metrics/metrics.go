package metrics

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
)

// Prefix is the prefix of every marketd metric name.
var Prefix = "marketd"

// Meter is the meter of marketd components.
var Meter = metric.Must(global.Meter(Prefix))
