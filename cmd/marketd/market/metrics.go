package market

import (
	"github.com/flocx/flocx-market/cmd/marketd/metrics"
	rootmetrics "github.com/flocx/flocx-market/metrics"
)

type managerMetrics struct {
	rootmetrics.Operation
}

func newManagerMetrics() *managerMetrics {
	return &managerMetrics{
		Operation: rootmetrics.NewOperation(metrics.Meter, metrics.Prefix+".operations"),
	}
}
