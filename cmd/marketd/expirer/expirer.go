package expirer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/flocx/flocx-market/auth"
	mm "github.com/flocx/flocx-market/cmd/marketd/market"
	"github.com/flocx/flocx-market/market"
	rootmetrics "github.com/flocx/flocx-market/metrics"
	"github.com/flocx/flocx-market/msgbroker"
	logger "github.com/textileio/go-log/v2"
	"go.opentelemetry.io/otel/metric"
)

var log = logger.Logger("expirer")

// Expirer periodically transitions available entities whose end time has
// passed to the expired status.
type Expirer struct {
	m   *mm.Market
	mb  msgbroker.MsgBroker
	cfg config

	onceClose       sync.Once
	daemonCtx       context.Context
	daemonCancelCtx context.CancelFunc
	daemonClosed    chan struct{}

	lock             sync.Mutex
	statLastSwept    time.Time
	statLastExpired  int64
	metricExpired    metric.Int64Counter
	metricSweep      rootmetrics.Operation
	metricLastSwept  metric.Int64GaugeObserver
	metricLastExpire metric.Int64GaugeObserver
}

// New returns a new Expirer and starts its sweep daemon.
func New(m *mm.Market, mb msgbroker.MsgBroker, opts ...Option) (*Expirer, error) {
	if m == nil {
		return nil, errors.New("market is nil")
	}
	if mb == nil {
		return nil, errors.New("msgbroker is nil")
	}
	cfg := defaultConfig
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("applying option: %s", err)
		}
	}

	ctx, cls := context.WithCancel(context.Background())
	e := &Expirer{
		m:   m,
		mb:  mb,
		cfg: cfg,

		daemonCtx:       ctx,
		daemonCancelCtx: cls,
		daemonClosed:    make(chan struct{}),
	}
	e.initMetrics()
	go e.daemon()

	return e, nil
}

// Close stops the sweep daemon, waiting for a running sweep to finish.
func (e *Expirer) Close() error {
	log.Info("closing expirer...")
	e.onceClose.Do(func() {
		e.daemonCancelCtx()
		<-e.daemonClosed
	})
	return nil
}

func (e *Expirer) daemon() {
	defer close(e.daemonClosed)

	for {
		select {
		case <-e.daemonCtx.Done():
			log.Info("expirer closed")
			return
		case <-time.After(e.cfg.frequency):
		}
		if _, err := e.Sweep(e.daemonCtx); err != nil {
			log.Errorf("sweeping lapsed entities: %s", err)
		}
	}
}

// Sweep expires every lapsed entity, up to the configured batch size per
// kind, and returns how many were expired.
func (e *Expirer) Sweep(ctx context.Context) (total int, err error) {
	start := time.Now()
	defer func() { e.metricSweep.Record(ctx, start, err) }()
	sweeps := []func(context.Context) (int, error){
		func(ctx context.Context) (int, error) { return sweep[market.Bid](ctx, e, e.m.Bids) },
		func(ctx context.Context) (int, error) { return sweep[market.Offer](ctx, e, e.m.Offers) },
		func(ctx context.Context) (int, error) { return sweep[market.Contract](ctx, e, e.m.Contracts) },
		func(ctx context.Context) (int, error) {
			return sweep[market.OfferContractRelationship](ctx, e, e.m.Relationships)
		},
	}
	for _, s := range sweeps {
		var n int
		n, err = s(ctx)
		total += n
		if err != nil {
			return total, err
		}
	}

	e.lock.Lock()
	e.statLastSwept = time.Now()
	e.statLastExpired = int64(total)
	e.lock.Unlock()
	if total > 0 {
		log.Infof("expired %d entities in %s", total, time.Since(start))
	}
	return total, nil
}

// lapsedExpirer is the part of an entity manager a sweep needs.
type lapsedExpirer[T market.Expirable] interface {
	Kind() string
	ID(e T) string
	GetAllLapsed(ctx context.Context, s auth.Scope, f market.Filter) ([]T, error)
	Expire(ctx context.Context, s auth.Scope, id string) (T, error)
}

func sweep[T market.Expirable](ctx context.Context, e *Expirer, m lapsedExpirer[T]) (int, error) {
	kind := m.Kind()
	admin := auth.Admin()
	lapsed, err := m.GetAllLapsed(ctx, admin, market.Filter{})
	if err != nil {
		return 0, fmt.Errorf("listing lapsed %s: %s", kind, err)
	}
	if e.cfg.batchSize > 0 && len(lapsed) > e.cfg.batchSize {
		lapsed = lapsed[:e.cfg.batchSize]
	}

	var expired int
	for _, l := range lapsed {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		entityID := m.ID(l)
		if _, err := m.Expire(ctx, admin, entityID); err != nil {
			log.Errorf("expiring %s %s: %s", kind, entityID, err)
			continue
		}
		expired++
		e.metricExpired.Add(ctx, 1, attrKind(kind))
		ended := humanize.RelTime(l.ExpiresAt(), time.Now(), "ago", "from now")
		log.Debugf("expired %s %s, ended %s", kind, entityID, ended)

		if err := msgbroker.PublishMsgEntityExpired(ctx, e.mb, kind, entityID, l.ExpiresAt()); err != nil {
			log.Errorf("publishing entity-expired for %s %s: %s", kind, entityID, err)
		}
	}
	return expired, nil
}
