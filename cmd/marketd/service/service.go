package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flocx/flocx-market/auth"
	"github.com/flocx/flocx-market/cmd/marketd/expirer"
	"github.com/flocx/flocx-market/cmd/marketd/httpapi"
	"github.com/flocx/flocx-market/cmd/marketd/market"
	"github.com/flocx/flocx-market/cmd/marketd/memstore"
	"github.com/flocx/flocx-market/cmd/marketd/metrics"
	"github.com/flocx/flocx-market/cmd/marketd/store"
	mkt "github.com/flocx/flocx-market/market"
	"github.com/flocx/flocx-market/msgbroker"
	"github.com/flocx/flocx-market/msgbroker/gpubsub"
	"github.com/flocx/flocx-market/resource"
	"github.com/flocx/flocx-market/resource/ironic"
	logging "github.com/textileio/go-log/v2"
)

var log = logging.Logger("service")

// Config defines params for Service configuration.
type Config struct {
	HTTPListenAddr string
	TokenSecret    string

	// PostgresURI selects the Postgres store. An empty value keeps every
	// entity in memory.
	PostgresURI string

	SweepInterval time.Duration
	SweepBatch    int

	// ResourceAdmins entries have the "project=node1,node2" form. They're used
	// when no Ironic endpoint is configured.
	ResourceAdmins []string
	IronicURL      string
	IronicToken    string

	GPubsubProjectID     string
	GPubsubAPIKey        string
	MsgBrokerTopicPrefix string
}

// Service wires the market with its store, transport and background jobs.
type Service struct {
	market  *market.Market
	server  *http.Server
	expirer *expirer.Expirer
	closers []io.Closer
}

// New returns a new Service.
func New(conf Config) (*Service, error) {
	if err := validateConfig(conf); err != nil {
		return nil, fmt.Errorf("config is invalid: %s", err)
	}
	s := &Service{}

	deps, err := s.createStores(conf)
	if err != nil {
		return nil, s.cleanupf("creating store: %s", err)
	}
	if deps.Oracle, err = createOracle(conf); err != nil {
		return nil, s.cleanupf("creating resource oracle: %s", err)
	}
	if deps.MsgBroker, err = s.createMsgBroker(conf); err != nil {
		return nil, s.cleanupf("creating msgbroker: %s", err)
	}

	if s.market, err = market.New(deps); err != nil {
		return nil, s.cleanupf("creating market: %s", err)
	}
	s.expirer, err = expirer.New(
		s.market,
		deps.MsgBroker,
		expirer.WithFrequency(conf.SweepInterval),
		expirer.WithBatchSize(conf.SweepBatch))
	if err != nil {
		return nil, s.cleanupf("creating expirer: %s", err)
	}
	s.closers = append(s.closers, s.expirer)

	tokens, err := auth.NewTokens(conf.TokenSecret)
	if err != nil {
		return nil, s.cleanupf("creating token parser: %s", err)
	}
	if s.server, err = httpapi.NewServer(conf.HTTPListenAddr, s.market, tokens); err != nil {
		return nil, s.cleanupf("creating http server: %s", err)
	}

	return s, nil
}

func validateConfig(conf Config) error {
	if conf.HTTPListenAddr == "" {
		return errors.New("http listen addr is empty")
	}
	if conf.TokenSecret == "" {
		return errors.New("token secret is empty")
	}
	if conf.SweepInterval <= 0 {
		return errors.New("sweep interval must be positive")
	}
	if conf.GPubsubProjectID != "" && conf.MsgBrokerTopicPrefix == "" {
		return errors.New("msgbroker topic prefix is empty")
	}
	return nil
}

func (s *Service) createStores(conf Config) (market.Deps, error) {
	if conf.PostgresURI == "" {
		log.Warn("no postgres uri configured, keeping the market in memory")
		ms := memstore.New()
		return market.Deps{
			Bids:          ms.Bids(),
			Offers:        ms.Offers(),
			Contracts:     ms.Contracts(),
			Relationships: ms.Relationships(),
		}, nil
	}
	ps, err := store.New(conf.PostgresURI)
	if err != nil {
		return market.Deps{}, err
	}
	s.closers = append(s.closers, ps)
	return market.Deps{
		Bids:          ps.Bids(),
		Offers:        ps.Offers(),
		Contracts:     ps.Contracts(),
		Relationships: ps.Relationships(),
	}, nil
}

func createOracle(conf Config) (resource.Oracle, error) {
	reg := resource.NewRegistry()
	if conf.IronicURL != "" {
		c, err := ironic.New(conf.IronicURL, conf.IronicToken)
		if err != nil {
			return nil, err
		}
		reg.Register(mkt.IronicNode, c)
		return reg, nil
	}
	static, err := resource.ParseStatic(conf.ResourceAdmins)
	if err != nil {
		return nil, err
	}
	reg.Register(mkt.IronicNode, static)
	return reg, nil
}

func (s *Service) createMsgBroker(conf Config) (msgbroker.MsgBroker, error) {
	if conf.GPubsubProjectID == "" {
		log.Warn("no pubsub project configured, market events are only logged")
		return logBroker{}, nil
	}
	mb, err := gpubsub.New(conf.GPubsubProjectID, conf.GPubsubAPIKey, conf.MsgBrokerTopicPrefix, &metrics.Meter)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, mb)
	return mb, nil
}

// logBroker publishes messages to the log.
type logBroker struct{}

func (logBroker) PublishMsg(_ context.Context, topicName msgbroker.TopicName, data []byte) error {
	log.Debugf("%s: %s", topicName, data)
	return nil
}

func (s *Service) cleanupf(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	if cerr := s.closeAll(); cerr != nil {
		return fmt.Errorf("%s; cleaning up: %s", err, cerr)
	}
	return err
}

func (s *Service) closeAll() error {
	var errs []string
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	s.closers = nil
	if errs != nil {
		return errors.New(strings.Join(errs, "\n"))
	}
	return nil
}

// Close stops the HTTP API and the background jobs, then releases the store
// and the msgbroker.
func (s *Service) Close() error {
	var errs []string
	if err := s.server.Close(); err != nil {
		errs = append(errs, fmt.Sprintf("closing http api server: %s", err))
	}
	if err := s.closeAll(); err != nil {
		errs = append(errs, err.Error())
	}
	if errs != nil {
		return errors.New(strings.Join(errs, "\n"))
	}
	return nil
}
