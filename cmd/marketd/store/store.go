package store

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/flocx/flocx-market/cmd/marketd/store/internal/db"
	"github.com/flocx/flocx-market/cmd/marketd/store/migrations"
	"github.com/flocx/flocx-market/market"
	"github.com/flocx/flocx-market/storeutil"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/oklog/ulid/v2"
	logger "github.com/textileio/go-log/v2"
)

var log = logger.Logger("store")

// Store is a Postgres store for market entities.
type Store struct {
	conn *sql.DB
	db   *db.Queries

	lock    sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New returns a new Store, migrating the schema if needed.
func New(postgresURI string) (*Store, error) {
	conn, err := storeutil.MigrateAndConnectToDB(postgresURI, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("initializing db connection: %s", err)
	}

	s := &Store{
		conn: conn,
		db:   db.New(conn),
	}

	return s, nil
}

// Bids returns the bid table.
func (s *Store) Bids() *Bids { return &Bids{s: s} }

// Offers returns the offer table.
func (s *Store) Offers() *Offers { return &Offers{s: s} }

// Contracts returns the contract table.
func (s *Store) Contracts() *Contracts { return &Contracts{s: s} }

// Relationships returns the offer-contract relationship table.
func (s *Store) Relationships() *Relationships { return &Relationships{s: s} }

// Close closes the store.
func (s *Store) Close() error {
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("closing sql connection: %s", err)
	}
	return nil
}

func (s *Store) newID() (string, error) {
	s.lock.Lock()
	// Not deferring unlock since can be recursive.

	if s.entropy == nil {
		s.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), s.entropy)
	if errors.Is(err, ulid.ErrMonotonicOverflow) {
		s.entropy = nil
		s.lock.Unlock()
		return s.newID()
	} else if err != nil {
		s.lock.Unlock()
		return "", fmt.Errorf("generating id: %v", err)
	}
	s.lock.Unlock()
	return strings.ToLower(id.String()), nil
}

// classify maps driver errors to market error kinds.
func classify(kind, id string, err error) error {
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s %s: %w", kind, id, market.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502", "23503", "23505", "23514":
			log.Debugf("%s %s rejected by constraint %s: %s", kind, id, pgErr.ConstraintName, pgErr.Message)
			return fmt.Errorf("%s: %w", pgErr.Message, market.ErrConstraintViolation)
		}
	}
	return err
}

func expectOne(kind, id string, count int64, err error) error {
	if err != nil {
		return classify(kind, id, err)
	}
	if count == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, market.ErrNotFound)
	}
	return nil
}

func toJSONB(m map[string]interface{}) (pgtype.JSONB, error) {
	var j pgtype.JSONB
	if m == nil {
		j.Status = pgtype.Null
		return j, nil
	}
	if err := j.Set(m); err != nil {
		return j, fmt.Errorf("encoding json: %s", err)
	}
	return j, nil
}

func fromJSONB(j pgtype.JSONB) (map[string]interface{}, error) {
	var m map[string]interface{}
	if j.Status != pgtype.Present {
		return nil, nil
	}
	if err := j.AssignTo(&m); err != nil {
		return nil, fmt.Errorf("decoding json: %s", err)
	}
	return m, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
