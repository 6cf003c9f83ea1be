package market

import (
	"context"
	"fmt"
	"time"

	"github.com/flocx/flocx-market/auth"
	"github.com/flocx/flocx-market/market"
	"go.opentelemetry.io/otel/attribute"
)

// entity is the constraint satisfied by every market entity kind.
type entity interface {
	market.Expirable
}

// descriptor tells a Manager how to handle one entity kind.
type descriptor[T entity] struct {
	kind string
	id   func(T) string
	// owner returns the owning project. Kinds without an owner are readable by
	// every scope and only writable by administrators.
	owner    func(T) string
	validate func(T) error
	expire   func(*T)
}

func (d descriptor[T]) owned() bool {
	return d.owner != nil
}

// Manager implements the lifecycle operations shared by all entity kinds.
// Existence is always checked before permission: an unknown id is reported as
// market.ErrNotFound to every caller, admin or not.
type Manager[T entity] struct {
	d       descriptor[T]
	store   Store[T]
	now     func() time.Time
	metrics *managerMetrics
}

func newManager[T entity](d descriptor[T], s Store[T], now func() time.Time, mm *managerMetrics) *Manager[T] {
	return &Manager[T]{
		d:       d,
		store:   s,
		now:     now,
		metrics: mm,
	}
}

// Kind returns the entity kind name.
func (m *Manager[T]) Kind() string {
	return m.d.kind
}

// ID returns the identifier of e.
func (m *Manager[T]) ID(e T) string {
	return m.d.id(e)
}

// Get returns the entity with the given id.
func (m *Manager[T]) Get(ctx context.Context, s auth.Scope, id string) (e T, err error) {
	defer m.track(ctx, "get", time.Now(), &err)

	if err := s.Validate(); err != nil {
		return e, err
	}
	e, err = m.fetch(ctx, id)
	if err != nil {
		return e, err
	}
	if m.d.owned() {
		if err := auth.Authorize(s, m.d.owner(e), auth.ActionRead); err != nil {
			var zero T
			return zero, err
		}
	}
	return e, nil
}

// GetAll lists entities matching f. Scoped callers only see their own
// project's entities; the restriction is part of the store query.
func (m *Manager[T]) GetAll(ctx context.Context, s auth.Scope, f market.Filter) (es []T, err error) {
	defer m.track(ctx, "get_all", time.Now(), &err)

	if err := auth.Authorize(s, "", auth.ActionReadAll); err != nil {
		return nil, err
	}
	if m.d.owned() && !s.IsAdmin {
		f.ProjectID = s.ProjectFilter()
	}
	es, err = m.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing %ss: %w", m.d.kind, err)
	}
	return es, nil
}

// GetAllByProjectID lists the caller's entities, or every entity for
// administrators.
func (m *Manager[T]) GetAllByProjectID(ctx context.Context, s auth.Scope) ([]T, error) {
	return m.GetAll(ctx, s, market.Filter{})
}

// GetAllUnexpired lists entities matching f that are available and whose end
// time is in the future. The current time is read once for the whole listing.
func (m *Manager[T]) GetAllUnexpired(ctx context.Context, s auth.Scope, f market.Filter) ([]T, error) {
	f.ActiveAt = m.now()
	f.LapsedAt = time.Time{}
	return m.GetAll(ctx, s, f)
}

// GetAllLapsed lists entities that are still available although their end
// time passed. These are the entities an expiry sweep transitions.
func (m *Manager[T]) GetAllLapsed(ctx context.Context, s auth.Scope, f market.Filter) ([]T, error) {
	f.LapsedAt = m.now()
	f.ActiveAt = time.Time{}
	return m.GetAll(ctx, s, f)
}

// Destroy deletes the entity with the given id. Destroying an already deleted
// entity returns market.ErrNotFound.
func (m *Manager[T]) Destroy(ctx context.Context, s auth.Scope, id string) (err error) {
	defer m.track(ctx, "destroy", time.Now(), &err)

	if err := s.Validate(); err != nil {
		return err
	}
	e, err := m.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := m.authorizeWrite(s, e, auth.ActionDestroy); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting %s %s: %w", m.d.kind, id, err)
	}
	log.Debugf("%s %s destroyed", m.d.kind, id)
	return nil
}

// Expire moves the entity with the given id to the expired status.
func (m *Manager[T]) Expire(ctx context.Context, s auth.Scope, id string) (T, error) {
	return m.mutate(ctx, s, id, "expire", m.d.expire)
}

// mutate fetches the entity, authorizes the caller, applies change and
// persists the result after validating it.
func (m *Manager[T]) mutate(ctx context.Context, s auth.Scope, id, op string, change func(*T)) (e T, err error) {
	defer m.track(ctx, op, time.Now(), &err)

	if err := s.Validate(); err != nil {
		return e, err
	}
	e, err = m.fetch(ctx, id)
	if err != nil {
		return e, err
	}
	var zero T
	if err := m.authorizeWrite(s, e, auth.ActionUpdate); err != nil {
		return zero, err
	}
	change(&e)
	if err := m.d.validate(e); err != nil {
		return zero, err
	}
	updated, err := m.store.Update(ctx, e)
	if err != nil {
		return zero, fmt.Errorf("updating %s %s: %w", m.d.kind, id, err)
	}
	log.Debugf("%s %s: %s", op, m.d.kind, m.d.id(updated))
	return updated, nil
}

func (m *Manager[T]) fetch(ctx context.Context, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, fmt.Errorf("%s id is empty: %w", m.d.kind, market.ErrNotFound)
	}
	e, err := m.store.Get(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("getting %s %s: %w", m.d.kind, id, err)
	}
	return e, nil
}

func (m *Manager[T]) authorizeWrite(s auth.Scope, e T, a auth.Action) error {
	if !m.d.owned() {
		return auth.RequireAdmin(s, a)
	}
	return auth.Authorize(s, m.d.owner(e), a)
}

func (m *Manager[T]) track(ctx context.Context, op string, start time.Time, err *error) {
	if m.metrics == nil {
		return
	}
	m.metrics.Record(ctx, start, *err, attribute.String("entity", m.d.kind), attribute.String("op", op))
}
