package auth

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned when a scoped caller acts on an entity owned by
	// another project.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrRequiresAdmin is returned for role-gated actions attempted by a scoped caller,
	// regardless of ownership.
	ErrRequiresAdmin = errors.New("requires admin")
	// ErrInvalidScope is returned when a non-admin scope carries no project.
	ErrInvalidScope = errors.New("non-admin scope without project id")
)

// Action is an operation a caller attempts on an entity.
type Action int

const (
	// ActionRead reads a single entity.
	ActionRead Action = iota
	// ActionReadAll lists entities.
	ActionReadAll
	// ActionCreate creates an entity.
	ActionCreate
	// ActionUpdate mutates an entity.
	ActionUpdate
	// ActionDestroy deletes an entity.
	ActionDestroy
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionReadAll:
		return "read_all"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDestroy:
		return "destroy"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Scope identifies the caller of a request.
type Scope struct {
	IsAdmin   bool
	ProjectID string
}

// Admin returns an administrator scope.
func Admin() Scope {
	return Scope{IsAdmin: true}
}

// Project returns a scope bound to projectID.
func Project(projectID string) Scope {
	return Scope{ProjectID: projectID}
}

// Validate checks the scope invariant: non-admin scopes carry a project.
func (s Scope) Validate() error {
	if !s.IsAdmin && s.ProjectID == "" {
		return ErrInvalidScope
	}
	return nil
}

// ProjectFilter is the project a listing must be restricted to before the store
// is queried. It's empty for administrators.
func (s Scope) ProjectFilter() string {
	if s.IsAdmin {
		return ""
	}
	return s.ProjectID
}

// Owner returns the owner project recorded on a created entity. Scoped callers
// always own what they create; administrators may create on behalf of any project.
func (s Scope) Owner(requested string) string {
	if s.IsAdmin {
		return requested
	}
	return s.ProjectID
}

// Authorize decides whether s may perform a on an entity owned by owner.
// Listing and creation are open to every valid scope; listings are narrowed
// with ProjectFilter and creations with Owner.
func Authorize(s Scope, owner string, a Action) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.IsAdmin {
		return nil
	}
	switch a {
	case ActionReadAll, ActionCreate:
		return nil
	case ActionRead, ActionUpdate, ActionDestroy:
		if s.ProjectID == owner {
			return nil
		}
		return fmt.Errorf("%s entity of project %s from project %s: %w", a, owner, s.ProjectID, ErrPermissionDenied)
	default:
		return fmt.Errorf("unknown action %s: %w", a, ErrPermissionDenied)
	}
}

// RequireAdmin gates role-restricted actions.
func RequireAdmin(s Scope, a Action) error {
	if s.IsAdmin {
		return nil
	}
	return fmt.Errorf("%s: %w", a, ErrRequiresAdmin)
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the scope carried by ctx.
func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(ctxKey{}).(Scope)
	return s, ok
}
