package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/flocx/flocx-market/auth"
	"github.com/flocx/flocx-market/market"
)

// ErrUnknownResourceType is returned when no oracle serves a resource type.
var ErrUnknownResourceType = errors.New("unknown resource type")

// Oracle answers whether the caller's project administers a physical resource.
type Oracle interface {
	IsResourceAdmin(ctx context.Context, rt market.ResourceType, resourceID string, s auth.Scope) (bool, error)
}

// Registry dispatches ownership questions to the oracle registered for the
// resource type.
type Registry struct {
	lock    sync.RWMutex
	oracles map[market.ResourceType]Oracle
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{oracles: map[market.ResourceType]Oracle{}}
}

// Register makes o responsible for rt.
func (r *Registry) Register(rt market.ResourceType, o Oracle) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.oracles[rt] = o
}

// IsResourceAdmin implements Oracle.
func (r *Registry) IsResourceAdmin(ctx context.Context, rt market.ResourceType, resourceID string, s auth.Scope) (bool, error) {
	r.lock.RLock()
	o, ok := r.oracles[rt]
	r.lock.RUnlock()
	if !ok {
		return false, fmt.Errorf("resource type %q: %w", rt, ErrUnknownResourceType)
	}
	return o.IsResourceAdmin(ctx, rt, resourceID, s)
}

// Static answers from a fixed project to resources allow-list.
type Static struct {
	admins map[string]map[string]struct{}
}

// NewStatic returns a Static oracle for the given project to resource ids mapping.
func NewStatic(admins map[string][]string) *Static {
	s := &Static{admins: make(map[string]map[string]struct{}, len(admins))}
	for project, resources := range admins {
		set := make(map[string]struct{}, len(resources))
		for _, r := range resources {
			set[r] = struct{}{}
		}
		s.admins[project] = set
	}
	return s
}

// ParseStatic builds a Static oracle from entries formatted as
// "project=resource1,resource2".
func ParseStatic(entries []string) (*Static, error) {
	admins := map[string][]string{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		parts := strings.SplitN(e, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("malformed resource admin entry %q", e)
		}
		for _, r := range strings.Split(parts[1], ",") {
			if r = strings.TrimSpace(r); r != "" {
				admins[parts[0]] = append(admins[parts[0]], r)
			}
		}
	}
	return NewStatic(admins), nil
}

// IsResourceAdmin implements Oracle. Administrators administer every resource.
func (s *Static) IsResourceAdmin(_ context.Context, _ market.ResourceType, resourceID string, sc auth.Scope) (bool, error) {
	if sc.IsAdmin {
		return true, nil
	}
	_, ok := s.admins[sc.ProjectID][resourceID]
	return ok, nil
}
