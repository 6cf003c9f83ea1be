package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	owner := "1234"
	tests := []struct {
		name    string
		scope   Scope
		action  Action
		wantErr error
	}{
		{name: "admin reads foreign", scope: Admin(), action: ActionRead},
		{name: "admin destroys foreign", scope: Admin(), action: ActionDestroy},
		{name: "owner reads", scope: Project(owner), action: ActionRead},
		{name: "owner updates", scope: Project(owner), action: ActionUpdate},
		{name: "owner destroys", scope: Project(owner), action: ActionDestroy},
		{name: "foreign reads", scope: Project("7788"), action: ActionRead, wantErr: ErrPermissionDenied},
		{name: "foreign updates", scope: Project("7788"), action: ActionUpdate, wantErr: ErrPermissionDenied},
		{name: "foreign destroys", scope: Project("7788"), action: ActionDestroy, wantErr: ErrPermissionDenied},
		{name: "foreign lists", scope: Project("7788"), action: ActionReadAll},
		{name: "foreign creates", scope: Project("7788"), action: ActionCreate},
		{name: "scope without project", scope: Scope{}, action: ActionRead, wantErr: ErrInvalidScope},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Authorize(tt.scope, owner, tt.action)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	require.NoError(t, RequireAdmin(Admin(), ActionCreate))
	err := RequireAdmin(Project("1234"), ActionCreate)
	require.True(t, errors.Is(err, ErrRequiresAdmin))
	require.False(t, errors.Is(err, ErrPermissionDenied))
}

func TestOwnerAndFilter(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1234", Project("1234").Owner("5599"))
	require.Equal(t, "5599", Admin().Owner("5599"))
	require.Equal(t, "1234", Project("1234").ProjectFilter())
	require.Empty(t, Admin().ProjectFilter())
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	require.False(t, ok)

	ctx := NewContext(context.Background(), Project("1234"))
	s, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, Project("1234"), s)
}
