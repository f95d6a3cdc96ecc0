// Package identity resolves calling principals to roles and gates every
// mutating operation in the service.
package identity

import (
	"context"

	"github.com/dferrand/caseops/internal/domain"
)

// RoleStore is the slice of persistence the gate needs.
type RoleStore interface {
	GetRole(ctx context.Context, principal string) (domain.Role, bool, error)
	SetRole(ctx context.Context, principal string, role domain.Role) error
}

// Gate owns the principal-to-role mapping. Role assignments are mutated
// only through Assign (admin-gated) and Bootstrap (process startup).
type Gate struct {
	roles RoleStore
}

func New(roles RoleStore) *Gate {
	return &Gate{roles: roles}
}

// Resolve returns the caller's role. An empty principal is an
// unauthenticated caller and resolves to guest; an authenticated principal
// with no explicit assignment resolves to user.
func (g *Gate) Resolve(ctx context.Context, principal string) (domain.Role, error) {
	if principal == "" {
		return domain.RoleGuest, nil
	}
	role, ok, err := g.roles.GetRole(ctx, principal)
	if err != nil {
		return "", err
	}
	if !ok {
		return domain.RoleUser, nil
	}
	return role, nil
}

// IsAdmin reports whether the principal currently holds admin.
func (g *Gate) IsAdmin(ctx context.Context, principal string) (bool, error) {
	role, err := g.Resolve(ctx, principal)
	if err != nil {
		return false, err
	}
	return role == domain.RoleAdmin, nil
}

// RequireUser fails with permission_denied unless the caller is at least
// an authenticated user.
func (g *Gate) RequireUser(ctx context.Context, principal string) error {
	role, err := g.Resolve(ctx, principal)
	if err != nil {
		return err
	}
	if role == domain.RoleGuest {
		return domain.PermissionDeniedf("authentication required")
	}
	return nil
}

// RequireAdmin fails with permission_denied unless the caller holds admin.
func (g *Gate) RequireAdmin(ctx context.Context, principal string) error {
	role, err := g.Resolve(ctx, principal)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin {
		return domain.PermissionDeniedf("admin role required")
	}
	return nil
}

// Assign records a role for a principal. Only admins may assign roles;
// there is no path that silently grants or downgrades permissions.
func (g *Gate) Assign(ctx context.Context, caller, principal string, role domain.Role) error {
	if err := g.RequireAdmin(ctx, caller); err != nil {
		return err
	}
	if principal == "" {
		return domain.Validationf("principal is required")
	}
	return g.roles.SetRole(ctx, principal, role)
}

// Bootstrap provisions the first admin out-of-band. It is idempotent and
// never demotes an existing assignment.
func (g *Gate) Bootstrap(ctx context.Context, principal string) error {
	if principal == "" {
		return nil
	}
	_, ok, err := g.roles.GetRole(ctx, principal)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return g.roles.SetRole(ctx, principal, domain.RoleAdmin)
}
