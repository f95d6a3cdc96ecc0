// Package service is the reconciliation layer: it creates case
// submissions, routes each payment method to its confirmation mechanism,
// and drives the submission status lifecycle.
package service

import (
	"context"

	"github.com/dferrand/caseops/internal/domain"
	"github.com/dferrand/caseops/internal/identity"
	"github.com/dferrand/caseops/internal/store"
)

// Gateway is the processor surface the dispatcher depends on. Satisfied by
// *gateway.Client; tests substitute a stub.
type Gateway interface {
	IsConfigured() bool
	SetConfiguration(secretKey string, allowedCountries []string) error
	CreateCheckoutSession(ctx context.Context, principal string, items []domain.ShoppingItem, successURL, cancelURL string) (*domain.CheckoutSession, error)
	GetSessionStatus(ctx context.Context, sessionID string) (*domain.SessionStatus, error)
}

type Service struct {
	gate    *identity.Gate
	store   store.Store
	gateway Gateway
}

func New(gate *identity.Gate, st store.Store, gw Gateway) *Service {
	return &Service{gate: gate, store: st, gateway: gw}
}

// authorizeSubmission enforces the read/write contract: the owning
// principal or an admin, nobody else.
func (s *Service) authorizeSubmission(ctx context.Context, caller string, sub *domain.CaseSubmission) error {
	if caller != "" && caller == sub.User {
		return nil
	}
	admin, err := s.gate.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !admin {
		return domain.PermissionDeniedf("submission %s belongs to another user", sub.ID)
	}
	return nil
}

// GetCallerUserRole resolves the caller's role.
func (s *Service) GetCallerUserRole(ctx context.Context, caller string) (domain.Role, error) {
	return s.gate.Resolve(ctx, caller)
}

// IsCallerAdmin reports whether the caller holds admin.
func (s *Service) IsCallerAdmin(ctx context.Context, caller string) (bool, error) {
	return s.gate.IsAdmin(ctx, caller)
}

// AssignCallerUserRole records a role for a principal. Admin only.
func (s *Service) AssignCallerUserRole(ctx context.Context, caller, principal string, role domain.Role) error {
	return s.gate.Assign(ctx, caller, principal, role)
}

// SaveCallerUserProfile stores the caller's contact details.
func (s *Service) SaveCallerUserProfile(ctx context.Context, caller string, profile domain.UserProfile) error {
	if err := s.gate.RequireUser(ctx, caller); err != nil {
		return err
	}
	if profile.Name == "" {
		return domain.Validationf("profile name is required")
	}
	return s.store.SaveProfile(ctx, caller, profile)
}

// GetCallerUserProfile returns the caller's own profile.
func (s *Service) GetCallerUserProfile(ctx context.Context, caller string) (*domain.UserProfile, error) {
	if err := s.gate.RequireUser(ctx, caller); err != nil {
		return nil, err
	}
	return s.store.GetProfile(ctx, caller)
}

// GetUserProfile returns any principal's profile for admins, or the
// caller's own.
func (s *Service) GetUserProfile(ctx context.Context, caller, principal string) (*domain.UserProfile, error) {
	if caller != principal {
		if err := s.gate.RequireAdmin(ctx, caller); err != nil {
			return nil, err
		}
	} else if err := s.gate.RequireUser(ctx, caller); err != nil {
		return nil, err
	}
	return s.store.GetProfile(ctx, principal)
}
