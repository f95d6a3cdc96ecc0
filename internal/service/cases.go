package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dferrand/caseops/internal/domain"
)

// CreateCase persists a new submission in pendingPayment and returns its
// identifier. Creation starts at pendingPayment for every method; which
// confirmation path applies is the dispatcher's concern, not the store's.
func (s *Service) CreateCase(ctx context.Context, caller, details string, method domain.PaymentMethod) (string, error) {
	if err := s.gate.RequireUser(ctx, caller); err != nil {
		return "", err
	}
	if strings.TrimSpace(details) == "" {
		return "", domain.Validationf("case details are required")
	}

	sub := domain.CaseSubmission{
		ID:            uuid.NewString(),
		User:          caller,
		Details:       details,
		PaymentMethod: method,
		Status:        domain.StatusPendingPayment,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.store.InsertSubmission(ctx, sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

// GetSubmission fetches a submission the caller owns; admins may fetch any.
func (s *Service) GetSubmission(ctx context.Context, caller, id string) (*domain.CaseSubmission, error) {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSubmission(ctx, caller, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetMySubmissions lists the caller's own submissions.
func (s *Service) GetMySubmissions(ctx context.Context, caller string) ([]domain.CaseSubmission, error) {
	if err := s.gate.RequireUser(ctx, caller); err != nil {
		return nil, err
	}
	return s.store.ListSubmissionsByUser(ctx, caller)
}

// GetAllSubmissions lists every submission. Admin only.
func (s *Service) GetAllSubmissions(ctx context.Context, caller string) ([]domain.CaseSubmission, error) {
	if err := s.gate.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	return s.store.ListAllSubmissions(ctx)
}

// UpdateSubmissionStatusAdmin writes any status over any other, including
// backward moves. Human judgment, not the state machine, is authoritative
// here; the only precondition is that the submission exists.
func (s *Service) UpdateSubmissionStatusAdmin(ctx context.Context, caller, id string, status domain.SubmissionStatus) error {
	if err := s.gate.RequireAdmin(ctx, caller); err != nil {
		return err
	}
	return s.store.UpdateSubmissionStatus(ctx, id, status)
}
