package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dferrand/caseops/internal/domain"
)

// storeCodePrefix is printed on in-person payment receipts.
const storeCodePrefix = "CD305-"

// StorePaymentCode derives the human-presentable cash-at-store code for a
// submission: fixed prefix plus the first eight characters of the
// identifier, upper-cased. Deterministic, so the same submission always
// yields the same code without a lookup.
func StorePaymentCode(submissionID string) string {
	slice := submissionID
	if len(slice) > 8 {
		slice = slice[:8]
	}
	return storeCodePrefix + strings.ToUpper(slice)
}

// GetStorePaymentCode returns the derived code for an in-person-cash
// submission the caller may read.
func (s *Service) GetStorePaymentCode(ctx context.Context, caller, submissionID string) (string, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return "", err
	}
	if err := s.authorizeSubmission(ctx, caller, sub); err != nil {
		return "", err
	}
	if sub.PaymentMethod != domain.PaymentMethodInPersonCash {
		return "", domain.Validationf("submission %s is not paid in person", submissionID)
	}
	return StorePaymentCode(sub.ID), nil
}

// SubmitPaymentReference records proof of a non-card payment and, as the
// confirmation event for those methods, advances pendingPayment to paid.
// A resubmission overwrites the stored reference but the transition fires
// only on the pendingPayment edge.
func (s *Service) SubmitPaymentReference(ctx context.Context, caller, submissionID string, refType domain.ReferenceType, refValue string) error {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if err := s.authorizeSubmission(ctx, caller, sub); err != nil {
		return err
	}

	expected, ok := sub.PaymentMethod.ReferenceType()
	if !ok {
		return domain.Validationf("card submissions are confirmed by the payment gateway, not by reference")
	}
	if refType != expected {
		return domain.Validationf("reference type %s does not match payment method %s", refType, sub.PaymentMethod)
	}
	if strings.TrimSpace(refValue) == "" {
		return domain.Validationf("reference value is required")
	}

	// Validation is complete before any write happens.
	if err := s.store.UpsertReference(ctx, domain.PaymentReference{
		SubmissionID:   submissionID,
		ReferenceType:  refType,
		ReferenceValue: refValue,
	}); err != nil {
		return err
	}
	if sub.Status == domain.StatusPendingPayment {
		return s.store.UpdateSubmissionStatus(ctx, submissionID, domain.StatusPaid)
	}
	return nil
}

// GetPaymentReference returns the stored reference for a submission the
// caller may read.
func (s *Service) GetPaymentReference(ctx context.Context, caller, submissionID string) (*domain.PaymentReference, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSubmission(ctx, caller, sub); err != nil {
		return nil, err
	}
	return s.store.GetReference(ctx, submissionID)
}

// CreateCheckoutSession opens a gateway session for a card payment and
// returns it as a JSON-encoded {id, url} string, the shape callers parse.
func (s *Service) CreateCheckoutSession(ctx context.Context, caller string, items []domain.ShoppingItem, successURL, cancelURL string) (string, error) {
	if err := s.gate.RequireUser(ctx, caller); err != nil {
		return "", err
	}
	session, err := s.gateway.CreateCheckoutSession(ctx, caller, items, successURL, cancelURL)
	if err != nil {
		return "", err
	}
	encoded, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// GetStripeSessionStatus polls a gateway session and settles the result
// against local state: a completed session marks the resolved principal's
// pending card submissions paid; a terminally failed one marks them failed.
// A session still awaiting the payer changes nothing, and a gateway error
// never touches local state.
func (s *Service) GetStripeSessionStatus(ctx context.Context, caller, sessionID string) (*domain.SessionStatus, error) {
	if err := s.gate.RequireUser(ctx, caller); err != nil {
		return nil, err
	}
	status, err := s.gateway.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch {
	case status.Completed != nil:
		principal := status.Completed.UserPrincipal
		if principal == "" {
			principal = caller
		}
		if err := s.settlePendingCard(ctx, principal, domain.StatusPaid); err != nil {
			return nil, err
		}
	case status.Failed != nil && status.Failed.Terminal:
		if err := s.settlePendingCard(ctx, caller, domain.StatusFailed); err != nil {
			return nil, err
		}
	}
	return status, nil
}

func (s *Service) settlePendingCard(ctx context.Context, principal string, to domain.SubmissionStatus) error {
	pending, err := s.store.ListPendingCardSubmissions(ctx, principal)
	if err != nil {
		return err
	}
	for _, sub := range pending {
		if err := s.store.UpdateSubmissionStatus(ctx, sub.ID, to); err != nil {
			return err
		}
	}
	return nil
}

// IsStripeConfigured is the public probe for card-payment availability.
func (s *Service) IsStripeConfigured() bool {
	return s.gateway.IsConfigured()
}

// SetStripeConfiguration installs the gateway credential. Admin only.
func (s *Service) SetStripeConfiguration(ctx context.Context, caller, secretKey string, allowedCountries []string) error {
	if err := s.gate.RequireAdmin(ctx, caller); err != nil {
		return err
	}
	return s.gateway.SetConfiguration(secretKey, allowedCountries)
}
