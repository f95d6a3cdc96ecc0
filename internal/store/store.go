// Package store persists submissions, payment references, roles and the
// supporting case records. Two implementations exist: Postgres for
// deployment and Memory for tests and single-process development.
package store

import (
	"context"

	"github.com/dferrand/caseops/internal/domain"
)

// Store is the shared persistence surface. All mutation goes through these
// methods; nothing above this layer writes rows directly. Implementations
// return domain errors (not_found for missing rows) so callers never see
// driver-level sentinels.
type Store interface {
	// Submissions.
	InsertSubmission(ctx context.Context, s domain.CaseSubmission) error
	GetSubmission(ctx context.Context, id string) (*domain.CaseSubmission, error)
	UpdateSubmissionStatus(ctx context.Context, id string, status domain.SubmissionStatus) error
	ListSubmissionsByUser(ctx context.Context, principal string) ([]domain.CaseSubmission, error)
	ListAllSubmissions(ctx context.Context) ([]domain.CaseSubmission, error)
	// ListPendingCardSubmissions returns the principal's card-method
	// submissions still awaiting payment, oldest first. Used to settle a
	// gateway poll result against local state.
	ListPendingCardSubmissions(ctx context.Context, principal string) ([]domain.CaseSubmission, error)

	// Payment references. Upsert replaces any prior reference for the
	// submission; the one-reference-per-submission invariant lives here.
	UpsertReference(ctx context.Context, ref domain.PaymentReference) error
	GetReference(ctx context.Context, submissionID string) (*domain.PaymentReference, error)

	// Roles. GetRole's second result is false when the principal has no
	// explicit assignment.
	GetRole(ctx context.Context, principal string) (domain.Role, bool, error)
	SetRole(ctx context.Context, principal string, role domain.Role) error

	// Profiles.
	SaveProfile(ctx context.Context, principal string, p domain.UserProfile) error
	GetProfile(ctx context.Context, principal string) (*domain.UserProfile, error)

	// Case documents (metadata only).
	InsertDocument(ctx context.Context, d domain.CaseDocument) error
	GetDocument(ctx context.Context, id string) (*domain.CaseDocument, error)
	ListDocumentsBySubmission(ctx context.Context, submissionID string) ([]domain.CaseDocument, error)

	// Draft motions.
	InsertMotion(ctx context.Context, m domain.DraftMotion) error
	ListMotionsBySubmission(ctx context.Context, submissionID string) ([]domain.DraftMotion, error)
}
