package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dferrand/caseops/internal/domain"
	"github.com/dferrand/caseops/internal/store"
)

func newTestStore(t *testing.T) *store.Memory {
	t.Helper()
	return store.NewMemory()
}

func submission(id, user string, method domain.PaymentMethod, at time.Time) domain.CaseSubmission {
	return domain.CaseSubmission{
		ID:            id,
		User:          user,
		Details:       "details for " + id,
		PaymentMethod: method,
		Status:        domain.StatusPendingPayment,
		Timestamp:     at,
	}
}

func TestSubmissionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.InsertSubmission(ctx, submission("s1", "alice", domain.PaymentMethodPayPal, now)))

	got, err := s.GetSubmission(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.User)
	assert.Equal(t, domain.StatusPendingPayment, got.Status)

	_, err = s.GetSubmission(ctx, "missing")
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestUpdateSubmissionStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertSubmission(ctx, submission("s1", "alice", domain.PaymentMethodCard, time.Now())))
	require.NoError(t, s.UpdateSubmissionStatus(ctx, "s1", domain.StatusPaid))

	got, err := s.GetSubmission(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)

	err = s.UpdateSubmissionStatus(ctx, "missing", domain.StatusPaid)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestListSubmissionsOrderedAndFiltered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, s.InsertSubmission(ctx, submission("s2", "alice", domain.PaymentMethodCard, base.Add(time.Minute))))
	require.NoError(t, s.InsertSubmission(ctx, submission("s1", "alice", domain.PaymentMethodCard, base)))
	require.NoError(t, s.InsertSubmission(ctx, submission("s3", "bob", domain.PaymentMethodCashApp, base)))

	mine, err := s.ListSubmissionsByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "s1", mine[0].ID)
	assert.Equal(t, "s2", mine[1].ID)

	all, err := s.ListAllSubmissions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListPendingCardSubmissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.InsertSubmission(ctx, submission("card-pending", "alice", domain.PaymentMethodCard, now)))
	require.NoError(t, s.InsertSubmission(ctx, submission("card-paid", "alice", domain.PaymentMethodCard, now)))
	require.NoError(t, s.UpdateSubmissionStatus(ctx, "card-paid", domain.StatusPaid))
	require.NoError(t, s.InsertSubmission(ctx, submission("paypal-pending", "alice", domain.PaymentMethodPayPal, now)))
	require.NoError(t, s.InsertSubmission(ctx, submission("bob-card", "bob", domain.PaymentMethodCard, now)))

	pending, err := s.ListPendingCardSubmissions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "card-pending", pending[0].ID)
}

func TestReferenceUpsertOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetReference(ctx, "s1")
	assert.True(t, domain.IsNotFound(err), "got %v", err)

	require.NoError(t, s.UpsertReference(ctx, domain.PaymentReference{
		SubmissionID:   "s1",
		ReferenceType:  domain.ReferenceCashAppUsername,
		ReferenceValue: "$alice",
	}))
	require.NoError(t, s.UpsertReference(ctx, domain.PaymentReference{
		SubmissionID:   "s1",
		ReferenceType:  domain.ReferenceCashAppUsername,
		ReferenceValue: "$alice-corrected",
	}))

	ref, err := s.GetReference(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "$alice-corrected", ref.ReferenceValue)
}

func TestRoleStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetRole(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetRole(ctx, "alice", domain.RoleAdmin))

	role, ok, err := s.GetRole(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestProfileStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetProfile(ctx, "alice")
	assert.True(t, domain.IsNotFound(err), "got %v", err)

	p := domain.UserProfile{Name: "Alice", Email: "a@example.test", Phone: "555-0100"}
	require.NoError(t, s.SaveProfile(ctx, "alice", p))

	got, err := s.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestDocumentAndMotionListing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, s.InsertDocument(ctx, domain.CaseDocument{
		ID: "d2", SubmissionID: "s1", User: "alice",
		DocumentType: domain.DocumentType{Kind: domain.DocumentEvidence},
		FileName:     "late.pdf", FileSize: 10, UploadTime: base.Add(time.Minute),
	}))
	require.NoError(t, s.InsertDocument(ctx, domain.CaseDocument{
		ID: "d1", SubmissionID: "s1", User: "alice",
		DocumentType: domain.DocumentType{Kind: domain.DocumentAffidavit},
		FileName:     "early.pdf", FileSize: 10, UploadTime: base,
	}))

	docs, err := s.ListDocumentsBySubmission(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].ID)

	_, err = s.GetDocument(ctx, "missing")
	assert.True(t, domain.IsNotFound(err), "got %v", err)

	require.NoError(t, s.InsertMotion(ctx, domain.DraftMotion{
		ID: "m1", SubmissionID: "s1", User: "alice",
		MotionType: "dismiss", Content: "...", CreatedTime: base,
	}))
	motions, err := s.ListMotionsBySubmission(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, motions, 1)
}
