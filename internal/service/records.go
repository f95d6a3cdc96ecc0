package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dferrand/caseops/internal/domain"
)

// UploadDocument records metadata for a file attached to a submission the
// caller owns. The blob itself is stored elsewhere; this record is what
// gates and indexes it.
func (s *Service) UploadDocument(ctx context.Context, caller, submissionID string, docType domain.DocumentType, fileName string, fileSize int64) (string, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return "", err
	}
	if err := s.authorizeSubmission(ctx, caller, sub); err != nil {
		return "", err
	}
	if err := docType.Validate(); err != nil {
		return "", err
	}
	if fileName == "" {
		return "", domain.Validationf("file name is required")
	}
	if fileSize <= 0 {
		return "", domain.Validationf("file size must be positive")
	}

	doc := domain.CaseDocument{
		ID:           uuid.NewString(),
		SubmissionID: submissionID,
		User:         caller,
		DocumentType: docType,
		FileName:     fileName,
		FileSize:     fileSize,
		UploadTime:   time.Now().UTC(),
	}
	if err := s.store.InsertDocument(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// GetDocument fetches one document record the caller may read.
func (s *Service) GetDocument(ctx context.Context, caller, documentID string) (*domain.CaseDocument, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	sub, err := s.store.GetSubmission(ctx, doc.SubmissionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSubmission(ctx, caller, sub); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetDocumentsBySubmission lists a submission's document records.
func (s *Service) GetDocumentsBySubmission(ctx context.Context, caller, submissionID string) ([]domain.CaseDocument, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSubmission(ctx, caller, sub); err != nil {
		return nil, err
	}
	return s.store.ListDocumentsBySubmission(ctx, submissionID)
}

// CreateDraftMotion records a motion against a submission. Drafting is
// downstream of payment: the submission must have reached paid or later.
func (s *Service) CreateDraftMotion(ctx context.Context, caller, submissionID, motionType, content string) (string, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return "", err
	}
	if err := s.authorizeSubmission(ctx, caller, sub); err != nil {
		return "", err
	}
	switch sub.Status {
	case domain.StatusPaid, domain.StatusProcessing, domain.StatusCompleted:
	default:
		return "", domain.Validationf("submission %s must be paid before motions can be drafted", submissionID)
	}
	if motionType == "" {
		return "", domain.Validationf("motion type is required")
	}
	if content == "" {
		return "", domain.Validationf("motion content is required")
	}

	motion := domain.DraftMotion{
		ID:           uuid.NewString(),
		SubmissionID: submissionID,
		User:         caller,
		MotionType:   motionType,
		Content:      content,
		CreatedTime:  time.Now().UTC(),
	}
	if err := s.store.InsertMotion(ctx, motion); err != nil {
		return "", err
	}
	return motion.ID, nil
}

// GetDraftMotionsBySubmission lists a submission's draft motions.
func (s *Service) GetDraftMotionsBySubmission(ctx context.Context, caller, submissionID string) ([]domain.DraftMotion, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSubmission(ctx, caller, sub); err != nil {
		return nil, err
	}
	return s.store.ListMotionsBySubmission(ctx, submissionID)
}
