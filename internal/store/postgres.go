package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dferrand/caseops/internal/domain"
)

// Postgres implements Store on a pgx connection pool. Schema setup lives in
// cmd/seeder.
type Postgres struct {
	Db *pgxpool.Pool
}

// NewPostgres connects a pool and verifies the database is reachable.
func NewPostgres(connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Postgres{Db: pool}, nil
}

func (s *Postgres) Close() {
	s.Db.Close()
}

func (s *Postgres) InsertSubmission(ctx context.Context, sub domain.CaseSubmission) error {
	_, err := s.Db.Exec(ctx,
		"INSERT INTO submissions (id, user_principal, details, payment_method, status, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		sub.ID, sub.User, sub.Details, string(sub.PaymentMethod), string(sub.Status), sub.Timestamp)
	if err != nil {
		return fmt.Errorf("submission insert failed: %w", err)
	}
	return nil
}

func (s *Postgres) GetSubmission(ctx context.Context, id string) (*domain.CaseSubmission, error) {
	var sub domain.CaseSubmission
	err := s.Db.QueryRow(ctx,
		"SELECT id, user_principal, details, payment_method, status, created_at FROM submissions WHERE id = $1",
		id).Scan(&sub.ID, &sub.User, &sub.Details, &sub.PaymentMethod, &sub.Status, &sub.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("submission %s not found", id)
		}
		return nil, err
	}
	return &sub, nil
}

func (s *Postgres) UpdateSubmissionStatus(ctx context.Context, id string, status domain.SubmissionStatus) error {
	tag, err := s.Db.Exec(ctx,
		"UPDATE submissions SET status = $1 WHERE id = $2", string(status), id)
	if err != nil {
		return fmt.Errorf("status update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("submission %s not found", id)
	}
	return nil
}

func (s *Postgres) ListSubmissionsByUser(ctx context.Context, principal string) ([]domain.CaseSubmission, error) {
	return s.querySubmissions(ctx,
		"SELECT id, user_principal, details, payment_method, status, created_at FROM submissions WHERE user_principal = $1 ORDER BY created_at, id",
		principal)
}

func (s *Postgres) ListAllSubmissions(ctx context.Context) ([]domain.CaseSubmission, error) {
	return s.querySubmissions(ctx,
		"SELECT id, user_principal, details, payment_method, status, created_at FROM submissions ORDER BY created_at, id")
}

func (s *Postgres) ListPendingCardSubmissions(ctx context.Context, principal string) ([]domain.CaseSubmission, error) {
	return s.querySubmissions(ctx,
		"SELECT id, user_principal, details, payment_method, status, created_at FROM submissions WHERE user_principal = $1 AND payment_method = $2 AND status = $3 ORDER BY created_at, id",
		principal, string(domain.PaymentMethodCard), string(domain.StatusPendingPayment))
}

func (s *Postgres) querySubmissions(ctx context.Context, sql string, args ...any) ([]domain.CaseSubmission, error) {
	rows, err := s.Db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CaseSubmission
	for rows.Next() {
		var sub domain.CaseSubmission
		if err := rows.Scan(&sub.ID, &sub.User, &sub.Details, &sub.PaymentMethod, &sub.Status, &sub.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *Postgres) UpsertReference(ctx context.Context, ref domain.PaymentReference) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO payment_references (submission_id, reference_type, reference_value) VALUES ($1, $2, $3)
		 ON CONFLICT (submission_id) DO UPDATE SET reference_type = $2, reference_value = $3`,
		ref.SubmissionID, string(ref.ReferenceType), ref.ReferenceValue)
	if err != nil {
		return fmt.Errorf("reference upsert failed: %w", err)
	}
	return nil
}

func (s *Postgres) GetReference(ctx context.Context, submissionID string) (*domain.PaymentReference, error) {
	var ref domain.PaymentReference
	err := s.Db.QueryRow(ctx,
		"SELECT submission_id, reference_type, reference_value FROM payment_references WHERE submission_id = $1",
		submissionID).Scan(&ref.SubmissionID, &ref.ReferenceType, &ref.ReferenceValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("no payment reference for submission %s", submissionID)
		}
		return nil, err
	}
	return &ref, nil
}

func (s *Postgres) GetRole(ctx context.Context, principal string) (domain.Role, bool, error) {
	var role string
	err := s.Db.QueryRow(ctx,
		"SELECT role FROM user_roles WHERE principal = $1", principal).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return domain.Role(role), true, nil
}

func (s *Postgres) SetRole(ctx context.Context, principal string, role domain.Role) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO user_roles (principal, role) VALUES ($1, $2)
		 ON CONFLICT (principal) DO UPDATE SET role = $2`,
		principal, string(role))
	return err
}

func (s *Postgres) SaveProfile(ctx context.Context, principal string, p domain.UserProfile) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO user_profiles (principal, name, email, phone) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (principal) DO UPDATE SET name = $2, email = $3, phone = $4`,
		principal, p.Name, p.Email, p.Phone)
	return err
}

func (s *Postgres) GetProfile(ctx context.Context, principal string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := s.Db.QueryRow(ctx,
		"SELECT name, email, phone FROM user_profiles WHERE principal = $1",
		principal).Scan(&p.Name, &p.Email, &p.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("no profile for principal %s", principal)
		}
		return nil, err
	}
	return &p, nil
}

func (s *Postgres) InsertDocument(ctx context.Context, d domain.CaseDocument) error {
	_, err := s.Db.Exec(ctx,
		"INSERT INTO case_documents (id, submission_id, user_principal, doc_kind, doc_label, file_name, file_size, uploaded_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		d.ID, d.SubmissionID, d.User, d.DocumentType.Kind, d.DocumentType.Other, d.FileName, d.FileSize, d.UploadTime)
	if err != nil {
		return fmt.Errorf("document insert failed: %w", err)
	}
	return nil
}

func (s *Postgres) GetDocument(ctx context.Context, id string) (*domain.CaseDocument, error) {
	var d domain.CaseDocument
	err := s.Db.QueryRow(ctx,
		"SELECT id, submission_id, user_principal, doc_kind, doc_label, file_name, file_size, uploaded_at FROM case_documents WHERE id = $1",
		id).Scan(&d.ID, &d.SubmissionID, &d.User, &d.DocumentType.Kind, &d.DocumentType.Other, &d.FileName, &d.FileSize, &d.UploadTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("document %s not found", id)
		}
		return nil, err
	}
	return &d, nil
}

func (s *Postgres) ListDocumentsBySubmission(ctx context.Context, submissionID string) ([]domain.CaseDocument, error) {
	rows, err := s.Db.Query(ctx,
		"SELECT id, submission_id, user_principal, doc_kind, doc_label, file_name, file_size, uploaded_at FROM case_documents WHERE submission_id = $1 ORDER BY uploaded_at, id",
		submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CaseDocument
	for rows.Next() {
		var d domain.CaseDocument
		if err := rows.Scan(&d.ID, &d.SubmissionID, &d.User, &d.DocumentType.Kind, &d.DocumentType.Other, &d.FileName, &d.FileSize, &d.UploadTime); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Postgres) InsertMotion(ctx context.Context, m domain.DraftMotion) error {
	_, err := s.Db.Exec(ctx,
		"INSERT INTO draft_motions (id, submission_id, user_principal, motion_type, content, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		m.ID, m.SubmissionID, m.User, m.MotionType, m.Content, m.CreatedTime)
	if err != nil {
		return fmt.Errorf("motion insert failed: %w", err)
	}
	return nil
}

func (s *Postgres) ListMotionsBySubmission(ctx context.Context, submissionID string) ([]domain.DraftMotion, error) {
	rows, err := s.Db.Query(ctx,
		"SELECT id, submission_id, user_principal, motion_type, content, created_at FROM draft_motions WHERE submission_id = $1 ORDER BY created_at, id",
		submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DraftMotion
	for rows.Next() {
		var m domain.DraftMotion
		if err := rows.Scan(&m.ID, &m.SubmissionID, &m.User, &m.MotionType, &m.Content, &m.CreatedTime); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
