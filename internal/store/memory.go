package store

import (
	"context"
	"sort"
	"sync"

	"github.com/dferrand/caseops/internal/domain"
)

// Memory is a mutex-guarded in-process Store. Calls into this service are
// already serialized per operation, but the HTTP layer still runs handlers
// concurrently, so the lock stays.
type Memory struct {
	mu          sync.RWMutex
	submissions map[string]domain.CaseSubmission
	references  map[string]domain.PaymentReference
	roles       map[string]domain.Role
	profiles    map[string]domain.UserProfile
	documents   map[string]domain.CaseDocument
	motions     map[string]domain.DraftMotion
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		submissions: make(map[string]domain.CaseSubmission),
		references:  make(map[string]domain.PaymentReference),
		roles:       make(map[string]domain.Role),
		profiles:    make(map[string]domain.UserProfile),
		documents:   make(map[string]domain.CaseDocument),
		motions:     make(map[string]domain.DraftMotion),
	}
}

func (m *Memory) InsertSubmission(_ context.Context, s domain.CaseSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[s.ID] = s
	return nil
}

func (m *Memory) GetSubmission(_ context.Context, id string) (*domain.CaseSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.submissions[id]
	if !ok {
		return nil, domain.NotFoundf("submission %s not found", id)
	}
	return &s, nil
}

func (m *Memory) UpdateSubmissionStatus(_ context.Context, id string, status domain.SubmissionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[id]
	if !ok {
		return domain.NotFoundf("submission %s not found", id)
	}
	s.Status = status
	m.submissions[id] = s
	return nil
}

func (m *Memory) ListSubmissionsByUser(_ context.Context, principal string) ([]domain.CaseSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.CaseSubmission
	for _, s := range m.submissions {
		if s.User == principal {
			out = append(out, s)
		}
	}
	sortSubmissions(out)
	return out, nil
}

func (m *Memory) ListAllSubmissions(_ context.Context) ([]domain.CaseSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.CaseSubmission, 0, len(m.submissions))
	for _, s := range m.submissions {
		out = append(out, s)
	}
	sortSubmissions(out)
	return out, nil
}

func (m *Memory) ListPendingCardSubmissions(_ context.Context, principal string) ([]domain.CaseSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.CaseSubmission
	for _, s := range m.submissions {
		if s.User == principal && s.PaymentMethod == domain.PaymentMethodCard && s.Status == domain.StatusPendingPayment {
			out = append(out, s)
		}
	}
	sortSubmissions(out)
	return out, nil
}

func (m *Memory) UpsertReference(_ context.Context, ref domain.PaymentReference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.references[ref.SubmissionID] = ref
	return nil
}

func (m *Memory) GetReference(_ context.Context, submissionID string) (*domain.PaymentReference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ref, ok := m.references[submissionID]
	if !ok {
		return nil, domain.NotFoundf("no payment reference for submission %s", submissionID)
	}
	return &ref, nil
}

func (m *Memory) GetRole(_ context.Context, principal string) (domain.Role, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	role, ok := m.roles[principal]
	return role, ok, nil
}

func (m *Memory) SetRole(_ context.Context, principal string, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[principal] = role
	return nil
}

func (m *Memory) SaveProfile(_ context.Context, principal string, p domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[principal] = p
	return nil
}

func (m *Memory) GetProfile(_ context.Context, principal string) (*domain.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[principal]
	if !ok {
		return nil, domain.NotFoundf("no profile for principal %s", principal)
	}
	return &p, nil
}

func (m *Memory) InsertDocument(_ context.Context, d domain.CaseDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[d.ID] = d
	return nil
}

func (m *Memory) GetDocument(_ context.Context, id string) (*domain.CaseDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.documents[id]
	if !ok {
		return nil, domain.NotFoundf("document %s not found", id)
	}
	return &d, nil
}

func (m *Memory) ListDocumentsBySubmission(_ context.Context, submissionID string) ([]domain.CaseDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.CaseDocument
	for _, d := range m.documents {
		if d.SubmissionID == submissionID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadTime.Equal(out[j].UploadTime) {
			return out[i].UploadTime.Before(out[j].UploadTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) InsertMotion(_ context.Context, mo domain.DraftMotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.motions[mo.ID] = mo
	return nil
}

func (m *Memory) ListMotionsBySubmission(_ context.Context, submissionID string) ([]domain.DraftMotion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.DraftMotion
	for _, mo := range m.motions {
		if mo.SubmissionID == submissionID {
			out = append(out, mo)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedTime.Equal(out[j].CreatedTime) {
			return out[i].CreatedTime.Before(out[j].CreatedTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// sortSubmissions orders oldest first, id as tie-break, so listings are
// stable across calls.
func sortSubmissions(s []domain.CaseSubmission) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].Timestamp.Equal(s[j].Timestamp) {
			return s[i].Timestamp.Before(s[j].Timestamp)
		}
		return s[i].ID < s[j].ID
	})
}
