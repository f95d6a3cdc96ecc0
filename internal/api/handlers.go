package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dferrand/caseops/internal/domain"
)

func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/cases"))
	defer timer.ObserveDuration()

	var req struct {
		Details       string `json:"details"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err, "POST", "/cases")
		return
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		h.respondError(w, err, "POST", "/cases")
		return
	}

	id, err := h.svc.CreateCase(r.Context(), principal(r), req.Details, method)
	if err != nil {
		h.respondError(w, err, "POST", "/cases")
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"submissionId": id}, "POST", "/cases")
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sub, err := h.svc.GetSubmission(r.Context(), principal(r), id)
	if err != nil {
		h.respondError(w, err, "GET", "/cases/{id}")
		return
	}
	h.respondJSON(w, http.StatusOK, sub, "GET", "/cases/{id}")
}

func (h *Handler) GetMySubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.GetMySubmissions(r.Context(), principal(r))
	if err != nil {
		h.respondError(w, err, "GET", "/cases")
		return
	}
	if subs == nil {
		subs = []domain.CaseSubmission{}
	}
	h.respondJSON(w, http.StatusOK, subs, "GET", "/cases")
}

func (h *Handler) GetAllSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.GetAllSubmissions(r.Context(), principal(r))
	if err != nil {
		h.respondError(w, err, "GET", "/admin/cases")
		return
	}
	if subs == nil {
		subs = []domain.CaseSubmission{}
	}
	h.respondJSON(w, http.StatusOK, subs, "GET", "/admin/cases")
}

func (h *Handler) UpdateSubmissionStatusAdmin(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err, "PUT", "/admin/cases/{id}/status")
		return
	}
	status, err := domain.ParseSubmissionStatus(req.Status)
	if err != nil {
		h.respondError(w, err, "PUT", "/admin/cases/{id}/status")
		return
	}

	if err := h.svc.UpdateSubmissionStatusAdmin(r.Context(), principal(r), id, status); err != nil {
		h.respondError(w, err, "PUT", "/admin/cases/{id}/status")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": string(status)}, "PUT", "/admin/cases/{id}/status")
}

func (h *Handler) SubmitPaymentReference(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("PUT", "/cases/{id}/payment-reference"))
	defer timer.ObserveDuration()

	id := mux.Vars(r)["id"]
	var req struct {
		ReferenceType  string `json:"referenceType"`
		ReferenceValue string `json:"referenceValue"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err, "PUT", "/cases/{id}/payment-reference")
		return
	}
	refType, err := domain.ParseReferenceType(req.ReferenceType)
	if err != nil {
		h.respondError(w, err, "PUT", "/cases/{id}/payment-reference")
		return
	}

	if err := h.svc.SubmitPaymentReference(r.Context(), principal(r), id, refType, req.ReferenceValue); err != nil {
		h.respondError(w, err, "PUT", "/cases/{id}/payment-reference")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"submissionId": id}, "PUT", "/cases/{id}/payment-reference")
}

func (h *Handler) GetPaymentReference(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ref, err := h.svc.GetPaymentReference(r.Context(), principal(r), id)
	if err != nil {
		h.respondError(w, err, "GET", "/cases/{id}/payment-reference")
		return
	}
	h.respondJSON(w, http.StatusOK, ref, "GET", "/cases/{id}/payment-reference")
}

func (h *Handler) GetStorePaymentCode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	code, err := h.svc.GetStorePaymentCode(r.Context(), principal(r), id)
	if err != nil {
		h.respondError(w, err, "GET", "/cases/{id}/payment-code")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"paymentCode": code}, "GET", "/cases/{id}/payment-code")
}

func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/checkout-sessions"))
	defer timer.ObserveDuration()

	var req struct {
		Items      []domain.ShoppingItem `json:"items"`
		SuccessURL string                `json:"successUrl"`
		CancelURL  string                `json:"cancelUrl"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err, "POST", "/checkout-sessions")
		return
	}

	sessionJSON, err := h.svc.CreateCheckoutSession(r.Context(), principal(r), req.Items, req.SuccessURL, req.CancelURL)
	if err != nil {
		h.respondError(w, err, "POST", "/checkout-sessions")
		return
	}
	// The service already produced the canonical {id, url} JSON string.
	httpRequestsTotal.WithLabelValues("POST", "/checkout-sessions", "201").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(sessionJSON))
}

func (h *Handler) GetStripeSessionStatus(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("GET", "/checkout-sessions/{id}/status"))
	defer timer.ObserveDuration()

	id := mux.Vars(r)["id"]
	status, err := h.svc.GetStripeSessionStatus(r.Context(), principal(r), id)
	if err != nil {
		h.respondError(w, err, "GET", "/checkout-sessions/{id}/status")
		return
	}
	h.respondJSON(w, http.StatusOK, status, "GET", "/checkout-sessions/{id}/status")
}

func (h *Handler) IsStripeConfigured(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]bool{"configured": h.svc.IsStripeConfigured()}, "GET", "/stripe/configured")
}

func (h *Handler) SetStripeConfiguration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SecretKey        string   `json:"secretKey"`
		AllowedCountries []string `json:"allowedCountries"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err, "PUT", "/admin/stripe/configuration")
		return
	}

	if err := h.svc.SetStripeConfiguration(r.Context(), principal(r), req.SecretKey, req.AllowedCountries); err != nil {
		h.respondError(w, err, "PUT", "/admin/stripe/configuration")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"configured": true}, "PUT", "/admin/stripe/configuration")
}

func (h *Handler) GetCallerUserRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.svc.GetCallerUserRole(r.Context(), principal(r))
	if err != nil {
		h.respondError(w, err, "GET", "/roles/me")
		return
	}
	admin, err := h.svc.IsCallerAdmin(r.Context(), principal(r))
	if err != nil {
		h.respondError(w, err, "GET", "/roles/me")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"role":    role,
		"isAdmin": admin,
	}, "GET", "/roles/me")
}

func (h *Handler) AssignCallerUserRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Principal string `json:"principal"`
		Role      string `json:"role"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err, "PUT", "/admin/roles")
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		h.respondError(w, err, "PUT", "/admin/roles")
		return
	}

	if err := h.svc.AssignCallerUserRole(r.Context(), principal(r), req.Principal, role); err != nil {
		h.respondError(w, err, "PUT", "/admin/roles")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"principal": req.Principal, "role": string(role)}, "PUT", "/admin/roles")
}

func (h *Handler) SaveCallerUserProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.UserProfile
	if err := decodeBody(r, &profile); err != nil {
		h.respondError(w, err, "PUT", "/profiles/me")
		return
	}
	if err := h.svc.SaveCallerUserProfile(r.Context(), principal(r), profile); err != nil {
		h.respondError(w, err, "PUT", "/profiles/me")
		return
	}
	h.respondJSON(w, http.StatusOK, profile, "PUT", "/profiles/me")
}

func (h *Handler) GetCallerUserProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetCallerUserProfile(r.Context(), principal(r))
	if err != nil {
		h.respondError(w, err, "GET", "/profiles/me")
		return
	}
	h.respondJSON(w, http.StatusOK, profile, "GET", "/profiles/me")
}

func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	target := mux.Vars(r)["principal"]
	profile, err := h.svc.GetUserProfile(r.Context(), principal(r), target)
	if err != nil {
		h.respondError(w, err, "GET", "/profiles/{principal}")
		return
	}
	h.respondJSON(w, http.StatusOK, profile, "GET", "/profiles/{principal}")
}

func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		DocumentType domain.DocumentType `json:"documentType"`
		FileName     string              `json:"fileName"`
		FileSize     int64               `json:"fileSize"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err, "POST", "/cases/{id}/documents")
		return
	}

	docID, err := h.svc.UploadDocument(r.Context(), principal(r), id, req.DocumentType, req.FileName, req.FileSize)
	if err != nil {
		h.respondError(w, err, "POST", "/cases/{id}/documents")
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"documentId": docID}, "POST", "/cases/{id}/documents")
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	doc, err := h.svc.GetDocument(r.Context(), principal(r), id)
	if err != nil {
		h.respondError(w, err, "GET", "/documents/{id}")
		return
	}
	h.respondJSON(w, http.StatusOK, doc, "GET", "/documents/{id}")
}

func (h *Handler) GetDocumentsBySubmission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	docs, err := h.svc.GetDocumentsBySubmission(r.Context(), principal(r), id)
	if err != nil {
		h.respondError(w, err, "GET", "/cases/{id}/documents")
		return
	}
	if docs == nil {
		docs = []domain.CaseDocument{}
	}
	h.respondJSON(w, http.StatusOK, docs, "GET", "/cases/{id}/documents")
}

func (h *Handler) CreateDraftMotion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		MotionType string `json:"motionType"`
		Content    string `json:"content"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err, "POST", "/cases/{id}/draft-motions")
		return
	}

	motionID, err := h.svc.CreateDraftMotion(r.Context(), principal(r), id, req.MotionType, req.Content)
	if err != nil {
		h.respondError(w, err, "POST", "/cases/{id}/draft-motions")
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"motionId": motionID}, "POST", "/cases/{id}/draft-motions")
}

func (h *Handler) GetDraftMotionsBySubmission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	motions, err := h.svc.GetDraftMotionsBySubmission(r.Context(), principal(r), id)
	if err != nil {
		h.respondError(w, err, "GET", "/cases/{id}/draft-motions")
		return
	}
	if motions == nil {
		motions = []domain.DraftMotion{}
	}
	h.respondJSON(w, http.StatusOK, motions, "GET", "/cases/{id}/draft-motions")
}
