// Package api exposes the reconciliation service over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dferrand/caseops/internal/domain"
	"github.com/dferrand/caseops/internal/service"
)

// Metrics
var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caseops_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "caseops_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "endpoint"})
)

// principalHeader carries the authenticated caller identity set by the
// fronting authenticator. Absence means an unauthenticated (guest) call.
const principalHeader = "X-Principal"

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register wires every route onto the given subrouter.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/cases", h.CreateCase).Methods("POST")
	r.HandleFunc("/cases", h.GetMySubmissions).Methods("GET")
	r.HandleFunc("/cases/{id}", h.GetSubmission).Methods("GET")
	r.HandleFunc("/cases/{id}/payment-reference", h.SubmitPaymentReference).Methods("PUT")
	r.HandleFunc("/cases/{id}/payment-reference", h.GetPaymentReference).Methods("GET")
	r.HandleFunc("/cases/{id}/payment-code", h.GetStorePaymentCode).Methods("GET")
	r.HandleFunc("/cases/{id}/documents", h.UploadDocument).Methods("POST")
	r.HandleFunc("/cases/{id}/documents", h.GetDocumentsBySubmission).Methods("GET")
	r.HandleFunc("/cases/{id}/draft-motions", h.CreateDraftMotion).Methods("POST")
	r.HandleFunc("/cases/{id}/draft-motions", h.GetDraftMotionsBySubmission).Methods("GET")
	r.HandleFunc("/documents/{id}", h.GetDocument).Methods("GET")

	r.HandleFunc("/checkout-sessions", h.CreateCheckoutSession).Methods("POST")
	r.HandleFunc("/checkout-sessions/{id}/status", h.GetStripeSessionStatus).Methods("GET")
	r.HandleFunc("/stripe/configured", h.IsStripeConfigured).Methods("GET")

	r.HandleFunc("/roles/me", h.GetCallerUserRole).Methods("GET")
	r.HandleFunc("/profiles/me", h.SaveCallerUserProfile).Methods("PUT")
	r.HandleFunc("/profiles/me", h.GetCallerUserProfile).Methods("GET")
	r.HandleFunc("/profiles/{principal}", h.GetUserProfile).Methods("GET")

	r.HandleFunc("/admin/cases", h.GetAllSubmissions).Methods("GET")
	r.HandleFunc("/admin/cases/{id}/status", h.UpdateSubmissionStatusAdmin).Methods("PUT")
	r.HandleFunc("/admin/stripe/configuration", h.SetStripeConfiguration).Methods("PUT")
	r.HandleFunc("/admin/roles", h.AssignCallerUserRole).Methods("PUT")
}

// principal extracts the caller identity; empty string is a guest.
func principal(r *http.Request) string {
	return r.Header.Get(principalHeader)
}

// Helpers
func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}, method, endpoint string) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error, method, endpoint string) {
	code := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		code = http.StatusNotFound
	case domain.KindPermissionDenied:
		code = http.StatusForbidden
	case domain.KindValidation:
		code = http.StatusUnprocessableEntity
	case domain.KindUpstream:
		code = http.StatusBadGateway
	case domain.KindConflict:
		code = http.StatusConflict
	}
	h.respondJSON(w, code, map[string]string{
		"error": err.Error(),
		"kind":  string(domain.KindOf(err)),
	}, method, endpoint)
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf("malformed JSON body")
	}
	return nil
}
