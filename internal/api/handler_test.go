package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dferrand/caseops/internal/api"
	"github.com/dferrand/caseops/internal/domain"
	"github.com/dferrand/caseops/internal/gateway"
	"github.com/dferrand/caseops/internal/identity"
	"github.com/dferrand/caseops/internal/service"
	"github.com/dferrand/caseops/internal/store"
)

const adminPrincipal = "admin-1"

// fakeProcessor imitates the hosted checkout API for end-to-end tests.
func fakeProcessor(t *testing.T) *httptest.Server {
	t.Helper()
	m := http.NewServeMux()
	m.HandleFunc("POST /v1/checkout/sessions", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		fmt.Fprintf(w, `{"id": "cs_live_1", "url": "https://checkout.test/cs_live_1", "status": "open", "client_reference_id": %q}`,
			r.PostForm.Get("client_reference_id"))
	})
	m.HandleFunc("GET /v1/checkout/sessions/cs_live_1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "cs_live_1", "status": "complete", "payment_status": "paid", "client_reference_id": "alice"}`)
	})
	srv := httptest.NewServer(m)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mem := store.NewMemory()
	gate := identity.New(mem)
	require.NoError(t, gate.Bootstrap(context.Background(), adminPrincipal))

	gw := gateway.NewClient(fakeProcessor(t).URL, 2*time.Second)
	svc := service.New(gate, mem, gw)
	handler := api.NewHandler(svc)

	r := mux.NewRouter()
	handler.Register(r.PathPrefix("/api/v1").Subrouter())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// call sends a JSON request as the given principal and decodes the response.
func call(t *testing.T, srv *httptest.Server, method, path, principal string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+"/api/v1"+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if principal != "" {
		req.Header.Set("X-Principal", principal)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func createCase(t *testing.T, srv *httptest.Server, principal, method string) string {
	t.Helper()
	code, body := call(t, srv, "POST", "/cases", principal, map[string]string{
		"details":       "test case",
		"paymentMethod": method,
	})
	require.Equal(t, http.StatusCreated, code, "body: %v", body)
	id, _ := body["submissionId"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestCreateCaseEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Guests cannot create cases.
	code, body := call(t, srv, "POST", "/cases", "", map[string]string{
		"details": "x", "paymentMethod": "paypal",
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, string(domain.KindPermissionDenied), body["kind"])

	// Unknown method is a validation failure.
	code, body = call(t, srv, "POST", "/cases", "alice", map[string]string{
		"details": "x", "paymentMethod": "bitcoin",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, string(domain.KindValidation), body["kind"])

	id := createCase(t, srv, "alice", "cashapp")

	code, body = call(t, srv, "GET", "/cases/"+id, "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pendingPayment", body["status"])
	assert.Equal(t, "cashapp", body["paymentMethod"])
	assert.Equal(t, "alice", body["user"])
}

func TestSubmissionAccessControl(t *testing.T) {
	srv := newTestServer(t)
	id := createCase(t, srv, "alice", "paypal")

	code, body := call(t, srv, "GET", "/cases/"+id, "bob", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, string(domain.KindPermissionDenied), body["kind"])

	code, _ = call(t, srv, "GET", "/cases/"+id, adminPrincipal, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = call(t, srv, "GET", "/cases/does-not-exist", "alice", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, string(domain.KindNotFound), body["kind"])
}

func TestPaymentReferenceEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createCase(t, srv, "alice", "cashapp")

	// Mismatched pairing is rejected and the case stays pending.
	code, body := call(t, srv, "PUT", "/cases/"+id+"/payment-reference", "alice", map[string]string{
		"referenceType": "paypalTransactionId", "referenceValue": "PAYID-1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, string(domain.KindValidation), body["kind"])

	code, _ = call(t, srv, "PUT", "/cases/"+id+"/payment-reference", "alice", map[string]string{
		"referenceType": "cashappUsername", "referenceValue": "$alice",
	})
	require.Equal(t, http.StatusOK, code)

	code, body = call(t, srv, "GET", "/cases/"+id, "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "paid", body["status"])

	code, body = call(t, srv, "GET", "/cases/"+id+"/payment-reference", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cashappUsername", body["referenceType"])
	assert.Equal(t, "$alice", body["referenceValue"])
}

func TestStorePaymentCodeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createCase(t, srv, "alice", "inPersonCash")

	code, body := call(t, srv, "GET", "/cases/"+id+"/payment-code", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	first, _ := body["paymentCode"].(string)
	assert.Equal(t, service.StorePaymentCode(id), first)

	code, body = call(t, srv, "GET", "/cases/"+id+"/payment-code", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, first, body["paymentCode"])
}

func TestAdminStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)
	id := createCase(t, srv, "alice", "paypal")

	code, body := call(t, srv, "PUT", "/admin/cases/"+id+"/status", "alice", map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, string(domain.KindPermissionDenied), body["kind"])

	// Backward transition: paid first, then back to pendingPayment.
	code, _ = call(t, srv, "PUT", "/admin/cases/"+id+"/status", adminPrincipal, map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, srv, "PUT", "/admin/cases/"+id+"/status", adminPrincipal, map[string]string{"status": "pendingPayment"})
	require.Equal(t, http.StatusOK, code)

	code, body = call(t, srv, "GET", "/cases/"+id, "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pendingPayment", body["status"])
}

func TestAdminListEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createCase(t, srv, "alice", "paypal")
	createCase(t, srv, "bob", "cashapp")

	code, _ := call(t, srv, "GET", "/admin/cases", "alice", nil)
	assert.Equal(t, http.StatusForbidden, code)

	req, err := http.NewRequest("GET", srv.URL+"/api/v1/admin/cases", nil)
	require.NoError(t, err)
	req.Header.Set("X-Principal", adminPrincipal)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var subs []domain.CaseSubmission
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&subs))
	assert.Len(t, subs, 2)
}

func TestCheckoutFlowEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	id := createCase(t, srv, "alice", "card")

	// Card payments are gated on configuration.
	code, body := call(t, srv, "GET", "/stripe/configured", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["configured"])

	code, body = call(t, srv, "POST", "/checkout-sessions", "alice", map[string]any{
		"items": []domain.ShoppingItem{{
			ProductName:  "Criminal Defense Case Review",
			PriceInCents: 9900,
			Currency:     "usd",
			Quantity:     1,
		}},
		"successUrl": "https://app.test/payment-success",
		"cancelUrl":  "https://app.test/payment-failure",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, string(domain.KindValidation), body["kind"])

	code, body = call(t, srv, "PUT", "/admin/stripe/configuration", "bob", map[string]any{
		"secretKey": "sk_test_123", "allowedCountries": []string{"US"},
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, string(domain.KindPermissionDenied), body["kind"])

	code, _ = call(t, srv, "PUT", "/admin/stripe/configuration", adminPrincipal, map[string]any{
		"secretKey": "sk_test_123", "allowedCountries": []string{"US", "CA"},
	})
	require.Equal(t, http.StatusOK, code)

	code, body = call(t, srv, "GET", "/stripe/configured", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["configured"])

	code, body = call(t, srv, "POST", "/checkout-sessions", "alice", map[string]any{
		"items": []domain.ShoppingItem{{
			ProductName:  "Criminal Defense Case Review",
			PriceInCents: 9900,
			Currency:     "usd",
			Quantity:     1,
		}},
		"successUrl": "https://app.test/payment-success",
		"cancelUrl":  "https://app.test/payment-failure",
	})
	require.Equal(t, http.StatusCreated, code, "body: %v", body)
	assert.Equal(t, "cs_live_1", body["id"])
	assert.Equal(t, "https://checkout.test/cs_live_1", body["url"])

	// Polling the completed session settles the card submission.
	code, body = call(t, srv, "GET", "/checkout-sessions/cs_live_1/status", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, body["completed"], "body: %v", body)

	code, body = call(t, srv, "GET", "/cases/"+id, "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "paid", body["status"])
}

func TestRolesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	code, body := call(t, srv, "GET", "/roles/me", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "guest", body["role"])
	assert.Equal(t, false, body["isAdmin"])

	code, body = call(t, srv, "GET", "/roles/me", adminPrincipal, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, true, body["isAdmin"])

	code, _ = call(t, srv, "PUT", "/admin/roles", adminPrincipal, map[string]string{
		"principal": "alice", "role": "admin",
	})
	require.Equal(t, http.StatusOK, code)

	code, body = call(t, srv, "GET", "/roles/me", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin", body["role"])
}

func TestProfileEndpoints(t *testing.T) {
	srv := newTestServer(t)

	code, _ := call(t, srv, "PUT", "/profiles/me", "", domain.UserProfile{Name: "Nobody"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, srv, "PUT", "/profiles/me", "alice", domain.UserProfile{
		Name: "Alice", Email: "alice@example.test", Phone: "555-0100",
	})
	require.Equal(t, http.StatusOK, code)

	code, body := call(t, srv, "GET", "/profiles/me", "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Alice", body["name"])

	code, _ = call(t, srv, "GET", "/profiles/alice", "bob", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = call(t, srv, "GET", "/profiles/alice", adminPrincipal, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Alice", body["name"])
}

func TestDocumentAndMotionEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := createCase(t, srv, "alice", "cashapp")

	code, body := call(t, srv, "POST", "/cases/"+id+"/documents", "alice", map[string]any{
		"documentType": map[string]string{"kind": "evidence"},
		"fileName":     "photo.jpg",
		"fileSize":     1024,
	})
	require.Equal(t, http.StatusCreated, code, "body: %v", body)
	docID, _ := body["documentId"].(string)
	require.NotEmpty(t, docID)

	code, body = call(t, srv, "GET", "/documents/"+docID, "alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "photo.jpg", body["fileName"])

	code, _ = call(t, srv, "GET", "/documents/"+docID, "bob", nil)
	assert.Equal(t, http.StatusForbidden, code)

	// Motions are gated behind payment.
	code, body = call(t, srv, "POST", "/cases/"+id+"/draft-motions", "alice", map[string]string{
		"motionType": "dismiss", "content": "MOTION TO DISMISS ...",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, string(domain.KindValidation), body["kind"])

	code, _ = call(t, srv, "PUT", "/cases/"+id+"/payment-reference", "alice", map[string]string{
		"referenceType": "cashappUsername", "referenceValue": "$alice",
	})
	require.Equal(t, http.StatusOK, code)

	code, body = call(t, srv, "POST", "/cases/"+id+"/draft-motions", "alice", map[string]string{
		"motionType": "dismiss", "content": "MOTION TO DISMISS ...",
	})
	require.Equal(t, http.StatusCreated, code, "body: %v", body)
	assert.NotEmpty(t, body["motionId"])
}
