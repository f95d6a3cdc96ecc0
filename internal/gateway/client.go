// Package gateway is the payment processor client. It creates hosted
// checkout sessions and polls their state over the processor's REST API,
// reducing every raw response to canonical form before it is consumed.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dferrand/caseops/internal/domain"
)

// The service sells exactly one product at a fixed price. Session creation
// rejects line items that disagree with it.
const (
	ServicePriceCents int64 = 9900
	ServiceCurrency         = "usd"
)

var gatewayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "caseops_gateway_requests_total",
	Help: "Outbound payment processor calls, labeled by operation and outcome",
}, []string{"operation", "outcome"})

// Config is the process-wide processor credential, set once by an admin.
type Config struct {
	SecretKey        string
	AllowedCountries []string
}

// Client talks to the payment processor. The zero credential state is
// valid: card payments are simply unavailable until an admin configures it.
type Client struct {
	baseURL string
	http    *http.Client

	mu  sync.RWMutex
	cfg *Config
}

// NewClient builds a client against baseURL with a bounded per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// IsConfigured is a side-effect-free probe for whether card payments are
// available.
func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg != nil
}

// SetConfiguration installs the credential and billing-country allow-list.
func (c *Client) SetConfiguration(secretKey string, allowedCountries []string) error {
	if strings.TrimSpace(secretKey) == "" {
		return domain.Validationf("secret key is required")
	}
	var countries []string
	for _, raw := range allowedCountries {
		if cc := strings.ToUpper(strings.TrimSpace(raw)); cc != "" {
			countries = append(countries, cc)
		}
	}
	if len(countries) == 0 {
		return domain.Validationf("at least one allowed country is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = &Config{SecretKey: secretKey, AllowedCountries: countries}
	return nil
}

func (c *Client) config() (*Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cfg == nil {
		return nil, domain.Validationf("payment gateway is not configured")
	}
	return c.cfg, nil
}

// CreateCheckoutSession opens a hosted checkout session for the given line
// items. The caller principal rides along as the session's client reference
// so a later poll can be settled against local state. Redirect URLs are
// opaque pass-throughs.
func (c *Client) CreateCheckoutSession(ctx context.Context, principal string, items []domain.ShoppingItem, successURL, cancelURL string) (*domain.CheckoutSession, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.Validationf("at least one line item is required")
	}
	if successURL == "" || cancelURL == "" {
		return nil, domain.Validationf("success and cancel URLs are required")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	if principal != "" {
		form.Set("client_reference_id", principal)
	}
	form.Set("payment_method_types[0]", "card")
	for i, cc := range cfg.AllowedCountries {
		form.Set(fmt.Sprintf("shipping_address_collection[allowed_countries][%d]", i), cc)
	}
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, domain.Validationf("line item %d: quantity must be positive", i)
		}
		if item.PriceInCents != ServicePriceCents || !strings.EqualFold(item.Currency, ServiceCurrency) {
			return nil, domain.Validationf("line item %d: price must be %d %s in minor units", i, ServicePriceCents, ServiceCurrency)
		}
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
		form.Set(prefix+"[price_data][currency]", strings.ToLower(item.Currency))
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.PriceInCents, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.ProductName)
		if item.ProductDescription != "" {
			form.Set(prefix+"[price_data][product_data][description]", item.ProductDescription)
		}
	}

	canon, err := c.call(ctx, "create_session", http.MethodPost, "/v1/checkout/sessions", cfg.SecretKey, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	if canon.Status != http.StatusOK {
		return nil, upstreamFromCanonical(canon, "session creation")
	}
	if canon.Body.ID == "" || canon.Body.URL == "" {
		return nil, domain.Upstreamf(nil, "session creation response missing id or url")
	}
	return &domain.CheckoutSession{ID: canon.Body.ID, URL: canon.Body.URL}, nil
}

// GetSessionStatus polls a session once. It is idempotent and holds no
// local state; callers may retry freely.
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*domain.SessionStatus, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, domain.Validationf("session id is required")
	}

	canon, err := c.call(ctx, "poll_session", http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), cfg.SecretKey, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case canon.Status == http.StatusNotFound:
		return nil, domain.NotFoundf("session %s not found", sessionID)
	case canon.Status != http.StatusOK:
		return nil, upstreamFromCanonical(canon, "session poll")
	}

	switch {
	case canon.Body.SessionStatus == "complete" && canon.Body.PaymentStatus == "paid":
		return &domain.SessionStatus{Completed: &domain.SessionCompleted{
			UserPrincipal: canon.Body.ClientReferenceID,
			Response:      canon.JSON(),
		}}, nil
	case canon.Body.SessionStatus == "expired":
		return &domain.SessionStatus{Failed: &domain.SessionFailed{Error: "session expired", Terminal: true}}, nil
	default:
		return &domain.SessionStatus{Failed: &domain.SessionFailed{Error: "session not completed"}}, nil
	}
}

// call performs one HTTPS round trip and canonicalizes the result. Only the
// canonical form leaves this function.
func (c *Client) call(ctx context.Context, operation, method, path, secretKey string, body io.Reader) (CanonicalResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return CanonicalResponse{}, domain.Upstreamf(err, "building %s request", operation)
	}
	req.SetBasicAuth(secretKey, "")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		gatewayRequestsTotal.WithLabelValues(operation, "transport_error").Inc()
		return CanonicalResponse{}, domain.Upstreamf(err, "%s call failed", operation)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		gatewayRequestsTotal.WithLabelValues(operation, "read_error").Inc()
		return CanonicalResponse{}, domain.Upstreamf(err, "%s response read failed", operation)
	}

	gatewayRequestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	return Canonicalize(RawResponse{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Body:    raw,
	}), nil
}

func upstreamFromCanonical(canon CanonicalResponse, operation string) error {
	if canon.Body.ErrorMessage != "" {
		return domain.Upstreamf(nil, "%s returned status %d: %s", operation, canon.Status, canon.Body.ErrorMessage)
	}
	return domain.Upstreamf(nil, "%s returned status %d", operation, canon.Status)
}
