package gateway

import (
	"encoding/json"
	"net/http"
)

// RawResponse is the untransformed result of an outbound HTTPS call:
// whatever status, headers and body the processor happened to send.
type RawResponse struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// CanonicalResponse is the deterministically-reduced form of a processor
// response. Headers are dropped entirely and the body keeps only the fields
// the reconciliation logic reads, so that every replica observing the same
// request outcome holds byte-identical state. Skipping this reduction is a
// correctness bug: server-chosen headers (request ids, rate-limit counters,
// timestamps) differ per observation.
type CanonicalResponse struct {
	Status int           `json:"status"`
	Body   CanonicalBody `json:"body"`
}

// CanonicalBody is the whitelist of body fields that survive the transform.
type CanonicalBody struct {
	ID                string `json:"id,omitempty"`
	URL               string `json:"url,omitempty"`
	SessionStatus     string `json:"session_status,omitempty"`
	PaymentStatus     string `json:"payment_status,omitempty"`
	ClientReferenceID string `json:"client_reference_id,omitempty"`
	ErrorMessage      string `json:"error_message,omitempty"`
}

// Canonicalize reduces a raw response to its canonical form. It is a pure
// function of its argument: no clock, no randomness, no header values. A
// body that is not valid JSON reduces to the status code alone.
func Canonicalize(raw RawResponse) CanonicalResponse {
	var parsed struct {
		ID                string `json:"id"`
		URL               string `json:"url"`
		Status            string `json:"status"`
		PaymentStatus     string `json:"payment_status"`
		ClientReferenceID string `json:"client_reference_id"`
		Error             *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	canon := CanonicalResponse{Status: raw.Status}
	if err := json.Unmarshal(raw.Body, &parsed); err != nil {
		return canon
	}
	canon.Body = CanonicalBody{
		ID:                parsed.ID,
		URL:               parsed.URL,
		SessionStatus:     parsed.Status,
		PaymentStatus:     parsed.PaymentStatus,
		ClientReferenceID: parsed.ClientReferenceID,
	}
	if parsed.Error != nil {
		canon.Body.ErrorMessage = parsed.Error.Message
	}
	return canon
}

// JSON renders the canonical response with a fixed field order. Two equal
// canonical responses always encode to the same bytes.
func (c CanonicalResponse) JSON() string {
	b, _ := json.Marshal(c)
	return string(b)
}
