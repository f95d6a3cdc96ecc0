package domain

// PaymentMethod enumerates the four ways a submission can be paid for.
// The set is closed: every switch over it must be exhaustive so that adding
// a method is a compile-visible, single-point change.
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodCashApp      PaymentMethod = "cashapp"
	PaymentMethodInPersonCash PaymentMethod = "inPersonCash"
)

// ParsePaymentMethod validates a wire string against the closed enumeration.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodCashApp, PaymentMethodInPersonCash:
		return PaymentMethod(s), nil
	}
	return "", Validationf("unknown payment method %q", s)
}

// ReferenceType returns the reference type that confirms this method, or
// false for card, which is confirmed by a gateway session poll instead.
func (m PaymentMethod) ReferenceType() (ReferenceType, bool) {
	switch m {
	case PaymentMethodPayPal:
		return ReferencePayPalTransactionID, true
	case PaymentMethodCashApp:
		return ReferenceCashAppUsername, true
	case PaymentMethodInPersonCash:
		return ReferenceStorePaymentCode, true
	case PaymentMethodCard:
		return "", false
	}
	return "", false
}

// ReferenceType tags which payment method a stored reference proves.
type ReferenceType string

const (
	ReferencePayPalTransactionID ReferenceType = "paypalTransactionId"
	ReferenceCashAppUsername     ReferenceType = "cashappUsername"
	ReferenceStorePaymentCode    ReferenceType = "storePaymentCode"
)

// ParseReferenceType validates a wire string against the closed enumeration.
func ParseReferenceType(s string) (ReferenceType, error) {
	switch ReferenceType(s) {
	case ReferencePayPalTransactionID, ReferenceCashAppUsername, ReferenceStorePaymentCode:
		return ReferenceType(s), nil
	}
	return "", Validationf("unknown reference type %q", s)
}

// SubmissionStatus is the lifecycle state of a case submission.
//
// The automatic flow is pendingPayment -> paid -> processing -> completed,
// with failed reachable from any non-terminal state. Admin overrides may
// write any state over any other.
type SubmissionStatus string

const (
	StatusPendingPayment SubmissionStatus = "pendingPayment"
	StatusPaid           SubmissionStatus = "paid"
	StatusProcessing     SubmissionStatus = "processing"
	StatusCompleted      SubmissionStatus = "completed"
	StatusFailed         SubmissionStatus = "failed"
)

// ParseSubmissionStatus validates a wire string against the closed enumeration.
func ParseSubmissionStatus(s string) (SubmissionStatus, error) {
	switch SubmissionStatus(s) {
	case StatusPendingPayment, StatusPaid, StatusProcessing, StatusCompleted, StatusFailed:
		return SubmissionStatus(s), nil
	}
	return "", Validationf("unknown submission status %q", s)
}

// Terminal reports whether no automatic transition leaves this state.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Role is the authorization tier resolved per caller per call.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a wire string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleGuest, RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", Validationf("unknown role %q", s)
}

// DocumentType classifies an uploaded case document. Other carries the
// caller-supplied label and is only meaningful when Kind is "other".
type DocumentType struct {
	Kind  string `json:"kind"`
	Other string `json:"other,omitempty"`
}

const (
	DocumentAffidavit  = "affidavit"
	DocumentEvidence   = "evidence"
	DocumentCourtOrder = "courtOrder"
	DocumentOther      = "other"
)

// Validate checks the document type tag and its payload.
func (d DocumentType) Validate() error {
	switch d.Kind {
	case DocumentAffidavit, DocumentEvidence, DocumentCourtOrder:
		return nil
	case DocumentOther:
		if d.Other == "" {
			return Validationf("document type %q requires a label", DocumentOther)
		}
		return nil
	}
	return Validationf("unknown document type %q", d.Kind)
}
