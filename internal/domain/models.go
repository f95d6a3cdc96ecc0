package domain

import "time"

// CaseSubmission is a case record a user creates to begin the review workflow.
// Owner, payment method and details are fixed at creation; only Status moves.
type CaseSubmission struct {
	ID            string           `json:"id"`
	User          string           `json:"user"`
	Details       string           `json:"details"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	Status        SubmissionStatus `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
}

// PaymentReference is the proof artifact confirming a non-card payment.
// At most one live reference exists per submission; a resubmission replaces it.
type PaymentReference struct {
	SubmissionID   string        `json:"submissionId"`
	ReferenceType  ReferenceType `json:"referenceType"`
	ReferenceValue string        `json:"referenceValue"`
}

// ShoppingItem is one checkout line item. Prices are integral minor
// currency units; floating point never enters the payment path.
type ShoppingItem struct {
	ProductName        string `json:"productName"`
	ProductDescription string `json:"productDescription"`
	PriceInCents       int64  `json:"priceInCents"`
	Currency           string `json:"currency"`
	Quantity           int64  `json:"quantity"`
}

// CheckoutSession is the opaque handle returned by the payment processor.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionStatus is the tagged outcome of a session poll. Exactly one of
// Completed/Failed is set.
type SessionStatus struct {
	Completed *SessionCompleted `json:"completed,omitempty"`
	Failed    *SessionFailed    `json:"failed,omitempty"`
}

// SessionCompleted reports a finished, paid session. UserPrincipal is the
// principal attached to the session at creation, when the processor echoed
// it back; Response is the canonical body the decision was made from.
type SessionCompleted struct {
	UserPrincipal string `json:"userPrincipal,omitempty"`
	Response      string `json:"response"`
}

// SessionFailed reports a session that did not complete. Terminal marks
// sessions the processor will never complete (expired), as opposed to ones
// still awaiting the payer; it informs local settlement and is not part of
// the wire shape.
type SessionFailed struct {
	Error    string `json:"error"`
	Terminal bool   `json:"-"`
}

// UserProfile holds caller-editable contact details.
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CaseDocument is the metadata record for a file attached to a submission.
// Blob storage and streaming live outside this service; this record only
// gates and indexes them.
type CaseDocument struct {
	ID           string       `json:"id"`
	SubmissionID string       `json:"submissionId"`
	User         string       `json:"user"`
	DocumentType DocumentType `json:"documentType"`
	FileName     string       `json:"fileName"`
	FileSize     int64        `json:"fileSize"`
	UploadTime   time.Time    `json:"uploadTime"`
}

// DraftMotion is a motion record prepared against a paid submission.
type DraftMotion struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submissionId"`
	User         string    `json:"user"`
	MotionType   string    `json:"motionType"`
	Content      string    `json:"content"`
	CreatedTime  time.Time `json:"createdTime"`
}
