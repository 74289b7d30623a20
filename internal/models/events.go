package models

import "time"

// Event types
const (
	EventTypeRequestApproved   = "REQUEST_APPROVED"
	EventTypeRequestRejected   = "REQUEST_REJECTED"
	EventTypeAssetReturned     = "ASSET_RETURNED"
	EventTypePaymentReconciled = "PAYMENT_RECONCILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// RequestApprovedEvent published when an asset request is approved
type RequestApprovedEvent struct {
	BaseEvent
	RequestID     int64  `json:"request_id"`
	AssignmentID  int64  `json:"assignment_id"`
	EmployeeEmail string `json:"employee_email"`
	AssetID       int64  `json:"asset_id"`
	CompanyName   string `json:"company_name"`
}

// RequestRejectedEvent published when an asset request is rejected
type RequestRejectedEvent struct {
	BaseEvent
	RequestID     int64  `json:"request_id"`
	EmployeeEmail string `json:"employee_email"`
}

// AssetReturnedEvent published when an assigned asset is returned
type AssetReturnedEvent struct {
	BaseEvent
	AssignmentID  int64  `json:"assignment_id"`
	RequestID     int64  `json:"request_id"`
	EmployeeEmail string `json:"employee_email"`
	AssetID       int64  `json:"asset_id"`
}

// PaymentReconciledEvent published when a provider payment is persisted
type PaymentReconciledEvent struct {
	BaseEvent
	PaymentID     int64  `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
	PackageID     int64  `json:"package_id"`
	HrEmail       string `json:"hr_email"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}
