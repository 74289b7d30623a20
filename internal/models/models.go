package models

import (
	"database/sql"
	"time"
)

// Asset represents a company-owned item with countable stock
type Asset struct {
	ID          int64     `db:"id" json:"id"`
	ProductName string    `db:"product_name" json:"product_name"`
	ProductType string    `db:"product_type" json:"product_type"`
	ProductURL  string    `db:"product_url" json:"product_url,omitempty"`
	Quantity    int       `db:"quantity" json:"quantity"`
	CompanyName string    `db:"company_name" json:"company_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AssetRequest represents an employee's ask for one unit of an asset
type AssetRequest struct {
	ID            int64        `db:"id" json:"id"`
	EmployeeEmail string       `db:"employee_email" json:"employee_email"`
	EmployeeName  string       `db:"employee_name" json:"employee_name"`
	AssetID       int64        `db:"asset_id" json:"asset_id"`
	ProductName   string       `db:"product_name" json:"product_name"`
	ProductType   string       `db:"product_type" json:"product_type"`
	Quantity      int          `db:"quantity" json:"quantity"`
	Note          string       `db:"note" json:"note,omitempty"`
	Status        string       `db:"status" json:"status"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	ApprovalDate  sql.NullTime `db:"approval_date" json:"approval_date,omitempty"`
}

// Assignment records an asset unit currently held by an employee.
// Exactly one assignment exists per approved request.
type Assignment struct {
	ID            int64     `db:"id" json:"id"`
	RequestID     int64     `db:"request_id" json:"request_id"`
	EmployeeEmail string    `db:"employee_email" json:"employee_email"`
	AssetID       int64     `db:"asset_id" json:"asset_id"`
	ProductName   string    `db:"product_name" json:"product_name"`
	ProductType   string    `db:"product_type" json:"product_type"`
	CompanyName   string    `db:"company_name" json:"company_name"`
	RequestDate   time.Time `db:"request_date" json:"request_date"`
	ApprovalDate  time.Time `db:"approval_date" json:"approval_date"`
	Status        string    `db:"status" json:"status"`
}

// Affiliation is a durable employee-company relationship established
// by first approval. Set semantics: unique per (employee, company).
type Affiliation struct {
	EmployeeEmail string    `db:"employee_email" json:"employee_email"`
	CompanyName   string    `db:"company_name" json:"company_name"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Employee represents a registered employee
type Employee struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	DateOfBirth string    `db:"date_of_birth" json:"date_of_birth,omitempty"`
	PhotoURL    string    `db:"photo_url" json:"photo_url,omitempty"`
	Role        string    `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Manager represents an HR manager who owns a company's assets
type Manager struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	CompanyName      string    `db:"company_name" json:"company_name"`
	CompanyLogo      string    `db:"company_logo" json:"company_logo,omitempty"`
	Email            string    `db:"email" json:"email"`
	DateOfBirth      string    `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Role             string    `db:"role" json:"role"`
	PackageLimit     int       `db:"package_limit" json:"package_limit"`
	CurrentEmployees int       `db:"current_employees" json:"current_employees"`
	Subscription     string    `db:"subscription" json:"subscription,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Package represents a subscription tier a manager pays for
type Package struct {
	ID            int64        `db:"id" json:"id"`
	PackageName   string       `db:"package_name" json:"package_name"`
	EmployeeLimit int          `db:"employee_limit" json:"employee_limit"`
	Price         int64        `db:"price" json:"price"`
	OwnerEmail    string       `db:"owner_email" json:"owner_email,omitempty"`
	TrackingID    string       `db:"tracking_id" json:"tracking_id,omitempty"`
	PaymentStatus string       `db:"payment_status" json:"payment_status"`
	PaidAt        sql.NullTime `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}

// Payment is an append-only record of one confirmed provider payment,
// keyed by the provider's payment-intent id for idempotence.
type Payment struct {
	ID            int64     `db:"id" json:"id"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	HrEmail       string    `db:"hr_email" json:"hr_email"`
	PackageID     int64     `db:"package_id" json:"package_id"`
	PackageName   string    `db:"package_name" json:"package_name"`
	EmployeeLimit int       `db:"employee_limit" json:"employee_limit"`
	Amount        int64     `db:"amount" json:"amount"`
	Currency      string    `db:"currency" json:"currency"`
	PaidAt        time.Time `db:"paid_at" json:"paid_at"`
}

// Asset product types
const (
	ProductTypeReturnable    = "Returnable"
	ProductTypeNonReturnable = "Non-returnable"
)

// Request statuses
const (
	RequestStatusPending  = "Pending"
	RequestStatusApproved = "Approved"
	RequestStatusRejected = "Rejected"
	RequestStatusReturned = "Returned"
)

// Assignment statuses
const (
	AssignmentStatusApproved = "Approved"
	AssignmentStatusReturned = "Returned"
)

// Package payment statuses
const (
	PackageStatusPending = "pending"
	PackageStatusPaid    = "paid"
)

// User roles
const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
)

// ProcessedEvent for idempotent event consumption
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
