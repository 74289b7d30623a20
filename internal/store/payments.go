package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
)

// GetPackageByID retrieves a package by ID
func (s *Store) GetPackageByID(ctx context.Context, id int64) (*models.Package, error) {
	var pkg models.Package
	err := s.db.GetContext(ctx, &pkg, "SELECT * FROM packages WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("package %d: %w", id, apperr.ErrPackageNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ListPackages retrieves packages, optionally filtered by owner email,
// newest first
func (s *Store) ListPackages(ctx context.Context, ownerEmail string) ([]models.Package, error) {
	packages := []models.Package{}
	if ownerEmail != "" {
		err := s.db.SelectContext(ctx, &packages,
			"SELECT * FROM packages WHERE owner_email = $1 ORDER BY created_at DESC", ownerEmail)
		return packages, err
	}
	err := s.db.SelectContext(ctx, &packages,
		"SELECT * FROM packages ORDER BY created_at DESC")
	return packages, err
}

// CreatePackage inserts a new package
func (s *Store) CreatePackage(ctx context.Context, pkg *models.Package) error {
	query := `
		INSERT INTO packages (package_name, employee_limit, price, owner_email, tracking_id, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, pkg, query,
		pkg.PackageName, pkg.EmployeeLimit, pkg.Price, pkg.OwnerEmail,
		pkg.TrackingID, pkg.PaymentStatus)
}

// PackageExists reports whether a package with the given name already
// exists for the owner
func (s *Store) PackageExists(ctx context.Context, ownerEmail, packageName string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM packages WHERE owner_email = $1 AND package_name = $2)",
		ownerEmail, packageName)
	return exists, err
}

// PackageNameExists reports whether any package carries the given name
func (s *Store) PackageNameExists(ctx context.Context, packageName string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM packages WHERE package_name = $1)", packageName)
	return exists, err
}

// MarkPackagePaid moves a package to paid and stamps the payment time.
// Returns false when the package does not exist.
func (s *Store) MarkPackagePaid(ctx context.Context, id int64, paidAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE packages SET payment_status = $1, paid_at = $2 WHERE id = $3",
		models.PackageStatusPaid, paidAt, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetPaymentByTransactionID retrieves a payment by the provider transaction
// id. Returns nil without error when no payment exists.
func (s *Store) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.GetContext(ctx, &payment,
		"SELECT * FROM payments WHERE transaction_id = $1", transactionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreatePayment inserts a new payment record. The unique index on
// transaction_id turns a concurrent duplicate insert into
// apperr.ErrDuplicate, which the reconciler resolves by re-reading.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (transaction_id, hr_email, package_id, package_name, employee_limit, amount, currency, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := s.db.GetContext(ctx, &payment.ID, query,
		payment.TransactionID, payment.HrEmail, payment.PackageID, payment.PackageName,
		payment.EmployeeLimit, payment.Amount, payment.Currency, payment.PaidAt)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("payment %s: %w", payment.TransactionID, apperr.ErrDuplicate)
	}
	return err
}

// ListPaymentsByEmail retrieves payments for an HR manager, newest first
func (s *Store) ListPaymentsByEmail(ctx context.Context, hrEmail string) ([]models.Payment, error) {
	payments := []models.Payment{}
	if hrEmail != "" {
		err := s.db.SelectContext(ctx, &payments,
			"SELECT * FROM payments WHERE hr_email = $1 ORDER BY paid_at DESC", hrEmail)
		return payments, err
	}
	err := s.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments ORDER BY paid_at DESC")
	return payments, err
}
