package store

import (
	"context"
	"database/sql"
	"fmt"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
)

// CreateAssignment creates a new assignment record
func (s *Store) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	query := `
		INSERT INTO assignments (request_id, employee_email, asset_id, product_name, product_type, company_name, request_date, approval_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	return s.db.GetContext(ctx, &a.ID, query,
		a.RequestID, a.EmployeeEmail, a.AssetID, a.ProductName, a.ProductType,
		a.CompanyName, a.RequestDate, a.ApprovalDate, a.Status)
}

// GetAssignmentByID retrieves an assignment by ID
func (s *Store) GetAssignmentByID(ctx context.Context, id int64) (*models.Assignment, error) {
	var a models.Assignment
	err := s.db.GetContext(ctx, &a, "SELECT * FROM assignments WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("assignment %d: %w", id, apperr.ErrAssignmentNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAssignments retrieves assignments, optionally filtered by a name
// search and product type, newest approval first
func (s *Store) ListAssignments(ctx context.Context, searchText, productType string) ([]models.Assignment, error) {
	query := "SELECT * FROM assignments WHERE 1=1"
	args := []interface{}{}

	if searchText != "" {
		args = append(args, "%"+searchText+"%")
		query += fmt.Sprintf(" AND product_name ILIKE $%d", len(args))
	}
	if productType != "" {
		args = append(args, productType)
		query += fmt.Sprintf(" AND product_type = $%d", len(args))
	}
	query += " ORDER BY approval_date DESC"

	assignments := []models.Assignment{}
	err := s.db.SelectContext(ctx, &assignments, query, args...)
	return assignments, err
}

// CloseAssignment moves an Approved assignment to Returned. The status guard
// is in the WHERE clause, so closing an already-returned assignment affects
// zero rows and the caller can skip the restock. Returns false when nothing
// was updated.
func (s *Store) CloseAssignment(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE assignments SET status = $1 WHERE id = $2 AND status = $3",
		models.AssignmentStatusReturned, id, models.AssignmentStatusApproved)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// EnsureAffiliation records the employee-company relationship if it is not
// already present. The unique constraint makes concurrent inserts collapse
// into a single row.
func (s *Store) EnsureAffiliation(ctx context.Context, employeeEmail, companyName string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO affiliations (employee_email, company_name) VALUES ($1, $2) ON CONFLICT (employee_email, company_name) DO NOTHING",
		employeeEmail, companyName)
	return err
}

// CountAffiliations returns the number of affiliation rows for an employee
func (s *Store) CountAffiliations(ctx context.Context, employeeEmail string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM affiliations WHERE employee_email = $1", employeeEmail)
	return count, err
}
