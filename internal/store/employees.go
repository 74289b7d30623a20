package store

import (
	"context"
	"database/sql"
	"fmt"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
)

// GetEmployeeByEmail retrieves an employee by email
func (s *Store) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var emp models.Employee
	err := s.db.GetContext(ctx, &emp, "SELECT * FROM employees WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("employee %s: %w", email, apperr.ErrEmployeeNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees retrieves employees, optionally filtered by email,
// newest first
func (s *Store) ListEmployees(ctx context.Context, email string) ([]models.Employee, error) {
	employees := []models.Employee{}
	if email != "" {
		err := s.db.SelectContext(ctx, &employees,
			"SELECT * FROM employees WHERE email = $1 AND role = $2 ORDER BY created_at DESC",
			email, models.RoleEmployee)
		return employees, err
	}
	err := s.db.SelectContext(ctx, &employees,
		"SELECT * FROM employees WHERE role = $1 ORDER BY created_at DESC", models.RoleEmployee)
	return employees, err
}

// CreateEmployee inserts a new employee. Duplicate emails map to
// apperr.ErrDuplicate via the unique constraint.
func (s *Store) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	query := `
		INSERT INTO employees (name, email, date_of_birth, photo_url, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, emp, query,
		emp.Name, emp.Email, emp.DateOfBirth, emp.PhotoURL, emp.Role)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("employee %s: %w", emp.Email, apperr.ErrDuplicate)
	}
	return err
}

// DeleteEmployee removes an employee
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("employee %d: %w", id, apperr.ErrEmployeeNotFound)
	}
	return nil
}

// GetManagerByEmail retrieves an HR manager by email
func (s *Store) GetManagerByEmail(ctx context.Context, email string) (*models.Manager, error) {
	var mgr models.Manager
	err := s.db.GetContext(ctx, &mgr, "SELECT * FROM managers WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("manager %s: %w", email, apperr.ErrManagerNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &mgr, nil
}

// ListManagers retrieves all HR managers
func (s *Store) ListManagers(ctx context.Context) ([]models.Manager, error) {
	managers := []models.Manager{}
	err := s.db.SelectContext(ctx, &managers,
		"SELECT * FROM managers ORDER BY created_at DESC")
	return managers, err
}

// CreateManager inserts a new HR manager. Duplicate emails map to
// apperr.ErrDuplicate via the unique constraint.
func (s *Store) CreateManager(ctx context.Context, mgr *models.Manager) error {
	query := `
		INSERT INTO managers (name, company_name, company_logo, email, date_of_birth, role, package_limit, current_employees, subscription)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, mgr, query,
		mgr.Name, mgr.CompanyName, mgr.CompanyLogo, mgr.Email, mgr.DateOfBirth,
		mgr.Role, mgr.PackageLimit, mgr.CurrentEmployees, mgr.Subscription)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("manager %s: %w", mgr.Email, apperr.ErrDuplicate)
	}
	return err
}

// ListCompanies returns the distinct company names of registered HR managers
func (s *Store) ListCompanies(ctx context.Context) ([]string, error) {
	companies := []string{}
	err := s.db.SelectContext(ctx, &companies,
		"SELECT DISTINCT company_name FROM managers ORDER BY company_name")
	return companies, err
}
