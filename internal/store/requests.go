package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
)

// CreateRequest creates a new asset request
func (s *Store) CreateRequest(ctx context.Context, req *models.AssetRequest) error {
	query := `
		INSERT INTO asset_requests (employee_email, employee_name, asset_id, product_name, product_type, quantity, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, req, query,
		req.EmployeeEmail, req.EmployeeName, req.AssetID, req.ProductName,
		req.ProductType, req.Quantity, req.Note, req.Status)
}

// GetRequestByID retrieves an asset request by ID
func (s *Store) GetRequestByID(ctx context.Context, id int64) (*models.AssetRequest, error) {
	var req models.AssetRequest
	err := s.db.GetContext(ctx, &req, "SELECT * FROM asset_requests WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %d: %w", id, apperr.ErrRequestNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListRequests retrieves all asset requests, newest first
func (s *Store) ListRequests(ctx context.Context) ([]models.AssetRequest, error) {
	requests := []models.AssetRequest{}
	err := s.db.SelectContext(ctx, &requests,
		"SELECT * FROM asset_requests ORDER BY created_at DESC")
	return requests, err
}

// UpdateRequestStatusFrom moves a request from one status to another.
// The current status is part of the WHERE clause, so the transition guard
// and the update are one atomic statement. Returns false when the request
// was not in the expected status (or does not exist).
func (s *Store) UpdateRequestStatusFrom(ctx context.Context, id int64, from, to string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE asset_requests SET status = $1 WHERE id = $2 AND status = $3",
		to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ApproveRequest stamps the approval date and moves a pending request to
// Approved in one conditional update
func (s *Store) ApproveRequest(ctx context.Context, id int64, approvalDate time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE asset_requests SET status = $1, approval_date = $2 WHERE id = $3 AND status = $4",
		models.RequestStatusApproved, approvalDate, id, models.RequestStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
