package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
	"assetverse/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type requestStore interface {
	CreateRequest(ctx context.Context, req *models.AssetRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.AssetRequest, error)
	ListRequests(ctx context.Context) ([]models.AssetRequest, error)
	UpdateRequestStatusFrom(ctx context.Context, id int64, from, to string) (bool, error)
	ApproveRequest(ctx context.Context, id int64, approvalDate time.Time) (bool, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	GetAssetByID(ctx context.Context, id int64) (*models.Asset, error)
}

type requestEvents interface {
	PublishRequestApproved(ctx context.Context, event *models.RequestApprovedEvent) error
	PublishRequestRejected(ctx context.Context, event *models.RequestRejectedEvent) error
}

// RequestService owns the lifecycle of asset requests:
// Pending -> Approved or Rejected, and Approved -> Returned through the
// assignment return flow.
type RequestService struct {
	store        requestStore
	inventory    *InventoryService
	assignments  *AssignmentService
	affiliations *AffiliationTracker
	events       requestEvents
	logger       *zap.Logger
}

// NewRequestService creates a new request service. events may be nil.
func NewRequestService(
	store requestStore,
	inventory *InventoryService,
	assignments *AssignmentService,
	affiliations *AffiliationTracker,
	events requestEvents,
) *RequestService {
	return &RequestService{
		store:        store,
		inventory:    inventory,
		assignments:  assignments,
		affiliations: affiliations,
		events:       events,
		logger:       util.GetLogger(),
	}
}

// SubmitRequest files a new pending request for one unit of an asset.
// Product fields are copied from the asset so the request stays readable
// even if the asset is later deleted.
func (s *RequestService) SubmitRequest(ctx context.Context, req *models.AssetRequest) error {
	asset, err := s.store.GetAssetByID(ctx, req.AssetID)
	if err != nil {
		return err
	}

	req.ProductName = asset.ProductName
	req.ProductType = asset.ProductType
	req.Quantity = 1
	req.Status = models.RequestStatusPending

	if err := s.store.CreateRequest(ctx, req); err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	util.RequestsSubmittedTotal.Inc()
	s.logger.Info("Asset request submitted",
		zap.Int64("request_id", req.ID),
		zap.String("employee", req.EmployeeEmail),
		zap.Int64("asset_id", req.AssetID))

	return nil
}

// SetStatus drives a request through its state machine. Only
// Pending -> Approved and Pending -> Rejected are legal here; every other
// target fails with apperr.ErrInvalidTransition and mutates nothing.
func (s *RequestService) SetStatus(ctx context.Context, requestID int64, target string) (*models.AssetRequest, error) {
	ctx, span := util.StartSpan(ctx, "RequestService.SetStatus")
	defer span.End()

	req, err := s.store.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	switch target {
	case models.RequestStatusRejected:
		return s.reject(ctx, req)
	case models.RequestStatusApproved:
		return s.approve(ctx, req)
	default:
		return nil, fmt.Errorf("%s -> %s: %w", req.Status, target, apperr.ErrInvalidTransition)
	}
}

func (s *RequestService) reject(ctx context.Context, req *models.AssetRequest) (*models.AssetRequest, error) {
	if req.Status != models.RequestStatusPending {
		return nil, fmt.Errorf("%s -> %s: %w", req.Status, models.RequestStatusRejected, apperr.ErrInvalidTransition)
	}

	ok, err := s.store.UpdateRequestStatusFrom(ctx, req.ID,
		models.RequestStatusPending, models.RequestStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("request %d left Pending concurrently: %w", req.ID, apperr.ErrInvalidTransition)
	}

	util.RequestsRejectedTotal.Inc()
	s.logger.Info("Asset request rejected", zap.Int64("request_id", req.ID))

	if s.events != nil {
		event := &models.RequestRejectedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeRequestRejected,
				Timestamp: time.Now(),
			},
			RequestID:     req.ID,
			EmployeeEmail: req.EmployeeEmail,
		}
		if err := s.events.PublishRequestRejected(ctx, event); err != nil {
			s.logger.Error("Failed to publish RequestRejected event", zap.Error(err))
		}
	}

	req.Status = models.RequestStatusRejected
	return req, nil
}

// approve runs the full approval workflow. Ordering is significant: the
// stock decrement comes first, so a failed decrement leaves the request
// Pending with no assignment and no affiliation.
func (s *RequestService) approve(ctx context.Context, req *models.AssetRequest) (*models.AssetRequest, error) {
	if req.Status != models.RequestStatusPending {
		return nil, fmt.Errorf("%s -> %s: %w", req.Status, models.RequestStatusApproved, apperr.ErrInvalidTransition)
	}

	if _, err := s.store.GetEmployeeByEmail(ctx, req.EmployeeEmail); err != nil {
		return nil, err
	}

	asset, err := s.store.GetAssetByID(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	if err := s.inventory.Decrement(ctx, asset.ID); err != nil {
		if errors.Is(err, apperr.ErrInsufficientStock) {
			util.ApprovalsBlockedTotal.WithLabelValues("insufficient_stock").Inc()
			s.logger.Warn("Approval blocked, asset out of stock",
				zap.Int64("request_id", req.ID),
				zap.Int64("asset_id", asset.ID))
		} else {
			util.ApprovalsBlockedTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	now := time.Now()

	ok, err := s.store.ApproveRequest(ctx, req.ID, now)
	if err != nil {
		s.compensateDecrement(ctx, asset.ID)
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}
	if !ok {
		// Lost the transition race; give the unit back.
		s.compensateDecrement(ctx, asset.ID)
		return nil, fmt.Errorf("request %d left Pending concurrently: %w", req.ID, apperr.ErrInvalidTransition)
	}

	assignment, err := s.assignments.Record(ctx, req, asset, now)
	if err != nil {
		return nil, err
	}

	if err := s.affiliations.Ensure(ctx, req.EmployeeEmail, asset.CompanyName); err != nil {
		return nil, err
	}

	util.RequestsApprovedTotal.Inc()
	s.logger.Info("Asset request approved",
		zap.Int64("request_id", req.ID),
		zap.Int64("assignment_id", assignment.ID),
		zap.Int64("asset_id", asset.ID))

	if s.events != nil {
		event := &models.RequestApprovedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeRequestApproved,
				Timestamp: time.Now(),
			},
			RequestID:     req.ID,
			AssignmentID:  assignment.ID,
			EmployeeEmail: req.EmployeeEmail,
			AssetID:       asset.ID,
			CompanyName:   asset.CompanyName,
		}
		if err := s.events.PublishRequestApproved(ctx, event); err != nil {
			s.logger.Error("Failed to publish RequestApproved event", zap.Error(err))
		}
	}

	req.Status = models.RequestStatusApproved
	req.ApprovalDate = sql.NullTime{Time: now, Valid: true}
	return req, nil
}

func (s *RequestService) compensateDecrement(ctx context.Context, assetID int64) {
	if err := s.inventory.Restock(ctx, assetID); err != nil {
		s.logger.Error("Failed to compensate stock decrement",
			zap.Int64("asset_id", assetID),
			zap.Error(err))
	}
}

// GetRequest retrieves a request by ID
func (s *RequestService) GetRequest(ctx context.Context, requestID int64) (*models.AssetRequest, error) {
	return s.store.GetRequestByID(ctx, requestID)
}

// ListRequests retrieves all requests, newest first
func (s *RequestService) ListRequests(ctx context.Context) ([]models.AssetRequest, error) {
	return s.store.ListRequests(ctx)
}
