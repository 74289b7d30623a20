package service

import (
	"context"
	"fmt"
	"time"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
	"assetverse/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type assignmentStore interface {
	CreateAssignment(ctx context.Context, a *models.Assignment) error
	GetAssignmentByID(ctx context.Context, id int64) (*models.Assignment, error)
	ListAssignments(ctx context.Context, searchText, productType string) ([]models.Assignment, error)
	CloseAssignment(ctx context.Context, id int64) (bool, error)
	UpdateRequestStatusFrom(ctx context.Context, id int64, from, to string) (bool, error)
}

type assignmentEvents interface {
	PublishAssetReturned(ctx context.Context, event *models.AssetReturnedEvent) error
}

// AssignmentService records which employee holds which asset unit. One
// assignment is created per approved request and closed at most once.
type AssignmentService struct {
	store     assignmentStore
	inventory *InventoryService
	events    assignmentEvents
	logger    *zap.Logger
}

// NewAssignmentService creates a new assignment service. events may be nil.
func NewAssignmentService(store assignmentStore, inventory *InventoryService, events assignmentEvents) *AssignmentService {
	return &AssignmentService{
		store:     store,
		inventory: inventory,
		events:    events,
		logger:    util.GetLogger(),
	}
}

// Record creates the assignment row for a freshly approved request
func (s *AssignmentService) Record(ctx context.Context, req *models.AssetRequest, asset *models.Asset, approvalDate time.Time) (*models.Assignment, error) {
	assignment := &models.Assignment{
		RequestID:     req.ID,
		EmployeeEmail: req.EmployeeEmail,
		AssetID:       asset.ID,
		ProductName:   asset.ProductName,
		ProductType:   asset.ProductType,
		CompanyName:   asset.CompanyName,
		RequestDate:   req.CreatedAt,
		ApprovalDate:  approvalDate,
		Status:        models.AssignmentStatusApproved,
	}

	if err := s.store.CreateAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment, nil
}

// Return closes an assignment and puts the unit back into stock. Returning
// an already-returned assignment is a no-op success: the conditional close
// affects zero rows, so the restock is skipped and stock is never doubled.
func (s *AssignmentService) Return(ctx context.Context, assignmentID int64) (*models.Assignment, error) {
	ctx, span := util.StartSpan(ctx, "AssignmentService.Return")
	defer span.End()

	assignment, err := s.store.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if assignment.ProductType == models.ProductTypeNonReturnable {
		return nil, fmt.Errorf("assignment %d: %w", assignmentID, apperr.ErrNotReturnable)
	}

	closed, err := s.store.CloseAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to close assignment: %w", err)
	}
	if !closed {
		s.logger.Info("Assignment already returned",
			zap.Int64("assignment_id", assignmentID))
		assignment.Status = models.AssignmentStatusReturned
		return assignment, nil
	}

	if err := s.inventory.Restock(ctx, assignment.AssetID); err != nil {
		s.logger.Error("Failed to restock returned asset",
			zap.Int64("assignment_id", assignmentID),
			zap.Int64("asset_id", assignment.AssetID),
			zap.Error(err))
		return nil, err
	}

	// Close the originating request too; a lost race here only means the
	// request already left Approved.
	if _, err := s.store.UpdateRequestStatusFrom(ctx, assignment.RequestID,
		models.RequestStatusApproved, models.RequestStatusReturned); err != nil {
		s.logger.Error("Failed to mark request returned",
			zap.Int64("request_id", assignment.RequestID),
			zap.Error(err))
	}

	util.AssetsReturnedTotal.Inc()
	assignment.Status = models.AssignmentStatusReturned

	if s.events != nil {
		event := &models.AssetReturnedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeAssetReturned,
				Timestamp: time.Now(),
			},
			AssignmentID:  assignment.ID,
			RequestID:     assignment.RequestID,
			EmployeeEmail: assignment.EmployeeEmail,
			AssetID:       assignment.AssetID,
		}
		if err := s.events.PublishAssetReturned(ctx, event); err != nil {
			s.logger.Error("Failed to publish AssetReturned event", zap.Error(err))
		}
	}

	return assignment, nil
}

// List retrieves assignments with optional search and type filters
func (s *AssignmentService) List(ctx context.Context, searchText, productType string) ([]models.Assignment, error) {
	return s.store.ListAssignments(ctx, searchText, productType)
}
