package service

import (
	"context"
	"fmt"

	"assetverse/internal/models"
	"assetverse/internal/util"

	"go.uber.org/zap"
)

type directoryStore interface {
	GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	ListEmployees(ctx context.Context, email string) ([]models.Employee, error)
	CreateEmployee(ctx context.Context, emp *models.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
	ListManagers(ctx context.Context) ([]models.Manager, error)
	CreateManager(ctx context.Context, mgr *models.Manager) error
	ListCompanies(ctx context.Context) ([]string, error)
	PackageNameExists(ctx context.Context, packageName string) (bool, error)
	CreatePackage(ctx context.Context, pkg *models.Package) error
}

// defaultPackageTiers are seeded once, on first HR registration. Prices
// are in minor units (cents).
var defaultPackageTiers = []models.Package{
	{PackageName: "Basic", EmployeeLimit: 5, Price: 10000},
	{PackageName: "Standard", EmployeeLimit: 15, Price: 90000},
	{PackageName: "Premium", EmployeeLimit: 30, Price: 190000},
	{PackageName: "Enterprise", EmployeeLimit: 999, Price: 490000},
}

// DirectoryService handles employee and manager registration and the
// company directory
type DirectoryService struct {
	store  directoryStore
	logger *zap.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(store directoryStore) *DirectoryService {
	return &DirectoryService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// RegisterEmployee registers a new employee account
func (s *DirectoryService) RegisterEmployee(ctx context.Context, emp *models.Employee) error {
	if emp.Role == "" {
		emp.Role = models.RoleEmployee
	}

	if err := s.store.CreateEmployee(ctx, emp); err != nil {
		return err
	}

	s.logger.Info("Employee registered", zap.String("email", emp.Email))
	return nil
}

// RegisterManager registers a new HR manager and seeds the default
// package tiers if they are not present yet
func (s *DirectoryService) RegisterManager(ctx context.Context, mgr *models.Manager) error {
	if mgr.Role == "" {
		mgr.Role = models.RoleHR
	}

	if err := s.store.CreateManager(ctx, mgr); err != nil {
		return err
	}

	for _, tier := range defaultPackageTiers {
		exists, err := s.store.PackageNameExists(ctx, tier.PackageName)
		if err != nil {
			return fmt.Errorf("failed to check package tier %s: %w", tier.PackageName, err)
		}
		if exists {
			continue
		}

		pkg := tier
		pkg.OwnerEmail = mgr.Email
		pkg.PaymentStatus = models.PackageStatusPending
		pkg.TrackingID = newTrackingID()
		if err := s.store.CreatePackage(ctx, &pkg); err != nil {
			return fmt.Errorf("failed to seed package tier %s: %w", tier.PackageName, err)
		}
	}

	s.logger.Info("Manager registered",
		zap.String("email", mgr.Email),
		zap.String("company", mgr.CompanyName))
	return nil
}

// GetEmployee retrieves an employee by email
func (s *DirectoryService) GetEmployee(ctx context.Context, email string) (*models.Employee, error) {
	return s.store.GetEmployeeByEmail(ctx, email)
}

// ListEmployees retrieves employees, optionally filtered by email
func (s *DirectoryService) ListEmployees(ctx context.Context, email string) ([]models.Employee, error) {
	return s.store.ListEmployees(ctx, email)
}

// RemoveEmployee deletes an employee from the team
func (s *DirectoryService) RemoveEmployee(ctx context.Context, id int64) error {
	return s.store.DeleteEmployee(ctx, id)
}

// ListManagers retrieves all HR managers
func (s *DirectoryService) ListManagers(ctx context.Context) ([]models.Manager, error) {
	return s.store.ListManagers(ctx)
}

// ListCompanies returns the distinct company names of registered managers
func (s *DirectoryService) ListCompanies(ctx context.Context) ([]string, error) {
	return s.store.ListCompanies(ctx)
}
