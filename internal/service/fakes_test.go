package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
	"assetverse/internal/provider"
)

// fakeStore is an in-memory stand-in for store.Store. Mutations take the
// mutex so the conditional-update semantics match the real store.
type fakeStore struct {
	mu           sync.Mutex
	nextID       int64
	assets       map[int64]*models.Asset
	requests     map[int64]*models.AssetRequest
	assignments  map[int64]*models.Assignment
	affiliations map[string]bool
	employees    map[string]*models.Employee
	packages     map[int64]*models.Package
	payments     map[string]*models.Payment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assets:       make(map[int64]*models.Asset),
		requests:     make(map[int64]*models.AssetRequest),
		assignments:  make(map[int64]*models.Assignment),
		affiliations: make(map[string]bool),
		employees:    make(map[string]*models.Employee),
		packages:     make(map[int64]*models.Package),
		payments:     make(map[string]*models.Payment),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addAsset(name, productType, company string, quantity int) *models.Asset {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset := &models.Asset{
		ID:          f.id(),
		ProductName: name,
		ProductType: productType,
		Quantity:    quantity,
		CompanyName: company,
		CreatedAt:   time.Now(),
	}
	f.assets[asset.ID] = asset
	return asset
}

func (f *fakeStore) addEmployee(name, email string) *models.Employee {
	f.mu.Lock()
	defer f.mu.Unlock()
	emp := &models.Employee{
		ID:    f.id(),
		Name:  name,
		Email: email,
		Role:  models.RoleEmployee,
	}
	f.employees[email] = emp
	return emp
}

func (f *fakeStore) addRequest(employeeEmail string, assetID int64) *models.AssetRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset := f.assets[assetID]
	req := &models.AssetRequest{
		ID:            f.id(),
		EmployeeEmail: employeeEmail,
		AssetID:       assetID,
		ProductName:   asset.ProductName,
		ProductType:   asset.ProductType,
		Quantity:      1,
		Status:        models.RequestStatusPending,
		CreatedAt:     time.Now(),
	}
	f.requests[req.ID] = req
	return req
}

func (f *fakeStore) addPackage(name string, limit int, price int64, owner string) *models.Package {
	f.mu.Lock()
	defer f.mu.Unlock()
	pkg := &models.Package{
		ID:            f.id(),
		PackageName:   name,
		EmployeeLimit: limit,
		Price:         price,
		OwnerEmail:    owner,
		PaymentStatus: models.PackageStatusPending,
		CreatedAt:     time.Now(),
	}
	f.packages[pkg.ID] = pkg
	return pkg
}

// inventoryStore

func (f *fakeStore) GetAssetByID(ctx context.Context, id int64) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset, ok := f.assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %d: %w", id, apperr.ErrAssetNotFound)
	}
	copied := *asset
	return &copied, nil
}

func (f *fakeStore) ListAssets(ctx context.Context, searchText, productType string) ([]models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	assets := []models.Asset{}
	for _, a := range f.assets {
		assets = append(assets, *a)
	}
	return assets, nil
}

func (f *fakeStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset.ID = f.id()
	asset.CreatedAt = time.Now()
	copied := *asset
	f.assets[asset.ID] = &copied
	return nil
}

func (f *fakeStore) DeleteAsset(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.assets[id]; !ok {
		return fmt.Errorf("asset %d: %w", id, apperr.ErrAssetNotFound)
	}
	delete(f.assets, id)
	return nil
}

func (f *fakeStore) DecrementAssetQuantity(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset, ok := f.assets[id]
	if !ok || asset.Quantity <= 0 {
		return false, nil
	}
	asset.Quantity--
	return true, nil
}

func (f *fakeStore) IncrementAssetQuantity(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset, ok := f.assets[id]
	if !ok {
		return false, nil
	}
	asset.Quantity++
	return true, nil
}

// requestStore

func (f *fakeStore) CreateRequest(ctx context.Context, req *models.AssetRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ID = f.id()
	req.CreatedAt = time.Now()
	copied := *req
	f.requests[req.ID] = &copied
	return nil
}

func (f *fakeStore) GetRequestByID(ctx context.Context, id int64) (*models.AssetRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %d: %w", id, apperr.ErrRequestNotFound)
	}
	copied := *req
	return &copied, nil
}

func (f *fakeStore) ListRequests(ctx context.Context) ([]models.AssetRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	requests := []models.AssetRequest{}
	for _, r := range f.requests {
		requests = append(requests, *r)
	}
	return requests, nil
}

func (f *fakeStore) UpdateRequestStatusFrom(ctx context.Context, id int64, from, to string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	return true, nil
}

func (f *fakeStore) ApproveRequest(ctx context.Context, id int64, approvalDate time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok || req.Status != models.RequestStatusPending {
		return false, nil
	}
	req.Status = models.RequestStatusApproved
	req.ApprovalDate.Time = approvalDate
	req.ApprovalDate.Valid = true
	return true, nil
}

func (f *fakeStore) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	emp, ok := f.employees[email]
	if !ok {
		return nil, fmt.Errorf("employee %s: %w", email, apperr.ErrEmployeeNotFound)
	}
	copied := *emp
	return &copied, nil
}

// assignmentStore

func (f *fakeStore) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.id()
	copied := *a
	f.assignments[a.ID] = &copied
	return nil
}

func (f *fakeStore) GetAssignmentByID(ctx context.Context, id int64) (*models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok {
		return nil, fmt.Errorf("assignment %d: %w", id, apperr.ErrAssignmentNotFound)
	}
	copied := *a
	return &copied, nil
}

func (f *fakeStore) ListAssignments(ctx context.Context, searchText, productType string) ([]models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	assignments := []models.Assignment{}
	for _, a := range f.assignments {
		assignments = append(assignments, *a)
	}
	return assignments, nil
}

func (f *fakeStore) CloseAssignment(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok || a.Status != models.AssignmentStatusApproved {
		return false, nil
	}
	a.Status = models.AssignmentStatusReturned
	return true, nil
}

// affiliationStore

func (f *fakeStore) EnsureAffiliation(ctx context.Context, employeeEmail, companyName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.affiliations[employeeEmail+"|"+companyName] = true
	return nil
}

// paymentStore

func (f *fakeStore) GetPackageByID(ctx context.Context, id int64) (*models.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pkg, ok := f.packages[id]
	if !ok {
		return nil, fmt.Errorf("package %d: %w", id, apperr.ErrPackageNotFound)
	}
	copied := *pkg
	return &copied, nil
}

func (f *fakeStore) ListPackages(ctx context.Context, ownerEmail string) ([]models.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	packages := []models.Package{}
	for _, p := range f.packages {
		if ownerEmail == "" || p.OwnerEmail == ownerEmail {
			packages = append(packages, *p)
		}
	}
	return packages, nil
}

func (f *fakeStore) CreatePackage(ctx context.Context, pkg *models.Package) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pkg.ID = f.id()
	pkg.CreatedAt = time.Now()
	copied := *pkg
	f.packages[pkg.ID] = &copied
	return nil
}

func (f *fakeStore) PackageExists(ctx context.Context, ownerEmail, packageName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.packages {
		if p.OwnerEmail == ownerEmail && p.PackageName == packageName {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) PackageNameExists(ctx context.Context, packageName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.packages {
		if p.PackageName == packageName {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) MarkPackagePaid(ctx context.Context, id int64, paidAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pkg, ok := f.packages[id]
	if !ok {
		return false, nil
	}
	pkg.PaymentStatus = models.PackageStatusPaid
	pkg.PaidAt.Time = paidAt
	pkg.PaidAt.Valid = true
	return true, nil
}

func (f *fakeStore) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[transactionID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.payments[payment.TransactionID]; ok {
		return fmt.Errorf("payment %s: %w", payment.TransactionID, apperr.ErrDuplicate)
	}
	payment.ID = f.id()
	copied := *payment
	f.payments[payment.TransactionID] = &copied
	return nil
}

func (f *fakeStore) ListPaymentsByEmail(ctx context.Context, hrEmail string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payments := []models.Payment{}
	for _, p := range f.payments {
		if hrEmail == "" || p.HrEmail == hrEmail {
			payments = append(payments, *p)
		}
	}
	return payments, nil
}

// directoryStore

func (f *fakeStore) ListEmployees(ctx context.Context, email string) ([]models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	employees := []models.Employee{}
	for _, e := range f.employees {
		if email == "" || e.Email == email {
			employees = append(employees, *e)
		}
	}
	return employees, nil
}

func (f *fakeStore) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.employees[emp.Email]; ok {
		return fmt.Errorf("employee %s: %w", emp.Email, apperr.ErrDuplicate)
	}
	emp.ID = f.id()
	copied := *emp
	f.employees[emp.Email] = &copied
	return nil
}

func (f *fakeStore) DeleteEmployee(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, e := range f.employees {
		if e.ID == id {
			delete(f.employees, email)
			return nil
		}
	}
	return fmt.Errorf("employee %d: %w", id, apperr.ErrEmployeeNotFound)
}

func (f *fakeStore) ListManagers(ctx context.Context) ([]models.Manager, error) {
	return []models.Manager{}, nil
}

func (f *fakeStore) CreateManager(ctx context.Context, mgr *models.Manager) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	mgr.ID = f.id()
	return nil
}

func (f *fakeStore) ListCompanies(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

// fakeProvider is an in-memory payment provider
type fakeProvider struct {
	sessions    map[string]*provider.CheckoutSession
	retrieveErr error
	created     []provider.CheckoutParams
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: make(map[string]*provider.CheckoutSession)}
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, params provider.CheckoutParams) (*provider.CheckoutSession, error) {
	f.created = append(f.created, params)
	sess := &provider.CheckoutSession{
		ID:  fmt.Sprintf("cs_test_%d", len(f.created)),
		URL: "https://checkout.example.com/pay",
	}
	return sess, nil
}

func (f *fakeProvider) RetrieveSession(ctx context.Context, sessionID string) (*provider.CheckoutSession, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session: %s", sessionID)
	}
	return sess, nil
}
