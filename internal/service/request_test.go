package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
)

func newRequestFixture(t *testing.T) (*fakeStore, *RequestService, *AssignmentService) {
	t.Helper()
	fs := newFakeStore()
	inv := NewInventoryService(fs, nil)
	assignments := NewAssignmentService(fs, inv, nil)
	affiliations := NewAffiliationTracker(fs)
	requests := NewRequestService(fs, inv, assignments, affiliations, nil)
	return fs, requests, assignments
}

func TestSubmitRequestCopiesAssetFields(t *testing.T) {
	fs, requests, _ := newRequestFixture(t)
	fs.addEmployee("Ana", "ana@acme.test")
	asset := fs.addAsset("Laptop", models.ProductTypeReturnable, "Acme", 5)

	req := &models.AssetRequest{EmployeeEmail: "ana@acme.test", AssetID: asset.ID}
	require.NoError(t, requests.SubmitRequest(context.Background(), req))

	assert.Equal(t, "Laptop", req.ProductName)
	assert.Equal(t, models.ProductTypeReturnable, req.ProductType)
	assert.Equal(t, 1, req.Quantity)
	assert.Equal(t, models.RequestStatusPending, req.Status)
}

func TestSubmitRequestUnknownAsset(t *testing.T) {
	_, requests, _ := newRequestFixture(t)

	err := requests.SubmitRequest(context.Background(), &models.AssetRequest{
		EmployeeEmail: "ana@acme.test",
		AssetID:       777,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrAssetNotFound))
}

func TestApproveRequest(t *testing.T) {
	fs, requests, _ := newRequestFixture(t)
	fs.addEmployee("Ana", "ana@acme.test")
	asset := fs.addAsset("Laptop", models.ProductTypeReturnable, "Acme", 2)
	req := fs.addRequest("ana@acme.test", asset.ID)

	approved, err := requests.SetStatus(context.Background(), req.ID, models.RequestStatusApproved)
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusApproved, approved.Status)
	assert.True(t, approved.ApprovalDate.Valid)

	got, err := fs.GetAssetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)

	assignments, err := fs.ListAssignments(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, req.ID, assignments[0].RequestID)
	assert.Equal(t, "ana@acme.test", assignments[0].EmployeeEmail)
	assert.Equal(t, models.AssignmentStatusApproved, assignments[0].Status)

	assert.True(t, fs.affiliations["ana@acme.test|Acme"])
}

func TestApproveRequestOutOfStock(t *testing.T) {
	fs, requests, _ := newRequestFixture(t)
	fs.addEmployee("Ana", "ana@acme.test")
	asset := fs.addAsset("Laptop", models.ProductTypeReturnable, "Acme", 0)
	req := fs.addRequest("ana@acme.test", asset.ID)

	_, err := requests.SetStatus(context.Background(), req.ID, models.RequestStatusApproved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInsufficientStock))

	// Nothing mutated: still Pending, no assignment, no affiliation.
	got, err := fs.GetRequestByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, got.Status)
	assert.False(t, got.ApprovalDate.Valid)

	assignments, err := fs.ListAssignments(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, assignments)
	assert.Empty(t, fs.affiliations)

	stock, err := fs.GetAssetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Quantity)
}

func TestApproveRequestTwice(t *testing.T) {
	fs, requests, _ := newRequestFixture(t)
	fs.addEmployee("Ana", "ana@acme.test")
	asset := fs.addAsset("Laptop", models.ProductTypeReturnable, "Acme", 5)
	req := fs.addRequest("ana@acme.test", asset.ID)

	_, err := requests.SetStatus(context.Background(), req.ID, models.RequestStatusApproved)
	require.NoError(t, err)

	_, err = requests.SetStatus(context.Background(), req.ID, models.RequestStatusApproved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))

	// The second attempt must not touch stock.
	got, err := fs.GetAssetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
}

func TestRejectRequest(t *testing.T) {
	fs, requests, _ := newRequestFixture(t)
	fs.addEmployee("Ana", "ana@acme.test")
	asset := fs.addAsset("Laptop", models.ProductTypeReturnable, "Acme", 5)
	req := fs.addRequest("ana@acme.test", asset.ID)

	rejected, err := requests.SetStatus(context.Background(), req.ID, models.RequestStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, rejected.Status)

	got, err := fs.GetAssetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity, "rejection must not touch stock")
}

func TestApproveAfterReject(t *testing.T) {
	fs, requests, _ := newRequestFixture(t)
	fs.addEmployee("Ana", "ana@acme.test")
	asset := fs.addAsset("Laptop", models.ProductTypeReturnable, "Acme", 5)
	req := fs.addRequest("ana@acme.test", asset.ID)

	_, err := requests.SetStatus(context.Background(), req.ID, models.RequestStatusRejected)
	require.NoError(t, err)

	_, err = requests.SetStatus(context.Background(), req.ID, models.RequestStatusApproved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
}

func TestSetStatusUnknownTarget(t *testing.T) {
	fs, requests, _ := newRequestFixture(t)
	fs.addEmployee("Ana", "ana@acme.test")
	asset := fs.addAsset("Laptop", models.ProductTypeReturnable, "Acme", 5)
	req := fs.addRequest("ana@acme.test", asset.ID)

	_, err := requests.SetStatus(context.Background(), req.ID, "Archived")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidTransition))
}

func TestApproveRequestUnknownEmployee(t *testing.T) {
	fs, requests, _ := newRequestFixture(t)
	asset := fs.addAsset("Laptop", models.ProductTypeReturnable, "Acme", 5)
	req := fs.addRequest("ghost@acme.test", asset.ID)

	_, err := requests.SetStatus(context.Background(), req.ID, models.RequestStatusApproved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrEmployeeNotFound))

	got, err := fs.GetAssetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
}

func TestAffiliationRecordedOncePerCompany(t *testing.T) {
	fs, requests, _ := newRequestFixture(t)
	fs.addEmployee("Ana", "ana@acme.test")
	asset := fs.addAsset("Laptop", models.ProductTypeReturnable, "Acme", 5)

	first := fs.addRequest("ana@acme.test", asset.ID)
	second := fs.addRequest("ana@acme.test", asset.ID)

	_, err := requests.SetStatus(context.Background(), first.ID, models.RequestStatusApproved)
	require.NoError(t, err)
	_, err = requests.SetStatus(context.Background(), second.ID, models.RequestStatusApproved)
	require.NoError(t, err)

	assert.Len(t, fs.affiliations, 1, "same employee and company collapse to one affiliation")
}

// TestRequestLifecycle walks one asset unit through the full cycle:
// submit, approve, return, approve a second request for the freed unit.
func TestRequestLifecycle(t *testing.T) {
	fs, requests, assignments := newRequestFixture(t)
	fs.addEmployee("Ana", "ana@acme.test")
	fs.addEmployee("Ben", "ben@acme.test")
	asset := fs.addAsset("Laptop", models.ProductTypeReturnable, "Acme", 1)

	first := &models.AssetRequest{EmployeeEmail: "ana@acme.test", AssetID: asset.ID}
	require.NoError(t, requests.SubmitRequest(context.Background(), first))

	_, err := requests.SetStatus(context.Background(), first.ID, models.RequestStatusApproved)
	require.NoError(t, err)

	// The only unit is out; a second request cannot be approved.
	second := &models.AssetRequest{EmployeeEmail: "ben@acme.test", AssetID: asset.ID}
	require.NoError(t, requests.SubmitRequest(context.Background(), second))

	_, err = requests.SetStatus(context.Background(), second.ID, models.RequestStatusApproved)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInsufficientStock))

	// Ana returns her unit.
	held, err := fs.ListAssignments(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, held, 1)

	returned, err := assignments.Return(context.Background(), held[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusReturned, returned.Status)

	firstAfter, err := fs.GetRequestByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusReturned, firstAfter.Status)

	// The freed unit makes Ben's approval possible.
	_, err = requests.SetStatus(context.Background(), second.ID, models.RequestStatusApproved)
	require.NoError(t, err)

	stock, err := fs.GetAssetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Quantity)
}
