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

func TestRegisterEmployee(t *testing.T) {
	fs := newFakeStore()
	dir := NewDirectoryService(fs)

	emp := &models.Employee{Name: "Ana", Email: "ana@acme.test"}
	require.NoError(t, dir.RegisterEmployee(context.Background(), emp))
	assert.Equal(t, models.RoleEmployee, emp.Role)

	err := dir.RegisterEmployee(context.Background(), &models.Employee{
		Name:  "Ana again",
		Email: "ana@acme.test",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrDuplicate))
}

func TestRegisterManagerSeedsPackageTiers(t *testing.T) {
	fs := newFakeStore()
	dir := NewDirectoryService(fs)

	mgr := &models.Manager{Name: "Hana", Email: "hr@acme.test", CompanyName: "Acme"}
	require.NoError(t, dir.RegisterManager(context.Background(), mgr))
	assert.Equal(t, models.RoleHR, mgr.Role)

	packages, err := fs.ListPackages(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, packages, len(defaultPackageTiers))
	for _, pkg := range packages {
		assert.Equal(t, models.PackageStatusPending, pkg.PaymentStatus)
		assert.NotEmpty(t, pkg.TrackingID)
	}

	// A second registration must not duplicate the tiers.
	require.NoError(t, dir.RegisterManager(context.Background(), &models.Manager{
		Name: "Hugo", Email: "hr@globex.test", CompanyName: "Globex",
	}))

	packages, err = fs.ListPackages(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, packages, len(defaultPackageTiers))
}
