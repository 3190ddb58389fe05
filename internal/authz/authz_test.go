package authz_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"rapidxcel/internal/authz"
	"rapidxcel/internal/domain"
)

func TestDefaultPolicy(t *testing.T) {
	p := authz.Default
	assert.True(t, p.Allows(domain.RoleCustomer, authz.PlaceOrder))
	assert.True(t, p.Allows(domain.RoleCourier, authz.UpdateStatus))
	assert.True(t, p.Allows(domain.RoleInventoryManager, authz.ManageStock))
	assert.True(t, p.Allows(domain.RoleSupplier, authz.ViewStock))

	assert.False(t, p.Allows(domain.RoleCustomer, authz.UpdateStatus))
	assert.False(t, p.Allows(domain.RoleSupplier, authz.ManageStock))
	assert.False(t, p.Allows(domain.RoleCourier, authz.PlaceOrder))
	assert.False(t, p.Allows(domain.Role("Admin"), authz.ViewStock))
}

func TestAuthorize(t *testing.T) {
	p := authz.Default
	assert.True(t, errors.Is(p.Authorize(nil, authz.PlaceOrder), domain.ErrUnauthenticated))

	cust := &domain.User{ID: "c1", Role: domain.RoleCustomer}
	assert.NoError(t, p.Authorize(cust, authz.TrackOrder))
	assert.True(t, errors.Is(p.Authorize(cust, authz.UpdateStatus), domain.ErrForbidden))
}

func TestRequireRoleExactMatch(t *testing.T) {
	courier := &domain.User{ID: "k1", Role: domain.RoleCourier}
	assert.NoError(t, authz.RequireRole(courier, domain.RoleCourier))
	assert.True(t, errors.Is(authz.RequireRole(courier, domain.RoleCustomer), domain.ErrForbidden))
	assert.True(t, errors.Is(authz.RequireRole(nil, domain.RoleCustomer), domain.ErrUnauthenticated))
}
