package services_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidxcel/internal/domain"
	"rapidxcel/internal/validate"
)

func TestInventoryCRUD(t *testing.T) {
	f := setup(t)
	mgr := f.user(t, "mgr@example.com", domain.RoleInventoryManager)

	s, err := f.inv.Create(mgr, validate.StockInput{Name: "Rice", Price: "1250", Quantity: "40", Weight: "25", Unit: "kg"})
	require.NoError(t, err)

	s, err = f.inv.Update(mgr, s.ID, validate.StockInput{Name: "Rice", Price: "1300", Quantity: "4", Weight: "25", Unit: "kg"})
	require.NoError(t, err)
	assert.Equal(t, 1300.0, s.Price)

	got, err := f.inv.Get(mgr, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	require.NoError(t, f.inv.Delete(mgr, s.ID))
	_, err = f.inv.Get(mgr, s.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestInventoryValidationDoesNotMutate(t *testing.T) {
	f := setup(t)
	mgr := f.user(t, "mgr@example.com", domain.RoleInventoryManager)
	s := f.stock(t, "Rice", 100, 5)

	_, err := f.inv.Update(mgr, s.ID, validate.StockInput{Name: "Rice", Price: "abc", Quantity: "1", Weight: "1", Unit: "kg"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Please enter valid data for all fields.", ve.Message)

	_, err = f.inv.Create(mgr, validate.StockInput{Name: "", Price: "1", Quantity: "1", Weight: "1", Unit: "kg"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "All fields are required!", ve.Message)

	still, err := f.stocks.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, still.Price)

	listing, err := f.inv.List(mgr)
	require.NoError(t, err)
	assert.Len(t, listing.Stocks, 1)
}

func TestInventoryListFlagsLowStock(t *testing.T) {
	f := setup(t)
	mgr := f.user(t, "mgr@example.com", domain.RoleInventoryManager)
	f.stock(t, "Rice", 1234567.5, 9)
	f.stock(t, "Oil", 10, 10)

	listing, err := f.inv.List(mgr)
	require.NoError(t, err)
	require.Len(t, listing.Stocks, 2)
	assert.Equal(t, []string{"Stock for Rice is low!"}, listing.Warnings)

	byName := map[string]bool{}
	for _, s := range listing.Stocks {
		byName[s.Name] = s.Low
		if s.Name == "Rice" {
			assert.Equal(t, "₹12,34,567.50", s.FormattedPrice)
		}
	}
	assert.True(t, byName["Rice"])
	assert.False(t, byName["Oil"])

	q, err := f.stocks.Get(listing.Stocks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, listing.Stocks[0].Quantity, q.Quantity)
}

func TestInventoryAccessByRole(t *testing.T) {
	f := setup(t)
	sup := f.user(t, "sup@example.com", domain.RoleSupplier)
	cust := f.user(t, "cust@example.com", domain.RoleCustomer)
	f.stock(t, "Rice", 10, 3)
	f.stock(t, "Oil", 10, 30)

	report, err := f.inv.SupplyReport(sup)
	require.NoError(t, err)
	require.Len(t, report.Stocks, 1)
	assert.Equal(t, "Rice", report.Stocks[0].Name)

	_, err = f.inv.List(sup)
	assert.NoError(t, err)

	_, err = f.inv.Create(sup, validate.StockInput{Name: "X", Price: "1", Quantity: "1", Weight: "1", Unit: "kg"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = f.inv.List(cust)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = f.inv.List(nil)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestCatalogIsForCustomers(t *testing.T) {
	f := setup(t)
	cust := f.user(t, "cust@example.com", domain.RoleCustomer)
	mgr := f.user(t, "mgr@example.com", domain.RoleInventoryManager)
	f.stock(t, "Rice", 10, 3)

	products, err := f.inv.Catalog(cust)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "₹10.00", products[0].FormattedPrice)

	_, err = f.inv.Catalog(mgr)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestCanManageIsManagerOnly(t *testing.T) {
	f := setup(t)
	assert.True(t, f.inv.CanManage(f.user(t, "mgr@example.com", domain.RoleInventoryManager)))
	assert.False(t, f.inv.CanManage(f.user(t, "sup@example.com", domain.RoleSupplier)))
	assert.False(t, f.inv.CanManage(nil))
}
