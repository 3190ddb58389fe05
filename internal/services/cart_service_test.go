package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidxcel/internal/domain"
)

func TestAddItemsSkipsInsufficientStockButKeepsOthers(t *testing.T) {
	f := setup(t)
	rice := f.stock(t, "Rice", 100, 5)
	oil := f.stock(t, "Oil", 50, 20)

	cart, warnings, err := f.carts.AddItems(domain.Cart{}, []domain.Selection{
		{ProductID: rice.ID, Quantity: "10"},
		{ProductID: oil.ID, Quantity: "2"},
	})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, oil.ID, cart.Lines[0].ProductID)
	assert.Equal(t, 100.0, cart.Lines[0].LineTotal)
	assert.Equal(t, []string{"Insufficient stock for Rice."}, warnings)
}

func TestAddItemsCountsWhatIsAlreadyCarted(t *testing.T) {
	f := setup(t)
	rice := f.stock(t, "Rice", 100, 5)

	cart := f.cartWith(t, rice, "3")
	cart2, warnings, err := f.carts.AddItems(cart, []domain.Selection{{ProductID: rice.ID, Quantity: "3"}})
	require.NoError(t, err)
	assert.Len(t, cart2.Lines, 1)
	assert.Equal(t, []string{"Insufficient stock for Rice."}, warnings)

	cart3, warnings, err := f.carts.AddItems(cart, []domain.Selection{{ProductID: rice.ID, Quantity: "2"}})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, cart3.Lines, 2)
	assert.Equal(t, 5, cart3.QuantityOf(rice.ID))

	// The input cart is never mutated.
	assert.Len(t, cart.Lines, 1)
}

func TestAddItemsIgnoresBlankAndReportsBadInput(t *testing.T) {
	f := setup(t)
	rice := f.stock(t, "Rice", 100, 5)

	cart, warnings, err := f.carts.AddItems(domain.Cart{}, []domain.Selection{
		{ProductID: rice.ID, Quantity: ""},
		{ProductID: rice.ID, Quantity: "abc"},
		{ProductID: rice.ID, Quantity: "0"},
		{ProductID: 9999, Quantity: "1"},
	})
	require.NoError(t, err)
	assert.True(t, cart.Empty())
	assert.Equal(t, []string{
		"Invalid quantity for Rice.",
		"Invalid quantity for Rice.",
		"Product 9999 is no longer available.",
	}, warnings)
}

func TestSummarizeAndClear(t *testing.T) {
	f := setup(t)
	rice := f.stock(t, "Rice", 100, 5)
	oil := f.stock(t, "Oil", 45.5, 5)

	cart, _, err := f.carts.AddItems(domain.Cart{}, []domain.Selection{
		{ProductID: rice.ID, Quantity: "2"},
		{ProductID: oil.ID, Quantity: "1"},
	})
	require.NoError(t, err)

	tot := f.carts.Summarize(cart)
	assert.Equal(t, 245.5, tot.GoodsTotal)
	assert.Equal(t, 80.0, tot.ShippingCost)
	assert.Equal(t, tot.GoodsTotal+tot.ShippingCost, tot.GrandTotal)

	assert.True(t, f.carts.Clear(cart).Empty())
	assert.Equal(t, 50.0, f.carts.Summarize(domain.Cart{}).ShippingCost)
}
