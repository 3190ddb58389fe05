package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rapidxcel/internal/authz"
	"rapidxcel/internal/domain"
	"rapidxcel/internal/pricing"
	"rapidxcel/internal/qrcode"
	"rapidxcel/internal/repos"
	"rapidxcel/internal/services"
	"rapidxcel/internal/validate"
)

type fixture struct {
	db     *sqlx.DB
	auth   *services.AuthService
	carts  *services.CartService
	inv    *services.InventoryService
	orders *services.OrderService
	stocks *repos.StockRepo
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	stocks := repos.NewStockRepo(db)
	return &fixture{
		db:     db,
		auth:   services.NewAuthService(repos.NewUserRepo(db), bcrypt.MinCost),
		carts:  services.NewCartService(stocks, pricing.Default),
		inv:    services.NewInventoryService(stocks, authz.Default, services.LowStockThreshold),
		orders: services.NewOrderService(repos.NewOrderRepo(db), pricing.Default, authz.Default, qrcode.NewTracker("http://localhost:8080", 128, "M")),
		stocks: stocks,
	}
}

func (f *fixture) user(t *testing.T, username string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.auth.Register(validate.RegisterInput{
		Username: username, Password: "longenough", Name: username, Role: string(role),
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) stock(t *testing.T, name string, price float64, qty int) *domain.Stock {
	t.Helper()
	s, err := f.stocks.Create(domain.StockFields{Name: name, Price: price, Quantity: qty, Weight: 1.5, Unit: "kg"})
	require.NoError(t, err)
	return s
}

func (f *fixture) cartWith(t *testing.T, s *domain.Stock, qty string) domain.Cart {
	t.Helper()
	cart, warnings, err := f.carts.AddItems(domain.Cart{}, []domain.Selection{{ProductID: s.ID, Quantity: qty}})
	require.NoError(t, err)
	require.Empty(t, warnings)
	return cart
}

var address = validate.OrderInput{Address: "12 Anna Salai, Chennai", Pincode: "600001", Phone: "9876543210"}
