package services

import (
	"fmt"

	"rapidxcel/internal/authz"
	"rapidxcel/internal/domain"
	"rapidxcel/internal/pricing"
	"rapidxcel/internal/repos"
	"rapidxcel/internal/validate"
)

const LowStockThreshold = 10

type InventoryService struct {
	Stocks    *repos.StockRepo
	Policy    authz.Policy
	Threshold int
}

func NewInventoryService(stocks *repos.StockRepo, policy authz.Policy, threshold int) *InventoryService {
	if threshold <= 0 {
		threshold = LowStockThreshold
	}
	return &InventoryService{Stocks: stocks, Policy: policy, Threshold: threshold}
}

// StockView is a stock row as the inventory page shows it.
type StockView struct {
	domain.Stock
	Low            bool   `json:"low"`
	FormattedPrice string `json:"formatted_price"`
}

type Listing struct {
	Stocks   []StockView `json:"stocks"`
	Warnings []string    `json:"warnings"`
}

func (s *InventoryService) view(rows []domain.Stock) Listing {
	out := Listing{Stocks: make([]StockView, 0, len(rows)), Warnings: []string{}}
	for _, st := range rows {
		v := StockView{Stock: st, Low: st.Quantity < s.Threshold, FormattedPrice: pricing.FormatINR(st.Price)}
		if v.Low {
			out.Warnings = append(out.Warnings, fmt.Sprintf("Stock for %s is low!", st.Name))
		}
		out.Stocks = append(out.Stocks, v)
	}
	return out
}

// List returns every record, flagging those below the threshold. It
// changes nothing.
func (s *InventoryService) List(u *domain.User) (Listing, error) {
	if err := s.Policy.Authorize(u, authz.ViewStock); err != nil {
		return Listing{}, err
	}
	rows, err := s.Stocks.List()
	if err != nil {
		return Listing{}, err
	}
	return s.view(rows), nil
}

// Catalog is the product list customers order from.
func (s *InventoryService) Catalog(u *domain.User) ([]StockView, error) {
	if err := s.Policy.Authorize(u, authz.BrowseCatalog); err != nil {
		return nil, err
	}
	rows, err := s.Stocks.List()
	if err != nil {
		return nil, err
	}
	return s.view(rows).Stocks, nil
}

// CanManage reports whether u may add, edit or delete stock.
func (s *InventoryService) CanManage(u *domain.User) bool {
	return s.Policy.Authorize(u, authz.ManageStock) == nil
}

// SupplyReport lists only the records a supplier needs to replenish.
func (s *InventoryService) SupplyReport(u *domain.User) (Listing, error) {
	if err := s.Policy.Authorize(u, authz.MonitorSupply); err != nil {
		return Listing{}, err
	}
	rows, err := s.Stocks.LowStock(s.Threshold)
	if err != nil {
		return Listing{}, err
	}
	return s.view(rows), nil
}

func (s *InventoryService) Get(u *domain.User, id int64) (*domain.Stock, error) {
	if err := s.Policy.Authorize(u, authz.ViewStock); err != nil {
		return nil, err
	}
	return s.Stocks.Get(id)
}

func (s *InventoryService) Create(u *domain.User, in validate.StockInput) (*domain.Stock, error) {
	if err := s.Policy.Authorize(u, authz.ManageStock); err != nil {
		return nil, err
	}
	f, err := validate.Stock(in)
	if err != nil {
		return nil, err
	}
	return s.Stocks.Create(f)
}

func (s *InventoryService) Update(u *domain.User, id int64, in validate.StockInput) (*domain.Stock, error) {
	if err := s.Policy.Authorize(u, authz.ManageStock); err != nil {
		return nil, err
	}
	f, err := validate.Stock(in)
	if err != nil {
		return nil, err
	}
	return s.Stocks.Update(id, f)
}

// Delete is unconditional; placed orders keep their line snapshots.
func (s *InventoryService) Delete(u *domain.User, id int64) error {
	if err := s.Policy.Authorize(u, authz.ManageStock); err != nil {
		return err
	}
	return s.Stocks.Delete(id)
}
