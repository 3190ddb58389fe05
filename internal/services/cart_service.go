package services

import (
	"fmt"
	"strconv"
	"strings"

	"rapidxcel/internal/domain"
	"rapidxcel/internal/pricing"
	"rapidxcel/internal/repos"
)

type CartService struct {
	Stocks *repos.StockRepo
	Calc   pricing.Calculator
}

func NewCartService(stocks *repos.StockRepo, calc pricing.Calculator) *CartService {
	return &CartService{Stocks: stocks, Calc: calc}
}

// AddItems appends one line per selection with a quantity. Selections with
// a bad quantity, an unknown product or not enough stock (counting what is
// already in the cart) are skipped and reported as warnings. Only a storage
// failure returns an error, in which case the cart is returned unchanged.
func (s *CartService) AddItems(cart domain.Cart, sel []domain.Selection) (domain.Cart, []string, error) {
	ids := make([]int64, 0, len(sel))
	for _, x := range sel {
		if strings.TrimSpace(x.Quantity) != "" {
			ids = append(ids, x.ProductID)
		}
	}
	stocks, err := s.Stocks.ByIDs(ids)
	if err != nil {
		return cart, nil, err
	}

	out := domain.Cart{Lines: append([]domain.CartLine(nil), cart.Lines...)}
	var warnings []string
	for _, x := range sel {
		raw := strings.TrimSpace(x.Quantity)
		if raw == "" {
			continue
		}
		st, ok := stocks[x.ProductID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Product %d is no longer available.", x.ProductID))
			continue
		}
		qty, err := strconv.Atoi(raw)
		if err != nil || qty < 1 {
			warnings = append(warnings, fmt.Sprintf("Invalid quantity for %s.", st.Name))
			continue
		}
		if out.QuantityOf(st.ID)+qty > st.Quantity {
			warnings = append(warnings, fmt.Sprintf("Insufficient stock for %s.", st.Name))
			continue
		}
		out.Lines = append(out.Lines, domain.CartLine{
			ProductID:   st.ID,
			ProductName: st.Name,
			Quantity:    qty,
			UnitPrice:   st.Price,
			LineTotal:   pricing.Round(st.Price * float64(qty)),
			Weight:      st.Weight,
			Unit:        st.Unit,
		})
	}
	return out, warnings, nil
}

func (s *CartService) Summarize(cart domain.Cart) pricing.Totals {
	return s.Calc.ComputeTotals(cart.Lines)
}

func (s *CartService) Clear(domain.Cart) domain.Cart { return domain.Cart{} }
