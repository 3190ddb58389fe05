package domain

// CartLine is a snapshot of a stock row taken when it was added to the cart.
type CartLine struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"total_price"`
	Weight      float64 `json:"weight"`
	Unit        string  `json:"unit"`
}

type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c Cart) Empty() bool { return len(c.Lines) == 0 }

// QuantityOf sums the quantity already carted for a product.
func (c Cart) QuantityOf(productID int64) int {
	n := 0
	for _, l := range c.Lines {
		if l.ProductID == productID {
			n += l.Quantity
		}
	}
	return n
}

// Selection is one (product, quantity) pair from the order form. Quantity
// is kept raw so blank entries can be skipped.
type Selection struct {
	ProductID int64
	Quantity  string
}
