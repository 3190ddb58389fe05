package domain

import "database/sql"

type Stock struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"stock_name" json:"stock_name"`
	Price     float64 `db:"price" json:"price"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Weight    float64 `db:"weight" json:"weight"`
	Unit      string  `db:"unit" json:"unit"`
	CreatedAt string  `db:"created_at" json:"created_at"`
	UpdatedAt string  `db:"updated_at" json:"updated_at"`
}

// StockFields is the editable part of a Stock.
type StockFields struct {
	Name     string  `validate:"required,max=100"`
	Price    float64 `validate:"gte=0"`
	Quantity int     `validate:"gte=0"`
	Weight   float64 `validate:"gt=0"`
	Unit     string  `validate:"required,max=20"`
}

type Order struct {
	ID           int64       `db:"id" json:"id"`
	CustomerID   string      `db:"customer_id" json:"customer_id"`
	CustomerName string      `db:"customer_name" json:"customer_name"`
	GoodsTotal   float64     `db:"total_cost" json:"total_cost"`
	ShippingCost float64     `db:"shipping_cost" json:"shipping_cost"`
	GrandTotal   float64     `db:"grand_total" json:"grand_total"`
	Address      string      `db:"delivery_address" json:"delivery_address"`
	Pincode      string      `db:"pincode" json:"pincode"`
	Phone        string      `db:"phone" json:"phone"`
	Status       OrderStatus `db:"status" json:"status"`
	CreatedAt    string      `db:"created_at" json:"created_at"`
	UpdatedAt    string      `db:"updated_at" json:"updated_at"`
}

type OrderLine struct {
	ID        int64         `db:"id" json:"id"`
	OrderID   int64         `db:"order_id" json:"order_id"`
	StockID   sql.NullInt64 `db:"stock_id" json:"-"`
	StockName string        `db:"stock_name" json:"stock_name"`
	Quantity  int           `db:"quantity" json:"quantity"`
	UnitPrice float64       `db:"unit_price" json:"unit_price"`
	LineTotal float64       `db:"line_total" json:"line_total"`
	Weight    float64       `db:"weight" json:"weight"`
	Unit      string        `db:"unit" json:"unit"`
}

type OrderEvent struct {
	OrderID   int64       `db:"order_id" json:"order_id"`
	Status    OrderStatus `db:"status" json:"status"`
	ActorID   string      `db:"actor_id" json:"actor_id"`
	CreatedAt string      `db:"created_at" json:"created_at"`
}
