package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"rapidxcel/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderSelect = `
	SELECT o.id, o.customer_id, COALESCE(u.name, '') AS customer_name,
	       o.total_cost, o.shipping_cost, o.grand_total,
	       o.delivery_address, o.pincode, o.phone, o.status, o.created_at, o.updated_at
	FROM orders o
	LEFT JOIN users u ON u.id = o.customer_id`

// Place persists o and its lines in one transaction. Each line decrements its
// stock only if enough is on hand; any shortfall rolls the whole order back
// with domain.ErrInsufficientStock. On success o.ID, o.Status and the
// timestamps are filled in.
func (r *OrderRepo) Place(o *domain.Order, lines []domain.CartLine) ([]domain.OrderLine, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO orders
		  (customer_id, total_cost, shipping_cost, grand_total, delivery_address, pincode, phone, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, o.CustomerID, o.GoodsTotal, o.ShippingCost, o.GrandTotal, o.Address, o.Pincode, o.Phone, domain.StatusProcessing)
	if err != nil {
		return nil, errors.Wrap(err, "insert order")
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	out := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		if err := decrement(tx, l.ProductID, l.Quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, errors.Wrapf(domain.ErrInsufficientStock, "Insufficient stock for %s.", l.ProductName)
			}
			return nil, err
		}
		res, err := tx.Exec(`
			INSERT INTO order_items(order_id, stock_id, stock_name, quantity, unit_price, line_total, weight, unit)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, orderID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice, l.LineTotal, l.Weight, l.Unit)
		if err != nil {
			return nil, errors.Wrap(err, "insert order line")
		}
		lineID, _ := res.LastInsertId()
		ol := domain.OrderLine{
			ID: lineID, OrderID: orderID, StockName: l.ProductName, Quantity: l.Quantity,
			UnitPrice: l.UnitPrice, LineTotal: l.LineTotal, Weight: l.Weight, Unit: l.Unit,
		}
		ol.StockID.Int64, ol.StockID.Valid = l.ProductID, true
		out = append(out, ol)
	}

	if err := insertEvent(tx, orderID, domain.StatusProcessing, o.CustomerID); err != nil {
		return nil, err
	}

	var stamps struct {
		CreatedAt string `db:"created_at"`
		UpdatedAt string `db:"updated_at"`
	}
	if err := tx.Get(&stamps, `SELECT created_at, updated_at FROM orders WHERE id = ?`, orderID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit order")
	}

	o.ID = orderID
	o.Status = domain.StatusProcessing
	o.CreatedAt, o.UpdatedAt = stamps.CreatedAt, stamps.UpdatedAt
	return out, nil
}

func (r *OrderRepo) Get(id int64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, orderSelect+` WHERE o.id = ?`, id); err != nil {
		return nil, notFound(err, "order")
	}
	return &o, nil
}

func (r *OrderRepo) Lines(orderID int64) ([]domain.OrderLine, error) {
	rows := []domain.OrderLine{}
	err := r.db.Select(&rows, `
		SELECT id, order_id, stock_id, stock_name, quantity, unit_price, line_total, weight, unit
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID)
	return rows, errors.Wrap(err, "load order lines")
}

// Events returns the status history oldest first.
func (r *OrderRepo) Events(orderID int64) ([]domain.OrderEvent, error) {
	rows := []domain.OrderEvent{}
	err := r.db.Select(&rows, `
		SELECT order_id, status, actor_id, created_at
		FROM order_events
		WHERE order_id = ?
		ORDER BY id
	`, orderID)
	return rows, errors.Wrap(err, "load order events")
}

// ListByCustomer returns the customer's orders newest first.
func (r *OrderRepo) ListByCustomer(customerID string) ([]domain.Order, error) {
	rows := []domain.Order{}
	err := r.db.Select(&rows, orderSelect+`
		WHERE o.customer_id = ?
		ORDER BY datetime(o.created_at) DESC, o.id DESC
	`, customerID)
	return rows, errors.Wrap(err, "list customer orders")
}

// ListAll returns every order newest first.
func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	rows := []domain.Order{}
	err := r.db.Select(&rows, orderSelect+`
		ORDER BY datetime(o.created_at) DESC, o.id DESC
	`)
	return rows, errors.Wrap(err, "list orders")
}

// UpdateStatus moves the order from one status to another only if it is
// still in from, and records the change. A lost race yields
// domain.ErrConflict.
func (r *OrderRepo) UpdateStatus(id int64, from, to domain.OrderStatus, actorID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, to, id, from)
	if err != nil {
		return errors.Wrap(err, "update order status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(domain.ErrConflict, "order %d is no longer %s", id, from)
	}
	if err := insertEvent(tx, id, to, actorID); err != nil {
		return err
	}
	return tx.Commit()
}

func insertEvent(tx *sqlx.Tx, orderID int64, status domain.OrderStatus, actorID string) error {
	_, err := tx.Exec(`INSERT INTO order_events(order_id, status, actor_id) VALUES (?, ?, ?)`,
		orderID, status, actorID)
	return errors.Wrap(err, "insert order event")
}
