package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"rapidxcel/internal/domain"
)

type StockRepo struct{ db *sqlx.DB }

func NewStockRepo(db *sqlx.DB) *StockRepo { return &StockRepo{db: db} }

const stockCols = `id, stock_name, price, quantity, weight, unit, created_at, updated_at`

// List returns every stock record ordered by name.
func (r *StockRepo) List() ([]domain.Stock, error) {
	rows := []domain.Stock{}
	err := r.db.Select(&rows, `SELECT `+stockCols+` FROM stocks ORDER BY LOWER(stock_name), id`)
	return rows, errors.Wrap(err, "list stocks")
}

// LowStock returns records whose quantity is below threshold, scarcest first.
func (r *StockRepo) LowStock(threshold int) ([]domain.Stock, error) {
	rows := []domain.Stock{}
	err := r.db.Select(&rows, `SELECT `+stockCols+` FROM stocks WHERE quantity < ? ORDER BY quantity, LOWER(stock_name)`, threshold)
	return rows, errors.Wrap(err, "list low stock")
}

func (r *StockRepo) Get(id int64) (*domain.Stock, error) {
	var s domain.Stock
	if err := r.db.Get(&s, `SELECT `+stockCols+` FROM stocks WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "stock")
	}
	return &s, nil
}

// ByIDs loads the given records keyed by id. Missing ids are absent from the map.
func (r *StockRepo) ByIDs(ids []int64) (map[int64]domain.Stock, error) {
	out := make(map[int64]domain.Stock, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT `+stockCols+` FROM stocks WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []domain.Stock
	if err := r.db.Select(&rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "load stocks")
	}
	for _, s := range rows {
		out[s.ID] = s
	}
	return out, nil
}

func (r *StockRepo) Create(f domain.StockFields) (*domain.Stock, error) {
	res, err := r.db.Exec(`
		INSERT INTO stocks(stock_name, price, quantity, weight, unit)
		VALUES (?, ?, ?, ?, ?)
	`, f.Name, f.Price, f.Quantity, f.Weight, f.Unit)
	if err != nil {
		return nil, errors.Wrap(err, "insert stock")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(id)
}

func (r *StockRepo) Update(id int64, f domain.StockFields) (*domain.Stock, error) {
	res, err := r.db.Exec(`
		UPDATE stocks
		SET stock_name = ?, price = ?, quantity = ?, weight = ?, unit = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, f.Name, f.Price, f.Quantity, f.Weight, f.Unit, id)
	if err != nil {
		return nil, errors.Wrap(err, "update stock")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errors.Wrap(domain.ErrNotFound, "stock")
	}
	return r.Get(id)
}

// Delete removes the record. Order lines keep their snapshot; their stock_id
// becomes NULL.
func (r *StockRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM stocks WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete stock")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrap(domain.ErrNotFound, "stock")
	}
	return nil
}

// decrement subtracts by units inside tx if enough stock exists.
func decrement(tx *sqlx.Tx, stockID int64, by int) error {
	res, err := tx.Exec(`
		UPDATE stocks
		SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity >= ?
	`, by, stockID, by)
	if err != nil {
		return errors.Wrap(err, "decrement stock")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errors.Wrapf(domain.ErrInsufficientStock, "stock %d", stockID)
	}
	return nil
}
