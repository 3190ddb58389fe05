package repos

import (
	"embed"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"rapidxcel/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// OpenDB opens the SQLite database and applies pending migrations.
// A single connection is kept so ":memory:" databases survive across
// queries and write transactions serialize.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	if _, err = db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "sqlite pragmas")
	}
	if err = migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// The migrate instance is not closed: closing it closes the shared *sql.DB.
func migrateUp(db *sqlx.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "migration source")
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return errors.Wrap(err, "migrate instance")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

// SeedPassword is the password of every seeded demo account.
const SeedPassword = "Passw0rd!"

// Seed inserts one demo account per role and a few stock rows. Safe to run on
// every startup.
func Seed(db *sqlx.DB, cost int) error {
	type u struct {
		Username, Name string
		Role           domain.Role
	}
	users := []u{
		{"customer@rapidxcel.test", "Asha Customer", domain.RoleCustomer},
		{"manager@rapidxcel.test", "Ravi Manager", domain.RoleInventoryManager},
		{"supplier@rapidxcel.test", "Meena Supplier", domain.RoleSupplier},
		{"courier@rapidxcel.test", "Karthik Courier", domain.RoleCourier},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), cost)
	if err != nil {
		return errors.Wrap(err, "hash seed password")
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var added int64
	for _, x := range users {
		res, err := tx.Exec(`
			INSERT INTO users(id, username, name, password_hash, role)
			SELECT ?, ?, ?, ?, ?
			WHERE NOT EXISTS (SELECT 1 FROM users WHERE LOWER(username) = LOWER(?))
		`, uuid.NewString(), x.Username, x.Name, string(hash), x.Role, x.Username)
		if err != nil {
			return errors.Wrapf(err, "seed user %s", x.Username)
		}
		n, _ := res.RowsAffected()
		added += n
	}

	stocks := []domain.StockFields{
		{Name: "Basmati Rice", Price: 1250, Quantity: 40, Weight: 25, Unit: "kg"},
		{Name: "Sunflower Oil", Price: 180.5, Quantity: 60, Weight: 1, Unit: "litre"},
		{Name: "Toor Dal", Price: 145, Quantity: 8, Weight: 1, Unit: "kg"},
		{Name: "Packing Cartons", Price: 35, Quantity: 200, Weight: 0.4, Unit: "piece"},
	}
	for _, s := range stocks {
		res, err := tx.Exec(`
			INSERT INTO stocks(stock_name, price, quantity, weight, unit)
			SELECT ?, ?, ?, ?, ?
			WHERE NOT EXISTS (SELECT 1 FROM stocks WHERE LOWER(stock_name) = LOWER(?))
		`, s.Name, s.Price, s.Quantity, s.Weight, s.Unit, s.Name)
		if err != nil {
			return errors.Wrapf(err, "seed stock %s", s.Name)
		}
		n, _ := res.RowsAffected()
		added += n
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	if added > 0 {
		log.Printf("[seed] inserted %d demo rows", added)
	}
	return nil
}
