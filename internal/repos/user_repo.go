package repos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"rapidxcel/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, username, name, password_hash, role, created_at`

// Create inserts u. A taken username yields domain.ErrConflict.
func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`INSERT INTO users(id, username, name, password_hash, role) VALUES(?,?,?,?,?)`,
		u.ID, u.Username, u.Name, u.Hash, u.Role)
	if isUniqueViolation(err) {
		return errors.Wrap(domain.ErrConflict, "Username already exists")
	}
	return errors.Wrap(err, "insert user")
}

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(username)=LOWER(?)`, username)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(domain.ErrNotFound, what)
	}
	return errors.Wrapf(err, "load %s", what)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
