package services

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"rapidxcel/internal/domain"
	"rapidxcel/internal/repos"
	"rapidxcel/internal/validate"
)

type AuthService struct {
	Users *repos.UserRepo
	Cost  int
}

func NewAuthService(users *repos.UserRepo, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{Users: users, Cost: cost}
}

// Register validates the form, hashes the password and stores the account.
func (s *AuthService) Register(in validate.RegisterInput) (*domain.User, error) {
	role, err := validate.Register(&in)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.Cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u := &domain.User{
		ID:       uuid.NewString(),
		Username: in.Username,
		Name:     in.Name,
		Hash:     string(hash),
		Role:     role,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return s.Users.ByID(u.ID)
}

func (s *AuthService) Login(username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, domain.ErrBadCredentials
	}
	return u, nil
}

// CurrentUser resolves the user id stored in the session.
func (s *AuthService) CurrentUser(id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.Users.ByID(id)
}
