package services

import (
	"context"
	"errors"
	"sync"

	"feedback-board/backend/app/models"
	"feedback-board/backend/app/repo"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// NewUser hashes the password and returns a user that is not yet persisted.
func NewUser(in RegisterInput, cost int) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username:  in.Username,
		Password:  string(hash),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}, nil
}

type UserService struct {
	users *repo.UserRepository
	// Cost is the bcrypt work factor for new hashes.
	Cost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(users *repo.UserRepository) *UserService {
	return &UserService{users: users, Cost: bcrypt.DefaultCost}
}

// Register builds and commits a new user. A taken username or email returns
// repo.ErrAlreadyExists and nothing is stored.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	u, err := NewUser(in, s.Cost)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user whose password matches. Unknown users still
// pay for a bcrypt comparison so both failures look the same from outside.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Profile returns the user and the feedback it owns.
func (s *UserService) Profile(ctx context.Context, username string) (*models.User, error) {
	return s.users.FindWithFeedback(ctx, username)
}

// Delete removes the user and, with it, all of its feedback.
func (s *UserService) Delete(ctx context.Context, username string) error {
	return s.users.Delete(ctx, username)
}

func (s *UserService) Exists(ctx context.Context, username string) (bool, error) {
	count, err := s.users.CountByUsername(ctx, username)
	return count > 0, err
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.Cost)
	})
	return s.dummyHash
}
