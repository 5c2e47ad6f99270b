// Package service implements the application's core business logic.
package service

import (
	"context"

	"whisperwall/internal/models"
	"whisperwall/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService verifies local credentials and registers password accounts.
type AuthService struct {
	users repository.UserRepository
}

// NewAuthService returns a new AuthService.
func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// HashPassword derives a salted bcrypt hash from a plaintext password.
func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash. An empty
// hash (OAuth-only account) never matches, so such accounts cannot be
// entered through the local login form.
func (s *AuthService) CheckPassword(hashed, password string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// Register creates a local account. The duplicate check here is advisory;
// concurrent registrations with the same email are serialized by the
// database unique index, and the losing writer gets the same
// DUPLICATE_EMAIL error from the repository.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateEmailError(nil)
	}

	hashed, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    &email,
		Password: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate resolves an email/password pair to a user. Unknown email and
// wrong password produce the identical error so the outcome does not reveal
// whether the account exists.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewBadCredentialsError()
	}
	if !s.CheckPassword(user.Password, password) {
		return nil, models.NewBadCredentialsError()
	}
	return user, nil
}
