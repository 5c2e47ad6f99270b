package service

import (
	"context"

	"whisperwall/internal/models"
	"whisperwall/internal/oauth"
	"whisperwall/internal/repository"
)

// OAuthService maps external provider profiles onto local accounts.
type OAuthService struct {
	users repository.UserRepository
}

// NewOAuthService returns a new OAuthService.
func NewOAuthService(users repository.UserRepository) *OAuthService {
	return &OAuthService{users: users}
}

// Resolve finds or creates the account for an external profile. Matching
// prefers the provider subject; failing that, an existing account with the
// profile's email is linked to the subject. Repeated sign-ins with the same
// profile always land on the same account.
func (s *OAuthService) Resolve(ctx context.Context, profile *oauth.Profile) (*models.User, error) {
	email := profile.PrimaryEmail()
	if email == "" {
		return nil, models.NewValidationError("provider profile has no email address")
	}

	user, err := s.users.GetByGoogleID(ctx, profile.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		// Existing local account with the same email: link it to the
		// provider subject so future sign-ins match directly.
		if user.GoogleID == nil {
			googleID := profile.Subject
			user.GoogleID = &googleID
			if err := s.users.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	googleID := profile.Subject
	user = &models.User{
		Email:    &email,
		GoogleID: &googleID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
