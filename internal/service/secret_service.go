package service

import (
	"context"
	"encoding/json"
	"fmt"

	"whisperwall/internal/middleware"
	"whisperwall/internal/models"
	"whisperwall/internal/repository"
)

// SecretService implements posting, listing and deleting secrets and their
// replies.
type SecretService struct {
	users   repository.UserRepository
	secrets repository.SecretRepository
	replies repository.ReplyRepository
}

// NewSecretService returns a new SecretService.
func NewSecretService(users repository.UserRepository, secrets repository.SecretRepository, replies repository.ReplyRepository) *SecretService {
	return &SecretService{users: users, secrets: secrets, replies: replies}
}

// PostSecret records a new secret for the given user.
func (s *SecretService) PostSecret(ctx context.Context, userID uint, text string) (*models.Secret, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	secret := &models.Secret{Text: text, UserID: userID}
	if err := s.secrets.Create(ctx, secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// ListSecrets returns every user who has at least one secret, with secrets
// and their reply threads attached in posting order.
func (s *SecretService) ListSecrets(ctx context.Context) ([]models.User, error) {
	return s.users.ListWithSecrets(ctx)
}

// DeleteSecret removes a secret and its replies when it belongs to
// requesterID. Deleting a missing or foreign secret succeeds without effect,
// so the operation is idempotent and reveals nothing about other users'
// secrets.
func (s *SecretService) DeleteSecret(ctx context.Context, requesterID, secretID uint) error {
	return s.secrets.DeleteOwned(ctx, requesterID, secretID)
}

// AddReply attaches a reply to an existing secret.
func (s *SecretService) AddReply(ctx context.Context, authorID, secretID uint, text string) (*models.Reply, error) {
	if _, err := s.secrets.GetByID(ctx, secretID); err != nil {
		return nil, err
	}
	reply := &models.Reply{Text: text, SecretID: secretID, AuthorID: authorID}
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteReply removes a reply when requesterID is its author and it belongs
// to the given secret. Every other case, including a missing reply or a
// non-author requester, is a silent no-op.
func (s *SecretService) DeleteReply(ctx context.Context, requesterID, secretID, replyID uint) error {
	reply, err := s.replies.GetByID(ctx, replyID)
	if err != nil {
		if models.IsNotFound(err) {
			return nil
		}
		return err
	}
	if reply.SecretID != secretID || reply.AuthorID != requesterID {
		return nil
	}
	return s.replies.Delete(ctx, reply.ID)
}

// MigrateLegacySecrets converts users' legacy plain-string secrets into
// first-class secret rows. Each user is migrated in its own transaction and
// the legacy column is cleared, so a rerun finds nothing to do.
func (s *SecretService) MigrateLegacySecrets(ctx context.Context) (int, error) {
	users, err := s.users.ListWithLegacySecrets(ctx)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for i := range users {
		user := &users[i]
		var texts []string
		if err := json.Unmarshal([]byte(user.LegacySecrets), &texts); err != nil {
			return migrated, models.NewInternalError(fmt.Errorf("user %d has malformed legacy secrets: %w", user.ID, err))
		}
		if err := s.secrets.MigrateLegacy(ctx, user.ID, texts); err != nil {
			return migrated, err
		}
		migrated += len(texts)
		middleware.Logger.InfoContext(ctx, "migrated legacy secrets",
			"user_id", user.ID,
			"count", len(texts))
	}
	return migrated, nil
}
