package service

import (
	"context"
	"testing"

	"whisperwall/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretService_PostSecret(t *testing.T) {
	t.Parallel()

	t.Run("creates secret for existing user", func(t *testing.T) {
		t.Parallel()
		secrets := noopSecretRepo()
		secrets.createFn = func(_ context.Context, s *models.Secret) error {
			s.ID = 3
			return nil
		}

		svc := NewSecretService(noopUserRepo(), secrets, noopReplyRepo())
		secret, err := svc.PostSecret(context.Background(), 1, "i still use vim bindings in word")
		require.NoError(t, err)
		assert.Equal(t, uint(3), secret.ID)
		assert.Equal(t, uint(1), secret.UserID)
	})

	t.Run("unknown user propagates not found", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}

		svc := NewSecretService(users, noopSecretRepo(), noopReplyRepo())
		_, err := svc.PostSecret(context.Background(), 99, "hello")
		assert.True(t, models.IsNotFound(err))
	})
}

func TestSecretService_AddReply(t *testing.T) {
	t.Parallel()

	t.Run("attaches reply to existing secret", func(t *testing.T) {
		t.Parallel()
		replies := noopReplyRepo()
		replies.createFn = func(_ context.Context, r *models.Reply) error {
			r.ID = 8
			return nil
		}

		svc := NewSecretService(noopUserRepo(), noopSecretRepo(), replies)
		reply, err := svc.AddReply(context.Background(), 2, 5, "same here")
		require.NoError(t, err)
		assert.Equal(t, uint(8), reply.ID)
		assert.Equal(t, uint(5), reply.SecretID)
		assert.Equal(t, uint(2), reply.AuthorID)
	})

	t.Run("missing secret propagates not found", func(t *testing.T) {
		t.Parallel()
		secrets := noopSecretRepo()
		secrets.getByIDFn = func(_ context.Context, id uint) (*models.Secret, error) {
			return nil, models.NewNotFoundError("Secret", id)
		}

		svc := NewSecretService(noopUserRepo(), secrets, noopReplyRepo())
		_, err := svc.AddReply(context.Background(), 2, 404, "same here")
		assert.True(t, models.IsNotFound(err))
	})
}

func TestSecretService_DeleteReply(t *testing.T) {
	t.Parallel()

	existing := &models.Reply{ID: 8, SecretID: 5, AuthorID: 2}

	newService := func(replies *replyRepoStub) *SecretService {
		return NewSecretService(noopUserRepo(), noopSecretRepo(), replies)
	}

	t.Run("author deletes own reply", func(t *testing.T) {
		t.Parallel()
		deleted := false
		replies := noopReplyRepo()
		replies.getByIDFn = func(_ context.Context, _ uint) (*models.Reply, error) { return existing, nil }
		replies.deleteFn = func(_ context.Context, id uint) error {
			deleted = true
			assert.Equal(t, uint(8), id)
			return nil
		}

		require.NoError(t, newService(replies).DeleteReply(context.Background(), 2, 5, 8))
		assert.True(t, deleted)
	})

	t.Run("non-author is a silent no-op", func(t *testing.T) {
		t.Parallel()
		replies := noopReplyRepo()
		replies.getByIDFn = func(_ context.Context, _ uint) (*models.Reply, error) { return existing, nil }
		replies.deleteFn = func(_ context.Context, _ uint) error {
			t.Fatal("must not delete another author's reply")
			return nil
		}

		assert.NoError(t, newService(replies).DeleteReply(context.Background(), 3, 5, 8))
	})

	t.Run("wrong secret is a silent no-op", func(t *testing.T) {
		t.Parallel()
		replies := noopReplyRepo()
		replies.getByIDFn = func(_ context.Context, _ uint) (*models.Reply, error) { return existing, nil }
		replies.deleteFn = func(_ context.Context, _ uint) error {
			t.Fatal("must not delete a reply through the wrong thread")
			return nil
		}

		assert.NoError(t, newService(replies).DeleteReply(context.Background(), 2, 6, 8))
	})

	t.Run("missing reply is a silent no-op", func(t *testing.T) {
		t.Parallel()
		replies := noopReplyRepo()
		replies.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
			return nil, models.NewNotFoundError("Reply", id)
		}

		assert.NoError(t, newService(replies).DeleteReply(context.Background(), 2, 5, 404))
	})
}

func TestSecretService_DeleteSecret_DelegatesOwnership(t *testing.T) {
	t.Parallel()

	var gotOwner, gotSecret uint
	secrets := noopSecretRepo()
	secrets.deleteOwnedFn = func(_ context.Context, ownerID, secretID uint) error {
		gotOwner, gotSecret = ownerID, secretID
		return nil
	}

	svc := NewSecretService(noopUserRepo(), secrets, noopReplyRepo())
	require.NoError(t, svc.DeleteSecret(context.Background(), 2, 5))
	assert.Equal(t, uint(2), gotOwner)
	assert.Equal(t, uint(5), gotSecret)
}

func TestSecretService_MigrateLegacySecrets(t *testing.T) {
	t.Parallel()

	t.Run("migrates each user and counts secrets", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.listWithLegacySecretsFn = func(_ context.Context) ([]models.User, error) {
			return []models.User{
				{ID: 1, LegacySecrets: `["a","b"]`},
				{ID: 2, LegacySecrets: `["c"]`},
			}, nil
		}

		migrated := map[uint][]string{}
		secrets := noopSecretRepo()
		secrets.migrateLegacyFn = func(_ context.Context, userID uint, texts []string) error {
			migrated[userID] = texts
			return nil
		}

		svc := NewSecretService(users, secrets, noopReplyRepo())
		count, err := svc.MigrateLegacySecrets(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, []string{"a", "b"}, migrated[1])
		assert.Equal(t, []string{"c"}, migrated[2])
	})

	t.Run("nothing to migrate is a no-op", func(t *testing.T) {
		t.Parallel()
		secrets := noopSecretRepo()
		secrets.migrateLegacyFn = func(_ context.Context, _ uint, _ []string) error {
			t.Fatal("no user should be migrated")
			return nil
		}

		svc := NewSecretService(noopUserRepo(), secrets, noopReplyRepo())
		count, err := svc.MigrateLegacySecrets(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("malformed legacy payload is an internal error", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.listWithLegacySecretsFn = func(_ context.Context) ([]models.User, error) {
			return []models.User{{ID: 1, LegacySecrets: `not json`}}, nil
		}

		svc := NewSecretService(users, noopSecretRepo(), noopReplyRepo())
		_, err := svc.MigrateLegacySecrets(context.Background())
		assert.True(t, models.IsCode(err, models.CodeInternal))
	})
}
