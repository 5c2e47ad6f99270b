package repository

import (
	"context"
	"errors"

	"whisperwall/internal/models"
	"whisperwall/internal/observability"

	"gorm.io/gorm"
)

// SecretRepository defines persistence operations for secrets.
type SecretRepository interface {
	Create(ctx context.Context, secret *models.Secret) error
	GetByID(ctx context.Context, id uint) (*models.Secret, error)
	// DeleteOwned removes the secret and its replies when it exists and
	// belongs to ownerID. A missing or foreign secret is not an error.
	DeleteOwned(ctx context.Context, ownerID, secretID uint) error
	// MigrateLegacy converts a user's legacy plain-string secrets into
	// Secret rows and clears the legacy column, in one transaction.
	MigrateLegacy(ctx context.Context, userID uint, texts []string) error
}

type secretRepository struct {
	db *gorm.DB
}

// NewSecretRepository returns a new SecretRepository implementation.
func NewSecretRepository(db *gorm.DB) SecretRepository {
	return &secretRepository{db: db}
}

func (r *secretRepository) Create(ctx context.Context, secret *models.Secret) error {
	defer observability.TrackQuery("create", "secrets")()
	if err := r.db.WithContext(ctx).Create(secret).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *secretRepository) GetByID(ctx context.Context, id uint) (*models.Secret, error) {
	var secret models.Secret
	if err := r.db.WithContext(ctx).First(&secret, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Secret", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &secret, nil
}

func (r *secretRepository) DeleteOwned(ctx context.Context, ownerID, secretID uint) error {
	defer observability.TrackQuery("delete", "secrets")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var secret models.Secret
		if err := tx.Where("id = ? AND user_id = ?", secretID, ownerID).First(&secret).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("secret_id = ?", secret.ID).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Secret{}, secret.ID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *secretRepository) MigrateLegacy(ctx context.Context, userID uint, texts []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, text := range texts {
			if err := tx.Create(&models.Secret{Text: text, UserID: userID}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("legacy_secrets", "").Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
