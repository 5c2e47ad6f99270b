package repository

import (
	"context"
	"errors"

	"whisperwall/internal/models"
	"whisperwall/internal/observability"

	"gorm.io/gorm"
)

// ReplyRepository defines persistence operations for replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint) (*models.Reply, error)
	Delete(ctx context.Context, id uint) error
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository returns a new ReplyRepository implementation.
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	defer observability.TrackQuery("create", "replies")()
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).First(&reply, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reply", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &reply, nil
}

func (r *replyRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Reply{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
