package service

import (
	"context"

	"whisperwall/internal/models"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn               func(context.Context, uint) (*models.User, error)
	getByEmailFn            func(context.Context, string) (*models.User, error)
	getByGoogleIDFn         func(context.Context, string) (*models.User, error)
	createFn                func(context.Context, *models.User) error
	updateFn                func(context.Context, *models.User) error
	listWithSecretsFn       func(context.Context) ([]models.User, error)
	listWithLegacySecretsFn func(context.Context) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.getByGoogleIDFn(ctx, googleID)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) ListWithSecrets(ctx context.Context) ([]models.User, error) {
	return s.listWithSecretsFn(ctx)
}
func (s *userRepoStub) ListWithLegacySecrets(ctx context.Context) ([]models.User, error) {
	return s.listWithLegacySecretsFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:               func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:            func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByGoogleIDFn:         func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:                func(_ context.Context, _ *models.User) error { return nil },
		updateFn:                func(_ context.Context, _ *models.User) error { return nil },
		listWithSecretsFn:       func(_ context.Context) ([]models.User, error) { return nil, nil },
		listWithLegacySecretsFn: func(_ context.Context) ([]models.User, error) { return nil, nil },
	}
}

// secretRepoStub is a stub for repository.SecretRepository.
type secretRepoStub struct {
	createFn        func(context.Context, *models.Secret) error
	getByIDFn       func(context.Context, uint) (*models.Secret, error)
	deleteOwnedFn   func(context.Context, uint, uint) error
	migrateLegacyFn func(context.Context, uint, []string) error
}

func (s *secretRepoStub) Create(ctx context.Context, secret *models.Secret) error {
	return s.createFn(ctx, secret)
}
func (s *secretRepoStub) GetByID(ctx context.Context, id uint) (*models.Secret, error) {
	return s.getByIDFn(ctx, id)
}
func (s *secretRepoStub) DeleteOwned(ctx context.Context, ownerID, secretID uint) error {
	return s.deleteOwnedFn(ctx, ownerID, secretID)
}
func (s *secretRepoStub) MigrateLegacy(ctx context.Context, userID uint, texts []string) error {
	return s.migrateLegacyFn(ctx, userID, texts)
}

func noopSecretRepo() *secretRepoStub {
	return &secretRepoStub{
		createFn:        func(_ context.Context, _ *models.Secret) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Secret, error) { return &models.Secret{ID: id}, nil },
		deleteOwnedFn:   func(_ context.Context, _, _ uint) error { return nil },
		migrateLegacyFn: func(_ context.Context, _ uint, _ []string) error { return nil },
	}
}

// replyRepoStub is a stub for repository.ReplyRepository.
type replyRepoStub struct {
	createFn  func(context.Context, *models.Reply) error
	getByIDFn func(context.Context, uint) (*models.Reply, error)
	deleteFn  func(context.Context, uint) error
}

func (s *replyRepoStub) Create(ctx context.Context, reply *models.Reply) error {
	return s.createFn(ctx, reply)
}
func (s *replyRepoStub) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	return s.getByIDFn(ctx, id)
}
func (s *replyRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn:  func(_ context.Context, _ *models.Reply) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Reply, error) { return &models.Reply{ID: id}, nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}
