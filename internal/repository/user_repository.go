package repository

import (
	"context"

	"github.com/Lina3386/weekgram/internal/models"
)

type UserRepository struct {
	kv *KVRepository
}

func NewUserRepository(kv *KVRepository) *UserRepository {
	return &UserRepository{kv: kv}
}

// GetUser returns nil when no profile has been set up or the stored one is unreadable.
func (r *UserRepository) GetUser(ctx context.Context) (*models.User, error) {
	user := &models.User{}
	ok, err := r.kv.Load(ctx, UserKey, user)
	if err != nil || !ok {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) SaveUser(ctx context.Context, user models.User) error {
	return r.kv.Store(ctx, UserKey, user)
}

func (r *UserRepository) DeleteUser(ctx context.Context) error {
	return r.kv.Delete(ctx, UserKey)
}
