package repositories

import (
	"context"

	"user-registry/entities"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id int64) ([]entities.User, error)
	Latest(ctx context.Context) (*entities.User, error)
	Delete(ctx context.Context, id int64) error
}
