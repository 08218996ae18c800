package repositories

import (
	"context"
	"fmt"

	"user-registry/db"
	"user-registry/entities"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

// Create inserts the user and fills in the generated id when the backend
// returns it from the insert.
func (r *userPgRepository) Create(ctx context.Context, user *entities.User) error {
	if err := r.db.GetDB().WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID returns zero or one users. A missing id is not an error.
func (r *userPgRepository) GetByID(ctx context.Context, id int64) ([]entities.User, error) {
	users := []entities.User{}
	err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return users, nil
}

// Latest returns the user with the highest id, or nil for an empty table.
func (r *userPgRepository) Latest(ctx context.Context) (*entities.User, error) {
	var users []entities.User
	err := r.db.GetDB().WithContext(ctx).Order("id DESC").Limit(1).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get latest user: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (r *userPgRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).Delete(&entities.User{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
