package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"user-registry/entities"
	"user-registry/repositories"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidID       = errors.New("id must be an integer")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

type Hasher interface {
	Hash(plaintext string) (string, error)
}

// RegistrationForm is the submitted registration data. Password is plaintext
// and is dropped once hashed.
type RegistrationForm struct {
	Name        string `form:"name"`
	Email       string `form:"email"`
	Address     string `form:"address"`
	PhoneNumber string `form:"phonenumber"`
	Password    string `form:"password"`
}

func (f RegistrationForm) validate() error {
	fields := []struct{ name, value string }{
		{"name", f.Name},
		{"email", f.Email},
		{"address", f.Address},
		{"phonenumber", f.PhoneNumber},
	}
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}
	// Whitespace is a valid password; only an empty one is missing.
	if f.Password == "" {
		return fmt.Errorf("%w: password", ErrMissingField)
	}
	return nil
}

type UserUseCase struct {
	UserRepo repositories.UserRepository
	hasher   Hasher
}

func NewUserUseCase(userRepo repositories.UserRepository, hasher Hasher) *UserUseCase {
	return &UserUseCase{
		UserRepo: userRepo,
		hasher:   hasher,
	}
}

// Register hashes the password and stores a new user, returning the stored row.
func (uc *UserUseCase) Register(ctx context.Context, form RegistrationForm) (*entities.User, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(form.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, err
	}

	user := &entities.User{
		Name:         form.Name,
		Email:        form.Email,
		Address:      form.Address,
		PhoneNumber:  form.PhoneNumber,
		PasswordHash: hash,
	}
	if err := uc.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Backends configured without RETURNING leave the id unset.
	if user.ID == 0 {
		latest, err := uc.UserRepo.Latest(ctx)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			return nil, errors.New("created user not found")
		}
		return latest, nil
	}

	return user, nil
}

// ParseID validates a user id taken from a form or path.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// GetUser returns zero or one users for id.
func (uc *UserUseCase) GetUser(ctx context.Context, id int64) ([]entities.User, error) {
	return uc.UserRepo.GetByID(ctx, id)
}

// DeleteUser removes the user; deleting a missing id succeeds.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id int64) error {
	return uc.UserRepo.Delete(ctx, id)
}
