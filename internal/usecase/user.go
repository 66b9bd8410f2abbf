package usecase

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/polkiloo/shopmart/internal/domain/errors"
	"github.com/polkiloo/shopmart/internal/domain/model"
	"github.com/polkiloo/shopmart/internal/domain/repository"
)

// UserUseCase manages user records.
type UserUseCase struct {
	users repository.UserRepository
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// List returns a page of users with the total count.
func (u *UserUseCase) List(ctx context.Context, p model.Pagination) ([]model.User, int64, error) {
	return u.users.List(ctx, p)
}

// Get returns user by identifier.
func (u *UserUseCase) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", domainErrors.ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

// GetByUsername returns user by unique username.
func (u *UserUseCase) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", domainErrors.ErrNotFound, username)
		}
		return nil, err
	}
	return user, nil
}

// Create registers a new user after unique-field checks.
func (u *UserUseCase) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if user.Status == "" {
		user.Status = model.UserStatusActive
	}
	if !user.Status.Valid() {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidStatus, user.Status)
	}

	if err := u.checkUsernameFree(ctx, user.Username); err != nil {
		return nil, err
	}
	if err := u.checkEmailFree(ctx, user.Email); err != nil {
		return nil, err
	}

	return u.users.Create(ctx, user)
}

// Update replaces mutable user fields. Unique fields are re-checked only when
// they actually change.
func (u *UserUseCase) Update(ctx context.Context, id int64, user *model.User) (*model.User, error) {
	existing, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Status == "" {
		user.Status = existing.Status
	}
	if !user.Status.Valid() {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidStatus, user.Status)
	}

	if user.Username != existing.Username {
		if err := u.checkUsernameFree(ctx, user.Username); err != nil {
			return nil, err
		}
	}
	if user.Email != existing.Email {
		if err := u.checkEmailFree(ctx, user.Email); err != nil {
			return nil, err
		}
	}

	existing.Username = user.Username
	existing.Email = user.Email
	existing.FullName = user.FullName
	existing.Status = user.Status

	return u.users.Update(ctx, existing)
}

// Delete removes a user record.
func (u *UserUseCase) Delete(ctx context.Context, id int64) error {
	err := u.users.Delete(ctx, id)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return fmt.Errorf("%w: user %d", domainErrors.ErrNotFound, id)
	}
	return err
}

// Search returns users whose name or username contains the given substring.
func (u *UserUseCase) Search(ctx context.Context, name string, p model.Pagination) ([]model.User, int64, error) {
	return u.users.SearchByName(ctx, name, p)
}

func (u *UserUseCase) checkUsernameFree(ctx context.Context, username string) error {
	_, err := u.users.GetByUsername(ctx, username)
	if err == nil {
		return fmt.Errorf("%w: username %s", domainErrors.ErrAlreadyExists, username)
	}
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil
	}
	return err
}

func (u *UserUseCase) checkEmailFree(ctx context.Context, email string) error {
	_, err := u.users.GetByEmail(ctx, email)
	if err == nil {
		return fmt.Errorf("%w: email %s", domainErrors.ErrAlreadyExists, email)
	}
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil
	}
	return err
}
