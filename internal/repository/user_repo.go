package repository

import (
	"context"
	"errors"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository user data access interface
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	FindWithPushTokens(ctx context.Context, id string) (*domain.User, error)
	LockByID(ctx context.Context, id string) error
	Create(ctx context.Context, user *domain.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByID resolves a user, returning common.ErrUserNotFound when absent
func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := conn(ctx, r.db).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs loads users keyed by id; unknown ids are absent from the map
func (r *userRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	result := make(map[string]*domain.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []*domain.User
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// FindWithPushTokens resolves a user together with its registered push tokens
func (r *userRepository) FindWithPushTokens(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := conn(ctx, r.db).Preload("PushTokens").Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// LockByID takes a row lock on the user for the rest of the transaction in ctx.
// Shares into the same recipient serialize on this lock.
func (r *userRepository) LockByID(ctx context.Context, id string) error {
	var user domain.User
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrUserNotFound
	}
	return err
}

// Create inserts a user
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return conn(ctx, r.db).Create(user).Error
}
