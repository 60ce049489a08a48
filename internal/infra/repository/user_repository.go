package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"trade_monitor/internal/domain"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) (*GormUserRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormUserRepository{db: db}, nil
}

func (r *GormUserRepository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	model := toUserModel(user)
	model.ID = 0
	model.Email = strings.ToLower(model.Email)
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return model.toDomain(), nil
}

func (r *GormUserRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var model UserModel
	err := conn(ctx, r.db).
		Where("email = ?", strings.ToLower(email)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return model.toDomain(), nil
}

func (r *GormUserRepository) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	var model UserModel
	err := conn(ctx, r.db).
		Where("id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return model.toDomain(), nil
}

func (r *GormUserRepository) CreateSession(ctx context.Context, session domain.Session) error {
	model := SessionModel{
		Token:     session.Token,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *GormUserRepository) GetSession(ctx context.Context, token string) (domain.Session, error) {
	var model SessionModel
	err := conn(ctx, r.db).
		Where("token = ?", token).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, fmt.Errorf("%w: session not found", domain.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return model.toDomain(), nil
}
