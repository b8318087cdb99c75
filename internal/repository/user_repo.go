package repository

import (
	"context"
	"errors"

	"ArsenalAura/internal/model"

	"gorm.io/gorm"
)

// ErrEmailTaken 邮箱已注册
var ErrEmailTaken = errors.New("email already registered")

// UserRepository 用户仓储
type UserRepository interface {
	// Create 创建用户并初始化战绩行（同一事务）；邮箱冲突返回ErrEmailTaken
	Create(ctx context.Context, user *model.User) error
	// FindByEmail 按邮箱查用户，未找到返回(nil, nil)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByID 按ID查用户，未找到返回(nil, nil)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	// Save 保存用户
	Save(ctx context.Context, user *model.User) error
	// UpsertAdmin 创建或提升管理员（引导接口用），并确保战绩行存在
	UpsertAdmin(ctx context.Context, email, passwordHash string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&model.UserStats{UserID: user.ID}).Error
	})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpsertAdmin(ctx context.Context, email, passwordHash string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = model.User{
				Email:        email,
				FavoriteClub: "Arsenal",
				BanterMode:   false,
			}
		} else if err != nil {
			return err
		}
		user.PasswordHash = passwordHash
		user.IsAdmin = true
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.UserStats{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return tx.Create(&model.UserStats{UserID: user.ID}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
