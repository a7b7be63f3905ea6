package repository

import (
	"context"

	"hotel-booking-service/internal/model"

	"gorm.io/gorm"
)

// UserRepository provides access to user records and the favorites
// relation materialized on them.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id uint) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]model.User, error)

	AddFavorite(ctx context.Context, userID, hotelID uint) error
	RemoveFavorite(ctx context.Context, userID, hotelID uint) error
	Favorites(ctx context.Context, userID uint) ([]model.Hotel, error)
	IsFavorite(ctx context.Context, userID, hotelID uint) (bool, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) ByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) ByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormUserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormUserRepository) AddFavorite(ctx context.Context, userID, hotelID uint) error {
	user := model.User{ID: userID}
	hotel := model.Hotel{ID: hotelID}
	return r.db.WithContext(ctx).Model(&user).Association("Favorites").Append(&hotel)
}

func (r *GormUserRepository) RemoveFavorite(ctx context.Context, userID, hotelID uint) error {
	user := model.User{ID: userID}
	hotel := model.Hotel{ID: hotelID}
	return r.db.WithContext(ctx).Model(&user).Association("Favorites").Delete(&hotel)
}

func (r *GormUserRepository) Favorites(ctx context.Context, userID uint) ([]model.Hotel, error) {
	user := model.User{ID: userID}
	var hotels []model.Hotel
	if err := r.db.WithContext(ctx).Model(&user).Association("Favorites").Find(&hotels); err != nil {
		return nil, err
	}
	return hotels, nil
}

func (r *GormUserRepository) IsFavorite(ctx context.Context, userID, hotelID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("user_favorites").
		Where("user_id = ? AND hotel_id = ?", userID, hotelID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ UserRepository = (*GormUserRepository)(nil)
