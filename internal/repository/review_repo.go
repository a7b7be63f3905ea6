package repository

import (
	"context"

	"hotel-booking-service/internal/model"

	"gorm.io/gorm"
)

// ReviewFilter narrows the admin review listing. Zero values mean "no
// filter" for that field.
type ReviewFilter struct {
	HotelID   uint
	UserID    uint
	MinRating int
	MaxRating int
}

// HotelReviewStats is the per-hotel review aggregate.
type HotelReviewStats struct {
	HotelID   uint    `json:"hotel_id"`
	HotelName string  `json:"hotel_name"`
	Count     int64   `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}

// PopularHotel is a hotel ranked by its review aggregate.
type PopularHotel struct {
	HotelID     uint    `json:"hotel_id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Type        string  `json:"type,omitempty"`
	StarRating  int     `json:"star_rating,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int64   `json:"review_count"`
}

// ReviewRepository provides access to review records and the aggregates
// derived from them.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ByID(ctx context.Context, id uint) (*model.Review, error)
	ByUserAndHotel(ctx context.Context, userID, hotelID uint) (*model.Review, error)
	// ByHotel returns a hotel's reviews newest first, author resolved.
	ByHotel(ctx context.Context, hotelID uint) ([]model.Review, error)
	ByUser(ctx context.Context, userID uint) ([]model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uint) error
	Filter(ctx context.Context, filter ReviewFilter) ([]model.Review, error)
	// Average returns the mean rating and review count of a hotel;
	// (0, 0) when the hotel has no reviews.
	Average(ctx context.Context, hotelID uint) (float64, int64, error)
	Stats(ctx context.Context) ([]HotelReviewStats, error)
	Popular(ctx context.Context) ([]PopularHotel, error)
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *GormReviewRepository) ByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormReviewRepository) ByUserAndHotel(ctx context.Context, userID, hotelID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND hotel_id = ?", userID, hotelID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormReviewRepository) ByHotel(ctx context.Context, hotelID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormReviewRepository) ByUser(ctx context.Context, userID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("Hotel").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormReviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *GormReviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormReviewRepository) Filter(ctx context.Context, filter ReviewFilter) ([]model.Review, error) {
	query := r.db.WithContext(ctx).Model(&model.Review{}).
		Preload("User").
		Preload("Hotel")

	if filter.HotelID != 0 {
		query = query.Where("hotel_id = ?", filter.HotelID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.MinRating != 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}
	if filter.MaxRating != 0 {
		query = query.Where("rating <= ?", filter.MaxRating)
	}

	var reviews []model.Review
	if err := query.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormReviewRepository) Average(ctx context.Context, hotelID uint) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("hotel_id = ?", hotelID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Avg, result.Count, nil
}

func (r *GormReviewRepository) Stats(ctx context.Context) ([]HotelReviewStats, error) {
	var stats []HotelReviewStats
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("reviews.hotel_id, hotels.name AS hotel_name, COUNT(*) AS count, ROUND(AVG(reviews.rating)::numeric, 2) AS avg_rating").
		Joins("JOIN hotels ON hotels.id = reviews.hotel_id").
		Group("reviews.hotel_id, hotels.name").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *GormReviewRepository) Popular(ctx context.Context) ([]PopularHotel, error) {
	var hotels []PopularHotel
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("reviews.hotel_id, hotels.name, hotels.location, hotels.type, hotels.star_rating, hotels.image_url, ROUND(AVG(reviews.rating)::numeric, 2) AS avg_rating, COUNT(*) AS review_count").
		Joins("JOIN hotels ON hotels.id = reviews.hotel_id").
		Group("reviews.hotel_id, hotels.name, hotels.location, hotels.type, hotels.star_rating, hotels.image_url").
		Order("avg_rating DESC, review_count DESC").
		Scan(&hotels).Error
	if err != nil {
		return nil, err
	}
	return hotels, nil
}

var _ ReviewRepository = (*GormReviewRepository)(nil)
