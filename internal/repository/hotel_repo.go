package repository

import (
	"context"

	"hotel-booking-service/internal/model"

	"gorm.io/gorm"
)

// HotelSearchParams describes the optional filters of the hotel listing.
// MinStars filters by threshold (star_rating >= MinStars); zero means no
// star filter.
type HotelSearchParams struct {
	Page     int
	Limit    int
	Search   string
	Type     string
	MinStars int
}

// HotelRepository provides access to hotel records.
type HotelRepository interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	ByID(ctx context.Context, id uint) (*model.Hotel, error)
	Update(ctx context.Context, hotel *model.Hotel) error
	// DeleteCascade removes the hotel and all bookings referencing it in
	// one transaction.
	DeleteCascade(ctx context.Context, id uint) error
	Search(ctx context.Context, params HotelSearchParams) ([]model.Hotel, int64, error)
	All(ctx context.Context) ([]model.Hotel, error)
	// SetRatingStats persists the derived average rating and review count.
	SetRatingStats(ctx context.Context, hotelID uint, avg float64, count int64) error
}

type GormHotelRepository struct {
	db *gorm.DB
}

func NewHotelRepository(db *gorm.DB) HotelRepository {
	return &GormHotelRepository{db: db}
}

func (r *GormHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	return r.db.WithContext(ctx).Create(hotel).Error
}

func (r *GormHotelRepository) ByID(ctx context.Context, id uint) (*model.Hotel, error) {
	var hotel model.Hotel
	if err := r.db.WithContext(ctx).First(&hotel, id).Error; err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (r *GormHotelRepository) Update(ctx context.Context, hotel *model.Hotel) error {
	return r.db.WithContext(ctx).Save(hotel).Error
}

func (r *GormHotelRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hotel_id = ?", id).Delete(&model.Booking{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Hotel{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormHotelRepository) Search(ctx context.Context, params HotelSearchParams) ([]model.Hotel, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Hotel{})

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR location ILIKE ?", pattern, pattern)
	}
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.MinStars > 0 {
		query = query.Where("star_rating >= ?", params.MinStars)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var hotels []model.Hotel
	offset := (params.Page - 1) * params.Limit
	if err := query.Offset(offset).Limit(params.Limit).Find(&hotels).Error; err != nil {
		return nil, 0, err
	}
	return hotels, total, nil
}

func (r *GormHotelRepository) All(ctx context.Context) ([]model.Hotel, error) {
	var hotels []model.Hotel
	if err := r.db.WithContext(ctx).Find(&hotels).Error; err != nil {
		return nil, err
	}
	return hotels, nil
}

func (r *GormHotelRepository) SetRatingStats(ctx context.Context, hotelID uint, avg float64, count int64) error {
	result := r.db.WithContext(ctx).Model(&model.Hotel{}).
		Where("id = ?", hotelID).
		Updates(map[string]interface{}{
			"average_rating": avg,
			"num_reviews":    count,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var _ HotelRepository = (*GormHotelRepository)(nil)
