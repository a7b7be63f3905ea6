package model

import (
	"time"

	"gorm.io/gorm"
)

// Hotel represents a bookable hotel
type Hotel struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null"`
	Location      string         `json:"location" gorm:"type:varchar(255);not null"`
	PricePerNight float64        `json:"price_per_night" gorm:"not null"`
	Amenities     []string       `json:"amenities" gorm:"serializer:json"`
	Type          string         `json:"type,omitempty" gorm:"type:varchar(50)"`
	StarRating    int            `json:"star_rating,omitempty"`
	ImageURL      string         `json:"image_url,omitempty" gorm:"type:varchar(255)"`
	AverageRating float64        `json:"average_rating" gorm:"default:0"`
	NumReviews    int            `json:"num_reviews" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
