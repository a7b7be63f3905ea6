package model

import "time"

// Review rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating of a hotel. One review per (user, hotel)
// pair; the composite unique index backs the handler-level check.
type Review struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_hotel_review"`
	HotelID   uint      `json:"hotel_id" gorm:"not null;uniqueIndex:idx_user_hotel_review"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Hotel     *Hotel    `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
}
