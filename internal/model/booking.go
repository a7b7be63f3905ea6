package model

import "time"

// Booking ties a user to a hotel stay. The owner is always the
// authenticated user who created it, never client-supplied.
type Booking struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	HotelID   uint      `json:"hotel_id" gorm:"index;not null"`
	CheckIn   time.Time `json:"check_in" gorm:"not null"`
	CheckOut  time.Time `json:"check_out" gorm:"not null"`
	Guests    int       `json:"guests" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Hotel     *Hotel    `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
}
