package models

import "time"

type Review struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	BookingID    uint       `gorm:"not null;uniqueIndex" json:"booking_id"`
	Booking      Booking    `gorm:"foreignKey:BookingID" json:"-"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	TechnicianID *uint      `gorm:"index" json:"technician_id,omitempty"`
	Rating       int        `gorm:"not null" json:"rating"`
	ReviewText   string     `gorm:"type:text" json:"review_text,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
