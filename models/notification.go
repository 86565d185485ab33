package models

import "time"

// Notification is write-once: rows are created by the dispatch flow or by an
// admin and never updated afterwards.
type Notification struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserID       *uint       `gorm:"index" json:"user_id,omitempty"`
	User         *User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	TechnicianID *uint       `gorm:"index" json:"technician_id,omitempty"`
	Technician   *Technician `gorm:"foreignKey:TechnicianID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	BookingID    *uint       `gorm:"index" json:"booking_id,omitempty"`
	Message      string      `gorm:"type:text;not null" json:"message"`
	Type         string      `gorm:"type:varchar(20);not null;default:'in-app'" json:"type"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
}
