package models

import "time"

// Profile holds the customer-facing details that are not part of the auth record.
type Profile struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User             User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	FullName         string    `gorm:"type:varchar(255)" json:"full_name"`
	Phone            string    `gorm:"type:varchar(30)" json:"phone"`
	Address          string    `gorm:"type:text" json:"address"`
	EmergencyContact string    `gorm:"type:varchar(255)" json:"emergency_contact"`
	Preferences      string    `gorm:"type:text" json:"preferences"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
