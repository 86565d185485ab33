package models

import "time"

const (
	EwastePending  = "pending"
	EwasteApproved = "approved"
	EwasteRejected = "rejected"
	EwasteSold     = "sold"
)

// ValidEwasteStatus reports whether s is a known e-waste request state.
func ValidEwasteStatus(s string) bool {
	switch s {
	case EwastePending, EwasteApproved, EwasteRejected, EwasteSold:
		return true
	}
	return false
}

type EwasteRequest struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID" json:"-"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL      string    `gorm:"type:varchar(512);not null" json:"image_url"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PriceEstimate *float64  `gorm:"type:decimal(10,2)" json:"price_estimate,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
