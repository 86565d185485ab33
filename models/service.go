package models

import "time"

type ServiceCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);unique;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Icon        string    `gorm:"type:varchar(100)" json:"icon,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Service struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	CategoryID        *uint            `gorm:"index" json:"category_id,omitempty"`
	Category          *ServiceCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name              string           `gorm:"type:varchar(100);not null" json:"name"`
	Description       string           `gorm:"type:text" json:"description,omitempty"`
	BasePrice         float64          `gorm:"type:decimal(10,2);not null;default:0.00" json:"base_price"`
	EstimatedDuration int              `gorm:"not null;default:60" json:"estimated_duration"`
	IsActive          bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
