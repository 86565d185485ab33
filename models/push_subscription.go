package models

import "time"

// PushSubscription stores a browser push endpoint registered from the dashboard.
// The endpoint URL is globally unique and doubles as the primary key.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey;type:varchar(512)" json:"endpoint"`
	P256dh    string    `gorm:"type:varchar(255);not null" json:"p256dh"`
	Auth      string    `gorm:"type:varchar(255);not null" json:"auth"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
