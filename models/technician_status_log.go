package models

import "time"

// TechnicianStatusLog rows are written by a database trigger whenever a
// technician's availability changes. Read-only from the application side.
type TechnicianStatusLog struct {
	ID           uint      `gorm:"primaryKey"`
	TechnicianID uint      `gorm:"not null;index"`
	OldStatus    string    `gorm:"type:varchar(20);not null"`
	NewStatus    string    `gorm:"type:varchar(20);not null"`
	ChangedAt    time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;not null"`
}
