package models

import "time"

const (
	TechnicianAvailable = "available"
	TechnicianBusy      = "busy"
	TechnicianOffline   = "offline"
	TechnicianOnBreak   = "on_break"
)

// ValidTechnicianStatus reports whether s is one of the known availability states.
func ValidTechnicianStatus(s string) bool {
	switch s {
	case TechnicianAvailable, TechnicianBusy, TechnicianOffline, TechnicianOnBreak:
		return true
	}
	return false
}

type Technician struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"`
	FullName    string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone       string    `gorm:"type:varchar(30);not null" json:"phone"`
	Email       string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Status      string    `gorm:"type:varchar(20);not null;default:'offline';index" json:"status"`
	Rating      float64   `gorm:"type:decimal(3,2);default:0" json:"rating"`
	Specialties string    `gorm:"type:text" json:"specialties"`
	TotalJobs   int       `gorm:"not null;default:0" json:"total_jobs"`
	Location    string    `gorm:"type:varchar(255)" json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
