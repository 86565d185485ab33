package models

import "time"

const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in-progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Booking struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         uint        `gorm:"not null;index" json:"user_id"`
	User           User        `gorm:"foreignKey:UserID" json:"-"`
	TechnicianID   *uint       `gorm:"index" json:"technician_id,omitempty"`
	Technician     *Technician `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	ServiceID      *uint       `gorm:"index" json:"service_id,omitempty"`
	Service        *Service    `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	CustomerName   string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	Email          string      `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone          string      `gorm:"type:varchar(30);not null" json:"phone"`
	Address        string      `gorm:"type:text;not null" json:"address"`
	Location       string      `gorm:"type:varchar(255)" json:"location,omitempty"`
	Category       string      `gorm:"type:varchar(100);not null" json:"category"`
	Appliance      string      `gorm:"type:varchar(100);not null" json:"appliance"`
	Problem        string      `gorm:"type:text;not null" json:"problem"`
	PreferredDate  *string     `gorm:"type:varchar(20)" json:"preferred_date,omitempty"`
	PreferredTime  *string     `gorm:"type:varchar(30)" json:"preferred_time,omitempty"`
	Urgency        string      `gorm:"type:varchar(20)" json:"urgency,omitempty"`
	Priority       string      `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Status         string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes          string      `gorm:"type:text" json:"notes,omitempty"`
	TotalCost      float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_cost"`
	ScheduledStart *time.Time  `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time  `json:"scheduled_end,omitempty"`
	ActualStart    *time.Time  `json:"actual_start,omitempty"`
	ActualEnd      *time.Time  `json:"actual_end,omitempty"`
	CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
}

// TimeSlot is the human-readable slot used in notification messages.
func (b *Booking) TimeSlot() string {
	if b.PreferredTime != nil && *b.PreferredTime != "" {
		if b.PreferredDate != nil && *b.PreferredDate != "" {
			return *b.PreferredDate + " " + *b.PreferredTime
		}
		return *b.PreferredTime
	}
	return "as soon as possible"
}
