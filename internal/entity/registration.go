package entity

import "time"

type Registration struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	Email            string    `gorm:"size:150;not null;uniqueIndex:idx_registrations_email_event,priority:1" json:"email"`
	College          string    `gorm:"size:200;not null" json:"college"`
	Event            string    `gorm:"size:100;not null;index;uniqueIndex:idx_registrations_email_event,priority:2" json:"event"`
	RegistrationDate time.Time `gorm:"autoCreateTime;index" json:"registration_date"`
	WinnerStatus     bool      `gorm:"not null;default:false" json:"winner_status"`
}

func (r *Registration) TableName() string {
	return "registrations"
}

// StatusLabel is the human readable winner flag used in exports.
func (r *Registration) StatusLabel() string {
	if r.WinnerStatus {
		return "Winner"
	}
	return "Participant"
}
