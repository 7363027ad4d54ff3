package entity

import "time"

const (
	CertificateParticipation = "participation"
	CertificateWinner        = "winner"
)

// CertificateLog tracks the latest certificate generated per registration
// and type.
type CertificateLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RegistrationID  uint      `gorm:"not null;uniqueIndex:idx_certificate_log_reg_type,priority:1" json:"registration_id"`
	CertificateType string    `gorm:"size:20;not null;uniqueIndex:idx_certificate_log_reg_type,priority:2" json:"certificate_type"`
	CertificateID   string    `gorm:"size:100;not null;index" json:"certificate_id"`
	GeneratedDate   time.Time `gorm:"not null" json:"generated_date"`
}

func (c *CertificateLog) TableName() string {
	return "certificate_log"
}
