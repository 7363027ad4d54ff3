package repository

import (
	"context"
	"errors"
	"time"

	"anoa.com/eventtech/internal/entity"
	"anoa.com/eventtech/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VerifiedCertificate joins a log row with the registration it belongs to.
type VerifiedCertificate struct {
	entity.CertificateLog
	Name    string
	Email   string
	College string
	Event   string
}

type CertificateRepository interface {
	Track(ctx context.Context, registrationID uint, certType, certificateID string, at time.Time) error
	History(ctx context.Context, registrationID uint) ([]entity.CertificateLog, error)
	FindByCertificateID(ctx context.Context, certificateID string) (*VerifiedCertificate, error)
	CountByType(ctx context.Context) (map[string]int64, error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

// Track records the latest certificate for the (registration, type) pair.
// Regenerating replaces the stored id and date.
func (r *certificateRepository) Track(ctx context.Context, registrationID uint, certType, certificateID string, at time.Time) error {
	row := &entity.CertificateLog{
		RegistrationID:  registrationID,
		CertificateType: certType,
		CertificateID:   certificateID,
		GeneratedDate:   at,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "registration_id"}, {Name: "certificate_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"certificate_id", "generated_date"}),
	}).Create(row).Error
}

func (r *certificateRepository) History(ctx context.Context, registrationID uint) ([]entity.CertificateLog, error) {
	var rows []entity.CertificateLog
	err := r.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("generated_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *certificateRepository) FindByCertificateID(ctx context.Context, certificateID string) (*VerifiedCertificate, error) {
	var row VerifiedCertificate
	err := r.db.WithContext(ctx).
		Table("certificate_log").
		Select("certificate_log.*, registrations.name, registrations.email, registrations.college, registrations.event").
		Joins("JOIN registrations ON registrations.id = certificate_log.registration_id").
		Where("certificate_log.certificate_id = ?", certificateID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *certificateRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		CertificateType string
		Total           int64
	}
	err := r.db.WithContext(ctx).Model(&entity.CertificateLog{}).
		Select("certificate_type, COUNT(*) AS total").
		Group("certificate_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.CertificateType] = row.Total
	}
	return counts, nil
}
