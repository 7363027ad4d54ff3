package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"anoa.com/eventtech/internal/entity"
	"anoa.com/eventtech/internal/modules/certificate/dto"
	"anoa.com/eventtech/internal/modules/certificate/repository"
	registrationRepo "anoa.com/eventtech/internal/modules/registration/repository"
	"anoa.com/eventtech/pkg/apperror"
	"anoa.com/eventtech/pkg/metrics"
)

const DefaultEventTitle = "TARUNYAM - Tech Event 2025"

const dateLayout = time.DateTime

type CertificateService interface {
	// GenerateData builds certificate data without recording it.
	GenerateData(ctx context.Context, registrationID uint, certType string) (*dto.CertificateData, error)
	// Issue generates certificate data and records it in the log.
	Issue(ctx context.Context, registrationID uint, certType string) (*dto.CertificateData, error)
	Verify(ctx context.Context, certificateID string) (*dto.Verification, error)
	History(ctx context.Context, registrationID uint) ([]dto.HistoryEntry, error)
	Winners(ctx context.Context) ([]dto.WinnerEntry, error)
	Statistics(ctx context.Context) (*dto.Statistics, error)
}

type certificateService struct {
	repo          repository.CertificateRepository
	registrations registrationRepo.RegistrationRepository
	metrics       *metrics.Metrics
	eventTitle    string
	now           func() time.Time
}

func NewCertificateService(
	repo repository.CertificateRepository,
	registrations registrationRepo.RegistrationRepository,
	m *metrics.Metrics,
	eventTitle string,
) CertificateService {
	if eventTitle == "" {
		eventTitle = DefaultEventTitle
	}
	return &certificateService{
		repo:          repo,
		registrations: registrations,
		metrics:       m,
		eventTitle:    eventTitle,
		now:           time.Now,
	}
}

// NewCertificateID formats {PAR|WIN}-{registrationId}-{epochMillis}.
func NewCertificateID(certType string, registrationID uint, now time.Time) string {
	prefix := "PAR"
	if certType == entity.CertificateWinner {
		prefix = "WIN"
	}
	return fmt.Sprintf("%s-%d-%d", prefix, registrationID, now.UnixMilli())
}

func (s *certificateService) GenerateData(ctx context.Context, registrationID uint, certType string) (*dto.CertificateData, error) {
	if certType != entity.CertificateParticipation && certType != entity.CertificateWinner {
		return nil, apperror.Validation("Invalid certificate type")
	}

	registration, err := s.registrations.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("Participant not found")
		}
		return nil, err
	}

	now := s.now()
	return &dto.CertificateData{
		ID:               registration.ID,
		Name:             registration.Name,
		Email:            registration.Email,
		College:          registration.College,
		Event:            registration.Event,
		RegistrationDate: registration.RegistrationDate.Format(dateLayout),
		WinnerStatus:     registration.WinnerStatus,
		CertificateType:  certType,
		EventTitle:       s.eventTitle,
		IssueDate:        now.Format(dateLayout),
		CertificateID:    NewCertificateID(certType, registration.ID, now),
	}, nil
}

func (s *certificateService) Issue(ctx context.Context, registrationID uint, certType string) (*dto.CertificateData, error) {
	data, err := s.GenerateData(ctx, registrationID, certType)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Track(ctx, registrationID, certType, data.CertificateID, s.now()); err != nil {
		log.Printf("[certificate] failed to track %s: %v", data.CertificateID, err)
		return nil, fmt.Errorf("track certificate: %w", err)
	}

	s.metrics.Certificate(certType)
	return data, nil
}

func (s *certificateService) Verify(ctx context.Context, certificateID string) (*dto.Verification, error) {
	if certificateID == "" {
		return nil, apperror.Validation("Certificate ID is required")
	}

	row, err := s.repo.FindByCertificateID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return &dto.Verification{Valid: false}, nil
		}
		return nil, err
	}

	return &dto.Verification{
		Valid:           true,
		RegistrationID:  row.RegistrationID,
		CertificateType: row.CertificateType,
		GeneratedDate:   row.GeneratedDate.Format(dateLayout),
		Name:            row.Name,
		Email:           row.Email,
		College:         row.College,
		Event:           row.Event,
	}, nil
}

func (s *certificateService) History(ctx context.Context, registrationID uint) ([]dto.HistoryEntry, error) {
	rows, err := s.repo.History(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	history := make([]dto.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		history = append(history, dto.HistoryEntry{
			CertificateID:   row.CertificateID,
			CertificateType: row.CertificateType,
			GeneratedDate:   row.GeneratedDate.Format(dateLayout),
		})
	}
	return history, nil
}

func (s *certificateService) Winners(ctx context.Context) ([]dto.WinnerEntry, error) {
	winners, err := s.registrations.FindWinners(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.WinnerEntry, 0, len(winners))
	for _, w := range winners {
		res = append(res, dto.WinnerEntry{
			ID:               w.ID,
			Name:             w.Name,
			Email:            w.Email,
			College:          w.College,
			Event:            w.Event,
			RegistrationDate: w.RegistrationDate.Format(dateLayout),
		})
	}
	return res, nil
}

func (s *certificateService) Statistics(ctx context.Context) (*dto.Statistics, error) {
	counts, err := s.repo.CountByType(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.Statistics{
		ParticipationCertificates: counts[entity.CertificateParticipation],
		WinnerCertificates:        counts[entity.CertificateWinner],
	}
	for _, n := range counts {
		stats.TotalCertificates += n
	}
	return stats, nil
}
