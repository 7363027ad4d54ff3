package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"anoa.com/eventtech/internal/entity"
	adminService "anoa.com/eventtech/internal/modules/admin/service"
	certDto "anoa.com/eventtech/internal/modules/certificate/dto"
	certService "anoa.com/eventtech/internal/modules/certificate/service"
	registrationRepo "anoa.com/eventtech/internal/modules/registration/repository"
	searchService "anoa.com/eventtech/internal/modules/search/service"
	"anoa.com/eventtech/pkg/apperror"
	"anoa.com/eventtech/pkg/metrics"
)

const (
	msgNotFound       = "Participant not found"
	msgAlreadyWinner  = "Participant is already a winner"
	msgNotWinner      = "Participant is not a winner"
	msgSelectFailed   = "Failed to select winner"
	msgRevokeFailed   = "Failed to revoke winner status"
	msgGenerateFailed = "Failed to generate winner certificate"
)

type WinnerService interface {
	// SelectWinner marks the participant as a winner and issues the winner
	// certificate. The returned data is nil when only the certificate
	// step failed.
	SelectWinner(ctx context.Context, adminID, registrationID uint) (*certDto.CertificateData, error)
	RevokeWinner(ctx context.Context, adminID, registrationID uint) error
	GenerateWinnerCertificate(ctx context.Context, adminID, registrationID uint) (*certDto.CertificateData, error)
}

type winnerService struct {
	registrations registrationRepo.RegistrationRepository
	certificates  certService.CertificateService
	audit         adminService.AdminService
	search        searchService.SearchService
	metrics       *metrics.Metrics
}

func NewWinnerService(
	registrations registrationRepo.RegistrationRepository,
	certificates certService.CertificateService,
	audit adminService.AdminService,
	search searchService.SearchService,
	m *metrics.Metrics,
) WinnerService {
	if search == nil {
		search = searchService.NewSearchService(nil)
	}
	return &winnerService{
		registrations: registrations,
		certificates:  certificates,
		audit:         audit,
		search:        search,
		metrics:       m,
	}
}

func (s *winnerService) participant(ctx context.Context, id uint) (*entity.Registration, error) {
	registration, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound(msgNotFound)
		}
		return nil, err
	}
	return registration, nil
}

func (s *winnerService) SelectWinner(ctx context.Context, adminID, registrationID uint) (*certDto.CertificateData, error) {
	registration, err := s.participant(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if registration.WinnerStatus {
		return nil, apperror.Conflict(msgAlreadyWinner)
	}

	if err := s.registrations.SetWinner(ctx, registrationID, true); err != nil {
		switch {
		case errors.Is(err, apperror.ErrConflict):
			return nil, apperror.Conflict(msgAlreadyWinner)
		case errors.Is(err, apperror.ErrNotFound):
			return nil, apperror.NotFound(msgNotFound)
		}
		return nil, fmt.Errorf("%s: %w", msgSelectFailed, err)
	}
	registration.WinnerStatus = true
	s.metrics.WinnerChange("select")
	s.reindex(registration)

	certificate, err := s.certificates.Issue(ctx, registrationID, entity.CertificateWinner)
	if err != nil {
		log.Printf("[winner] certificate for %d not issued: %v", registrationID, err)
		certificate = nil
	}

	s.audit.LogAction(ctx, adminID, fmt.Sprintf("Selected winner: %s for event: %s", registration.Name, registration.Event))
	return certificate, nil
}

func (s *winnerService) RevokeWinner(ctx context.Context, adminID, registrationID uint) error {
	registration, err := s.participant(ctx, registrationID)
	if err != nil {
		return err
	}
	if !registration.WinnerStatus {
		return apperror.Validation(msgNotWinner)
	}

	if err := s.registrations.SetWinner(ctx, registrationID, false); err != nil {
		switch {
		case errors.Is(err, apperror.ErrConflict):
			return apperror.Validation(msgNotWinner)
		case errors.Is(err, apperror.ErrNotFound):
			return apperror.NotFound(msgNotFound)
		}
		return fmt.Errorf("%s: %w", msgRevokeFailed, err)
	}
	registration.WinnerStatus = false
	s.metrics.WinnerChange("revoke")
	s.reindex(registration)

	s.audit.LogAction(ctx, adminID, fmt.Sprintf("Revoked winner status: %s for event: %s", registration.Name, registration.Event))
	return nil
}

func (s *winnerService) GenerateWinnerCertificate(ctx context.Context, adminID, registrationID uint) (*certDto.CertificateData, error) {
	registration, err := s.participant(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if !registration.WinnerStatus {
		return nil, apperror.Validation(msgNotWinner)
	}

	certificate, err := s.certificates.Issue(ctx, registrationID, entity.CertificateWinner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msgGenerateFailed, err)
	}

	s.audit.LogAction(ctx, adminID, fmt.Sprintf("Generated winner certificate for: %s", registration.Name))
	return certificate, nil
}

func (s *winnerService) reindex(registration *entity.Registration) {
	if err := s.search.IndexRegistration(registration); err != nil {
		log.Printf("[winner] failed to reindex participant %d: %v", registration.ID, err)
	}
}
