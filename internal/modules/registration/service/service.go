package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"anoa.com/eventtech/internal/entity"
	activity "anoa.com/eventtech/internal/modules/activity/service"
	certService "anoa.com/eventtech/internal/modules/certificate/service"
	"anoa.com/eventtech/internal/modules/registration/dto"
	"anoa.com/eventtech/internal/modules/registration/repository"
	searchService "anoa.com/eventtech/internal/modules/search/service"
	"anoa.com/eventtech/pkg/apperror"
	"anoa.com/eventtech/pkg/metrics"
	"anoa.com/eventtech/pkg/validator"
	"github.com/gin-gonic/gin/binding"
)

const (
	MsgRegistered        = "Registration successful! Your participation certificate is ready for download."
	MsgRegisteredPending = "Registration successful! Certificate will be available shortly."
	MsgDuplicate         = "Email is already registered for this event"
)

type RegistrationService interface {
	Register(ctx context.Context, form dto.RegisterForm) (*dto.RegisterResponse, error)
	IsRegistered(ctx context.Context, email, event string) bool
}

type registrationService struct {
	repo         repository.RegistrationRepository
	certificates certService.CertificateService
	search       searchService.SearchService
	publisher    activity.Publisher
	metrics      *metrics.Metrics
}

func NewRegistrationService(
	repo repository.RegistrationRepository,
	certificates certService.CertificateService,
	search searchService.SearchService,
	publisher activity.Publisher,
	m *metrics.Metrics,
) RegistrationService {
	validator.Register()
	if search == nil {
		search = searchService.NewSearchService(nil)
	}
	if publisher == nil {
		publisher = activity.NewPublisher(nil)
	}
	return &registrationService{
		repo:         repo,
		certificates: certificates,
		search:       search,
		publisher:    publisher,
		metrics:      m,
	}
}

// Register stores a new registration and issues its participation
// certificate. A certificate failure does not undo the registration.
func (s *registrationService) Register(ctx context.Context, form dto.RegisterForm) (*dto.RegisterResponse, error) {
	req := form.Normalize()
	if err := binding.Validator.ValidateStruct(req); err != nil {
		s.metrics.Registration("invalid")
		return nil, apperror.Validation(validator.FormatValidationError(err))
	}

	if s.repo.ExistsByEmailAndEvent(ctx, req.Email, req.Event) {
		s.metrics.Registration("duplicate")
		return nil, apperror.Conflict(MsgDuplicate)
	}

	registration := &entity.Registration{
		Name:    req.Name,
		Email:   req.Email,
		College: req.College,
		Event:   req.Event,
	}
	if err := s.repo.Create(ctx, registration); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			s.metrics.Registration("duplicate")
			return nil, apperror.Conflict(MsgDuplicate)
		}
		s.metrics.Registration("error")
		return nil, err
	}
	s.metrics.Registration("success")

	if err := s.search.IndexRegistration(registration); err != nil {
		log.Printf("[registration] failed to index participant %d: %v", registration.ID, err)
	}
	s.publisher.Publish(ctx, activity.Activity{
		Type:    activity.TypeRegistration,
		Message: fmt.Sprintf("New registration: %s for event: %s", registration.Name, registration.Event),
	})

	res := &dto.RegisterResponse{RegistrationID: registration.ID}

	certificate, err := s.certificates.Issue(ctx, registration.ID, entity.CertificateParticipation)
	if err != nil {
		log.Printf("[registration] certificate for %d not issued: %v", registration.ID, err)
		res.Message = MsgRegisteredPending
		return res, nil
	}

	res.Message = MsgRegistered
	res.CertificateData = certificate
	return res, nil
}

func (s *registrationService) IsRegistered(ctx context.Context, email, event string) bool {
	return s.repo.ExistsByEmailAndEvent(ctx, email, event)
}
