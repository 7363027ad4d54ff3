package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"anoa.com/eventtech/internal/entity"
	adminDto "anoa.com/eventtech/internal/modules/admin/dto"
	adminService "anoa.com/eventtech/internal/modules/admin/service"
	certDto "anoa.com/eventtech/internal/modules/certificate/dto"
	certService "anoa.com/eventtech/internal/modules/certificate/service"
	"anoa.com/eventtech/internal/modules/dashboard/dto"
	eventService "anoa.com/eventtech/internal/modules/event/service"
	exportDto "anoa.com/eventtech/internal/modules/export/dto"
	registrationRepo "anoa.com/eventtech/internal/modules/registration/repository"
	searchService "anoa.com/eventtech/internal/modules/search/service"
	"anoa.com/eventtech/pkg/apperror"
	commonDto "anoa.com/eventtech/pkg/dto"
)

const (
	DefaultAuditLimit  = 50
	DefaultSearchLimit = 20
)

type DashboardService interface {
	Participants(ctx context.Context, page commonDto.PageRequest) (*dto.ParticipantPage, error)
	Statistics(ctx context.Context) (*dto.Statistics, error)
	AuditLog(ctx context.Context, limit int) ([]adminDto.AuditEntry, error)
	Winners(ctx context.Context) ([]certDto.WinnerEntry, error)
	Search(ctx context.Context, query string) ([]exportDto.Participant, error)
	DeleteParticipant(ctx context.Context, adminID, id uint) error
}

type dashboardService struct {
	registrations registrationRepo.RegistrationRepository
	events        eventService.EventService
	certificates  certService.CertificateService
	admins        adminService.AdminService
	search        searchService.SearchService
}

func NewDashboardService(
	registrations registrationRepo.RegistrationRepository,
	events eventService.EventService,
	certificates certService.CertificateService,
	admins adminService.AdminService,
	search searchService.SearchService,
) DashboardService {
	if search == nil {
		search = searchService.NewSearchService(nil)
	}
	return &dashboardService{
		registrations: registrations,
		events:        events,
		certificates:  certificates,
		admins:        admins,
		search:        search,
	}
}

func (s *dashboardService) Participants(ctx context.Context, req commonDto.PageRequest) (*dto.ParticipantPage, error) {
	page, limit := req.Normalize()

	rows, err := s.registrations.FindAll(ctx, commonDto.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	total, err := s.registrations.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ParticipantPage{
		Participants: toParticipants(rows),
		Pagination:   commonDto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *dashboardService) Statistics(ctx context.Context) (*dto.Statistics, error) {
	total, err := s.registrations.Count(ctx)
	if err != nil {
		return nil, err
	}

	eventCounts, err := s.events.RegistrationCounts(ctx)
	if err != nil {
		return nil, err
	}

	certStats, err := s.certificates.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	winners, err := s.certificates.Winners(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.Statistics{
		TotalRegistrations:    total,
		TotalWinners:          len(winners),
		EventRegistrations:    eventCounts,
		CertificateStatistics: certStats,
	}, nil
}

func (s *dashboardService) AuditLog(ctx context.Context, limit int) ([]adminDto.AuditEntry, error) {
	if limit < 1 || limit > commonDto.MaxLimit {
		limit = DefaultAuditLimit
	}
	return s.admins.RecentActions(ctx, limit)
}

func (s *dashboardService) Winners(ctx context.Context) ([]certDto.WinnerEntry, error) {
	return s.certificates.Winners(ctx)
}

// Search asks the search index first and falls back to the database when
// the index is disabled or unavailable.
func (s *dashboardService) Search(ctx context.Context, query string) ([]exportDto.Participant, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Validation("Search query is required")
	}

	if s.search.Enabled() {
		ids, err := s.search.SearchParticipantIDs(query, DefaultSearchLimit)
		if err == nil {
			rows, err := s.registrations.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return toParticipants(rows), nil
		}
		log.Printf("[dashboard] search index unavailable, using database: %v", err)
	}

	rows, err := s.registrations.Search(ctx, query, DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	return toParticipants(rows), nil
}

func (s *dashboardService) DeleteParticipant(ctx context.Context, adminID, id uint) error {
	if err := s.registrations.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Participant not found")
		}
		return fmt.Errorf("delete participant %d: %w", id, err)
	}

	if err := s.search.DeleteRegistration(id); err != nil {
		log.Printf("[dashboard] failed to remove participant %d from index: %v", id, err)
	}

	s.admins.LogAction(ctx, adminID, fmt.Sprintf("Deleted participant ID: %d", id))
	return nil
}

func toParticipants(rows []entity.Registration) []exportDto.Participant {
	res := make([]exportDto.Participant, 0, len(rows))
	for _, r := range rows {
		res = append(res, exportDto.NewParticipant(r))
	}
	return res
}
