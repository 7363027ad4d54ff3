package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/eventtech/internal/entity"
	adminService "anoa.com/eventtech/internal/modules/admin/service"
	"anoa.com/eventtech/internal/modules/event/dto"
	"anoa.com/eventtech/internal/modules/event/repository"
	"anoa.com/eventtech/pkg/apperror"
	"anoa.com/eventtech/pkg/sanitize"
)

const (
	msgEventNotFound = "Event not found"
	msgDuplicateName = "Event name already exists"
	msgDeleteRefused = "Failed to delete event. Event may have registrations."
	msgNameRequired  = "Event name is required"
	msgDescRequired  = "Event description is required"
)

type EventService interface {
	ListEvents(ctx context.Context) ([]dto.EventResponse, error)
	GetEvent(ctx context.Context, id uint) (*dto.EventResponse, error)
	AddEvent(ctx context.Context, adminID uint, input dto.EventInput) (uint, error)
	UpdateEvent(ctx context.Context, adminID, id uint, input dto.EventInput) error
	DeleteEvent(ctx context.Context, adminID, id uint) error
	RegistrationCounts(ctx context.Context) (map[string]int64, error)
}

type eventService struct {
	repo  repository.EventRepository
	audit adminService.AdminService
}

func NewEventService(repo repository.EventRepository, audit adminService.AdminService) EventService {
	return &eventService{repo: repo, audit: audit}
}

func (s *eventService) ListEvents(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.RegistrationCounts(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		res = append(res, toResponse(e, counts[e.EventName]))
	}
	return res, nil
}

func (s *eventService) GetEvent(ctx context.Context, id uint) (*dto.EventResponse, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound(msgEventNotFound)
		}
		return nil, err
	}

	counts, err := s.repo.RegistrationCounts(ctx)
	if err != nil {
		return nil, err
	}

	res := toResponse(*event, counts[event.EventName])
	return &res, nil
}

func (s *eventService) AddEvent(ctx context.Context, adminID uint, input dto.EventInput) (uint, error) {
	input, err := normalize(input)
	if err != nil {
		return 0, err
	}

	if s.repo.ExistsByName(ctx, input.EventName) {
		return 0, apperror.Conflict(msgDuplicateName)
	}

	event := &entity.Event{
		EventName:   input.EventName,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return 0, apperror.Conflict(msgDuplicateName)
		}
		return 0, err
	}

	s.audit.LogAction(ctx, adminID, fmt.Sprintf("Added new event: %s", event.EventName))
	return event.ID, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, adminID, id uint, input dto.EventInput) error {
	input, err := normalize(input)
	if err != nil {
		return err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound(msgEventNotFound)
		}
		return err
	}

	if current.EventName != input.EventName && s.repo.ExistsByName(ctx, input.EventName) {
		return apperror.Conflict(msgDuplicateName)
	}

	event := &entity.Event{
		ID:          id,
		EventName:   input.EventName,
		Description: input.Description,
	}
	if err := s.repo.Update(ctx, event); err != nil {
		switch {
		case errors.Is(err, apperror.ErrConflict):
			return apperror.Conflict(msgDuplicateName)
		case errors.Is(err, apperror.ErrNotFound):
			return apperror.NotFound(msgEventNotFound)
		}
		return err
	}

	s.audit.LogAction(ctx, adminID, fmt.Sprintf("Updated event ID %d: %s", id, event.EventName))
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, adminID, id uint) error {
	if err := s.repo.DeleteIfUnreferenced(ctx, id); err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return apperror.NotFound(msgEventNotFound)
		case errors.Is(err, apperror.ErrConflict):
			return apperror.Conflict(msgDeleteRefused)
		}
		return err
	}

	s.audit.LogAction(ctx, adminID, fmt.Sprintf("Deleted event ID: %d", id))
	return nil
}

func (s *eventService) RegistrationCounts(ctx context.Context) (map[string]int64, error) {
	return s.repo.RegistrationCounts(ctx)
}

func normalize(input dto.EventInput) (dto.EventInput, error) {
	input.EventName = strings.TrimSpace(input.EventName)
	input.Description = sanitize.RichText(input.Description)

	if input.EventName == "" {
		return input, apperror.Validation(msgNameRequired)
	}
	if input.Description == "" {
		return input, apperror.Validation(msgDescRequired)
	}
	return input, nil
}

func toResponse(e entity.Event, count int64) dto.EventResponse {
	return dto.EventResponse{
		ID:                e.ID,
		EventName:         e.EventName,
		Description:       e.Description,
		RegistrationCount: count,
	}
}
