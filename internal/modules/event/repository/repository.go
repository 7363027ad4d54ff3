package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"anoa.com/eventtech/internal/entity"
	"anoa.com/eventtech/pkg/apperror"
	"anoa.com/eventtech/pkg/database"
	"gorm.io/gorm"
)

type EventRepository interface {
	FindAll(ctx context.Context) ([]entity.Event, error)
	FindByID(ctx context.Context, id uint) (*entity.Event, error)
	Create(ctx context.Context, event *entity.Event) error
	Update(ctx context.Context, event *entity.Event) error
	DeleteIfUnreferenced(ctx context.Context, id uint) error
	ExistsByName(ctx context.Context, name string) bool
	RegistrationCounts(ctx context.Context) (map[string]int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) FindAll(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	if err := r.db.WithContext(ctx).Order("event_name").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*entity.Event, error) {
	var event entity.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	event.EventName = strings.TrimSpace(event.EventName)
	event.Description = strings.TrimSpace(event.Description)

	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("event %q: %w", event.EventName, apperror.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	event.EventName = strings.TrimSpace(event.EventName)
	event.Description = strings.TrimSpace(event.Description)

	res := r.db.WithContext(ctx).Model(&entity.Event{}).
		Where("id = ?", event.ID).
		Updates(map[string]any{
			"event_name":  event.EventName,
			"description": event.Description,
		})
	if res.Error != nil {
		if database.IsUniqueViolation(res.Error) {
			return fmt.Errorf("event %q: %w", event.EventName, apperror.ErrConflict)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// DeleteIfUnreferenced removes the event in a single conditional statement
// so a registration arriving concurrently cannot be orphaned. It returns
// ErrConflict when registrations still reference the event name.
func (r *eventRepository) DeleteIfUnreferenced(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("NOT EXISTS (SELECT 1 FROM registrations WHERE registrations.event = events.event_name)").
		Delete(&entity.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return apperror.ErrConflict
}

// ExistsByName treats lookup failures as taken.
func (r *eventRepository) ExistsByName(ctx context.Context, name string) bool {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Event{}).
		Where("event_name = ?", strings.TrimSpace(name)).
		Count(&count).Error; err != nil {
		log.Printf("[event] name check failed: %v", err)
		return true
	}
	return count > 0
}

func (r *eventRepository) RegistrationCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Event string
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&entity.Registration{}).
		Select("event, COUNT(*) AS count").
		Group("event").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Event] = row.Count
	}
	return counts, nil
}
