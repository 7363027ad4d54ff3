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

// RegistrationFilter narrows exports. Zero values match everything.
type RegistrationFilter struct {
	Event  string
	Winner *bool
}

type RegistrationRepository interface {
	Create(ctx context.Context, registration *entity.Registration) error
	ExistsByEmailAndEvent(ctx context.Context, email, event string) bool
	FindAll(ctx context.Context, offset, limit int) ([]entity.Registration, error)
	FindFiltered(ctx context.Context, filter RegistrationFilter) ([]entity.Registration, error)
	FindByID(ctx context.Context, id uint) (*entity.Registration, error)
	FindByIDs(ctx context.Context, ids []uint) ([]entity.Registration, error)
	FindWinners(ctx context.Context) ([]entity.Registration, error)
	Search(ctx context.Context, query string, limit int) ([]entity.Registration, error)
	Count(ctx context.Context) (int64, error)
	CountWinners(ctx context.Context) (int64, error)
	SetWinner(ctx context.Context, id uint, winner bool) error
	Delete(ctx context.Context, id uint) error
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func normalize(r *entity.Registration) {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.College = strings.TrimSpace(r.College)
	r.Event = strings.TrimSpace(r.Event)
}

// Create inserts the registration. The unique (email, event) index turns
// a concurrent duplicate into ErrConflict.
func (r *registrationRepository) Create(ctx context.Context, registration *entity.Registration) error {
	normalize(registration)
	registration.WinnerStatus = false

	if err := r.db.WithContext(ctx).Create(registration).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("registration %s/%s: %w", registration.Email, registration.Event, apperror.ErrConflict)
		}
		return err
	}
	return nil
}

// ExistsByEmailAndEvent treats lookup failures as registered.
func (r *registrationRepository) ExistsByEmailAndEvent(ctx context.Context, email, event string) bool {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Registration{}).
		Where("email = ? AND event = ?", strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(event)).
		Count(&count).Error; err != nil {
		log.Printf("[registration] duplicate check failed: %v", err)
		return true
	}
	return count > 0
}

func (r *registrationRepository) FindAll(ctx context.Context, offset, limit int) ([]entity.Registration, error) {
	var registrations []entity.Registration
	err := r.db.WithContext(ctx).
		Order("registration_date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&registrations).Error
	return registrations, err
}

func (r *registrationRepository) FindFiltered(ctx context.Context, filter RegistrationFilter) ([]entity.Registration, error) {
	query := r.db.WithContext(ctx).Model(&entity.Registration{})

	if event := strings.TrimSpace(filter.Event); event != "" {
		query = query.Where("event = ?", event)
	}
	if filter.Winner != nil {
		query = query.Where("winner_status = ?", *filter.Winner)
	}

	var registrations []entity.Registration
	err := query.
		Order("registration_date DESC").
		Order("id DESC").
		Find(&registrations).Error
	return registrations, err
}

func (r *registrationRepository) FindByID(ctx context.Context, id uint) (*entity.Registration, error) {
	var registration entity.Registration
	if err := r.db.WithContext(ctx).First(&registration, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &registration, nil
}

// FindByIDs keeps the order of ids and skips ids that no longer exist.
func (r *registrationRepository) FindByIDs(ctx context.Context, ids []uint) ([]entity.Registration, error) {
	if len(ids) == 0 {
		return []entity.Registration{}, nil
	}

	var rows []entity.Registration
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]entity.Registration, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	ordered := make([]entity.Registration, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}

func (r *registrationRepository) FindWinners(ctx context.Context) ([]entity.Registration, error) {
	var winners []entity.Registration
	err := r.db.WithContext(ctx).
		Where("winner_status = ?", true).
		Order("event").
		Order("name").
		Find(&winners).Error
	return winners, err
}

// Search is the database fallback for participant search.
// wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *registrationRepository) Search(ctx context.Context, query string, limit int) ([]entity.Registration, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"

	var registrations []entity.Registration
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR LOWER(college) LIKE ? ESCAPE '\' OR LOWER(event) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern, pattern).
		Order("registration_date DESC").
		Order("id DESC").
		Limit(limit).
		Find(&registrations).Error
	return registrations, err
}

func (r *registrationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Registration{}).Count(&count).Error
	return count, err
}

func (r *registrationRepository) CountWinners(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Registration{}).
		Where("winner_status = ?", true).
		Count(&count).Error
	return count, err
}

// SetWinner flips the flag only when it differs, so two concurrent
// selections cannot both succeed. A row already in the requested state
// yields ErrConflict.
func (r *registrationRepository) SetWinner(ctx context.Context, id uint, winner bool) error {
	res := r.db.WithContext(ctx).Model(&entity.Registration{}).
		Where("id = ? AND winner_status <> ?", id, winner).
		Update("winner_status", winner)
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

// Delete removes the registration together with its certificate log.
func (r *registrationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&entity.Registration{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrNotFound
		}
		return tx.Delete(&entity.CertificateLog{}, "registration_id = ?", id).Error
	})
}
