package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"anoa.com/eventtech/internal/entity"
	activity "anoa.com/eventtech/internal/modules/activity/service"
	"anoa.com/eventtech/internal/modules/admin/dto"
	"anoa.com/eventtech/internal/modules/admin/repository"
	"anoa.com/eventtech/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

type AdminService interface {
	Authenticate(ctx context.Context, input dto.LoginInput) (*entity.User, error)
	CreateAdmin(ctx context.Context, username, password string) (uint, error)
	ChangePassword(ctx context.Context, username, newPassword string) error
	GetAdmin(ctx context.Context, id uint) (*entity.User, error)
	LogAction(ctx context.Context, adminID uint, action string)
	RecentActions(ctx context.Context, limit int) ([]dto.AuditEntry, error)
}

type adminService struct {
	repo      repository.AdminRepository
	publisher activity.Publisher
	cost      int
}

func NewAdminService(repo repository.AdminRepository, publisher activity.Publisher) AdminService {
	if publisher == nil {
		publisher = activity.NewPublisher(nil)
	}
	return &adminService{
		repo:      repo,
		publisher: publisher,
		cost:      bcrypt.DefaultCost,
	}
}

// Authenticate checks the credentials. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials.
func (s *adminService) Authenticate(ctx context.Context, input dto.LoginInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperror.Validation("Username is required")
	}
	if input.Password == "" {
		return nil, apperror.Validation("Password is required")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// spend the same time as a real comparison
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(input.Password))
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return user, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func (s *adminService) CreateAdmin(ctx context.Context, username, password string) (uint, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, apperror.Validation("Username is required")
	}
	if len(password) < MinPasswordLength {
		return 0, apperror.Validation(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if s.repo.UsernameExists(ctx, username) {
		return 0, apperror.Conflict("Username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return 0, err
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return 0, apperror.Conflict("Username already exists")
		}
		return 0, err
	}

	return user.ID, nil
}

func (s *adminService) ChangePassword(ctx context.Context, username, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return apperror.Validation(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("Admin not found")
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *adminService) GetAdmin(ctx context.Context, id uint) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// LogAction appends to the audit log and notifies live dashboards.
// A failed audit write never fails the action being audited.
func (s *adminService) LogAction(ctx context.Context, adminID uint, action string) {
	if err := s.repo.LogAction(ctx, adminID, action); err != nil {
		log.Printf("[audit] failed to log action %q for admin %d: %v", action, adminID, err)
	}

	s.publisher.Publish(ctx, activity.Activity{
		Type:      activity.TypeAudit,
		Message:   action,
		AdminID:   adminID,
		CreatedAt: time.Now(),
	})
}

func (s *adminService) RecentActions(ctx context.Context, limit int) ([]dto.AuditEntry, error) {
	logs, err := s.repo.RecentActions(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.AuditEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, dto.AuditEntry{
			ID:        l.ID,
			AdminID:   l.AdminID,
			Action:    l.Action,
			Timestamp: l.Timestamp.Format(time.DateTime),
		})
	}
	return entries, nil
}
