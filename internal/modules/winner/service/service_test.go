package service_test

import (
	"context"
	"testing"

	"anoa.com/eventtech/internal/entity"
	adminRepo "anoa.com/eventtech/internal/modules/admin/repository"
	adminService "anoa.com/eventtech/internal/modules/admin/service"
	certRepo "anoa.com/eventtech/internal/modules/certificate/repository"
	certService "anoa.com/eventtech/internal/modules/certificate/service"
	registrationRepo "anoa.com/eventtech/internal/modules/registration/repository"
	"anoa.com/eventtech/internal/modules/winner/service"
	"anoa.com/eventtech/internal/testutil"
	"anoa.com/eventtech/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (service.WinnerService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	regs := registrationRepo.NewRegistrationRepository(db)
	certs := certService.NewCertificateService(certRepo.NewCertificateRepository(db), regs, nil, "")
	audit := adminService.NewAdminService(adminRepo.NewAdminRepository(db), nil)
	return service.NewWinnerService(regs, certs, audit, nil, nil), db
}

func seed(t *testing.T, db *gorm.DB) *entity.Registration {
	reg := &entity.Registration{Name: "Ana", Email: "ana@example.com", College: "ITB", Event: "Hackathon"}
	require.NoError(t, db.Create(reg).Error)
	return reg
}

func auditActions(t *testing.T, db *gorm.DB) []string {
	var actions []string
	require.NoError(t, db.Model(&entity.AuditLog{}).Order("id").Pluck("action", &actions).Error)
	return actions
}

func TestSelectAndRevokeWinner(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	reg := seed(t, db)

	certificate, err := svc.SelectWinner(ctx, 1, reg.ID)
	require.NoError(t, err)
	require.NotNil(t, certificate)
	assert.Equal(t, entity.CertificateWinner, certificate.CertificateType)
	assert.Contains(t, certificate.CertificateID, "WIN-")
	assert.True(t, certificate.WinnerStatus)

	_, err = svc.SelectWinner(ctx, 1, reg.ID)
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "Participant is already a winner", apperror.PublicMessage(err, ""))

	require.NoError(t, svc.RevokeWinner(ctx, 1, reg.ID))

	err = svc.RevokeWinner(ctx, 1, reg.ID)
	require.Error(t, err)
	assert.Equal(t, "Participant is not a winner", apperror.PublicMessage(err, ""))

	// the certificate log survives a revoke
	var logs int64
	require.NoError(t, db.Model(&entity.CertificateLog{}).Where("registration_id = ?", reg.ID).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)

	assert.Equal(t, []string{
		"Selected winner: Ana for event: Hackathon",
		"Revoked winner status: Ana for event: Hackathon",
	}, auditActions(t, db))
}

func TestGenerateWinnerCertificate(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	reg := seed(t, db)

	_, err := svc.GenerateWinnerCertificate(ctx, 1, reg.ID)
	assert.Equal(t, "Participant is not a winner", apperror.PublicMessage(err, ""))

	_, err = svc.SelectWinner(ctx, 1, reg.ID)
	require.NoError(t, err)

	certificate, err := svc.GenerateWinnerCertificate(ctx, 1, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", certificate.Name)

	actions := auditActions(t, db)
	assert.Equal(t, "Generated winner certificate for: Ana", actions[len(actions)-1])
}

func TestUnknownParticipant(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.SelectWinner(ctx, 1, 42)
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "Participant not found", apperror.PublicMessage(err, ""))

	err = svc.RevokeWinner(ctx, 1, 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.GenerateWinnerCertificate(ctx, 1, 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
