package service_test

import (
	"context"
	"errors"
	"testing"

	"anoa.com/eventtech/internal/entity"
	adminRepo "anoa.com/eventtech/internal/modules/admin/repository"
	adminService "anoa.com/eventtech/internal/modules/admin/service"
	certRepo "anoa.com/eventtech/internal/modules/certificate/repository"
	certService "anoa.com/eventtech/internal/modules/certificate/service"
	"anoa.com/eventtech/internal/modules/dashboard/service"
	eventRepo "anoa.com/eventtech/internal/modules/event/repository"
	eventService "anoa.com/eventtech/internal/modules/event/service"
	registrationRepo "anoa.com/eventtech/internal/modules/registration/repository"
	searchService "anoa.com/eventtech/internal/modules/search/service"
	"anoa.com/eventtech/internal/testutil"
	"anoa.com/eventtech/pkg/apperror"
	commonDto "anoa.com/eventtech/pkg/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSearch struct {
	ids     []uint
	err     error
	deleted []uint
}

func (f *fakeSearch) Enabled() bool                                { return true }
func (f *fakeSearch) IndexRegistration(*entity.Registration) error { return nil }
func (f *fakeSearch) DeleteRegistration(id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}
func (f *fakeSearch) SearchParticipantIDs(string, int) ([]uint, error) { return f.ids, f.err }

func newService(t *testing.T, search searchService.SearchService) (service.DashboardService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	regs := registrationRepo.NewRegistrationRepository(db)
	admins := adminService.NewAdminService(adminRepo.NewAdminRepository(db), nil)
	events := eventService.NewEventService(eventRepo.NewEventRepository(db), admins)
	certs := certService.NewCertificateService(certRepo.NewCertificateRepository(db), regs, nil, "")
	return service.NewDashboardService(regs, events, certs, admins, search), db
}

func seed(t *testing.T, db *gorm.DB, n int) []entity.Registration {
	names := []string{"Ana", "Budi", "Citra", "Dewi", "Eko", "Fajar", "Gita", "Hadi", "Indah", "Joko", "Kiki", "Lina"}
	rows := make([]entity.Registration, 0, n)
	for i := 0; i < n; i++ {
		r := entity.Registration{
			Name:    names[i],
			Email:   names[i] + "@example.com",
			College: "ITB",
			Event:   []string{"Hackathon", "Tech Quiz"}[i%2],
		}
		require.NoError(t, db.Create(&r).Error)
		rows = append(rows, r)
	}
	return rows
}

func TestParticipantsPagination(t *testing.T) {
	svc, db := newService(t, nil)
	seed(t, db, 12)

	res, err := svc.Participants(context.Background(), commonDto.PageRequest{Page: "2", Limit: "5"})
	require.NoError(t, err)
	assert.Len(t, res.Participants, 5)
	assert.Equal(t, commonDto.PaginationMeta{
		CurrentPage: 2, TotalPages: 3, TotalCount: 12, Limit: 5, HasNext: true, HasPrevious: true,
	}, res.Pagination)

	res, err = svc.Participants(context.Background(), commonDto.PageRequest{Page: "abc", Limit: "500"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pagination.CurrentPage)
	assert.Equal(t, 100, res.Pagination.Limit)
	assert.Len(t, res.Participants, 12)

	res, err = svc.Participants(context.Background(), commonDto.PageRequest{Page: "9223372036854775807", Limit: "5"})
	require.NoError(t, err)
	assert.Empty(t, res.Participants)
	assert.False(t, res.Pagination.HasNext)
	assert.True(t, res.Pagination.HasPrevious)
}

func TestStatistics(t *testing.T) {
	svc, db := newService(t, nil)
	rows := seed(t, db, 3)
	require.NoError(t, db.Model(&entity.Registration{}).Where("id = ?", rows[0].ID).Update("winner_status", true).Error)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRegistrations)
	assert.Equal(t, 1, stats.TotalWinners)
	assert.Equal(t, map[string]int64{"Hackathon": 2, "Tech Quiz": 1}, stats.EventRegistrations)
	assert.Equal(t, int64(0), stats.CertificateStatistics.TotalCertificates)
}

func TestDeleteParticipant(t *testing.T) {
	search := &fakeSearch{}
	svc, db := newService(t, search)
	rows := seed(t, db, 1)
	ctx := context.Background()

	require.NoError(t, svc.DeleteParticipant(ctx, 1, rows[0].ID))
	assert.Equal(t, []uint{rows[0].ID}, search.deleted)

	entries, err := svc.AuditLog(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Deleted participant ID: 1", entries[0].Action)

	err = svc.DeleteParticipant(ctx, 1, rows[0].ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSearchUsesIndex(t *testing.T) {
	search := &fakeSearch{}
	svc, db := newService(t, search)
	rows := seed(t, db, 3)
	search.ids = []uint{rows[2].ID, rows[0].ID}

	res, err := svc.Search(context.Background(), "anything")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Citra", res[0].Name)
	assert.Equal(t, "Ana", res[1].Name)
}

func TestSearchFallsBackToDatabase(t *testing.T) {
	svc, db := newService(t, &fakeSearch{err: errors.New("connection refused")})
	seed(t, db, 3)

	res, err := svc.Search(context.Background(), "budi")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Budi", res[0].Name)

	_, err = svc.Search(context.Background(), "  ")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
