package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"anoa.com/eventtech/internal/entity"
	adminRepo "anoa.com/eventtech/internal/modules/admin/repository"
	adminService "anoa.com/eventtech/internal/modules/admin/service"
	"anoa.com/eventtech/internal/modules/export/dto"
	"anoa.com/eventtech/internal/modules/export/service"
	registrationRepo "anoa.com/eventtech/internal/modules/registration/repository"
	"anoa.com/eventtech/internal/testutil"
	"anoa.com/eventtech/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeArchive struct {
	names []string
	err   error
}

func (f *fakeArchive) UploadArchive(_ context.Context, r io.Reader, fileName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.names = append(f.names, fileName)
	return "https://res.example.com/" + fileName, nil
}

func setup(t *testing.T, archive *fakeArchive) (service.ExportService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	audit := adminService.NewAdminService(adminRepo.NewAdminRepository(db), nil)

	svc := service.NewExportService(
		registrationRepo.NewRegistrationRepository(db),
		audit,
		archive,
		nil,
		service.Options{Archive: archive != nil},
	)

	for _, r := range []entity.Registration{
		{Name: "Ana", Email: "ana@example.com", College: "ITB", Event: "Hackathon", WinnerStatus: true},
		{Name: "Budi", Email: "budi@example.com", College: "UI", Event: "Hackathon"},
		{Name: "Citra", Email: "citra@example.com", College: "UGM", Event: "Tech Quiz"},
	} {
		row := r
		require.NoError(t, db.Create(&row).Error)
	}
	return svc, db
}

func lastAudit(t *testing.T, db *gorm.DB) string {
	var entry entity.AuditLog
	require.NoError(t, db.Order("id DESC").First(&entry).Error)
	return entry.Action
}

func TestExportCSVWithFilters(t *testing.T) {
	svc, db := setup(t, nil)

	file, err := svc.Export(context.Background(), 1, "csv", dto.Filter{Event: "Hackathon", Winner: "false"})
	require.NoError(t, err)
	assert.Regexp(t, `^tarunyam_participants_\d{8}_\d{6}\.csv$`, file.Name)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"Budi"`)
	assert.Empty(t, file.ArchiveURL)

	assert.Equal(t, "Exported CSV data (Event: Hackathon) (Winner: false)", lastAudit(t, db))
}

func TestExportHTML(t *testing.T) {
	svc, db := setup(t, nil)

	file, err := svc.Export(context.Background(), 1, "HTML", dto.Filter{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Name, ".html"))
	assert.Contains(t, string(file.Body), "<h1>TARUNYAM - Tech Event 2025</h1>")
	assert.Contains(t, string(file.Body), `<div class="stat-number">3</div>`)
	assert.Equal(t, "Exported HTML report", lastAudit(t, db))
}

func TestExportJSON(t *testing.T) {
	svc, _ := setup(t, nil)

	file, err := svc.Export(context.Background(), 1, "json", dto.Filter{Winner: "winner"})
	require.NoError(t, err)

	var doc dto.JSONExport
	require.NoError(t, json.Unmarshal(file.Body, &doc))
	assert.Equal(t, 1, doc.TotalRecords)
	assert.Equal(t, "all", doc.Filters.Event)
	assert.Equal(t, "winner", doc.Filters.WinnerStatus)
	require.Len(t, doc.Participants, 1)
	assert.Equal(t, "Ana", doc.Participants[0].Name)
}

func TestExportRejectsBadInput(t *testing.T) {
	svc, _ := setup(t, nil)
	ctx := context.Background()

	_, err := svc.Export(ctx, 1, "pdf", dto.Filter{})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, "Invalid export format. Supported formats: csv, html, json", apperror.PublicMessage(err, ""))

	_, err = svc.Export(ctx, 1, "csv", dto.Filter{Winner: "maybe"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestExportArchivesCopy(t *testing.T) {
	archive := &fakeArchive{}
	svc, _ := setup(t, archive)

	file, err := svc.Export(context.Background(), 1, "csv", dto.Filter{})
	require.NoError(t, err)
	require.Len(t, archive.names, 1)
	assert.Equal(t, file.Name, archive.names[0])
	assert.Equal(t, "https://res.example.com/"+file.Name, file.ArchiveURL)
}

func TestExportSurvivesArchiveFailure(t *testing.T) {
	svc, _ := setup(t, &fakeArchive{err: errors.New("cloud down")})

	file, err := svc.Export(context.Background(), 1, "json", dto.Filter{})
	require.NoError(t, err)
	assert.Empty(t, file.ArchiveURL)
	assert.NotEmpty(t, file.Body)
}

func TestDashboardExports(t *testing.T) {
	svc, _ := setup(t, nil)
	ctx := context.Background()

	csvFile, err := svc.DashboardCSV(ctx)
	require.NoError(t, err)
	assert.Equal(t, "participants.csv", csvFile.Name)
	assert.Len(t, strings.Split(strings.TrimSpace(string(csvFile.Body)), "\n"), 4)

	htmlFile, err := svc.DashboardHTML(ctx)
	require.NoError(t, err)
	assert.Equal(t, "participants.html", htmlFile.Name)
	assert.Contains(t, string(htmlFile.Body), "TARUNYAM - Tech Event 2025 - Participants List")
}
