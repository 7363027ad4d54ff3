package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"anoa.com/eventtech/internal/entity"
	adminService "anoa.com/eventtech/internal/modules/admin/service"
	"anoa.com/eventtech/internal/modules/export/dto"
	"anoa.com/eventtech/internal/modules/export/renderer"
	registrationRepo "anoa.com/eventtech/internal/modules/registration/repository"
	"anoa.com/eventtech/pkg/apperror"
	"anoa.com/eventtech/pkg/metrics"
	"anoa.com/eventtech/pkg/storage"
)

const (
	filePrefix      = "tarunyam_participants_"
	fileStampLayout = "20060102_150405"
)

var contentTypes = map[string]string{
	dto.FormatCSV:  "text/csv; charset=utf-8",
	dto.FormatHTML: "text/html; charset=utf-8",
	dto.FormatJSON: "application/json; charset=utf-8",
}

var auditActions = map[string]string{
	dto.FormatCSV:  "Exported CSV data",
	dto.FormatHTML: "Exported HTML report",
	dto.FormatJSON: "Exported JSON data",
}

type ExportService interface {
	// Export renders the filtered participant list and audits the download.
	Export(ctx context.Context, adminID uint, format string, filter dto.Filter) (*dto.File, error)
	// DashboardCSV and DashboardHTML render the unfiltered quick exports.
	DashboardCSV(ctx context.Context) (*dto.File, error)
	DashboardHTML(ctx context.Context) (*dto.File, error)
}

type Options struct {
	EventTitle string
	// Archive uploads a copy of every filtered export when storage is set.
	Archive bool
}

type exportService struct {
	registrations registrationRepo.RegistrationRepository
	audit         adminService.AdminService
	archive       storage.ArchiveStorage
	metrics       *metrics.Metrics
	opts          Options
	now           func() time.Time
}

func NewExportService(
	registrations registrationRepo.RegistrationRepository,
	audit adminService.AdminService,
	archive storage.ArchiveStorage,
	m *metrics.Metrics,
	opts Options,
) ExportService {
	if opts.EventTitle == "" {
		opts.EventTitle = "TARUNYAM - Tech Event 2025"
	}
	return &exportService{
		registrations: registrations,
		audit:         audit,
		archive:       archive,
		metrics:       m,
		opts:          opts,
		now:           time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, adminID uint, format string, filter dto.Filter) (*dto.File, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, apperror.Validation("Invalid export format. Supported formats: csv, html, json")
	}

	winner, err := filter.WinnerFlag()
	if err != nil {
		return nil, err
	}

	rows, err := s.registrations.FindFiltered(ctx, registrationRepo.RegistrationFilter{
		Event:  filter.Event,
		Winner: winner,
	})
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	now := s.now()
	var buf bytes.Buffer
	switch format {
	case dto.FormatCSV:
		err = renderer.WriteCSV(&buf, rows)
	case dto.FormatHTML:
		err = renderer.WriteHTMLReport(&buf, renderer.Report{
			EventTitle:   s.opts.EventTitle,
			Subtitle:     filter.Subtitle(),
			GeneratedAt:  now,
			Participants: rows,
		})
	case dto.FormatJSON:
		err = renderer.WriteJSON(&buf, jsonExport(now, filter, rows))
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}

	file := &dto.File{
		Name:        filePrefix + now.Format(fileStampLayout) + "." + format,
		ContentType: contentType,
		Body:        buf.Bytes(),
	}

	s.archiveCopy(ctx, file)
	s.metrics.Export(format)
	s.audit.LogAction(ctx, adminID, auditActions[format]+filter.Info())

	return file, nil
}

func (s *exportService) DashboardCSV(ctx context.Context) (*dto.File, error) {
	rows, err := s.registrations.FindFiltered(ctx, registrationRepo.RegistrationFilter{})
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	var buf bytes.Buffer
	if err := renderer.WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	s.metrics.Export(dto.FormatCSV)

	return &dto.File{Name: "participants.csv", ContentType: contentTypes[dto.FormatCSV], Body: buf.Bytes()}, nil
}

func (s *exportService) DashboardHTML(ctx context.Context) (*dto.File, error) {
	rows, err := s.registrations.FindFiltered(ctx, registrationRepo.RegistrationFilter{})
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	var buf bytes.Buffer
	if err := renderer.WriteHTMLList(&buf, s.opts.EventTitle, rows); err != nil {
		return nil, err
	}
	s.metrics.Export(dto.FormatHTML)

	return &dto.File{Name: "participants.html", ContentType: contentTypes[dto.FormatHTML], Body: buf.Bytes()}, nil
}

// archiveCopy never fails the export; the download matters more than the copy.
func (s *exportService) archiveCopy(ctx context.Context, file *dto.File) {
	if !s.opts.Archive || s.archive == nil {
		return
	}

	url, err := s.archive.UploadArchive(ctx, bytes.NewReader(file.Body), file.Name)
	if err != nil {
		log.Printf("[export] failed to archive %s: %v", file.Name, err)
		return
	}
	file.ArchiveURL = url
}

func jsonExport(now time.Time, filter dto.Filter, rows []entity.Registration) dto.JSONExport {
	filters := dto.JSONFilters{Event: "all", WinnerStatus: "all"}
	if e := strings.TrimSpace(filter.Event); e != "" {
		filters.Event = e
	}
	if w := strings.TrimSpace(filter.Winner); w != "" {
		filters.WinnerStatus = w
	}

	participants := make([]dto.Participant, 0, len(rows))
	for _, r := range rows {
		participants = append(participants, dto.NewParticipant(r))
	}

	return dto.JSONExport{
		ExportDate:   now.Format(dto.DateLayout),
		TotalRecords: len(participants),
		Filters:      filters,
		Participants: participants,
	}
}
