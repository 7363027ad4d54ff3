package dto

import (
	"strings"
	"time"

	"anoa.com/eventtech/internal/entity"
	"anoa.com/eventtech/pkg/apperror"
)

const (
	FormatCSV  = "csv"
	FormatHTML = "html"
	FormatJSON = "json"
)

const DateLayout = time.DateTime

// Filter holds the raw export filters as sent by the client.
type Filter struct {
	Event  string `form:"event"`
	Winner string `form:"winner"`
}

// WinnerFlag parses the winner filter. Empty and "all" mean no filter.
func (f Filter) WinnerFlag() (*bool, error) {
	var v bool
	switch strings.ToLower(strings.TrimSpace(f.Winner)) {
	case "", "all":
		return nil, nil
	case "true", "1", "winner", "yes":
		v = true
	case "false", "0", "participant", "no":
		v = false
	default:
		return nil, apperror.Validation("Invalid winner filter. Use true, false or all")
	}
	return &v, nil
}

// Info is appended to audit entries, e.g. " (Event: Hackathon) (Winner: true)".
func (f Filter) Info() string {
	var b strings.Builder
	if e := strings.TrimSpace(f.Event); e != "" {
		b.WriteString(" (Event: " + e + ")")
	}
	if w := strings.TrimSpace(f.Winner); w != "" {
		b.WriteString(" (Winner: " + w + ")")
	}
	return b.String()
}

// Subtitle is appended to the report heading, e.g. " - Event: Hackathon".
func (f Filter) Subtitle() string {
	var b strings.Builder
	if e := strings.TrimSpace(f.Event); e != "" {
		b.WriteString(" - Event: " + e)
	}
	if w := strings.TrimSpace(f.Winner); w != "" {
		b.WriteString(" - Winner Status: " + w)
	}
	return b.String()
}

// File is a rendered export ready to be sent as an attachment.
type File struct {
	Name        string
	ContentType string
	Body        []byte
	ArchiveURL  string
}

type Participant struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	College          string `json:"college"`
	Event            string `json:"event"`
	RegistrationDate string `json:"registration_date"`
	WinnerStatus     bool   `json:"winner_status"`
}

func NewParticipant(r entity.Registration) Participant {
	return Participant{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		College:          r.College,
		Event:            r.Event,
		RegistrationDate: r.RegistrationDate.Format(DateLayout),
		WinnerStatus:     r.WinnerStatus,
	}
}

type JSONFilters struct {
	Event        string `json:"event"`
	WinnerStatus string `json:"winner_status"`
}

type JSONExport struct {
	ExportDate   string        `json:"export_date"`
	TotalRecords int           `json:"total_records"`
	Filters      JSONFilters   `json:"filters"`
	Participants []Participant `json:"participants"`
}
