package dto

import (
	certDto "anoa.com/eventtech/internal/modules/certificate/dto"
	exportDto "anoa.com/eventtech/internal/modules/export/dto"
	commonDto "anoa.com/eventtech/pkg/dto"
)

type ParticipantPage struct {
	Participants []exportDto.Participant
	Pagination   commonDto.PaginationMeta
}

type Statistics struct {
	TotalRegistrations    int64               `json:"total_registrations"`
	TotalWinners          int                 `json:"total_winners"`
	EventRegistrations    map[string]int64    `json:"event_registrations"`
	CertificateStatistics *certDto.Statistics `json:"certificate_statistics"`
}
