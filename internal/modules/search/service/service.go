package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"anoa.com/eventtech/internal/entity"
	"anoa.com/eventtech/pkg/sanitize"
	"github.com/meilisearch/meilisearch-go"
)

const IndexName = "participants"

// SearchService keeps the participant index in step with the database.
// Indexing is best effort; the database stays the source of truth.
type SearchService interface {
	Enabled() bool
	IndexRegistration(registration *entity.Registration) error
	DeleteRegistration(id uint) error
	SearchParticipantIDs(query string, limit int) ([]uint, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

// NewSearchService returns a meilisearch backed service, or a disabled one
// when client is nil.
func NewSearchService(client meilisearch.ServiceManager) SearchService {
	if client == nil {
		return disabledSearch{}
	}
	s := &meiliSearchService{client: client}
	s.initIndex()
	return s
}

func (s *meiliSearchService) initIndex() {
	searchable := []string{"name", "email", "college", "event"}
	if _, err := s.client.Index(IndexName).UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("[search] failed to update searchable attributes: %v", err)
	}

	filterable := []any{"event", "winner_status"}
	if _, err := s.client.Index(IndexName).UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("[search] failed to update filterable attributes: %v", err)
	}

	sortable := []string{"registration_date"}
	if _, err := s.client.Index(IndexName).UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("[search] failed to update sortable attributes: %v", err)
	}

	log.Println("Meilisearch participant index initialized")
}

type participantDoc struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	College          string `json:"college"`
	Event            string `json:"event"`
	WinnerStatus     bool   `json:"winner_status"`
	RegistrationDate int64  `json:"registration_date"`
}

func newParticipantDoc(r *entity.Registration) participantDoc {
	return participantDoc{
		ID:               r.ID,
		Name:             sanitize.PlainText(r.Name),
		Email:            r.Email,
		College:          sanitize.PlainText(r.College),
		Event:            sanitize.PlainText(r.Event),
		WinnerStatus:     r.WinnerStatus,
		RegistrationDate: r.RegistrationDate.Unix(),
	}
}

func (s *meiliSearchService) Enabled() bool {
	return true
}

func (s *meiliSearchService) IndexRegistration(registration *entity.Registration) error {
	doc := newParticipantDoc(registration)

	task, err := s.client.Index(IndexName).AddDocuments([]participantDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("[search] indexed participant %d, task id: %d", registration.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteRegistration(id uint) error {
	_, err := s.client.Index(IndexName).DeleteDocument(strconv.FormatUint(uint64(id), 10))
	return err
}

// SearchParticipantIDs returns matching registration ids in relevance order.
func (s *meiliSearchService) SearchParticipantIDs(query string, limit int) ([]uint, error) {
	raw, err := s.client.Index(IndexName).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return decodeHitIDs(*raw)
}

func decodeHitIDs(raw []byte) ([]uint, error) {
	var res struct {
		Hits []struct {
			ID uint `json:"id"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}

type disabledSearch struct{}

func (disabledSearch) Enabled() bool                                    { return false }
func (disabledSearch) IndexRegistration(*entity.Registration) error     { return nil }
func (disabledSearch) DeleteRegistration(uint) error                    { return nil }
func (disabledSearch) SearchParticipantIDs(string, int) ([]uint, error) { return nil, nil }
