package dto

// CertificateData is everything a client needs to render a certificate.
type CertificateData struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	College          string `json:"college"`
	Event            string `json:"event"`
	RegistrationDate string `json:"registration_date"`
	WinnerStatus     bool   `json:"winner_status"`
	CertificateType  string `json:"certificate_type"`
	EventTitle       string `json:"event_title"`
	IssueDate        string `json:"issue_date"`
	CertificateID    string `json:"certificate_id"`
}

type Verification struct {
	Valid           bool   `json:"valid"`
	RegistrationID  uint   `json:"registration_id,omitempty"`
	CertificateType string `json:"certificate_type,omitempty"`
	GeneratedDate   string `json:"generated_date,omitempty"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	College         string `json:"college,omitempty"`
	Event           string `json:"event,omitempty"`
}

type HistoryEntry struct {
	CertificateID   string `json:"certificate_id"`
	CertificateType string `json:"certificate_type"`
	GeneratedDate   string `json:"generated_date"`
}

type Statistics struct {
	ParticipationCertificates int64 `json:"participation_certificates"`
	WinnerCertificates        int64 `json:"winner_certificates"`
	TotalCertificates         int64 `json:"total_certificates"`
}

type WinnerEntry struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	College          string `json:"college"`
	Event            string `json:"event"`
	RegistrationDate string `json:"registration_date"`
}
