package dto

type EventInput struct {
	EventName   string `json:"event_name" form:"event_name" binding:"max=100"`
	Description string `json:"description" form:"description"`
}

type EventResponse struct {
	ID                uint   `json:"id"`
	EventName         string `json:"event_name"`
	Description       string `json:"description"`
	RegistrationCount int64  `json:"registration_count"`
}
