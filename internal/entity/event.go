package entity

type Event struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	EventName   string `gorm:"size:100;uniqueIndex;not null" json:"event_name"`
	Description string `gorm:"type:text;not null" json:"description"`
}

func (e *Event) TableName() string {
	return "events"
}
