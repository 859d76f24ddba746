package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/ingest"
	"gorm.io/gorm"
)

// Event is a workshop, talk or competition listed on the events page.
// Date and time are free text as entered by the admin.
type Event struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title            string     `json:"title" gorm:"size:200;not null"`
	Slug             *string    `json:"slug" gorm:"size:220;uniqueIndex"`
	Category         string     `json:"category" gorm:"size:50;index"`
	Date             string     `json:"date" gorm:"size:50"`
	Time             string     `json:"time" gorm:"size:50"`
	Venue            string     `json:"venue" gorm:"size:150"`
	Organizer        string     `json:"organizer" gorm:"size:100"`
	ShortDescription string     `json:"shortDescription" gorm:"size:200"`
	Description      string     `json:"description" gorm:"type:text;not null"`
	MainImage        string     `json:"mainImage" gorm:"size:255"`
	Gallery          StringList `json:"gallery"`
	Timestamp        time.Time  `json:"timestamp" gorm:"not null;index"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	ensureTimestamp(&e.Timestamp)
	return nil
}

func (e *Event) BeforeSave(*gorm.DB) error {
	e.ShortDescription = ingest.ShortDescription(e.Description)
	return nil
}
