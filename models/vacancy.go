package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vacancy struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title        string     `json:"title" gorm:"size:200;not null"`
	Slug         *string    `json:"slug" gorm:"size:220;uniqueIndex"`
	Location     string     `json:"location" gorm:"size:100"`
	Type         string     `json:"type" gorm:"size:50"`
	Description  string     `json:"description" gorm:"type:text;not null"`
	Requirements StringList `json:"requirements"`
	Active       bool       `json:"active" gorm:"not null;index"`
	Timestamp    time.Time  `json:"timestamp" gorm:"not null;index"`
}

func (v *Vacancy) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	ensureTimestamp(&v.Timestamp)
	return nil
}
