package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/ingest"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectLinks are the external links shown on a project card.
type ProjectLinks struct {
	Github string `json:"github,omitempty"`
	Demo   string `json:"demo,omitempty"`
}

// Project is a student project showcased on the site
type Project struct {
	ID               uuid.UUID                        `json:"id" gorm:"type:uuid;primaryKey"`
	Title            string                           `json:"title" gorm:"size:200;not null"`
	Slug             *string                          `json:"slug" gorm:"size:220;uniqueIndex"`
	StudentName      string                           `json:"studentName" gorm:"size:100"`
	StudentBatch     string                           `json:"studentBatch" gorm:"size:50"`
	ShortDescription string                           `json:"shortDescription" gorm:"size:200"`
	Description      string                           `json:"description" gorm:"type:text;not null"`
	TechStack        StringList                       `json:"techStack"`
	Thumbnail        string                           `json:"thumbnail" gorm:"size:255"`
	Screenshots      StringList                       `json:"screenshots"`
	Links            datatypes.JSONType[ProjectLinks] `json:"links"`
	Timestamp        time.Time                        `json:"timestamp" gorm:"not null;index"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	ensureTimestamp(&p.Timestamp)
	return nil
}

// BeforeSave re-derives the short description on every write.
func (p *Project) BeforeSave(*gorm.DB) error {
	p.ShortDescription = ingest.ShortDescription(p.Description)
	return nil
}
