package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactQuery is a message left through the public contact form.
type ContactQuery struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"size:120;not null"`
	Type      string    `json:"type" gorm:"size:50"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}

func (q *ContactQuery) BeforeCreate(*gorm.DB) error {
	ensureID(&q.ID)
	ensureTimestamp(&q.Timestamp)
	return nil
}

// PartnershipRequest is a college asking to join the academy programme.
type PartnershipRequest struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CollegeName string    `json:"collegeName" gorm:"size:150;not null"`
	Email       string    `json:"email" gorm:"size:120;not null"`
	Phone       string    `json:"phone" gorm:"size:20;not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null;index"`
}

func (p *PartnershipRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	ensureTimestamp(&p.Timestamp)
	return nil
}

// JobApplication is a candidate applying for a role.
type JobApplication struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	JobRole     string    `json:"jobRole" gorm:"size:100;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Email       string    `json:"email" gorm:"size:120;not null"`
	ResumeLink  string    `json:"resumeLink" gorm:"size:255"`
	CoverLetter string    `json:"coverLetter" gorm:"type:text"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null;index"`
}

func (a *JobApplication) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	ensureTimestamp(&a.Timestamp)
	return nil
}
