package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"gorm.io/gorm"
)

// submissionRepo serves the append-only form submission tables. Rows are
// created by public requests and only ever deleted afterwards.
type submissionRepo[T any] struct {
	db *gorm.DB
}

type (
	ContactQueryRepo       = submissionRepo[models.ContactQuery]
	PartnershipRequestRepo = submissionRepo[models.PartnershipRequest]
	JobApplicationRepo     = submissionRepo[models.JobApplication]
)

func NewContactQueryRepo(db *gorm.DB) *ContactQueryRepo {
	return &ContactQueryRepo{db}
}

func NewPartnershipRequestRepo(db *gorm.DB) *PartnershipRequestRepo {
	return &PartnershipRequestRepo{db}
}

func NewJobApplicationRepo(db *gorm.DB) *JobApplicationRepo {
	return &JobApplicationRepo{db}
}

// FindAll returns every submission, newest first
func (r *submissionRepo[T]) FindAll() ([]*T, error) {
	var items []*T
	err := r.db.Order("timestamp DESC").Find(&items).Error
	return items, err
}

// FindRecent returns the newest limit submissions
func (r *submissionRepo[T]) FindRecent(limit int) ([]*T, error) {
	var items []*T
	err := r.db.Order("timestamp DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *submissionRepo[T]) FindByID(id uuid.UUID) (*T, error) {
	var item T
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Add inserts a new submission
func (r *submissionRepo[T]) Add(item *T) error {
	return r.db.Create(item).Error
}

// Delete removes a submission by id
func (r *submissionRepo[T]) Delete(id uuid.UUID) error {
	return deleteByID(r.db, new(T), id)
}

func (r *submissionRepo[T]) Count() (int64, error) {
	var count int64
	err := r.db.Model(new(T)).Count(&count).Error
	return count, err
}
