package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"gorm.io/gorm"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{db}
}

// FindAll returns events newest first, optionally limited to one category
func (r *EventRepo) FindAll(category string) ([]*models.Event, error) {
	var events []*models.Event
	q := r.db.Order("timestamp DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&events).Error
	return events, err
}

// FindRecent returns the newest limit events
func (r *EventRepo) FindRecent(limit int) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.Order("timestamp DESC").Limit(limit).Find(&events).Error
	return events, err
}

func (r *EventRepo) FindByID(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepo) FindBySlug(slug string) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Add inserts a new event with a freshly assigned slug
func (r *EventRepo) Add(event *models.Event) error {
	return saveWithSlug(r.db, &models.Event{}, event.ID, event.Title,
		func(slug *string) { event.Slug = slug },
		func(tx *gorm.DB) error { return tx.Create(event).Error },
	)
}

// Update saves an existing event, re-slugging on a title change
func (r *EventRepo) Update(event *models.Event, titleChanged bool) error {
	if !titleChanged && event.Slug != nil {
		return r.db.Save(event).Error
	}
	return saveWithSlug(r.db, &models.Event{}, event.ID, event.Title,
		func(slug *string) { event.Slug = slug },
		func(tx *gorm.DB) error { return tx.Save(event).Error },
	)
}

func (r *EventRepo) Delete(id uuid.UUID) error {
	return deleteByID(r.db, &models.Event{}, id)
}

func (r *EventRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Count(&count).Error
	return count, err
}
