package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"gorm.io/gorm"
)

type VacancyRepo struct {
	db *gorm.DB
}

func NewVacancyRepo(db *gorm.DB) *VacancyRepo {
	return &VacancyRepo{db}
}

// FindAll returns every vacancy, open or closed, newest first
func (r *VacancyRepo) FindAll() ([]*models.Vacancy, error) {
	var vacancies []*models.Vacancy
	err := r.db.Order("timestamp DESC").Find(&vacancies).Error
	return vacancies, err
}

// FindActive returns the vacancies currently open for applications
func (r *VacancyRepo) FindActive() ([]*models.Vacancy, error) {
	var vacancies []*models.Vacancy
	err := r.db.Where("active = ?", true).Order("timestamp DESC").Find(&vacancies).Error
	return vacancies, err
}

func (r *VacancyRepo) FindByID(id uuid.UUID) (*models.Vacancy, error) {
	var vacancy models.Vacancy
	if err := r.db.First(&vacancy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vacancy, nil
}

// FindBySlug returns an active vacancy by slug
func (r *VacancyRepo) FindBySlug(slug string) (*models.Vacancy, error) {
	var vacancy models.Vacancy
	if err := r.db.First(&vacancy, "slug = ? AND active = ?", slug, true).Error; err != nil {
		return nil, err
	}
	return &vacancy, nil
}

func (r *VacancyRepo) Add(vacancy *models.Vacancy) error {
	return saveWithSlug(r.db, &models.Vacancy{}, vacancy.ID, vacancy.Title,
		func(slug *string) { vacancy.Slug = slug },
		func(tx *gorm.DB) error { return tx.Create(vacancy).Error },
	)
}

func (r *VacancyRepo) Update(vacancy *models.Vacancy, titleChanged bool) error {
	if !titleChanged && vacancy.Slug != nil {
		return r.db.Save(vacancy).Error
	}
	return saveWithSlug(r.db, &models.Vacancy{}, vacancy.ID, vacancy.Title,
		func(slug *string) { vacancy.Slug = slug },
		func(tx *gorm.DB) error { return tx.Save(vacancy).Error },
	)
}

func (r *VacancyRepo) Delete(id uuid.UUID) error {
	return deleteByID(r.db, &models.Vacancy{}, id)
}

// CountActive returns the number of open vacancies
func (r *VacancyRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Vacancy{}).Where("active = ?", true).Count(&count).Error
	return count, err
}
