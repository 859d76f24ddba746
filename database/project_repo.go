package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects, newest first
func (r *ProjectRepo) FindAll() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Order("timestamp DESC").Find(&projects).Error
	return projects, err
}

// FindRecent returns the newest limit projects
func (r *ProjectRepo) FindRecent(limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Order("timestamp DESC").Limit(limit).Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindBySlug returns a project by its slug
func (r *ProjectRepo) FindBySlug(slug string) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project with a freshly assigned slug
func (r *ProjectRepo) Add(project *models.Project) error {
	return saveWithSlug(r.db, &models.Project{}, project.ID, project.Title,
		func(slug *string) { project.Slug = slug },
		func(tx *gorm.DB) error { return tx.Create(project).Error },
	)
}

// Update saves an existing project. The slug is re-derived when the title
// changed or the row never had one.
func (r *ProjectRepo) Update(project *models.Project, titleChanged bool) error {
	if !titleChanged && project.Slug != nil {
		return r.db.Save(project).Error
	}
	return saveWithSlug(r.db, &models.Project{}, project.ID, project.Title,
		func(slug *string) { project.Slug = slug },
		func(tx *gorm.DB) error { return tx.Save(project).Error },
	)
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return deleteByID(r.db, &models.Project{}, id)
}

func (r *ProjectRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}

// deleteByID reports gorm.ErrRecordNotFound when no row matched.
func deleteByID(db *gorm.DB, model any, id uuid.UUID) error {
	res := db.Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
