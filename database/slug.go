package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/errs"
	"github.com/rpupo63/ailabs-portal-backend/ingest"
	"gorm.io/gorm"
)

const maxSlugAttempts = 5

// saveWithSlug assigns a slug derived from title and runs save. A unique
// violation rolls back to a savepoint and retries with a fresh suffix, so
// two rows racing for the same slug both end up stored.
func saveWithSlug(db *gorm.DB, model any, id uuid.UUID, title string, setSlug func(*string), save func(tx *gorm.DB) error) error {
	exists := func(slug string) (bool, error) {
		var count int64
		err := db.Model(model).Where("slug = ? AND id <> ?", slug, id).Count(&count).Error
		return count > 0, err
	}

	var err error
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, assignErr := ingest.AssignSlug(title, exists)
		if assignErr != nil {
			return assignErr
		}
		setSlug(slug)

		err = db.Transaction(save)
		if err == nil || !errs.IsUniqueViolation(err) {
			return err
		}
	}
	return err
}
