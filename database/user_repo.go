package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

func (r *UserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Add(user *models.User) error {
	return r.db.Create(user).Error
}

// TouchLogin records a successful login
func (r *UserRepo) TouchLogin(id uuid.UUID, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db}
}

func (r *SessionRepo) Add(session *models.UserSession) error {
	return r.db.Create(session).Error
}

// FindActive returns the session if it is neither revoked nor expired at now
func (r *SessionRepo) FindActive(id uuid.UUID, now time.Time) (*models.UserSession, error) {
	var session models.UserSession
	err := r.db.
		Where("id = ? AND revoked_at IS NULL AND expires_at > ?", id, now).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Revoke marks a session as logged out
func (r *SessionRepo) Revoke(id uuid.UUID, at time.Time) error {
	res := r.db.Model(&models.UserSession{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteExpired removes sessions that expired before cutoff
func (r *SessionRepo) DeleteExpired(cutoff time.Time) (int64, error) {
	res := r.db.Where("expires_at < ?", cutoff).Delete(&models.UserSession{})
	return res.RowsAffected, res.Error
}
