package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an administrator account.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string     `json:"username" gorm:"size:80;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:120;not null"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// UserSession backs one signed-in admin cookie. Revoking the row logs the
// cookie out even though its token has not expired.
type UserSession struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	IP        string     `json:"ip" gorm:"size:64"`
	UserAgent string     `json:"userAgent" gorm:"size:512"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"not null;index"`
	RevokedAt *time.Time `json:"revokedAt,omitempty" gorm:"index"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (s *UserSession) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
