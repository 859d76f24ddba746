package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/errs"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const DefaultSessionTTL = 12 * time.Hour

type UserStore interface {
	FindByUsername(username string) (*models.User, error)
	Add(user *models.User) error
	TouchLogin(id uuid.UUID, at time.Time) error
}

type SessionStore interface {
	Add(session *models.UserSession) error
	FindActive(id uuid.UUID, now time.Time) (*models.UserSession, error)
	Revoke(id uuid.UUID, at time.Time) error
}

// Identity is the signed-in admin attached to a request.
type Identity struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

// Manager binds signed tokens to session rows so a logout takes effect
// before the token expires.
type Manager struct {
	signer Signer
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, now func() time.Time) Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return Manager{signer: NewSigner(secret, now), ttl: ttl, now: now}
}

func (m Manager) TTL() time.Duration {
	return m.ttl
}

// Login checks credentials and opens a session, returning the signed token.
func (m Manager) Login(users UserStore, sessions SessionStore, username, password, ip, userAgent string) (string, error) {
	user, err := users.FindByUsername(strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errs.NewInvalidCredentialsError()
	}
	if err != nil {
		return "", err
	}

	ok, err := CheckPassword(user.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errs.NewInvalidCredentialsError()
	}

	now := m.now().UTC()
	session := &models.UserSession{
		UserID:    user.ID,
		IP:        strings.TrimSpace(ip),
		UserAgent: strings.TrimSpace(userAgent),
		ExpiresAt: now.Add(m.ttl),
	}
	if err := sessions.Add(session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	token, err := m.signer.Sign(user.ID, session.ID, m.ttl)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}

	if err := users.TouchLogin(user.ID, now); err != nil {
		log.Warn().Err(err).Str("username", user.Username).Msg("Failed to record login time")
	}
	return token, nil
}

// Authenticate verifies token and checks its session row is still live.
func (m Manager) Authenticate(sessions SessionStore, token string) (Identity, error) {
	if token == "" {
		return Identity{}, errs.NewMissingTokenError()
	}

	claims, err := m.signer.Parse(token)
	if err != nil {
		return Identity{}, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, errs.NewInvalidTokenError(err)
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return Identity{}, errs.NewInvalidTokenError(err)
	}

	session, err := sessions.FindActive(sessionID, m.now().UTC())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Identity{}, errs.NewSessionRevokedError()
	}
	if err != nil {
		return Identity{}, err
	}
	if session.UserID != userID {
		return Identity{}, errs.NewInvalidTokenError(nil)
	}
	return Identity{UserID: userID, SessionID: sessionID}, nil
}

// Logout revokes the session behind token. Unknown or already revoked
// sessions are not an error.
func (m Manager) Logout(sessions SessionStore, token string) error {
	claims, err := m.signer.Parse(token)
	if err != nil {
		return nil
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil
	}
	if err := sessions.Revoke(sessionID, m.now().UTC()); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// EnsureAdmin creates the administrator account when no user with username
// exists. It reports whether a user was created.
func EnsureAdmin(users UserStore, username, password string) (bool, error) {
	_, err := users.FindByUsername(username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if err := users.Add(&models.User{Username: username, PasswordHash: hash}); err != nil {
		return false, fmt.Errorf("create admin %s: %w", username, err)
	}
	return true, nil
}

// HasPassword reports whether username exists and its stored hash matches
// password.
func HasPassword(users UserStore, username, password string) (bool, error) {
	user, err := users.FindByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return CheckPassword(user.PasswordHash, password)
}
