package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/database"
	"github.com/rpupo63/ailabs-portal-backend/errs"
)

func newTestDatabase(t *testing.T) database.Database {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}
	return database.New(db)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "admin123" {
		t.Fatal("password stored in clear")
	}

	if ok, err := CheckPassword(hash, "admin123"); !ok || err != nil {
		t.Errorf("CheckPassword(correct) = %v, %v", ok, err)
	}
	if ok, err := CheckPassword(hash, "wrong"); ok || err != nil {
		t.Errorf("CheckPassword(wrong) = %v, %v", ok, err)
	}
}

func TestSignerRejectsTampering(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	signer := NewSigner("secret-a", c.now)

	token, err := signer.Sign(uuid.New(), uuid.New(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewSigner("secret-b", c.now).Parse(token); !errs.IsInvalidTokenError(err) {
		t.Errorf("wrong secret: err = %v, want invalid token", err)
	}

	c.t = c.t.Add(2 * time.Hour)
	if _, err := signer.Parse(token); !errs.IsTokenExpiredError(err) {
		t.Errorf("expired: err = %v, want token expired", err)
	}
}

func TestLoginAuthenticateLogout(t *testing.T) {
	d := newTestDatabase(t)
	c := &clock{t: time.Now().UTC()}
	m := NewManager("test-secret", time.Hour, c.now)

	created, err := EnsureAdmin(d.UserRepo(), "admin", "admin123")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin = %v, %v", created, err)
	}
	created, err = EnsureAdmin(d.UserRepo(), "admin", "other")
	if err != nil || created {
		t.Fatalf("second EnsureAdmin = %v, %v; want no-op", created, err)
	}

	if _, err := m.Login(d.UserRepo(), d.SessionRepo(), "admin", "nope", "", ""); !errs.IsInvalidCredentialsError(err) {
		t.Errorf("bad password: err = %v", err)
	}
	if _, err := m.Login(d.UserRepo(), d.SessionRepo(), "ghost", "admin123", "", ""); !errs.IsInvalidCredentialsError(err) {
		t.Errorf("unknown user: err = %v", err)
	}

	token, err := m.Login(d.UserRepo(), d.SessionRepo(), "admin", "admin123", "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	identity, err := m.Authenticate(d.SessionRepo(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	user, _ := d.UserRepo().FindByUsername("admin")
	if identity.UserID != user.ID {
		t.Errorf("identity user = %s, want %s", identity.UserID, user.ID)
	}
	if user.LastLoginAt == nil {
		t.Error("last login not recorded")
	}

	if err := m.Logout(d.SessionRepo(), token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := m.Authenticate(d.SessionRepo(), token); errs.StatusCode(err) != 401 {
		t.Errorf("after logout: err = %v, want 401", err)
	}
	if err := m.Logout(d.SessionRepo(), token); err != nil {
		t.Errorf("second Logout = %v, want nil", err)
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	d := newTestDatabase(t)
	m := NewManager("s", 0, nil)
	if _, err := m.Authenticate(d.SessionRepo(), ""); !errs.IsMissingTokenError(err) {
		t.Errorf("err = %v, want missing token", err)
	}
	if m.TTL() != DefaultSessionTTL {
		t.Errorf("TTL = %v, want default", m.TTL())
	}
}

func TestHasPassword(t *testing.T) {
	db := newTestDatabase(t)
	users := db.UserRepo()

	if ok, err := HasPassword(users, "admin", "admin123"); ok || err != nil {
		t.Errorf("HasPassword(no user) = %v, %v; want false, nil", ok, err)
	}

	created, err := EnsureAdmin(users, "admin", "admin123")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin = %v, %v", created, err)
	}
	// A later boot finds the existing row and still sees the default password.
	if created, err := EnsureAdmin(users, "admin", "other"); err != nil || created {
		t.Fatalf("second EnsureAdmin = %v, %v; want false, nil", created, err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{"admin123", true},
		{"other", false},
	}
	for _, tt := range tests {
		got, err := HasPassword(users, "admin", tt.password)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("HasPassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}
