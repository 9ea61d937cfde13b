package service

import (
	"errors"
	"testing"
	"time"

	"taptap/config"
	"taptap/internal/auth"
	"taptap/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type memCredentials struct {
	m      map[uint]*models.User
	nextID uint
}

func (f *memCredentials) Create(u *models.User) error {
	f.nextID++
	u.ID = f.nextID
	f.m[u.ID] = u
	return nil
}

func (f *memCredentials) GetByID(id uint) (*models.User, error) {
	if u, ok := f.m[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *memCredentials) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.m {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *memCredentials) GetByHandle(handle string) (*models.User, error) {
	for _, u := range f.m {
		if u.Handle == handle {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newAuthFixture() (*AuthService, *memCredentials) {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "taptap-test",
		},
	}
	store := &memCredentials{m: map[uint]*models.User{}}
	return NewAuthService(cfg, store), store
}

func TestRegisterIssuesBothTokens(t *testing.T) {
	svc, store := newAuthFixture()
	u, access, refresh, err := svc.Register("ana@example.com", "ana", "hunter2hunter2", "Ana", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("both tokens must be issued")
	}
	if store.m[u.ID] == nil {
		t.Fatal("user must be persisted")
	}
	claims, err := auth.ParseAccessToken(&svc.cfg.JWT, access)
	if err != nil {
		t.Fatalf("access token must parse: %v", err)
	}
	if claims.UserID != u.ID {
		t.Fatalf("token subject = %d, want %d", claims.UserID, u.ID)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newAuthFixture()
	if _, _, _, err := svc.Register("ana@example.com", "ana", "hunter2hunter2", "", "", ""); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := svc.Register("ana@example.com", "other", "hunter2hunter2", "", "", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, _, _, err := svc.Register("other@example.com", "ana", "hunter2hunter2", "", "", ""); !errors.Is(err, ErrHandleExists) {
		t.Fatalf("expected ErrHandleExists, got %v", err)
	}
}

func TestLoginIssuesBothTokens(t *testing.T) {
	svc, store := newAuthFixture()
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	store.Create(&models.User{Email: "ben@example.com", Handle: "ben", PasswordHash: string(hash)})

	_, access, refresh, err := svc.Login("ben@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("both tokens must be issued")
	}
	if _, _, _, err := svc.Login("ben@example.com", "wrong"); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("expected ErrInvalidCreds, got %v", err)
	}
}

func TestLoginRejectsBanned(t *testing.T) {
	svc, store := newAuthFixture()
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	store.Create(&models.User{Email: "cal@example.com", Handle: "cal", PasswordHash: string(hash), IsBanned: true})

	if _, _, _, err := svc.Login("cal@example.com", "hunter2hunter2"); !errors.Is(err, ErrBanned) {
		t.Fatalf("expected ErrBanned, got %v", err)
	}
}

func TestRefreshTokenRotatesPair(t *testing.T) {
	svc, _ := newAuthFixture()
	_, _, refresh, err := svc.Register("dee@example.com", "dee", "hunter2hunter2", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	access2, refresh2, err := svc.RefreshToken(refresh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access2 == "" || refresh2 == "" {
		t.Fatal("refresh must issue a full token pair")
	}
	if _, _, err := svc.RefreshToken("not-a-token"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
