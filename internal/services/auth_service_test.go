package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moodtunes/go-mood-backend/internal/domain"
)

func newAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:authsvc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	// MinCost keeps hashing fast in tests.
	return &AuthService{DB: newAuthDB(t), BcryptCost: bcrypt.MinCost}
}

func TestAuthService_Signup_Success(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, "  Maya  ", "  Maya@Example.COM ", "sekret1")
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if u.ID == "" || u.Name != "Maya" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Email != "maya@example.com" {
		t.Fatalf("expected lowercased email, got %q", u.Email)
	}
	if u.PasswordHash == "sekret1" || u.PasswordHash == "" {
		t.Fatalf("password stored insecurely: %q", u.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("sekret1")) != nil {
		t.Fatalf("stored hash does not verify the password")
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name, userName, email, password string
		want                            error
	}{
		{"empty name", "  ", "a@b.com", "sekret1", ErrInvalidCredentials},
		{"empty email", "A", "", "sekret1", ErrInvalidCredentials},
		{"email without at", "A", "not-an-email", "sekret1", ErrInvalidCredentials},
		{"short password", "A", "a@b.com", "12345", ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Signup(ctx, tc.userName, tc.email, tc.password); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "A", "dup@example.com", "sekret1"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	// Same address in different case must still collide.
	if _, err := svc.Signup(ctx, "B", "DUP@example.com", "sekret2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Maya", "maya@example.com", "sekret1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	u, err := svc.Login(ctx, "MAYA@example.com", "sekret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if u.ID != created.ID {
		t.Fatalf("expected user %s, got %s", created.ID, u.ID)
	}

	if _, err := svc.Login(ctx, "maya@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "sekret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestEmailDomain(t *testing.T) {
	cases := map[string]string{
		"a@b.com":     "b.com",
		"x@y@z.org":   "z.org",
		"no-at":       "",
		"trailing@":   "",
		"":            "",
		"u@mail.shop": "mail.shop",
	}
	for in, want := range cases {
		if got := emailDomain(in); got != want {
			t.Fatalf("emailDomain(%q) = %q, want %q", in, got, want)
		}
	}
}
