// Package services – AuthService
//
// This file implements AuthService, which owns account signup and login.
// Passwords are hashed with bcrypt; verification failures collapse into a
// single ErrInvalidCredentials so the API does not leak which part was
// wrong.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the (non-sensitive) email domain only.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/moodtunes/go-mood-backend/internal/domain"
	"github.com/moodtunes/go-mood-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const minPasswordLen = 6

// AuthService coordinates account creation and credential verification.
type AuthService struct {
	DB *gorm.DB

	// BcryptCost overrides the hashing cost; zero means bcrypt.DefaultCost.
	// Tests lower it to keep hashing fast.
	BcryptCost int
}

// Signup registers a new account. The email is stored lowercased and must be
// unique among live accounts.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Signup",
		trace.WithAttributes(attribute.String("email.domain", emailDomain(email))),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredentials
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, name, email, string(hash))
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	return u, err
}

// Login verifies credentials and returns the account on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Login",
		trace.WithAttributes(attribute.String("email.domain", emailDomain(email))),
	)
	defer span.End()

	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// emailDomain returns the part after '@' for span attributes, never the
// full address.
func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 && i+1 < len(email) {
		return email[i+1:]
	}
	return ""
}
