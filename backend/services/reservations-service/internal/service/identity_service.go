package service

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"evcharge/backend/services/reservations-service/internal/auth"
)

// ErrBadCredentials represents a failed login.
var ErrBadCredentials = errors.New("invalid credentials")

// IdentityService issues tokens for the two frontend roles. User identity is
// demo-grade on purpose (any non-empty email/password pair), admin identity
// checks the configured operator account.
type IdentityService struct {
	tokens        *auth.TokenService
	adminEmail    string
	adminPassHash []byte
	logger        *zap.Logger
}

// NewIdentityService builds the service, hashing the configured admin
// password so the plaintext never lives past construction.
func NewIdentityService(tokens *auth.TokenService, adminEmail, adminPassword string, logger *zap.Logger) (*IdentityService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &IdentityService{
		tokens:        tokens,
		adminEmail:    strings.ToLower(strings.TrimSpace(adminEmail)),
		adminPassHash: hash,
		logger:        logger,
	}, nil
}

// LoginUser authenticates an end user and returns a bearer token.
func (s *IdentityService) LoginUser(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrBadCredentials
	}

	token, err := s.tokens.Issue(email, auth.RoleUser)
	if err != nil {
		return "", err
	}

	s.logger.Info("user logged in", zap.String("email", email))
	return token, nil
}

// LoginAdmin authenticates the operator account and returns an admin token.
func (s *IdentityService) LoginAdmin(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || email != s.adminEmail {
		return "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.adminPassHash, []byte(password)); err != nil {
		return "", ErrBadCredentials
	}

	token, err := s.tokens.Issue(email, auth.RoleAdmin)
	if err != nil {
		return "", err
	}

	s.logger.Info("admin logged in", zap.String("email", email))
	return token, nil
}
