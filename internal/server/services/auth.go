package services

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/cryptox"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/auth"
	"github.com/dmitrijs2005/fileboard/internal/server/config"
)

// AuthService gates the dashboard behind the single configured operator.
type AuthService struct {
	username                    string
	passwordHash                string
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	log                         logging.Logger
}

func NewAuthService(cfg *config.Config, log logging.Logger) *AuthService {
	return &AuthService{
		username:                    cfg.AdminUsername,
		passwordHash:                cfg.AdminPasswordHash,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		log:                         log.With("module", "auth"),
	}
}

func (s *AuthService) TokenValidity() time.Duration {
	return s.accessTokenValidityDuration
}

// Login checks the credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if s.passwordHash == "" {
		s.log.Warn(ctx, "login refused, no admin password hash configured")
		return "", common.ErrorUnauthorized
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK, err := cryptox.VerifyPassword(s.passwordHash, password)
	if err != nil {
		s.log.Error(ctx, "admin password hash is malformed", "error", err)
		return "", common.ErrorInternal
	}
	if !userOK || !passOK {
		s.log.Warn(ctx, "login failed", "username", username)
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(s.username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", err
	}
	s.log.Info(ctx, "login", "username", username)
	return token, nil
}

// Authenticate returns the operator name carried by token.
func (s *AuthService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", common.ErrInvalidToken
	}
	name, err := auth.UsernameFromToken(token, s.jwtSecret)
	if err != nil {
		return "", err
	}
	if name != s.username {
		return "", common.ErrInvalidToken
	}
	return name, nil
}
