package service

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/modules/auth/domain"
	authout "storefront/internal/modules/auth/port/out"
	apperrors "storefront/internal/platform/errors"
)

type AuthService struct {
	flags  authout.FlagStore
	creds  domain.Credentials
	logger *slog.Logger
}

func NewAuthService(flags authout.FlagStore, creds domain.Credentials, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{flags: flags, creds: creds, logger: logger.With("component", "auth")}
}

func (s *AuthService) Login(ctx context.Context, username, password string) error {
	if !s.creds.Match(username, password) {
		s.logger.Info("login rejected", "username", username)
		return apperrors.ErrInvalidCredentials
	}
	if err := s.flags.Set(ctx, domain.FlagKey, domain.FlagValue); err != nil {
		return fmt.Errorf("store auth flag: %w", err)
	}
	s.logger.Info("login accepted", "username", username)
	return nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.flags.Remove(ctx, domain.FlagKey); err != nil {
		return fmt.Errorf("clear auth flag: %w", err)
	}
	return nil
}

// IsAuthenticated is true only when the stored flag is exactly "true".
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	var value string
	if !s.flags.Get(ctx, domain.FlagKey, &value) {
		return false
	}
	return value == domain.FlagValue
}
