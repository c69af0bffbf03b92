// Package auth verifies credentials and manages bearer tokens.
package auth

import (
	"context"
	"strings"

	"qbit-backend/internal/common/clock"
	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/common/logger"
)

const (
	msgMissingCredentials = "Both email and password are required."
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidToken       = "Invalid or expired token"
	msgRevokedToken       = "Token has been revoked"
)

type Service struct {
	config  *Config
	logger  logger.Logger
	clock   clock.Clock
	store   CredentialStore
	revoker *Revoker
	issuer  *TokenIssuer
}

func NewService(deps ServiceDependencies, config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.NewConfigurationError("Authentication is not configured", err.Error())
	}

	c := clock.Or(deps.Clock)
	return &Service{
		config:  config,
		logger:  deps.Logger,
		clock:   c,
		store:   deps.Store,
		revoker: deps.Revoker,
		issuer:  NewTokenIssuer(config, c),
	}, nil
}

// Login checks the password against the registration record and mints a token.
func (s *Service) Login(ctx context.Context, input *Input) (*Output, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, errors.NewInvalidArgumentError(msgMissingCredentials, "")
	}

	form, err := s.store.FindFormByEmail(ctx, email)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			s.logger.Info("Login rejected", map[string]interface{}{"email": email, "reason": "unknown_email"})
			return nil, errors.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, err
	}

	if !CheckPassword(form.Password, input.Password) {
		s.logger.Info("Login rejected", map[string]interface{}{"email": email, "reason": "password_mismatch"})
		return nil, errors.NewUnauthorizedError(msgInvalidCredentials)
	}

	token, _, err := s.issuer.Issue(form.ID, form.Role)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	s.logger.Info("Login successful", map[string]interface{}{"user_id": form.ID, "role": form.Role})

	return &Output{
		Message: "Login successful",
		Token:   token,
		User: LoginUser{
			ID:        form.ID,
			Email:     form.Email,
			Role:      form.Role,
			FirstName: form.FirstName,
			LastName:  form.LastName,
		},
	}, nil
}

// Verify parses token and rejects it when revoked.
func (s *Service) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, errors.NewUnauthorizedError(msgInvalidToken)
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, RevocationKey(token, claims))
		if err != nil {
			return nil, errors.NewStoreError("check token revocation", err)
		}
		if revoked {
			return nil, errors.NewUnauthorizedError(msgRevokedToken)
		}
	}
	return claims, nil
}

// Session describes a verified token.
func (s *Service) Session(ctx context.Context, token string) (*Session, error) {
	claims, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:    claims.UserID,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.Verify(ctx, token)
	if err != nil {
		return err
	}
	if s.revoker == nil {
		return errors.NewConfigurationError("Token revocation is not configured", "logout requires Redis")
	}

	ttl := claims.ExpiresAt.Time.Sub(s.clock.Now())
	if err := s.revoker.Revoke(ctx, RevocationKey(token, claims), ttl); err != nil {
		return errors.NewStoreError("revoke token", err)
	}

	s.logger.Info("Token revoked", map[string]interface{}{"user_id": claims.UserID, "jti": claims.ID})
	return nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
