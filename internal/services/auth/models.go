package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"qbit-backend/internal/common/clock"
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/models"
)

// Input is the /login request body.
type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Claims are the signed token contents.
type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// LoginUser is the profile returned alongside a token.
type LoginUser struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Output struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
}

// Session is what /me reports for a valid token.
type Session struct {
	UserID    int       `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CredentialStore finds the registration record a login is checked against.
type CredentialStore interface {
	FindFormByEmail(ctx context.Context, email string) (*models.UserForm, error)
}

// ServiceDependencies wires the service. Revoker is optional; without it logout is unavailable.
type ServiceDependencies struct {
	Logger  logger.Logger
	Clock   clock.Clock
	Store   CredentialStore
	Revoker *Revoker
}
