package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dealdesk/dealdesk-api/internal/config"
	"github.com/dealdesk/dealdesk-api/internal/dealform"
	"github.com/dealdesk/dealdesk-api/internal/session"
	"github.com/dealdesk/dealdesk-api/internal/upstream"
)

// AuthClient is the slice of the core API client the auth service needs.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (*upstream.LoginResult, error)
}

// AuthService proxies authentication to the core API. The upstream bearer
// token never reaches the browser: it is kept in the server-side session and
// the client gets a locally minted JWT referencing that session.
type AuthService struct {
	client   AuthClient
	sessions *session.Store
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(client AuthClient, sessions *session.Store, cfg *config.Config) *AuthService {
	return &AuthService{client: client, sessions: sessions, cfg: cfg}
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token string        `json:"token"`
	User  upstream.User `json:"user"`
}

// Login authenticates against the core API and establishes a session. The
// commission type/value reported at login are pinned into the session; the
// deal workflow reads them but never writes them.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	result, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	role, err := dealform.ParseRole(result.User.RoleName)
	if err != nil {
		return nil, errors.New("account role is not supported")
	}

	sess := &session.Session{
		UserID:           result.User.ID,
		Username:         result.User.Username,
		Name:             result.User.Name,
		Email:            result.User.Email,
		Role:             role.String(),
		UpstreamToken:    result.Token,
		CommissionTypeID: result.User.CommissionTypeID,
		CommissionValue:  result.User.CommissionValue,
	}
	sessionID, err := s.sessions.Create(ctx, sess)
	if err != nil {
		return nil, errors.New("failed to establish session")
	}

	token, err := s.generateJWT(result.User, role, sessionID)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResult{Token: token, User: result.User}, nil
}

// Logout destroys the server-side session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// generateJWT creates the local bearer token handed to the client.
func (s *AuthService) generateJWT(user upstream.User, role dealform.Role, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID,
		"username":   user.Username,
		"role":       role.String(),
		"session_id": sessionID,
		"exp":        time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
