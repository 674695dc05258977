package service

import (
	"fmt"

	"creative-tools-api/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// supabaseClaims is the subset of a Supabase access token we read.
type supabaseClaims struct {
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	Role         string                 `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	supabaseClient domain.SupabaseClient
	jwtSecret      []byte
	logger         domain.Logger
}

// NewAuthService validates tokens locally with the project's JWT secret when
// one is configured and falls back to asking GoTrue otherwise.
func NewAuthService(
	supabaseClient domain.SupabaseClient,
	jwtSecret string,
	logger domain.Logger,
) *authService {
	return &authService{
		supabaseClient: supabaseClient,
		jwtSecret:      []byte(jwtSecret),
		logger:         logger,
	}
}

// ValidateToken validates a token and returns user info
func (s *authService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	if len(s.jwtSecret) > 0 {
		return s.validateLocally(token)
	}

	if s.supabaseClient == nil {
		return nil, fmt.Errorf("%w: no token validator configured", domain.ErrInvalidToken)
	}
	user, err := s.supabaseClient.ValidateToken(token)
	if err != nil {
		s.logger.Error("Failed to validate token with Supabase", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return user, nil
}

func (s *authService) validateLocally(token string) (*domain.SupabaseUser, error) {
	claims := &supabaseClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		s.logger.Debug("Rejected access token", "error", fmt.Sprint(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.Role == "anon" {
		return nil, fmt.Errorf("%w: token has no user", domain.ErrInvalidToken)
	}

	user := &domain.SupabaseUser{
		ID:           claims.Subject,
		Email:        claims.Email,
		Role:         claims.Role,
		UserMetadata: claims.UserMetadata,
	}
	if claims.IssuedAt != nil {
		user.CreatedAt = claims.IssuedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return user, nil
}
