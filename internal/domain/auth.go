package domain

import "github.com/supabase-community/supabase-go"

// SupabaseUser is the authenticated caller. ID is the key of the user's
// subscription record.
type SupabaseUser struct {
	ID            string                 `json:"id"`
	Email         string                 `json:"email"`
	EmailVerified bool                   `json:"email_verified"`
	Role          string                 `json:"role,omitempty"`
	UserMetadata  map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt     string                 `json:"created_at,omitempty"`
	UpdatedAt     string                 `json:"updated_at,omitempty"`
}

// AuthService turns a bearer token into a user. Any failure wraps ErrInvalidToken.
type AuthService interface {
	ValidateToken(token string) (*SupabaseUser, error)
}

// SupabaseClient is the hosted project: GoTrue for tokens, PostgREST for rows.
type SupabaseClient interface {
	Initialize() error
	ValidateToken(token string) (*SupabaseUser, error)
	DB() *supabase.Client
}
