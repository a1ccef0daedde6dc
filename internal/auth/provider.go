package auth

import (
	"context"

	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
)

// Claims is the identity carried by a validated bearer token
type Claims struct {
	UserID string
	Email  string
	// StoreName is set when the token is bound to a single store
	StoreName string
}

// Provider validates bearer tokens issued by the identity backend
type Provider interface {
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

func NewProvider(cfg *config.Configuration) Provider {
	return NewSupabaseAuth(cfg)
}
