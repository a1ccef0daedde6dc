package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
)

// supabaseAuth validates the HS256 access tokens Supabase issues for
// dashboard users
type supabaseAuth struct {
	secret []byte
}

func NewSupabaseAuth(cfg *config.Configuration) Provider {
	return &supabaseAuth{
		secret: []byte(cfg.Supabase.JWTSecret),
	}
}

func (s *supabaseAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ierr.NewError("jwt secret not configured").
			WithHint("Token authentication is not configured").
			Mark(ierr.ErrPermissionDenied)
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewErrorf("unexpected signing method: %v", token.Header["alg"]).
				WithHint("Invalid token").
				Mark(ierr.ErrPermissionDenied)
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Token parse error").
			Mark(ierr.ErrPermissionDenied)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrPermissionDenied)
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil, ierr.NewError("token missing user ID").
			WithHint("Token missing user ID").
			Mark(ierr.ErrPermissionDenied)
	}

	result := &Claims{UserID: userID}
	result.Email, _ = claims["email"].(string)

	// store_name lives in app_metadata, which only the service role can write
	if appMetadata, ok := claims["app_metadata"].(map[string]interface{}); ok {
		if store, ok := appMetadata["store_name"].(string); ok {
			result.StoreName = strings.ToLower(strings.TrimSpace(store))
		}
	}

	return result, nil
}

// SignToken issues a token in the shape Supabase uses. It backs local
// tooling and tests; production tokens come from Supabase itself.
func SignToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"sub":  claims.UserID,
		"role": "authenticated",
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	if claims.Email != "" {
		mapClaims["email"] = claims.Email
	}
	if claims.StoreName != "" {
		mapClaims["app_metadata"] = map[string]interface{}{
			"store_name": claims.StoreName,
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to sign token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}
