package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/zaviagodev/ai-commerce-sub002/internal/auth"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// SignDevToken prints a bearer token for USER_ID, bound to STORE_NAME when set
func SignDevToken() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if cfg.Supabase.JWTSecret == "" {
		return ierr.NewError("jwt secret not configured").
			WithHint("Set supabase.jwt_secret").
			Mark(ierr.ErrValidation)
	}

	userID := os.Getenv("USER_ID")
	if userID == "" {
		userID = types.DefaultUserID
	}

	token, err := auth.SignToken(cfg.Supabase.JWTSecret, auth.Claims{
		UserID:    userID,
		Email:     os.Getenv("USER_EMAIL"),
		StoreName: os.Getenv("STORE_NAME"),
	}, 24*time.Hour)
	if err != nil {
		return err
	}

	fmt.Printf("Authorization: Bearer %s\n", token)
	return nil
}
