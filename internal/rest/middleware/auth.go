package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zaviagodev/ai-commerce-sub002/internal/auth"
	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
	"github.com/zaviagodev/ai-commerce-sub002/internal/logger"
	"github.com/zaviagodev/ai-commerce-sub002/internal/types"
)

// GuestAuthenticateMiddleware trusts the X-Store-Name header and acts as the
// default user. It is used when auth.enabled is false.
func GuestAuthenticateMiddleware(c *gin.Context) {
	store := c.GetHeader(types.HeaderStoreName)
	if store == "" {
		store = types.DefaultStoreName
	}

	setStoreContext(c, types.NewStoreContext(store, types.DefaultUserID))
	c.Next()
}

// AuthenticateMiddleware authenticates requests based on either:
// 1. an API key in the x-api-key header, bound to one store
// 2. a Supabase JWT in the Authorization header as a Bearer token
// The store comes from the X-Store-Name header and must match the store the
// key or token is bound to, if any.
func AuthenticateMiddleware(cfg *config.Configuration, logger *logger.Logger) gin.HandlerFunc {
	if !cfg.Auth.Enabled {
		return GuestAuthenticateMiddleware
	}

	authProvider := auth.NewProvider(cfg)

	return func(c *gin.Context) {
		requested := strings.ToLower(strings.TrimSpace(c.GetHeader(types.HeaderStoreName)))

		if apiKey := c.GetHeader(types.HeaderAPIKey); apiKey != "" {
			store, valid := auth.ValidateAPIKey(cfg, apiKey)
			if !valid {
				logger.Debugw("invalid api key")
				abortUnauthorized(c, "Invalid API key")
				return
			}
			if requested != "" && requested != store {
				abortForbidden(c, store, requested)
				return
			}

			setStoreContext(c, types.NewStoreContext(store, types.DefaultUserID))
			c.Next()
			return
		}

		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			abortUnauthorized(c, "Unauthorized")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := authProvider.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			abortUnauthorized(c, "Invalid token")
			return
		}

		store := requested
		switch {
		case claims.StoreName != "" && store == "":
			store = claims.StoreName
		case claims.StoreName != "" && store != claims.StoreName:
			abortForbidden(c, claims.StoreName, requested)
			return
		case store == "":
			c.AbortWithStatusJSON(http.StatusBadRequest, errorBody("Missing "+types.HeaderStoreName+" header"))
			return
		}

		ctx := context.WithValue(c.Request.Context(), types.CtxJWT, tokenString)
		c.Request = c.Request.WithContext(ctx)
		setStoreContext(c, types.NewStoreContext(store, claims.UserID))
		c.Next()
	}
}

func setStoreContext(c *gin.Context, sc types.StoreContext) {
	c.Request = c.Request.WithContext(types.WithStoreContext(c.Request.Context(), sc))
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(message))
}

func abortForbidden(c *gin.Context, allowed, requested string) {
	body := errorBody("You do not have access to this store")
	body.Error.Details = map[string]any{
		"store_name":    requested,
		"allowed_store": allowed,
	}
	c.AbortWithStatusJSON(http.StatusForbidden, body)
}

func errorBody(message string) ierr.ErrorResponse {
	return ierr.ErrorResponse{
		Success: false,
		Error:   ierr.ErrorDetail{Display: message},
	}
}
