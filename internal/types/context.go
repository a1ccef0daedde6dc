package types

import (
	"context"
	"strings"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxStoreName ContextKey = "ctx_store_name"
	CtxUserID    ContextKey = "ctx_user_id"
	CtxJWT       ContextKey = "ctx_jwt"

	// Default values
	DefaultStoreName = "default"
	DefaultUserID    = "00000000-0000-0000-0000-000000000000"
)

// StoreContext identifies the merchant store and the staff user acting on it.
// It is passed explicitly into engine and repository calls instead of being
// read from a process-wide session.
type StoreContext struct {
	StoreName string `json:"storeName"`
	UserID    string `json:"userId"`
}

// NewStoreContext normalises the store name so lookups are case-insensitive.
func NewStoreContext(storeName, userID string) StoreContext {
	return StoreContext{
		StoreName: strings.ToLower(strings.TrimSpace(storeName)),
		UserID:    userID,
	}
}

// IsZero reports whether no store has been selected.
func (s StoreContext) IsZero() bool {
	return s.StoreName == ""
}

// Owns reports whether a record scoped to storeName belongs to this store.
// Records without a store name are treated as belonging to every store.
func (s StoreContext) Owns(storeName string) bool {
	return storeName == "" || strings.EqualFold(s.StoreName, storeName)
}

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

func GetStoreName(ctx context.Context) string {
	if storeName, ok := ctx.Value(CtxStoreName).(string); ok {
		return storeName
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func GetJWT(ctx context.Context) string {
	if jwt, ok := ctx.Value(CtxJWT).(string); ok {
		return jwt
	}
	return ""
}

// GetStoreContext builds the StoreContext from the values the auth middleware
// placed on the request context.
func GetStoreContext(ctx context.Context) StoreContext {
	return NewStoreContext(GetStoreName(ctx), GetUserID(ctx))
}

// WithStoreContext stores both the store name and user ID in the context
func WithStoreContext(ctx context.Context, sc StoreContext) context.Context {
	ctx = context.WithValue(ctx, CtxStoreName, sc.StoreName)
	return context.WithValue(ctx, CtxUserID, sc.UserID)
}

// SetRequestID sets the request ID in the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}
