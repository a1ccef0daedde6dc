package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/zaviagodev/ai-commerce-sub002/internal/config"
)

// HashAPIKey creates a SHA-256 hash of the API key
func HashAPIKey(key string) string {
	hasher := sha256.New()
	hasher.Write([]byte(key))
	return hex.EncodeToString(hasher.Sum(nil))
}

// GenerateAPIKey generates a new API key
// The key is returned in its raw form, only its hash goes into config
func GenerateAPIKey() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return hex.EncodeToString(key)
}

// ValidateAPIKey looks the hashed key up in auth.api_keys and returns the
// store it is bound to
func ValidateAPIKey(cfg *config.Configuration, key string) (string, bool) {
	store, exists := cfg.Auth.APIKeys[HashAPIKey(key)]
	if !exists {
		return "", false
	}
	store = strings.ToLower(strings.TrimSpace(store))
	return store, store != ""
}
