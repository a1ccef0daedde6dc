package internal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zaviagodev/ai-commerce-sub002/internal/auth"
	ierr "github.com/zaviagodev/ai-commerce-sub002/internal/errors"
)

// GenerateNewAPIKey generates a new API key for STORE_NAME and prints the
// config entry that enables it
func GenerateNewAPIKey() error {
	storeName := os.Getenv("STORE_NAME")
	if storeName == "" {
		return ierr.NewError("store name is required").
			WithHint("Pass -store-name").
			Mark(ierr.ErrValidation)
	}

	rawKey := auth.GenerateAPIKey()
	hashedKey := auth.HashAPIKey(rawKey)

	jsonBytes, err := json.Marshal(map[string]string{hashedKey: storeName})
	if err != nil {
		return err
	}

	fmt.Printf("\nNew API Key Generated:\n")
	fmt.Printf("Raw Key (give this to the store): %s\n", rawKey)
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("Add this to your config.yaml under auth.api_keys:\n")
	fmt.Printf("  %s: %s\n", hashedKey, storeName)
	fmt.Printf("\nOr set this environment variable:\n")
	fmt.Printf("AICOMMERCE_AUTH_API_KEYS='%s'\n", string(jsonBytes))
	return nil
}
