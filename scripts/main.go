package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zaviagodev/ai-commerce-sub002/scripts/internal"
)

// Command represents a script that can be run
type Command struct {
	Name        string
	Description string
	Run         func() error
}

var commands = []Command{
	{
		Name:        "generate-apikey",
		Description: "Generate a new API key bound to a store",
		Run:         internal.GenerateNewAPIKey,
	},
	{
		Name:        "sign-token",
		Description: "Sign a development bearer token with the configured Supabase JWT secret",
		Run:         internal.SignDevToken,
	},
	{
		Name:        "sync-statuses",
		Description: "Run one coupon status sync for a store",
		Run:         internal.SyncCouponStatuses,
	},
}

func main() {
	var (
		listCommands bool
		cmdName      string
		storeName    string
		userID       string
		email        string
	)

	flag.BoolVar(&listCommands, "list", false, "List all available commands")
	flag.StringVar(&cmdName, "cmd", "", "Command to run")
	flag.StringVar(&storeName, "store-name", "", "Store the command acts on")
	flag.StringVar(&userID, "user-id", "", "User ID for token operations")
	flag.StringVar(&email, "user-email", "", "Email for token operations")

	flag.Parse()

	if listCommands {
		fmt.Println("Available commands:")
		for _, cmd := range commands {
			fmt.Printf("  %-20s %s\n", cmd.Name, cmd.Description)
		}
		return
	}

	if cmdName == "" {
		log.Fatal("Please specify a command to run using -cmd flag. Use -list to see available commands.")
	}

	// Set command-specific environment variables
	if storeName != "" {
		os.Setenv("STORE_NAME", storeName)
	}
	if userID != "" {
		os.Setenv("USER_ID", userID)
	}
	if email != "" {
		os.Setenv("USER_EMAIL", email)
	}

	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err := cmd.Run(); err != nil {
				log.Fatalf("Error running command %s: %v", cmdName, err)
			}
			return
		}
	}

	log.Fatalf("Unknown command: %s. Use -list to see available commands.", cmdName)
}
